// Package displayconfig reads the monitor layout from the Mutter display
// configuration service on the session bus.
package displayconfig

import (
	"context"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/castarea/castarea"
)

// BusName is the well-known name of the Mutter display configuration service.
const BusName = "org.gnome.Mutter.DisplayConfig"

const (
	objectPath = "/org/gnome/Mutter/DisplayConfig"
	iface      = "org.gnome.Mutter.DisplayConfig"
)

// ErrNoDisplays is returned by Client.Displays if no output shows a usable
// part of the canvas.
var ErrNoDisplays = errors.New("no active displays")

type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// CRTC is a CRT controller, scanning out an area of the canvas.
type CRTC struct {
	ID               uint32
	WinsysID         int64
	X                int32
	Y                int32
	Width            int32
	Height           int32
	CurrentMode      int32
	CurrentTransform uint32
	Transforms       []uint32
	Properties       map[string]dbus.Variant
}

// Output is a connector, possibly with a monitor attached.
type Output struct {
	ID            uint32
	WinsysID      int64
	CurrentCRTC   int32 // -1 if the output is disabled.
	PossibleCRTCs []uint32
	Name          string // Connector name, eg "DP-1".
	Modes         []uint32
	Clones        []uint32
	Properties    map[string]dbus.Variant
}

// Mode is a video mode.
type Mode struct {
	ID        uint32
	WinsysID  int64
	Width     uint32
	Height    uint32
	Frequency float64
	Flags     uint32
}

// Resources is the reply of GetResources.
type Resources struct {
	Serial          uint32
	CRTCs           []CRTC
	Outputs         []Output
	Modes           []Mode
	MaxScreenWidth  int32
	MaxScreenHeight int32
}

// Client talks to the display configuration service.
type Client struct {
	obj caller
}

// New returns a client for the service owning busName on conn. If busName is
// empty, BusName is used.
func New(conn *dbus.Conn, busName string) *Client {
	if busName == "" {
		busName = BusName
	}
	return &Client{obj: conn.Object(busName, objectPath)}
}

// GetResources returns the current CRTCs, outputs and modes.
func (c *Client) GetResources(ctx context.Context) (Resources, error) {
	var r Resources
	call := c.obj.CallWithContext(ctx, iface+".GetResources", 0)
	err := call.Store(&r.Serial, &r.CRTCs, &r.Outputs, &r.Modes, &r.MaxScreenWidth, &r.MaxScreenHeight)
	if err != nil {
		return Resources{}, errors.Wrap(err, "calling GetResources")
	}
	return r, nil
}

// Displays returns the outputs that show a valid area of the canvas.
func (c *Client) Displays(ctx context.Context) ([]castarea.Display, error) {
	res, err := c.GetResources(ctx)
	if err != nil {
		return nil, err
	}
	displays := res.Displays()
	if len(displays) == 0 {
		return nil, ErrNoDisplays
	}
	return displays, nil
}

// Displays pairs each enabled output with the CRTC driving it, and returns
// those with a valid area.
func (r Resources) Displays() []castarea.Display {
	crtcs := map[uint32]CRTC{}
	for _, c := range r.CRTCs {
		crtcs[c.ID] = c
	}
	var l []castarea.Display
	for _, o := range r.Outputs {
		if o.CurrentCRTC < 0 {
			continue
		}
		c, ok := crtcs[uint32(o.CurrentCRTC)]
		if !ok {
			continue
		}
		name := strings.TrimSpace(stringProp(o.Properties, "display-name") + " " + stringProp(o.Properties, "product"))
		if name == "" {
			name = o.Name
		}
		l = append(l, castarea.Display{
			Name:         name,
			Connector:    stringProp(o.Properties, "connector-type"),
			Presentation: boolProp(o.Properties, "presentation"),
			Primary:      boolProp(o.Properties, "primary"),
			Area: castarea.Rect{
				X:      int(c.X),
				Y:      int(c.Y),
				Width:  int(c.Width),
				Height: int(c.Height),
			},
		})
	}
	return castarea.FilterDisplays(l)
}

func stringProp(props map[string]dbus.Variant, key string) string {
	s, _ := props[key].Value().(string)
	return s
}

func boolProp(props map[string]dbus.Variant, key string) bool {
	b, _ := props[key].Value().(bool)
	return b
}
