// Package camera describes webcams and the capture formats they offer.
package camera

import (
	"context"
	"fmt"
	"sort"

	"github.com/castarea/castarea"
)

// Cap types as named by gstreamer.
const (
	TypeRaw  = "video/x-raw"
	TypeJPEG = "image/jpeg"
)

// DeviceCap describes a capability of a device.
type DeviceCap struct {
	Type      string // "video/x-raw" or "image/jpeg"
	Width     int
	Height    int
	Framerate int // Frames per second, 0 if unknown.
}

// String returns the cap as a gstreamer caps string, for use in a pipeline.
func (c DeviceCap) String() string {
	s := fmt.Sprintf("%s,width=%d,height=%d", c.Type, c.Width, c.Height)
	if c.Framerate > 0 {
		s += fmt.Sprintf(",framerate=%d/1", c.Framerate)
	}
	return s
}

// Size returns the frame size of the cap.
func (c DeviceCap) Size() castarea.Size {
	return castarea.Size{Width: c.Width, Height: c.Height}
}

// Device is a camera device capable of recording images.
type Device struct {
	Name string
	ID   string // Device path, eg /dev/video0.
	Caps []DeviceCap
}

// Lister returns the available camera devices.
type Lister func(ctx context.Context) ([]Device, error)

// ClosestCap returns the JPEG cap with the smallest width that is at least
// minWidth. Among caps of equal width, the smallest height wins, then the
// highest framerate. ClosestCap returns false if no cap qualifies.
func ClosestCap(caps []DeviceCap, minWidth int) (DeviceCap, bool) {
	var l []DeviceCap
	for _, c := range caps {
		if c.Type == TypeJPEG && c.Width >= minWidth {
			l = append(l, c)
		}
	}
	if len(l) == 0 {
		return DeviceCap{}, false
	}
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i], l[j]
		if a.Width != b.Width {
			return a.Width < b.Width
		}
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		return a.Framerate > b.Framerate
	})
	return l[0], true
}
