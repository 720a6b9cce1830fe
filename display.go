// Package castarea records a screen area through the GNOME Shell screencast
// service, optionally with a webcam overlaid in the corner.
package castarea

import (
	"fmt"
)

// Rect is an area on the global display canvas, in pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Valid reports whether r has a non-negative origin and a positive size.
func (r Rect) Valid() bool {
	return r.X >= 0 && r.Y >= 0 && r.Width > 0 && r.Height > 0
}

// Size returns the dimensions of r.
func (r Rect) Size() Size {
	return Size{r.Width, r.Height}
}

// String returns r as WxH+X+Y.
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// Display is a monitor that is currently showing part of the canvas.
type Display struct {
	Name         string // Display name and product, eg "Dell Inc. 27\" DELL U2715H".
	Connector    string // Connector type, eg "DisplayPort" or "eDP".
	Presentation bool
	Primary      bool
	Area         Rect // Where on the canvas this display is shown.
}

// Describe returns a one-line human-readable description of d.
func (d Display) Describe() string {
	s := fmt.Sprintf("%s, connected via %s", d.Name, d.Connector)
	if d.Presentation {
		s += " (presentation)"
	}
	if d.Primary {
		s += " (primary)"
	}
	return s
}

// FilterDisplays returns the displays with a valid area, in their original
// order. Disabled or mirrored outputs can report empty or negative areas.
func FilterDisplays(displays []Display) []Display {
	r := []Display{}
	for _, d := range displays {
		if !d.Area.Valid() {
			continue
		}
		r = append(r, d)
	}
	return r
}
