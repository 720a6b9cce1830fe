package castarea_test

import (
	"reflect"
	"testing"

	"github.com/castarea/castarea"
)

func TestFilterDisplays(t *testing.T) {
	mk := func(name string, x, y, w, h int) castarea.Display {
		return castarea.Display{Name: name, Area: castarea.Rect{X: x, Y: y, Width: w, Height: h}}
	}
	in := []castarea.Display{
		mk("laptop", 0, 0, 1920, 1080),
		mk("zero width", 0, 0, 0, 1080),
		mk("zero height", 1920, 0, 2560, 0),
		mk("negative x", -1, 0, 1920, 1080),
		mk("negative y", 0, -1080, 1920, 1080),
		mk("negative width", 0, 0, -1920, 1080),
		mk("external", 1920, 0, 2560, 1440),
	}
	r := castarea.FilterDisplays(in)
	exp := []castarea.Display{in[0], in[6]}
	if !reflect.DeepEqual(r, exp) {
		t.Fatalf("filter displays, got %v, expected %v", r, exp)
	}

	r = castarea.FilterDisplays(nil)
	if len(r) != 0 {
		t.Fatalf("filter nil displays, got %v, expected none", r)
	}
}

func TestDisplayDescribe(t *testing.T) {
	tests := []struct {
		d   castarea.Display
		exp string
	}{
		{castarea.Display{Name: "Built-in display", Connector: "eDP"}, "Built-in display, connected via eDP"},
		{castarea.Display{Name: "DELL U2715H", Connector: "DisplayPort", Primary: true}, "DELL U2715H, connected via DisplayPort (primary)"},
		{castarea.Display{Name: "Projector", Connector: "HDMI", Presentation: true, Primary: true}, "Projector, connected via HDMI (presentation) (primary)"},
	}
	for _, tc := range tests {
		if s := tc.d.Describe(); s != tc.exp {
			t.Errorf("describe %#v, got %q, expected %q", tc.d, s, tc.exp)
		}
	}
}
