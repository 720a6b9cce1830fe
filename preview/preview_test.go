package preview

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/castarea/castarea"
)

func TestCompose(t *testing.T) {
	red := imaging.New(64, 48, color.NRGBA{255, 0, 0, 255})
	screen := castarea.Size{Width: 1920, Height: 1080}
	overlay := castarea.Rect{X: 1590, Y: 830, Width: 320, Height: 240}

	img := Compose(screen, overlay, red, 480)
	if b := img.Bounds(); b.Dx() != 480 || b.Dy() != 270 {
		t.Fatalf("canvas size, got %v, expected 480x270", b)
	}

	isRed := func(c color.NRGBA) bool { return c.R > 200 && c.G < 50 && c.B < 50 }
	if c := img.NRGBAAt(0, 0); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("expected black at origin, got %v", c)
	}
	// Overlay scaled by a quarter: 398,208 80x60.
	if c := img.NRGBAAt(437, 237); !isRed(c) {
		t.Errorf("expected red in overlay, got %v", c)
	}
	if c := img.NRGBAAt(390, 237); isRed(c) {
		t.Errorf("expected black left of overlay, got %v", c)
	}

	img = Compose(screen, overlay, nil, 0)
	if b := img.Bounds(); b.Dx() != 1920 || b.Dy() != 1080 {
		t.Fatalf("unscaled canvas size, got %v", b)
	}
	if c := img.NRGBAAt(1700, 900); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("expected black canvas without frame, got %v", c)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	img := Compose(castarea.Size{Width: 160, Height: 90}, castarea.Rect{}, nil, 0)
	if err := Write(path, img); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open written preview: %v", err)
	}
	if r.Bounds() != image.Rect(0, 0, 160, 90) {
		t.Fatalf("written preview bounds %v", r.Bounds())
	}

	if err := Write(filepath.Join(t.TempDir(), "preview.unknown"), img); err == nil {
		t.Fatalf("missing error for unknown extension")
	}
}
