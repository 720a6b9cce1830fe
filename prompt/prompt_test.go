package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/castarea/castarea"
	"github.com/castarea/castarea/camera"
)

func TestReadIndex(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("abc\n\n7\n-1\n 2 \n"), &out)
	i, err := p.ReadIndex(0, 3)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if i != 2 {
		t.Fatalf("read index, got %d, expected 2", i)
	}
	exp := strings.Repeat("Invalid index, try again\n> ", 4)
	if out.String() != exp {
		t.Fatalf("output, got %q, expected %q", out.String(), exp)
	}
}

func TestReadIndexEOF(t *testing.T) {
	p := New(strings.NewReader("x\n"), &bytes.Buffer{})
	if _, err := p.ReadIndex(0, 3); err == nil {
		t.Fatalf("missing error for input without a valid index")
	}

	// Last line without newline is still accepted.
	p = New(strings.NewReader("1"), &bytes.Buffer{})
	i, err := p.ReadIndex(0, 3)
	if err != nil || i != 1 {
		t.Fatalf("read index at EOF, got %d, %v", i, err)
	}
}

func TestSelectDisplay(t *testing.T) {
	displays := []castarea.Display{
		{Name: "Built-in display", Connector: "eDP", Primary: true},
		{Name: "DELL U2715H", Connector: "DisplayPort", Presentation: true},
	}
	var out bytes.Buffer
	p := New(strings.NewReader("1\n"), &out)
	d, err := p.SelectDisplay(displays)
	if err != nil {
		t.Fatalf("select display: %v", err)
	}
	if d.Name != "DELL U2715H" {
		t.Fatalf("selected %v", d)
	}
	exp := `Select a display to screencast:
[0] Built-in display, connected via eDP (primary)
[1] DELL U2715H, connected via DisplayPort (presentation)
> `
	if out.String() != exp {
		t.Fatalf("output, got %q, expected %q", out.String(), exp)
	}

	if _, err := New(strings.NewReader("0\n"), &out).SelectDisplay(nil); err == nil {
		t.Fatalf("missing error for empty display list")
	}
}

func TestSelectWebcam(t *testing.T) {
	webcams := []camera.Device{
		{ID: "/dev/video0", Name: "Integrated Camera"},
		{ID: "/dev/video4", Name: "C920"},
	}
	var out bytes.Buffer
	p := New(strings.NewReader("3\n2\n0\n"), &out)
	d, err := p.SelectWebcam(webcams)
	if err != nil {
		t.Fatalf("select webcam: %v", err)
	}
	if d == nil || d.ID != "/dev/video4" {
		t.Fatalf("selected %v", d)
	}
	exp := `Select a webcam to overlay:
[0] No webcam
[1] Integrated Camera
[2] C920
> Invalid index, try again
> `
	if out.String() != exp {
		t.Fatalf("output, got %q, expected %q", out.String(), exp)
	}

	d, err = p.SelectWebcam(webcams)
	if err != nil {
		t.Fatalf("select no webcam: %v", err)
	}
	if d != nil {
		t.Fatalf("expected no webcam, got %v", d)
	}
}
