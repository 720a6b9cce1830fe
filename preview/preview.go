// Package preview renders a still image of how the webcam overlay will sit on
// the recorded screen.
package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/castarea/castarea"
)

// Compose returns a black canvas with the proportions of screen, with frame
// drawn into the overlay rectangle. The canvas is scaled down to at most
// maxWidth pixels wide; maxWidth <= 0 keeps the screen size. A nil frame or
// empty overlay leaves the canvas black.
func Compose(screen castarea.Size, overlay castarea.Rect, frame image.Image, maxWidth int) *image.NRGBA {
	scale := 1.0
	if maxWidth > 0 && screen.Width > maxWidth {
		scale = float64(maxWidth) / float64(screen.Width)
	}
	scaled := func(v int) int {
		return int(math.Round(float64(v) * scale))
	}

	canvas := imaging.New(scaled(screen.Width), scaled(screen.Height), color.Black)
	w, h := scaled(overlay.Width), scaled(overlay.Height)
	if frame == nil || w <= 0 || h <= 0 {
		return canvas
	}
	resized := imaging.Resize(frame, w, h, imaging.Lanczos)
	return imaging.Paste(canvas, resized, image.Pt(scaled(overlay.X), scaled(overlay.Y)))
}

// Write saves img to path. The format is taken from the file extension, eg
// .png or .jpg.
func Write(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "writing preview %s", path)
	}
	return nil
}
