package castarea

// overlayMargin is the distance in pixels between the overlay and the
// bottom-right corner of the screen.
const overlayMargin = 10

// OverlayPlacement returns where to draw an overlay of the given native size
// on a screen, relative to the screen's origin. The overlay sits in the
// bottom-right corner. When the overlay is more than a third of the screen in
// either dimension, it is scaled to a quarter of the screen height, keeping
// its aspect ratio.
func OverlayPlacement(screen, overlay Size) Rect {
	if overlay.Width <= 0 || overlay.Height <= 0 {
		return Rect{}
	}
	w, h := overlay.Width, overlay.Height
	ratio := float64(w) / float64(h)
	if screen.Width/w < 3 || screen.Height/h < 3 {
		h = screen.Height / 4
		w = int(float64(h) * ratio)
	}
	return Rect{
		X:      screen.Width - (w + overlayMargin),
		Y:      screen.Height - (h + overlayMargin),
		Width:  w,
		Height: h,
	}
}
