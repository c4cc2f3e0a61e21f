package ui

import (
	"richtext/internal/render"
)

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Button is one toolbar control. Buttons sharing a non-zero Group are drawn
// as a segmented control.
type Button struct {
	ID     string
	Label  string
	Group  int
	Active bool
	Rect   Rect
}

// LayoutRow places buttons left to right starting at x inside the band
// [y, y+h). measure returns the label width in pixels.
func LayoutRow(buttons []Button, x, y, h int, theme Theme, scale float32, measure func(string) int) {
	if scale <= 0 {
		scale = 1
	}
	pad := int(10 * scale)
	gap := int(float32(theme.ButtonGapDp) * scale)
	inset := int(5 * scale)
	for i := range buttons {
		if i > 0 && buttons[i].Group != buttons[i-1].Group {
			x += gap * 3
		}
		w := measure(buttons[i].Label) + pad*2
		buttons[i].Rect = Rect{X: x, Y: y + inset, W: w, H: h - inset*2}
		x += w + gap
	}
}

func DrawButtons(fb *render.FrameBuffer, buttons []Button, theme Theme) {
	for _, b := range buttons {
		fill := theme.Button
		if b.Active {
			fill = theme.ButtonActive
		}
		fb.FillRect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, fill)
		fb.StrokeRect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, 1, theme.Border)
	}
}

// HitButton returns the id of the button under (x, y).
func HitButton(buttons []Button, x, y int) (string, bool) {
	for _, b := range buttons {
		if b.Rect.Contains(x, y) {
			return b.ID, true
		}
	}
	return "", false
}
