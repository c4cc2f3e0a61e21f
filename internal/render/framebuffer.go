// Package render holds the software framebuffer the app paints its chrome,
// selection and caret into before uploading it in one pass.
package render

import "image/color"

type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	w = max(w, 1)
	h = max(h, 1)
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.set(i, c)
	}
}

// At returns the pixel at (x, y), or transparent black outside the buffer.
func (fb *FrameBuffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}
	}
	i := (y*fb.W + x) * 4
	return color.RGBA{R: fb.Pixels[i], G: fb.Pixels[i+1], B: fb.Pixels[i+2], A: fb.Pixels[i+3]}
}

// FillRect paints an opaque rectangle clipped to the buffer.
func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	fb.fill(x, y, w, h, func(i int) { fb.set(i, c) })
}

// BlendRect paints c over the existing pixels using its alpha.
func (fb *FrameBuffer) BlendRect(x, y, w, h int, c color.RGBA) {
	a := uint32(c.A)
	if a == 0xFF {
		fb.FillRect(x, y, w, h, c)
		return
	}
	mix := func(dst, src uint8) uint8 {
		return uint8((uint32(src)*a + uint32(dst)*(0xFF-a)) / 0xFF)
	}
	fb.fill(x, y, w, h, func(i int) {
		fb.Pixels[i+0] = mix(fb.Pixels[i+0], c.R)
		fb.Pixels[i+1] = mix(fb.Pixels[i+1], c.G)
		fb.Pixels[i+2] = mix(fb.Pixels[i+2], c.B)
		fb.Pixels[i+3] = 0xFF
	})
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	line = max(line, 1)
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}

func (fb *FrameBuffer) fill(x, y, w, h int, px func(i int)) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	w = min(w, fb.W-x)
	h = min(h, fb.H-y)
	if w <= 0 || h <= 0 {
		return
	}
	for row := 0; row < h; row++ {
		off := ((y+row)*fb.W + x) * 4
		for col := 0; col < w; col++ {
			px(off + col*4)
		}
	}
}

func (fb *FrameBuffer) set(i int, c color.RGBA) {
	fb.Pixels[i+0] = c.R
	fb.Pixels[i+1] = c.G
	fb.Pixels[i+2] = c.B
	fb.Pixels[i+3] = c.A
}
