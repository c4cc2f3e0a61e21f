package app

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"richtext/internal/fonts"
	"richtext/internal/render"
	"richtext/internal/ui"
	"richtext/pkg/richtext"
)

// Document padding inside the content rect, in pixels.
const (
	padX = 8
	padY = 4
)

var toolbar = []ui.Button{
	{ID: "open", Label: "Open", Group: 1},
	{ID: "save", Label: "Save", Group: 1},
	{ID: "undo", Label: "Undo", Group: 2},
	{ID: "redo", Label: "Redo", Group: 2},
	{ID: "large_title", Label: "Title", Group: 3},
	{ID: "title2", Label: "Heading", Group: 3},
	{ID: "body", Label: "Body", Group: 3},
	{ID: "bold", Label: "B", Group: 4},
	{ID: "italic", Label: "I", Group: 4},
	{ID: "strike", Label: "S", Group: 4},
	{ID: "underline", Label: "U", Group: 4},
	{ID: "align_left", Label: "Left", Group: 5},
	{ID: "align_center", Label: "Center", Group: 5},
	{ID: "align_right", Label: "Right", Group: 5},
	{ID: "outdent", Label: "<<", Group: 6},
	{ID: "indent", Label: ">>", Group: 6},
	{ID: "list", Label: "List", Group: 6},
	{ID: "image", Label: "Image", Group: 7},
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil || a.frameBuffer.W != w || a.frameBuffer.H != h {
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.canvas = ebiten.NewImage(w, h)
	}
	scale := a.uiScales[a.uiScaleIdx]

	a.layout = ui.DrawShell(a.frameBuffer, a.theme, scale)
	a.contentRect = a.layout.Content()
	labelFace := a.uiFace(11, false)
	a.layoutButtons(labelFace)
	ui.DrawButtons(a.frameBuffer, a.buttons, a.theme)

	a.layoutText()
	a.drawSelectionAndCaret()
	a.drawScrollbars()

	a.canvas.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.canvas, nil)

	a.drawButtonLabels(screen, labelFace)
	a.drawDocumentText(screen)
	a.drawStatus(screen, h)
}

func (a *App) layoutButtons(face font.Face) {
	if len(a.buttons) != len(toolbar) {
		a.buttons = append([]ui.Button(nil), toolbar...)
	}
	class, classOK := a.engine.FontStyle()
	align, alignOK := a.engine.Alignment()
	for i := range a.buttons {
		b := &a.buttons[i]
		switch b.ID {
		case "bold":
			b.Active = a.engine.IsBold()
		case "italic":
			b.Active = a.engine.IsItalic()
		case "strike":
			b.Active = a.engine.HasStrikethrough()
		case "underline":
			b.Active = a.engine.HasUnderline()
		case "large_title":
			b.Active = classOK && class == richtext.SizeLargeTitle
		case "title2":
			b.Active = classOK && class == richtext.SizeTitle2
		case "body":
			b.Active = classOK && class == richtext.SizeBody
		case "align_left":
			b.Active = alignOK && align == richtext.AlignLeft
		case "align_center":
			b.Active = alignOK && align == richtext.AlignCenter
		case "align_right":
			b.Active = alignOK && align == richtext.AlignRight
		case "list":
			b.Active = a.engine.IsBulletList()
		}
	}
	measure := func(s string) int { return int(math.Ceil(fonts.Measure(face, s))) }
	ui.LayoutRow(a.buttons, 10, a.layout.MenuH, a.layout.ToolbarH, a.theme, a.uiScales[a.uiScaleIdx], measure)
}

func (a *App) drawButtonLabels(screen *ebiten.Image, face font.Face) {
	m := face.Metrics()
	ascent, descent := m.Ascent.Round(), m.Descent.Round()
	for _, b := range a.buttons {
		tw := int(fonts.Measure(face, b.Label))
		x := b.Rect.X + (b.Rect.W-tw)/2
		baseline := b.Rect.Y + (b.Rect.H+ascent+descent)/2 - descent
		text.Draw(screen, b.Label, face, x, baseline, a.theme.ButtonText)
	}

	title := a.meta.Title
	if title == "" {
		title = a.documentName()
	}
	titleFace := a.uiFace(12, true)
	text.Draw(screen, title, titleFace, 12, a.layout.MenuH-10, color.RGBA{R: 244, G: 248, B: 255, A: 255})
}

func (a *App) layoutText() {
	width := float64(a.contentRect.W - padX*2)
	a.textLayout = render.LayoutText(a.surface.AttributedText(), a.surface.TypingAttributes(), a.bank, width, a.scale())
	a.maxY = math.Max(0, a.textLayout.Height+padY*2-float64(a.contentRect.H))
	a.maxX = math.Max(0, a.textLayout.Width-width)
	a.clampScroll()
}

// toView converts layout coordinates to screen pixels.
func (a *App) toView(x, y float64) (int, int) {
	return a.contentRect.X + padX + int(x-a.scrollX), a.contentRect.Y + padY + int(y-a.scrollY)
}

func (a *App) hitTest(x, y int) int {
	lx := float64(x-a.contentRect.X-padX) + a.scrollX
	ly := float64(y-a.contentRect.Y-padY) + a.scrollY
	return a.textLayout.PosAt(lx, ly)
}

func (a *App) caretLine() (render.Line, bool) {
	i := a.textLayout.LineAt(a.caret)
	if i < 0 {
		return render.Line{}, false
	}
	return a.textLayout.Lines[i], true
}

// verticalTarget finds the caret position one line up or down at the same
// x, staying put at the first and last line.
func (a *App) verticalTarget(dir int) int {
	i := a.textLayout.LineAt(a.caret)
	j := i + dir
	if i < 0 || j < 0 || j >= len(a.textLayout.Lines) {
		return a.caret
	}
	line := a.textLayout.Lines[j]
	return a.textLayout.PosAt(a.textLayout.CaretX(a.caret), line.Y+line.Height/2)
}

func (a *App) drawSelectionAndCaret() {
	sel := a.engine.Selection()
	if !sel.IsEmpty() {
		for _, line := range a.textLayout.Lines {
			start := max(sel.Location, line.Range.Location)
			end := min(sel.End(), line.Range.End())
			// Selected terminators show as a short tail.
			tail := 0.0
			if sel.End() > line.Range.End() && sel.Location <= line.Range.End() {
				tail = 6 * a.scale()
			}
			if end < start || (end == start && tail == 0) {
				continue
			}
			x0 := a.textLayout.CaretX(start)
			x1 := a.textLayout.CaretX(end) + tail
			vx, vy := a.toView(x0, line.Y)
			a.fillRectWithinContent(vx, vy, int(math.Ceil(x1-x0)), int(line.Height), a.theme.Selection)
		}
		return
	}
	if (a.frameTick/30)%2 == 1 {
		return
	}
	line, ok := a.caretLine()
	if !ok {
		return
	}
	vx, vy := a.toView(a.textLayout.CaretX(a.caret), line.Y)
	a.fillRectWithinContent(vx, vy+1, max(1, int(a.scale())), int(line.Height)-2, a.theme.Caret)
}

func (a *App) drawScrollbars() {
	r := a.contentRect
	track := color.RGBA{R: 231, G: 236, B: 244, A: 255}
	thumb := color.RGBA{R: 156, G: 170, B: 190, A: 255}
	if a.maxY > 0 {
		trackX, trackY, trackH := r.X+r.W-6, r.Y+2, r.H-8
		a.frameBuffer.FillRect(trackX, trackY, 4, trackH, track)
		thumbH := max(24, int(float64(trackH)*float64(r.H)/(float64(r.H)+a.maxY)))
		thumbY := trackY + int((a.scrollY/a.maxY)*float64(trackH-thumbH))
		a.frameBuffer.FillRect(trackX, thumbY, 4, thumbH, thumb)
	}
	if a.maxX > 0 {
		trackX, trackY, trackW := r.X+2, r.Y+r.H-6, r.W-8
		a.frameBuffer.FillRect(trackX, trackY, trackW, 4, track)
		thumbW := max(24, int(float64(trackW)*float64(r.W)/(float64(r.W)+a.maxX)))
		thumbX := trackX + int((a.scrollX/a.maxX)*float64(trackW-thumbW))
		a.frameBuffer.FillRect(thumbX, trackY, thumbW, 4, thumb)
	}
}

func (a *App) drawDocumentText(screen *ebiten.Image) {
	r := a.contentRect
	if r.W <= 0 || r.H <= 0 {
		return
	}
	if a.docLayer == nil || a.docLayer.Bounds().Dx() != r.W || a.docLayer.Bounds().Dy() != r.H {
		a.docLayer = ebiten.NewImage(r.W, r.H)
	}
	a.docLayer.Clear()

	for _, line := range a.textLayout.Lines {
		vx, vy := a.toView(line.X, line.Y)
		top := vy - r.Y
		if top+int(line.Height) < 0 || top > r.H {
			continue
		}
		x := float64(vx - r.X)
		baseline := float64(top) + line.Ascent
		for _, seg := range line.Segments {
			sx := x + seg.X
			if att, ok := seg.Attachment(); ok {
				a.drawAttachment(att, sx, baseline, seg.Width)
				continue
			}
			text.Draw(a.docLayer, seg.Text, seg.Face, int(sx), int(baseline), a.theme.Text)
			m := seg.Face.Metrics()
			if isSet(seg.Attrs, richtext.KeyUnderline) {
				y := baseline + math.Max(1, float64(m.Descent.Round())/2)
				ebitenutil.DrawLine(a.docLayer, sx, y, sx+seg.Width, y, a.theme.Text)
			}
			if isSet(seg.Attrs, richtext.KeyStrikethrough) {
				y := baseline - float64(m.Ascent.Round())*0.3
				ebitenutil.DrawLine(a.docLayer, sx, y, sx+seg.Width, y, a.theme.Text)
			}
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(r.X), float64(r.Y))
	screen.DrawImage(a.docLayer, op)
}

// drawAttachment draws the stored image scaled to the attachment size, or a
// placeholder when the payload is not in this session's store.
func (a *App) drawAttachment(att richtext.Attachment, x, baseline, width float64) {
	h := att.Height * a.scale()
	w := att.Width * a.scale()
	if width > 0 && width < w {
		w = width
	}
	top := baseline - h
	img, ok := a.attachmentImage(att.ID)
	if !ok {
		drawFilledRect(a.docLayer, x, top, w, h, a.theme.Placeholder)
		return
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, top)
	op.Filter = ebiten.FilterLinear
	a.docLayer.DrawImage(img, op)
}

func (a *App) attachmentImage(id string) (*ebiten.Image, bool) {
	if img, ok := a.images[id]; ok {
		return img, true
	}
	src, ok := a.store.Get(id)
	if !ok {
		return nil, false
	}
	img := ebiten.NewImageFromImage(src)
	a.images[id] = img
	return img, true
}

func (a *App) drawStatus(screen *ebiten.Image, h int) {
	face := a.uiFace(10, false)
	sel := a.engine.Selection()
	class := "mixed"
	if c, ok := a.engine.FontStyle(); ok {
		class = c.String()
	}
	ps := a.engine.CurrentParagraphStyle()
	left := fmt.Sprintf("[ Caret %d ] [ Selection %d ] [ %s ] [ Indent %.0f/%.0f ]",
		a.caret, sel.Length, class, ps.HeadIndent, ps.TailIndent)
	right := fmt.Sprintf("[ %s ] [ %s ]", a.documentName(), a.status)
	clr := color.RGBA{R: 42, G: 56, B: 80, A: 255}
	text.Draw(screen, left, face, 12, h-10, clr)
	text.Draw(screen, right, face, max(360, a.screenW/2), h-10, clr)
}

func (a *App) clampScroll() {
	a.scrollX = math.Min(math.Max(a.scrollX, 0), a.maxX)
	a.scrollY = math.Min(math.Max(a.scrollY, 0), a.maxY)
}

func (a *App) ensureCaretVisible() {
	line, ok := a.caretLine()
	if !ok || a.contentRect.H <= 0 {
		return
	}
	viewH := float64(a.contentRect.H - padY*2)
	if line.Y < a.scrollY {
		a.scrollY = line.Y
	}
	if bottom := line.Y + line.Height; bottom > a.scrollY+viewH {
		a.scrollY = bottom - viewH
	}

	x := a.textLayout.CaretX(a.caret)
	viewW := float64(a.contentRect.W - padX*2)
	const padding = 16.0
	if x < a.scrollX+padding {
		a.scrollX = math.Max(0, x-padding)
	}
	if x > a.scrollX+viewW-padding {
		a.scrollX = x - viewW + padding
	}
	a.clampScroll()
}

func (a *App) fillRectWithinContent(x, y, w, h int, c color.RGBA) {
	r := a.contentRect
	x0, y0 := max(x, r.X), max(y, r.Y)
	x1, y1 := min(x+w, r.X+r.W), min(y+h, r.Y+r.H)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	a.frameBuffer.FillRect(x0, y0, x1-x0, y1-y0, c)
}

func drawFilledRect(dst *ebiten.Image, x, y, w, h float64, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		ebitenutil.DrawLine(dst, x, yy, x+w, yy, c)
	}
}

func isSet(attrs richtext.Attributes, k richtext.Key) bool {
	v, ok := attrs.Get(k)
	if !ok {
		return false
	}
	switch v := v.(type) {
	case richtext.Underline:
		return v != 0
	case richtext.Strikethrough:
		return v != 0
	}
	return false
}
