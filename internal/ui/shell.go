package ui

import (
	"richtext/internal/render"
)

type Layout struct {
	MenuH     int
	ToolbarH  int
	StatusH   int
	CanvasY   int
	CanvasH   int
	PageX     int
	PageY     int
	PageW     int
	PageH     int
	ContentX  int
	ContentY  int
	ContentW  int
	ContentH  int
	StatusBar int
}

// Content is the text area inside the page.
func (l Layout) Content() Rect {
	return Rect{X: l.ContentX, Y: l.ContentY, W: l.ContentW, H: l.ContentH}
}

func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}
	dp := func(v int) int { return int(float32(v) * scale) }

	menuH := dp(theme.MenuHeightDp)
	toolbarH := dp(theme.ToolbarHeightDp)
	statusH := dp(theme.StatusHeightDp)
	margin := dp(theme.PageMarginDp)

	canvasY := menuH + toolbarH
	canvasH := max(0, h-canvasY-statusH)

	pageW := min(w-margin*2, dp(900))
	pageW = max(pageW, dp(320))
	pageH := max(canvasH-margin*2, dp(200))
	pageX := (w - pageW) / 2
	pageY := canvasY + margin
	contentPad := dp(18)

	return Layout{
		MenuH:     menuH,
		ToolbarH:  toolbarH,
		StatusH:   statusH,
		CanvasY:   canvasY,
		CanvasH:   canvasH,
		PageX:     pageX,
		PageY:     pageY,
		PageW:     pageW,
		PageH:     pageH,
		ContentX:  pageX + contentPad,
		ContentY:  pageY + contentPad,
		ContentW:  max(pageW-contentPad*2, dp(100)),
		ContentH:  max(pageH-contentPad*2, dp(100)),
		StatusBar: h - statusH,
	}
}

// DrawShell paints the window chrome and the empty page, and returns the
// layout it used.
func DrawShell(fb *render.FrameBuffer, theme Theme, scale float32) Layout {
	layout := ComputeLayout(fb.W, fb.H, theme, scale)

	fb.Clear(theme.AppBackground)

	fb.FillRect(0, 0, fb.W, layout.MenuH, theme.TopBar)
	fb.FillRect(0, layout.MenuH, fb.W, layout.ToolbarH, theme.Toolbar)
	fb.StrokeRect(0, 0, fb.W, layout.MenuH+layout.ToolbarH, 1, theme.Border)

	fb.FillRect(0, layout.CanvasY, fb.W, layout.CanvasH, theme.Canvas)

	fb.FillRect(layout.PageX+2, layout.PageY+2, layout.PageW, layout.PageH, theme.Shadow)
	fb.FillRect(layout.PageX, layout.PageY, layout.PageW, layout.PageH, theme.Page)
	fb.StrokeRect(layout.PageX, layout.PageY, layout.PageW, layout.PageH, 1, theme.Border)
	fb.FillRect(layout.PageX, layout.PageY, layout.PageW, max(1, int(3*scale)), theme.Accent)

	fb.FillRect(0, layout.StatusBar, fb.W, layout.StatusH, theme.StatusBar)
	fb.StrokeRect(0, layout.StatusBar, fb.W, layout.StatusH, 1, theme.Border)
	return layout
}
