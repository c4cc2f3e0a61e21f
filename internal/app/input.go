package app

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rivo/uniseg"

	"richtext/internal/log"
	"richtext/internal/ui"
	"richtext/pkg/richtext"
)

type shortcut struct {
	key    ebiten.Key
	shift  bool
	action string
}

// shortcuts are matched with Ctrl (or Cmd) held.
var shortcuts = []shortcut{
	{ebiten.KeyB, false, "bold"},
	{ebiten.KeyI, false, "italic"},
	{ebiten.KeyU, false, "underline"},
	{ebiten.KeyX, true, "strike"},
	{ebiten.KeyDigit1, false, "large_title"},
	{ebiten.KeyDigit2, false, "title2"},
	{ebiten.KeyDigit0, false, "body"},
	{ebiten.KeyL, true, "align_left"},
	{ebiten.KeyE, true, "align_center"},
	{ebiten.KeyR, true, "align_right"},
	{ebiten.KeyBracketLeft, false, "outdent"},
	{ebiten.KeyBracketRight, false, "indent"},
	{ebiten.KeyL, false, "list"},
	{ebiten.KeyZ, false, "undo"},
	{ebiten.KeyY, false, "redo"},
	{ebiten.KeyN, false, "new"},
	{ebiten.KeyO, false, "open"},
	{ebiten.KeyS, false, "save"},
	{ebiten.KeyS, true, "save_as"},
	{ebiten.KeyA, false, "select_all"},
	{ebiten.KeyC, false, "copy"},
	{ebiten.KeyX, false, "cut"},
	{ebiten.KeyV, false, "paste"},
	{ebiten.KeyEqual, false, "zoom_in"},
	{ebiten.KeyMinus, false, "zoom_out"},
}

func (a *App) Update() error {
	a.frameTick++
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	_, wheelY := ebiten.Wheel()
	if shift && wheelY != 0 {
		a.scrollX -= wheelY * 48
	} else if wheelY != 0 {
		a.scrollY -= wheelY * 42
	}
	a.clampScroll()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if id, ok := ui.HitButton(a.buttons, x, y); ok {
			a.invokeAction(id)
			return nil
		}
		if a.contentRect.Contains(x, y) {
			pos := a.hitTest(x, y)
			if shift {
				a.selectSpan(a.anchor, pos)
			} else {
				a.selectSpan(pos, pos)
			}
			a.dragSelecting = true
		}
	}
	if a.dragSelecting && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if pos := a.hitTest(x, y); pos != a.caret {
			a.selectSpan(a.anchor, pos)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.dragSelecting = false
	}

	if ctrl {
		for _, sc := range shortcuts {
			if sc.shift == shift && inpututil.IsKeyJustPressed(sc.key) {
				a.invokeAction(sc.action)
				break
			}
		}
	}
	a.handleNavigation(ctrl, shift)
	if !ctrl {
		a.handleTyping(shift)
	}

	if a.surface.scrollPending {
		a.ensureCaretVisible()
		a.surface.scrollPending = false
	}
	return nil
}

func (a *App) handleNavigation(ctrl, shift bool) {
	n := a.surface.AttributedText().Len()
	move := func(pos int) {
		if shift {
			a.selectSpan(a.anchor, pos)
		} else {
			a.selectSpan(pos, pos)
		}
	}
	sel := a.engine.Selection()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		if !shift && !sel.IsEmpty() {
			move(sel.Location)
		} else {
			move(a.caret - 1)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		if !shift && !sel.IsEmpty() {
			move(sel.End())
		} else {
			move(a.caret + 1)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		move(a.verticalTarget(-1))
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		move(a.verticalTarget(1))
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		if ctrl {
			move(0)
		} else if line, ok := a.caretLine(); ok {
			move(line.Range.Location)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		if ctrl {
			move(n)
		} else if line, ok := a.caretLine(); ok {
			move(line.Range.End())
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		a.scrollY += float64(a.contentRect.H) * 0.8
		a.clampScroll()
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		a.scrollY -= float64(a.contentRect.H) * 0.8
		a.clampScroll()
	}
}

func (a *App) handleTyping(shift bool) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter):
		a.mutate(func() { a.engine.InsertText("\n") })
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		a.mutate(a.engine.DeleteBackward)
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		a.mutate(a.deleteForward)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		if shift {
			a.invokeAction("outdent")
		} else {
			a.invokeAction("indent")
		}
	}

	var b strings.Builder
	for _, r := range ebiten.AppendInputChars(nil) {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		a.mutate(func() { a.engine.InsertText(b.String()) })
	}
}

// deleteForward removes the selection or the grapheme cluster after the
// caret.
func (a *App) deleteForward() {
	if a.engine.DeleteSelection() {
		return
	}
	t := a.surface.AttributedText()
	caret := a.engine.Selection().Location
	if caret >= t.Len() {
		return
	}
	rest := t.Substring(richtext.Range{Location: caret, Length: 32})
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
	a.engine.Select(richtext.Range{Location: caret, Length: len([]rune(cluster))})
	a.engine.DeleteSelection()
}

func (a *App) invokeAction(id string) {
	var err error
	switch id {
	case "bold":
		a.mutate(a.engine.ToggleBold)
	case "italic":
		a.mutate(a.engine.ToggleItalic)
	case "strike":
		a.mutate(a.engine.ToggleStrikethrough)
	case "underline":
		a.mutate(a.engine.ToggleUnderline)
	case "large_title":
		a.mutate(func() { a.engine.SetFont(richtext.SizeLargeTitle) })
	case "title2":
		a.mutate(func() { a.engine.SetFont(richtext.SizeTitle2) })
	case "body":
		a.mutate(func() { a.engine.SetFont(richtext.SizeBody) })
	case "align_left":
		a.mutate(func() { a.engine.SetAlignment(richtext.AlignLeft) })
	case "align_center":
		a.mutate(func() { a.engine.SetAlignment(richtext.AlignCenter) })
	case "align_right":
		a.mutate(func() { a.engine.SetAlignment(richtext.AlignRight) })
	case "outdent":
		a.mutate(a.engine.LeftIndent)
	case "indent":
		a.mutate(a.engine.RightIndent)
	case "list":
		a.mutate(a.engine.ToggleBulletList)
	case "image":
		err = a.insertImageDialog()
	case "undo":
		a.undo()
	case "redo":
		a.redo()
	case "new":
		a.reset(richtext.NewDocument("", "Untitled", nil))
		a.filePath = ""
		a.status = "New document"
	case "open":
		err = a.openDialog()
	case "save":
		err = a.save(false)
	case "save_as":
		err = a.save(true)
	case "select_all":
		a.selectSpan(0, a.surface.AttributedText().Len())
	case "copy":
		err = a.clipboard.Copy()
	case "cut":
		a.mutate(func() { err = a.clipboard.Cut() })
	case "paste":
		if a.clipboard.CanPaste() {
			a.mutate(func() { err = a.clipboard.Paste() })
		}
	case "zoom_in":
		a.bumpUIScale(1)
	case "zoom_out":
		a.bumpUIScale(-1)
	default:
		log.Warn(log.CatApp, "Unknown action", "id", id)
		return
	}
	if err != nil {
		a.status = fmt.Sprintf("%s failed: %v", id, err)
		log.ErrorErr(log.CatApp, "Action failed", err, "action", id)
	}
}

func (a *App) bumpUIScale(delta int) {
	a.uiScaleIdx = min(max(a.uiScaleIdx+delta, 0), len(a.uiScales)-1)
	a.status = fmt.Sprintf("UI scale %.0f%%", a.uiScales[a.uiScaleIdx]*100)
	a.surface.scrollPending = true
}
