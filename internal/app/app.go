// Package app is the ebiten demo host: a single page editor driving
// editor.Engine through toolbar buttons and keyboard shortcuts.
package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"

	"richtext/internal/config"
	"richtext/internal/editor"
	"richtext/internal/fonts"
	"richtext/internal/host"
	"richtext/internal/log"
	"richtext/internal/render"
	"richtext/internal/ui"
	"richtext/pkg/richtext"
)

type Options struct {
	Config   config.Config
	Path     string
	Password string
	Board    host.Pasteboard
}

type snapshot struct {
	text      *richtext.Text
	selection richtext.Range
}

// surface is the view's Surface. It remembers scroll requests so the next
// frame can bring the range into view.
type surface struct {
	*editor.MemorySurface
	scrollPending bool
}

func (s *surface) ScrollRangeToVisible(r richtext.Range) {
	s.MemorySurface.ScrollRangeToVisible(r)
	s.scrollPending = true
}

type App struct {
	cfg   config.Config
	theme ui.Theme

	bank      *fonts.Bank
	board     host.Pasteboard
	store     *host.AttachmentStore
	surface   *surface
	engine    *editor.Engine
	clipboard *host.Clipboard

	frameBuffer *render.FrameBuffer
	canvas      *ebiten.Image
	docLayer    *ebiten.Image
	images      map[string]*ebiten.Image

	layout      ui.Layout
	contentRect ui.Rect
	textLayout  render.TextLayout
	buttons     []ui.Button

	uiScales   []float32
	uiScaleIdx int
	filePath   string
	password   string
	meta       richtext.Metadata
	status     string
	frameTick  uint64

	// anchor and caret are the selection ends in the order the user made
	// them; the surface only knows the normalized range.
	anchor int
	caret  int

	undoHistory []snapshot
	redoHistory []snapshot
	maxHistory  int

	scrollX float64
	scrollY float64
	maxX    float64
	maxY    float64

	dragSelecting bool

	screenW int
	screenH int
}

func New(opts Options) (*App, error) {
	cfg := opts.Config
	bank, err := fonts.NewBank(fonts.NewTable(cfg.Fonts))
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	board := opts.Board
	if board == nil {
		board = host.NewSystem()
	}

	a := &App{
		cfg:         cfg,
		theme:       ui.DefaultTheme(),
		bank:        bank,
		board:       board,
		store:       host.NewAttachmentStore(),
		images:      map[string]*ebiten.Image{},
		uiScales:    []float32{1.0, 1.25, 1.5, 2.0},
		password:    opts.Password,
		status:      "Untitled document",
		maxHistory:  200,
		undoHistory: make([]snapshot, 0, 64),
		redoHistory: make([]snapshot, 0, 64),
	}
	a.reset(richtext.NewDocument("", "Untitled", nil))

	if opts.Path != "" {
		if err := a.openPath(opts.Path); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// reset swaps in doc with a fresh engine and an empty history.
func (a *App) reset(doc *richtext.Document) {
	s := &surface{MemorySurface: editor.NewMemorySurface(doc.Text)}
	a.surface = s
	a.engine = editor.New(s, a.bank, editor.OptionsFromConfig(a.cfg))
	a.clipboard = host.NewClipboard(a.engine, a.board, a.store, a.cfg.Editor.InlineMaxWidth)
	a.clipboard.ViewWidth = func() float64 { return float64(a.contentRect.W) / a.scale() }
	a.engine.InitTypingState()
	a.engine.Select(richtext.Range{})
	a.meta = doc.Metadata
	a.anchor, a.caret = 0, 0
	a.undoHistory = a.undoHistory[:0]
	a.redoHistory = a.redoHistory[:0]
	a.scrollX, a.scrollY = 0, 0
}

func (a *App) Run() error {
	ebiten.SetWindowTitle(a.cfg.Window.Title)
	ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(760, 480, -1, -1)
	log.Info(log.CatApp, "Starting editor window", "path", a.filePath)
	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	a.screenW = max(outsideWidth, 760)
	a.screenH = max(outsideHeight, 480)
	return a.screenW, a.screenH
}

func (a *App) scale() float64 { return float64(a.uiScales[a.uiScaleIdx]) }

func (a *App) uiFace(size float64, bold bool) font.Face {
	return a.bank.Face(richtext.Font{PointSize: size, Bold: bold}, false, a.scale())
}

// selectSpan moves the selection to [anchor, caret] and hands it to the engine.
func (a *App) selectSpan(anchor, caret int) {
	n := a.surface.AttributedText().Len()
	a.anchor = min(max(anchor, 0), n)
	a.caret = min(max(caret, 0), n)
	a.engine.Select(richtext.NewRange(a.anchor, a.caret))
	a.surface.scrollPending = true
}

// syncSelection picks up a selection the engine moved.
func (a *App) syncSelection() {
	sel := a.engine.Selection()
	if sel == richtext.NewRange(a.anchor, a.caret) {
		return
	}
	a.anchor, a.caret = sel.Location, sel.End()
}

// mutate records an undo step, runs fn and resyncs the caret.
func (a *App) mutate(fn func()) {
	a.pushUndoSnapshot()
	fn()
	a.syncSelection()
}

func (a *App) pushUndoSnapshot() {
	a.undoHistory = append(a.undoHistory, a.snapshot())
	if len(a.undoHistory) > a.maxHistory {
		a.undoHistory = a.undoHistory[1:]
	}
	a.redoHistory = a.redoHistory[:0]
}

func (a *App) snapshot() snapshot {
	return snapshot{text: a.surface.AttributedText().Clone(), selection: a.engine.Selection()}
}

func (a *App) restore(s snapshot) {
	a.surface.SetAttributedText(s.text)
	a.engine.Select(s.selection)
	a.anchor, a.caret = s.selection.Location, s.selection.End()
	a.surface.scrollPending = true
}

func (a *App) undo() {
	if len(a.undoHistory) == 0 {
		return
	}
	last := a.undoHistory[len(a.undoHistory)-1]
	a.undoHistory = a.undoHistory[:len(a.undoHistory)-1]
	a.redoHistory = append(a.redoHistory, a.snapshot())
	a.restore(last)
}

func (a *App) redo() {
	if len(a.redoHistory) == 0 {
		return
	}
	last := a.redoHistory[len(a.redoHistory)-1]
	a.redoHistory = a.redoHistory[:len(a.redoHistory)-1]
	a.undoHistory = append(a.undoHistory, a.snapshot())
	a.restore(last)
}

func (a *App) documentName() string {
	if a.filePath == "" {
		return "Untitled"
	}
	return filepath.Base(a.filePath)
}
