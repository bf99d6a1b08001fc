package banyan

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Fullscreen    bool
	VSync         bool
	ClearColor    Color // screen fill before drawing; zero means no fill
	ShowFPS       bool  // adds an FPS overlay to the first viewport
	Debug         bool  // enables debug mode on every presented scene
}

// trackedButtons maps responder buttons to the ebiten buttons polled each tick.
var trackedButtons = [...]struct {
	eb ebiten.MouseButton
	b  MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// Window is the top-level game shell: it owns the viewports, drives their
// scenes, renders them through a shared context, and turns raw Ebitengine
// input into responder-chain events. It implements [ebiten.Game] and sits at
// the head of the responder chain.
type Window struct {
	ctx       *RenderContext
	viewports []*Viewport
	next      Responder

	// ClearColor fills the screen before the viewports draw. A zero value
	// leaves the previous frame's contents in place.
	ClearColor Color

	// Previous-tick input state, for edge detection.
	prevButtons [len(trackedButtons)]bool
	prevKeys    map[ebiten.Key]bool
	prevX       float32
	prevY       float32

	keyBuf []ebiten.Key
	err    error
}

// NewWindow creates a window rendering through the given driver.
func NewWindow(d Driver) *Window {
	return &Window{
		ctx:      NewRenderContext(d),
		prevKeys: make(map[ebiten.Key]bool),
	}
}

// AddViewport appends a viewport. Viewports update and render in add order.
func (w *Window) AddViewport(v *Viewport) {
	w.viewports = append(w.viewports, v)
}

// Context returns the window's render context.
func (w *Window) Context() *RenderContext {
	return w.ctx
}

// Update implements ebiten.Game: polls input into responder events, then
// advances every presented scene once (shared scenes update once, not once
// per viewport) and every viewport's overlays.
func (w *Window) Update() error {
	if w.err != nil {
		return w.err
	}
	w.pollInput()

	dt := float32(1.0 / float64(ebiten.TPS()))
	seen := make(map[*Scene]bool, len(w.viewports))
	for _, v := range w.viewports {
		if v.Scene != nil && !seen[v.Scene] {
			seen[v.Scene] = true
			v.Scene.Update(dt)
		}
		v.Update(dt)
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.ClearColor != (Color{}) {
		screen.Fill(w.ClearColor.toRGBA())
	}
	w.ctx.BeginFrame()
	for _, v := range w.viewports {
		if err := w.ctx.Render(v, screen); err != nil {
			// Surface the failure through Update; Draw cannot return errors.
			w.err = err
			return
		}
	}
}

// Layout implements ebiten.Game with a 1:1 logical-to-device mapping.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// pollInput diffs raw input against the previous tick and dispatches the
// resulting events. Mouse events route to the viewport under the cursor;
// key events route to every viewport (the chain decides who consumes them).
func (w *Window) pollInput() {
	mx, my := ebiten.CursorPosition()
	x, y := float32(mx), float32(my)

	if x != w.prevX || y != w.prevY {
		w.dispatchMouse(Event{Kind: EventMouseMove, X: x, Y: y})
		w.prevX, w.prevY = x, y
	}

	for i, tb := range trackedButtons {
		down := ebiten.IsMouseButtonPressed(tb.eb)
		if down != w.prevButtons[i] {
			kind := EventMouseUp
			if down {
				kind = EventMouseDown
			}
			w.dispatchMouse(Event{Kind: kind, X: x, Y: y, Button: tb.b})
			w.prevButtons[i] = down
		}
	}

	w.keyBuf = inpututil.AppendPressedKeys(w.keyBuf[:0])
	cur := make(map[ebiten.Key]bool, len(w.keyBuf))
	for _, k := range w.keyBuf {
		cur[k] = true
		if !w.prevKeys[k] {
			w.dispatchAll(Event{Kind: EventKeyDown, Key: k})
		}
	}
	for k := range w.prevKeys {
		if !cur[k] {
			w.dispatchAll(Event{Kind: EventKeyUp, Key: k})
		}
	}
	w.prevKeys = cur
}

func (w *Window) dispatchMouse(e Event) {
	for _, v := range w.viewports {
		if v.Region.Contains(e.X, e.Y) {
			if Dispatch(v, e) {
				return
			}
		}
	}
	Dispatch(w.next, e)
}

func (w *Window) dispatchAll(e Event) {
	for _, v := range w.viewports {
		if Dispatch(v, e) {
			return
		}
	}
	Dispatch(w.next, e)
}

// --- Responder chain ---

// SetNextResponder sets the fallback responder for events no viewport handles.
func (w *Window) SetNextResponder(r Responder) {
	w.next = r
}

// HandleEvent implements Responder.
func (w *Window) HandleEvent(e Event) bool {
	return false
}

// NextResponder implements Responder.
func (w *Window) NextResponder() Responder {
	return w.next
}

// Run opens a window presenting the scene through a single full-window
// viewport and blocks until the window closes or an error occurs. It is the
// zero-boilerplate entry point; construct a Window directly for multiple
// viewports or a custom driver.
func Run(scene *Scene, pov *Node, cfg RunConfig) error {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.VSync)

	v := NewViewport(Rect{Width: float32(cfg.Width), Height: float32(cfg.Height)})
	v.Scene = scene
	v.SetPointOfView(pov)
	if cfg.ShowFPS {
		v.AddOverlay(NewFPSWidget())
	}
	if cfg.Debug {
		scene.SetDebugMode(true)
	}

	w := NewWindow(NewEbitenDriver())
	w.ClearColor = cfg.ClearColor
	w.AddViewport(v)
	return ebiten.RunGame(w)
}
