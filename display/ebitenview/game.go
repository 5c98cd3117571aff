package ebitenview

import (
	"image"

	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/renderer"
	"github.com/achilleasa/gravlens/scene"
	"github.com/achilleasa/gravlens/session"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key repeat timing in ticks.
const (
	repeatDelay    = 20
	repeatInterval = 3
)

var logger = log.New("ebitenview")

// Game runs a session inside the ebiten game loop. Each Update tick runs one
// session frame; Draw copies the last presented frame to the screen.
type Game struct {
	session *session.Session
	frameW  int
	frameH  int

	pixels []byte
	err    error
}

// Create a game for frames of the given size.
func New(s *session.Session, frameW, frameH int) *Game {
	return &Game{
		session: s,
		frameW:  frameW,
		frameH:  frameH,
	}
}

// Run opens a window and blocks until the session ends.
func (g *Game) Run(title string) error {
	ebiten.SetWindowSize(g.frameW, g.frameH)
	ebiten.SetWindowTitle(title)
	ebiten.SetVsyncEnabled(true)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.err
}

// Update runs one session frame.
func (g *Game) Update() error {
	if g.session.ExitRequested() {
		return ebiten.Termination
	}
	if err := g.session.Frame(g); err != nil {
		logger.Errorf("frame failed: %s", err.Error())
		g.err = err
		return ebiten.Termination
	}
	return nil
}

// Draw copies the last presented frame to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if len(g.pixels) == g.frameW*g.frameH*4 {
		screen.WritePixels(g.pixels)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return g.frameW, g.frameH }

// Poll translates key state into scene events.
func (g *Game) Poll(post func(scene.Event)) {
	pollKeys(post, inpututil.IsKeyJustPressed, inpututil.KeyPressDuration)
}

func pollKeys(post func(scene.Event), justPressed func(ebiten.Key) bool, pressDuration func(ebiten.Key) int) {
	for _, b := range onceKeys {
		if justPressed(b.key) {
			post(b.event)
		}
	}
	for _, b := range repeatKeys {
		if repeating(pressDuration(b.key)) {
			post(b.event)
		}
	}
}

// Present keeps a copy of the frame for the next Draw. Ebiten paces frames.
func (g *Game) Present(frame *image.RGBA, _ renderer.FrameStats) error {
	if cap(g.pixels) < len(frame.Pix) {
		g.pixels = make([]byte, len(frame.Pix))
	}
	g.pixels = g.pixels[:len(frame.Pix)]
	copy(g.pixels, frame.Pix)
	return nil
}

// Closing the window ends RunGame, so there is nothing to report here.
func (g *Game) ShouldClose() bool {
	return false
}

// Report whether a key held for d ticks should fire this tick.
func repeating(d int) bool {
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

type binding struct {
	key   ebiten.Key
	event scene.Event
}

// Keys that fire once per press. Keys pressed in the same tick post their
// events in table order.
var onceKeys = []binding{
	{ebiten.KeyN, scene.NewEvent(scene.SelectSingle)},
	{ebiten.KeyM, scene.NewEvent(scene.SelectMulti)},
	{ebiten.KeyC, scene.NewEvent(scene.CycleActive)},
	{ebiten.KeyEqual, scene.NewEvent(scene.AddLens)},
	{ebiten.KeyKPAdd, scene.NewEvent(scene.AddLens)},
	{ebiten.KeyMinus, scene.NewEvent(scene.RemoveLens)},
	{ebiten.KeyKPSubtract, scene.NewEvent(scene.RemoveLens)},
	{ebiten.KeyS, scene.NewEvent(scene.Screenshot)},
	{ebiten.KeyEscape, scene.NewEvent(scene.Exit)},
}

// Keys that repeat while held.
var repeatKeys = []binding{
	{ebiten.KeyArrowUp, scene.MoveEvent(0, -scene.MoveStep)},
	{ebiten.KeyArrowDown, scene.MoveEvent(0, scene.MoveStep)},
	{ebiten.KeyArrowLeft, scene.MoveEvent(-scene.MoveStep, 0)},
	{ebiten.KeyArrowRight, scene.MoveEvent(scene.MoveStep, 0)},
	{ebiten.KeyQ, scene.RadiusEvent(-scene.RadiusStep)},
	{ebiten.KeyE, scene.RadiusEvent(scene.RadiusStep)},
	{ebiten.KeyT, scene.ScaleEvent(scene.ScaleStep)},
	{ebiten.KeyG, scene.ScaleEvent(1 / scene.ScaleStep)},
}
