package glview

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/achilleasa/gravlens/log"
	"github.com/achilleasa/gravlens/renderer"
	"github.com/achilleasa/gravlens/scene"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Height in pixels for stacked series widgets
const stackedSeriesHeight uint32 = 20

var logger = log.New("glview")

// View presents frames in a GLFW window and translates key presses into
// scene events. All methods must be called from the main thread.
type View struct {
	frameW int32
	frameH int32

	// opengl handles
	window    *glfw.Window
	fbTexture uint32
	texFbo    uint32

	// Events collected by the key callback since the last poll.
	pending []scene.Event

	// Display options
	showUI                bool
	blockAssignmentSeries *stackedSeries
}

// Create a window for frames of the given size. Presentation is synced to
// the display refresh rate.
func New(frameW, frameH uint32, title string) (*View, error) {
	v := &View{
		frameW: int32(frameW),
		frameH: int32(frameH),
	}

	if err := v.initGL(title); err != nil {
		v.Close()
		return nil, err
	}
	v.initUI()

	return v, nil
}

func (v *View) initGL(title string) error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("glview: failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	v.window, err = glfw.CreateWindow(int(v.frameW), int(v.frameH), title, nil, nil)
	if err != nil {
		return fmt.Errorf("glview: could not create opengl window: %w", err)
	}
	v.window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err = gl.Init(); err != nil {
		return fmt.Errorf("glview: could not init opengl: %w", err)
	}
	logger.Infof("opengl version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	// Setup texture for image data
	gl.GenTextures(1, &v.fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, v.fbTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, v.frameW, v.frameH, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &v.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, v.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, v.fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Bind event callbacks
	v.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	v.window.SetKeyCallback(v.onKeyEvent)

	return nil
}

func (v *View) initUI() {
	// Setup ortho projection for UI bits
	gl.Disable(gl.DEPTH_TEST)
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(v.frameW), float64(v.frameH), 0, -1, 1)
	gl.Viewport(0, 0, v.frameW, v.frameH)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
}

// Poll processes window events and hands queued key events to post.
func (v *View) Poll(post func(scene.Event)) {
	glfw.PollEvents()
	for _, ev := range v.pending {
		post(ev)
	}
	v.pending = v.pending[:0]
}

// Present uploads the frame to the texture and blits it to the window.
func (v *View) Present(frame *image.RGBA, stats renderer.FrameStats) error {
	if frame.Rect.Dx() != int(v.frameW) || frame.Rect.Dy() != int(v.frameH) {
		return fmt.Errorf("glview: frame size %dx%d does not match window size %dx%d", frame.Rect.Dx(), frame.Rect.Dy(), v.frameW, v.frameH)
	}

	// Update texture with frame data
	gl.BindTexture(gl.TEXTURE_2D, v.fbTexture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, v.frameW, v.frameH, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&frame.Pix[0]))

	// Copy texture data to framebuffer. Frame rows are stored top-down so
	// the destination rectangle is flipped.
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, v.texFbo)
	gl.BlitFramebuffer(0, 0, v.frameW, v.frameH, 0, v.frameH, v.frameW, 0, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Display tracer stats
	if v.showUI {
		v.renderUI(stats)
	}

	v.window.SwapBuffers()
	return nil
}

// ShouldClose reports whether the user closed the window.
func (v *View) ShouldClose() bool {
	return v.window == nil || v.window.ShouldClose()
}

// Close destroys the window and terminates glfw.
func (v *View) Close() {
	if v.window != nil {
		v.window.Destroy()
		v.window = nil
	}
	glfw.Terminate()
}

func (v *View) renderUI(stats renderer.FrameStats) {
	if v.blockAssignmentSeries == nil || len(v.blockAssignmentSeries.series) != len(stats.Tracers) {
		v.blockAssignmentSeries = makeStackedSeries(len(stats.Tracers), int(v.frameW))
	}
	if len(stats.Tracers) == 0 {
		return
	}

	var y int32 = 1
	var frameW int32 = v.frameW - 1
	gl.LineWidth(2.0)
	for seriesIndex, stat := range stats.Tracers {
		gl.Color3fv(&v.blockAssignmentSeries.colors[seriesIndex][0])
		gl.Begin(gl.LINE_LOOP)
		gl.Vertex2i(0, y)
		gl.Vertex2i(frameW, y)
		gl.Vertex2i(frameW, y+int32(stat.BlockH))
		gl.Vertex2i(0, y+int32(stat.BlockH))
		gl.End()

		y += int32(stat.BlockH)
	}

	for seriesIndex, stat := range stats.Tracers {
		v.blockAssignmentSeries.Append(seriesIndex, float32(stat.BlockH))
	}
	v.blockAssignmentSeries.Render(uint32(v.frameH)-stackedSeriesHeight, stackedSeriesHeight)

	// Restore the colour used when blitting
	gl.Color3f(1, 1, 1)
}

func (v *View) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	if key == glfw.KeyTab {
		if action == glfw.Press {
			v.showUI = !v.showUI
			if v.showUI && v.blockAssignmentSeries != nil {
				v.blockAssignmentSeries.Clear()
			}
		}
		return
	}

	ev, ok := KeyEvent(key)
	if !ok {
		return
	}

	// Mode switches, screenshots and exit only fire once per press
	if action == glfw.Repeat && !repeatable(ev.Kind) {
		return
	}

	v.pending = append(v.pending, ev)
}
