package glview

import (
	"github.com/achilleasa/gravlens/scene"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// KeyEvent maps a key to the scene event it triggers.
func KeyEvent(key glfw.Key) (scene.Event, bool) {
	switch key {
	case glfw.KeyN:
		return scene.NewEvent(scene.SelectSingle), true
	case glfw.KeyM:
		return scene.NewEvent(scene.SelectMulti), true
	case glfw.KeyC:
		return scene.NewEvent(scene.CycleActive), true
	case glfw.KeyEqual, glfw.KeyKPAdd:
		return scene.NewEvent(scene.AddLens), true
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		return scene.NewEvent(scene.RemoveLens), true
	case glfw.KeyUp:
		return scene.MoveEvent(0, -scene.MoveStep), true
	case glfw.KeyDown:
		return scene.MoveEvent(0, scene.MoveStep), true
	case glfw.KeyLeft:
		return scene.MoveEvent(-scene.MoveStep, 0), true
	case glfw.KeyRight:
		return scene.MoveEvent(scene.MoveStep, 0), true
	case glfw.KeyQ:
		return scene.RadiusEvent(-scene.RadiusStep), true
	case glfw.KeyE:
		return scene.RadiusEvent(scene.RadiusStep), true
	case glfw.KeyT:
		return scene.ScaleEvent(scene.ScaleStep), true
	case glfw.KeyG:
		return scene.ScaleEvent(1 / scene.ScaleStep), true
	case glfw.KeyS:
		return scene.NewEvent(scene.Screenshot), true
	case glfw.KeyEscape:
		return scene.NewEvent(scene.Exit), true
	}
	return scene.Event{}, false
}

// Only continuous edits respond to key repeat.
func repeatable(kind scene.EventKind) bool {
	switch kind {
	case scene.Move, scene.AdjustRadius, scene.ScaleBackground:
		return true
	}
	return false
}
