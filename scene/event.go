package scene

import "github.com/achilleasa/gravlens/types"

// Edit step sizes used by the key bindings.
const (
	MoveStep   float32 = 0.01
	RadiusStep float32 = 0.005
	ScaleStep  float32 = 1.1
)

type EventKind uint8

const (
	SelectSingle EventKind = iota
	SelectMulti
	CycleActive
	AddLens
	RemoveLens
	Move
	AdjustRadius
	ScaleBackground
	Screenshot
	Exit
)

func (k EventKind) String() string {
	switch k {
	case SelectSingle:
		return "select single"
	case SelectMulti:
		return "select multi"
	case CycleActive:
		return "cycle active"
	case AddLens:
		return "add lens"
	case RemoveLens:
		return "remove lens"
	case Move:
		return "move"
	case AdjustRadius:
		return "adjust radius"
	case ScaleBackground:
		return "scale background"
	case Screenshot:
		return "screenshot"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// An input event. Delta is used by Move; Amount by AdjustRadius (additive)
// and ScaleBackground (multiplicative).
type Event struct {
	Kind   EventKind
	Delta  types.Vec2
	Amount float32
}

// Create an event without arguments.
func NewEvent(kind EventKind) Event {
	return Event{Kind: kind}
}

// Create a move event. Positive dy moves towards the bottom of the screen.
func MoveEvent(dx, dy float32) Event {
	return Event{Kind: Move, Delta: types.XY(dx, dy)}
}

// Create an einstein radius edit.
func RadiusEvent(delta float32) Event {
	return Event{Kind: AdjustRadius, Amount: delta}
}

// Create a background scale edit.
func ScaleEvent(factor float32) Event {
	return Event{Kind: ScaleBackground, Amount: factor}
}
