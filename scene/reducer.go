package scene

import "github.com/achilleasa/gravlens/lens"

// Apply returns the scene that results from applying ev to s. Edits that
// would violate a scene invariant (adding past capacity, removing the last
// lens, negative radii) are no-ops. Screenshot and Exit events do not
// affect the scene.
func Apply(s Scene, ev Event) Scene {
	switch ev.Kind {
	case SelectSingle:
		s.Mode = Single
		if s.Lenses.Len() == 0 {
			s.Lenses.Push(singleModeLens)
		}
		s.Active = 0
	case SelectMulti:
		s.Mode = Multi
		s.Active = 0
	case CycleActive:
		if n := s.Lenses.Len(); n > 0 {
			s.Active = (s.Active + 1) % n
		}
	case AddLens:
		if s.Lenses.Push(addedLens) {
			s.Active = s.Lenses.Len() - 1
		}
	case RemoveLens:
		if s.Lenses.Pop() {
			s.Active = s.Lenses.Len() - 1
		}
	case Move:
		s.editTarget(func(l lens.Lens) lens.Lens {
			l.Position = l.Position.Add(ev.Delta)
			return l
		})
	case AdjustRadius:
		s.editTarget(func(l lens.Lens) lens.Lens {
			l.EinsteinRadius += ev.Amount
			if l.EinsteinRadius < 0 {
				l.EinsteinRadius = 0
			}
			return l
		})
	case ScaleBackground:
		if scaled := s.BackgroundScale * ev.Amount; scaled > 0 {
			s.BackgroundScale = scaled
		}
	}
	return s
}

// Replay applies a sequence of events in order.
func Replay(s Scene, events []Event) Scene {
	for _, ev := range events {
		s = Apply(s, ev)
	}
	return s
}

func (s *Scene) editTarget(fn func(lens.Lens) lens.Lens) {
	idx := s.Target()
	if idx < 0 {
		return
	}
	s.Lenses.Replace(idx, fn(s.Lenses.At(idx)))
}
