package session

import (
	"fmt"
)

func point(x, y float64) string {
	return fmt.Sprintf("(%s, %s)", num(x), num(y))
}

// Tap taps a point. Coordinates in (0, 1) are fractions of the screen.
func (s *Session) Tap(x, y float64) Result {
	return s.call(func() Result {
		if err := s.backend.Click(x, y); err != nil {
			return fail(err)
		}
		return Message("Tapped at " + point(x, y))
	})
}

// DoubleTap taps a point twice, duration seconds apart.
func (s *Session) DoubleTap(x, y, duration float64) Result {
	return s.call(func() Result {
		if err := s.backend.DoubleClick(x, y, seconds(duration)); err != nil {
			return fail(err)
		}
		return Message("Double tapped at " + point(x, y))
	})
}

// LongTap presses a point for duration seconds.
func (s *Session) LongTap(x, y, duration float64) Result {
	return s.call(func() Result {
		if err := s.backend.LongClick(x, y, seconds(duration)); err != nil {
			return fail(err)
		}
		return Message("Long tapped at " + point(x, y))
	})
}

// InputText types into the focused field.
func (s *Session) InputText(text string, clear bool) Result {
	return s.call(func() Result {
		if err := s.backend.SendKeys(text, clear); err != nil {
			return fail(err)
		}
		return Message("Input text: " + text)
	})
}

// ClearText empties the focused field.
func (s *Session) ClearText() Result {
	return s.call(func() Result {
		if err := s.backend.ClearText(); err != nil {
			return fail(err)
		}
		return Message("Text cleared")
	})
}

// PressKey sends a key by name or keycode.
func (s *Session) PressKey(key string) Result {
	return s.call(func() Result {
		if err := s.backend.Press(key); err != nil {
			return fail(err)
		}
		return Message("Pressed key: " + key)
	})
}

// Swipe drags between two points over duration seconds.
func (s *Session) Swipe(fx, fy, tx, ty, duration float64) Result {
	return s.call(func() Result {
		if err := s.backend.Swipe(fx, fy, tx, ty, seconds(duration)); err != nil {
			return fail(err)
		}
		return Message(fmt.Sprintf("Swiped from %s to %s", point(fx, fy), point(tx, ty)))
	})
}

// SwipeExt swipes in a direction across scale of box (whole screen when empty).
func (s *Session) SwipeExt(direction string, scale float64, box []float64) Result {
	return s.call(func() Result {
		if err := s.backend.SwipeExt(direction, scale, box); err != nil {
			return fail(err)
		}
		return Message("Swiped " + direction)
	})
}

// Drag presses at the start point and moves to the end point over duration seconds.
func (s *Session) Drag(sx, sy, ex, ey, duration float64) Result {
	return s.call(func() Result {
		if err := s.backend.Drag(sx, sy, ex, ey, seconds(duration)); err != nil {
			return fail(err)
		}
		return Message(fmt.Sprintf("Dragged from %s to %s", point(sx, sy), point(ex, ey)))
	})
}
