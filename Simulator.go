package surfaceinput

import (
	"errors"
	"sync"
)

var errSimulatorClosed = errors.New("simulator closed")

// Simulator An in-memory touch surface. Contacts are placed and lifted by
// hand; GetState returns them in the order they first touched down.
type Simulator struct {
	mu       sync.Mutex
	screen   Dimensions
	contacts []Contact
	enabled  bool
	closed   bool
	failure  error
}

// NewSimulator Creates a simulator with the given surface size in pixels.
func NewSimulator(screen Dimensions) *Simulator {
	return &Simulator{screen: screen}
}

// EnableInput Starts reporting contacts.
func (s *Simulator) EnableInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSimulatorClosed
	}
	s.enabled = true
	return nil
}

// GetState Returns a copy of the active contacts. Before EnableInput the
// snapshot is empty.
func (s *Simulator) GetState() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errSimulatorClosed
	}
	if s.failure != nil {
		err := s.failure
		s.failure = nil
		return nil, err
	}
	if !s.enabled {
		return Snapshot{}, nil
	}
	return Snapshot(s.contacts).Clone(), nil
}

// ScreenSize Returns the simulated surface size.
func (s *Simulator) ScreenSize() (Dimensions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen, nil
}

// SetScreenSize Resizes the simulated surface.
func (s *Simulator) SetScreenSize(d Dimensions) {
	s.mu.Lock()
	s.screen = d
	s.mu.Unlock()
}

// Close Stops the simulator. Later reads fail.
func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.contacts = nil
	return nil
}

// Closed Reports whether Close was called.
func (s *Simulator) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Touch Puts c down, or moves the contact with the same ID.
func (s *Simulator) Touch(c Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == c.ID {
			s.contacts[i] = c
			return
		}
	}
	s.contacts = append(s.contacts, c)
}

// Lift Removes the contact with id. It reports whether one was down.
func (s *Simulator) Lift(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return true
		}
	}
	return false
}

// Clear Lifts every contact.
func (s *Simulator) Clear() {
	s.mu.Lock()
	s.contacts = nil
	s.mu.Unlock()
}

// FailNext Makes the next GetState return err.
func (s *Simulator) FailNext(err error) {
	s.mu.Lock()
	s.failure = err
	s.mu.Unlock()
}

// Swipe Drags contact c from its position to end. step runs after every
// intermediate move so the host can evaluate a frame; the contact is lifted
// once it reaches end.
func (s *Simulator) Swipe(c Contact, end Vector2D, step func()) {
	for _, p := range MovePath(Vector2D{X: c.X, Y: c.Y}, end) {
		c.X, c.Y = p.X, p.Y
		s.Touch(c)
		if step != nil {
			step()
		}
	}

	c.X, c.Y = end.X, end.Y
	s.Touch(c)
	if step != nil {
		step()
	}
	s.Lift(c.ID)
}
