package model

import "sync"

// FieldState tracks, per session, which mentioned values the user has
// explicitly affirmed. A field may live in both maps: a confirmed value can be
// superseded by a later pending mention, and vice versa. Last write wins
// within each map.
type FieldState struct {
	mu        sync.Mutex
	pending   map[string]interface{}
	confirmed map[string]interface{}
}

func NewFieldState() *FieldState {
	return &FieldState{
		pending:   make(map[string]interface{}),
		confirmed: make(map[string]interface{}),
	}
}

func (s *FieldState) SetPending(field string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[field] = value
}

func (s *FieldState) SetConfirmed(field string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed[field] = value
}

// Pending returns a copy of the unconfirmed field map.
func (s *FieldState) Pending() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.pending)
}

// Confirmed returns a copy of the confirmed field map.
func (s *FieldState) Confirmed() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.confirmed)
}

// Counts reports map sizes for logging.
func (s *FieldState) Counts() (pending int, confirmed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending), len(s.confirmed)
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
