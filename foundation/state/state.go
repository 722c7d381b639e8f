package state

import "sync"

// Branch identifies one of the two analysis branches of a session.
type Branch int

const (
	Facial Branch = iota
	Voice
)

// State tracks which branches are still producing results. A branch is turned
// off when its media prerequisite is missing (no audio track) or when its
// extraction step failed.
type State struct {
	sync.RWMutex

	Facial bool
	Voice  bool
}

func NewState() *State {
	return &State{
		Facial: true,
		Voice:  true,
	}
}

func (s *State) Get(b Branch) bool {
	s.RLock()
	defer s.RUnlock()
	{
		switch b {
		case Facial:
			return s.Facial

		case Voice:
			return s.Voice
		}
	}
	return false
}

func (s *State) Set(b Branch, enabled bool) {
	s.Lock()
	defer s.Unlock()
	{
		switch b {
		case Facial:
			s.Facial = enabled

		case Voice:
			s.Voice = enabled
		}
	}
}
