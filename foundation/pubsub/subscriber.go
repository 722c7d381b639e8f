package pubsub

import "sync"

type Subscriber struct {
	payload chan any
	mu      sync.Mutex
	closed  bool
}

func NewSubscriber(channelCapacity int) *Subscriber {
	if channelCapacity < 1 {
		channelCapacity = 1
	}
	return &Subscriber{
		payload: make(chan any, channelCapacity),
	}
}

// Signal delivers data without blocking; events beyond the subscriber's
// buffer are dropped, as is anything sent after the channel closed.
func (s *Subscriber) Signal(data any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.payload <- data:
	default:
	}
}

func (s *Subscriber) GetChannel() <-chan any {
	return s.payload
}

func (s *Subscriber) CloseChannel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.payload)
}
