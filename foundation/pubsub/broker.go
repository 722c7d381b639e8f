package pubsub

import (
	"fmt"
	"sync"
)

// Broker fans analysis progress events out to the subscribers of a session
// topic. Publishing to a topic nobody watches is a no-op; slow subscribers
// drop events rather than stall the pipeline.
type Broker struct {
	topics map[string][]*Subscriber
	sync.RWMutex
}

func NewBroker() *Broker {
	return &Broker{
		topics: make(map[string][]*Subscriber),
	}
}

func (b *Broker) Publish(topic string, data any) {
	b.RLock()
	subs := b.topics[topic]
	b.RUnlock()

	for _, sub := range subs {
		sub.Signal(data)
	}
}

func (b *Broker) Subscribe(topic string, s *Subscriber) {
	b.Lock()
	defer b.Unlock()
	{
		b.topics[topic] = append(b.topics[topic], s)
	}
}

func (b *Broker) Unsubscribe(topic string, s *Subscriber) error {
	b.Lock()
	defer b.Unlock()
	{
		subs, exists := b.topics[topic]
		if !exists {
			return fmt.Errorf("topic[%s] does not exist", topic)
		}

		b.topics[topic] = removeFromSlice(subs, s)
		s.CloseChannel()
	}

	return nil
}

// CloseTopic removes a finished session's topic and closes every remaining
// subscriber channel.
func (b *Broker) CloseTopic(topic string) {
	b.Lock()
	defer b.Unlock()
	{
		for _, sub := range b.topics[topic] {
			sub.CloseChannel()
		}
		delete(b.topics, topic)
	}
}

// =====================================================================================================================

func removeFromSlice[T comparable](s []T, d T) []T {
	for i := range s {
		if s[i] == d {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}
