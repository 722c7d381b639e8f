package pubsub_test

import (
	"testing"
	"time"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/pubsub"
)

func TestBroker(t *testing.T) {
	t.Run("fan out to topic subscribers", func(t *testing.T) {
		t.Parallel()
		b := pubsub.NewBroker()
		s1 := pubsub.NewSubscriber(4)
		s2 := pubsub.NewSubscriber(4)
		other := pubsub.NewSubscriber(4)

		b.Subscribe("progress:a", s1)
		b.Subscribe("progress:a", s2)
		b.Subscribe("progress:b", other)

		b.Publish("progress:a", "frame extraction")

		for i, sub := range []*pubsub.Subscriber{s1, s2} {
			select {
			case got := <-sub.GetChannel():
				if got != "frame extraction" {
					t.Fatalf("subscriber %d: got %v", i, got)
				}
			case <-time.After(time.Second):
				t.Fatalf("subscriber %d: no event received", i)
			}
		}

		select {
		case got := <-other.GetChannel():
			t.Fatalf("unrelated topic received %v", got)
		default:
		}
	})

	t.Run("publish without subscribers", func(t *testing.T) {
		t.Parallel()
		b := pubsub.NewBroker()
		b.Publish("progress:nobody", "dropped")
	})

	t.Run("slow subscriber drops events", func(t *testing.T) {
		t.Parallel()
		b := pubsub.NewBroker()
		s := pubsub.NewSubscriber(1)
		b.Subscribe("progress:a", s)

		b.Publish("progress:a", 1)
		b.Publish("progress:a", 2)

		got := <-s.GetChannel()
		if got != 1 {
			t.Fatalf("got %v, want first event", got)
		}
		select {
		case got := <-s.GetChannel():
			t.Fatalf("buffered overflow event %v should have been dropped", got)
		default:
		}
	})

	t.Run("close topic closes channels", func(t *testing.T) {
		t.Parallel()
		b := pubsub.NewBroker()
		s := pubsub.NewSubscriber(1)
		b.Subscribe("progress:a", s)

		b.CloseTopic("progress:a")

		if _, open := <-s.GetChannel(); open {
			t.Fatal("channel still open after CloseTopic")
		}
	})

	t.Run("unsubscribe then close topic", func(t *testing.T) {
		t.Parallel()
		b := pubsub.NewBroker()
		s := pubsub.NewSubscriber(1)
		b.Subscribe("progress:a", s)

		if err := b.Unsubscribe("progress:a", s); err != nil {
			t.Fatal(err)
		}

		// Double close must not panic.
		b.CloseTopic("progress:a")

		if err := b.Unsubscribe("progress:missing", s); err == nil {
			t.Fatal("expected error for unknown topic")
		}
	})
}
