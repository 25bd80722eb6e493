package feed

import (
	"testing"

	"signalboard/internal/config"
	"signalboard/internal/models"
)

func sig(id, platform string) models.Signal {
	return models.Signal{ID: id, Platform: platform, Timestamp: 1_700_000_000_000}
}

func TestPublishReachesAllPlatformSubscriber(t *testing.T) {
	h := NewHub(config.FeedConfig{}, nil)
	ch, cancel := h.Subscribe("", 4)
	defer cancel()

	h.Publish(sig("a", "demo"))
	h.Publish(sig("b", "other"))

	if got := (<-ch).ID; got != "a" {
		t.Fatalf("first frame = %q, want a", got)
	}
	if got := (<-ch).ID; got != "b" {
		t.Fatalf("second frame = %q, want b", got)
	}
}

func TestPublishFiltersByPlatform(t *testing.T) {
	h := NewHub(config.FeedConfig{}, nil)
	ch, cancel := h.Subscribe("demo", 4)
	defer cancel()

	h.Publish(sig("a", "other"))
	h.Publish(sig("b", "demo"))

	if got := (<-ch).ID; got != "b" {
		t.Fatalf("frame = %q, want b (other platform filtered)", got)
	}
	if len(ch) != 0 {
		t.Fatalf("extra frames buffered = %d, want 0", len(ch))
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(config.FeedConfig{}, nil)
	ch, cancel := h.Subscribe("", 1)
	defer cancel()

	// Second publish finds the buffer full and must return immediately.
	h.Publish(sig("a", "demo"))
	h.Publish(sig("b", "demo"))

	if got := (<-ch).ID; got != "a" {
		t.Fatalf("frame = %q, want a", got)
	}
	if len(ch) != 0 {
		t.Fatalf("buffered frames = %d, want 0 after drop", len(ch))
	}
	if h.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", h.Dropped())
	}
}

func TestCancelRemovesSubscriberAndClosesChannel(t *testing.T) {
	h := NewHub(config.FeedConfig{}, nil)
	ch, cancel := h.Subscribe("", 1)

	if h.SubscriberCount() != 1 {
		t.Fatalf("subscribers = %d, want 1", h.SubscriberCount())
	}
	cancel()
	cancel() // idempotent
	if h.SubscriberCount() != 0 {
		t.Fatalf("subscribers = %d, want 0", h.SubscriberCount())
	}
	if _, open := <-ch; open {
		t.Fatal("channel still open after cancel")
	}

	// Publishing after cancel must not panic or deliver.
	h.Publish(sig("a", "demo"))
}

func TestSubscribersReceiveIndependently(t *testing.T) {
	h := NewHub(config.FeedConfig{Buffer: 4}, nil)
	all, cancelAll := h.Subscribe("", 0)
	demo, cancelDemo := h.Subscribe("demo", 0)
	defer cancelAll()
	defer cancelDemo()

	h.Publish(sig("a", "demo"))

	if got := (<-all).ID; got != "a" {
		t.Fatalf("all-platform frame = %q, want a", got)
	}
	if got := (<-demo).ID; got != "a" {
		t.Fatalf("demo frame = %q, want a", got)
	}
}
