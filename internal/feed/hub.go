// Package feed fans freshly stored signals out to live dashboard
// connections. The ingest path publishes; SSE and websocket handlers
// subscribe.
package feed

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"signalboard/internal/config"
	"signalboard/internal/models"
)

type subscriber struct {
	platform string // "" matches every platform
	ch       chan models.Signal
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64

	buf     int
	logger  *zap.Logger
	dropped uint64
}

func NewHub(cfg config.FeedConfig, logger *zap.Logger) *Hub {
	buf := cfg.Buffer
	if buf <= 0 {
		buf = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{subs: map[uint64]*subscriber{}, buf: buf, logger: logger}
}

// Subscribe registers a listener for signals on one platform ("" for all)
// and returns its channel plus a cancel func. Cancel must be called when the
// listener goes away; it removes the registration and closes the channel.
func (h *Hub) Subscribe(platform string, buf int) (<-chan models.Signal, func()) {
	if buf <= 0 {
		buf = h.buf
	}
	sub := &subscriber{platform: platform, ch: make(chan models.Signal, buf)}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if s, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(s.ch)
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish fans a stored signal out to matching subscribers. Slow listeners
// drop frames; publishing never blocks the ingest path.
func (h *Hub) Publish(sig models.Signal) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.platform != "" && sub.platform != sig.Platform {
			continue
		}
		select {
		case sub.ch <- sig:
		default:
			atomic.AddUint64(&h.dropped, 1)
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped reports how many frames were discarded on slow subscribers.
func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}
