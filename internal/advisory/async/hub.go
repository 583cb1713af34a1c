package async

import "sync"

// Versioned is implemented by snapshots published through a Hub.
type Versioned interface {
	SnapshotVersion() uint64
}

// Hub fans snapshots out to subscribers. Each subscriber channel holds at
// most one snapshot; a newer one replaces an undelivered older one, and
// versions seen by a subscriber never go backwards.
type Hub[S Versioned] struct {
	mu     sync.Mutex
	nextID int
	last   uint64
	subs   map[int]chan S
}

func NewHub[S Versioned]() *Hub[S] {
	return &Hub[S]{subs: make(map[int]chan S)}
}

// Subscribe registers a new listener. The returned cancel func closes the
// channel and is safe to call more than once.
func (h *Hub[S]) Subscribe() (<-chan S, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan S, 1)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish delivers snap to every subscriber unless a newer version was
// already published.
func (h *Hub[S]) Publish(snap S) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v := snap.SnapshotVersion()
	if v <= h.last {
		return
	}
	h.last = v
	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
