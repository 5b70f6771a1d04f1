package resultsrv

import "sync"

// hub fans manifest-change pings out to event-stream clients.
// A ping carries no data; clients re-fetch the manifest.
type hub struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{listeners: make(map[chan struct{}]struct{})}
}

// subscribe registers a listener and returns it with its release func.
func (h *hub) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.listeners[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.listeners, ch)
		h.mu.Unlock()
	}
}

// broadcast pings every listener without blocking; a listener that already
// has a ping pending keeps just the one.
func (h *hub) broadcast() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
