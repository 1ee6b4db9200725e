package gate

import "sync"

// hub fans out the host list to subscribers after every accepted host.
// Slow subscribers only ever see the latest list.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan []string
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan []string)}
}

func (h *hub) subscribe() (<-chan []string, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan []string, 1)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (h *hub) publish(hosts []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case <-ch: // drop the stale list
		default:
		}
		select {
		case ch <- hosts:
		default:
		}
	}
}
