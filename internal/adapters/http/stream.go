package http

import (
	"log/slog"
	"sync"
)

// StreamManager handles active SSE connections, keyed by plan run ID.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a listener for one plan run. The returned cancel
// function removes the subscription and closes the channel.
func (sm *StreamManager) Subscribe(planRunID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[planRunID]; !ok {
		sm.subscribers[planRunID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[planRunID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[planRunID]; ok {
			if _, present := subs[ch]; !present {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, planRunID)
			}
		}
	}
}

// Broadcast delivers a message to every subscriber of a plan run, dropping
// it for subscribers whose buffer is full.
func (sm *StreamManager) Broadcast(planRunID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if subs, ok := sm.subscribers[planRunID]; ok {
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				slog.Warn("SSE: Client buffer full, dropping message", "plan_run_id", planRunID)
			}
		}
	}
}
