package realtime

import (
	"sync"
	"sync/atomic"
)

const defaultTopicBufferSize = 256

// Subscriber is one reader's view of a chat topic. Reads never block the
// publisher: a full buffer increments lag instead, and the next successful
// read surfaces a synthetic Lagged(n) marker before resuming real events.
type Subscriber struct {
	ch  chan *Event
	lag atomic.Int64
}

// Next blocks until the next event or ch closes (topic torn down).
func (s *Subscriber) Next() (*Event, bool) {
	if n := s.lag.Swap(0); n > 0 {
		return newLaggedEvent(n), true
	}
	ev, ok := <-s.ch
	return ev, ok
}

// TryNext is Next's non-blocking counterpart, used by the connection's
// flush-ticker drain so one slow topic can't stall the others. Unlike Next,
// it returns buffered events first and reports a pending Lagged marker only
// once the channel is empty.
func (s *Subscriber) TryNext() (*Event, bool) {
	select {
	case ev, ok := <-s.ch:
		return ev, ok
	default:
		if n := s.lag.Swap(0); n > 0 {
			return newLaggedEvent(n), true
		}
		return nil, false
	}
}

type topic struct {
	subscribers map[*Subscriber]struct{}
}

// Fabric is the per-chat broadcast fabric: a lazily-created topic per
// chat ID, refcounted by its subscriber set, reclaimed once empty.
type Fabric struct {
	mu         sync.RWMutex
	topics     map[int]*topic
	bufferSize int
}

// NewFabric creates a Fabric whose per-subscriber channel buffer defaults
// to 256 events when topicBufferSize is zero or negative.
func NewFabric(topicBufferSize int) *Fabric {
	if topicBufferSize <= 0 {
		topicBufferSize = defaultTopicBufferSize
	}
	return &Fabric{
		topics:     make(map[int]*topic),
		bufferSize: topicBufferSize,
	}
}

// Subscribe creates the chat's topic on first use and returns a Subscriber
// whose Next method the caller's writer task drains.
func (f *Fabric) Subscribe(chatID int) *Subscriber {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.topics[chatID]
	if !ok {
		t = &topic{subscribers: make(map[*Subscriber]struct{})}
		f.topics[chatID] = t
	}

	sub := &Subscriber{ch: make(chan *Event, f.bufferSize)}
	t.subscribers[sub] = struct{}{}
	return sub
}

// Unsubscribe detaches sub from chatID's topic, closing its channel and
// tearing down the topic once its last subscriber leaves.
func (f *Fabric) Unsubscribe(chatID int, sub *Subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.topics[chatID]
	if !ok {
		return
	}

	if _, ok := t.subscribers[sub]; ok {
		delete(t.subscribers, sub)
		close(sub.ch)
	}

	if len(t.subscribers) == 0 {
		delete(f.topics, chatID)
	}
}

// ErrNoReceivers is returned by Publish when the chat has no subscribed
// connection; callers treat it as a non-error (the message still persists).
var ErrNoReceivers = errNoReceivers{}

type errNoReceivers struct{}

func (errNoReceivers) Error() string { return "no receivers for chat" }

// Publish delivers event to every subscriber of chatID, never blocking: a
// full subscriber buffer increments that subscriber's lag counter instead
// of stalling the publish. An empty or absent topic is reclaimed and
// reported via ErrNoReceivers.
func (f *Fabric) Publish(chatID int, event *Event) error {
	f.mu.RLock()
	t, ok := f.topics[chatID]
	if !ok {
		f.mu.RUnlock()
		return ErrNoReceivers
	}

	if len(t.subscribers) == 0 {
		f.mu.RUnlock()
		f.mu.Lock()
		if t2, ok := f.topics[chatID]; ok && len(t2.subscribers) == 0 {
			delete(f.topics, chatID)
		}
		f.mu.Unlock()
		return ErrNoReceivers
	}

	for sub := range t.subscribers {
		select {
		case sub.ch <- event:
		default:
			sub.lag.Add(1)
		}
	}
	f.mu.RUnlock()

	return nil
}
