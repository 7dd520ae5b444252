package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	logger *zap.Logger
}

type Subscription struct {
	filters []Filter
	events  chan Event
	hub     *Hub
	once    sync.Once
}

func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a subscription receiving events that match any of
// filters. It lives until Close or until ctx is done, whichever comes first.
func (h *Hub) Subscribe(ctx context.Context, filters ...Filter) *Subscription {
	sub := &Subscription{
		filters: filters,
		events:  make(chan Event, h.buffer),
		hub:     h,
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
func (h *Hub) Publish(ev Event) {
	fields := decodeFields(ev.row())

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.matches(ev, fields) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			h.logger.Warn("dropping realtime event for slow subscriber",
				zap.String("table", ev.Table),
				zap.String("type", ev.Type))
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (s *Subscription) matches(ev Event, fields map[string]interface{}) bool {
	for _, f := range s.filters {
		if f.matches(ev, fields) {
			return true
		}
	}
	return false
}

// Events is closed once the subscription ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		close(s.events)
	})
}
