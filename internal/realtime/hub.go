package realtime

import (
	"context"
	"sync"
	"sync/atomic"
)

// Why a subscription ended
const (
	ReasonClosed   = "closed"
	ReasonTooSlow  = "subscriber too slow"
	ReasonRevoked  = "access revoked"
	ReasonShutdown = "server shutting down"
)

// Subscription receives the events matching its filter
type Subscription struct {
	events chan Event
	tables map[string]bool
	userID string
	admin  bool
	once   sync.Once
	reason string
}

// Events is closed when the subscription ends or falls behind
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) matches(ev Event) bool {
	if len(s.tables) > 0 && !s.tables[ev.Table] {
		return false
	}
	if len(ev.Audience) == 0 || s.admin {
		return true
	}
	for _, id := range ev.Audience {
		if id == s.userID {
			return true
		}
	}
	return false
}

// Reason explains why the hub ended the subscription. It is only
// meaningful once Events is closed.
func (s *Subscription) Reason() string {
	return s.reason
}

func (s *Subscription) close(reason string) {
	s.once.Do(func() {
		s.reason = reason
		close(s.events)
	})
}

// SubscribeOptions selects what a subscriber receives
type SubscribeOptions struct {
	Tables []string
	UserID string
	Admin  bool
	Buffer int
}

// Hub fans events out to local subscribers
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	dropped atomic.Int64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers interest in tables. No tables means all of them.
func (h *Hub) Subscribe(opts SubscribeOptions) *Subscription {
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	sub := &Subscription{
		events: make(chan Event, opts.Buffer),
		tables: make(map[string]bool, len(opts.Tables)),
		userID: opts.UserID,
		admin:  opts.Admin,
	}
	for _, t := range opts.Tables {
		sub.tables[t] = true
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscription and closes its channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.remove(sub, ReasonClosed)
}

func (h *Hub) remove(sub *Subscription, reason string) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.close(reason)
}

// DisconnectUser ends every subscription held by the user and returns how
// many were closed
func (h *Hub) DisconnectUser(userID string) int {
	var gone []*Subscription

	h.mu.Lock()
	for sub := range h.subs {
		if sub.userID == userID {
			delete(h.subs, sub)
			gone = append(gone, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range gone {
		sub.close(ReasonRevoked)
	}
	return len(gone)
}

// Publish delivers to local subscribers only
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.Broadcast(ev)
	return nil
}

// Broadcast never blocks: a subscriber whose buffer is full is dropped
// and has to reconnect and refetch.
func (h *Hub) Broadcast(ev Event) {
	var slow []*Subscription

	h.mu.RLock()
	for sub := range h.subs {
		if !sub.matches(ev) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.dropped.Add(1)
		h.remove(sub, ReasonTooSlow)
	}
}

// Count returns the number of live subscriptions
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many subscribers were cut off for falling behind
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close ends every subscription
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[*Subscription]struct{})
	h.mu.Unlock()

	for sub := range subs {
		sub.close(ReasonShutdown)
	}
}
