package auth

import (
	"sync"
	"time"
)

type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventProfileUpdated EventType = "profile_updated"
)

type SessionEvent struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
	User      *User     `json:"user,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const subscriberBufferSize = 16

type subscription struct {
	events chan SessionEvent
	once   sync.Once
}

// Hub fans session changes out to the subscribers of each user.
// Subscribers that do not keep up lose events instead of blocking publishers.
type Hub struct {
	mutex       sync.RWMutex
	subscribers map[string]map[*subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*subscription]struct{}),
	}
}

// Subscribe registers for the user's session events until unsubscribe is called.
// The returned channel is closed by unsubscribe.
func (h *Hub) Subscribe(userID string) (<-chan SessionEvent, func()) {
	sub := &subscription{
		events: make(chan SessionEvent, subscriberBufferSize),
	}

	h.mutex.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[*subscription]struct{})
	}
	h.subscribers[userID][sub] = struct{}{}
	h.mutex.Unlock()

	unsubscribe := func() {
		sub.once.Do(func() {
			h.mutex.Lock()
			defer h.mutex.Unlock()
			if subs, ok := h.subscribers[userID]; ok {
				delete(subs, sub)
				if len(subs) == 0 {
					delete(h.subscribers, userID)
				}
			}
			close(sub.events)
		})
	}

	return sub.events, unsubscribe
}

func (h *Hub) Publish(event SessionEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for sub := range h.subscribers[event.UserID] {
		select {
		case sub.events <- event:
		default:
		}
	}
}

func (h *Hub) SubscribersCount(userID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subscribers[userID])
}
