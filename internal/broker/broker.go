// Package broker provides an in-memory pub/sub hub scoped by dancefloor ID.
// It fans out queue, chat, and join events to every WebSocket and SSE
// connection subscribed to a dancefloor.
package broker

import (
	"errors"
	"log/slog"
	"sync"
)

// Event kinds published to dancefloor groups. The string values are the
// event names seen by clients.
const (
	KindMessage             = "message"
	KindSongRequest         = "songRequest"
	KindSendMessage         = "sendMessage"
	KindStatusUpdate        = "statusUpdate"
	KindRequestsCount       = "updateRequestsCount"
	KindMessagesCount       = "updateMessagesCount"
	KindLikeSongRequest     = "likeSongRequest"
	KindReorderSongRequests = "reorderSongRequests"
)

// ErrMissingDancefloor is returned by Join for an empty dancefloor ID.
var ErrMissingDancefloor = errors.New("dancefloor id is required")

// ErrClosed is returned by Join once the subscription has been closed.
var ErrClosed = errors.New("subscription closed")

// Event is a single state change delivered to subscribers.
type Event struct {
	DancefloorID string
	Kind         string
	Payload      any
}

// Publisher is the part of the hub the services depend on.
type Publisher interface {
	Publish(dancefloorID, kind string, payload any)
}

// Subscription is one connection's view of the hub. It may be a member of
// any number of dancefloor groups and receives their events on a single
// channel, in publish order.
type Subscription struct {
	ID string

	events chan Event
	groups map[string]struct{}
	closed bool
}

// Events returns the delivery channel. It is closed when the subscription
// is closed, either by the owner or because it fell too far behind.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Broker is a dancefloor-scoped pub/sub hub.
type Broker struct {
	mu         sync.Mutex
	groups     map[string]map[*Subscription]struct{}
	bufferSize int
}

// New creates a ready-to-use Broker. bufferSize bounds how many undelivered
// events a subscriber may hold before it is dropped.
func New(bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Broker{
		groups:     make(map[string]map[*Subscription]struct{}),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a new connection that belongs to no group yet.
func (b *Broker) Subscribe(id string) *Subscription {
	return &Subscription{
		ID:     id,
		events: make(chan Event, b.bufferSize),
		groups: make(map[string]struct{}),
	}
}

// Join adds sub to the group for dancefloorID. Joining a group twice is a no-op.
func (b *Broker) Join(sub *Subscription, dancefloorID string) error {
	if dancefloorID == "" {
		return ErrMissingDancefloor
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.closed {
		return ErrClosed
	}
	if b.groups[dancefloorID] == nil {
		b.groups[dancefloorID] = make(map[*Subscription]struct{})
	}
	b.groups[dancefloorID][sub] = struct{}{}
	sub.groups[dancefloorID] = struct{}{}
	return nil
}

// Close removes sub from every group it joined and closes its channel.
// Calling Close more than once is safe.
func (b *Broker) Close(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

func (b *Broker) removeLocked(sub *Subscription) {
	if sub.closed {
		return
	}
	for dancefloorID := range sub.groups {
		if members, ok := b.groups[dancefloorID]; ok {
			delete(members, sub)
			if len(members) == 0 {
				delete(b.groups, dancefloorID)
			}
		}
	}
	sub.groups = nil
	sub.closed = true
	close(sub.events)
}

// Publish delivers an event to every current member of the dancefloor group.
// The hub lock is held for the whole fan-out, so every subscriber sees
// events for a dancefloor in the same order Publish was called. A
// subscriber whose buffer is full is closed rather than blocking the others.
func (b *Broker) Publish(dancefloorID, kind string, payload any) {
	event := Event{DancefloorID: dancefloorID, Kind: kind, Payload: payload}

	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.groups[dancefloorID] {
		select {
		case sub.events <- event:
		default:
			slog.Warn("dropping slow subscriber",
				slog.String("client_id", sub.ID),
				slog.String("dancefloor_id", dancefloorID),
				slog.String("event", kind),
			)
			b.removeLocked(sub)
		}
	}
}

// GroupSize returns the number of subscribers in a dancefloor group.
func (b *Broker) GroupSize(dancefloorID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.groups[dancefloorID])
}
