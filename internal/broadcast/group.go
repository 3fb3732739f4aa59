package broadcast

import (
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/exp/maps"
)

// Group fans events out to the members of one room. Publish holds the group lock while it hands
// the event to every subscriber, so all members observe events in the same order.
type Group struct {
	mu          sync.Mutex
	subscribers map[string]Subscriber
	logger      *slog.Logger
}

func NewGroup(logger *slog.Logger) *Group {
	if logger == nil {
		logger = slog.Default()
	}

	return &Group{
		subscribers: make(map[string]Subscriber),
		logger:      logger,
	}
}

// Add reports false when a subscriber with the same id is already present.
func (g *Group) Add(sub Subscriber) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.subscribers[sub.ID()]; ok {
		return false
	}

	g.subscribers[sub.ID()] = sub
	return true
}

func (g *Group) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.subscribers[id]; !ok {
		return false
	}

	delete(g.subscribers, id)
	return true
}

// Publish delivers the event to every current member, the originator included.
// Members that fail to accept it are removed and their ids returned.
func (g *Group) Publish(event *Event) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var dropped []string
	for id, sub := range g.subscribers {
		if err := sub.Send(event); err != nil {
			g.logger.Warn("failed to deliver event", "subscriber_id", id, "event_type", event.Type, "error", err)
			delete(g.subscribers, id)
			dropped = append(dropped, id)
		}
	}

	return dropped
}

func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.subscribers)
}

// IDs returns member ids in sorted order.
func (g *Group) IDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := maps.Keys(g.subscribers)
	slices.Sort(ids)

	return ids
}
