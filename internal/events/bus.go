package events

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Listener processes combat notifications
type Listener interface {
	HandleEvent(event Event) error
	Priority() int
	ID() string
}

// Bus distributes notifications to listeners in priority order. A listener
// error fails the emit so the issuing command is reported as uncommitted.
type Bus struct {
	listeners map[Type][]Listener
	mu        sync.RWMutex
}

// NewBus creates a new notification bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[Type][]Listener),
	}
}

// Subscribe adds a listener for a specific event type
func (b *Bus) Subscribe(eventType Type, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], listener)

	sort.Slice(b.listeners[eventType], func(i, j int) bool {
		return b.listeners[eventType][i].Priority() < b.listeners[eventType][j].Priority()
	})
}

// SubscribeAll adds a listener for every known event type
func (b *Bus) SubscribeAll(listener Listener) {
	for _, t := range []Type{
		TypeCombatStarted,
		TypeCombatEnded,
		TypeParticipantAdded,
		TypeParticipantRemoved,
		TypeParticipantMoved,
		TypeAdversaryUpdated,
		TypeInitiativeResolved,
		TypeAttackResolved,
		TypeTurnAdvanced,
	} {
		b.Subscribe(t, listener)
	}
}

// Unsubscribe removes a listener by id
func (b *Bus) Unsubscribe(eventType Type, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[eventType]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		b.listeners[eventType] = append(listeners[:i], listeners[i+1:]...)
		return
	}
}

// Emit sends an event to all registered listeners in priority order
func (b *Bus) Emit(event Event) error {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners[event.Type]))
	copy(listeners, b.listeners[event.Type])
	b.mu.RUnlock()

	for _, listener := range listeners {
		if err := listener.HandleEvent(event); err != nil {
			log.Printf("events: listener %s failed on %s: %v", listener.ID(), event.Type, err)
			return fmt.Errorf("listener %s failed: %w", listener.ID(), err)
		}
	}

	return nil
}

// Clear removes all listeners
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[Type][]Listener)
}
