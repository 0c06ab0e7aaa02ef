package events_test

import (
	"errors"
	"testing"

	"github.com/rollbound/rollbound/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testListener struct {
	id       string
	priority int
	handler  func(events.Event) error
}

func (l *testListener) HandleEvent(e events.Event) error { return l.handler(e) }
func (l *testListener) Priority() int                    { return l.priority }
func (l *testListener) ID() string                       { return l.id }

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := events.NewBus()

	var got []events.Event
	bus.Subscribe(events.TypeTurnAdvanced, &testListener{
		id: "recorder", priority: 100,
		handler: func(e events.Event) error {
			got = append(got, e)
			return nil
		},
	})

	err := bus.Emit(events.Event{Type: events.TypeTurnAdvanced, CombatID: "cbt-1", Round: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cbt-1", got[0].CombatID)
	assert.Equal(t, 2, got[0].Round)

	// Unrelated event types are not delivered
	err = bus.Emit(events.Event{Type: events.TypeAttackResolved})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBus_PriorityOrder(t *testing.T) {
	bus := events.NewBus()

	var order []string
	add := func(id string, priority int) {
		bus.Subscribe(events.TypeCombatStarted, &testListener{
			id: id, priority: priority,
			handler: func(events.Event) error {
				order = append(order, id)
				return nil
			},
		})
	}

	add("low", 300)
	add("high", 100)
	add("medium", 200)

	require.NoError(t, bus.Emit(events.Event{Type: events.TypeCombatStarted}))
	assert.Equal(t, []string{"high", "medium", "low"}, order)
}

func TestBus_ListenerErrorFailsEmit(t *testing.T) {
	bus := events.NewBus()

	bus.Subscribe(events.TypeAttackResolved, &testListener{
		id: "broken", priority: 100,
		handler: func(events.Event) error { return errors.New("transport down") },
	})

	err := bus.Emit(events.Event{Type: events.TypeAttackResolved})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := events.NewBus()

	calls := 0
	bus.Subscribe(events.TypeCombatEnded, &testListener{
		id: "once", priority: 100,
		handler: func(events.Event) error {
			calls++
			return nil
		},
	})

	require.NoError(t, bus.Emit(events.Event{Type: events.TypeCombatEnded}))
	bus.Unsubscribe(events.TypeCombatEnded, "once")
	require.NoError(t, bus.Emit(events.Event{Type: events.TypeCombatEnded}))

	assert.Equal(t, 1, calls)
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := events.NewBus()

	seen := map[events.Type]int{}
	bus.SubscribeAll(&testListener{
		id: "all", priority: 100,
		handler: func(e events.Event) error {
			seen[e.Type]++
			return nil
		},
	})

	require.NoError(t, bus.Emit(events.Event{Type: events.TypeCombatStarted}))
	require.NoError(t, bus.Emit(events.Event{Type: events.TypeParticipantMoved}))

	assert.Equal(t, 1, seen[events.TypeCombatStarted])
	assert.Equal(t, 1, seen[events.TypeParticipantMoved])
}
