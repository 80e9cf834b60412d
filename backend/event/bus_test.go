package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second []Type
	bus.Subscribe(func(e Event) { first = append(first, e.Type) })
	bus.Subscribe(func(e Event) { second = append(second, e.Type) })

	bus.Publish(Event{Type: IntentParsed, SessionID: "s1"})
	bus.Publish(Event{Type: MutationApplied, SessionID: "s1"})

	assert.Equal(t, []Type{IntentParsed, MutationApplied}, first)
	assert.Equal(t, []Type{IntentParsed, MutationApplied}, second)
}

func TestPublishSetsTimestamp(t *testing.T) {
	bus := NewBus()

	var got Event
	bus.Subscribe(func(e Event) { got = e })
	bus.Publish(Event{Type: RemediationApplied, Changes: 3})

	require.False(t, got.At.IsZero())
	assert.Equal(t, 3, got.Changes)
}

func TestPanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(func(Event) { panic("boom") })

	delivered := false
	bus.Subscribe(func(Event) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: MutationRejected})
	})
	assert.True(t, delivered)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewBus().Publish(Event{Type: IntentParsed})
	})
}
