package session

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary/itinerarytest"
)

func fixture(city string) *itinerary.Itinerary {
	return itinerarytest.NewItinerary(city).
		Day(itinerarytest.NewDay(1, city).
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "09:00", "11:00").
				Activity("Walk", "sightseeing", 120).Build()).
			Build()).
		Build()
}

func TestStoreCreatesOnFirstUse(t *testing.T) {
	store := NewStore()

	sess := store.Get("abc")
	require.NotNil(t, sess)
	assert.Equal(t, "abc", sess.ID)
	assert.Equal(t, 1, store.Len())

	// Same id returns the same session.
	sess.Remember("user", "hello")
	again := store.Get("abc")
	assert.Len(t, again.History, 1)
}

func TestStoreGeneratesIDWhenEmpty(t *testing.T) {
	store := NewStore()
	sess := store.Get("")
	assert.NotEmpty(t, sess.ID)
}

func TestStoreIsolation(t *testing.T) {
	store := NewStore()

	a := store.Get("a")
	b := store.Get("b")

	a.Remember("user", "only in a")
	assert.Empty(t, b.History)
}

func TestStoreEviction(t *testing.T) {
	store := NewStore(WithTTL(20*time.Millisecond), WithSweepInterval(10*time.Millisecond))

	store.Get("gone")
	require.Equal(t, 1, store.Len())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, store.Len())
}

func TestUndoRedoLinearHistory(t *testing.T) {
	sess := &Session{ID: "s"}

	v1 := fixture("Tokyo")
	v2 := fixture("Kyoto")

	sess.PushUndo(v1)
	require.True(t, sess.CanUndo())

	restored := sess.Undo(v2)
	require.NotNil(t, restored)
	assert.Empty(t, cmp.Diff(v1, restored))
	assert.True(t, sess.CanRedo())

	redone := sess.Redo(restored)
	require.NotNil(t, redone)
	assert.Empty(t, cmp.Diff(v2, redone))

	// A new mutation invalidates the redo stack.
	sess.Undo(redone)
	sess.PushUndo(fixture("Osaka"))
	assert.False(t, sess.CanRedo())
}

func TestUndoEmptyStack(t *testing.T) {
	sess := &Session{ID: "s"}
	assert.Nil(t, sess.Undo(fixture("Tokyo")))
	assert.Nil(t, sess.Redo(fixture("Tokyo")))
}

func TestHistoryBounded(t *testing.T) {
	sess := &Session{ID: "s"}
	for range 80 {
		sess.Remember("user", "x")
	}
	assert.Len(t, sess.History, maxHistoryDepth)
}
