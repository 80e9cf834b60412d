package itinerary_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary/itinerarytest"
)

func tokyoFixture() *itinerary.Itinerary {
	return itinerarytest.NewItinerary("Tokyo").
		Country("Japan").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "09:00", "11:00").
				ActivityAt("Senso-ji Temple", "sightseeing", 120, 35.7148, 139.7967).Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotLunch, "12:00", "13:00").
				Behavior(itinerary.BehaviorMeal).
				Activity("Ichiran Ramen", "food", 60).Build()).
			Build()).
		Day(itinerarytest.NewDay(2, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotAfternoon, "14:00", "17:00").
				ActivityAt("TeamLab Borderless", "museum", 180, 35.6263, 139.7836).Build()).
			Build()).
		Build()
}

func TestCloneIsIndependent(t *testing.T) {
	orig := tokyoFixture()
	clone := orig.Clone()

	require.Empty(t, cmp.Diff(orig, clone))

	clone.Days[0].Slots[0].Options[0].Activity.Name = "changed"
	clone.Days[0].Slots[0].Options[0].Activity.Place.Tags = append(
		clone.Days[0].Slots[0].Options[0].Activity.Place.Tags, "new-tag")
	clone.Days[1].City = "Kyoto"

	assert.Equal(t, "Senso-ji Temple", orig.Days[0].Slots[0].Options[0].Activity.Name)
	assert.Empty(t, orig.Days[0].Slots[0].Options[0].Activity.Place.Tags)
	assert.Equal(t, "Tokyo", orig.Days[1].City)
}

func TestEffectiveOption(t *testing.T) {
	slot := itinerarytest.NewSlot(itinerary.SlotMorning, "09:00", "11:00").
		Activity("First", "sightseeing", 60).
		Activity("Second", "sightseeing", 60).
		Build()

	// No selection: first option wins.
	assert.Equal(t, "First", slot.EffectiveOption().Activity.Name)

	// Explicit selection.
	slot.SelectedOptionID = slot.Options[1].ID
	assert.Equal(t, "Second", slot.EffectiveOption().Activity.Name)

	// Dangling reference falls back to the first option.
	slot.SelectedOptionID = "no-such-option"
	assert.Equal(t, "First", slot.EffectiveOption().Activity.Name)

	empty := itinerary.Slot{}
	assert.Nil(t, empty.EffectiveOption())
}

func TestFindActivity(t *testing.T) {
	it := tokyoFixture()

	day, slot := it.FindActivity("teamlab")
	require.NotNil(t, slot)
	assert.Equal(t, 2, day.DayNumber)
	assert.Equal(t, "TeamLab Borderless", slot.EffectiveOption().Activity.Name)

	_, slot = it.FindActivity("Eiffel Tower")
	assert.Nil(t, slot)

	_, slot = it.FindActivity("  ")
	assert.Nil(t, slot)
}

func TestNormalizeSortsSlotsByStart(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotAfternoon, "14:00", "16:00").Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "09:00", "11:00").Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotLunch, "12:00", "13:00").Build()).
			Build()).
		Build()

	it.Normalize()

	starts := []string{}
	for _, s := range it.Days[0].Slots {
		starts = append(starts, s.Time.Start)
	}
	assert.Equal(t, []string{"09:00", "12:00", "14:00"}, starts)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "senso-ji temple", itinerary.NormalizeName("  The Senso-ji   Temple "))
	assert.Equal(t, itinerary.NormalizeName("TeamLab Borderless"), itinerary.NormalizeName("teamlab borderless"))
}

func TestLooksLikeTransport(t *testing.T) {
	tests := []struct {
		name     string
		activity itinerary.Activity
		want     bool
	}{
		{"category transport", itinerary.Activity{Name: "Ride", Category: "transport"}, true},
		{"airport keyword", itinerary.Activity{Name: "Airport Transfer", Category: "logistics"}, true},
		{"shinkansen keyword", itinerary.Activity{Name: "Shinkansen to Kyoto"}, true},
		{"plain sight", itinerary.Activity{Name: "Meiji Shrine", Category: "sightseeing"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.activity.LooksLikeTransport())
		})
	}
}

func TestSummary(t *testing.T) {
	summary := tokyoFixture().Summary()

	assert.True(t, strings.HasPrefix(summary, "Tokyo, Japan"))
	assert.Contains(t, summary, "Day 1 (Tokyo): morning=Senso-ji Temple; lunch=Ichiran Ramen")
	assert.Contains(t, summary, "Day 2 (Tokyo): afternoon=TeamLab Borderless")
}

func TestCodecRoundTrip(t *testing.T) {
	orig := tokyoFixture()

	var buf strings.Builder
	require.NoError(t, itinerary.Encode(&buf, orig))

	decoded, err := itinerary.Decode(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(orig, decoded))
}
