package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary/itinerarytest"
)

func TestCommuteCostPrefersResolvedRecords(t *testing.T) {
	day := itinerarytest.NewDay(1, "Tokyo").
		Accommodation("Shinjuku Hotel", 35.6938, 139.7034).
		Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "09:00", "11:00").
			ActivityAt("Meiji Shrine", "sightseeing", 120, 35.6764, 139.6993).
			Commute(40, 1_900).Build()).
		Slot(itinerarytest.NewSlot(itinerary.SlotAfternoon, "13:00", "16:00").
			ActivityAt("Senso-ji", "sightseeing", 120, 35.7148, 139.7967).
			Commute(35, 9_800).Build()).
		Build()

	baseline := effectiveIDs(&day)

	// Both pairs sit where the records describe them, so the resolved
	// durations are the cost, not a coordinate estimate.
	require.Equal(t, 75, commuteCost(&day, baseline))
	assert.Equal(t, 75, routeCost(&day))

	// Swapping the payloads breaks both adjacencies; the stale records no
	// longer apply and the cost falls back to estimates.
	a, b := &day.Slots[0], &day.Slots[1]
	pa, pb := takePayload(a), takePayload(b)
	putPayload(a, pb)
	putPayload(b, pa)

	estimated := commuteCost(&day, baseline)
	assert.NotEqual(t, 75, estimated)
	assert.Positive(t, estimated)

	// Swapping back restores the record-based cost.
	pa, pb = takePayload(a), takePayload(b)
	putPayload(a, pb)
	putPayload(b, pa)
	assert.Equal(t, 75, commuteCost(&day, baseline))
}
