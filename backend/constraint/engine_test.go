package constraint_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub008/backend/constraint"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary/itinerarytest"
)

func findIssues(analysis *constraint.Analysis, issueType constraint.IssueType) []constraint.Issue {
	var out []constraint.Issue
	for _, issue := range analysis.Violations {
		if issue.Type == issueType {
			out = append(out, issue)
		}
	}
	return out
}

func TestOverlappingSlotsWarning(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "08:00", "10:00").
				Activity("Meiji Shrine", "sightseeing", 120).Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotAfternoon, "09:00", "11:00").
				Activity("Harajuku Walk", "sightseeing", 120).Build()).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, nil)

	overlaps := findIssues(analysis, constraint.OverlappingSlots)
	require.Len(t, overlaps, 1)
	assert.Equal(t, constraint.SeverityWarning, overlaps[0].Severity)
	assert.Equal(t, 1, overlaps[0].Day)
	assert.Contains(t, analysis.AffectedLayers, constraint.LayerTemporal)
	assert.False(t, analysis.HasErrors())
}

func TestInvalidTimeRangeError(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "11:00", "09:00").
				Activity("Backwards", "sightseeing", 60).Build()).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, nil)

	require.Len(t, findIssues(analysis, constraint.InvalidTimeRange), 1)
	assert.True(t, analysis.HasErrors())
}

func TestDayWindowWarnings(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "05:00", "07:00").
				Activity("Fish Market", "food", 120).Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotEvening, "21:00", "23:30").
				Activity("Golden Gai", "nightlife", 150).Build()).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, nil)

	assert.Len(t, findIssues(analysis, constraint.DayStartsTooEarly), 1)
	assert.Len(t, findIssues(analysis, constraint.DayEndsTooLate), 1)
	assert.False(t, analysis.HasErrors())
}

func TestArrivalFlightBoundary(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotAfternoon, "15:00", "16:30").
				Activity("Senso-ji Temple", "sightseeing", 90).Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotEvening, "18:00", "20:00").
				Activity("Shibuya Crossing", "sightseeing", 120).Build()).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, &constraint.Flights{Arrival: "15:00"})

	impossible := findIssues(analysis, constraint.ImpossibleBeforeArrival)
	require.Len(t, impossible, 1)
	assert.Equal(t, constraint.SeverityError, impossible[0].Severity)
	assert.True(t, strings.Contains(impossible[0].Message, "15:00"))
	assert.True(t, analysis.HasErrors())
}

func TestArrivalBoundarySkipsTravelSlots(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "15:30", "16:30").
				Behavior(itinerary.BehaviorTravel).
				Activity("Airport Transfer", "transport", 60).Build()).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, &constraint.Flights{Arrival: "15:00"})
	assert.Empty(t, findIssues(analysis, constraint.ImpossibleBeforeArrival))
}

func TestDepartureFlightBoundary(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "09:00", "11:00").
				Activity("Last Stroll", "sightseeing", 120).Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotAfternoon, "15:00", "17:00").
				Activity("Too Late Museum", "museum", 120).Build()).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, &constraint.Flights{Departure: "17:00"})

	impossible := findIssues(analysis, constraint.ImpossibleAfterDeparture)
	require.Len(t, impossible, 1)
	assert.Equal(t, "Too Late Museum", itFindName(t, it, impossible[0].Slot))
}

func itFindName(t *testing.T, it *itinerary.Itinerary, slotID string) string {
	t.Helper()
	_, slot := it.SlotByID(slotID)
	require.NotNil(t, slot)
	return slot.EffectiveOption().Activity.Name
}

func TestGeographicRadius(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			// Senso-ji is well inside the Tokyo radius.
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "09:00", "11:00").
				ActivityAt("Senso-ji Temple", "sightseeing", 120, 35.7148, 139.7967).Build()).
			// Hakone is ~80 km out.
			Slot(itinerarytest.NewSlot(itinerary.SlotAfternoon, "13:00", "17:00").
				ActivityAt("Hakone Open-Air Museum", "museum", 240, 35.2444, 139.0496).Build()).
			// Unknown location is skipped, not flagged.
			Slot(itinerarytest.NewSlot(itinerary.SlotEvening, "18:00", "20:00").
				Activity("Mystery Dinner", "food", 120).Build()).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, nil)

	outside := findIssues(analysis, constraint.OutsideCityRadius)
	require.Len(t, outside, 1)
	assert.Contains(t, outside[0].Message, "Hakone")
	assert.Contains(t, analysis.AffectedLayers, constraint.LayerGeographic)
}

func TestBehavioralChecks(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Slot(itinerarytest.NewSlot(itinerary.SlotMorning, "09:00", "10:00").
				Activity("Airport Transfer", "transport", 60).Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotLunch, "12:00", "13:00").
				Activity("Ichiran Ramen", "food", 60).Build()).
			Slot(itinerarytest.NewSlot(itinerary.SlotAfternoon, "14:00", "16:00").
				Activity("TeamLab Borderless", "museum", 120).Tagged("pre-booked").Build()).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, nil)

	assert.Len(t, findIssues(analysis, constraint.MissingTravelBehavior), 1)
	assert.Len(t, findIssues(analysis, constraint.MissingMealBehavior), 1)
	assert.Len(t, findIssues(analysis, constraint.MissingAnchorBehavior), 1)
	assert.Contains(t, analysis.AffectedLayers, constraint.LayerBehavioral)
	assert.False(t, analysis.HasErrors())
}

func TestResourceChecks(t *testing.T) {
	it := itinerarytest.NewItinerary("Tokyo").
		Day(itinerarytest.NewDay(1, "Tokyo").
			Accommodation("Shinjuku Hotel", 35.6938, 139.7034).
			HotelCommute(90, 60_000).
			Build()).
		Day(itinerarytest.NewDay(2, "Tokyo").
			HotelCommute(20, 8_000).
			Build()).
		Build()

	analysis := constraint.NewEngine(nil).Analyze(it, nil)

	tooFar := findIssues(analysis, constraint.HotelCommuteTooFar)
	require.Len(t, tooFar, 1)
	assert.Equal(t, 1, tooFar[0].Day)

	dangling := findIssues(analysis, constraint.DanglingHotelCommute)
	require.Len(t, dangling, 1)
	assert.Equal(t, 2, dangling[0].Day)
	assert.Equal(t, constraint.SeverityError, dangling[0].Severity)
}

func TestLoadProfileOverlaysDefaults(t *testing.T) {
	in := strings.NewReader(`
dayEndMin: 1320
cities:
  lisbon:
    lat: 38.7223
    lng: -9.1393
    radiusKm: 15
`)
	profile, err := constraint.LoadProfile(in)
	require.NoError(t, err)

	assert.Equal(t, 1320, profile.DayEndMin)
	// Defaults survive the overlay.
	assert.Equal(t, 6*60, profile.DayStartMin)
	assert.Equal(t, 120, profile.ArrivalBufferMin)
	assert.Contains(t, profile.Cities, "lisbon")
	assert.Contains(t, profile.Cities, "tokyo")
}
