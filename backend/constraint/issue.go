// Package constraint evaluates itineraries against temporal, geographic,
// behavioral, and resource rules. Checks are independent and composable;
// none short-circuits another.
package constraint

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type IssueType string

const (
	InvalidTimeRange         IssueType = "INVALID_TIME_RANGE"
	OverlappingSlots         IssueType = "OVERLAPPING_SLOTS"
	DayStartsTooEarly        IssueType = "DAY_STARTS_TOO_EARLY"
	DayEndsTooLate           IssueType = "DAY_ENDS_TOO_LATE"
	ImpossibleBeforeArrival  IssueType = "IMPOSSIBLE_SLOT_BEFORE_ARRIVAL"
	ImpossibleAfterDeparture IssueType = "IMPOSSIBLE_SLOT_AFTER_DEPARTURE"
	OutsideCityRadius        IssueType = "OUTSIDE_CITY_RADIUS"
	MissingTravelBehavior    IssueType = "MISSING_TRAVEL_BEHAVIOR"
	MissingMealBehavior      IssueType = "MISSING_MEAL_BEHAVIOR"
	MissingAnchorBehavior    IssueType = "MISSING_ANCHOR_BEHAVIOR"
	HotelCommuteTooFar       IssueType = "HOTEL_COMMUTE_TOO_FAR"
	DanglingHotelCommute     IssueType = "DANGLING_HOTEL_COMMUTE"

	// Itinerary-wide types raised only by the batch validator.
	InsufficientActivities IssueType = "INSUFFICIENT_ACTIVITIES"
	MissingLunch           IssueType = "MISSING_LUNCH"
	MealCommuteTooLong     IssueType = "MEAL_COMMUTE_TOO_LONG"
	DietaryConflict        IssueType = "DIETARY_CONFLICT"
	CrossDayDuplicate      IssueType = "CROSS_DAY_DUPLICATE"
	EmptySlot              IssueType = "EMPTY_SLOT"
	NonContiguousDays      IssueType = "NON_CONTIGUOUS_DAYS"
)

const (
	LayerTemporal   = "temporal"
	LayerGeographic = "geographic"
	LayerBehavioral = "behavioral"
	LayerResource   = "resource"
)

// Issue is one finding against an itinerary. Slot is empty for day-level
// findings.
type Issue struct {
	Type     IssueType `json:"type"`
	Severity Severity  `json:"severity"`
	Layer    string    `json:"layer"`
	Day      int       `json:"day"`
	Slot     string    `json:"slot,omitempty"`
	Message  string    `json:"message"`
}

// Analysis is the result of a constraint pass.
type Analysis struct {
	Violations     []Issue  `json:"violations"`
	AffectedLayers []string `json:"affectedLayers"`
}

// HasErrors reports whether any violation is blocking.
func (a *Analysis) HasErrors() bool {
	for _, issue := range a.Violations {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the blocking violations.
func (a *Analysis) Errors() []Issue {
	var out []Issue
	for _, issue := range a.Violations {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}
