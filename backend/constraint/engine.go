package constraint

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/munishbansal2000/layla-sub008/backend/geoutil"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
)

type Engine struct {
	profile *Profile
}

func NewEngine(profile *Profile) *Engine {
	if profile == nil {
		profile = DefaultProfile()
	}
	return &Engine{profile: profile}
}

func (e *Engine) Profile() *Profile {
	return e.profile
}

// Analyze runs every check over the itinerary. Flights may be nil, in which
// case the flight-boundary check is skipped.
func (e *Engine) Analyze(it *itinerary.Itinerary, flights *Flights) *Analysis {
	var issues []Issue

	for i := range it.Days {
		day := &it.Days[i]
		issues = append(issues, e.checkTemporal(day)...)
		issues = append(issues, e.checkGeographic(day)...)
		issues = append(issues, e.checkBehavioral(day)...)
		issues = append(issues, e.checkResource(day)...)
	}
	issues = append(issues, e.checkFlightBoundaries(it, flights)...)

	layers := lo.Uniq(lo.Map(issues, func(issue Issue, _ int) string {
		return issue.Layer
	}))

	return &Analysis{Violations: issues, AffectedLayers: layers}
}

// checkTemporal verifies slot time ranges, overlap between consecutive
// slots, and the day window.
func (e *Engine) checkTemporal(day *itinerary.Day) []Issue {
	var issues []Issue

	type bound struct {
		slot       *itinerary.Slot
		start, end int
	}
	var bounds []bound

	for i := range day.Slots {
		slot := &day.Slots[i]
		start, errStart := geoutil.ParseClock(slot.Time.Start)
		end, errEnd := geoutil.ParseClock(slot.Time.End)
		if errStart != nil || errEnd != nil {
			issues = append(issues, Issue{
				Type:     InvalidTimeRange,
				Severity: SeverityError,
				Layer:    LayerTemporal,
				Day:      day.DayNumber,
				Slot:     slot.ID,
				Message:  fmt.Sprintf("slot %s has an unparseable time range %s-%s", slot.ID, slot.Time.Start, slot.Time.End),
			})
			continue
		}
		if end <= start {
			issues = append(issues, Issue{
				Type:     InvalidTimeRange,
				Severity: SeverityError,
				Layer:    LayerTemporal,
				Day:      day.DayNumber,
				Slot:     slot.ID,
				Message:  fmt.Sprintf("slot %s ends at or before its start (%s-%s)", slot.ID, slot.Time.Start, slot.Time.End),
			})
			continue
		}
		bounds = append(bounds, bound{slot: slot, start: start, end: end})
	}

	for i := 1; i < len(bounds); i++ {
		if bounds[i].start < bounds[i-1].end {
			issues = append(issues, Issue{
				Type:     OverlappingSlots,
				Severity: SeverityWarning,
				Layer:    LayerTemporal,
				Day:      day.DayNumber,
				Slot:     bounds[i].slot.ID,
				Message: fmt.Sprintf("slot %s starts at %s before %s ends at %s",
					bounds[i].slot.ID, bounds[i].slot.Time.Start, bounds[i-1].slot.ID, bounds[i-1].slot.Time.End),
			})
		}
	}

	if len(bounds) > 0 {
		if bounds[0].start < e.profile.DayStartMin {
			issues = append(issues, Issue{
				Type:     DayStartsTooEarly,
				Severity: SeverityWarning,
				Layer:    LayerTemporal,
				Day:      day.DayNumber,
				Slot:     bounds[0].slot.ID,
				Message:  fmt.Sprintf("day %d starts at %s, before %s", day.DayNumber, bounds[0].slot.Time.Start, geoutil.FormatClock(e.profile.DayStartMin)),
			})
		}
		last := bounds[len(bounds)-1]
		if last.end > e.profile.DayEndMin {
			issues = append(issues, Issue{
				Type:     DayEndsTooLate,
				Severity: SeverityWarning,
				Layer:    LayerTemporal,
				Day:      day.DayNumber,
				Slot:     last.slot.ID,
				Message:  fmt.Sprintf("day %d ends at %s, after %s", day.DayNumber, last.slot.Time.End, geoutil.FormatClock(e.profile.DayEndMin)),
			})
		}
	}

	return issues
}

// checkFlightBoundaries flags slots that cannot physically happen around the
// arrival and departure flights.
func (e *Engine) checkFlightBoundaries(it *itinerary.Itinerary, flights *Flights) []Issue {
	if flights == nil || len(it.Days) == 0 {
		return nil
	}

	var issues []Issue

	if flights.Arrival != "" {
		arrival, err := geoutil.ParseClock(flights.Arrival)
		if err == nil {
			earliest := arrival + e.profile.ArrivalBufferMin
			first := &it.Days[0]
			for i := range first.Slots {
				slot := &first.Slots[i]
				if slot.Behavior == itinerary.BehaviorTravel {
					continue
				}
				end, err := geoutil.ParseClock(slot.Time.End)
				if err != nil {
					continue
				}
				if end < earliest {
					issues = append(issues, Issue{
						Type:     ImpossibleBeforeArrival,
						Severity: SeverityError,
						Layer:    LayerTemporal,
						Day:      first.DayNumber,
						Slot:     slot.ID,
						Message: fmt.Sprintf("slot %s ends at %s but the arrival flight at %s plus %s makes it unreachable",
							slot.ID, slot.Time.End, flights.Arrival, geoutil.FormatDuration(e.profile.ArrivalBufferMin)),
					})
				}
			}
		}
	}

	if flights.Departure != "" {
		departure, err := geoutil.ParseClock(flights.Departure)
		if err == nil {
			latest := departure - e.profile.DepartureBufferMin
			last := &it.Days[len(it.Days)-1]
			for i := range last.Slots {
				slot := &last.Slots[i]
				if slot.Behavior == itinerary.BehaviorTravel {
					continue
				}
				start, err := geoutil.ParseClock(slot.Time.Start)
				if err != nil {
					continue
				}
				if start > latest {
					issues = append(issues, Issue{
						Type:     ImpossibleAfterDeparture,
						Severity: SeverityError,
						Layer:    LayerTemporal,
						Day:      last.DayNumber,
						Slot:     slot.ID,
						Message: fmt.Sprintf("slot %s starts at %s but the departure flight at %s requires leaving %s earlier",
							slot.ID, slot.Time.Start, flights.Departure, geoutil.FormatDuration(e.profile.DepartureBufferMin)),
					})
				}
			}
		}
	}

	return issues
}

// checkGeographic flags non-travel activities far outside the day's city
// radius. Activities without resolved coordinates are skipped, not failed.
func (e *Engine) checkGeographic(day *itinerary.Day) []Issue {
	city, ok := e.profile.cityFor(day)
	if !ok {
		return nil
	}

	var issues []Issue
	for i := range day.Slots {
		slot := &day.Slots[i]
		if slot.Behavior == itinerary.BehaviorTravel {
			continue
		}
		opt := slot.EffectiveOption()
		if opt == nil || opt.Activity.Place == nil || opt.Activity.Place.Coordinates == nil {
			continue
		}
		coords := opt.Activity.Place.Coordinates
		distKm := geoutil.Distance(city.Lat, city.Lng, coords.Lat, coords.Lng) / 1000
		if distKm > city.RadiusKm {
			issues = append(issues, Issue{
				Type:     OutsideCityRadius,
				Severity: SeverityWarning,
				Layer:    LayerGeographic,
				Day:      day.DayNumber,
				Slot:     slot.ID,
				Message: fmt.Sprintf("%s is %.0f km from the %s center, beyond the %.0f km radius",
					opt.Activity.Name, distKm, day.City, city.RadiusKm),
			})
		}
	}
	return issues
}

// checkBehavioral verifies that slot behaviors match what their activities
// imply: transit legs are travel, meal windows are meal, pre-booked
// activities are anchored.
func (e *Engine) checkBehavioral(day *itinerary.Day) []Issue {
	var issues []Issue
	for i := range day.Slots {
		slot := &day.Slots[i]
		opt := slot.EffectiveOption()
		if opt == nil {
			continue
		}

		if opt.Activity.LooksLikeTransport() && slot.Behavior != itinerary.BehaviorTravel {
			issues = append(issues, Issue{
				Type:     MissingTravelBehavior,
				Severity: SeverityWarning,
				Layer:    LayerBehavioral,
				Day:      day.DayNumber,
				Slot:     slot.ID,
				Message:  fmt.Sprintf("%q is a transit leg but slot %s has behavior %q", opt.Activity.Name, slot.ID, slot.Behavior),
			})
		}

		if slot.IsMealType() && slot.Behavior != itinerary.BehaviorMeal && slot.Behavior != itinerary.BehaviorTravel {
			issues = append(issues, Issue{
				Type:     MissingMealBehavior,
				Severity: SeverityWarning,
				Layer:    LayerBehavioral,
				Day:      day.DayNumber,
				Slot:     slot.ID,
				Message:  fmt.Sprintf("slot %s is a %s window but has behavior %q", slot.ID, slot.Type, slot.Behavior),
			})
		}

		if opt.Activity.IsPreBooked() && slot.Behavior != itinerary.BehaviorAnchor {
			issues = append(issues, Issue{
				Type:     MissingAnchorBehavior,
				Severity: SeverityWarning,
				Layer:    LayerBehavioral,
				Day:      day.DayNumber,
				Slot:     slot.ID,
				Message:  fmt.Sprintf("%q is pre-booked but slot %s is not anchored", opt.Activity.Name, slot.ID),
			})
		}
	}
	return issues
}

// checkResource verifies hotel-commute records: distance ceilings and
// dangling references to a missing accommodation.
func (e *Engine) checkResource(day *itinerary.Day) []Issue {
	var issues []Issue

	commutes := map[string]*itinerary.Commute{
		"to-hotel":   day.CommuteToHotel,
		"from-hotel": day.CommuteFromHotel,
	}

	for _, label := range []string{"to-hotel", "from-hotel"} {
		commute := commutes[label]
		if commute == nil {
			continue
		}
		if day.Accommodation == nil {
			issues = append(issues, Issue{
				Type:     DanglingHotelCommute,
				Severity: SeverityError,
				Layer:    LayerResource,
				Day:      day.DayNumber,
				Message:  fmt.Sprintf("day %d has a %s commute but no accommodation", day.DayNumber, label),
			})
			continue
		}
		if commute.DistanceMeters/1000 > e.profile.HotelCommuteCeilingKm {
			issues = append(issues, Issue{
				Type:     HotelCommuteTooFar,
				Severity: SeverityWarning,
				Layer:    LayerResource,
				Day:      day.DayNumber,
				Message: fmt.Sprintf("day %d %s commute is %.0f km, beyond the %.0f km ceiling",
					day.DayNumber, label, commute.DistanceMeters/1000, e.profile.HotelCommuteCeilingKm),
			})
		}
	}

	return issues
}
