package validate

import (
	"fmt"
	"log/slog"

	"github.com/munishbansal2000/layla-sub008/backend/constraint"
	"github.com/munishbansal2000/layla-sub008/backend/geoutil"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
)

// Change records one repair the pipeline made, in the order applied.
type Change struct {
	Step        string `json:"step"`
	Day         int    `json:"day"`
	Slot        string `json:"slot,omitempty"`
	Description string `json:"description"`
}

// Remediation is a repaired itinerary plus the ordered change log. The input
// value is never mutated.
type Remediation struct {
	Itinerary *itinerary.Itinerary `json:"itinerary"`
	Changes   []Change             `json:"changes"`
}

type transform struct {
	name  string
	apply func(r *Remediator, it *itinerary.Itinerary) []Change
}

// The pipeline order is fixed: structural drops first, then behavior repairs,
// then advisory flags, with id renumbering always last. Running it twice
// yields the same result as running it once.
var pipeline = []transform{
	{"drop-impossible-slots", (*Remediator).dropImpossibleSlots},
	{"drop-cross-day-duplicates", (*Remediator).dropCrossDayDuplicates},
	{"fix-transfer-behavior", (*Remediator).fixTransferBehavior},
	{"fix-meal-behavior", (*Remediator).fixMealBehavior},
	{"fix-anchor-behavior", (*Remediator).fixAnchorBehavior},
	{"flag-long-meal-commutes", (*Remediator).flagLongMealCommutes},
	{"flag-empty-slots", (*Remediator).flagEmptySlots},
	{"renumber-slot-ids", (*Remediator).renumberSlotIDs},
}

type Remediator struct {
	profile *constraint.Profile
	flights *constraint.Flights
	logger  *slog.Logger
}

type RemediatorOption func(*Remediator)

func WithRemediatorFlights(flights *constraint.Flights) RemediatorOption {
	return func(r *Remediator) {
		r.flights = flights
	}
}

func WithRemediatorLogger(logger *slog.Logger) RemediatorOption {
	return func(r *Remediator) {
		r.logger = logger
	}
}

func NewRemediator(profile *constraint.Profile, opts ...RemediatorOption) *Remediator {
	if profile == nil {
		profile = constraint.DefaultProfile()
	}
	r := &Remediator{profile: profile, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Remediate runs the full pipeline over a copy of the itinerary.
func (r *Remediator) Remediate(it *itinerary.Itinerary) *Remediation {
	clone := it.Clone()

	var changes []Change
	for _, step := range pipeline {
		stepChanges := step.apply(r, clone)
		for i := range stepChanges {
			stepChanges[i].Step = step.name
		}
		changes = append(changes, stepChanges...)
	}

	r.logger.Debug("itinerary remediated", "changes", len(changes))
	return &Remediation{Itinerary: clone, Changes: changes}
}

// dropImpossibleSlots removes non-travel slots that cannot happen around the
// flights: ending before the arrival buffer clears, or starting after the
// departure cutoff.
func (r *Remediator) dropImpossibleSlots(it *itinerary.Itinerary) []Change {
	if r.flights == nil || len(it.Days) == 0 {
		return nil
	}

	var changes []Change

	if r.flights.Arrival != "" {
		if arrival, err := geoutil.ParseClock(r.flights.Arrival); err == nil {
			earliest := arrival + r.profile.ArrivalBufferMin
			first := &it.Days[0]
			first.Slots, changes = dropSlots(first, changes, func(slot *itinerary.Slot) (bool, string) {
				end, err := geoutil.ParseClock(slot.Time.End)
				if err != nil || slot.Behavior == itinerary.BehaviorTravel || end >= earliest {
					return false, ""
				}
				return true, fmt.Sprintf("dropped %q: it ends before the arrival flight clears", slotLabel(slot))
			})
		}
	}

	if r.flights.Departure != "" {
		if departure, err := geoutil.ParseClock(r.flights.Departure); err == nil {
			latest := departure - r.profile.DepartureBufferMin
			last := &it.Days[len(it.Days)-1]
			last.Slots, changes = dropSlots(last, changes, func(slot *itinerary.Slot) (bool, string) {
				start, err := geoutil.ParseClock(slot.Time.Start)
				if err != nil || slot.Behavior == itinerary.BehaviorTravel || start <= latest {
					return false, ""
				}
				return true, fmt.Sprintf("dropped %q: it starts after the departure cutoff", slotLabel(slot))
			})
		}
	}

	return changes
}

func dropSlots(day *itinerary.Day, changes []Change, doomed func(*itinerary.Slot) (bool, string)) ([]itinerary.Slot, []Change) {
	kept := day.Slots[:0:0]
	for i := range day.Slots {
		slot := &day.Slots[i]
		if drop, why := doomed(slot); drop {
			changes = append(changes, Change{Day: day.DayNumber, Slot: slot.ID, Description: why})
			continue
		}
		kept = append(kept, day.Slots[i])
	}
	return kept, changes
}

// dropCrossDayDuplicates clears later visits to a venue already planned on an
// earlier day; the slot window survives as a free slot.
func (r *Remediator) dropCrossDayDuplicates(it *itinerary.Itinerary) []Change {
	seen := map[string]int{}
	var changes []Change
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			opt := slot.EffectiveOption()
			if opt == nil {
				continue
			}
			key := opt.PlaceKey()
			firstDay, ok := seen[key]
			if !ok {
				seen[key] = day.DayNumber
				continue
			}
			if firstDay == day.DayNumber {
				continue
			}
			name := opt.Activity.Name
			slot.Options = nil
			slot.SelectedOptionID = ""
			if slot.IsMealType() {
				slot.Behavior = itinerary.BehaviorMeal
			} else {
				slot.Behavior = itinerary.BehaviorFlex
			}
			changes = append(changes, Change{
				Day:         day.DayNumber,
				Slot:        slot.ID,
				Description: fmt.Sprintf("cleared duplicate %q; it stays on day %d", name, firstDay),
			})
		}
	}
	return changes
}

func (r *Remediator) fixTransferBehavior(it *itinerary.Itinerary) []Change {
	var changes []Change
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			opt := slot.EffectiveOption()
			if opt == nil || !opt.Activity.LooksLikeTransport() || slot.Behavior == itinerary.BehaviorTravel {
				continue
			}
			slot.Behavior = itinerary.BehaviorTravel
			changes = append(changes, Change{
				Day:         day.DayNumber,
				Slot:        slot.ID,
				Description: fmt.Sprintf("marked %q as a travel leg", opt.Activity.Name),
			})
		}
	}
	return changes
}

func (r *Remediator) fixMealBehavior(it *itinerary.Itinerary) []Change {
	var changes []Change
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			if !slot.IsMealType() || len(slot.Options) == 0 {
				continue
			}
			if slot.Behavior == itinerary.BehaviorMeal || slot.Behavior == itinerary.BehaviorTravel {
				continue
			}
			slot.Behavior = itinerary.BehaviorMeal
			changes = append(changes, Change{
				Day:         day.DayNumber,
				Slot:        slot.ID,
				Description: fmt.Sprintf("marked the %s slot as a meal", slot.Type),
			})
		}
	}
	return changes
}

func (r *Remediator) fixAnchorBehavior(it *itinerary.Itinerary) []Change {
	var changes []Change
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			opt := slot.EffectiveOption()
			if opt == nil || !opt.Activity.IsPreBooked() || slot.Behavior == itinerary.BehaviorAnchor {
				continue
			}
			slot.Behavior = itinerary.BehaviorAnchor
			slot.IsLocked = true
			changes = append(changes, Change{
				Day:         day.DayNumber,
				Slot:        slot.ID,
				Description: fmt.Sprintf("anchored pre-booked %q", opt.Activity.Name),
			})
		}
	}
	return changes
}

// flagLongMealCommutes cannot repair anything by itself; it surfaces meals
// worth replacing with something closer.
func (r *Remediator) flagLongMealCommutes(it *itinerary.Itinerary) []Change {
	var changes []Change
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			if !slot.IsMealType() || len(slot.Options) == 0 || slot.CommuteFromPrev == nil {
				continue
			}
			if slot.CommuteFromPrev.DurationMinutes <= r.profile.MealCommuteCeilingMin {
				continue
			}
			changes = append(changes, Change{
				Day:  day.DayNumber,
				Slot: slot.ID,
				Description: fmt.Sprintf("the %s is %s away; consider somewhere closer",
					slot.Type, geoutil.FormatDuration(slot.CommuteFromPrev.DurationMinutes)),
			})
		}
	}
	return changes
}

func (r *Remediator) flagEmptySlots(it *itinerary.Itinerary) []Change {
	var changes []Change
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			if len(slot.Options) > 0 {
				continue
			}
			changes = append(changes, Change{
				Day:         day.DayNumber,
				Slot:        slot.ID,
				Description: fmt.Sprintf("the %s slot on day %d is free", slot.Type, day.DayNumber),
			})
		}
	}
	return changes
}

// renumberSlotIDs rewrites every slot id into canonical positional form.
// Running it on already-canonical ids changes nothing.
func (r *Remediator) renumberSlotIDs(it *itinerary.Itinerary) []Change {
	var changes []Change
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			canonical := itinerary.CanonicalSlotID(day.DayNumber, j+1)
			if slot.ID == canonical {
				continue
			}
			changes = append(changes, Change{
				Day:         day.DayNumber,
				Slot:        canonical,
				Description: fmt.Sprintf("renumbered slot %s to %s", slot.ID, canonical),
			})
			slot.ID = canonical
		}
	}
	return changes
}

func slotLabel(slot *itinerary.Slot) string {
	if opt := slot.EffectiveOption(); opt != nil {
		return opt.Activity.Name
	}
	return slot.ID
}
