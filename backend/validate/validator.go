// Package validate runs the whole-itinerary audit and the ordered
// remediation pipeline. The validator only reports; remediation is a
// separate, explicit step producing a new itinerary value.
package validate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/munishbansal2000/layla-sub008/backend/constraint"
	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
)

// Report is the outcome of one batch validation pass.
type Report struct {
	Valid          bool               `json:"valid"`
	Issues         []constraint.Issue `json:"issues"`
	AffectedLayers []string           `json:"affectedLayers"`
	Summary        string             `json:"summary"`
}

type Validator struct {
	engine  *constraint.Engine
	flights *constraint.Flights
	logger  *slog.Logger
}

type Option func(*Validator)

func WithFlights(flights *constraint.Flights) Option {
	return func(v *Validator) {
		v.flights = flights
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

func New(engine *constraint.Engine, opts ...Option) *Validator {
	if engine == nil {
		engine = constraint.NewEngine(nil)
	}
	v := &Validator{engine: engine, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate combines the per-slot constraint pass with the itinerary-wide
// structure checks that only make sense over the whole document.
func (v *Validator) Validate(it *itinerary.Itinerary) *Report {
	analysis := v.engine.Analyze(it, v.flights)

	issues := analysis.Violations
	issues = append(issues, v.checkDayNumbering(it)...)
	issues = append(issues, v.checkDayStructure(it)...)
	issues = append(issues, v.checkMealCommutes(it)...)
	issues = append(issues, v.checkDietary(it)...)
	issues = append(issues, v.checkCrossDayDuplicates(it)...)
	issues = append(issues, v.checkEmptySlots(it)...)

	layers := lo.Uniq(lo.Map(issues, func(issue constraint.Issue, _ int) string {
		return issue.Layer
	}))

	errors := lo.CountBy(issues, func(issue constraint.Issue) bool {
		return issue.Severity == constraint.SeverityError
	})
	warnings := lo.CountBy(issues, func(issue constraint.Issue) bool {
		return issue.Severity == constraint.SeverityWarning
	})

	report := &Report{
		Valid:          errors == 0,
		Issues:         issues,
		AffectedLayers: layers,
		Summary:        fmt.Sprintf("%d issues (%d errors, %d warnings) across %d days", len(issues), errors, warnings, len(it.Days)),
	}
	v.logger.Debug("itinerary validated", "issues", len(issues), "errors", errors)
	return report
}

// checkDayNumbering enforces the document invariant that day numbers run
// contiguously from 1.
func (v *Validator) checkDayNumbering(it *itinerary.Itinerary) []constraint.Issue {
	var issues []constraint.Issue
	for i := range it.Days {
		if it.Days[i].DayNumber != i+1 {
			issues = append(issues, constraint.Issue{
				Type:     constraint.NonContiguousDays,
				Severity: constraint.SeverityError,
				Layer:    constraint.LayerTemporal,
				Day:      it.Days[i].DayNumber,
				Message:  fmt.Sprintf("day at position %d is numbered %d; days must run 1..%d", i+1, it.Days[i].DayNumber, len(it.Days)),
			})
		}
	}
	return issues
}

const minActivitiesPerDay = 2

// checkDayStructure flags days that are too thin and days missing a lunch
// window between occupied morning and afternoon blocks.
func (v *Validator) checkDayStructure(it *itinerary.Itinerary) []constraint.Issue {
	var issues []constraint.Issue
	for i := range it.Days {
		day := &it.Days[i]

		occupied := 0
		hasMorning, hasAfternoon, hasLunch := false, false, false
		for j := range day.Slots {
			slot := &day.Slots[j]
			if len(slot.Options) == 0 {
				continue
			}
			if slot.Behavior != itinerary.BehaviorTravel {
				occupied++
			}
			switch slot.Type {
			case itinerary.SlotMorning:
				hasMorning = true
			case itinerary.SlotAfternoon:
				hasAfternoon = true
			case itinerary.SlotLunch:
				hasLunch = true
			}
		}

		if occupied < minActivitiesPerDay {
			issues = append(issues, constraint.Issue{
				Type:     constraint.InsufficientActivities,
				Severity: constraint.SeverityWarning,
				Layer:    constraint.LayerResource,
				Day:      day.DayNumber,
				Message:  fmt.Sprintf("day %d has only %d planned activities", day.DayNumber, occupied),
			})
		}
		if hasMorning && hasAfternoon && !hasLunch {
			issues = append(issues, constraint.Issue{
				Type:     constraint.MissingLunch,
				Severity: constraint.SeverityWarning,
				Layer:    constraint.LayerBehavioral,
				Day:      day.DayNumber,
				Message:  fmt.Sprintf("day %d runs morning through afternoon with no lunch planned", day.DayNumber),
			})
		}
	}
	return issues
}

// checkMealCommutes flags meals that take longer to reach than the profile
// allows.
func (v *Validator) checkMealCommutes(it *itinerary.Itinerary) []constraint.Issue {
	ceiling := v.engine.Profile().MealCommuteCeilingMin
	var issues []constraint.Issue
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			if !slot.IsMealType() || len(slot.Options) == 0 || slot.CommuteFromPrev == nil {
				continue
			}
			if slot.CommuteFromPrev.DurationMinutes > ceiling {
				issues = append(issues, constraint.Issue{
					Type:     constraint.MealCommuteTooLong,
					Severity: constraint.SeverityWarning,
					Layer:    constraint.LayerGeographic,
					Day:      day.DayNumber,
					Slot:     slot.ID,
					Message: fmt.Sprintf("reaching the %s on day %d takes %d minutes, over the %d minute ceiling",
						slot.Type, day.DayNumber, slot.CommuteFromPrev.DurationMinutes, ceiling),
				})
			}
		}
	}
	return issues
}

// dietaryConflicts maps a stated restriction to activity keywords that
// plausibly violate it. Matching is heuristic; hits are warnings, not errors.
var dietaryConflicts = map[string][]string{
	"vegetarian":  {"yakiniku", "steakhouse", "bbq", "barbecue", "butcher"},
	"vegan":       {"yakiniku", "steakhouse", "bbq", "barbecue", "cheese tasting", "omakase"},
	"halal":       {"pork", "tonkatsu", "izakaya", "wine tasting"},
	"gluten-free": {"ramen", "udon", "pasta", "pizza", "bakery"},
}

func (v *Validator) checkDietary(it *itinerary.Itinerary) []constraint.Issue {
	restrictions := v.engine.Profile().DietaryRestrictions
	if len(restrictions) == 0 {
		return nil
	}

	var issues []constraint.Issue
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			slot := &day.Slots[j]
			opt := slot.EffectiveOption()
			if opt == nil {
				continue
			}
			haystack := strings.ToLower(opt.Activity.Name + " " + opt.Activity.Description)
			if opt.Activity.Place != nil {
				haystack += " " + strings.ToLower(strings.Join(opt.Activity.Place.Tags, " "))
			}
			for _, restriction := range restrictions {
				for _, keyword := range dietaryConflicts[itinerary.NormalizeName(restriction)] {
					if strings.Contains(haystack, keyword) {
						issues = append(issues, constraint.Issue{
							Type:     constraint.DietaryConflict,
							Severity: constraint.SeverityWarning,
							Layer:    constraint.LayerBehavioral,
							Day:      day.DayNumber,
							Slot:     slot.ID,
							Message:  fmt.Sprintf("%q likely conflicts with the %s restriction", opt.Activity.Name, restriction),
						})
					}
				}
			}
		}
	}
	return issues
}

// checkCrossDayDuplicates flags later visits to a venue already planned on an
// earlier day. The first occurrence wins.
func (v *Validator) checkCrossDayDuplicates(it *itinerary.Itinerary) []constraint.Issue {
	seen := map[string]int{}
	var issues []constraint.Issue
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			opt := day.Slots[j].EffectiveOption()
			if opt == nil {
				continue
			}
			key := opt.PlaceKey()
			if firstDay, ok := seen[key]; ok {
				if firstDay != day.DayNumber {
					issues = append(issues, constraint.Issue{
						Type:     constraint.CrossDayDuplicate,
						Severity: constraint.SeverityWarning,
						Layer:    constraint.LayerResource,
						Day:      day.DayNumber,
						Slot:     day.Slots[j].ID,
						Message:  fmt.Sprintf("%q already appears on day %d", opt.Activity.Name, firstDay),
					})
				}
				continue
			}
			seen[key] = day.DayNumber
		}
	}
	return issues
}

func (v *Validator) checkEmptySlots(it *itinerary.Itinerary) []constraint.Issue {
	var issues []constraint.Issue
	for i := range it.Days {
		day := &it.Days[i]
		for j := range day.Slots {
			if len(day.Slots[j].Options) > 0 {
				continue
			}
			issues = append(issues, constraint.Issue{
				Type:     constraint.EmptySlot,
				Severity: constraint.SeverityInfo,
				Layer:    constraint.LayerResource,
				Day:      day.DayNumber,
				Slot:     day.Slots[j].ID,
				Message:  fmt.Sprintf("the %s slot on day %d is unplanned", day.Slots[j].Type, day.DayNumber),
			})
		}
	}
	return issues
}
