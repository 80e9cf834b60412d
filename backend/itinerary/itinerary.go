// Package itinerary defines the itinerary document model shared by the
// parser, constraint engine, executor, and remediation pipeline. Values are
// treated as immutable snapshots: every mutation path copies first via Clone.
package itinerary

import (
	"github.com/paulmach/orb"
)

type SlotType string

const (
	SlotMorning   SlotType = "morning"
	SlotBreakfast SlotType = "breakfast"
	SlotLunch     SlotType = "lunch"
	SlotAfternoon SlotType = "afternoon"
	SlotDinner    SlotType = "dinner"
	SlotEvening   SlotType = "evening"
)

type Behavior string

const (
	BehaviorFlex   Behavior = "flex"
	BehaviorMeal   Behavior = "meal"
	BehaviorTravel Behavior = "travel"
	BehaviorAnchor Behavior = "anchor"
)

type Itinerary struct {
	Destination string       `json:"destination"`
	Country     string       `json:"country,omitempty"`
	Days        []Day        `json:"days"`
	GeneralTips []string     `json:"generalTips,omitempty"`
	Budget      *BudgetRange `json:"budget,omitempty"`
}

type BudgetRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

type Day struct {
	DayNumber        int             `json:"dayNumber"`
	Date             string          `json:"date,omitempty"`
	City             string          `json:"city,omitempty"`
	Title            string          `json:"title,omitempty"`
	Slots            []Slot          `json:"slots"`
	Accommodation    *Accommodation  `json:"accommodation,omitempty"`
	CityTransition   *CityTransition `json:"cityTransition,omitempty"`
	CommuteToHotel   *Commute        `json:"commuteToHotel,omitempty"`
	CommuteFromHotel *Commute        `json:"commuteFromHotel,omitempty"`
}

type Accommodation struct {
	Name        string       `json:"name"`
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type CityTransition struct {
	FromCity string `json:"fromCity"`
	ToCity   string `json:"toCity"`
	Method   string `json:"method,omitempty"`
}

type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Slot struct {
	ID               string           `json:"slotId"`
	Type             SlotType         `json:"slotType"`
	Time             TimeRange        `json:"timeRange"`
	Behavior         Behavior         `json:"behavior"`
	IsLocked         bool             `json:"isLocked"`
	Options          []ActivityOption `json:"options"`
	SelectedOptionID string           `json:"selectedOptionId,omitempty"`
	CommuteFromPrev  *Commute         `json:"commuteFromPrevious,omitempty"`
}

type Commute struct {
	Method          string  `json:"method,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	DistanceMeters  float64 `json:"distanceMeters,omitempty"`
	Instructions    string  `json:"instructions,omitempty"`
}

type ActivityOption struct {
	ID           string   `json:"id"`
	Rank         int      `json:"rank"`
	Score        float64  `json:"score"`
	Activity     Activity `json:"activity"`
	MatchReasons []string `json:"matchReasons,omitempty"`
	Tradeoffs    []string `json:"tradeoffs,omitempty"`
}

type Activity struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Category        string  `json:"category,omitempty"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Place           *Place  `json:"place,omitempty"`
	Cost            float64 `json:"cost,omitempty"`
	IsFree          bool    `json:"isFree,omitempty"`
}

type Place struct {
	Name         string       `json:"name"`
	Address      string       `json:"address,omitempty"`
	Neighborhood string       `json:"neighborhood,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Rating       float64      `json:"rating,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts to an orb.Point in (lng, lat) order.
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// EffectiveOption returns the option the slot currently resolves to: the one
// referenced by SelectedOptionID, or the first option when the reference is
// empty or dangling. Returns nil for an empty slot.
func (s *Slot) EffectiveOption() *ActivityOption {
	if len(s.Options) == 0 {
		return nil
	}
	if s.SelectedOptionID != "" {
		for i := range s.Options {
			if s.Options[i].ID == s.SelectedOptionID {
				return &s.Options[i]
			}
		}
	}
	return &s.Options[0]
}

// IsMealType reports whether the slot occupies a meal window.
func (s *Slot) IsMealType() bool {
	switch s.Type {
	case SlotBreakfast, SlotLunch, SlotDinner:
		return true
	}
	return false
}
