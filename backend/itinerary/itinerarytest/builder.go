// Package itinerarytest provides fixture builders shared by the engine's
// test suites.
package itinerarytest

import (
	"fmt"

	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
)

type ItineraryBuilder struct {
	it *itinerary.Itinerary
}

func NewItinerary(destination string) *ItineraryBuilder {
	return &ItineraryBuilder{
		it: &itinerary.Itinerary{Destination: destination},
	}
}

func (b *ItineraryBuilder) Country(country string) *ItineraryBuilder {
	b.it.Country = country
	return b
}

func (b *ItineraryBuilder) Day(day itinerary.Day) *ItineraryBuilder {
	if day.DayNumber == 0 {
		day.DayNumber = len(b.it.Days) + 1
	}
	b.it.Days = append(b.it.Days, day)
	return b
}

func (b *ItineraryBuilder) Build() *itinerary.Itinerary {
	return b.it
}

type DayBuilder struct {
	day itinerary.Day
}

func NewDay(number int, city string) *DayBuilder {
	return &DayBuilder{day: itinerary.Day{DayNumber: number, City: city}}
}

func (b *DayBuilder) Accommodation(name string, lat, lng float64) *DayBuilder {
	b.day.Accommodation = &itinerary.Accommodation{
		Name:        name,
		Coordinates: &itinerary.Coordinates{Lat: lat, Lng: lng},
	}
	return b
}

func (b *DayBuilder) HotelCommute(minutes int, meters float64) *DayBuilder {
	b.day.CommuteToHotel = &itinerary.Commute{DurationMinutes: minutes, DistanceMeters: meters}
	return b
}

func (b *DayBuilder) Slot(slot itinerary.Slot) *DayBuilder {
	if slot.ID == "" {
		slot.ID = itinerary.CanonicalSlotID(b.day.DayNumber, len(b.day.Slots)+1)
	}
	b.day.Slots = append(b.day.Slots, slot)
	return b
}

func (b *DayBuilder) Build() itinerary.Day {
	return b.day
}

type SlotBuilder struct {
	slot itinerary.Slot
}

func NewSlot(slotType itinerary.SlotType, start, end string) *SlotBuilder {
	return &SlotBuilder{slot: itinerary.Slot{
		Type:     slotType,
		Time:     itinerary.TimeRange{Start: start, End: end},
		Behavior: itinerary.BehaviorFlex,
	}}
}

func (b *SlotBuilder) ID(id string) *SlotBuilder {
	b.slot.ID = id
	return b
}

func (b *SlotBuilder) Behavior(behavior itinerary.Behavior) *SlotBuilder {
	b.slot.Behavior = behavior
	return b
}

func (b *SlotBuilder) Locked() *SlotBuilder {
	b.slot.IsLocked = true
	return b
}

func (b *SlotBuilder) Activity(name, category string, durationMinutes int) *SlotBuilder {
	opt := itinerary.ActivityOption{
		ID:   fmt.Sprintf("opt-%s-%d", itinerary.NormalizeName(name), len(b.slot.Options)+1),
		Rank: len(b.slot.Options) + 1,
		Activity: itinerary.Activity{
			Name:            name,
			Category:        category,
			DurationMinutes: durationMinutes,
		},
	}
	b.slot.Options = append(b.slot.Options, opt)
	return b
}

// ActivityAt adds an option with resolved coordinates.
func (b *SlotBuilder) ActivityAt(name, category string, durationMinutes int, lat, lng float64) *SlotBuilder {
	b.Activity(name, category, durationMinutes)
	opt := &b.slot.Options[len(b.slot.Options)-1]
	opt.Activity.Place = &itinerary.Place{
		Name:        name,
		Coordinates: &itinerary.Coordinates{Lat: lat, Lng: lng},
	}
	return b
}

// Tagged adds tags to the last option's place, creating the place if needed.
func (b *SlotBuilder) Tagged(tags ...string) *SlotBuilder {
	if len(b.slot.Options) == 0 {
		return b
	}
	opt := &b.slot.Options[len(b.slot.Options)-1]
	if opt.Activity.Place == nil {
		opt.Activity.Place = &itinerary.Place{Name: opt.Activity.Name}
	}
	opt.Activity.Place.Tags = append(opt.Activity.Place.Tags, tags...)
	return b
}

func (b *SlotBuilder) Commute(minutes int, meters float64) *SlotBuilder {
	b.slot.CommuteFromPrev = &itinerary.Commute{DurationMinutes: minutes, DistanceMeters: meters}
	return b
}

func (b *SlotBuilder) Build() itinerary.Slot {
	return b.slot
}
