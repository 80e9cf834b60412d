package itinerary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/munishbansal2000/layla-sub008/backend/geoutil"
)

// CanonicalSlotID is the stable slot id form used after remediation
// renumbering: d{dayNumber}-slot-{position}, positions starting at 1.
func CanonicalSlotID(dayNumber, position int) string {
	return fmt.Sprintf("d%d-slot-%d", dayNumber, position)
}

// DayByNumber returns the day with the given number, or nil.
func (it *Itinerary) DayByNumber(n int) *Day {
	for i := range it.Days {
		if it.Days[i].DayNumber == n {
			return &it.Days[i]
		}
	}
	return nil
}

// SlotByID searches every day for the slot with the given id.
func (it *Itinerary) SlotByID(id string) (*Day, *Slot) {
	for i := range it.Days {
		for j := range it.Days[i].Slots {
			if it.Days[i].Slots[j].ID == id {
				return &it.Days[i], &it.Days[i].Slots[j]
			}
		}
	}
	return nil, nil
}

// FindActivity locates the first slot whose effective activity name contains
// the query, case-insensitively. Day and slot are nil when nothing matches.
func (it *Itinerary) FindActivity(name string) (*Day, *Slot) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}
	for i := range it.Days {
		for j := range it.Days[i].Slots {
			slot := &it.Days[i].Slots[j]
			opt := slot.EffectiveOption()
			if opt == nil {
				continue
			}
			if strings.Contains(strings.ToLower(opt.Activity.Name), needle) {
				return &it.Days[i], slot
			}
		}
	}
	return nil, nil
}

// Normalize sorts each day's slots by start time. Slots with unparseable
// start times keep their relative order at the end of the day.
func (it *Itinerary) Normalize() {
	for i := range it.Days {
		day := &it.Days[i]
		sort.SliceStable(day.Slots, func(a, b int) bool {
			sa, errA := geoutil.ParseClock(day.Slots[a].Time.Start)
			sb, errB := geoutil.ParseClock(day.Slots[b].Time.Start)
			if errA != nil {
				return false
			}
			if errB != nil {
				return true
			}
			return sa < sb
		})
	}
}

// NormalizeName reduces an activity or place name to a comparison key for
// cross-day duplicate detection.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), " ")
	for _, cut := range []string{"the ", "a "} {
		s = strings.TrimPrefix(s, cut)
	}
	return s
}

// PlaceKey identifies an activity's venue for duplicate detection: the place
// name when resolved, otherwise the normalized activity name.
func (o *ActivityOption) PlaceKey() string {
	if o.Activity.Place != nil && o.Activity.Place.Name != "" {
		return NormalizeName(o.Activity.Place.Name)
	}
	return NormalizeName(o.Activity.Name)
}

var transportKeywords = []string{
	"transfer", "shinkansen", "airport", "train to", "flight", "bus to", "ferry",
}

// LooksLikeTransport reports whether the activity is a transit leg by
// category or name keyword.
func (a *Activity) LooksLikeTransport() bool {
	if strings.EqualFold(a.Category, "transport") || strings.EqualFold(a.Category, "transportation") {
		return true
	}
	name := strings.ToLower(a.Name)
	for _, kw := range transportKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// IsPreBooked reports whether the activity carries a pre-booked/anchor tag.
func (a *Activity) IsPreBooked() bool {
	if a.Place == nil {
		return false
	}
	for _, tag := range a.Place.Tags {
		switch strings.ToLower(tag) {
		case "pre-booked", "prebooked", "anchor":
			return true
		}
	}
	return false
}

// Summary renders the condensed one-line-per-day view handed to the language
// model as itinerary context.
func (it *Itinerary) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", it.Destination)
	if it.Country != "" {
		fmt.Fprintf(&b, ", %s", it.Country)
	}
	b.WriteString("\n")
	for i := range it.Days {
		day := &it.Days[i]
		fmt.Fprintf(&b, "Day %d (%s):", day.DayNumber, day.City)
		for j := range day.Slots {
			slot := &day.Slots[j]
			name := "(empty)"
			if opt := slot.EffectiveOption(); opt != nil {
				name = opt.Activity.Name
			}
			if j > 0 {
				b.WriteString(";")
			}
			fmt.Fprintf(&b, " %s=%s", slot.Type, name)
		}
		b.WriteString("\n")
	}
	return b.String()
}
