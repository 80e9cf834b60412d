package itinerary

// Clone produces a structural copy that shares no memory with the receiver.
// Every transform in the engine operates on a clone, never in place.
func (it *Itinerary) Clone() *Itinerary {
	if it == nil {
		return nil
	}

	out := &Itinerary{
		Destination: it.Destination,
		Country:     it.Country,
		GeneralTips: copyStrings(it.GeneralTips),
	}
	if it.Budget != nil {
		b := *it.Budget
		out.Budget = &b
	}
	if it.Days != nil {
		out.Days = make([]Day, len(it.Days))
		for i := range it.Days {
			out.Days[i] = it.Days[i].clone()
		}
	}
	return out
}

func (d Day) clone() Day {
	out := d
	out.Accommodation = cloneAccommodation(d.Accommodation)
	out.CityTransition = cloneTransition(d.CityTransition)
	out.CommuteToHotel = cloneCommute(d.CommuteToHotel)
	out.CommuteFromHotel = cloneCommute(d.CommuteFromHotel)
	if d.Slots != nil {
		out.Slots = make([]Slot, len(d.Slots))
		for i := range d.Slots {
			out.Slots[i] = d.Slots[i].clone()
		}
	}
	return out
}

func (s Slot) clone() Slot {
	out := s
	out.CommuteFromPrev = cloneCommute(s.CommuteFromPrev)
	if s.Options != nil {
		out.Options = make([]ActivityOption, len(s.Options))
		for i := range s.Options {
			out.Options[i] = s.Options[i].clone()
		}
	}
	return out
}

func (o ActivityOption) clone() ActivityOption {
	out := o
	out.MatchReasons = copyStrings(o.MatchReasons)
	out.Tradeoffs = copyStrings(o.Tradeoffs)
	out.Activity.Place = clonePlace(o.Activity.Place)
	return out
}

func clonePlace(p *Place) *Place {
	if p == nil {
		return nil
	}
	out := *p
	out.Tags = copyStrings(p.Tags)
	if p.Coordinates != nil {
		c := *p.Coordinates
		out.Coordinates = &c
	}
	return &out
}

func cloneAccommodation(a *Accommodation) *Accommodation {
	if a == nil {
		return nil
	}
	out := *a
	if a.Coordinates != nil {
		c := *a.Coordinates
		out.Coordinates = &c
	}
	return &out
}

func cloneTransition(t *CityTransition) *CityTransition {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

func cloneCommute(c *Commute) *Commute {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
