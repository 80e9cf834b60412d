package constraint

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
	"github.com/munishbansal2000/layla-sub008/shared"
)

// CityProfile bounds how far from a city's center a non-travel activity may
// plausibly sit.
type CityProfile struct {
	Lat      float64 `yaml:"lat"`
	Lng      float64 `yaml:"lng"`
	RadiusKm float64 `yaml:"radiusKm"`
}

// Flights carries the hard travel boundaries of the trip, when known.
// Times are HH:MM on the first and last day respectively.
type Flights struct {
	Arrival   string `yaml:"arrival,omitempty"`
	Departure string `yaml:"departure,omitempty"`
}

// Profile is the tunable rule set of the engine. The zero value is not
// usable; start from DefaultProfile or LoadProfile.
type Profile struct {
	// Day window, minutes from midnight. Slots outside it draw warnings.
	DayStartMin int `yaml:"dayStartMin"`
	DayEndMin   int `yaml:"dayEndMin"`

	// Buffers around flights, minutes.
	ArrivalBufferMin   int `yaml:"arrivalBufferMin"`
	DepartureBufferMin int `yaml:"departureBufferMin"`

	// Resource ceilings.
	HotelCommuteCeilingKm float64 `yaml:"hotelCommuteCeilingKm"`
	MealCommuteCeilingMin int     `yaml:"mealCommuteCeilingMin"`

	// Fallback radius for cities without a profile.
	DefaultCityRadiusKm float64 `yaml:"defaultCityRadiusKm"`

	Cities map[string]CityProfile `yaml:"cities"`

	// Dietary restrictions stated by the traveler, matched heuristically
	// against activity names and tags by the batch validator.
	DietaryRestrictions []string `yaml:"dietaryRestrictions,omitempty"`
}

func DefaultProfile() *Profile {
	return &Profile{
		DayStartMin:           6 * 60,
		DayEndMin:             23 * 60,
		ArrivalBufferMin:      120,
		DepartureBufferMin:    180,
		HotelCommuteCeilingKm: 50,
		MealCommuteCeilingMin: 30,
		DefaultCityRadiusKm:   25,
		Cities: map[string]CityProfile{
			"tokyo": {Lat: 35.6812, Lng: 139.7671, RadiusKm: 30},
			"kyoto": {Lat: 35.0116, Lng: 135.7681, RadiusKm: 20},
			"osaka": {Lat: 34.6937, Lng: 135.5023, RadiusKm: 25},
			"paris": {Lat: 48.8566, Lng: 2.3522, RadiusKm: 20},
			"rome":  {Lat: 41.9028, Lng: 12.4964, RadiusKm: 20},
		},
	}
}

// LoadProfile reads a YAML profile and overlays it on the defaults, so a
// config file only needs to state what differs.
func LoadProfile(r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, shared.Wrap(shared.ErrorSourceConstraint, err, "failed to read profile")
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, shared.Wrap(shared.ErrorSourceConstraint, err, "failed to parse profile")
	}
	return profile, nil
}

// cityFor resolves the profile for a day's city, falling back to the default
// radius centered on the day's accommodation when the city is unknown.
func (p *Profile) cityFor(day *itinerary.Day) (CityProfile, bool) {
	if city, ok := p.Cities[itinerary.NormalizeName(day.City)]; ok {
		return city, true
	}
	if day.Accommodation != nil && day.Accommodation.Coordinates != nil {
		return CityProfile{
			Lat:      day.Accommodation.Coordinates.Lat,
			Lng:      day.Accommodation.Coordinates.Lng,
			RadiusKm: p.DefaultCityRadiusKm,
		}, true
	}
	return CityProfile{}, false
}
