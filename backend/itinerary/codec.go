package itinerary

import (
	"encoding/json"
	"io"

	"github.com/munishbansal2000/layla-sub008/shared"
)

// Decode reads an itinerary fixture document.
func Decode(r io.Reader) (*Itinerary, error) {
	dec := json.NewDecoder(r)
	var it Itinerary
	if err := dec.Decode(&it); err != nil {
		return nil, shared.Wrap(shared.ErrorSourceValidation, err, "failed to decode itinerary")
	}
	return &it, nil
}

// Encode writes the itinerary as indented JSON, the format the fixture
// documents use on disk.
func Encode(w io.Writer, it *Itinerary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(it); err != nil {
		return shared.Wrap(shared.ErrorSourceValidation, err, "failed to encode itinerary")
	}
	return nil
}
