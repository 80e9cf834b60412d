package cmd

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
)

func loadItinerary(fs afero.Fs, path string) (*itinerary.Itinerary, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open itinerary: %w", err)
	}
	defer f.Close()
	return itinerary.Decode(f)
}

func saveItinerary(fs afero.Fs, path string, it *itinerary.Itinerary) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write itinerary: %w", err)
	}
	defer f.Close()
	return itinerary.Encode(f, it)
}
