package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munishbansal2000/layla-sub008/backend/itinerary"
)

const fixtureJSON = `{
  "destination": "Tokyo",
  "days": [
    {
      "dayNumber": 1,
      "city": "Tokyo",
      "slots": [
        {
          "slotId": "d1-slot-1",
          "slotType": "morning",
          "timeRange": {"start": "09:00", "end": "11:00"},
          "behavior": "flex",
          "options": [
            {"id": "opt-1", "rank": 1, "activity": {"name": "Meiji Shrine", "category": "sightseeing", "durationMinutes": 120}}
          ]
        },
        {
          "slotId": "d1-slot-2",
          "slotType": "afternoon",
          "timeRange": {"start": "13:00", "end": "16:00"},
          "behavior": "flex",
          "options": [
            {"id": "opt-2", "rank": 1, "activity": {"name": "TeamLab Borderless", "category": "museum", "durationMinutes": 180}}
          ]
        }
      ]
    }
  ]
}`

func writeFixture(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(fixtureJSON), 0o644))
}

func runCommand(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(fs)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommandValidItinerary(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "trip.json")

	out, err := runCommand(t, fs, "", "validate", "trip.json")
	require.NoError(t, err)
	assert.Contains(t, out, "itinerary is valid")
}

func TestValidateCommandFlightConflict(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "trip.json")

	out, err := runCommand(t, fs, "", "validate", "trip.json", "--arrive", "15:00")
	require.Error(t, err)
	assert.Contains(t, out, "blocking issues")
}

func TestValidateCommandIsolatesBadFixture(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "good.json")
	require.NoError(t, afero.WriteFile(fs, "bad.json", []byte("{not json"), 0o644))

	out, err := runCommand(t, fs, "", "validate", "bad.json", "good.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	// The bad fixture does not stop the good one from being checked.
	assert.Contains(t, out, "itinerary is valid")
}

func TestRemediateCommandWritesOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "trip.json")

	out, err := runCommand(t, fs, "", "remediate", "trip.json", "--arrive", "15:00", "--out", "fixed.json")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote fixed.json")

	f, err := fs.Open("fixed.json")
	require.NoError(t, err)
	defer f.Close()
	fixed, err := itinerary.Decode(f)
	require.NoError(t, err)

	// Both pre-arrival slots are impossible against a 15:00 arrival.
	assert.Empty(t, fixed.Days[0].Slots)

	// The input survives untouched.
	original, err := afero.ReadFile(fs, "trip.json")
	require.NoError(t, err)
	assert.JSONEq(t, fixtureJSON, string(original))
}

func TestChatCommandMutatesAndSaves(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "trip.json")

	out, err := runCommand(t, fs, "Move TeamLab to morning\nexit\n",
		"chat", "trip.json", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved")

	f, err := fs.Open("trip.json")
	require.NoError(t, err)
	defer f.Close()
	saved, err := itinerary.Decode(f)
	require.NoError(t, err)

	_, slot := saved.FindActivity("TeamLab")
	require.NotNil(t, slot)
	assert.Equal(t, itinerary.SlotMorning, slot.Type)
}

func TestChatCommandUndoSpansTurns(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "trip.json")

	// Without --session the first turn mints an id; the undo on the next
	// turn must land in that same session.
	out, err := runCommand(t, fs, "Move TeamLab to morning\nundo\nexit\n",
		"chat", "trip.json", "--save")
	require.NoError(t, err)
	assert.NotContains(t, out, "nothing to undo")

	f, err := fs.Open("trip.json")
	require.NoError(t, err)
	defer f.Close()
	saved, err := itinerary.Decode(f)
	require.NoError(t, err)

	_, slot := saved.FindActivity("TeamLab")
	require.NotNil(t, slot)
	assert.Equal(t, itinerary.SlotAfternoon, slot.Type)
}

func TestLoadProfileFlag(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "trip.json")
	require.NoError(t, afero.WriteFile(fs, "profile.yaml", []byte("dayEndMin: 1200\n"), 0o644))

	_, err := runCommand(t, fs, "", "validate", "trip.json", "--profile", "profile.yaml")
	require.NoError(t, err)
}
