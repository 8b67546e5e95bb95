package activity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMergeFileKeepsExistingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Tracker": {
			"Errands": {"01-01-2024": [{"category":"Work","title":"old"}]},
			"Gym": {"02-01-2024": [{"category":"Health"}]}
		},
		"lists": ["Errands", "Gym"]
	}`), 0644))

	play := "Play"
	err := MergeFile(path, "Tracker", "Errands", DayLog{
		"01-01-2024": {{Title: "new", Category: &play}},
		"05-01-2024": {{Title: "other", Category: &play}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	payload := Unwrap(data, "Tracker")

	require.Equal(t, []string{"Errands", "Gym"}, ListNames(payload))
	days := Parse(payload, "Errands")
	cat, _ := days.Category(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "Work", cat, "existing first entry stays representative")
	cat, _ = days.Category(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "Play", cat)

	require.Contains(t, string(data), `"lists"`)
}

func TestMergeFileCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.json")
	health := "Health"
	require.NoError(t, MergeFile(path, "", "Gym", DayLog{"03-03-2024": {{Category: &health}}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cat, ok := Parse(data, "Gym").Category(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.Equal(t, "Health", cat)
}

func TestMergeFileRejectsCorruptTracker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))
	require.Error(t, MergeFile(path, "", "Gym", DayLog{}))
}
