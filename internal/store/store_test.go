package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWidgetBindings(t *testing.T) {
	db := openTestDB(t)

	list, err := db.GetWidgetList("42")
	require.NoError(t, err)
	require.Equal(t, "", list)

	require.NoError(t, db.SetWidgetList("42", "Errands"))
	require.NoError(t, db.SetWidgetList("7", "Gym"))
	require.NoError(t, db.SetWidgetList("42", "Chores"))

	list, err = db.GetWidgetList("42")
	require.NoError(t, err)
	require.Equal(t, "Chores", list)

	bindings, err := db.ListWidgets()
	require.NoError(t, err)
	require.Len(t, bindings, 2)
	require.Equal(t, "42", bindings[0].WidgetID)
	require.Equal(t, "7", bindings[1].WidgetID)
	require.False(t, bindings[1].UpdatedAt.IsZero())

	require.NoError(t, db.DeleteWidget("42"))
	require.NoError(t, db.DeleteWidget("42"), "deleting twice is fine")
	list, err = db.GetWidgetList("42")
	require.NoError(t, err)
	require.Equal(t, "", list)
}

func TestState(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetState("k")
	require.NoError(t, err)
	require.Equal(t, "", v)

	require.NoError(t, db.SetState("k", "a"))
	require.NoError(t, db.SetState("k", "b"))
	v, err = db.GetState("k")
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestLastRefresh(t *testing.T) {
	db := openTestDB(t)

	last, err := db.LastRefresh()
	require.NoError(t, err)
	require.True(t, last.IsZero())

	at := time.Date(2024, time.June, 15, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	require.NoError(t, db.SetLastRefresh(at))
	last, err = db.LastRefresh()
	require.NoError(t, err)
	require.True(t, at.Equal(last))

	require.NoError(t, db.SetState("last_refresh", "yesterday"))
	_, err = db.LastRefresh()
	require.Error(t, err)
}

func TestReopenKeepsBindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenPath(path)
	require.NoError(t, err)
	require.NoError(t, db.SetWidgetList("1", "L"))
	require.NoError(t, db.Close())

	db, err = OpenPath(path)
	require.NoError(t, err)
	defer db.Close()

	version, err := db.Version()
	require.NoError(t, err)
	require.Equal(t, len(schema), version)

	list, err := db.GetWidgetList("1")
	require.NoError(t, err)
	require.Equal(t, "L", list)
}
