package heatmap

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLayoutReferenceDate(t *testing.T) {
	// 2023-06-16 is a Friday, so the window starts five slots into week 0
	// and 371 slots fill exactly 53 weeks.
	g, err := Layout(time.Date(2024, time.June, 15, 18, 45, 0, 0, time.Local), DefaultWindowDays, DefaultCellSize, DefaultCellMargin)
	require.NoError(t, err)

	require.Equal(t, day(2024, time.June, 15), g.Today)
	require.Equal(t, day(2023, time.June, 16), g.WindowStart)
	require.Equal(t, 5, g.StartOffset)
	require.Equal(t, 371, g.TotalSlots)
	require.Equal(t, 53, g.TotalWeeks)
	require.Len(t, g.Cells, 53*7)

	for i := 0; i < 5; i++ {
		require.False(t, g.Cells[i].Dated, "slot %d is padding", i)
	}
	require.Equal(t, g.WindowStart, g.Cells[5].Date)

	today, ok := g.Lookup(g.Today)
	require.True(t, ok)
	require.Equal(t, 52, today.Week)
	require.Equal(t, 6, today.Day)
	require.Equal(t, 0, today.X)
	require.Equal(t, 144, today.Y)

	newYear, ok := g.Lookup(day(2024, time.January, 1))
	require.True(t, ok)
	require.Equal(t, 29, newYear.Week)
	require.Equal(t, 1, newYear.Day)
	require.Equal(t, 552, newYear.X)
	require.Equal(t, 24, newYear.Y)
}

func TestLayoutCutsTrailingPartialWeek(t *testing.T) {
	// Window starts on a Saturday: 372 slots make 53 whole weeks plus one
	// slot, and that last slot is today.
	g, err := Layout(day(2024, time.June, 16), DefaultWindowDays, DefaultCellSize, DefaultCellMargin)
	require.NoError(t, err)
	require.Equal(t, 6, g.StartOffset)
	require.Equal(t, 372, g.TotalSlots)
	require.Equal(t, 53, g.TotalWeeks)

	_, ok := g.Lookup(g.Today)
	require.False(t, ok)
	for _, c := range g.Cells {
		if c.Dated {
			require.True(t, c.Date.Before(g.Today))
		}
	}
}

func TestLayoutProperties(t *testing.T) {
	base := day(2025, time.February, 20)
	for i := 0; i < 21; i++ {
		now := base.AddDate(0, 0, i)
		g, err := Layout(now, DefaultWindowDays, DefaultCellSize, DefaultCellMargin)
		require.NoError(t, err)

		require.Equal(t, g.TotalSlots/7, g.TotalWeeks)
		require.Equal(t, int(g.WindowStart.Weekday()), g.StartOffset)

		dated := 0
		seen := map[time.Time]bool{}
		for _, c := range g.Cells {
			pitch := DefaultCellSize + DefaultCellMargin
			require.Equal(t, (g.TotalWeeks-c.Week-1)*pitch, c.X)
			require.Equal(t, c.Day*pitch, c.Y)
			if !c.Dated {
				continue
			}
			dated++
			require.False(t, c.Date.Before(g.WindowStart), now)
			require.False(t, c.Date.After(g.Today), now)
			require.Equal(t, int(c.Date.Weekday()), c.Day)
			require.False(t, seen[c.Date], "date %s mapped twice", c.Date)
			seen[c.Date] = true
		}
		require.Equal(t, g.TotalWeeks*7-g.StartOffset, dated)

		todayCell, ok := g.Lookup(g.Today)
		require.Equal(t, g.TotalSlots%7 == 0, ok, now)
		if ok {
			require.Equal(t, g.TotalWeeks-1, todayCell.Week)
		}
		_, ok = g.Lookup(g.WindowStart.AddDate(0, 0, -1))
		require.False(t, ok)
		_, ok = g.Lookup(g.Today.AddDate(0, 0, 1))
		require.False(t, ok)
	}
}

func TestLayoutRejectsNonsense(t *testing.T) {
	for _, tc := range []struct{ window, size, margin int }{
		{-1, 20, 4},
		{365, 0, 4},
		{365, -3, 4},
		{365, 20, -1},
	} {
		_, err := Layout(day(2024, time.June, 15), tc.window, tc.size, tc.margin)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidOptions))
	}
}

func TestLayoutShortWindow(t *testing.T) {
	// Wednesday with a 10 day window: starts Sunday, 11 slots, 1 whole week.
	g, err := Layout(day(2024, time.May, 15), 10, 10, 2)
	require.NoError(t, err)
	require.Equal(t, day(2024, time.May, 5), g.WindowStart)
	require.Equal(t, 0, g.StartOffset)
	require.Equal(t, 1, g.TotalWeeks)
	require.Len(t, g.Cells, 7)
	require.Equal(t, day(2024, time.May, 11), g.Cells[6].Date)
}

func TestGridBounds(t *testing.T) {
	g, err := Layout(day(2024, time.June, 15), DefaultWindowDays, DefaultCellSize, DefaultCellMargin)
	require.NoError(t, err)
	require.Equal(t, 53*24-4, g.Bounds().Dx())
	require.Equal(t, 7*24-4, g.Bounds().Dy())
}
