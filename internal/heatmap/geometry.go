package heatmap

import (
	"fmt"
	"image"
	"time"

	"github.com/christopherklint97/habitmap/internal/activity"
)

const (
	DefaultWindowDays = 365
	DefaultCellSize   = 20
	DefaultCellMargin = 4

	daysPerWeek = 7
)

// WeekStart is the weekday on day-axis index 0. It is fixed rather than
// taken from the locale so every render of the same data lines up.
const WeekStart = time.Sunday

// Cell is one square of the grid. Cells without a date are padding before
// the window start or after today and are never painted.
type Cell struct {
	Week  int // 0 is the week column holding the window start
	Day   int // 0 is WeekStart
	X, Y  int // top-left pixel
	Date  time.Time
	Dated bool
}

// Grid is the week-column/day-row layout of one window.
type Grid struct {
	Today       time.Time
	WindowStart time.Time
	StartOffset int // day index of WindowStart
	TotalSlots  int
	TotalWeeks  int
	CellSize    int
	CellMargin  int
	Cells       []Cell // week-major, then day
}

// Layout computes the grid for the window of windowDays days ending on the
// calendar date of now. Only whole weeks of slots get a column, so when the
// slot count is not a multiple of seven the trailing partial week is cut.
// Columns are placed from weekIndex: x = (TotalWeeks-Week-1)*(cellSize+cellMargin).
func Layout(now time.Time, windowDays, cellSize, cellMargin int) (*Grid, error) {
	switch {
	case windowDays < 0:
		return nil, fmt.Errorf("%w: window of %d days", ErrInvalidOptions, windowDays)
	case cellSize <= 0:
		return nil, fmt.Errorf("%w: cell size %d", ErrInvalidOptions, cellSize)
	case cellMargin < 0:
		return nil, fmt.Errorf("%w: cell margin %d", ErrInvalidOptions, cellMargin)
	}

	today := activity.Day(now)
	start := today.AddDate(0, 0, -windowDays)
	offset := dayIndex(start)
	span := int(today.Sub(start).Hours() / 24)
	slots := span + 1 + offset
	weeks := slots / daysPerWeek

	g := &Grid{
		Today:       today,
		WindowStart: start,
		StartOffset: offset,
		TotalSlots:  slots,
		TotalWeeks:  weeks,
		CellSize:    cellSize,
		CellMargin:  cellMargin,
		Cells:       make([]Cell, 0, weeks*daysPerWeek),
	}

	pitch := cellSize + cellMargin
	for week := 0; week < weeks; week++ {
		for day := 0; day < daysPerWeek; day++ {
			c := Cell{
				Week: week,
				Day:  day,
				X:    (weeks - week - 1) * pitch,
				Y:    day * pitch,
			}
			slot := week*daysPerWeek + day
			if slot >= offset {
				d := start.AddDate(0, 0, slot-offset)
				if !d.After(today) {
					c.Date, c.Dated = d, true
				}
			}
			g.Cells = append(g.Cells, c)
		}
	}
	return g, nil
}

// Rect is the pixel area the cell paints.
func (g *Grid) Rect(c Cell) image.Rectangle {
	return image.Rect(c.X, c.Y, c.X+g.CellSize, c.Y+g.CellSize)
}

// Lookup returns the cell holding the calendar date of t.
func (g *Grid) Lookup(t time.Time) (Cell, bool) {
	d := activity.Day(t)
	if d.Before(g.WindowStart) || d.After(g.Today) {
		return Cell{}, false
	}
	slot := int(d.Sub(g.WindowStart).Hours()/24) + g.StartOffset
	if slot >= len(g.Cells) {
		return Cell{}, false
	}
	return g.Cells[slot], true
}

// Bounds is the pixel extent of all columns, margins between cells included.
func (g *Grid) Bounds() image.Rectangle {
	if g.TotalWeeks == 0 {
		return image.Rectangle{}
	}
	pitch := g.CellSize + g.CellMargin
	return image.Rect(0, 0, g.TotalWeeks*pitch-g.CellMargin, daysPerWeek*pitch-g.CellMargin)
}

func dayIndex(t time.Time) int {
	return (int(t.Weekday()) - int(WeekStart) + daysPerWeek) % daysPerWeek
}
