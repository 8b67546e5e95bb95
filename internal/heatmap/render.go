// Package heatmap lays out a trailing window of days as week columns and
// paints one square per day, colored by that day's category.
package heatmap

import (
	"errors"
	"fmt"
	"image"
	"time"

	"golang.org/x/image/draw"

	"github.com/christopherklint97/habitmap/internal/activity"
)

// ErrInvalidOptions is wrapped by every error caused by unusable render
// parameters. Bad activity data never produces an error.
var ErrInvalidOptions = errors.New("invalid render options")

const (
	DefaultWidth  = 1000
	DefaultHeight = 350
)

type Options struct {
	Now        time.Time // zero means time.Now()
	Theme      Theme
	Width      int
	Height     int
	CellSize   int
	CellMargin int
	WindowDays int
}

func DefaultOptions() Options {
	return Options{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		CellSize:   DefaultCellSize,
		CellMargin: DefaultCellMargin,
		WindowDays: DefaultWindowDays,
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	return nil
}

// Render paints the heatmap of days into a new transparent canvas. Each
// dated cell is filled whole with its resolved color; cells outside the
// window stay transparent and pixels past the canvas edge are clipped.
func Render(days activity.Days, opts Options) (*image.NRGBA, error) {
	img, _, err := RenderGrid(days, opts)
	return img, err
}

// RenderGrid is Render that also returns the layout it painted, for callers
// that annotate the image afterwards.
func RenderGrid(days activity.Days, opts Options) (*image.NRGBA, *Grid, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	grid, err := Layout(now, opts.WindowDays, opts.CellSize, opts.CellMargin)
	if err != nil {
		return nil, nil, err
	}
	return Paint(grid, days, opts.Theme, image.Rect(0, 0, opts.Width, opts.Height)), grid, nil
}

// Paint rasterizes an already computed grid.
func Paint(grid *Grid, days activity.Days, theme Theme, bounds image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(bounds)
	for _, c := range grid.Cells {
		if !c.Dated {
			continue
		}
		category, _ := days.Category(c.Date)
		fill := image.NewUniform(ResolveColor(category, theme))
		draw.Draw(img, grid.Rect(c), fill, image.Point{}, draw.Src)
	}
	return img
}
