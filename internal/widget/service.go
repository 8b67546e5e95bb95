// Package widget drives the host side of a heatmap widget: which list each
// widget instance shows, and turning that list into a PNG on update.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/christopherklint97/habitmap/internal/activity"
	"github.com/christopherklint97/habitmap/internal/heatmap"
	"github.com/christopherklint97/habitmap/internal/store"
)

// NoListTitle is shown by a widget that has no list or no data to show.
const NoListTitle = "Select a List"

var (
	ErrUnknownList = errors.New("list not found in tracker data")
	ErrInvalidID   = errors.New("invalid widget id")
)

// Bindings persists which list each widget instance shows.
type Bindings interface {
	GetWidgetList(widgetID string) (string, error)
	SetWidgetList(widgetID, listID string) error
	DeleteWidget(widgetID string) error
	ListWidgets() ([]store.Binding, error)
}

// Result is what one widget ended up displaying.
type Result struct {
	WidgetID  string
	ListID    string
	Title     string
	ImagePath string // empty when no image was produced
}

type Service struct {
	bindings Bindings
	source   Source
	opts     heatmap.Options
	outDir   string
	logger   *slog.Logger

	// Titled draws the list name under the grid.
	Titled bool
	// Now is the render clock; defaults to time.Now.
	Now func() time.Time
}

func New(bindings Bindings, source Source, opts heatmap.Options, outDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		bindings: bindings,
		source:   source,
		opts:     opts,
		outDir:   outDir,
		logger:   logger,
		Now:      time.Now,
	}
}

// Lists returns the list identifiers available for binding.
func (s *Service) Lists(ctx context.Context) ([]string, error) {
	payload, err := s.source.Payload(ctx)
	if err != nil {
		return nil, err
	}
	return activity.ListNames(payload), nil
}

// Configure binds widgetID to listID and renders it.
func (s *Service) Configure(ctx context.Context, widgetID, listID string) (Result, error) {
	if err := checkID(widgetID); err != nil {
		return Result{}, err
	}
	lists, err := s.Lists(ctx)
	if err != nil {
		return Result{}, err
	}
	if !slices.Contains(lists, listID) {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownList, listID)
	}
	if err := s.bindings.SetWidgetList(widgetID, listID); err != nil {
		return Result{}, err
	}
	s.logger.Info("widget configured", "widget", widgetID, "list", listID)

	results, err := s.Update(ctx, widgetID)
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// Update re-renders the given widgets. The payload is read once. A failing
// widget does not stop the others; its error is joined into the result.
func (s *Service) Update(ctx context.Context, widgetIDs ...string) ([]Result, error) {
	payload, err := s.source.Payload(ctx)
	if err != nil {
		return nil, err
	}

	var errs []error
	results := make([]Result, 0, len(widgetIDs))
	for _, id := range widgetIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r, err := s.updateOne(id, payload)
		if err != nil {
			s.logger.Error("widget update failed", "widget", id, "error", err)
			errs = append(errs, fmt.Errorf("widget %s: %w", id, err))
			continue
		}
		results = append(results, r)
	}
	return results, errors.Join(errs...)
}

// UpdateAll re-renders every bound widget.
func (s *Service) UpdateAll(ctx context.Context) ([]Result, error) {
	bindings, err := s.bindings.ListWidgets()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(bindings))
	for i, b := range bindings {
		ids[i] = b.WidgetID
	}
	return s.Update(ctx, ids...)
}

// Delete forgets the widgets and removes their images.
func (s *Service) Delete(widgetIDs ...string) error {
	var errs []error
	for _, id := range widgetIDs {
		if err := checkID(id); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.bindings.DeleteWidget(id); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(s.ImagePath(id)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("removing image: %w", err))
			continue
		}
		s.logger.Info("widget deleted", "widget", id)
	}
	return errors.Join(errs...)
}

// ImagePath is where the PNG of widgetID is written.
func (s *Service) ImagePath(widgetID string) string {
	return filepath.Join(s.outDir, "widget-"+widgetID+".png")
}

func (s *Service) updateOne(widgetID string, payload []byte) (Result, error) {
	if err := checkID(widgetID); err != nil {
		return Result{}, err
	}
	listID, err := s.bindings.GetWidgetList(widgetID)
	if err != nil {
		return Result{}, err
	}

	r := Result{WidgetID: widgetID, ListID: listID, Title: NoListTitle}
	if listID == "" || payload == nil {
		s.logger.Debug("widget has nothing to show", "widget", widgetID, "bound", listID != "")
		return r, nil
	}
	r.Title = listID

	days, rep := activity.ParseReport(payload, listID)
	s.logger.Debug("parsed activity log",
		"widget", widgetID,
		"list", listID,
		"decoded", rep.Decoded,
		"list_found", rep.ListFound,
		"days", rep.Recorded,
		"skipped", len(rep.Skipped),
	)
	if len(rep.Skipped) > 0 {
		s.logger.Warn("skipped malformed day entries", "list", listID, "keys", rep.Skipped)
	}

	opts := s.opts
	opts.Now = s.Now()
	img, grid, err := heatmap.RenderGrid(days, opts)
	if err != nil {
		return Result{}, err
	}
	if s.Titled {
		heatmap.DrawTitle(img, grid, listID, opts.Theme)
	}

	path := s.ImagePath(widgetID)
	if err := WritePNG(path, img); err != nil {
		return Result{}, err
	}
	r.ImagePath = path
	s.logger.Info("widget rendered", "widget", widgetID, "list", listID, "path", path)
	return r, nil
}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}
