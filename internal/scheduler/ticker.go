package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/habitmap/internal/config"
	"github.com/christopherklint97/habitmap/internal/widget"
)

// Updater re-renders every bound widget.
type Updater interface {
	UpdateAll(ctx context.Context) ([]widget.Result, error)
}

// StateStore records when the last clean refresh finished.
type StateStore interface {
	SetLastRefresh(t time.Time) error
}

// Notifier reports refresh failures to the user.
type Notifier func(title, message string) error

type Scheduler struct {
	cfg      *config.Config
	updater  Updater
	state    StateStore
	notify   Notifier
	logger   *slog.Logger
	interval time.Duration
}

func New(cfg *config.Config, updater Updater, state StateStore, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	interval := time.Duration(cfg.Schedule.RefreshMinutes) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	s := &Scheduler{
		cfg:      cfg,
		updater:  updater,
		state:    state,
		logger:   logger,
		interval: interval,
	}
	if cfg.Notifications.Enabled {
		s.notify = SendNotification
	}
	return s
}

// Run refreshes immediately, then on every aligned tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.writePID(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer s.removePID()

	fmt.Printf("Refresher started (interval: %s)\n", s.interval)
	s.Refresh(ctx)

	for {
		nextTick := nextAlignedTick(time.Now(), s.interval)
		s.logger.Debug("next refresh", "at", nextTick.Format("15:04"))

		select {
		case <-ctx.Done():
			fmt.Println("\nRefresher stopped.")
			return nil
		case <-time.After(time.Until(nextTick)):
		}

		s.Refresh(ctx)
	}
}

// Refresh runs one update cycle over all bound widgets.
func (s *Scheduler) Refresh(ctx context.Context) {
	results, err := s.updater.UpdateAll(ctx)
	s.logger.Info("refresh finished", "widgets", len(results), "failed", err != nil)

	if err != nil {
		s.logger.Error("refresh failed", "error", err)
		if s.notify != nil {
			msg := firstLine(err.Error())
			if nerr := s.notify("habitmap", "Widget refresh failed: "+msg); nerr != nil {
				s.logger.Warn("sending notification", "error", nerr)
			}
		}
		return
	}

	if s.state != nil {
		if err := s.state.SetLastRefresh(time.Now()); err != nil {
			s.logger.Warn("recording refresh time", "error", err)
		}
	}
}

func nextAlignedTick(now time.Time, interval time.Duration) time.Time {
	mins := int(interval.Minutes())
	if mins <= 0 {
		mins = 30
	}

	currentMinute := now.Hour()*60 + now.Minute()
	nextMinute := ((currentMinute / mins) + 1) * mins

	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return next.Add(time.Duration(nextMinute) * time.Minute)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func pidPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "habitmap.pid"), nil
}

func (s *Scheduler) writePID() error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	path, err := pidPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func (s *Scheduler) removePID() {
	if path, err := pidPath(); err == nil {
		os.Remove(path)
	}
}

func ReadPID() (int, error) {
	path, err := pidPath()
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("no running refresher found")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file")
	}

	return pid, nil
}
