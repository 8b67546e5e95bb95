package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/habitmap/internal/config"
	"github.com/christopherklint97/habitmap/internal/heatmap"
)

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// addRenderFlags registers the flags that override the [render] config.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("theme", "", `"light", "dark" or "auto" (default from config)`)
	cmd.Flags().String("now", "", `render as of this date: YYYY-MM-DD or e.g. "yesterday", "2 weeks ago"`)
	cmd.Flags().Int("width", 0, "canvas width in pixels")
	cmd.Flags().Int("height", 0, "canvas height in pixels")
	cmd.Flags().Int("cell", 0, "cell size in pixels")
	cmd.Flags().Int("margin", -1, "gap between cells in pixels")
	cmd.Flags().Int("window", -1, "days before today to include")
}

func renderOptions(cmd *cobra.Command, cfg *config.Config) (heatmap.Options, error) {
	opts := heatmap.Options{
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		CellSize:   cfg.Render.CellSize,
		CellMargin: cfg.Render.CellMargin,
		WindowDays: cfg.Render.WindowDays,
	}

	if v, _ := cmd.Flags().GetInt("width"); v != 0 {
		opts.Width = v
	}
	if v, _ := cmd.Flags().GetInt("height"); v != 0 {
		opts.Height = v
	}
	if v, _ := cmd.Flags().GetInt("cell"); v != 0 {
		opts.CellSize = v
	}
	if cmd.Flags().Changed("margin") {
		opts.CellMargin, _ = cmd.Flags().GetInt("margin")
	}
	if cmd.Flags().Changed("window") {
		opts.WindowDays, _ = cmd.Flags().GetInt("window")
	}

	themeName := cfg.Render.Theme
	if v, _ := cmd.Flags().GetString("theme"); v != "" {
		themeName = v
	}
	theme, err := resolveTheme(themeName, lipgloss.HasDarkBackground)
	if err != nil {
		return opts, err
	}
	opts.Theme = theme

	nowFlag, _ := cmd.Flags().GetString("now")
	now, err := parseNow(nowFlag, time.Now())
	if err != nil {
		return opts, err
	}
	opts.Now = now

	return opts, nil
}

// resolveTheme maps a configured theme name to a Theme. "auto" (or empty)
// follows the terminal background.
func resolveTheme(name string, darkBackground func() bool) (heatmap.Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		if darkBackground() {
			return heatmap.Dark, nil
		}
		return heatmap.Light, nil
	}
	return heatmap.ParseTheme(name)
}

func parseNow(s string, ref time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ref, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, ref.Location()); err == nil {
		return t, nil
	}
	t, err := naturaldate.Parse(s, ref, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --now %q: %w", s, err)
	}
	return t, nil
}
