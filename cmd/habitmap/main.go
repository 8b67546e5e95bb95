package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/habitmap/internal/activity"
	"github.com/christopherklint97/habitmap/internal/calendar"
	"github.com/christopherklint97/habitmap/internal/config"
	"github.com/christopherklint97/habitmap/internal/heatmap"
	"github.com/christopherklint97/habitmap/internal/scheduler"
	"github.com/christopherklint97/habitmap/internal/store"
	"github.com/christopherklint97/habitmap/internal/tui"
	"github.com/christopherklint97/habitmap/internal/widget"
)

var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "habitmap",
	Short: "Year-long activity heatmaps for home-screen widgets",
	Long:  "habitmap turns a habit tracker's per-day log into a 365-day heatmap image, one per widget, and keeps them fresh.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(verbose)
	},
	SilenceUsage: true,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one list to a PNG file",
	RunE:  runRender,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Draw a list's heatmap in the terminal",
	RunE:  runPreview,
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "List the lists in the tracker file",
	RunE:  runLists,
}

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Manage widget instances",
}

var widgetAddCmd = &cobra.Command{
	Use:   "add <widget-id> [list]",
	Short: "Bind a widget to a list and render it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runWidgetAdd,
}

var widgetRemoveCmd = &cobra.Command{
	Use:   "remove <widget-id>...",
	Short: "Forget widgets and delete their images",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWidgetRemove,
}

var widgetListCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show widget bindings",
	RunE:  runWidgetList,
}

var updateCmd = &cobra.Command{
	Use:   "update [widget-id...]",
	Short: "Re-render widgets (all bound widgets by default)",
	RunE:  runUpdate,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh all widgets on a schedule",
	RunE:  runWatch,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running refresher",
	RunE:  runStop,
}

var importCmd = &cobra.Command{
	Use:   "import-ics <url-or-file>",
	Short: "Append calendar events to a tracker list",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportICS,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the tracker file",
	RunE:  runSchema,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	renderCmd.Flags().String("list", "", "List to render")
	renderCmd.Flags().StringP("out", "o", "heatmap.png", "Output PNG path")
	renderCmd.Flags().String("title", "", "Caption drawn under the grid")
	renderCmd.Flags().String("tracker", "", "Tracker file (default from config)")
	renderCmd.MarkFlagRequired("list")
	addRenderFlags(renderCmd)

	previewCmd.Flags().String("list", "", "List to preview")
	previewCmd.Flags().String("tracker", "", "Tracker file (default from config)")
	previewCmd.MarkFlagRequired("list")
	addRenderFlags(previewCmd)

	widgetAddCmd.Flags().Bool("title", false, "Draw the list name under the grid")
	updateCmd.Flags().Bool("title", false, "Draw the list name under the grid")

	importCmd.Flags().String("list", "", "List to append events to")
	importCmd.Flags().String("category", "", "Category for events without CATEGORIES")
	importCmd.Flags().Int("since", 365, "Import events from this many days back")
	importCmd.MarkFlagRequired("list")

	widgetCmd.AddCommand(widgetAddCmd)
	widgetCmd.AddCommand(widgetRemoveCmd)
	widgetCmd.AddCommand(widgetListCmd)

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func trackerSource(cmd *cobra.Command, cfg *config.Config) widget.FileSource {
	src := widget.FileSource{Path: cfg.Tracker.Path, RootKey: cfg.Tracker.RootKey}
	if cmd.Flags().Lookup("tracker") != nil {
		if v, _ := cmd.Flags().GetString("tracker"); v != "" {
			src.Path = v
		}
	}
	return src
}

// newService opens the widget database and builds a Service from config.
// The caller closes the returned DB.
func newService(cmd *cobra.Command, cfg *config.Config) (*widget.Service, *store.DB, error) {
	opts, err := renderOptions(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	svc := widget.New(db, trackerSource(cmd, cfg), opts, cfg.Output.Dir, logger)
	if cmd.Flags().Lookup("title") != nil {
		svc.Titled, _ = cmd.Flags().GetBool("title")
	}
	return svc, db, nil
}

func loadDays(ctx context.Context, cmd *cobra.Command, cfg *config.Config, listID string) (activity.Days, error) {
	payload, err := trackerSource(cmd, cfg).Payload(ctx)
	if err != nil {
		return nil, err
	}
	days, rep := activity.ParseReport(payload, listID)
	if payload != nil && !rep.Decoded {
		logger.Warn("tracker file is not a JSON object, rendering empty grid")
	} else if rep.Decoded && !rep.ListFound {
		logger.Warn("list not found in tracker file", "list", listID)
	}
	if len(rep.Skipped) > 0 {
		logger.Warn("skipped malformed day entries", "list", listID, "keys", rep.Skipped)
	}
	return days, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	listID, _ := cmd.Flags().GetString("list")
	out, _ := cmd.Flags().GetString("out")
	title, _ := cmd.Flags().GetString("title")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := renderOptions(cmd, cfg)
	if err != nil {
		return err
	}
	days, err := loadDays(cmd.Context(), cmd, cfg, listID)
	if err != nil {
		return err
	}

	img, grid, err := heatmap.RenderGrid(days, opts)
	if err != nil {
		return err
	}
	if title != "" && !heatmap.DrawTitle(img, grid, title, opts.Theme) {
		fmt.Println("Warning: no room under the grid for the title.")
	}
	if err := widget.WritePNG(out, img); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%dx%d, %s theme, %d weeks)\n", out, opts.Width, opts.Height, opts.Theme, grid.TotalWeeks)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	listID, _ := cmd.Flags().GetString("list")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := renderOptions(cmd, cfg)
	if err != nil {
		return err
	}
	days, err := loadDays(cmd.Context(), cmd, cfg, listID)
	if err != nil {
		return err
	}
	grid, err := heatmap.Layout(opts.Now, opts.WindowDays, opts.CellSize, opts.CellMargin)
	if err != nil {
		return err
	}

	fmt.Println(tui.Preview(grid, days, opts.Theme, listID))
	return nil
}

func runLists(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	payload, err := trackerSource(cmd, cfg).Payload(cmd.Context())
	if err != nil {
		return err
	}

	lists := activity.ListNames(payload)
	if len(lists) == 0 {
		fmt.Println("No lists found.")
		return nil
	}
	fmt.Printf("Found %d lists:\n\n", len(lists))
	for _, l := range lists {
		fmt.Printf("  %s\n", l)
	}
	return nil
}

func runWidgetAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, db, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	widgetID := args[0]

	var listID string
	if len(args) == 2 {
		listID = args[1]
	} else {
		lists, err := svc.Lists(ctx)
		if err != nil {
			return err
		}
		app := tui.NewListPickerApp(widgetID, lists)
		if _, err := tea.NewProgram(app).Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		result := app.GetResult()
		if result == nil || result.Canceled {
			fmt.Println("No list selected.")
			return nil
		}
		listID = result.List
	}

	res, err := svc.Configure(ctx, widgetID, listID)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func runWidgetRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, db, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := svc.Delete(args...); err != nil {
		return err
	}
	fmt.Printf("Removed %d widget(s)\n", len(args))
	return nil
}

func runWidgetList(cmd *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	bindings, err := db.ListWidgets()
	if err != nil {
		return fmt.Errorf("listing widgets: %w", err)
	}
	if len(bindings) == 0 {
		fmt.Println("No widgets configured.")
		return nil
	}
	for _, b := range bindings {
		fmt.Printf("  %-12s  %-24s  %s\n", b.WidgetID, b.ListID, b.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if last, err := db.LastRefresh(); err == nil && !last.IsZero() {
		fmt.Printf("\nLast refresh: %s\n", last.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, db, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var results []widget.Result
	if len(args) == 0 {
		results, err = svc.UpdateAll(cmd.Context())
	} else {
		results, err = svc.Update(cmd.Context(), args...)
	}
	for _, r := range results {
		printResult(r)
	}
	return err
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, db, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return scheduler.New(cfg, svc, db, logger).Run(ctx)
}

func runStop(cmd *cobra.Command, args []string) error {
	pid, err := scheduler.ReadPID()
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending stop signal: %w", err)
	}

	fmt.Printf("Sent stop signal to habitmap (PID %d)\n", pid)
	return nil
}

func runImportICS(cmd *cobra.Command, args []string) error {
	listID, _ := cmd.Flags().GetString("list")
	category, _ := cmd.Flags().GetString("category")
	since, _ := cmd.Flags().GetInt("since")
	if since < 0 {
		return errors.New("--since must not be negative")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	now := time.Now()
	events, err := calendar.Fetch(cmd.Context(), args[0], now.AddDate(0, 0, -since), now)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events in range.")
		return nil
	}

	days := calendar.ToDayLog(events, category)
	if err := activity.MergeFile(cfg.Tracker.Path, cfg.Tracker.RootKey, listID, days); err != nil {
		return err
	}

	fmt.Printf("Imported %d events over %d days into %q\n", len(events), len(days), listID)
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	out, err := json.MarshalIndent(activity.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	configPath, err := config.WriteDefault()
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	if path, err := exec.LookPath(editor); err == nil {
		editor = path
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}

func printResult(r widget.Result) {
	if r.ImagePath == "" {
		fmt.Printf("  %-12s  %s\n", r.WidgetID, r.Title)
		return
	}
	fmt.Printf("  %-12s  %-24s  %s\n", r.WidgetID, r.Title, r.ImagePath)
}
