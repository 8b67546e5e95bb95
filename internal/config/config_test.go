package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HABITMAP_HOME", home)
	t.Setenv("HABITMAP_TRACKER", "")
	t.Setenv("HABITMAP_OUTPUT_DIR", "")
	t.Setenv("HABITMAP_THEME", "")

	cfg, err := LoadFile(filepath.Join(home, "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, 1000, cfg.Render.Width)
	require.Equal(t, 350, cfg.Render.Height)
	require.Equal(t, 365, cfg.Render.WindowDays)
	require.Equal(t, "auto", cfg.Render.Theme)
	require.Equal(t, filepath.Join(home, "tracker.json"), cfg.Tracker.Path)
	require.Equal(t, filepath.Join(home, "widgets"), cfg.Output.Dir)
}

func TestLoadFileOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HABITMAP_HOME", home)
	t.Setenv("HABITMAP_TRACKER", "")
	t.Setenv("HABITMAP_OUTPUT_DIR", "/tmp/out")
	t.Setenv("HABITMAP_THEME", "dark")

	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[tracker]
path = "/data/tracker.json"
root_key = "Tracker"

[render]
width = 600
theme = "light"
`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "/data/tracker.json", cfg.Tracker.Path)
	require.Equal(t, "Tracker", cfg.Tracker.RootKey)
	require.Equal(t, 600, cfg.Render.Width)
	require.Equal(t, 350, cfg.Render.Height, "unset keys keep defaults")
	require.Equal(t, "dark", cfg.Render.Theme, "environment wins over file")
	require.Equal(t, "/tmp/out", cfg.Output.Dir)
}

func TestLoadFileRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render\nwidth = "), 0644))
	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested")
	t.Setenv("HABITMAP_HOME", home)

	path, err := WriteDefault()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "config.toml"), path)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 30, cfg.Schedule.RefreshMinutes)
	require.True(t, cfg.Notifications.Enabled)

	require.NoError(t, os.WriteFile(path, []byte("[render]\nwidth = 10\n"), 0644))
	_, err = WriteDefault()
	require.NoError(t, err)
	cfg, err = LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Render.Width, "existing file is kept")
}
