package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "PRESET_FILE", "RECENT_FILE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileKeepsUnsetDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "blueprint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\npreset_file: /data/presets.json\nfile_perm: \"600\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/data/presets.json", cfg.PresetFile)
	assert.Equal(t, "recent.json", cfg.RecentFile)

	mode, err := cfg.FileMode()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), mode)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "blueprint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\n"), 0644))
	t.Setenv("PORT", "7000")
	t.Setenv("PRESET_FILE", "/tmp/p.json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "/tmp/p.json", cfg.PresetFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "blueprint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadPerm(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "blueprint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dir_perm: rwx\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestParsePerm(t *testing.T) {
	for in, want := range map[string]os.FileMode{
		"":      0644,
		"0755":  0755,
		"755":   0755,
		"0o700": 0700,
	} {
		got, err := parsePerm(in, 0644)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parsePerm("1777", 0)
	assert.Error(t, err)
	_, err = parsePerm("9", 0)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := (&Config{LogLevel: "warn"}).NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
