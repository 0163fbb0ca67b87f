// Package config loads runtime settings from an optional YAML file, a .env
// file and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "blueprint.yaml"

type Config struct {
	Addr       string `yaml:"addr"`
	PresetFile string `yaml:"preset_file"`
	RecentFile string `yaml:"recent_file"`
	LogLevel   string `yaml:"log_level"`
	DirPerm    string `yaml:"dir_perm"`
	FilePerm   string `yaml:"file_perm"`
}

func Default() *Config {
	return &Config{
		Addr:       ":8080",
		PresetFile: "presets.json",
		RecentFile: "recent.json",
		LogLevel:   "info",
		DirPerm:    "0755",
		FilePerm:   "0644",
	}
}

// Load reads path (DefaultPath when empty). A missing file yields the
// defaults; unset fields in the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if _, err := cfg.DirMode(); err != nil {
		return nil, fmt.Errorf("invalid dir_perm: %w", err)
	}
	if _, err := cfg.FileMode(); err != nil {
		return nil, fmt.Errorf("invalid file_perm: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if strings.HasPrefix(port, ":") {
			c.Addr = port
		} else {
			c.Addr = ":" + port
		}
	}
	if v := strings.TrimSpace(os.Getenv("PRESET_FILE")); v != "" {
		c.PresetFile = v
	}
	if v := strings.TrimSpace(os.Getenv("RECENT_FILE")); v != "" {
		c.RecentFile = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) DirMode() (os.FileMode, error) {
	return parsePerm(c.DirPerm, 0755)
}

func (c *Config) FileMode() (os.FileMode, error) {
	return parsePerm(c.FilePerm, 0644)
}

// parsePerm accepts 0755, 755 and 0o755.
func parsePerm(s string, def os.FileMode) (os.FileMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if !strings.HasPrefix(s, "0") {
		s = "0" + s
	}
	u, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	if u > 0o777 {
		return 0, fmt.Errorf("mode %#o out of range", u)
	}
	return os.FileMode(u), nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(c.LogLevel)}))
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
