package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the runtime configuration read from opal.yaml.
type Settings struct {
	// MaxDepth bounds nested evaluation; 0 means DefaultMaxDepth.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `yaml:"log_level,omitempty"`

	// Color controls fault highlighting: auto, always or never.
	Color string `yaml:"color,omitempty"`

	// Entry names the method invoked after all units are loaded,
	// as "namespace.method". The namespace defaults to the last unit.
	Entry string `yaml:"entry,omitempty"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	return &Settings{
		MaxDepth: DefaultMaxDepth,
		LogLevel: "warn",
		Color:    "auto",
	}
}

// LoadSettings reads path. A missing file yields DefaultSettings.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes YAML settings and fills in defaults.
func ParseSettings(data []byte) (*Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	if s.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", s.MaxDepth)
	}
	if s.MaxDepth == 0 {
		s.MaxDepth = DefaultMaxDepth
	}
	switch s.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", s.Color)
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel onto slog.
func (s *Settings) Level() (slog.Level, error) {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", s.LogLevel)
}

// EntryPoint splits Entry into namespace and method. An empty namespace means
// "the last loaded unit".
func (s *Settings) EntryPoint() (namespace, method string) {
	if s.Entry == "" {
		return "", DefaultEntryMethod
	}
	if idx := strings.LastIndex(s.Entry, "."); idx >= 0 {
		return s.Entry[:idx], s.Entry[idx+1:]
	}
	return "", s.Entry
}
