package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSettings(t *testing.T) {
	input := `
max_depth: 500
log_level: debug
color: never
entry: app.start
`
	s, err := ParseSettings([]byte(input))
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}

	want := &Settings{MaxDepth: 500, LogLevel: "debug", Color: "never", Entry: "app.start"}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}

	level, err := s.Level()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v (%v)", level, err)
	}

	ns, method := s.EntryPoint()
	if ns != "app" || method != "start" {
		t.Errorf("Expected app.start, got %s.%s", ns, method)
	}
}

func TestParseSettingsDefaults(t *testing.T) {
	s, err := ParseSettings([]byte("color: auto\n"))
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if s.MaxDepth != DefaultMaxDepth {
		t.Errorf("Expected default max depth, got %d", s.MaxDepth)
	}
	ns, method := s.EntryPoint()
	if ns != "" || method != DefaultEntryMethod {
		t.Errorf("Expected default entry, got %q.%q", ns, method)
	}
}

func TestParseSettingsRejectsInvalid(t *testing.T) {
	tests := []string{
		"max_depth: -1\n",
		"color: rainbow\n",
		"log_level: verbose\n",
		"max_depth: [1, 2]\n",
	}
	for _, input := range tests {
		if _, err := ParseSettings([]byte(input)); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), SettingsFileName))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if diff := cmp.Diff(DefaultSettings(), s); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	if err := os.WriteFile(path, []byte("entry: run\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if _, method := s.EntryPoint(); method != "run" {
		t.Errorf("Expected entry run, got %s", method)
	}
}

func TestOperatorMember(t *testing.T) {
	if got := OperatorMember("add"); got != "__operator_add__" {
		t.Errorf("Expected __operator_add__, got %s", got)
	}
}
