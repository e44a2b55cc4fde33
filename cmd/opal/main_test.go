package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func runCLI(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), argv, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

var (
	helloUnit    = filepath.Join("testdata", "hello.ast.yaml")
	settingsFile = filepath.Join("testdata", "settings.yaml")
	noSettings   = filepath.Join("testdata", "missing.yaml")
)

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"-debug", "-entry", "a.b", helloUnit, "x", "y", "--", "-z"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !opts.debug || opts.entry != "a.b" {
		t.Errorf("flags: %+v", opts)
	}
	if diff := cmp.Diff([]string{helloUnit}, opts.units); diff != "" {
		t.Errorf("units (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y", "-z"}, opts.args); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}

	if _, err := parseArgs([]string{"-bogus"}); err == nil {
		t.Errorf("expected error for unknown option")
	}
	if _, err := parseArgs([]string{"-config"}); err == nil {
		t.Errorf("expected error for missing option value")
	}
}

func TestRunEntryWithArguments(t *testing.T) {
	code, out, errOut := runCLI(t, "-config", noSettings, helloUnit, "world")
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if out != "hello, world\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunEntryWithoutArguments(t *testing.T) {
	code, out, errOut := runCLI(t, "-config", noSettings, "testdata")
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, errOut)
	}
	if out != "hello, nobody\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunReportsUncaughtThrow(t *testing.T) {
	code, _, errOut := runCLI(t, "-config", settingsFile, helloUnit)
	if code != exitFault {
		t.Fatalf("exit %d, want %d", code, exitFault)
	}
	if !strings.HasPrefix(errOut, "error: uncaught throw") || !strings.Contains(errOut, "boom") {
		t.Errorf("stderr = %q", errOut)
	}
	if strings.Contains(errOut, "\x1b[") {
		t.Errorf("color disabled by settings, got %q", errOut)
	}
}

func TestRunUsage(t *testing.T) {
	code, _, errOut := runCLI(t)
	if code != exitUsage || !strings.Contains(errOut, "Usage:") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}

	code, out, _ := runCLI(t, "-help")
	if code != exitOK || !strings.Contains(out, "Usage:") {
		t.Errorf("help: exit %d, stdout %q", code, out)
	}

	code, _, errOut = runCLI(t, "-config", noSettings, "-entry", "hello.nothing", helloUnit)
	if code != exitFault || !strings.Contains(errOut, "NameNotFound") {
		t.Errorf("unknown entry: exit %d, stderr %q", code, errOut)
	}
}
