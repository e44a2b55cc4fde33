package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/opal/internal/config"
	"github.com/funvibe/opal/internal/evaluator"
	"github.com/funvibe/opal/internal/pipeline"
)

const usage = `Usage: opal [options] <unit.ast.yaml | dir>... [-- args...]

Loads the units in order, then invokes the entry method with args.

Options:
  -config <file>   settings file (default ./opal.yaml)
  -entry <ns.fn>   entry point, overrides the settings file
  -debug           log at debug level
  -help            show this message
`

// Exit codes
const (
	exitOK    = 0
	exitFault = 1
	exitUsage = 2
)

type options struct {
	configPath string
	entry      string
	debug      bool
	units      []string
	args       []string
}

func parseArgs(argv []string) (*options, error) {
	opts := &options{configPath: config.SettingsFileName}
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "--":
			opts.args = append(opts.args, argv[i+1:]...)
			return opts, nil
		case "-debug", "--debug":
			opts.debug = true
		case "-config", "--config", "-entry", "--entry":
			if i+1 >= len(argv) {
				return nil, fmt.Errorf("%s needs a value", arg)
			}
			i++
			if strings.HasSuffix(arg, "config") {
				opts.configPath = argv[i]
			} else {
				opts.entry = argv[i]
			}
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option %s", arg)
			}
			// Units come first; the first argument that is not a unit starts
			// the entry arguments.
			if len(opts.args) == 0 && isUnit(arg) {
				opts.units = append(opts.units, arg)
			} else {
				opts.args = append(opts.args, arg)
			}
		}
	}
	return opts, nil
}

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func isUnit(path string) bool {
	if isSourceFile(path) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// expandUnits replaces directories with the unit files they contain, in
// lexical order.
func expandUnits(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && isSourceFile(e.Name()) {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func reportFault(w io.Writer, err error, color bool) {
	msg := err.Error()
	var rtErr *evaluator.RuntimeError
	var thrown *evaluator.ThrowError
	switch {
	case errors.As(err, &rtErr):
		msg = rtErr.Full()
	case errors.As(err, &thrown):
		msg = thrown.Full()
	}
	if color {
		fmt.Fprintf(w, "\x1b[31merror:\x1b[0m %s\n", msg)
		return
	}
	fmt.Fprintf(w, "error: %s\n", msg)
}

func run(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	for _, arg := range argv {
		if arg == "--" {
			break
		}
		if arg == "-help" || arg == "--help" || arg == "-h" {
			fmt.Fprint(stdout, usage)
			return exitOK
		}
	}

	opts, err := parseArgs(argv)
	if err != nil {
		fmt.Fprintf(stderr, "opal: %v\n\n%s", err, usage)
		return exitUsage
	}
	if len(opts.units) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	settings, err := config.LoadSettings(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "opal: %v\n", err)
		return exitUsage
	}
	if opts.entry != "" {
		settings.Entry = opts.entry
	}
	level, _ := settings.Level()
	if opts.debug {
		level = slog.LevelDebug
	}
	color := useColor(settings.Color, stderr)

	rt := evaluator.NewRuntimeEnvironment()
	rt.Out = stdout
	rt.SetInput(stdin)
	rt.MaxDepth = settings.MaxDepth
	rt.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	units, err := expandUnits(opts.units)
	if err != nil {
		fmt.Fprintf(stderr, "opal: %v\n", err)
		return exitUsage
	}
	loader := pipeline.Loader(rt)
	var last string
	for _, path := range units {
		res := loader.Run(pipeline.NewPipelineContext(ctx, path))
		if res.Failed() {
			reportFault(stderr, res.Err(), color)
			return exitFault
		}
		last = res.AstRoot.Namespace
	}

	namespace, method := settings.EntryPoint()
	if namespace == "" {
		namespace = last
	}
	rt.Logger.Debug("running entry point", "namespace", namespace, "method", method, "args", len(opts.args))
	if _, err := rt.InvokeEntry(ctx, namespace, method, opts.args); err != nil {
		reportFault(stderr, err, color)
		return exitFault
	}
	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
