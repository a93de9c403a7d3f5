// Package cli parses the symgen command line, validates it against the
// environment defaults and handles process-level concerns like exit codes
// and the logger.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/njchilds90/symgen/internal/config"
)

// ExitError is an error that carries the exit code of the process.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Options is a parsed command line.
type Options struct {
	config.Config
	Paths []string
	// Check loads and builds every model without writing files.
	Check bool
}

// Parse processes command-line arguments on top of defaults. It returns
// the options, whether the program should exit cleanly (help was
// requested or no model was given), or an ExitError.
func Parse(args []string, output io.Writer, defaults config.Config) (*Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("symgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
symgen - generate MATLAB functions and Simulink S-Functions from symbolic models.

Usage:
  symgen [options] MODEL_PATH...

Arguments:
  MODEL_PATH
    Path to an .hcl or .yaml model file, or a directory containing them.

Environment:
  SYMGEN_OUT_DIR, SYMGEN_OVERWRITE, SYMGEN_LOG_LEVEL and SYMGEN_LOG_FORMAT
  set the defaults of the matching options; a .env file is read too.

Options:
`)
		flagSet.PrintDefaults()
	}

	outFlag := flagSet.String("out", defaults.OutDir, "Directory the generated files are written to.")
	oFlag := flagSet.String("o", "", "Directory the generated files are written to (shorthand).")
	overwriteFlag := flagSet.Bool("overwrite", defaults.Overwrite, "Replace files that already exist.")
	checkFlag := flagSet.Bool("check", false, "Load and build the models without writing any file.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	opts := &Options{
		Config: config.Config{
			OutDir:    *outFlag,
			Overwrite: *overwriteFlag,
			LogLevel:  strings.ToLower(*logLevelFlag),
			LogFormat: strings.ToLower(*logFormatFlag),
		},
		Paths: flagSet.Args(),
		Check: *checkFlag,
	}
	if *oFlag != "" {
		opts.OutDir = *oFlag
	}
	if err := opts.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "paths", opts.Paths, "out", opts.OutDir)
	return opts, false, nil
}

// NewLogger creates a logger for the given level and format. It does not
// set the global logger.
func NewLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}
