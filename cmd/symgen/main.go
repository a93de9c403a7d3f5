// Command symgen reads symbolic system models from HCL or YAML files and
// writes the MATLAB functions, Simulink S-Functions, init files and
// linearised state-space matrices their generate blocks ask for.
//
// Usage:
//
//	symgen -out build pendulum.hcl
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/njchilds90/symgen/internal/cli"
	"github.com/njchilds90/symgen/internal/config"
	"github.com/njchilds90/symgen/internal/model"
)

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads, builds and generates every model named by args. Progress is
// reported on outW, logs go to logW.
func run(outW, logW io.Writer, args []string) error {
	defaults, err := config.Load()
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	opts, shouldExit, err := cli.Parse(args, outW, defaults)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := cli.NewLogger(opts.LogLevel, opts.LogFormat, logW)
	models, err := model.NewLoader(logger).Load(opts.Paths...)
	if err != nil {
		return err
	}

	for _, m := range models {
		sys, err := model.Build(m, logger)
		if err != nil {
			return err
		}
		if opts.Check {
			fmt.Fprintf(outW, "%s: %s system from %s is valid\n", m.Name, m.Kind, m.Source)
			continue
		}
		if err := sys.Generate(opts.OutDir, opts.Overwrite); err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
		fmt.Fprintf(outW, "%s: generated into %s\n", m.Name, opts.OutDir)
	}
	return nil
}
