package cli_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/symgen/internal/cli"
	"github.com/njchilds90/symgen/internal/config"
)

func TestParse_Defaults(t *testing.T) {
	defaults := config.Config{OutDir: "gen", Overwrite: false, LogLevel: "warn", LogFormat: "json"}
	opts, exit, err := cli.Parse([]string{"a.hcl", "models"}, &bytes.Buffer{}, defaults)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, defaults, opts.Config)
	assert.Equal(t, []string{"a.hcl", "models"}, opts.Paths)
	assert.False(t, opts.Check)
}

func TestParse_FlagsOverrideDefaults(t *testing.T) {
	args := []string{"-o", "short", "-overwrite=false", "-check", "-log-level", "DEBUG", "-log-format", "text", "m.yaml"}
	opts, exit, err := cli.Parse(args, &bytes.Buffer{}, config.Defaults())
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, config.Config{OutDir: "short", Overwrite: false, LogLevel: "debug", LogFormat: "text"}, opts.Config)
	assert.True(t, opts.Check)

	opts, _, err = cli.Parse([]string{"-out", "long", "m.yaml"}, &bytes.Buffer{}, config.Defaults())
	require.NoError(t, err)
	assert.Equal(t, "long", opts.OutDir)
}

func TestParse_HelpAndNoArguments(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {}} {
		out := &bytes.Buffer{}
		opts, exit, err := cli.Parse(args, out, config.Defaults())
		require.NoError(t, err)
		require.True(t, exit)
		require.Nil(t, opts)
		require.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string][]string{
		"unknown flag": {"--not-a-flag", "m.hcl"},
		"log level":    {"-log-level", "loud", "m.hcl"},
		"log format":   {"-log-format", "xml", "m.hcl"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, exit, err := cli.Parse(args, &bytes.Buffer{}, config.Defaults())
			require.False(t, exit)
			var exitErr *cli.ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestNewLogger(t *testing.T) {
	out := &bytes.Buffer{}
	logger := cli.NewLogger("warn", "json", out)
	logger.Info("hidden")
	logger.Warn("shown", "file", "a.m")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "a.m", rec["file"])

	out.Reset()
	cli.NewLogger("debug", "text", out).Debug("visible")
	assert.Contains(t, out.String(), "msg=visible")
}
