package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/rulefetch/cmd/rulefetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"run", "classify", "extract", "methods", "runs", "defaults"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range commands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_RunFlags(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{
		"run",
		"--out-dir", "out",
		"--force-refresh",
		"--retry-failed",
		"--delay", "500ms",
		"--headful",
		"--no-stealth",
		"--no-method-cache",
		"--workers", "2",
	})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cli.Run.OutDir))
	assert.True(t, cli.Run.ForceRefresh)
	assert.True(t, cli.Run.RetryFailed)
	assert.Equal(t, "500ms", cli.Run.Delay.String())
	assert.True(t, cli.Run.Headful)
	assert.True(t, cli.Run.NoStealth)
	assert.True(t, cli.Run.NoMethodCache)
	assert.Equal(t, 2, cli.Run.Workers)
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
		require.NoError(t, err)

		helpOutput := stdout.String()
		for _, cmd := range commands {
			assert.Contains(t, helpOutput, cmd)
		}
		assert.Contains(t, helpOutput, "Usage:")
		assert.Contains(t, helpOutput, "Flags:")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		assert.ErrorContains(t, err, "no command specified")
	})

	t.Run("classifies candidates without a database", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "missing", "dir", "test.db")

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"classify", "437c=Summary Judgment Motions"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "437c")
		assert.Contains(t, stdout.String(), "included")
		assert.Nil(t, m.DB)
	})

	t.Run("opens the database for run history", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"runs"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs recorded yet")
		assert.FileExists(t, m.DBPath)
	})

	t.Run("rejects a missing config file", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		err := m.Run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "defaults"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.ErrorContains(t, err, "config file not found")
	})

	t.Run("prints the effective configuration", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"defaults"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "toc_url:")
		assert.Contains(t, stdout.String(), "delay: 2s")
	})
}
