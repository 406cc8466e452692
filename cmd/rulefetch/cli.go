package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Config  rulefetch.Config
	DB      *sqlite.DB
	Methods rulefetch.MethodStatsService
	Runs    rulefetch.RunService

	// Browser, if set, is used instead of launching Chrome.
	Browser rulefetch.Browser
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Config  string `type:"path" env:"RULEFETCH_CONFIG" help:"YAML file overriding the built-in configuration"`

	Run      RunCmd      `cmd:"" help:"Retrieve new filing-relevant sections and update the manifest"`
	Classify ClassifyCmd `cmd:"" help:"Classify candidate sections offline"`
	Extract  ExtractCmd  `cmd:"" help:"Extract a structured record from a downloaded artifact"`
	Methods  MethodsCmd  `cmd:"" help:"Show learned download method statistics"`
	Runs     RunsCmd     `cmd:"" help:"Show run history"`
	Defaults DefaultsCmd `cmd:"" help:"Print the effective configuration as YAML"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	OutDir        string        `short:"o" type:"path" default:"data" help:"Output directory"`
	DownloadDir   string        `type:"path" help:"Artifact directory (default: <out-dir>/downloads)"`
	Manifest      string        `type:"path" help:"Manifest file (default: <out-dir>/manifest.json)"`
	ForceRefresh  bool          `help:"Ignore the prior manifest and downloaded artifacts"`
	RetryFailed   bool          `help:"Reprocess sections whose prior record is an error"`
	Delay         time.Duration `help:"Minimum delay between section requests (0 uses the configured delay)"`
	Headful       bool          `help:"Show the browser window"`
	NoStealth     bool          `help:"Disable stealth page evasions"`
	NoMethodCache bool          `help:"Do not reorder strategies by learned method statistics"`
	Workers       int           `short:"w" default:"4" help:"Concurrent extraction limit"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	Candidates []string `arg:"" optional:"" help:"Candidates as ruleNumber=title"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Path  string `arg:"" type:"existingfile" help:"Artifact path (.pdf or .json)"`
	Rule  string `short:"r" required:"" help:"Rule number"`
	Title string `short:"t" help:"Section title"`
}

// MethodsCmd is the "methods" subcommand.
type MethodsCmd struct {
	Rule string `short:"r" help:"Only show this rule number"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"10" help:"Number of runs to show"`
}

// DefaultsCmd is the "defaults" subcommand.
type DefaultsCmd struct{}
