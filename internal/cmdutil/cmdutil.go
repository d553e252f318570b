// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmdutil holds the command line plumbing shared by the commands.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"

	imeassets "github.com/ianlewis/go-imeassets"
	"github.com/ianlewis/go-imeassets/internal/logging"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFailure is the exit code for a failed run.
	ExitCodeFailure

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError
)

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = errors.New("parsing flags")

// ErrFailed indicates a run that completed with failures that were already
// reported.
var ErrFailed = errors.New("failed")

// RootEnv is the environment variable holding the project root.
const RootEnv = "IMEASSETS_ROOT"

var copyrightNames = []string{
	"2025 Ian Lewis",
}

// GlobalFlags returns the flags shared by all commands.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			Usage:   "project root `DIR` that relative paths are resolved against",
			Value:   ".",
			EnvVars: []string{RootEnv},
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "load project layout from YAML `FILE`",
			Aliases: []string{"c"},
		},
		&cli.BoolFlag{
			Name:               "verbose",
			Usage:              "print debug diagnostics",
			Aliases:            []string{"v"},
			DisableDefaultText: true,
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "also write diagnostics to `FILE`, rotated by size",
		},

		// Special flags are shown at the end.
		&cli.BoolFlag{
			Name:               "help",
			Usage:              "print this help text and exit",
			Aliases:            []string{"h"},
			DisableDefaultText: true,
		},
		&cli.BoolFlag{
			Name:               "version",
			Usage:              "print version information and exit",
			Aliases:            []string{"V"},
			DisableDefaultText: true,
		},
	}
}

// NewApp returns an app with the shared flags, error handling and metadata.
// Extra flags are listed before the shared ones.
func NewApp(name, usage string, flags ...cli.Flag) *cli.App {
	return &cli.App{
		Name:  name,
		Usage: usage,
		Description: strings.Join([]string{
			"Asset preparation tools for the keyboard.",
			"http://github.com/ianlewis/go-imeassets",
		}, "\n"),
		Flags:           append(flags, GlobalFlags()...),
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		OnUsageError:    OnUsageError,
		// Exit codes are chosen by the caller of Run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// OnUsageError marks flag errors so they map to ExitCodeFlagParseError.
func OnUsageError(_ *cli.Context, err error, _ bool) error {
	return fmt.Errorf("%w: %w", ErrFlagParse, err)
}

// ExitCode returns the process exit code for an error returned by an app.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case errors.Is(err, ErrFlagParse):
		return ExitCodeFlagParseError
	default:
		return ExitCodeFailure
	}
}

// Run runs app with args and returns the exit code. Errors not already
// reported are printed to the app's error writer.
func Run(app *cli.App, args []string) int {
	err := app.Run(args)
	if err != nil && !errors.Is(err, ErrFailed) {
		fmt.Fprintf(app.ErrWriter, "%s: %v\n", app.Name, err)
	}
	return ExitCode(err)
}

// Env is the configuration and logger of a command invocation.
type Env struct {
	Config *imeassets.Config
	Log    *logrus.Logger

	closeLog func() error
}

// Setup loads the project config and creates the logger. The caller must
// call Close.
func Setup(c *cli.Context) (*Env, error) {
	cfg, err := imeassets.Load(c.String("root"), c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logFile := cfg.Log.File
	if f := c.String("log-file"); f != "" {
		logFile = f
	}

	log, closeLog, err := logging.New(c.App.ErrWriter, logging.Options{
		Level:      cfg.Log.Level,
		Verbose:    c.Bool("verbose"),
		File:       logFile,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlagParse, err)
	}

	return &Env{
		Config:   cfg,
		Log:      log,
		closeLog: closeLog,
	}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// StringOr returns the value of flag if it was set and def otherwise.
func StringOr(c *cli.Context, flag, def string) string {
	if c.IsSet(flag) {
		return c.String(flag)
	}
	return def
}

// PrintVersion writes the version information to the app's writer.
func PrintVersion(c *cli.Context) error {
	versionInfo := version.GetVersionInfo()
	_, err := fmt.Fprintf(c.App.Writer, "%s %s\n%s\n\n%s",
		c.App.Name,
		versionInfo.GitVersion,
		"Copyright (c) "+strings.Join(copyrightNames, ", "),
		versionInfo.String(),
	)
	if err != nil {
		return fmt.Errorf("printing version: %w", err)
	}
	return nil
}

// Fprintf writes to w and panics on error.
func Fprintf(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		panic(err)
	}
}
