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

package main

import (
	"fmt"
	"strings"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-imeassets/internal/cmdutil"
	"github.com/ianlewis/go-imeassets/reencode"
)

const megabyte = 1024 * 1024

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

func newDictconvApp() *cli.App {
	app := cmdutil.NewApp("dictconv", "Convert dictionaries from JSON to CBOR.",
		&cli.StringFlag{
			Name:    "dir",
			Usage:   "convert dictionaries in `DIR` instead of the project's",
			Aliases: []string{"d"},
		},
		&cli.StringFlag{
			Name:  "pattern",
			Usage: "convert files matching `GLOB`",
		},
	)
	app.Action = convertAction
	app.Commands = []*cli.Command{
		inspectCommand,
		dumpCommand,
	}
	return app
}

func convertAction(c *cli.Context) error {
	if c.Bool("help") {
		check(cli.ShowAppHelp(c))
		return nil
	}
	if c.Bool("version") {
		return cmdutil.PrintVersion(c)
	}
	if c.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %s", cmdutil.ErrFlagParse, strings.Join(c.Args().Slice(), " "))
	}

	env, err := cmdutil.Setup(c)
	if err != nil {
		return err
	}
	defer env.Close()

	dir := cmdutil.StringOr(c, "dir", env.Config.Dictionaries.Dir)
	pattern := cmdutil.StringOr(c, "pattern", env.Config.Dictionaries.Pattern)

	w := c.App.Writer
	paths, err := reencode.Discover(dir, pattern)
	if err != nil {
		cmdutil.Fprintf(w, "ERROR: %v\n", err)
		return fmt.Errorf("%w: %w", cmdutil.ErrFailed, err)
	}
	cmdutil.Fprintf(w, "Found %d dictionary files to convert...\n\n", len(paths))

	conv := &reencode.Converter{
		Logger: env.Log,
		OnResult: func(r *reencode.Result) {
			printResult(c, r)
		},
	}
	summary := conv.ConvertAll(paths)

	cmdutil.Fprintf(w, "%s\n", strings.Repeat("=", 60))
	cmdutil.Fprintf(w, "Converted: %d/%d dictionaries\n", summary.Succeeded(), len(summary.Results))
	if failed := summary.FailedLanguages(); len(failed) > 0 {
		cmdutil.Fprintf(w, "Failed: %s\n", strings.Join(failed, ", "))
	} else {
		cmdutil.Fprintf(w, "All dictionaries converted successfully!\n")
	}

	cmdutil.Fprintf(w, "\n")
	printSizes(c, summary)

	if !summary.OK() {
		return cmdutil.ErrFailed
	}
	return nil
}

func printResult(c *cli.Context, r *reencode.Result) {
	w := c.App.Writer
	switch r.Status {
	case reencode.StatusSkipped:
		cmdutil.Fprintf(w, "Skipping %s: already in CBOR format\n", r.Language)
	case reencode.StatusConverted:
		cmdutil.Fprintf(w, "Converting %s...\n", r.Language)
		cmdutil.Fprintf(w, "  ✓ JSON: %.2f MB → CBOR: %.2f MB (%.1f%% smaller)\n\n",
			float64(r.OriginalSize)/megabyte,
			float64(r.NewSize)/megabyte,
			r.Reduction(),
		)
	case reencode.StatusFailed:
		cmdutil.Fprintf(w, "Converting %s...\n", r.Language)
		cmdutil.Fprintf(w, "  ✗ %v\n\n", r.Err)
	}
}

func printSizes(c *cli.Context, s *reencode.Summary) {
	tbl := table.New("Language", "Status", "Before", "After", "Reduction").WithWriter(c.App.Writer)
	for _, r := range s.Results {
		after, reduction := "-", "-"
		if r.Status == reencode.StatusConverted {
			after = fmt.Sprintf("%d", r.NewSize)
			reduction = fmt.Sprintf("%.1f%%", r.Reduction())
		}
		tbl.AddRow(r.Language, r.Status, r.OriginalSize, after, reduction)
	}
	tbl.Print()
}
