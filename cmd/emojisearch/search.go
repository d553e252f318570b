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

	"github.com/ianlewis/go-imeassets/emoji"
	"github.com/ianlewis/go-imeassets/internal/cmdutil"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "search generated tables the way the emoji picker does",
	ArgsUsage: "QUERY",
	Flags: []cli.Flag{
		localeFlag("prefer `LOCALE`; may be repeated or comma separated (default: from config)"),
		&cli.IntFlag{
			Name:    "limit",
			Usage:   "print at most `N` results",
			Aliases: []string{"n"},
			Value:   emoji.DefaultSearchLimit,
		},
	},
	OnUsageError: cmdutil.OnUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("%w: no query given", cmdutil.ErrFlagParse)
		}
		query := strings.Join(c.Args().Slice(), " ")

		env, err := cmdutil.Setup(c)
		if err != nil {
			return err
		}
		defer env.Close()

		cfg := env.Config.Emoji
		locales := splitLocales(c.StringSlice("locale"))
		if len(locales) == 0 {
			locales = cfg.Locales
		}

		categories, err := emoji.LoadCategories(cmdutil.StringOr(c, "emoji-dir", cfg.AssetDir), cfg.Exclude)
		if err != nil {
			return err
		}
		chain := emoji.LocaleChain(locales)
		tables, err := emoji.LoadTables(cmdutil.StringOr(c, "out-dir", cfg.OutDir), chain)
		if err != nil {
			return err
		}
		env.Log.WithField("chain", strings.Join(chain, ",")).
			WithField("tables", len(tables)).
			Debug("loaded search tables")

		results := emoji.NewIndex(categories, tables).Search(query, c.Int("limit"))
		if len(results) == 0 {
			cmdutil.Fprintf(c.App.ErrWriter, "No emoji found for %q\n", query)
			return cmdutil.ErrFailed
		}

		tbl := table.New("Emoji", "Category", "Score").WithWriter(c.App.Writer)
		for _, r := range results {
			tbl.AddRow(r.Emoji.Base, r.Category, r.Score)
		}
		tbl.Print()
		return nil
	},
}
