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
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-imeassets/emoji"
	"github.com/ianlewis/go-imeassets/internal/cmdutil"
)

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// splitLocales splits flag values on commas and whitespace.
func splitLocales(values []string) []string {
	var locales []string
	for _, v := range values {
		locales = append(locales, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return locales
}

func localeFlag(usage string) *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:    "locale",
		Usage:   usage,
		Aliases: []string{"l", "locales"},
	}
}

func newEmojisearchApp() *cli.App {
	app := cmdutil.NewApp("emojisearch", "Generate emoji search tables from CLDR annotations.",
		localeFlag("generate `LOCALE`; may be repeated or comma separated (default: from config)"),
		&cli.StringFlag{
			Name:  "emoji-dir",
			Usage: "read emoji lists from `DIR`",
		},
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "write search tables to `DIR`",
		},
		&cli.StringFlag{
			Name:  "url-template",
			Usage: "fetch annotations from `URL` with {locale} replaced",
		},
		&cli.BoolFlag{
			Name:               "fail-fast",
			Usage:              "stop at the first locale that fails",
			DisableDefaultText: true,
		},
	)
	app.Action = generateAction
	app.Commands = []*cli.Command{
		searchCommand,
	}
	return app
}

func generateAction(c *cli.Context) error {
	if c.Bool("help") {
		check(cli.ShowAppHelp(c))
		return nil
	}
	if c.Bool("version") {
		return cmdutil.PrintVersion(c)
	}
	// Arguments after --locale continue its list, as in "--locales en de".
	if c.NArg() > 0 && !c.IsSet("locale") {
		return fmt.Errorf("%w: unexpected arguments: %s", cmdutil.ErrFlagParse, strings.Join(c.Args().Slice(), " "))
	}

	env, err := cmdutil.Setup(c)
	if err != nil {
		return err
	}
	defer env.Close()

	cfg := env.Config.Emoji
	locales := splitLocales(append(c.StringSlice("locale"), c.Args().Slice()...))
	if len(locales) == 0 {
		locales = cfg.Locales
	}

	emojiDir := cmdutil.StringOr(c, "emoji-dir", cfg.AssetDir)
	allow, err := emoji.LoadAllowSet(emojiDir, cfg.Exclude)
	if errors.Is(err, emoji.ErrEmptyAllowSet) {
		env.Log.WithField("dir", emojiDir).Debug("empty allow-set")
		cmdutil.Fprintf(c.App.ErrWriter, "No project emoji assets found\n")
		return fmt.Errorf("%w: %w", cmdutil.ErrFailed, err)
	}
	if err != nil {
		return err
	}
	env.Log.WithField("emoji", allow.Len()).Debug("loaded allow-set")

	gen := &emoji.Generator{
		Fetcher: &emoji.HTTPFetcher{
			URLTemplate: cmdutil.StringOr(c, "url-template", cfg.URLTemplate),
		},
		Allow:    allow,
		OutDir:   cmdutil.StringOr(c, "out-dir", cfg.OutDir),
		FailFast: c.Bool("fail-fast"),
		Logger:   env.Log,
		OnLocale: func(r *emoji.LocaleResult) {
			if r.Err != nil {
				cmdutil.Fprintf(c.App.ErrWriter, "Failed %s: %v\n", r.Locale, r.Err)
				return
			}
			cmdutil.Fprintf(c.App.Writer, "Wrote %s (%d rows)\n", r.Path, r.Rows)
		},
	}

	report, err := gen.Run(c.Context, locales)
	if err != nil {
		return fmt.Errorf("%w: %w", cmdutil.ErrFailed, err)
	}
	if !report.OK() {
		cmdutil.Fprintf(c.App.ErrWriter, "Failed: %s\n", strings.Join(report.Failed(), ", "))
		return cmdutil.ErrFailed
	}
	return nil
}
