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

package emoji

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
)

// ErrInvalidLocale indicates a locale that cannot be used as a file name.
var ErrInvalidLocale = fmt.Errorf("%w: invalid locale", ErrEmoji)

// DefaultLocales are generated when no locales are given.
var DefaultLocales = []string{"en", "de"}

var localeRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// LocaleResult is the outcome of generating a single locale.
type LocaleResult struct {
	Locale string
	Path   string

	// Rows is the number of rows written.
	Rows int

	// Err is set if the locale failed. No file was written.
	Err error
}

// Report holds the results of a generation run in locale order.
type Report struct {
	Results []*LocaleResult
}

// Failed returns the locales that failed.
func (r *Report) Failed() []string {
	var locales []string
	for _, res := range r.Results {
		if res.Err != nil {
			locales = append(locales, res.Locale)
		}
	}
	return locales
}

// OK reports whether every locale was written.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// Generator writes the emoji search TSV files.
type Generator struct {
	// Fetcher retrieves annotations. Defaults to an [HTTPFetcher] using
	// DefaultURLTemplate.
	Fetcher Fetcher

	// Allow is the set of emoji to keep.
	Allow AllowSet

	// OutDir is the directory the TSV files are written to.
	OutDir string

	// FailFast stops the run at the first failed locale.
	FailFast bool

	// Logger receives debug output. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger

	// OnLocale, if set, is called after each locale is processed.
	OnLocale func(*LocaleResult)
}

func (g *Generator) fetcher() Fetcher {
	if g.Fetcher == nil {
		return &HTTPFetcher{}
	}
	return g.Fetcher
}

func (g *Generator) logger() logrus.FieldLogger {
	if g.Logger == nil {
		return logrus.StandardLogger()
	}
	return g.Logger
}

// Run generates each locale in order. A failed locale is recorded in the
// report and the run moves on to the next one unless FailFast is set, in
// which case the failure is also returned as the error. Files written for
// earlier locales are kept.
func (g *Generator) Run(ctx context.Context, locales []string) (*Report, error) {
	r := &Report{}
	for _, locale := range locales {
		if err := ctx.Err(); err != nil {
			return r, fmt.Errorf("%w: %w", ErrFetch, err)
		}

		res := g.Generate(ctx, locale)
		r.Results = append(r.Results, res)
		if g.OnLocale != nil {
			g.OnLocale(res)
		}
		if res.Err != nil && g.FailFast {
			return r, res.Err
		}
	}
	return r, nil
}

// Generate fetches, filters and writes a single locale.
func (g *Generator) Generate(ctx context.Context, locale string) *LocaleResult {
	res := &LocaleResult{
		Locale: locale,
	}
	log := g.logger().WithField("locale", locale)

	if !localeRE.MatchString(locale) {
		res.Err = fmt.Errorf("%w: %q", ErrInvalidLocale, locale)
		return res
	}
	res.Path = OutputPath(g.OutDir, locale)

	annotations, err := g.fetcher().Fetch(ctx, locale)
	if err != nil {
		log.WithError(err).Debug("fetch failed")
		res.Err = err
		return res
	}
	log.WithField("annotations", len(annotations)).Debug("fetched")

	rows := BuildRows(annotations, g.Allow)
	if err := WriteTSV(res.Path, rows); err != nil {
		res.Err = err
		return res
	}
	res.Rows = len(rows)
	log.WithField("rows", res.Rows).Debug("written")

	return res
}
