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
	"cmp"
	"errors"
	"io/fs"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ianlewis/go-imeassets/internal/folding"
	"github.com/ianlewis/go-imeassets/internal/index"
)

// DefaultSearchLimit is the maximum number of search results returned when no
// limit is given.
const DefaultSearchLimit = 200

// fallbackLocale is always the last locale searched.
const fallbackLocale = "en"

const (
	scoreExact   = 2000
	scoreVariant = 1900

	localeBonus = 25
)

// TermKind is the origin of a search term.
type TermKind int

const (
	// NameTerm is a spoken name.
	NameTerm TermKind = iota

	// KeywordTerm is a keyword.
	KeywordTerm
)

// scores for exact, prefix and substring matches.
var termScores = map[TermKind][3]int{
	NameTerm:    {1700, 1400, 1000},
	KeywordTerm: {1600, 1300, 900},
}

// NormalizeSearchText lowercases s, strips accents and keeps only letters and
// digits. Whitespace, hyphens and underscores become single spaces.
func NormalizeSearchText(s string) string {
	return folding.Search(s)
}

// LocaleChain returns the locales to search in order: each tag followed by
// its language, then English. Duplicates are removed.
func LocaleChain(tags []string) []string {
	var chain []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		chain = append(chain, tag)
		if lang, _, ok := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-"); ok && lang != "" {
			chain = append(chain, lang)
		}
	}
	chain = append(chain, fallbackLocale)
	return distinct(chain)
}

// LocaleCandidates returns the TSV file names, without extension, tried for
// tag: the lowercased tag with underscores, then its language.
func LocaleCandidates(tag string) []string {
	normalized := strings.ToLower(strings.ReplaceAll(tag, "-", "_"))
	lang, _, _ := strings.Cut(normalized, "_")

	var out []string
	if strings.TrimSpace(normalized) != "" {
		out = append(out, normalized)
	}
	if strings.TrimSpace(lang) != "" && lang != normalized {
		out = append(out, lang)
	}
	return out
}

func distinct(items []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Table is the metadata of a single locale.
type Table struct {
	Locale string

	// Preferred is set for the first locale of the chain.
	Preferred bool

	rows *index.Index[Row]
}

func rowEmoji(r Row) string {
	return r.Emoji
}

// NewTable indexes rows by emoji.
func NewTable(locale string, preferred bool, rows []Row) *Table {
	return &Table{
		Locale:    locale,
		Preferred: preferred,
		rows:      index.New(rows, rowEmoji, strings.Compare),
	}
}

// Lookup returns the row for emoji. The last row wins if an emoji appears
// more than once.
func (t *Table) Lookup(emoji string) (Row, bool) {
	rows := t.rows.Search(emoji)
	if len(rows) == 0 {
		return Row{}, false
	}
	return rows[len(rows)-1], true
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return t.rows.Len()
}

// LoadTables loads the TSV files in dir for each locale of chain. For every
// locale the first candidate file with rows is used. Locales without a file
// are skipped.
func LoadTables(dir string, chain []string) ([]*Table, error) {
	var tables []*Table
	for i, locale := range chain {
		for _, candidate := range LocaleCandidates(locale) {
			rows, err := ReadTSVFile(OutputPath(dir, candidate))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				continue
			}
			tables = append(tables, NewTable(candidate, i == 0, rows))
			break
		}
	}
	return tables, nil
}

type term struct {
	text      string
	kind      TermKind
	preferred bool
}

type indexedEmoji struct {
	entry         Emoji
	category      string
	categoryOrder int
	terms         []term
}

// Index ranks emoji for search queries.
type Index struct {
	items []indexedEmoji
}

// NewIndex builds a search index over categories using the metadata in
// tables. tables are consulted in order and the first term wins.
func NewIndex(categories []*Category, tables []*Table) *Index {
	idx := &Index{}
	for order, c := range categories {
		for _, e := range c.Emojis {
			var terms []term
			seen := map[string]struct{}{}
			add := func(text string, kind TermKind, preferred bool) {
				text = NormalizeSearchText(text)
				if text == "" {
					return
				}
				if _, ok := seen[text]; ok {
					return
				}
				seen[text] = struct{}{}
				terms = append(terms, term{text: text, kind: kind, preferred: preferred})
			}

			for _, s := range append([]string{e.Base}, e.Variants...) {
				for _, t := range tables {
					row, ok := t.Lookup(s)
					if !ok {
						continue
					}
					add(row.Name, NameTerm, t.Preferred)
					for _, k := range row.Keywords {
						add(k, KeywordTerm, t.Preferred)
					}
				}
			}

			// Emoji without metadata are still found by the emoji itself.
			if len(terms) == 0 {
				add(e.Base, KeywordTerm, false)
			}

			idx.items = append(idx.items, indexedEmoji{
				entry:         e,
				category:      c.ID,
				categoryOrder: order,
				terms:         terms,
			})
		}
	}
	return idx
}

// Len returns the number of indexed emoji.
func (idx *Index) Len() int {
	return len(idx.items)
}

// Result is a search match.
type Result struct {
	Emoji    Emoji
	Category string
	Score    int

	categoryOrder int
}

// Search returns up to limit emoji matching query, best match first. A limit
// of zero or less means DefaultSearchLimit. Unlike the app's picker, a query
// made only of emoji still matches that emoji or its variants.
func (idx *Index) Search(query string, limit int) []Result {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	raw := strings.TrimSpace(query)
	if raw == "" {
		return nil
	}
	// Queries made only of emoji normalize to nothing and match by emoji
	// alone.
	normalized := NormalizeSearchText(raw)
	allowContains := utf8.RuneCountInString(normalized) >= 2

	var results []Result
	for _, item := range idx.items {
		score := item.score(raw, normalized, allowContains)
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			Emoji:         item.entry,
			Category:      item.category,
			Score:         score,
			categoryOrder: item.categoryOrder,
		})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.categoryOrder, b.categoryOrder); c != 0 {
			return c
		}
		return strings.Compare(a.Emoji.Base, b.Emoji.Base)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (item *indexedEmoji) score(raw, normalized string, allowContains bool) int {
	if item.entry.Base == raw {
		return scoreExact
	}
	if slices.Contains(item.entry.Variants, raw) {
		return scoreVariant
	}

	if normalized == "" {
		return 0
	}

	best := 0
	for _, t := range item.terms {
		scores := termScores[t.kind]

		var s int
		switch {
		case t.text == normalized:
			s = scores[0]
		case strings.HasPrefix(t.text, normalized):
			s = scores[1]
		case allowContains && strings.Contains(t.text, normalized):
			s = scores[2]
		default:
			continue
		}
		if t.preferred {
			s += localeBonus
		}
		best = max(best, s)
	}

	if best == 0 {
		return 0
	}
	// Earlier categories rank first among equal matches.
	return best - item.categoryOrder
}
