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

package folding

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func classifySearch(r rune) class {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r):
		return keep
	case unicode.IsSpace(r), r == '-', r == '_':
		return separator
	default:
		return drop
	}
}

// SearchFolder keeps letters and digits, turns spans of whitespace, hyphens
// and underscores into a single space, and drops everything else.
type SearchFolder struct {
	f spanFolder
}

// Transform implements [transform.Transformer.Transform].
func (s *SearchFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	s.f.classify = classifySearch
	return s.f.Transform(dst, src, atEOF)
}

// Reset implements [transform.Transformer.Reset].
func (s *SearchFolder) Reset() {
	s.f.reset()
}

// NewSearch returns a transformer that lowercases its input, strips
// combining marks after canonical decomposition and applies a
// [SearchFolder]. "Café-au_lait!" becomes "cafe au lait".
func NewSearch() transform.Transformer {
	return transform.Chain(
		cases.Lower(language.Und),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		&SearchFolder{},
	)
}

// Search normalizes a search query or term with [NewSearch].
func Search(s string) string {
	out, _, err := transform.String(NewSearch(), s)
	if err != nil {
		// Invalid input is replaced rather than rejected by every stage.
		return ""
	}
	return out
}
