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

// Package folding implements text folding transformers used to normalize
// annotation fields and search terms.
package folding

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// class is how a span folder treats a rune.
type class int

const (
	// keep emits the rune.
	keep class = iota

	// separator starts or continues a separator span.
	separator

	// drop discards the rune without ending a separator span.
	drop
)

// spanFolder emits kept runes and replaces each internal span of separators
// with a single ASCII space. Leading and trailing separators are removed.
type spanFolder struct {
	classify func(rune) class

	// started is true after the first kept rune.
	started bool

	// pending is true while inside an internal separator span.
	pending bool
}

func (f *spanFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nDst, nSrc int
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		c, size := utf8.DecodeRune(src[nSrc:])

		switch f.classify(c) {
		case separator:
			if f.started {
				f.pending = true
			}
			nSrc += size
			continue
		case drop:
			nSrc += size
			continue
		case keep:
		}

		// NOTE: c may be utf8.RuneError, which encodes to three bytes even
		// when size is one.
		need := utf8.RuneLen(c)
		if f.pending {
			need++
		}
		if nDst+need > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		if f.pending {
			dst[nDst] = ' '
			nDst++
			f.pending = false
		}
		nDst += utf8.EncodeRune(dst[nDst:], c)
		f.started = true
		nSrc += size
	}

	return nDst, nSrc, nil
}

func (f *spanFolder) reset() {
	f.started = false
	f.pending = false
}

func classifyWhitespace(r rune) class {
	if unicode.IsSpace(r) {
		return separator
	}
	return keep
}

// WhitespaceFolder trims whitespace from both ends of the input and replaces
// every internal whitespace span, including tabs and newlines, with a single
// ASCII space.
type WhitespaceFolder struct {
	f spanFolder
}

// Transform implements [transform.Transformer.Transform].
func (w *WhitespaceFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	w.f.classify = classifyWhitespace
	return w.f.Transform(dst, src, atEOF)
}

// Reset implements [transform.Transformer.Reset].
func (w *WhitespaceFolder) Reset() {
	w.f.reset()
}

// Field normalizes a single annotation field with a [WhitespaceFolder].
func Field(s string) string {
	out, _, err := transform.String(&WhitespaceFolder{}, s)
	if err != nil {
		// The folder never fails on complete input.
		panic(err)
	}
	return out
}
