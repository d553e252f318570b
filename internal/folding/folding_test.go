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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/transform"
)

func TestField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "only whitespace", input: " \t\n ", expected: ""},
		{name: "trim", input: "  grinning face  ", expected: "grinning face"},
		{name: "tabs and newlines", input: "face\twith\ntears", expected: "face with tears"},
		{name: "collapse", input: "a   \t\t b", expected: "a b"},
		{name: "unicode space", input: "chat noir　!", expected: "chat noir !"},
		{name: "non ascii", input: " gesicht mit freudentränen ", expected: "gesicht mit freudentränen"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(test.expected, Field(test.input)); diff != "" {
				t.Errorf("Field(%q) (-want, +got):\n%s", test.input, diff)
			}
		})
	}
}

// TestWhitespaceFolder_Streaming feeds the folder one byte at a time so runes
// and whitespace spans are split across calls.
func TestWhitespaceFolder_Streaming(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("ab  ", 200) + "ü"
	expected := strings.TrimSpace(strings.Repeat("ab ", 200)) + " ü"

	var b strings.Builder
	w := transform.NewWriter(&b, &WhitespaceFolder{})
	for i := 0; i < len(input); i++ {
		if _, err := w.Write([]byte{input[i]}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if diff := cmp.Diff(expected, b.String()); diff != "" {
		t.Errorf("output (-want, +got):\n%s", diff)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase", input: "Grinning Face", expected: "grinning face"},
		{name: "strip accents", input: "Café", expected: "cafe"},
		{name: "separators", input: "thumbs-up__sign", expected: "thumbs up sign"},
		{name: "punctuation dropped", input: "face: tears!", expected: "face tears"},
		{name: "punctuation between spaces", input: "a ! b", expected: "a b"},
		{name: "trailing separator", input: "smile -", expected: "smile"},
		{name: "emoji only", input: "😀", expected: ""},
		{name: "umlaut", input: "Lächeln", expected: "lacheln"},
		{name: "digits", input: "Keycap 1", expected: "keycap 1"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(test.expected, Search(test.input)); diff != "" {
				t.Errorf("Search(%q) (-want, +got):\n%s", test.input, diff)
			}
		})
	}
}
