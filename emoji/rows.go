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
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ianlewis/go-imeassets/internal/folding"
)

// Row is the search metadata of a single emoji.
type Row struct {
	// Emoji is the emoji sequence.
	Emoji string

	// Name is the spoken name. It may be empty.
	Name string

	// Keywords are the search keywords in CLDR order. They are unique
	// ignoring case.
	Keywords []string
}

// NormalizeField trims s and collapses every run of whitespace to a single
// space.
func NormalizeField(s string) string {
	return folding.Field(s)
}

// BuildRows filters annotations to the emoji in allow and returns their rows
// sorted by emoji. Payloads that are not objects and rows with neither a name
// nor keywords are dropped.
func BuildRows(annotations Annotations, allow AllowSet) []Row {
	var rows []Row
	for emoji, payload := range annotations {
		if !allow.Contains(emoji) {
			continue
		}
		row, ok := BuildRow(emoji, payload)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b Row) int {
		return strings.Compare(a.Emoji, b.Emoji)
	})
	return rows
}

// BuildRow converts a single CLDR payload to a row. The name is the first
// "tts" entry and the keywords are the "default" entries. ok is false if the
// payload is not an object or the row would be empty.
func BuildRow(emoji string, payload json.RawMessage) (row Row, ok bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return Row{}, false
	}

	row.Emoji = emoji
	// The first entry is the name even when it is empty.
	if tts := fieldItems(fields["tts"]); len(tts) > 0 {
		name, _ := scalarText(tts[0])
		row.Name = NormalizeField(name)
	}

	fold := cases.Fold()
	seen := map[string]struct{}{}
	for _, item := range fieldItems(fields["default"]) {
		k, nonEmpty := scalarText(item)
		if !nonEmpty {
			continue
		}
		k = NormalizeField(k)
		if k == "" {
			continue
		}
		key := fold.String(k)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		row.Keywords = append(row.Keywords, k)
	}

	if row.Name == "" && len(row.Keywords) == 0 {
		return Row{}, false
	}
	return row, true
}

// fieldItems coerces a CLDR field to a list. A missing or empty field is an
// empty list and any other scalar is a list of one.
func fieldItems(raw json.RawMessage) []any {
	if len(raw) == 0 {
		return nil
	}

	var v any
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err := d.Decode(&v); err != nil {
		return nil
	}

	if items, isList := v.([]any); isList {
		return items
	}
	if _, ok := scalarText(v); !ok {
		return nil
	}
	return []any{v}
}

// scalarText returns the text of a CLDR list entry. ok is false for empty
// entries: null, "", zero, false, and empty containers.
func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case bool:
		if !t {
			return "", false
		}
		return "true", true
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return "", false
		}
		return t.String(), true
	case []any:
		if len(t) == 0 {
			return "", false
		}
	case map[string]any:
		if len(t) == 0 {
			return "", false
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}
