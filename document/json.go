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

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// JSONCodec is the legacy text encoding.
type JSONCodec struct{}

// JSON is the legacy text encoding.
var JSON = JSONCodec{}

// Name implements [Codec.Name].
func (JSONCodec) Name() string {
	return "json"
}

// Parse implements [Codec.Parse]. Object members keep their order. When a key
// is repeated the member stays at the position of the first occurrence and
// takes the last value.
func (JSONCodec) Parse(data []byte) (*Value, error) {
	if err := checkJSONText(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSON(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	// Only whitespace may follow the top-level value.
	tok, err := dec.Token()
	switch {
	case errors.Is(err, io.EOF):
		return v, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	default:
		return nil, fmt.Errorf("%w: unexpected %v after top-level value at offset %d",
			ErrParse, tok, dec.InputOffset())
	}
}

// checkJSONText rejects input that is not valid UTF-8 or that escapes an
// unpaired surrogate. The decoder would otherwise replace both with U+FFFD.
func checkJSONText(data []byte) error {
	if !utf8.Valid(data) {
		return errors.New("invalid UTF-8")
	}

	// A backslash only occurs inside strings. Malformed escapes are left to
	// the decoder.
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			continue
		}
		if data[i+1] != 'u' {
			i++
			continue
		}
		r, ok := jsonEscape(data[i:])
		if !ok {
			i++
			continue
		}
		if !utf16.IsSurrogate(r) {
			i += 5
			continue
		}
		if r < 0xdc00 {
			if low, ok := jsonEscape(data[i+6:]); ok && low >= 0xdc00 && low <= 0xdfff {
				i += 11
				continue
			}
		}
		return fmt.Errorf("unpaired surrogate %q at offset %d", data[i:i+6], i)
	}
	return nil
}

// jsonEscape decodes the \uXXXX escape at the start of b.
func jsonEscape(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	n, err := strconv.ParseUint(string(b[2:6]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

// readJSON reads the value at the decoder's position. depth is the number of
// enclosing containers.
func readJSON(dec *json.Decoder, depth int) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		//nolint:wrapcheck // wrapped by Parse.
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		v, err := parseJSONNumber(t.String())
		if err != nil {
			return nil, err
		}
		// Bignums are tagged and take a nesting level in the binary form.
		if v.big != nil && depth >= maxDepth {
			return nil, fmt.Errorf("nesting deeper than %d at offset %d", maxDepth, dec.InputOffset())
		}
		return v, nil
	case json.Delim:
		if depth >= maxDepth {
			return nil, fmt.Errorf("nesting deeper than %d at offset %d", maxDepth, dec.InputOffset())
		}
		switch t {
		case '{':
			return readJSONObject(dec, depth+1)
		case '[':
			return readJSONArray(dec, depth+1)
		}
	}

	return nil, fmt.Errorf("unexpected token %v at offset %d", tok, dec.InputOffset())
}

func readJSONObject(dec *json.Decoder, depth int) (*Value, error) {
	var members []Member
	pos := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			//nolint:wrapcheck // wrapped by Parse.
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v at offset %d", tok, dec.InputOffset())
		}

		val, err := readJSON(dec, depth)
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", key, err)
		}

		if i, ok := pos[key]; ok {
			members[i].Value = val
			continue
		}
		pos[key] = len(members)
		members = append(members, Member{Key: key, Value: val})
	}

	if err := closeJSON(dec, '}'); err != nil {
		return nil, err
	}
	return Mapping(members...), nil
}

func readJSONArray(dec *json.Decoder, depth int) (*Value, error) {
	var items []*Value
	for dec.More() {
		val, err := readJSON(dec, depth)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", len(items), err)
		}
		items = append(items, val)
	}

	if err := closeJSON(dec, ']'); err != nil {
		return nil, err
	}
	return Sequence(items...), nil
}

func closeJSON(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		//nolint:wrapcheck // wrapped by Parse.
		return err
	}
	if tok != want {
		return fmt.Errorf("expected %v, got %v at offset %d", want, tok, dec.InputOffset())
	}
	return nil
}

// parseJSONNumber returns an integer for literals without a fraction or
// exponent and a float otherwise. Floats that overflow become infinities.
func parseJSONNumber(lit string) (*Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(i), nil
		}
		if b, ok := new(big.Int).SetString(lit, 10); ok {
			return BigInt(b), nil
		}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("invalid number %q: %w", lit, err)
	}
	return Float(f), nil
}

// Serialize implements [Codec.Serialize]. The output is compact. Floats
// always carry a fraction or exponent so they read back as floats.
func (JSONCodec) Serialize(v *Value) ([]byte, error) {
	b, err := appendJSON(nil, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return b, nil
}

func appendJSON(b []byte, v *Value) ([]byte, error) {
	switch v.Kind() {
	case NullKind:
		return append(b, "null"...), nil
	case BoolKind:
		return strconv.AppendBool(b, v.b), nil
	case IntKind:
		if v.big != nil {
			return v.big.Append(b, 10), nil
		}
		return strconv.AppendInt(b, v.i, 10), nil
	case FloatKind:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return nil, fmt.Errorf("non-finite float %v", v.f)
		}
		start := len(b)
		b = strconv.AppendFloat(b, v.f, 'g', -1, 64)
		if !bytes.ContainsAny(b[start:], ".e") {
			b = append(b, ".0"...)
		}
		return b, nil
	case StringKind:
		s, err := json.Marshal(v.s)
		if err != nil {
			//nolint:wrapcheck // wrapped by Serialize.
			return nil, err
		}
		return append(b, s...), nil
	case SequenceKind:
		b = append(b, '[')
		for i, item := range v.seq {
			if i > 0 {
				b = append(b, ',')
			}
			var err error
			b, err = appendJSON(b, item)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		return append(b, ']'), nil
	case MappingKind:
		b = append(b, '{')
		for i, m := range v.m {
			if i > 0 {
				b = append(b, ',')
			}
			k, err := json.Marshal(m.Key)
			if err != nil {
				//nolint:wrapcheck // wrapped by Serialize.
				return nil, err
			}
			b = append(b, k...)
			b = append(b, ':')
			b, err = appendJSON(b, m.Value)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", m.Key, err)
			}
		}
		return append(b, '}'), nil
	}
	return nil, fmt.Errorf("unknown kind %v", v.Kind())
}
