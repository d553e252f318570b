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
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	// ErrParse indicates that a document could not be read.
	ErrParse = errors.New("parse error")

	// ErrSerialize indicates that a document could not be written.
	ErrSerialize = errors.New("serialization error")

	// ErrUnsupported indicates an encoded item that has no document
	// representation.
	ErrUnsupported = fmt.Errorf("%w: unsupported item", ErrParse)
)

// Kind is the kind of a document value.
type Kind uint8

const (
	// NullKind is the null value.
	NullKind Kind = iota

	// BoolKind is a boolean.
	BoolKind

	// IntKind is an integer.
	IntKind

	// FloatKind is a 64-bit floating point number.
	FloatKind

	// StringKind is a UTF-8 string.
	StringKind

	// SequenceKind is an ordered list of values.
	SequenceKind

	// MappingKind is an ordered list of string keyed members.
	MappingKind
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case SequenceKind:
		return "sequence"
	case MappingKind:
		return "mapping"
	default:
		return "unknown"
	}
}

// Member is a key and value pair of a mapping.
type Member struct {
	Key   string
	Value *Value
}

// Value is a document value. The zero value and the nil pointer are both
// null.
type Value struct {
	kind Kind

	b bool
	// i holds integers that fit in an int64. big holds the rest.
	i   int64
	big *big.Int
	f   float64
	s   string

	seq []*Value
	m   []Member
}

// Null returns a null value.
func Null() *Value {
	return &Value{kind: NullKind}
}

// Bool returns a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: BoolKind, b: b}
}

// Int returns an integer value.
func Int(i int64) *Value {
	return &Value{kind: IntKind, i: i}
}

// BigInt returns an integer value of arbitrary size. The argument is copied.
func BigInt(i *big.Int) *Value {
	if i.IsInt64() {
		return Int(i.Int64())
	}
	return &Value{kind: IntKind, big: new(big.Int).Set(i)}
}

// Float returns a floating point value.
func Float(f float64) *Value {
	return &Value{kind: FloatKind, f: f}
}

// String returns a string value.
func String(s string) *Value {
	return &Value{kind: StringKind, s: s}
}

// Sequence returns a sequence of values.
func Sequence(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: SequenceKind, seq: items}
}

// Mapping returns a mapping holding members in the given order. Keys are not
// checked for uniqueness.
func Mapping(members ...Member) *Value {
	if members == nil {
		members = []Member{}
	}
	return &Value{kind: MappingKind, m: members}
}

// Kind returns the kind of the value.
func (v *Value) Kind() Kind {
	if v == nil {
		return NullKind
	}
	return v.kind
}

// IsNull reports whether v is null.
func (v *Value) IsNull() bool {
	return v.Kind() == NullKind
}

// AsBool returns the boolean held by v.
func (v *Value) AsBool() (bool, bool) {
	if v.Kind() != BoolKind {
		return false, false
	}
	return v.b, true
}

// AsBigInt returns a copy of the integer held by v.
func (v *Value) AsBigInt() (*big.Int, bool) {
	if v.Kind() != IntKind {
		return nil, false
	}
	if v.big != nil {
		return new(big.Int).Set(v.big), true
	}
	return big.NewInt(v.i), true
}

// AsFloat returns the floating point number held by v.
func (v *Value) AsFloat() (float64, bool) {
	if v.Kind() != FloatKind {
		return 0, false
	}
	return v.f, true
}

// AsString returns the string held by v.
func (v *Value) AsString() (string, bool) {
	if v.Kind() != StringKind {
		return "", false
	}
	return v.s, true
}

// Members returns the members of a mapping in order. The returned slice must
// not be modified.
func (v *Value) Members() []Member {
	if v.Kind() != MappingKind {
		return nil
	}
	return v.m
}

// Len returns the number of items in a sequence or members in a mapping and
// zero for all other kinds.
func (v *Value) Len() int {
	switch v.Kind() {
	case SequenceKind:
		return len(v.seq)
	case MappingKind:
		return len(v.m)
	default:
		return 0
	}
}

// Get returns the value of the member with the given key.
func (v *Value) Get(key string) (*Value, bool) {
	for _, m := range v.Members() {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Equal reports whether v and o hold the same document. Mapping members must
// appear in the same order. Floats are compared by their bit patterns.
func (v *Value) Equal(o *Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}

	switch v.Kind() {
	case NullKind:
		return true
	case BoolKind:
		return v.b == o.b
	case IntKind:
		if v.big == nil && o.big == nil {
			return v.i == o.i
		}
		a, _ := v.AsBigInt()
		b, _ := o.AsBigInt()
		return a.Cmp(b) == 0
	case FloatKind:
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case StringKind:
		return v.s == o.s
	case SequenceKind:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case MappingKind:
		if len(v.m) != len(o.m) {
			return false
		}
		for i := range v.m {
			if v.m[i].Key != o.m[i].Key || !v.m[i].Value.Equal(o.m[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Codec reads and writes documents in a single encoding.
type Codec interface {
	// Name returns a short human readable name of the encoding.
	Name() string

	// Parse reads a complete document. Errors wrap ErrParse.
	Parse(data []byte) (*Value, error)

	// Serialize writes a complete document. Errors wrap ErrSerialize.
	Serialize(v *Value) ([]byte, error)
}

// Detect returns the codec a file is encoded with given its first byte. Files
// that start with an opening brace use the legacy text encoding. Everything
// else, including empty files, is assumed to be in the binary container.
func Detect(first []byte) Codec {
	if len(first) > 0 && first[0] == '{' {
		return JSON
	}
	return CBOR
}
