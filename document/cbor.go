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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// CBOR major types.
const (
	majorUnsigned byte = iota
	majorNegative
	majorBytes
	majorText
	majorArray
	majorMap
	majorTag
	majorSimple
)

const (
	// additional information values.
	aiOneByte    = 24
	aiTwoBytes   = 25
	aiFourBytes  = 26
	aiEightBytes = 27
	aiIndefinite = 31

	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23

	tagPositiveBignum = 2
	tagNegativeBignum = 3

	breakCode = 0xff

	// maxDepth bounds the nesting of containers and bignum tags in both
	// encodings.
	maxDepth = 1000
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

//nolint:gochecknoinits // modes are immutable once built.
func init() {
	var err error
	// Floats keep their full 64-bit width and integers use the shortest
	// head. Big integers that fit in 64 bits are written as plain integers.
	encMode, err = cbor.EncOptions{
		ShortestFloat: cbor.ShortestFloatNone,
		BigIntConvert: cbor.BigIntConvertShortest,
	}.EncMode()
	if err != nil {
		panic(err)
	}

	// Dictionaries routinely hold more than the default limit of map pairs.
	decMode, err = cbor.DecOptions{
		UTF8:             cbor.UTF8RejectInvalid,
		MaxNestedLevels:  maxDepth,
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// CBORCodec is the compact binary container.
type CBORCodec struct{}

// CBOR is the compact binary container.
var CBOR = CBORCodec{}

// Name implements [Codec.Name].
func (CBORCodec) Name() string {
	return "cbor"
}

// Serialize implements [Codec.Serialize]. Arrays and maps are written with
// definite lengths and mapping members in document order.
func (CBORCodec) Serialize(v *Value) ([]byte, error) {
	e := cborEncoder{}
	e.enc = encMode.NewEncoder(&e.buf)
	if err := e.encode(v, 0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return e.buf.Bytes(), nil
}

type cborEncoder struct {
	buf bytes.Buffer
	enc *cbor.Encoder
}

func (e *cborEncoder) head(major byte, n uint64) {
	m := major << 5
	switch {
	case n < aiOneByte:
		e.buf.WriteByte(m | byte(n))
	case n <= math.MaxUint8:
		e.buf.Write([]byte{m | aiOneByte, byte(n)})
	case n <= math.MaxUint16:
		e.buf.Write(binary.BigEndian.AppendUint16([]byte{m | aiTwoBytes}, uint16(n)))
	case n <= math.MaxUint32:
		e.buf.Write(binary.BigEndian.AppendUint32([]byte{m | aiFourBytes}, uint32(n)))
	default:
		e.buf.Write(binary.BigEndian.AppendUint64([]byte{m | aiEightBytes}, n))
	}
}

// encode writes v. depth is the number of enclosing containers and is bounded
// the same way as on decoding.
func (e *cborEncoder) encode(v *Value, depth int) error {
	nests := v.Kind() == SequenceKind || v.Kind() == MappingKind || v.Kind() == IntKind && v.big != nil
	if nests && depth >= maxDepth {
		return fmt.Errorf("nesting deeper than %d", maxDepth)
	}

	switch v.Kind() {
	case NullKind:
		e.buf.WriteByte(majorSimple<<5 | simpleNull)
	case BoolKind:
		if v.b {
			e.buf.WriteByte(majorSimple<<5 | simpleTrue)
		} else {
			e.buf.WriteByte(majorSimple<<5 | simpleFalse)
		}
	case IntKind:
		if v.big != nil {
			//nolint:wrapcheck // wrapped by Serialize.
			return e.enc.Encode(v.big)
		}
		//nolint:wrapcheck // wrapped by Serialize.
		return e.enc.Encode(v.i)
	case FloatKind:
		//nolint:wrapcheck // wrapped by Serialize.
		return e.enc.Encode(v.f)
	case StringKind:
		//nolint:wrapcheck // wrapped by Serialize.
		return e.enc.Encode(v.s)
	case SequenceKind:
		e.head(majorArray, uint64(len(v.seq)))
		for i, item := range v.seq {
			if err := e.encode(item, depth+1); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
	case MappingKind:
		e.head(majorMap, uint64(len(v.m)))
		for _, m := range v.m {
			if err := e.enc.Encode(m.Key); err != nil {
				return fmt.Errorf("object[%q]: %w", m.Key, err)
			}
			if err := e.encode(m.Value, depth+1); err != nil {
				return fmt.Errorf("object[%q]: %w", m.Key, err)
			}
		}
	default:
		return fmt.Errorf("unknown kind %v", v.Kind())
	}
	return nil
}

// Parse implements [Codec.Parse]. Definite and indefinite length items are
// accepted. Undefined reads as null. Byte strings, tags other than bignums,
// and non-string map keys have no document representation and fail with
// ErrUnsupported.
func (CBORCodec) Parse(data []byte) (*Value, error) {
	if err := decMode.Wellformed(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	d := cborDecoder{data: data}
	v, err := d.decode(0)
	if err != nil {
		return nil, fmt.Errorf("%w: offset %d: %w", ErrParse, d.off, err)
	}
	return v, nil
}

type cborDecoder struct {
	data []byte
	off  int
}

// head reads an item head and returns its major type, additional
// information, and argument.
func (d *cborDecoder) head() (byte, byte, uint64, error) {
	if d.off >= len(d.data) {
		return 0, 0, 0, io.ErrUnexpectedEOF
	}
	ib := d.data[d.off]
	major, ai := ib>>5, ib&0x1f

	var size int
	switch {
	case ai < aiOneByte, ai == aiIndefinite:
		d.off++
		return major, ai, uint64(ai), nil
	case ai == aiOneByte:
		size = 1
	case ai == aiTwoBytes:
		size = 2
	case ai == aiFourBytes:
		size = 4
	case ai == aiEightBytes:
		size = 8
	default:
		return 0, 0, 0, fmt.Errorf("reserved additional information %d", ai)
	}

	if d.off+1+size > len(d.data) {
		return 0, 0, 0, io.ErrUnexpectedEOF
	}
	b := d.data[d.off+1 : d.off+1+size]
	d.off += 1 + size

	var arg uint64
	for _, c := range b {
		arg = arg<<8 | uint64(c)
	}
	return major, ai, arg, nil
}

// scalar decodes the complete item at the current offset into v.
func (d *cborDecoder) scalar(v any) error {
	rest, err := decMode.UnmarshalFirst(d.data[d.off:], v)
	if err != nil {
		//nolint:wrapcheck // wrapped by Parse.
		return err
	}
	d.off = len(d.data) - len(rest)
	return nil
}

func (d *cborDecoder) isBreak() bool {
	return d.off < len(d.data) && d.data[d.off] == breakCode
}

func (d *cborDecoder) decode(depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nesting deeper than %d", maxDepth)
	}

	start := d.off
	major, ai, arg, err := d.head()
	if err != nil {
		return nil, err
	}

	switch major {
	case majorUnsigned:
		if arg <= math.MaxInt64 {
			return Int(int64(arg)), nil
		}
		return BigInt(new(big.Int).SetUint64(arg)), nil

	case majorNegative:
		if arg <= math.MaxInt64 {
			return Int(-1 - int64(arg)), nil
		}
		n := new(big.Int).SetUint64(arg)
		return BigInt(n.Neg(n).Sub(n, big.NewInt(1))), nil

	case majorBytes:
		return nil, fmt.Errorf("%w: byte string", ErrUnsupported)

	case majorText:
		d.off = start
		var s string
		if err := d.scalar(&s); err != nil {
			return nil, err
		}
		return String(s), nil

	case majorArray:
		var items []*Value
		for i := 0; ai == aiIndefinite || uint64(i) < arg; i++ {
			if ai == aiIndefinite && d.isBreak() {
				d.off++
				break
			}
			item, err := d.decode(depth + 1)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return Sequence(items...), nil

	case majorMap:
		m := Mapping()
		pos := map[string]int{}
		for i := 0; ai == aiIndefinite || uint64(i) < arg; i++ {
			if ai == aiIndefinite && d.isBreak() {
				d.off++
				break
			}
			k, err := d.decode(depth + 1)
			if err != nil {
				return nil, fmt.Errorf("map key %d: %w", i, err)
			}
			key, ok := k.AsString()
			if !ok {
				return nil, fmt.Errorf("%w: %s map key", ErrUnsupported, k.Kind())
			}
			val, err := d.decode(depth + 1)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", key, err)
			}
			if j, ok := pos[key]; ok {
				m.m[j].Value = val
				continue
			}
			pos[key] = len(m.m)
			m.m = append(m.m, Member{Key: key, Value: val})
		}
		return m, nil

	case majorTag:
		if arg != tagPositiveBignum && arg != tagNegativeBignum {
			return nil, fmt.Errorf("%w: tag %d", ErrUnsupported, arg)
		}
		d.off = start
		var n big.Int
		if err := d.scalar(&n); err != nil {
			return nil, err
		}
		return BigInt(&n), nil

	case majorSimple:
		switch ai {
		case simpleFalse:
			return Bool(false), nil
		case simpleTrue:
			return Bool(true), nil
		case simpleNull, simpleUndefined:
			return Null(), nil
		case aiTwoBytes, aiFourBytes, aiEightBytes:
			d.off = start
			var f float64
			if err := d.scalar(&f); err != nil {
				return nil, err
			}
			return Float(f), nil
		case aiIndefinite:
			return nil, errors.New("unexpected break")
		}
		return nil, fmt.Errorf("%w: simple value %d", ErrUnsupported, arg)
	}

	return nil, fmt.Errorf("unknown major type %d", major)
}
