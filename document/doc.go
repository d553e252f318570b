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

// Package document implements a format agnostic structured document and the
// codecs used to move dictionaries between their encodings.
//
// A document is a tree of values. Each value is one of:
//  1. Null.
//  2. A boolean.
//  3. An integer of arbitrary precision.
//  4. A 64-bit floating point number.
//  5. A UTF-8 string.
//  6. A sequence of values.
//  7. A mapping of string keys to values. Mappings keep the order in which
//     their members were read.
//
// Two codecs are provided. [JSON] reads and writes the legacy text encoding.
// [CBOR] reads and writes the compact binary container (RFC 8949) that the
// application loads at runtime. Converting a document between the two is
// lossless.
package document
