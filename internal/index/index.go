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

// Package index implements a generic sorted array index.
package index

import (
	"slices"
	"sort"
)

// Index is a sorted array of values searchable by a string key.
type Index[V any] struct {
	// items is sorted by key. Items with equal keys keep their input order.
	items []V

	key func(V) string
	cmp func(string, string) int
}

// New creates an index over a copy of items. key extracts the search key of
// a value. cmp(a, b) should return a negative number when a < b, a positive
// number when a > b and zero when a == b or a and b are incomparable in the
// sense of a strict weak ordering.
func New[V any](items []V, key func(V) string, cmp func(string, string) int) *Index[V] {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b V) int {
		return cmp(key(a), key(b))
	})

	return &Index[V]{
		items: sorted,
		key:   key,
		cmp:   cmp,
	}
}

// Len returns the number of indexed values.
func (idx *Index[V]) Len() int {
	return len(idx.items)
}

// Search performs a binary search over the index and returns all values
// whose key compares equal to query.
func (idx *Index[V]) Search(query string) []V {
	i, found := sort.Find(len(idx.items), func(i int) int {
		return idx.cmp(query, idx.key(idx.items[i]))
	})
	if !found {
		return nil
	}

	j := i + 1
	for j < len(idx.items) && idx.cmp(query, idx.key(idx.items[j])) == 0 {
		j++
	}
	return idx.items[i:j]
}
