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
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrEmoji is the parent error for emoji asset errors.
	ErrEmoji = errors.New("emoji")

	// ErrEmptyAllowSet indicates that no emoji were found in the project's
	// emoji lists.
	ErrEmptyAllowSet = fmt.Errorf("%w: no project emoji assets found", ErrEmoji)
)

// DefaultExclude is the emoji list file that holds metadata rather than
// emoji.
const DefaultExclude = "minApi.txt"

// maxLineSize bounds a single line of an emoji list.
const maxLineSize = 16 << 20

// AllowSet is the set of emoji sequences the keyboard ships.
type AllowSet map[string]struct{}

// Contains reports whether emoji is in the set.
func (s AllowSet) Contains(emoji string) bool {
	_, ok := s[emoji]
	return ok
}

// Len returns the number of emoji in the set.
func (s AllowSet) Len() int {
	return len(s)
}

// Emoji is a picker entry: a base emoji and its variants such as skin tones.
type Emoji struct {
	Base     string
	Variants []string
}

// Category is one emoji list file.
type Category struct {
	// ID is the file name without extension.
	ID string

	// Emojis are the entries in file order.
	Emojis []Emoji
}

// listFiles returns the sorted .txt files in dir except exclude.
func listFiles(dir, exclude string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", dir, err)
	}

	var paths []string
	for _, m := range matches {
		if filepath.Base(m) == exclude {
			continue
		}
		paths = append(paths, m)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadCategories reads every emoji list in dir except exclude. Each list is a
// category. The first token of a line is the base emoji and the remaining
// tokens are its variants. Blank lines are ignored. A missing directory has
// no categories.
func LoadCategories(dir, exclude string) ([]*Category, error) {
	paths, err := listFiles(dir, exclude)
	if err != nil {
		return nil, err
	}

	var categories []*Category
	for _, path := range paths {
		c, err := readCategory(path)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func readCategory(path string) (*Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	c := &Category{
		ID: strings.TrimSuffix(name, filepath.Ext(name)),
	}

	s := bufio.NewScanner(f)
	s.Buffer(nil, maxLineSize)
	for s.Scan() {
		tokens := strings.Fields(s.Text())
		if len(tokens) == 0 {
			continue
		}
		c.Emojis = append(c.Emojis, Emoji{
			Base:     tokens[0],
			Variants: tokens[1:],
		})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return c, nil
}

// NewAllowSet returns the set of every base emoji and variant in categories.
func NewAllowSet(categories []*Category) AllowSet {
	s := AllowSet{}
	for _, c := range categories {
		for _, e := range c.Emojis {
			s[e.Base] = struct{}{}
			for _, v := range e.Variants {
				s[v] = struct{}{}
			}
		}
	}
	return s
}

// LoadAllowSet reads the allow-set from the emoji lists in dir. It returns
// ErrEmptyAllowSet if no emoji were found.
func LoadAllowSet(dir, exclude string) (AllowSet, error) {
	categories, err := LoadCategories(dir, exclude)
	if err != nil {
		return nil, err
	}

	s := NewAllowSet(categories)
	if s.Len() == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyAllowSet, dir)
	}
	return s, nil
}
