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

// Package testutil builds on-disk fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ianlewis/go-imeassets/document"
)

// MustCBOR serializes v with the binary container codec.
func MustCBOR(t *testing.T, v *document.Value) []byte {
	t.Helper()

	b, err := document.CBOR.Serialize(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// WriteFiles writes files, keyed by slash separated relative path, under dir
// creating parent directories as needed.
func WriteFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()

	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

// MakeDictDir creates a temporary dictionary directory holding files and
// returns its path.
func MakeDictDir(t *testing.T, files map[string][]byte) string {
	t.Helper()

	dir := t.TempDir()
	WriteFiles(t, dir, files)
	return dir
}

// ReadDir returns the contents of all files in dir keyed by name.
func ReadDir(t *testing.T, dir string) map[string][]byte {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	out := map[string][]byte{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		out[e.Name()] = b
	}
	return out
}

// Names returns the sorted names of all entries in dir.
func Names(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
