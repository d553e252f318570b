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

package atomicfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWrite(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name     string
		existing string
		fn       func(io.Writer) error
		expected string
		err      error
	}{
		{
			name:     "replace",
			existing: "old",
			fn: func(w io.Writer) error {
				_, err := io.WriteString(w, "new")
				return err
			},
			expected: "new",
		},
		{
			name: "create",
			fn: func(w io.Writer) error {
				_, err := io.WriteString(w, "new")
				return err
			},
			expected: "new",
		},
		{
			name:     "failure after partial write",
			existing: "old",
			fn: func(w io.Writer) error {
				if _, err := io.WriteString(w, "partial"); err != nil {
					return err
				}
				return errBoom
			},
			expected: "old",
			err:      errBoom,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "file.dict")
			if test.existing != "" {
				if err := os.WriteFile(path, []byte(test.existing), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			err := Write(path, 0o644, test.fn)
			if !errors.Is(err, test.err) {
				t.Fatalf("Write: want %v, got %v", test.err, err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.expected, string(got)); diff != "" {
				t.Errorf("content (-want, +got):\n%s", diff)
			}

			// No temporary files are left behind.
			if diff := cmp.Diff([]string{"file.dict"}, dirNames(t, dir)); diff != "" {
				t.Errorf("directory (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestWrite_Mode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.tsv")
	err := Write(path, 0o640, func(w io.Writer) error {
		_, err := io.WriteString(w, "x\n")
		return err
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := os.FileMode(0o640), fi.Mode().Perm(); want != got {
		t.Errorf("mode; want: %v, got: %v", want, got)
	}
}
