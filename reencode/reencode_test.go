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

package reencode_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/ianlewis/go-imeassets/document"
	"github.com/ianlewis/go-imeassets/internal/testutil"
	"github.com/ianlewis/go-imeassets/reencode"
)

const pattern = "*_base.dict"

var errInjected = errors.New("injected failure")

// failingCodec fails every serialization.
type failingCodec struct{}

func (failingCodec) Name() string { return "failing" }

func (failingCodec) Parse([]byte) (*document.Value, error) {
	return nil, document.ErrParse
}

func (failingCodec) Serialize(*document.Value) ([]byte, error) {
	return nil, errors.Join(document.ErrSerialize, errInjected)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func statuses(s *reencode.Summary) map[string]reencode.Status {
	out := map[string]reencode.Status{}
	for _, r := range s.Results {
		out[r.Language] = r.Status
	}
	return out
}

func TestConverter_Run(t *testing.T) {
	t.Parallel()

	binary := testutil.MustCBOR(t, document.Mapping(
		document.Member{Key: "x", Value: document.Int(1)},
	))

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"it_base.dict": []byte(`{"a":"b"}`),
		"en_base.dict": binary,
		"notes.txt":    []byte("{not a dictionary"),
	})

	c := &reencode.Converter{Logger: quietLogger()}
	s, err := c.Run(dir, pattern)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want, got := 2, s.Succeeded(); want != got {
		t.Errorf("Succeeded; want: %d, got: %d", want, got)
	}
	if !s.OK() {
		t.Errorf("OK; failed: %v", s.FailedLanguages())
	}

	expected := map[string]reencode.Status{
		"en": reencode.StatusSkipped,
		"it": reencode.StatusConverted,
	}
	if diff := cmp.Diff(expected, statuses(s)); diff != "" {
		t.Errorf("statuses (-want, +got):\n%s", diff)
	}

	files := testutil.ReadDir(t, dir)
	if files["it_base.dict"][0] == '{' {
		t.Errorf("it_base.dict still starts with '{'")
	}
	if diff := cmp.Diff([]byte{0xa1, 0x61, 'a', 0x61, 'b'}, files["it_base.dict"]); diff != "" {
		t.Errorf("it_base.dict (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(binary, files["en_base.dict"]); diff != "" {
		t.Errorf("en_base.dict changed (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff("{not a dictionary", string(files["notes.txt"])); diff != "" {
		t.Errorf("notes.txt changed (-want, +got):\n%s", diff)
	}
}

func TestConverter_Idempotent(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"de_base.dict": []byte(`{"normalizedIndex":{"haus":[{"w":"Haus","f":10}]},"symMeta":{"maxEditDistance":2}}`),
		"fr_base.dict": []byte(`{"prefixCache":{"ma":["maison","maman"]}}`),
	})

	c := &reencode.Converter{Logger: quietLogger()}
	if _, err := c.Run(dir, pattern); err != nil {
		t.Fatalf("Run: %v", err)
	}
	first := testutil.ReadDir(t, dir)

	s, err := c.Run(dir, pattern)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, r := range s.Results {
		if r.Status != reencode.StatusSkipped {
			t.Errorf("%s: want skipped on second run, got %v", r.Language, r.Status)
		}
	}
	if diff := cmp.Diff(first, testutil.ReadDir(t, dir)); diff != "" {
		t.Errorf("second run changed files (-want, +got):\n%s", diff)
	}
}

func TestConverter_Lossless(t *testing.T) {
	t.Parallel()

	src := `{"z":[1,2.5,"три",null,true,{"nested":{"b":false,"a":-7}}],"a":{}}`
	dir := testutil.MakeDictDir(t, map[string][]byte{
		"ru_base.dict": []byte(src),
	})

	c := &reencode.Converter{Logger: quietLogger()}
	if _, err := c.Run(dir, pattern); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want, err := document.JSON.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	got, err := document.CBOR.Parse(testutil.ReadDir(t, dir)["ru_base.dict"])
	if err != nil {
		t.Fatalf("CBOR.Parse: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("converted document (-want, +got):\n%s", diff)
	}
}

func TestConverter_SerializeFailure(t *testing.T) {
	t.Parallel()

	original := []byte(`{"a":"b"}`)
	dir := testutil.MakeDictDir(t, map[string][]byte{
		"it_base.dict": original,
	})

	c := &reencode.Converter{
		Target: failingCodec{},
		Logger: quietLogger(),
	}
	s, err := c.Run(dir, pattern)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if diff := cmp.Diff([]string{"it"}, s.FailedLanguages()); diff != "" {
		t.Errorf("FailedLanguages (-want, +got):\n%s", diff)
	}
	if err := s.Results[0].Err; !errors.Is(err, errInjected) || !errors.Is(err, document.ErrSerialize) {
		t.Errorf("Err: want injected serialization error, got %v", err)
	}

	if diff := cmp.Diff(map[string][]byte{"it_base.dict": original}, testutil.ReadDir(t, dir)); diff != "" {
		t.Errorf("directory after failure (-want, +got):\n%s", diff)
	}
}

func TestConverter_ParseFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		broken []byte
	}{
		{name: "truncated", broken: []byte(`{"a": [1, 2`)},
		{name: "invalid utf-8", broken: []byte("{\"a\":\"\xff\xfe\"}")},
		{name: "lone surrogate", broken: []byte(`{"a":"ok","b":"\ud800"}`)},
		{name: "too deep", broken: []byte(`{"a":` + strings.Repeat("[", 1200) + strings.Repeat("]", 1200) + `}`)},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.MakeDictDir(t, map[string][]byte{
				"es_base.dict": test.broken,
				"pt_base.dict": []byte(`{"ok":true}`),
			})

			var seen []string
			c := &reencode.Converter{
				Logger: quietLogger(),
				OnResult: func(r *reencode.Result) {
					seen = append(seen, r.Language)
				},
			}
			s, err := c.Run(dir, pattern)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			if diff := cmp.Diff([]string{"es", "pt"}, seen); diff != "" {
				t.Errorf("OnResult order (-want, +got):\n%s", diff)
			}
			expected := map[string]reencode.Status{
				"es": reencode.StatusFailed,
				"pt": reencode.StatusConverted,
			}
			if diff := cmp.Diff(expected, statuses(s)); diff != "" {
				t.Errorf("statuses (-want, +got):\n%s", diff)
			}
			if !errors.Is(s.Results[0].Err, document.ErrParse) {
				t.Errorf("Err: want ErrParse, got %v", s.Results[0].Err)
			}
			if s.OK() {
				t.Error("OK: want false")
			}

			got, err := os.ReadFile(filepath.Join(dir, "es_base.dict"))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.broken, got); diff != "" {
				t.Errorf("broken file changed (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"es_base.dict", "pt_base.dict"}, testutil.Names(t, dir)); diff != "" {
				t.Errorf("directory (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestConverter_EmptyFileSkipped(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"nl_base.dict": {},
	})

	r := (&reencode.Converter{Logger: quietLogger()}).Convert(filepath.Join(dir, "nl_base.dict"))
	if want, got := reencode.StatusSkipped, r.Status; want != got {
		t.Errorf("Status; want: %v, got: %v", want, got)
	}
}

func TestConverter_KeepsMode(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"it_base.dict": []byte(`{"a":1}`),
	})
	path := filepath.Join(dir, "it_base.dict")
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}

	r := (&reencode.Converter{Logger: quietLogger()}).Convert(path)
	if r.Err != nil {
		t.Fatalf("Convert: %v", r.Err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := os.FileMode(0o644), fi.Mode().Perm(); want != got {
		t.Errorf("mode; want: %v, got: %v", want, got)
	}
	if r.NewSize >= r.OriginalSize {
		t.Errorf("sizes; want new < original, got %d >= %d", r.NewSize, r.OriginalSize)
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("directory not found", func(t *testing.T) {
		t.Parallel()

		_, err := reencode.Discover(filepath.Join(t.TempDir(), "missing"), pattern)
		if !errors.Is(err, reencode.ErrDirectoryNotFound) {
			t.Fatalf("Discover: want ErrDirectoryNotFound, got %v", err)
		}
	})

	t.Run("no files found", func(t *testing.T) {
		t.Parallel()

		dir := testutil.MakeDictDir(t, map[string][]byte{
			"it_user.dict": []byte(`{}`),
		})
		_, err := reencode.Discover(dir, pattern)
		if !errors.Is(err, reencode.ErrNoFilesFound) {
			t.Fatalf("Discover: want ErrNoFilesFound, got %v", err)
		}
	})

	t.Run("sorted matches", func(t *testing.T) {
		t.Parallel()

		dir := testutil.MakeDictDir(t, map[string][]byte{
			"pl_base.dict": []byte(`{}`),
			"de_base.dict": []byte(`{}`),
			"it_base.dict": []byte(`{}`),
		})
		got, err := reencode.Discover(dir, pattern)
		if err != nil {
			t.Fatalf("Discover: %v", err)
		}
		expected := []string{
			filepath.Join(dir, "de_base.dict"),
			filepath.Join(dir, "it_base.dict"),
			filepath.Join(dir, "pl_base.dict"),
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("Discover (-want, +got):\n%s", diff)
		}
	})
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected string
	}{
		{path: "it_base.dict", expected: "it"},
		{path: "/a/b/pt_BR_base.dict", expected: "pt_BR"},
		{path: "en.dict", expected: "en"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.path, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(test.expected, reencode.Language(test.path)); diff != "" {
				t.Errorf("Language (-want, +got):\n%s", diff)
			}
		})
	}
}
