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

package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-imeassets/document"
	"github.com/ianlewis/go-imeassets/internal/cmdutil"
	"github.com/ianlewis/go-imeassets/internal/testutil"
)

func runApp(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr strings.Builder
	app := newDictconvApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	code := cmdutil.Run(app, append([]string{"dictconv"}, args...))
	return code, stdout.String(), stderr.String()
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()

	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func binaryDict(t *testing.T) []byte {
	t.Helper()

	return testutil.MustCBOR(t, document.Mapping(
		document.Member{Key: "a", Value: document.String("b")},
	))
}

func TestConvert_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"en_base.dict": []byte(`{"a":"b"}`),
		"it_base.dict": binaryDict(t),
	})

	code, stdout, _ := runApp(t, "--dir", dir)
	if want, got := cmdutil.ExitCodeSuccess, code; want != got {
		t.Fatalf("exit code; want: %d, got: %d\n%s", want, got, stdout)
	}

	assertContains(t, stdout,
		"Found 2 dictionary files to convert...\n\n",
		"Converting en...\n  ✓ JSON: 0.00 MB → CBOR: 0.00 MB (",
		"Skipping it: already in CBOR format\n",
		"Converted: 2/2 dictionaries\n",
		"All dictionaries converted successfully!\n",
		"Language",
	)

	got := testutil.ReadDir(t, dir)
	if diff := cmp.Diff(binaryDict(t), got["en_base.dict"]); diff != "" {
		t.Errorf("en_base.dict (-want, +got):\n%s", diff)
	}
}

func TestConvert_Failure(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"de_base.dict": []byte(`{"a":`),
		"en_base.dict": []byte(`{"a":"b"}`),
	})

	code, stdout, stderr := runApp(t, "--dir", dir)
	if want, got := cmdutil.ExitCodeFailure, code; want != got {
		t.Fatalf("exit code; want: %d, got: %d", want, got)
	}
	assertContains(t, stdout,
		"Converting de...\n  ✗ ",
		"Converted: 1/2 dictionaries\n",
		"Failed: de\n",
	)
	if stderr != "" {
		t.Errorf("stderr: want empty, got %q", stderr)
	}

	got := testutil.ReadDir(t, dir)
	if diff := cmp.Diff(`{"a":`, string(got["de_base.dict"])); diff != "" {
		t.Errorf("de_base.dict (-want, +got):\n%s", diff)
	}
}

func TestConvert_Preconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dir      func(t *testing.T) string
		expected string
	}{
		{
			name:     "missing directory",
			dir:      func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			expected: "ERROR: reencode: directory not found",
		},
		{
			name: "no files",
			dir: func(t *testing.T) string {
				return testutil.MakeDictDir(t, map[string][]byte{"en.dict": []byte("{}")})
			},
			expected: "ERROR: reencode: no files found",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, _ := runApp(t, "--dir", test.dir(t))
			if want, got := cmdutil.ExitCodeFailure, code; want != got {
				t.Fatalf("exit code; want: %d, got: %d", want, got)
			}
			assertContains(t, stdout, test.expected)
		})
	}
}

func TestConvert_ProjectRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string][]byte{
		"app/src/main/assets/common/dictionaries_serialized/fr_base.dict": []byte(`{"a":"b"}`),
		"app/src/main/assets/common/dictionaries_serialized/fr_user.dict": []byte(`{"a":"b"}`),
	})

	code, stdout, _ := runApp(t, "--root", root)
	if want, got := cmdutil.ExitCodeSuccess, code; want != got {
		t.Fatalf("exit code; want: %d, got: %d\n%s", want, got, stdout)
	}
	assertContains(t, stdout, "Converted: 1/1 dictionaries\n")

	b, err := os.ReadFile(filepath.Join(root, "app/src/main/assets/common/dictionaries_serialized/fr_user.dict"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(`{"a":"b"}`, string(b)); diff != "" {
		t.Errorf("fr_user.dict (-want, +got):\n%s", diff)
	}
}

func TestConvert_ConfigPattern(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string][]byte{
		"dicts/fr_user.dict": []byte(`{"a":"b"}`),
		"tools.yaml":         []byte("dictionaries:\n  dir: dicts\n  pattern: \"*_user.dict\"\n"),
	})

	code, stdout, _ := runApp(t, "--root", root, "--config", filepath.Join(root, "tools.yaml"))
	if want, got := cmdutil.ExitCodeSuccess, code; want != got {
		t.Fatalf("exit code; want: %d, got: %d\n%s", want, got, stdout)
	}
	assertContains(t, stdout, "Converting fr_user...\n")
}

func TestApp_FlagErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--bogus"}},
		{name: "extra arguments", args: []string{"extra"}},
		{name: "inspect without files", args: []string{"inspect"}},
		{name: "dump without file", args: []string{"dump"}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := runApp(t, test.args...)
			if want, got := cmdutil.ExitCodeFlagParseError, code; want != got {
				t.Fatalf("exit code; want: %d, got: %d", want, got)
			}
			assertContains(t, stderr, "dictconv: parsing flags")
		})
	}
}

func TestApp_Version(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runApp(t, "--version")
	if want, got := cmdutil.ExitCodeSuccess, code; want != got {
		t.Fatalf("exit code; want: %d, got: %d", want, got)
	}
	if !strings.HasPrefix(stdout, "dictconv ") {
		t.Errorf("version: unexpected output %q", stdout)
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"en_base.dict": []byte(`{"normalizedIndex":{"a":["a"],"b":["b"]},"symDeletes":[1,2,3],"version":2}`),
		"it_base.dict": binaryDict(t),
	})

	code, stdout, stderr := runApp(t, "inspect",
		filepath.Join(dir, "en_base.dict"),
		filepath.Join(dir, "it_base.dict"),
	)
	if want, got := cmdutil.ExitCodeSuccess, code; want != got {
		t.Fatalf("exit code; want: %d, got: %d\n%s", want, got, stderr)
	}
	assertContains(t, stdout,
		"Language: en\n",
		"Format:   json\n",
		"Format:   cbor\n",
		"normalizedIndex",
		"mapping",
		"2 entries",
		"symDeletes",
		"sequence",
		"3 entries",
		"version",
	)
	if !regexp.MustCompile(`version\s+int\s+2[ \t]*\n`).MatchString(stdout) {
		t.Errorf("inspect: missing scalar value of version:\n%s", stdout)
	}
}

func TestInspect_Malformed(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"en_base.dict": []byte(`{"a":`),
	})

	code, _, stderr := runApp(t, "inspect", filepath.Join(dir, "en_base.dict"))
	if want, got := cmdutil.ExitCodeFailure, code; want != got {
		t.Fatalf("exit code; want: %d, got: %d", want, got)
	}
	assertContains(t, stderr, "en_base.dict")
}

func TestDump(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"it_base.dict": binaryDict(t),
	})
	path := filepath.Join(dir, "it_base.dict")

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "compact", args: []string{"dump", path}, expected: "{\"a\":\"b\"}\n"},
		{name: "indent", args: []string{"dump", "--indent", path}, expected: "{\n  \"a\": \"b\"\n}\n"},
		{name: "section", args: []string{"dump", "--section", "a", path}, expected: "\"b\"\n"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, stderr := runApp(t, test.args...)
			if want, got := cmdutil.ExitCodeSuccess, code; want != got {
				t.Fatalf("exit code; want: %d, got: %d\n%s", want, got, stderr)
			}
			if diff := cmp.Diff(test.expected, stdout); diff != "" {
				t.Errorf("dump (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestDump_MissingSection(t *testing.T) {
	t.Parallel()

	dir := testutil.MakeDictDir(t, map[string][]byte{
		"it_base.dict": binaryDict(t),
	})

	code, stdout, stderr := runApp(t, "dump", "--section", "z", filepath.Join(dir, "it_base.dict"))
	if want, got := cmdutil.ExitCodeFailure, code; want != got {
		t.Fatalf("exit code; want: %d, got: %d", want, got)
	}
	if stdout != "" {
		t.Errorf("stdout: want empty, got %q", stdout)
	}
	assertContains(t, stderr, `section "z" not found`)
}
