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

// Package reencode rewrites dictionary files from the legacy text encoding
// into the compact binary container in place.
package reencode

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ianlewis/go-imeassets/document"
	"github.com/ianlewis/go-imeassets/internal/atomicfile"
)

var (
	// ErrReencode is the parent error for batch precondition failures.
	ErrReencode = errors.New("reencode")

	// ErrDirectoryNotFound indicates that the dictionary directory is missing.
	ErrDirectoryNotFound = fmt.Errorf("%w: directory not found", ErrReencode)

	// ErrNoFilesFound indicates that no dictionary matched the pattern.
	ErrNoFilesFound = fmt.Errorf("%w: no files found", ErrReencode)
)

// baseSuffix marks base dictionaries in file names.
const baseSuffix = "_base"

// Status is the outcome of processing a single dictionary.
type Status int

const (
	// StatusConverted means the dictionary was rewritten.
	StatusConverted Status = iota

	// StatusSkipped means the dictionary was already in the target format.
	StatusSkipped

	// StatusFailed means the dictionary could not be converted. The file was
	// left untouched.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of processing a single dictionary.
type Result struct {
	// Language is the dictionary language derived from the file name.
	Language string

	// Path is the path of the dictionary file.
	Path string

	// Status is the outcome.
	Status Status

	// OriginalSize and NewSize are file sizes in bytes. NewSize is only set
	// for converted dictionaries.
	OriginalSize int64
	NewSize      int64

	// Err is set for failed dictionaries.
	Err error
}

// Reduction returns the size reduction of a converted dictionary as a
// percentage of its original size.
func (r *Result) Reduction() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return (1 - float64(r.NewSize)/float64(r.OriginalSize)) * 100
}

// Summary holds the results of a batch in file name order.
type Summary struct {
	Results []*Result
}

// Succeeded returns the number of dictionaries that were converted or were
// already in the target format.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Status != StatusFailed {
			n++
		}
	}
	return n
}

// FailedLanguages returns the languages of dictionaries that failed.
func (s *Summary) FailedLanguages() []string {
	var langs []string
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			langs = append(langs, r.Language)
		}
	}
	return langs
}

// OK reports whether no dictionary failed.
func (s *Summary) OK() bool {
	return len(s.FailedLanguages()) == 0
}

// Language returns the dictionary language for a file path, e.g. "it" for
// "it_base.dict".
func Language(path string) string {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(stem, baseSuffix, "")
}

// Discover returns the regular files in dir matching pattern sorted by name.
func Discover(dir, pattern string) ([]string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("reading %q: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}

	var paths []string
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		paths = append(paths, m)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoFilesFound, pattern, dir)
	}

	sort.Strings(paths)
	return paths, nil
}

// Converter converts dictionaries between two encodings.
type Converter struct {
	// Source is the legacy encoding. Defaults to [document.JSON].
	Source document.Codec

	// Target is the binary container. Defaults to [document.CBOR].
	Target document.Codec

	// Logger receives debug output. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger

	// OnResult, if set, is called after each dictionary is processed.
	OnResult func(*Result)
}

func (c *Converter) source() document.Codec {
	if c.Source == nil {
		return document.JSON
	}
	return c.Source
}

func (c *Converter) target() document.Codec {
	if c.Target == nil {
		return document.CBOR
	}
	return c.Target
}

func (c *Converter) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// Run converts every dictionary in dir matching pattern. Failures of single
// dictionaries are recorded in the summary and do not stop the batch. An
// error is returned only when discovery fails.
func (c *Converter) Run(dir, pattern string) (*Summary, error) {
	paths, err := Discover(dir, pattern)
	if err != nil {
		return nil, err
	}

	c.logger().WithField("dir", dir).Debugf("found %d dictionaries", len(paths))
	return c.ConvertAll(paths), nil
}

// ConvertAll converts each dictionary in paths in order.
func (c *Converter) ConvertAll(paths []string) *Summary {
	s := &Summary{}
	for _, path := range paths {
		r := c.Convert(path)
		s.Results = append(s.Results, r)
		if c.OnResult != nil {
			c.OnResult(r)
		}
	}
	return s
}

// Convert converts a single dictionary in place. Dictionaries that do not
// start with an opening brace are assumed to be converted already and are
// skipped.
func (c *Converter) Convert(path string) *Result {
	r := &Result{
		Language: Language(path),
		Path:     path,
	}
	log := c.logger().WithField("language", r.Language)

	fi, err := os.Stat(path)
	if err != nil {
		return r.fail(fmt.Errorf("reading %q: %w", path, err))
	}
	r.OriginalSize = fi.Size()

	first, err := readFirstByte(path)
	if err != nil {
		return r.fail(err)
	}
	if _, legacy := document.Detect(first).(document.JSONCodec); !legacy {
		log.Debug("already in binary format")
		r.Status = StatusSkipped
		return r
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return r.fail(fmt.Errorf("reading %q: %w", path, err))
	}

	doc, err := c.source().Parse(data)
	if err != nil {
		log.WithError(err).Debug("parse failed")
		return r.fail(err)
	}

	err = atomicfile.Write(path, fi.Mode().Perm(), func(w io.Writer) error {
		b, err := c.target().Serialize(doc)
		if err != nil {
			//nolint:wrapcheck // codec errors already wrap ErrSerialize.
			return err
		}
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("%w: writing: %w", document.ErrSerialize, err)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Debug("serialization failed")
		return r.fail(err)
	}

	fi, err = os.Stat(path)
	if err != nil {
		return r.fail(fmt.Errorf("reading %q: %w", path, err))
	}
	r.NewSize = fi.Size()
	r.Status = StatusConverted
	log.WithField("bytes", r.NewSize).Debug("converted")

	return r
}

func (r *Result) fail(err error) *Result {
	r.Status = StatusFailed
	r.Err = err
	return r
}

func readFirstByte(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	b := make([]byte, 1)
	n, err := f.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return b[:n], nil
}
