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

// Package logging configures the diagnostic logger used by the commands.
package logging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrLevel indicates an unknown log level.
var ErrLevel = errors.New("unknown log level")

// Options configures a logger.
type Options struct {
	// Level is a logrus level name. Defaults to "info".
	Level string

	// Verbose forces the debug level.
	Verbose bool

	// File, if set, receives a copy of the log and is rotated by size.
	File string

	// MaxSize is the size in megabytes at which File is rotated.
	MaxSize int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// MaxAge is the number of days rotated files are kept.
	MaxAge int
}

// New returns a logger writing to w and, if configured, to a rotated log
// file. The returned close function releases the file.
func New(w io.Writer, opts Options) (*logrus.Logger, func() error, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		level, err = logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrLevel, opts.Level)
		}
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   true,
		}
		w = io.MultiWriter(w, lj)
		closeFn = lj.Close
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&Formatter{})
	return l, closeFn, nil
}

// Formatter writes tab separated log lines:
//
//	LEVEL	2006-01-02T15:04:05.000	message	key=value ...
type Formatter struct {
	// Now overrides the entry time. Used in tests.
	Now func() time.Time
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	t := entry.Time
	if f.Now != nil {
		t = f.Now()
	}

	var buf bytes.Buffer
	buf.WriteString(strings.ToUpper(entry.Level.String()))
	buf.WriteByte('\t')
	buf.WriteString(t.UTC().Format("2006-01-02T15:04:05.000"))
	buf.WriteByte('\t')
	buf.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteByte('\t')
		fmt.Fprintf(&buf, "%s=%v", k, entry.Data[k])
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
