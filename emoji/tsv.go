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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-imeassets/internal/atomicfile"
)

const (
	fieldSep   = "\t"
	keywordSep = "|"
)

// OutputPath returns the path of the TSV file for locale under dir.
func OutputPath(dir, locale string) string {
	return filepath.Join(dir, locale+".tsv")
}

// EncodeTSV writes rows to w, one line per row terminated by a line feed.
func EncodeTSV(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		// NOTE: bufio.Writer keeps the first error so only Flush is checked.
		_, _ = bw.WriteString(r.Emoji)
		_, _ = bw.WriteString(fieldSep)
		_, _ = bw.WriteString(r.Name)
		_, _ = bw.WriteString(fieldSep)
		_, _ = bw.WriteString(strings.Join(r.Keywords, keywordSep))
		_ = bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}

// WriteTSV atomically writes rows to path, creating the parent directory if
// needed.
func WriteTSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return EncodeTSV(w, rows)
	}); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

// ReadTSV parses rows written by EncodeTSV. Blank lines are skipped, missing
// fields are empty and blank keywords are dropped.
func ReadTSV(r io.Reader) ([]Row, error) {
	var rows []Row

	s := bufio.NewScanner(r)
	s.Buffer(nil, maxLineSize)
	for s.Scan() {
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, fieldSep)
		row := Row{
			Emoji: strings.TrimSpace(parts[0]),
		}
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			row.Name = parts[1]
		}
		if len(parts) > 2 {
			for _, k := range strings.Split(parts[2], keywordSep) {
				if k = strings.TrimSpace(k); k != "" {
					row.Keywords = append(row.Keywords, k)
				}
			}
		}
		rows = append(rows, row)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return rows, nil
}

// ReadTSVFile parses the TSV file at path.
func ReadTSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
