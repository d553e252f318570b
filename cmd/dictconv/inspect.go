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
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-imeassets/document"
	"github.com/ianlewis/go-imeassets/internal/cmdutil"
	"github.com/ianlewis/go-imeassets/reencode"
)

// readDocument reads a dictionary in either encoding.
func readDocument(path string) (*document.Value, document.Codec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %q: %w", path, err)
	}

	codec := document.Detect(data[:min(1, len(data))])
	doc, err := codec.Parse(data)
	if err != nil {
		return nil, codec, fmt.Errorf("%s: %w", path, err)
	}
	return doc, codec, nil
}

var inspectCommand = &cli.Command{
	Name:         "inspect",
	Usage:        "show the format and sections of dictionaries",
	ArgsUsage:    "FILE...",
	OnUsageError: cmdutil.OnUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("%w: no files given", cmdutil.ErrFlagParse)
		}

		var errs []error
		for i, path := range c.Args().Slice() {
			if i > 0 {
				cmdutil.Fprintf(c.App.Writer, "\n")
			}
			if err := inspect(c, path); err != nil {
				cmdutil.Fprintf(c.App.ErrWriter, "%v\n", err)
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("%w: %w", cmdutil.ErrFailed, errors.Join(errs...))
		}
		return nil
	},
}

func inspect(c *cli.Context, path string) error {
	doc, codec, err := readDocument(path)
	if err != nil {
		return err
	}

	w := c.App.Writer
	cmdutil.Fprintf(w, "File:     %s\n", path)
	cmdutil.Fprintf(w, "Language: %s\n", reencode.Language(path))
	cmdutil.Fprintf(w, "Format:   %s\n", codec.Name())

	tbl := table.New("Section", "Kind", "Value").WithWriter(w)
	if doc.Kind() != document.MappingKind {
		tbl.AddRow("(root)", doc.Kind(), summary(doc))
	}
	for _, m := range doc.Members() {
		tbl.AddRow(m.Key, m.Value.Kind(), summary(m.Value))
	}
	tbl.Print()
	return nil
}

// maxSummary is the number of runes of a string value shown by inspect.
const maxSummary = 40

// summary describes a section: the size of containers and the value of
// scalars.
func summary(v *document.Value) string {
	if v.IsNull() {
		return "null"
	}
	if b, ok := v.AsBool(); ok {
		return strconv.FormatBool(b)
	}
	if n, ok := v.AsBigInt(); ok {
		return n.String()
	}
	if f, ok := v.AsFloat(); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if s, ok := v.AsString(); ok {
		if r := []rune(s); len(r) > maxSummary {
			s = string(r[:maxSummary]) + "..."
		}
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%d entries", v.Len())
}
