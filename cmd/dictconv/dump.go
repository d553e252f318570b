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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-imeassets/document"
	"github.com/ianlewis/go-imeassets/internal/cmdutil"
)

var dumpCommand = &cli.Command{
	Name:      "dump",
	Usage:     "print a dictionary in either encoding as JSON",
	ArgsUsage: "FILE",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:               "indent",
			Usage:              "indent the output",
			DisableDefaultText: true,
		},
		&cli.StringFlag{
			Name:  "section",
			Usage: "print only the top-level `NAME` member",
		},
	},
	OnUsageError: cmdutil.OnUsageError,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected one file", cmdutil.ErrFlagParse)
		}

		path := c.Args().First()
		doc, _, err := readDocument(path)
		if err != nil {
			return err
		}
		if name := c.String("section"); name != "" {
			section, ok := doc.Get(name)
			if !ok {
				return fmt.Errorf("%s: section %q not found", path, name)
			}
			doc = section
		}

		b, err := document.JSON.Serialize(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if c.Bool("indent") {
			var buf bytes.Buffer
			check(json.Indent(&buf, b, "", "  "))
			b = buf.Bytes()
		}
		cmdutil.Fprintf(c.App.Writer, "%s\n", b)
		return nil
	},
}
