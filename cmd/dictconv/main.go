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

// Command dictconv re-encodes the keyboard's dictionaries from JSON to CBOR
// in place.
package main

import (
	"os"

	"github.com/ianlewis/go-imeassets/internal/cmdutil"
)

func main() {
	app := newDictconvApp()
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	os.Exit(cmdutil.Run(app, os.Args))
}
