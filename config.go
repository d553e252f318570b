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

package imeassets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ianlewis/go-imeassets/emoji"
)

// ErrConfig indicates an unreadable or invalid config file.
var ErrConfig = errors.New("config")

// Config is the project layout.
type Config struct {
	Dictionaries DictionariesConfig `yaml:"dictionaries"`
	Emoji        EmojiConfig        `yaml:"emoji"`
	Log          LogConfig          `yaml:"log"`
}

// DictionariesConfig locates the dictionaries to re-encode.
type DictionariesConfig struct {
	// Dir is the dictionary directory.
	Dir string `yaml:"dir"`

	// Pattern is the glob matched against file names in Dir.
	Pattern string `yaml:"pattern"`
}

// EmojiConfig locates the emoji lists and search tables.
type EmojiConfig struct {
	// AssetDir holds the emoji lists the keyboard ships.
	AssetDir string `yaml:"asset_dir"`

	// Exclude is the list file in AssetDir that is not an emoji list.
	Exclude string `yaml:"exclude"`

	// OutDir receives one TSV file per locale.
	OutDir string `yaml:"out_dir"`

	// Locales are generated when none are given on the command line.
	Locales []string `yaml:"locales"`

	// URLTemplate is the CLDR annotations URL with {locale} in place of
	// the locale.
	URLTemplate string `yaml:"url_template"`
}

// LogConfig configures diagnostics.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Default returns the layout of the keyboard project with paths relative to
// the project root.
func Default() *Config {
	return &Config{
		Dictionaries: DictionariesConfig{
			Dir:     filepath.FromSlash("app/src/main/assets/common/dictionaries_serialized"),
			Pattern: "*_base.dict",
		},
		Emoji: EmojiConfig{
			AssetDir:    filepath.FromSlash("app/src/main/assets/common/emoji"),
			Exclude:     emoji.DefaultExclude,
			OutDir:      filepath.FromSlash("app/src/main/assets/common/emoji_search"),
			Locales:     append([]string(nil), emoji.DefaultLocales...),
			URLTemplate: emoji.DefaultURLTemplate,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load reads the YAML file at path over the defaults and resolves relative
// paths against root. An empty path loads the defaults only. Unknown keys are
// an error.
func Load(root, path string) (*Config, error) {
	c := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		defer f.Close()

		d := yaml.NewDecoder(f)
		d.KnownFields(true)
		if err := d.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
		}
	}

	c.Resolve(root)
	return c, nil
}

// Resolve makes the relative paths in c relative to root.
func (c *Config) Resolve(root string) {
	for _, p := range []*string{
		&c.Dictionaries.Dir,
		&c.Emoji.AssetDir,
		&c.Emoji.OutDir,
		&c.Log.File,
	} {
		*p = resolvePath(root, *p)
	}
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
