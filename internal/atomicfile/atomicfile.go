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

// Package atomicfile replaces files by writing a temporary sibling and
// renaming it over the destination.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TempPattern is the pattern used for temporary sibling files.
const TempPattern = ".*.tmp"

// Write calls fn with a writer for a temporary file in the same directory as
// path and, if fn succeeds, renames the temporary file over path. Readers of
// path observe either the old content or the complete new content. On any
// error the temporary file is removed and path is left untouched.
func Write(path string, perm os.FileMode, fn func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, base+TempPattern)
	if err != nil {
		return fmt.Errorf("creating temporary file for %q: %w", path, err)
	}
	tmpPath := f.Name()

	renamed := false
	defer func() {
		if renamed {
			return
		}
		// Close is a no-op error when already closed.
		_ = f.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = fmt.Errorf("removing %q: %w", tmpPath, rmErr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %q: %w", tmpPath, err)
	}
	if err := f.Chmod(perm); err != nil {
		return fmt.Errorf("setting mode of %q: %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing %q: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %q: %w", path, err)
	}
	renamed = true

	return nil
}
