// Copyright (C) 2022-2025, VigilantDoomer
//
// This file is part of VigilantBSP program.
//
// VigilantBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantBSP.  If not, see <https://www.gnu.org/licenses/>.

// filecontrol.go
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vigilantdoomer/floatbsp/wad"
)

// Controls lifetime of the input wad and of every output file (dumps and
// pictures) - ensures they are properly closed by the end of program,
// regardless of success and failure. Outputs are written to a temporary file
// next to the destination which replaces the destination only once it was
// written completely; temporary files still around on Shutdown are deleted.
// Safe for use by several level builds at once.
type FileControl struct {
	mu            sync.Mutex
	fin           *wad.Wad
	inputFileName string
	tmps          map[string]struct{}
}

func (fc *FileControl) OpenInputFile(inputFileName string) (*wad.Wad, error) {
	fc.inputFileName = inputFileName
	var err error
	fc.fin, err = wad.Open(inputFileName)
	return fc.fin, err
}

// EnsureDir creates the output directory if it doesn't exist yet
func (fc *FileControl) EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteOutput writes the file at path through write
func (fc *FileControl) WriteOutput(path string, write func(w io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	fc.track(tmpName, true)
	defer fc.track(tmpName, false)

	err = write(f)
	errClose := f.Close()
	if err == nil {
		err = errClose
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("couldn't write %s: %w", path, err)
	}
	return nil
}

func (fc *FileControl) track(name string, add bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if add {
		if fc.tmps == nil {
			fc.tmps = make(map[string]struct{})
		}
		fc.tmps[name] = struct{}{}
	} else {
		delete(fc.tmps, name)
	}
}

// Ensures we close all files when program exits. Temporary files are getting
// deleted at this moment
func (fc *FileControl) Shutdown() {
	if fc.fin != nil {
		if err := fc.fin.Close(); err != nil {
			Log.Error("Couldn't close input file '%s': %s\n", fc.inputFileName, err.Error())
		}
		fc.fin = nil
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for name := range fc.tmps {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			Log.Error("Got error when trying to delete a temporary file '%s': %s\n", name, err.Error())
		}
	}
	fc.tmps = nil
}
