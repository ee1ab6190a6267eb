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

// config.go
package main

import (
	"fmt"
	"os"
	"regexp"
	"runtime"

	"github.com/vigilantdoomer/floatbsp/bsp"
)

const VERSION = "0.1"

const DEFAULT_PNG_SIZE = 1024

// ProgramConfig is everything the command line decides. It is created once
// by the entry point and passed down explicitly.
type ProgramConfig struct {
	InputFileName  string
	VerbosityLevel int
	// Levels to build; nil builds every level
	LevelFilter *regexp.Regexp
	Jobs        int
	PresetPath  string
	DumpDir     string
	PngDir      string
	PngSize     int
	// Root splitters tried by the root search, 0 disables the search
	RootCandidates int
	BranchRight    bool
	// Drive the builder one transition at a time
	StepMode bool
	Bsp      bsp.Config
}

func DefaultProgramConfig() *ProgramConfig {
	return &ProgramConfig{
		Jobs:    runtime.NumCPU(),
		PngSize: DEFAULT_PNG_SIZE,
		Bsp:     bsp.DefaultConfig(),
	}
}

// CanRebuildThisLevel tells whether the level passes the -l filter
func (c *ProgramConfig) CanRebuildThisLevel(name string) bool {
	return c.LevelFilter == nil || c.LevelFilter.MatchString(name)
}

// LoadPreset replaces the bsp config with the YAML preset at PresetPath,
// then applies the command line overrides on top of it
func (c *ProgramConfig) LoadPreset() error {
	if c.PresetPath != "" {
		f, err := os.Open(c.PresetPath)
		if err != nil {
			return err
		}
		defer f.Close()
		c.Bsp, err = bsp.LoadConfig(f)
		if err != nil {
			return fmt.Errorf("preset %s: %w", c.PresetPath, err)
		}
	}
	if c.BranchRight {
		c.Bsp.BranchRight = true
	}
	return c.Bsp.Validate()
}

// BuildOptions lists the bsp options every level build gets
func (c *ProgramConfig) BuildOptions() []bsp.Option {
	if c.StepMode {
		return []bsp.Option{bsp.WithMode(bsp.MODE_SINGLE_STEP)}
	}
	return nil
}
