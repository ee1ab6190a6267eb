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

// cmdparser.go
package main

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/spf13/pflag"
)

// errHelp is returned by ParseArgs when usage was requested and printed
var errHelp = errors.New("help requested")

func newFlagSet(c *ProgramConfig, levels *string, help *bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet("floatbsp", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.CountVarP(&c.VerbosityLevel, "verbose", "v",
		"add verbosity to text output, use multiple times for increased verbosity")
	fs.StringVarP(levels, "levels", "l", "",
		"only build levels whose name matches this regular expression")
	fs.IntVarP(&c.Jobs, "jobs", "j", c.Jobs, "number of levels built in parallel")
	fs.StringVarP(&c.PresetPath, "config", "c", "", "YAML preset with builder settings")
	fs.StringVar(&c.DumpDir, "dump-dir", "", "write a YAML dump of every tree to this directory")
	fs.StringVar(&c.PngDir, "png-dir", "", "write a PNG picture of every tree to this directory")
	fs.IntVar(&c.PngSize, "png-size", c.PngSize, "size in pixels of the longer side of PNG pictures")
	fs.IntVar(&c.RootCandidates, "root-candidates", 0,
		"build a tree for each of this many best root splitters and keep the best (0 = off)")
	fs.BoolVar(&c.BranchRight, "branch-right", false,
		"prefer splitter candidates from the end of the list")
	fs.BoolVar(&c.StepMode, "step", false,
		"drive the builder one transition at a time")
	fs.BoolVarP(help, "help", "h", false, "print this help")
	return fs
}

// ParseArgs fills a ProgramConfig from the command line (without program
// name). Errors and help are printed to out.
func ParseArgs(args []string, out io.Writer) (*ProgramConfig, error) {
	c := DefaultProgramConfig()
	var levels string
	var help bool
	fs := newFlagSet(c, &levels, &help)
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if help {
		PrintHelp(fs, out)
		return nil, errHelp
	}
	switch fs.NArg() {
	case 0:
		return nil, errors.New("you must specify an input file")
	case 1:
		c.InputFileName = fs.Arg(0)
	default:
		return nil, errors.New("this program doesn't support specifying more than one input file")
	}
	if levels != "" {
		re, err := regexp.Compile(levels)
		if err != nil {
			return nil, fmt.Errorf("bad level filter: %w", err)
		}
		c.LevelFilter = re
	}
	if c.Jobs < 1 {
		return nil, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.PngSize < 16 {
		return nil, fmt.Errorf("png size must be at least 16, got %d", c.PngSize)
	}
	if c.RootCandidates < 0 {
		return nil, fmt.Errorf("root candidates must not be negative, got %d", c.RootCandidates)
	}
	return c, nil
}

func PrintHelp(fs *pflag.FlagSet, out io.Writer) {
	fmt.Fprintf(out, "floatbsp %s - builds BSP trees of Doom levels in floating point\n\n", VERSION)
	fmt.Fprintf(out, "Usage: floatbsp [flags] file.wad\n\n")
	fs.SetOutput(out)
	fs.PrintDefaults()
}
