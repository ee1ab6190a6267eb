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

// floatbsp.go
// -- This file is where the program entry is.
// floatbsp builds BSP trees of Doom levels in floating point, with minisegs
// closing every subsector, for engines that render from the tree directly
// rather than from the vanilla NODES lump.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"time"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:])
	stop()
	Log.Sync()
	os.Exit(code)
}

// run is the whole program short of process exit; returns the exit code
func run(ctx context.Context, args []string) int {
	timeStart := time.Now()

	cfg, err := ParseArgs(args, os.Stdout)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		Log.Error("%s\n", err)
		return 1
	}
	Log.SetVerbosity(cfg.VerbosityLevel)
	if err := cfg.LoadPreset(); err != nil {
		Log.Error("%s\n", err)
		return 1
	}
	Log.Verbose(2, "Builder settings: %+v\n", cfg.Bsp)

	mainFileControl := FileControl{}
	defer mainFileControl.Shutdown()
	for _, dir := range []string{cfg.DumpDir, cfg.PngDir} {
		if err := mainFileControl.EnsureDir(dir); err != nil {
			Log.Error("Couldn't create output directory: %s\n", err)
			return 1
		}
	}

	cfg.InputFileName, _ = filepath.Abs(cfg.InputFileName)
	f, err := mainFileControl.OpenInputFile(cfg.InputFileName)
	if err != nil {
		Log.Error("An error has occured while trying to read %s: %s\n",
			cfg.InputFileName, err)
		return 1
	}
	if f.IsIWAD() {
		Log.Printf("The input file is an IWAD\n")
	} else {
		Log.Printf("The input file is a PWAD\n")
	}
	Log.Verbose(1, "The directory contains %d lumps and starts at %d byte offset\n",
		f.Header.LumpCount, f.Header.DirectoryStart)

	levels := f.Levels()
	if len(levels) == 0 {
		Log.Error("Unable to find any valid levels - terminating\n")
		return 1
	}

	results, err := BuildLevels(ctx, cfg, &mainFileControl, f, levels)
	if err != nil {
		Log.Error("Aborted: %s\n", err)
		return 1
	}
	if len(results) == 0 {
		Log.Error("No level matches the level filter\n")
		return 1
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	Log.Printf("Built %d of %d levels in %s\n", len(results)-failed, len(results),
		time.Since(timeStart))
	if failed > 0 {
		Log.Error("%d levels failed to build\n", failed)
		return 1
	}
	return 0
}
