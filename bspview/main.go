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

// main.go
// bspview steps through the build of one level, one state transition per
// key press
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/vigilantdoomer/floatbsp/bsp"
	"github.com/vigilantdoomer/floatbsp/wad"
)

func loadLines(path, level string) (string, []bsp.Line, error) {
	f, err := wad.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	levels := f.Levels()
	if len(levels) == 0 {
		return "", nil, fmt.Errorf("%s has no levels", path)
	}
	ref := levels[0]
	if level != "" {
		found := false
		for _, it := range levels {
			if it.Name == level {
				ref, found = it, true
				break
			}
		}
		if !found {
			return "", nil, fmt.Errorf("%s has no level %s", path, level)
		}
	}
	lvl, err := f.LoadLevel(ref)
	if err != nil {
		return "", nil, err
	}
	conv, err := lvl.Lines()
	if err != nil {
		return "", nil, err
	}
	return ref.Name, conv.Lines, nil
}

func main() {
	fs := pflag.NewFlagSet("bspview", pflag.ExitOnError)
	level := fs.StringP("level", "l", "", "level to view (default: the first one)")
	preset := fs.StringP("config", "c", "", "YAML preset with builder settings")
	width := fs.Int("width", 1280, "window width")
	height := fs.Int("height", 960, "window height")
	fs.Parse(os.Args[1:])
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: bspview [flags] file.wad")
		fs.PrintDefaults()
		os.Exit(1)
	}

	cfg := bsp.DefaultConfig()
	if *preset != "" {
		pf, err := os.Open(*preset)
		if err != nil {
			log.Fatal(err)
		}
		cfg, err = bsp.LoadConfig(pf)
		pf.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	name, lines, err := loadLines(fs.Arg(0), *level)
	if err != nil {
		log.Fatal(err)
	}
	viewer, err := NewViewer(name, lines, cfg, *width, *height)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("bspview - " + name)
	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
