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

// levelwork.go
package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vigilantdoomer/floatbsp/bsp"
	"github.com/vigilantdoomer/floatbsp/wad"
)

// Levels are independent of each other: each one is built by its own
// goroutine with its own builder and its own MiniLogger, which is merged
// into the main log once the level is done. A level that fails doesn't stop
// the others.

type LevelResult struct {
	Name       string
	Format     wad.Format
	Conversion *wad.Conversion
	Tree       *bsp.Tree
	// Filled when root search was enabled
	Trials []bsp.RootTrial
	// Transitions made, in step mode
	Steps   int
	Elapsed time.Duration
	Err     error
}

// BuildLevels builds the levels picked by the level filter, at most
// cfg.Jobs at a time, and returns their results in directory order. The
// error is non-nil only if ctx was cancelled.
func BuildLevels(ctx context.Context, cfg *ProgramConfig, fc *FileControl,
	f *wad.Wad, refs []wad.LevelRef) ([]*LevelResult, error) {
	var picked []wad.LevelRef
	for _, ref := range refs {
		if cfg.CanRebuildThisLevel(ref.Name) {
			picked = append(picked, ref)
		} else {
			Log.Verbose(1, "Skipping level %s\n", ref.Name)
		}
	}
	results := make([]*LevelResult, len(picked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, ref := range picked {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mlog := CreateMiniLogger(cfg.VerbosityLevel)
			results[i] = buildLevel(gctx, cfg, fc, f, ref, mlog)
			Log.Merge(mlog, fmt.Sprintf("Processing level %s:\n", ref.Name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildLevel(ctx context.Context, cfg *ProgramConfig, fc *FileControl,
	f *wad.Wad, ref wad.LevelRef, mlog *MiniLogger) *LevelResult {
	start := time.Now()
	res := &LevelResult{Name: ref.Name, Format: ref.Format}
	defer func() {
		res.Elapsed = time.Since(start)
		if res.Err != nil {
			mlog.Printf("  FAILED: %s\n", res.Err)
		} else {
			mlog.Printf("  Built in %s\n", res.Elapsed)
		}
	}()

	if len(ref.Duplicates) > 0 {
		mlog.Printf("  Ignoring duplicate lumps: %v\n", ref.Duplicates)
	}
	lvl, err := f.LoadLevel(ref)
	if err != nil {
		res.Err = err
		return res
	}
	mlog.Verbose(1, "  %s format, %d linedefs, %d sidedefs, %d vertices, %d sectors\n",
		lvl.Format, len(lvl.Linedefs), len(lvl.Sidedefs), len(lvl.Vertices), len(lvl.Sectors))

	res.Conversion, err = lvl.Lines()
	if err != nil {
		res.Err = err
		return res
	}
	conv := res.Conversion
	if conv.ZeroLength > 0 {
		mlog.Printf("  Skipped %d zero-length linedefs\n", conv.ZeroLength)
	}
	if conv.NoSidedefs > 0 {
		mlog.Printf("  Skipped %d linedefs without sidedefs\n", conv.NoSidedefs)
	}
	if conv.Flipped > 0 {
		mlog.Verbose(1, "  Turned around %d linedefs with only a back sidedef\n", conv.Flipped)
	}

	opts := append(cfg.BuildOptions(), bsp.WithLogger(mlog.Slog("map", ref.Name)))
	switch {
	case cfg.RootCandidates > 0:
		res.Tree, res.Trials, err = bsp.SearchRoot(ctx, conv.Lines, cfg.Bsp,
			cfg.RootCandidates, cfg.Jobs, opts...)
		reportTrials(mlog, res.Trials, conv.Linedefs)
	case cfg.StepMode:
		res.Tree, res.Steps, err = stepBuild(ctx, conv.Lines, cfg.Bsp, opts...)
	default:
		res.Tree, err = bsp.Build(conv.Lines, cfg.Bsp, opts...)
	}
	if err != nil {
		if bsp.IsNonConvergence(err) {
			err = fmt.Errorf("level %s could not be built, map is likely broken: %w", ref.Name, err)
		}
		res.Err = err
		return res
	}

	st := res.Tree.Stats()
	mlog.Printf("  %d nodes, %d subsectors, %d segments, %d minisegs, %d vertices, depth %d\n",
		st.Nodes, st.Subsectors, st.Segments, st.Minisegs, st.Vertices, st.Depth)
	if cfg.StepMode {
		mlog.Verbose(1, "  %d transitions\n", res.Steps)
	}

	if cfg.DumpDir != "" {
		path := filepath.Join(cfg.DumpDir, ref.Name+".yaml")
		if err := fc.WriteOutput(path, func(w io.Writer) error {
			return WriteDump(w, res)
		}); err != nil {
			res.Err = err
			return res
		}
		mlog.Verbose(1, "  Written %s\n", path)
	}
	if cfg.PngDir != "" {
		path := filepath.Join(cfg.PngDir, ref.Name+".png")
		if err := fc.WriteOutput(path, func(w io.Writer) error {
			return WritePNG(w, res.Tree, cfg.PngSize)
		}); err != nil {
			res.Err = err
			return res
		}
		mlog.Verbose(1, "  Written %s\n", path)
	}
	return res
}

// stepBuild drives a single-step builder to completion, one transition per
// Execute call, checking ctx between transitions
func stepBuild(ctx context.Context, lines []bsp.Line, cfg bsp.Config,
	opts ...bsp.Option) (*bsp.Tree, int, error) {
	b, err := bsp.NewBuilder(lines, cfg, opts...)
	if err != nil {
		return nil, 0, err
	}
	steps := 0
	for !b.Done() {
		if err := ctx.Err(); err != nil {
			return nil, steps, err
		}
		if _, err := b.Execute(); err != nil {
			return nil, steps, err
		}
		steps++
	}
	return b.Tree(), steps, nil
}

// reportTrials lists the root search trials by the linedef of their root
// splitter
func reportTrials(mlog *MiniLogger, trials []bsp.RootTrial, linedefs []int) {
	for _, trial := range trials {
		linedef := linedefs[trial.Line]
		if trial.Err != nil {
			mlog.Verbose(1, "  Root linedef %d (score %d): %s\n", linedef,
				trial.Score.Score, trial.Err)
			continue
		}
		st := trial.Tree.Stats()
		mlog.Verbose(1, "  Root linedef %d (score %d): %d subsectors, %d segments, depth %d\n",
			linedef, trial.Score.Score, st.Subsectors, st.Segments+st.Minisegs, st.Depth)
	}
}
