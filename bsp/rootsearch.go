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

// rootsearch.go
package bsp

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Bruteforce solution for the root node only: the best scoring root
// splitter is not always the one giving the best tree, so several of the
// top candidates get a whole tree built each and the best tree is kept.
//
// Every trial owns its builder and allocators, so trials share nothing
// mutable and run in parallel.

// RootTrial is the outcome of building with one forced root splitter
type RootTrial struct {
	Line  int
	Score SplitScore
	Tree  *Tree
	Err   error
}

// betterTree compares by fewest subsectors, then fewest segments, then
// smallest depth
func betterTree(a, b TreeStats) bool {
	if a.Subsectors != b.Subsectors {
		return a.Subsectors < b.Subsectors
	}
	segsA := a.Segments + a.Minisegs
	segsB := b.Segments + b.Minisegs
	if segsA != segsB {
		return segsA < segsB
	}
	return a.Depth < b.Depth
}

// rootCandidates lists the root splitter lines in order of increasing
// score, keeping at most limit of them. Candidates that divide nothing are
// left out.
func rootCandidates(b *Builder, limit int) []RootTrial {
	segs := b.Current().Segments
	var trials []RootTrial
	for _, seg := range b.selector.Candidates(segs) {
		sc := b.selector.Score(seg, segs)
		if sc.Score == WORST_SCORE {
			continue
		}
		trials = append(trials, RootTrial{Line: seg.Line, Score: sc})
	}
	sort.SliceStable(trials, func(i, j int) bool {
		return trials[i].Score.Score < trials[j].Score.Score
	})
	if len(trials) > limit {
		trials = trials[:limit]
	}
	return trials
}

// SearchRoot builds trees for up to candidates different root splitters,
// at most workers at a time, and returns the best tree along with every
// trial. A map that is convex as a whole has nothing to search and is built
// once. Trials that fail are kept in the result; the search only fails when
// all of them do (returning the first error) or ctx is cancelled.
func SearchRoot(ctx context.Context, lines []Line, cfg Config, candidates,
	workers int, opts ...Option) (*Tree, []RootTrial, error) {
	probe, err := NewBuilder(lines, cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	convex, err := probe.convexity.Check(probe.Current().Segments)
	if err != nil || convex || candidates <= 1 {
		tree, err := probe.Build()
		return tree, nil, err
	}

	trials := rootCandidates(probe, candidates)
	if len(trials) == 0 {
		tree, err := probe.Build()
		return tree, nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range trials {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// probe already reported on the input lines
			trialOpts := append(opts[:len(opts):len(opts)],
				WithRootSplitter(trials[i].Line), withQuietInput())
			trials[i].Tree, trials[i].Err = Build(lines, cfg, trialOpts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, trials, err
	}

	var best *Tree
	var bestStats TreeStats
	var firstErr error
	for _, trial := range trials {
		if trial.Err != nil {
			if firstErr == nil {
				firstErr = trial.Err
			}
			continue
		}
		stats := trial.Tree.Stats()
		if best == nil || betterTree(stats, bestStats) {
			best = trial.Tree
			bestStats = stats
		}
	}
	if best == nil {
		return nil, trials, firstErr
	}
	return best, trials, nil
}
