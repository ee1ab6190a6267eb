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

// builder_test.go
package bsp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildConvexSquareIsOneLeaf(t *testing.T) {
	tree := buildTree(t, unitSquare())

	require.Empty(t, tree.Nodes)
	require.Len(t, tree.Subsectors, 1)
	require.True(t, tree.Root.IsLeaf())

	ss := tree.Subsectors[0]
	require.Equal(t, "", ss.BranchPath)
	require.Len(t, ss.Segments, 4)
	require.Equal(t, 0, ss.Sector)
	requireClosedLoop(t, ss)
	require.InDelta(t, 1.0, leafArea(ss), 1e-9)
}

func TestBuildLShape(t *testing.T) {
	tree := buildTree(t, lShape())

	require.Len(t, tree.Nodes, 1)
	require.Len(t, tree.Subsectors, 2)
	root := tree.Root
	require.False(t, root.IsLeaf())
	require.Equal(t, 2, root.Splitter.Line)
	require.Same(t, root, tree.Nodes[0])

	left := subsectorByBranch(t, tree, "L")
	right := subsectorByBranch(t, tree, "R")
	// Left is built first
	require.Equal(t, 0, left.Index)
	require.Equal(t, 1, right.Index)
	require.Len(t, left.Segments, 4)
	require.Len(t, right.Segments, 5)
	require.Same(t, left, root.Left.Subsector)
	require.Same(t, right, root.Right.Subsector)

	for _, ss := range tree.Subsectors {
		requireClosedLoop(t, ss)
		require.Equal(t, 0, ss.Sector)
	}
	require.InDelta(t, 1.0, leafArea(left), 1e-9)
	require.InDelta(t, 2.0, leafArea(right), 1e-9)

	stats := tree.Stats()
	require.Equal(t, 1, stats.Nodes)
	require.Equal(t, 2, stats.Subsectors)
	require.Equal(t, 1, stats.Minisegs)
	require.Equal(t, 1, stats.Splits)
	require.Equal(t, 1, stats.Depth)
	// Six corners plus the split of the bottom line at (1, 0)
	require.Equal(t, 7, stats.Vertices)
}

func TestBuildLShapeMinisegClosesBothHalves(t *testing.T) {
	tree := buildTree(t, lShape())

	var minis []*Segment
	for _, seg := range tree.Segments {
		if seg.IsMiniseg() {
			minis = append(minis, seg)
		}
	}
	require.Len(t, minis, 1)
	mini := minis[0]
	require.Equal(t, v(1, 1), mini.Start)
	require.Equal(t, v(1, 0), mini.End)
	require.Equal(t, NO_SECTOR, mini.FrontSector)
	require.Equal(t, NO_SECTOR, mini.BackSector)

	for _, ss := range tree.Subsectors {
		require.Contains(t, ss.Segments, mini)
	}
}

func TestBuildBranchRightPicksOtherReflexLine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BranchRight = true
	tree, err := Build(lShape(), cfg)
	require.NoError(t, err)
	require.Equal(t, 3, tree.Root.Splitter.Line)
	require.Len(t, tree.Subsectors, 2)
}

func TestBuildTwoRooms(t *testing.T) {
	tree := buildTree(t, twoRooms())

	require.Len(t, tree.Nodes, 1)
	require.Equal(t, 6, tree.Root.Splitter.Line)
	require.Len(t, tree.Subsectors, 2)
	require.Zero(t, tree.Stats().Minisegs)

	west := tree.Locate(v(2, 2))
	east := tree.Locate(v(6, 2))
	require.NotNil(t, west)
	require.NotNil(t, east)
	require.Equal(t, 0, west.Sector)
	require.Equal(t, 1, east.Sector)
	require.Len(t, west.Segments, 4)
	require.Len(t, east.Segments, 4)

	for _, ss := range tree.Subsectors {
		requireClosedLoop(t, ss)
		require.InDelta(t, 16.0, leafArea(ss), 1e-9)
	}

	// The shared line is walked backwards from the east, facing sector 1
	for _, e := range east.Edges {
		if tree.Segments[e.Segment].Line == 6 {
			require.True(t, e.Reversed)
			require.Equal(t, 1, e.Sector)
		}
	}
}

func TestBuildTerminatesWithConvexLeaves(t *testing.T) {
	maps := map[string][]Line{
		"star3":  star(3),
		"star5":  star(5),
		"star7":  star(7),
		"star11": star(11),
		"ledge":  uWithLedge(),
	}
	checker := NewConvexityChecker(DEFAULT_WELD_EPSILON)
	for name, lines := range maps {
		t.Run(name, func(t *testing.T) {
			tree, err := Build(lines, DefaultConfig())
			require.NoError(t, err)
			require.Greater(t, len(tree.Subsectors), 1)
			require.Equal(t, len(tree.Subsectors), len(tree.Nodes)+1)

			for _, ss := range tree.Subsectors {
				require.GreaterOrEqual(t, len(ss.Segments), 3)
				require.True(t, checker.IsConvex(ss.Segments),
					"subsector %d (%s) is not convex", ss.Index, ss.BranchPath)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, lines := range [][]Line{lShape(), twoRooms(), star(7)} {
		first := buildTree(t, lines).Summary()
		second := buildTree(t, lines).Summary()
		require.Equal(t, first, second)
	}
}

func TestSingleStepMatchesBatch(t *testing.T) {
	for _, lines := range [][]Line{unitSquare(), lShape(), twoRooms(), star(5)} {
		batch := buildTree(t, lines)

		b := newTestBuilder(t, lines, WithMode(MODE_SINGLE_STEP))
		steps := 0
		for !b.Done() {
			_, err := b.Execute()
			require.NoError(t, err)
			steps++
		}
		require.NotNil(t, b.Tree())
		require.Greater(t, steps, 1)
		require.Equal(t, batch.Summary(), b.Tree().Summary())

		// Build drives a single stepping builder to the end as well
		again, err := newTestBuilder(t, lines, WithMode(MODE_SINGLE_STEP)).Build()
		require.NoError(t, err)
		require.Equal(t, batch.Summary(), again.Summary())
	}
}

func TestSingleStepStates(t *testing.T) {
	b := newTestBuilder(t, lShape(), WithMode(MODE_SINGLE_STEP))
	require.Equal(t, STATE_NOT_STARTED, b.State())
	require.Equal(t, MODE_SINGLE_STEP, b.Mode())
	require.Equal(t, 1, b.Pending())

	expected := []State{
		STATE_CHECKING_CONVEXITY,
		STATE_FINDING_SPLITTER,
		STATE_PARTITIONING_SEGMENTS,
		STATE_GENERATING_MINISEGS,
		STATE_FINISHING_SPLIT,
		STATE_CHECKING_CONVEXITY,
		STATE_CREATING_LEAF_NODE,
		STATE_CHECKING_CONVEXITY,
		STATE_CREATING_LEAF_NODE,
		STATE_COMPLETE,
	}
	for i, want := range expected {
		state, err := b.Execute()
		require.NoError(t, err)
		require.Equalf(t, want, state, "transition %d", i)

		switch state {
		case STATE_PARTITIONING_SEGMENTS:
			require.NotNil(t, b.Splitter())
			require.Equal(t, 2, b.Splitter().Line)
		case STATE_GENERATING_MINISEGS:
			p := b.Partition()
			require.NotNil(t, p)
			require.Len(t, p.Left, 3)
			require.Len(t, p.Right, 4)
		case STATE_FINISHING_SPLIT:
			require.Len(t, b.Partition().Minisegs, 1)
		}
		if i == 5 {
			require.Equal(t, 2, b.Pending())
			require.Equal(t, "L", b.Current().BranchPath)
		}
	}
	require.True(t, b.Done())
	require.Nil(t, b.Current())
	require.Len(t, b.Subsectors(), 2)

	// Further steps are no-ops
	state, err := b.Step()
	require.NoError(t, err)
	require.Equal(t, STATE_COMPLETE, state)
}

func TestForcedRootSplitter(t *testing.T) {
	tree := buildTree(t, lShape(), WithRootSplitter(3))
	require.Equal(t, 3, tree.Root.Splitter.Line)

	_, err := Build(lShape(), DefaultConfig(), WithRootSplitter(99))
	require.ErrorIs(t, err, ErrInvalidConfig)
	var be *BuildError
	require.ErrorAs(t, err, &be)
	require.Equal(t, STATE_FINDING_SPLITTER, be.Stage)
}

func requirePrecondition(t *testing.T, err error, target error, stage State) {
	t.Helper()
	require.ErrorIs(t, err, target)
	var be *BuildError
	require.ErrorAs(t, err, &be)
	require.Equal(t, KindPrecondition, be.Kind)
	require.Equal(t, stage, be.Stage)
	require.False(t, IsNonConvergence(err))
}

func TestBuildRejectsBadInput(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Build(nil, DefaultConfig())
		requirePrecondition(t, err, ErrEmptyInput, STATE_NOT_STARTED)
	})
	t.Run("nan", func(t *testing.T) {
		lines := unitSquare()
		lines[1].End = v(math.NaN(), 1)
		_, err := Build(lines, DefaultConfig())
		requirePrecondition(t, err, ErrInvalidPosition, STATE_NOT_STARTED)
	})
	t.Run("infinite", func(t *testing.T) {
		lines := unitSquare()
		lines[0].Start = v(math.Inf(-1), 0)
		_, err := Build(lines, DefaultConfig())
		requirePrecondition(t, err, ErrInvalidPosition, STATE_NOT_STARTED)
	})
	t.Run("zero length after welding", func(t *testing.T) {
		lines := append(unitSquare(), Line{
			Start: v(5, 5), End: v(5, 5.001), FrontSector: 0, BackSector: NO_SECTOR,
		})
		_, err := Build(lines, DefaultConfig())
		requirePrecondition(t, err, ErrDegenerateSegment, STATE_NOT_STARTED)
	})
	t.Run("no front sector", func(t *testing.T) {
		lines := unitSquare()
		lines[2].FrontSector = -1
		_, err := Build(lines, DefaultConfig())
		requirePrecondition(t, err, ErrInvalidSector, STATE_NOT_STARTED)
	})
	t.Run("bad config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WeldEpsilon = 0
		_, err := Build(unitSquare(), cfg)
		requirePrecondition(t, err, ErrInvalidConfig, STATE_NOT_STARTED)
	})
	t.Run("only dangling lines", func(t *testing.T) {
		lines := []Line{{Start: v(0, 0), End: v(1, 0), FrontSector: 0, BackSector: NO_SECTOR}}
		_, err := Build(lines, DefaultConfig())
		requirePrecondition(t, err, ErrEmptyInput, STATE_NOT_STARTED)
	})
}

func TestBuildRejectsDegenerateRegions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PruneDanglingChains = false

	_, err := Build([]Line{
		{Start: v(0, 0), End: v(1, 0), FrontSector: 0, BackSector: NO_SECTOR},
		{Start: v(1, 0), End: v(1, 1), FrontSector: 0, BackSector: NO_SECTOR},
	}, cfg)
	requirePrecondition(t, err, ErrTooFewSegments, STATE_CHECKING_CONVEXITY)

	_, err = Build([]Line{
		{Start: v(0, 0), End: v(1, 0), FrontSector: 0, BackSector: NO_SECTOR},
		{Start: v(1, 0), End: v(2, 0), FrontSector: 0, BackSector: NO_SECTOR},
		{Start: v(2, 0), End: v(3, 0), FrontSector: 0, BackSector: NO_SECTOR},
	}, cfg)
	requirePrecondition(t, err, ErrCollinearRegion, STATE_CHECKING_CONVEXITY)
}

func TestBuildRecursionOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	b, err := NewBuilder(lShape(), cfg)
	require.NoError(t, err)

	_, err = b.Build()
	require.Error(t, err)
	require.True(t, IsNonConvergence(err))
	require.ErrorIs(t, err, ErrRecursionOverflow)
	var be *BuildError
	require.ErrorAs(t, err, &be)
	require.Equal(t, KindNonConvergence, be.Kind)
	require.Equal(t, STATE_CHECKING_CONVEXITY, be.Stage)
	require.Equal(t, "L", be.BranchPath)
	require.Contains(t, be.Error(), "branch L")

	// The error sticks
	_, again := b.Step()
	require.Same(t, be, again.(*BuildError))
	require.Same(t, be, b.Err().(*BuildError))
	require.Nil(t, b.Tree())
}

func TestDuplicateLinesAreDropped(t *testing.T) {
	lines := unitSquare()
	// Same vertex pair as line 0, walked the other way
	lines = append(lines, Line{Start: v(0, 1), End: v(0, 0), FrontSector: 3, BackSector: NO_SECTOR})
	b := newTestBuilder(t, lines)
	require.Len(t, b.Current().Segments, 4)
	require.Equal(t, 4, b.Segments().Len())
	require.Equal(t, 4, b.Vertices().Len())

	tree, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 0, tree.Subsectors[0].Sector)
}

func TestDanglingChainIsPrunedBeforeBuilding(t *testing.T) {
	lines := append(unitSquare(),
		Line{Start: v(1, 1), End: v(2, 2), FrontSector: 0, BackSector: NO_SECTOR},
		Line{Start: v(2, 2), End: v(3, 2), FrontSector: 0, BackSector: NO_SECTOR},
	)
	tree := buildTree(t, lines)
	require.Len(t, tree.Subsectors, 1)
	require.Len(t, tree.Subsectors[0].Segments, 4)
}

func TestBuildErrorMessage(t *testing.T) {
	err := &BuildError{
		Kind:  KindPrecondition,
		Stage: STATE_NOT_STARTED,
		Err:   ErrEmptyInput,
	}
	require.Equal(t, "bsp precondition violation at NotStarted (branch <root>): no lines to build from",
		err.Error())
	require.True(t, errors.Is(err, ErrEmptyInput))
}

func TestLocate(t *testing.T) {
	tree := buildTree(t, lShape())

	require.Equal(t, "R", tree.Locate(v(0.5, 1.5)).BranchPath)
	require.Equal(t, "R", tree.Locate(v(0.5, 0.5)).BranchPath)
	require.Equal(t, "L", tree.Locate(v(1.5, 0.5)).BranchPath)
	// On the splitter line
	require.Equal(t, "R", tree.Locate(v(1, 0.5)).BranchPath)
}

func TestWalkVisitsLeftFirst(t *testing.T) {
	tree := buildTree(t, lShape())
	var paths []string
	tree.Walk(func(n *Node, depth int) bool {
		require.Equal(t, len(n.BranchPath), depth)
		paths = append(paths, n.BranchPath)
		return true
	})
	require.Equal(t, []string{"", "L", "R"}, paths)

	visited := 0
	tree.Walk(func(n *Node, depth int) bool {
		visited++
		return false
	})
	require.Equal(t, 1, visited)
}

func BenchmarkBuildStar(b *testing.B) {
	lines := star(24)
	cfg := DefaultConfig()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Build(lines, cfg); err != nil {
			b.Fatalf("build failed: %v", err)
		}
	}
}
