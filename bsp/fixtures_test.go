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

// fixtures_test.go
package bsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func v(x, y float64) Vec2 {
	return Vec2{x, y}
}

// loop closes pts into one-sided lines of sector. Points must go clockwise
// so that the sector ends up on the right of every line.
func loop(sector int, pts ...Vec2) []Line {
	lines := make([]Line, 0, len(pts))
	for i := range pts {
		lines = append(lines, Line{
			Start:       pts[i],
			End:         pts[(i+1)%len(pts)],
			FrontSector: sector,
			BackSector:  NO_SECTOR,
		})
	}
	return lines
}

func unitSquare() []Line {
	return loop(0, v(0, 0), v(0, 1), v(1, 1), v(1, 0))
}

// lShape is a 2x2 square missing its top right quarter. Lines 2 and 3 are
// the reflex corner at (1, 1).
func lShape() []Line {
	return loop(0, v(0, 0), v(0, 2), v(1, 2), v(1, 1), v(2, 1), v(2, 0))
}

// twoRooms are two 4x4 sectors side by side, joined by a two-sided line at
// x = 4 (line 6). Sector 0 is west, sector 1 is east.
func twoRooms() []Line {
	return []Line{
		{Start: v(0, 0), End: v(0, 4), FrontSector: 0, BackSector: NO_SECTOR},
		{Start: v(0, 4), End: v(4, 4), FrontSector: 0, BackSector: NO_SECTOR},
		{Start: v(4, 0), End: v(0, 0), FrontSector: 0, BackSector: NO_SECTOR},
		{Start: v(4, 4), End: v(8, 4), FrontSector: 1, BackSector: NO_SECTOR},
		{Start: v(8, 4), End: v(8, 0), FrontSector: 1, BackSector: NO_SECTOR},
		{Start: v(8, 0), End: v(4, 0), FrontSector: 1, BackSector: NO_SECTOR},
		{Start: v(4, 4), End: v(4, 0), FrontSector: 0, BackSector: 1},
	}
}

// star is an irregular star with the given number of spikes, walked
// clockwise around the origin
func star(spikes int) []Line {
	pts := make([]Vec2, 0, spikes*2)
	for i := 0; i < spikes*2; i++ {
		angle := -math.Pi * float64(i) / float64(spikes)
		r := 150.0 + 7.0*float64(i)
		if i%2 == 0 {
			r = 400.0 + 13.0*float64(i)
		}
		pts = append(pts, v(r*math.Cos(angle), r*math.Sin(angle)))
	}
	return loop(0, pts...)
}

func newTestBuilder(t testing.TB, lines []Line, opts ...Option) *Builder {
	t.Helper()
	b, err := NewBuilder(lines, DefaultConfig(), opts...)
	require.NoError(t, err)
	return b
}

func buildTree(t testing.TB, lines []Line, opts ...Option) *Tree {
	t.Helper()
	tree, err := Build(lines, DefaultConfig(), opts...)
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

// leafArea is the area enclosed by the clockwise edges of a subsector
func leafArea(ss *Subsector) float64 {
	sum := 0.0
	for _, e := range ss.Edges {
		sum += e.Start.Cross(e.End)
	}
	return -sum / 2
}

func subsectorByBranch(t *testing.T, tree *Tree, branch string) *Subsector {
	t.Helper()
	for _, ss := range tree.Subsectors {
		if ss.BranchPath == branch {
			return ss
		}
	}
	require.Failf(t, "no subsector", "branch %q", branch)
	return nil
}

func requireClosedLoop(t *testing.T, ss *Subsector) {
	t.Helper()
	n := len(ss.Edges)
	for i, e := range ss.Edges {
		next := ss.Edges[(i+1)%n]
		require.Equalf(t, e.EndIndex, next.StartIndex,
			"subsector %d: edge %d ends at %d, edge %d starts at %d",
			ss.Index, i, e.EndIndex, (i+1)%n, next.StartIndex)
	}
}

// segFixture wires the allocators together without a builder, for tests
// that need hand placed segments
type segFixture struct {
	vertices  *VertexAllocator
	collinear *CollinearTracker
	segments  *SegmentAllocator
	junctions *JunctionClassifier
	lines     int
}

func newSegFixture() *segFixture {
	f := &segFixture{
		vertices:  NewVertexAllocator(DEFAULT_WELD_EPSILON),
		collinear: NewCollinearTracker(DEFAULT_WELD_EPSILON),
		junctions: NewJunctionClassifier(DEFAULT_WELD_EPSILON),
	}
	f.segments = NewSegmentAllocator(f.vertices, f.collinear)
	return f
}

func (f *segFixture) seg(t testing.TB, a, b Vec2, front, back int) *Segment {
	t.Helper()
	s, err := f.segments.Create(f.vertices.GetOrCreate(a), f.vertices.GetOrCreate(b),
		front, back, f.lines)
	require.NoError(t, err)
	f.lines++
	return s
}

func (f *segFixture) wall(t testing.TB, a, b Vec2) *Segment {
	return f.seg(t, a, b, 0, NO_SECTOR)
}

// uWithLedge is a U open at the top between x = 1 and x = 2, with a
// two-sided line (line 10) across the left arm at y = 2. The line through
// it crosses the void over the notch before reaching the right arm.
func uWithLedge() []Line {
	lines := []Line{
		{Start: v(0, 0), End: v(0, 2), FrontSector: 0},
		{Start: v(0, 2), End: v(0, 3), FrontSector: 1},
		{Start: v(0, 3), End: v(1, 3), FrontSector: 1},
		{Start: v(1, 3), End: v(1, 2), FrontSector: 1},
		{Start: v(1, 2), End: v(1, 1), FrontSector: 0},
		{Start: v(1, 1), End: v(2, 1), FrontSector: 0},
		{Start: v(2, 1), End: v(2, 3), FrontSector: 0},
		{Start: v(2, 3), End: v(3, 3), FrontSector: 0},
		{Start: v(3, 3), End: v(3, 0), FrontSector: 0},
		{Start: v(3, 0), End: v(0, 0), FrontSector: 0},
	}
	for i := range lines {
		lines[i].BackSector = NO_SECTOR
	}
	return append(lines, Line{Start: v(0, 2), End: v(1, 2), FrontSector: 0, BackSector: 1})
}

// segmentOfLine finds the segment made from input line idx in the current
// work item
func segmentOfLine(t testing.TB, b *Builder, idx int) *Segment {
	t.Helper()
	for _, seg := range b.Current().Segments {
		if seg.Line == idx {
			return seg
		}
	}
	require.Failf(t, "no segment", "line %d", idx)
	return nil
}
