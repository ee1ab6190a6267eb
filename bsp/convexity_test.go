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

// convexity_test.go
package bsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsConvex(t *testing.T) {
	c := NewConvexityChecker(DEFAULT_WELD_EPSILON)

	square := newTestBuilder(t, unitSquare()).Current().Segments
	require.True(t, c.IsConvex(square))
	convex, err := c.Check(square)
	require.NoError(t, err)
	require.True(t, convex)

	l := newTestBuilder(t, lShape()).Current().Segments
	require.False(t, c.IsConvex(l))
	convex, err = c.Check(l)
	require.NoError(t, err)
	require.False(t, convex)
}

func TestIsConvexIgnoresOrientation(t *testing.T) {
	f := newSegFixture()
	c := NewConvexityChecker(DEFAULT_WELD_EPSILON)
	segs := []*Segment{
		f.wall(t, v(0, 0), v(0, 4)),
		f.seg(t, v(4, 4), v(0, 4), 0, 1),
		f.wall(t, v(4, 4), v(4, 0)),
		f.seg(t, v(0, 0), v(4, 0), 2, 0),
	}
	require.True(t, c.IsConvex(segs))

	// A triangle with a collinear run along one side is still convex
	g := newSegFixture()
	tri := []*Segment{
		g.wall(t, v(0, 0), v(0, 6)),
		g.wall(t, v(0, 6), v(3, 3)),
		g.wall(t, v(3, 3), v(6, 0)),
		g.wall(t, v(6, 0), v(0, 0)),
	}
	require.True(t, c.IsConvex(tri))
}

func TestCheckRejectsDegenerateRegions(t *testing.T) {
	f := newSegFixture()
	c := NewConvexityChecker(DEFAULT_WELD_EPSILON)
	a := f.wall(t, v(0, 0), v(1, 0))
	b := f.wall(t, v(1, 0), v(2, 0))
	d := f.wall(t, v(2, 0), v(5, 0))

	_, err := c.Check([]*Segment{a, b})
	require.ErrorIs(t, err, ErrTooFewSegments)
	_, err = c.Check([]*Segment{a, b, d})
	require.ErrorIs(t, err, ErrCollinearRegion)
}

func TestClockwiseEdges(t *testing.T) {
	f := newSegFixture()
	c := NewConvexityChecker(DEFAULT_WELD_EPSILON)
	// A 4x4 room with two walls given backwards as two-sided lines
	north := f.seg(t, v(4, 4), v(0, 4), 5, 0)
	west := f.wall(t, v(0, 0), v(0, 4))
	east := f.wall(t, v(4, 4), v(4, 0))
	mini, err := f.segments.CreateMiniseg(f.vertices.GetOrCreate(v(0, 0)),
		f.vertices.GetOrCreate(v(4, 0)))
	require.NoError(t, err)

	edges := c.ClockwiseEdges([]*Segment{north, west, east, mini})
	require.Len(t, edges, 4)

	starts := make([]Vec2, 0, len(edges))
	for _, e := range edges {
		starts = append(starts, e.Start)
	}
	require.Equal(t, []Vec2{v(0, 4), v(4, 4), v(4, 0), v(0, 0)}, starts)

	byStart := make(map[Vec2]SubsectorEdge)
	for _, e := range edges {
		byStart[e.Start] = e
	}
	require.True(t, byStart[v(0, 4)].Reversed)
	require.Equal(t, 0, byStart[v(0, 4)].Sector)
	require.False(t, byStart[v(0, 0)].Reversed)
	require.Equal(t, 0, byStart[v(0, 0)].Sector)
	require.True(t, byStart[v(4, 0)].Reversed)
	require.True(t, byStart[v(4, 0)].Miniseg)
	require.Equal(t, NO_SECTOR, byStart[v(4, 0)].Sector)
	require.Equal(t, mini.Index, byStart[v(4, 0)].Segment)

	ss := &Subsector{Edges: edges}
	requireClosedLoop(t, ss)
	require.InDelta(t, 16.0, leafArea(ss), 1e-9)
	require.Equal(t, 0, dominantSector(edges))
}

func TestDominantSector(t *testing.T) {
	edges := []SubsectorEdge{{Sector: 3}, {Sector: 1}, {Sector: NO_SECTOR}, {Sector: 3}, {Sector: 1}}
	require.Equal(t, 1, dominantSector(edges))
	edges = append(edges, SubsectorEdge{Sector: 3})
	require.Equal(t, 3, dominantSector(edges))
	require.Equal(t, NO_SECTOR, dominantSector([]SubsectorEdge{{Sector: NO_SECTOR}}))
}
