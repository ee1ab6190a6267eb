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

// partition_test.go
package bsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func linesOf(segs []*Segment) []int {
	ret := make([]int, 0, len(segs))
	for _, seg := range segs {
		ret = append(ret, seg.Line)
	}
	return ret
}

func TestPartitionLShape(t *testing.T) {
	b := newTestBuilder(t, lShape())
	segs := b.Current().Segments
	splitter := segmentOfLine(t, b, 2)

	p, err := b.partitioner.Partition(segs, splitter)
	require.NoError(t, err)
	require.Same(t, splitter, p.Splitter)
	require.Equal(t, []int{0, 1, 2, 5}, linesOf(p.Right))
	require.Equal(t, []int{3, 4, 5}, linesOf(p.Left))

	// Bottom line got cut at (1, 0)
	westHalf := p.Right[3]
	eastHalf := p.Left[2]
	require.Equal(t, v(1, 0), westHalf.Start)
	require.Equal(t, v(0, 0), westHalf.End)
	require.Equal(t, v(2, 0), eastHalf.Start)
	require.Equal(t, v(1, 0), eastHalf.End)
	require.Contains(t, p.CollinearVertices, westHalf.StartIndex)
	require.Equal(t, []*Segment{eastHalf, westHalf}, p.SplitPieces)

	// The new vertex knows which way the wall runs
	void, known := b.junctions.CrossesVoid(westHalf.StartIndex, v(1, 1))
	require.True(t, known)
	require.False(t, void)
}

func TestPartitionIsComplete(t *testing.T) {
	for _, lines := range [][]Line{lShape(), star(5), uWithLedge()} {
		b := newTestBuilder(t, lines)
		segs := b.Current().Segments
		splitter, _ := b.selector.Best(segs)
		require.NotNil(t, splitter)

		p, err := b.partitioner.Partition(segs, splitter)
		require.NoError(t, err)

		// Every input line is still fully present, possibly in pieces
		length := make(map[int]float64)
		for _, seg := range segs {
			length[seg.Line] -= seg.Length()
		}
		seen := make(map[*Segment]bool)
		for _, seg := range append(append([]*Segment{}, p.Left...), p.Right...) {
			if seen[seg] {
				// On both sides
				require.True(t, seg.TwoSided() || seg == splitter)
				continue
			}
			seen[seg] = true
			length[seg.Line] += seg.Length()
		}
		for line, diff := range length {
			require.InDeltaf(t, 0.0, diff, 1e-9, "line %d", line)
		}

		eps := DEFAULT_WELD_EPSILON
		for _, seg := range p.Right {
			require.NotEqual(t, SIDE_LEFT, splitter.Side(seg.Start, eps))
			require.NotEqual(t, SIDE_LEFT, splitter.Side(seg.End, eps))
		}
		for _, seg := range p.Left {
			require.NotEqual(t, SIDE_RIGHT, splitter.Side(seg.Start, eps))
			require.NotEqual(t, SIDE_RIGHT, splitter.Side(seg.End, eps))
		}
	}
}

func TestPartitionCollinearSegments(t *testing.T) {
	f := newSegFixture()
	pt := NewPartitioner(DefaultConfig(), f.segments, f.junctions)

	splitter := f.wall(t, v(0, 0), v(2, 0))
	same := f.wall(t, v(3, 0), v(4, 0))
	against := f.wall(t, v(6, 0), v(5, 0))
	door := f.seg(t, v(7, 0), v(8, 0), 0, 1)
	above := f.wall(t, v(0, 1), v(2, 1))
	below := f.wall(t, v(2, -1), v(0, -1))

	p, err := pt.Partition([]*Segment{splitter, same, against, door, above, below}, splitter)
	require.NoError(t, err)
	require.Equal(t, []*Segment{splitter, same, door, below}, p.Right)
	require.Equal(t, []*Segment{against, door, above}, p.Left)
	require.Len(t, p.CollinearSpans, 4)
	require.Len(t, p.CollinearVertices, 8)
}

func TestPartitionTwoSidedSplitterGoesBothWays(t *testing.T) {
	b := newTestBuilder(t, twoRooms())
	splitter := segmentOfLine(t, b, 6)
	p, err := b.partitioner.Partition(b.Current().Segments, splitter)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 6}, linesOf(p.Right))
	require.Equal(t, []int{3, 4, 5, 6}, linesOf(p.Left))
}
