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

// convexity.go
package bsp

import (
	"fmt"
	"math"
	"sort"
)

// ConvexityChecker tells leaves apart from regions that need splitting
type ConvexityChecker struct {
	epsilon float64
}

func NewConvexityChecker(epsilon float64) *ConvexityChecker {
	return &ConvexityChecker{epsilon: epsilon}
}

// endpointSide is the side of vertex idx (at pos) against seg, shared
// vertices being on the line by definition
func (c *ConvexityChecker) endpointSide(seg *Segment, idx int, pos Vec2) Side {
	if idx == seg.StartIndex || idx == seg.EndIndex {
		return SIDE_ON
	}
	return seg.Side(pos, c.epsilon)
}

// IsConvex is true when no segment's line divides the others: each segment
// sees every endpoint of the rest on its line or on one and the same side.
// Segments of a region may point either way (two-sided lines, minisegs), so
// which side that is does not matter. Stops at the first violation.
func (c *ConvexityChecker) IsConvex(segments []*Segment) bool {
	for _, seg := range segments {
		side := SIDE_ON
		for _, other := range segments {
			if other == seg {
				continue
			}
			for k := 0; k < 2; k++ {
				idx, pos := other.StartIndex, other.Start
				if k == 1 {
					idx, pos = other.EndIndex, other.End
				}
				s := c.endpointSide(seg, idx, pos)
				if s == SIDE_ON {
					continue
				}
				if side == SIDE_ON {
					side = s
				} else if s != side {
					return false
				}
			}
		}
	}
	return true
}

// allCollinear is true when every segment lies on the line of the first
func (c *ConvexityChecker) allCollinear(segments []*Segment) bool {
	first := segments[0]
	for _, seg := range segments[1:] {
		if c.endpointSide(first, seg.StartIndex, seg.Start) != SIDE_ON ||
			c.endpointSide(first, seg.EndIndex, seg.End) != SIDE_ON {
			return false
		}
	}
	return true
}

// Check is the builder's leaf test. Regions of fewer than 3 segments, or
// of segments all on one line, enclose nothing and can't be valid input.
func (c *ConvexityChecker) Check(segments []*Segment) (bool, error) {
	if len(segments) < 3 {
		return false, fmt.Errorf("%w: got %d", ErrTooFewSegments, len(segments))
	}
	if c.allCollinear(segments) {
		return false, fmt.Errorf("%w: %d segments on the line of %v",
			ErrCollinearRegion, len(segments), segments[0])
	}
	return c.IsConvex(segments), nil
}

// SubsectorEdge is one side of a leaf polygon, oriented so that the leaf
// interior is on its right
type SubsectorEdge struct {
	StartIndex int
	EndIndex   int
	Start, End Vec2
	// Index of the segment in the segment pool
	Segment int
	// Traversed against the direction of the segment
	Reversed bool
	Miniseg  bool
	// Sector on the interior side, NO_SECTOR for minisegs
	Sector int
}

// ClockwiseEdges orients the segments of a convex region so that the region
// is on their right and orders them clockwise around its centroid
func (c *ConvexityChecker) ClockwiseEdges(segments []*Segment) []SubsectorEdge {
	centroid := regionCentroid(segments)
	edges := make([]SubsectorEdge, 0, len(segments))
	for _, seg := range segments {
		e := SubsectorEdge{
			StartIndex: seg.StartIndex,
			EndIndex:   seg.EndIndex,
			Start:      seg.Start,
			End:        seg.End,
			Segment:    seg.Index,
			Miniseg:    seg.IsMiniseg(),
			Sector:     seg.FrontSector,
		}
		if perpDistance(seg.Start, seg.End, centroid) > 0 {
			e.Reversed = true
			e.StartIndex, e.EndIndex = e.EndIndex, e.StartIndex
			e.Start, e.End = e.End, e.Start
			e.Sector = seg.BackSector
		}
		if e.Miniseg {
			e.Sector = NO_SECTOR
		}
		edges = append(edges, e)
	}
	angle := func(e SubsectorEdge) float64 {
		d := e.Start.Sub(centroid)
		return math.Atan2(d.Y, d.X)
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return angle(edges[i]) > angle(edges[j])
	})
	return edges
}

// regionCentroid averages the distinct vertices of the region
func regionCentroid(segments []*Segment) Vec2 {
	seen := make(map[int]bool, len(segments)*2)
	var sum Vec2
	n := 0
	for _, seg := range segments {
		if !seen[seg.StartIndex] {
			seen[seg.StartIndex] = true
			sum = sum.Add(seg.Start)
			n++
		}
		if !seen[seg.EndIndex] {
			seen[seg.EndIndex] = true
			sum = sum.Add(seg.End)
			n++
		}
	}
	if n == 0 {
		return sum
	}
	return sum.Scale(1.0 / float64(n))
}
