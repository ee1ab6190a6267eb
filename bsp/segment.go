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

// segment.go
package bsp

import (
	"fmt"
)

const (
	NO_SECTOR = -1 // back sector of a one-sided segment, both sectors of a miniseg
	NO_LINE   = -1 // source line of a miniseg
)

// Segment is a directed edge between two pooled vertices. Segments are never
// mutated after creation: splitting one produces two new segments.
type Segment struct {
	Index      int
	StartIndex int
	EndIndex   int
	// Positions are cached from the vertex pool, which never moves vertices
	Start, End Vec2
	// Group of segments lying on the same infinite line
	CollinearIndex int
	FrontSector    int
	BackSector     int
	// Index of the map line this segment (or what it was split from) came
	// from, NO_LINE for minisegs
	Line int
}

func (s *Segment) IsMiniseg() bool {
	return s.Line == NO_LINE
}

// OneSided segments are walls: void behind them
func (s *Segment) OneSided() bool {
	return !s.IsMiniseg() && s.BackSector == NO_SECTOR
}

func (s *Segment) TwoSided() bool {
	return !s.IsMiniseg() && s.BackSector != NO_SECTOR
}

func (s *Segment) Delta() Vec2 {
	return s.End.Sub(s.Start)
}

func (s *Segment) Length() float64 {
	return s.Delta().Length()
}

// FromTime returns the point at parameter t, 0 being Start and 1 being End
func (s *Segment) FromTime(t float64) Vec2 {
	return s.Start.Add(s.Delta().Scale(t))
}

func (s *Segment) Side(p Vec2, epsilon float64) Side {
	return sideOf(s.Start, s.End, p, epsilon)
}

func (s *Segment) IsAxisAligned() bool {
	return s.Start.X == s.End.X || s.Start.Y == s.End.Y
}

func (s *Segment) SharesEndpoint(o *Segment) bool {
	return s.StartIndex == o.StartIndex || s.StartIndex == o.EndIndex ||
		s.EndIndex == o.StartIndex || s.EndIndex == o.EndIndex
}

// SameDirection is true when the two segments point into the same
// half-plane of directions
func (s *Segment) SameDirection(o *Segment) bool {
	return s.Delta().Dot(o.Delta()) > 0
}

func (s *Segment) Parallel(o *Segment) bool {
	return parallelDirections(s.Delta(), o.Delta())
}

// Opposite returns the index of the endpoint that isn't vertex
func (s *Segment) Opposite(vertex int) int {
	if s.StartIndex == vertex {
		return s.EndIndex
	}
	return s.StartIndex
}

func (s *Segment) String() string {
	kind := "seg"
	if s.IsMiniseg() {
		kind = "miniseg"
	}
	return fmt.Sprintf("%s #%d [%d->%d] %v->%v", kind, s.Index, s.StartIndex,
		s.EndIndex, s.Start, s.End)
}

type segmentKey struct {
	lo, hi int
}

func makeSegmentKey(a, b int) segmentKey {
	if a > b {
		a, b = b, a
	}
	return segmentKey{a, b}
}

// SegmentAllocator owns every segment of a build
type SegmentAllocator struct {
	vertices  *VertexAllocator
	collinear *CollinearTracker
	segments  []*Segment
	byKey     map[segmentKey]int
}

func NewSegmentAllocator(vertices *VertexAllocator, collinear *CollinearTracker) *SegmentAllocator {
	return &SegmentAllocator{
		vertices:  vertices,
		collinear: collinear,
		byKey:     make(map[segmentKey]int),
	}
}

// Create returns a segment from start to end. If a segment already joins
// these two vertices (in either direction) that one is returned instead.
// Use NO_SECTOR for the back of a one-sided line.
func (a *SegmentAllocator) Create(start, end int, front, back, line int) (*Segment, error) {
	if start == end {
		return nil, fmt.Errorf("%w: both ends are vertex %d at %v",
			ErrDegenerateSegment, start, a.vertices.Position(start))
	}
	key := makeSegmentKey(start, end)
	if idx, ok := a.byKey[key]; ok {
		return a.segments[idx], nil
	}
	startPos := a.vertices.Position(start)
	endPos := a.vertices.Position(end)
	seg := &Segment{
		Index:          len(a.segments),
		StartIndex:     start,
		EndIndex:       end,
		Start:          startPos,
		End:            endPos,
		CollinearIndex: a.collinear.GetOrAssign(startPos, endPos),
		FrontSector:    front,
		BackSector:     back,
		Line:           line,
	}
	a.segments = append(a.segments, seg)
	a.byKey[key] = seg.Index
	return seg, nil
}

func (a *SegmentAllocator) CreateMiniseg(start, end int) (*Segment, error) {
	return a.Create(start, end, NO_SECTOR, NO_SECTOR, NO_LINE)
}

// Split cuts seg at parameter t into two new segments sharing a new (or
// welded) middle vertex. The first returned segment starts at seg.Start.
func (a *SegmentAllocator) Split(seg *Segment, t float64) (*Segment, *Segment, error) {
	if !(t > 0 && t < 1) {
		return nil, nil, fmt.Errorf("%w: split of %v at t=%v outside the segment",
			ErrDegenerateSegment, seg, t)
	}
	middle := a.vertices.GetOrCreate(seg.FromTime(t))
	if middle == seg.StartIndex || middle == seg.EndIndex {
		return nil, nil, fmt.Errorf("%w: split of %v at t=%v welds onto an endpoint",
			ErrDegenerateSegment, seg, t)
	}
	first, err := a.Create(seg.StartIndex, middle, seg.FrontSector, seg.BackSector, seg.Line)
	if err != nil {
		return nil, nil, err
	}
	second, err := a.Create(middle, seg.EndIndex, seg.FrontSector, seg.BackSector, seg.Line)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (a *SegmentAllocator) ContainsSegment(start, end int) bool {
	_, ok := a.byKey[makeSegmentKey(start, end)]
	return ok
}

// Lookup returns the segment joining the two vertices, if any
func (a *SegmentAllocator) Lookup(start, end int) (*Segment, bool) {
	idx, ok := a.byKey[makeSegmentKey(start, end)]
	if !ok {
		return nil, false
	}
	return a.segments[idx], true
}

func (a *SegmentAllocator) Get(idx int) *Segment {
	return a.segments[idx]
}

func (a *SegmentAllocator) Len() int {
	return len(a.segments)
}

// Segments returns every segment ever created, ordered by index. The slice
// is a copy, the segments are not.
func (a *SegmentAllocator) Segments() []*Segment {
	ret := make([]*Segment, len(a.segments))
	copy(ret, a.segments)
	return ret
}

// SegmentsByCollinearGroup buckets segments by collinear group id
func (a *SegmentAllocator) SegmentsByCollinearGroup() [][]*Segment {
	ret := make([][]*Segment, a.collinear.Count())
	for _, seg := range a.segments {
		ret[seg.CollinearIndex] = append(ret[seg.CollinearIndex], seg)
	}
	return ret
}
