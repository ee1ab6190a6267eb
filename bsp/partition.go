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

// partition.go
package bsp

import (
	"fmt"
)

// Partition is the outcome of dividing one region by a splitter
type Partition struct {
	Splitter *Segment
	Left     []*Segment
	Right    []*Segment
	// Every vertex found on the splitter line: endpoints of collinear
	// segments, endpoints touching the line, and new split vertices. May
	// contain repeats.
	CollinearVertices []int
	// Vertex pairs of the segments lying on the splitter line. Stretches
	// of the line they cover need no miniseg.
	CollinearSpans [][2]int
	// Both halves of every segment split, in split order
	SplitPieces []*Segment
	// Filled in by MinisegGenerator.Generate
	Minisegs []*Segment
}

func (p *Partition) addCollinear(seg *Segment) {
	p.CollinearVertices = append(p.CollinearVertices, seg.StartIndex, seg.EndIndex)
	p.CollinearSpans = append(p.CollinearSpans, [2]int{seg.StartIndex, seg.EndIndex})
}

// Partitioner divides a region's segments by a splitter, splitting the ones
// that straddle it
type Partitioner struct {
	epsilon   float64
	segments  *SegmentAllocator
	junctions *JunctionClassifier
}

func NewPartitioner(cfg Config, segments *SegmentAllocator, junctions *JunctionClassifier) *Partitioner {
	return &Partitioner{
		epsilon:   cfg.WeldEpsilon,
		segments:  segments,
		junctions: junctions,
	}
}

// Partition assigns every segment to the left side, the right side, or, for
// two-sided segments lying on the splitter line, both. Segments crossing the
// line are replaced by their two halves.
func (pt *Partitioner) Partition(segments []*Segment, splitter *Segment) (*Partition, error) {
	p := &Partition{Splitter: splitter}
	for _, seg := range segments {
		if seg == splitter {
			pt.handleSplitter(p, splitter)
			continue
		}
		class, startSide, endSide := classify(splitter, seg, pt.epsilon)
		switch class {
		case CLASS_COLLINEAR:
			pt.handleCollinear(p, splitter, seg)
		case CLASS_RIGHT:
			p.Right = append(p.Right, seg)
			pt.recordTouch(p, seg, startSide, endSide)
		case CLASS_LEFT:
			p.Left = append(p.Left, seg)
			pt.recordTouch(p, seg, startSide, endSide)
		case CLASS_SPLIT:
			if err := pt.handleSplit(p, splitter, seg, startSide); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// The splitter's own endpoints must reach the collinear set even when
// nothing else touches the line, otherwise minisegs would have no anchor
func (pt *Partitioner) handleSplitter(p *Partition, splitter *Segment) {
	p.addCollinear(splitter)
	p.Right = append(p.Right, splitter)
	if !splitter.OneSided() {
		p.Left = append(p.Left, splitter)
	}
}

func (pt *Partitioner) handleCollinear(p *Partition, splitter, seg *Segment) {
	p.addCollinear(seg)
	// The back of a wall doesn't exist, so only the side facing its front
	// gets it
	if seg.OneSided() {
		if splitter.SameDirection(seg) {
			p.Right = append(p.Right, seg)
		} else {
			p.Left = append(p.Left, seg)
		}
		return
	}
	p.Right = append(p.Right, seg)
	p.Left = append(p.Left, seg)
}

func (pt *Partitioner) recordTouch(p *Partition, seg *Segment, startSide, endSide Side) {
	if startSide == SIDE_ON {
		p.CollinearVertices = append(p.CollinearVertices, seg.StartIndex)
	}
	if endSide == SIDE_ON {
		p.CollinearVertices = append(p.CollinearVertices, seg.EndIndex)
	}
}

func (pt *Partitioner) handleSplit(p *Partition, splitter, seg *Segment, startSide Side) error {
	t, _, ok := lineIntersection(seg.Start, seg.End, splitter.Start, splitter.End)
	if !ok {
		return fmt.Errorf("%w: %v straddles splitter %v but is parallel to it",
			ErrAmbiguousSide, seg, splitter)
	}
	first, second, err := pt.segments.Split(seg, t)
	if err != nil {
		return err
	}
	// first holds seg.Start, whose side is known and not on the line
	if startSide == SIDE_RIGHT {
		p.Right = append(p.Right, first)
		p.Left = append(p.Left, second)
	} else {
		p.Left = append(p.Left, first)
		p.Right = append(p.Right, second)
	}
	p.CollinearVertices = append(p.CollinearVertices, first.EndIndex)
	p.SplitPieces = append(p.SplitPieces, first, second)
	if seg.OneSided() {
		pt.junctions.AddSplit(first, second)
	}
	return nil
}
