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

// miniseg.go
package bsp

import (
	"sort"
)

// Vertex on the splitter line with its parameter along the splitter
type collinearVertex struct {
	index int
	t     float64
}

// Parameter interval of the splitter line covered by a collinear segment
type coveredSpan struct {
	lo, hi float64
}

// MinisegGenerator closes the two halves of a partitioned region by adding
// the stretches of the splitter line that lie inside the map
type MinisegGenerator struct {
	epsilon   float64
	vertices  *VertexAllocator
	segments  *SegmentAllocator
	junctions *JunctionClassifier
}

func NewMinisegGenerator(cfg Config, vertices *VertexAllocator,
	segments *SegmentAllocator, junctions *JunctionClassifier) *MinisegGenerator {
	return &MinisegGenerator{
		epsilon:   cfg.WeldEpsilon,
		vertices:  vertices,
		segments:  segments,
		junctions: junctions,
	}
}

// splitterTime projects a position onto the splitter, 0 at its start and 1
// at its end
func splitterTime(splitter *Segment, pos Vec2) float64 {
	d := splitter.Delta()
	return pos.Sub(splitter.Start).Dot(d) / d.Dot(d)
}

// sortedCollinearVertices dedups the collinear vertices and orders them along
// the splitter, ties broken by vertex index
func (g *MinisegGenerator) sortedCollinearVertices(p *Partition) []collinearVertex {
	seen := make(map[int]bool, len(p.CollinearVertices))
	verts := make([]collinearVertex, 0, len(p.CollinearVertices))
	for _, idx := range p.CollinearVertices {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		verts = append(verts, collinearVertex{
			index: idx,
			t:     splitterTime(p.Splitter, g.vertices.Position(idx)),
		})
	}
	sort.Slice(verts, func(i, j int) bool {
		if verts[i].t != verts[j].t {
			return verts[i].t < verts[j].t
		}
		return verts[i].index < verts[j].index
	})
	return verts
}

func (g *MinisegGenerator) coveredSpans(p *Partition) []coveredSpan {
	spans := make([]coveredSpan, 0, len(p.CollinearSpans))
	for _, pair := range p.CollinearSpans {
		t1 := splitterTime(p.Splitter, g.vertices.Position(pair[0]))
		t2 := splitterTime(p.Splitter, g.vertices.Position(pair[1]))
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		spans = append(spans, coveredSpan{lo: t1, hi: t2})
	}
	return spans
}

func covered(spans []coveredSpan, t float64) bool {
	for _, s := range spans {
		if t > s.lo && t < s.hi {
			return true
		}
	}
	return false
}

// voidBetween asks the junction at the first vertex whether heading for the
// second leaves the map. If the first vertex has no walls, the second one is
// asked about the way back. With no walls at either end the gap is inside
// the map: it runs between split points of two-sided lines.
func (g *MinisegGenerator) voidBetween(first, second int) bool {
	firstPos := g.vertices.Position(first)
	secondPos := g.vertices.Position(second)
	if void, known := g.junctions.CrossesVoid(first, secondPos); known {
		return void
	}
	if void, known := g.junctions.CrossesVoid(second, firstPos); known {
		return void
	}
	return false
}

// Generate creates the minisegs for a partition and stores them in it. Gaps
// between consecutive collinear vertices get a miniseg unless a collinear
// segment already covers them or they cross the void. A splitter touching
// the region in a single vertex yields no miniseg at all.
func (g *MinisegGenerator) Generate(p *Partition) ([]*Segment, error) {
	verts := g.sortedCollinearVertices(p)
	spans := g.coveredSpans(p)
	p.Minisegs = p.Minisegs[:0]
	for i := 1; i < len(verts); i++ {
		first := verts[i-1]
		second := verts[i]
		if first.index == second.index {
			continue
		}
		if covered(spans, (first.t+second.t)*0.5) {
			continue
		}
		if g.voidBetween(first.index, second.index) {
			continue
		}
		if seg, ok := g.segments.Lookup(first.index, second.index); ok && !seg.IsMiniseg() {
			// A real segment joins them but isn't part of this region
			continue
		}
		miniseg, err := g.segments.CreateMiniseg(first.index, second.index)
		if err != nil {
			return nil, err
		}
		p.Minisegs = append(p.Minisegs, miniseg)
	}
	return p.Minisegs, nil
}

// Close returns the segments of one side of the partition together with the
// minisegs closing it. Both sides get the same minisegs.
func (g *MinisegGenerator) Close(p *Partition, side Side) []*Segment {
	var src []*Segment
	if side == SIDE_LEFT {
		src = p.Left
	} else {
		src = p.Right
	}
	ret := make([]*Segment, 0, len(src)+len(p.Minisegs))
	ret = append(ret, src...)
	ret = append(ret, p.Minisegs...)
	return ret
}
