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

// junction.go
package bsp

import (
	"sort"
)

// A wedge is the sector space at a vertex between a one-sided segment coming
// in and the one-sided segment leaving. Since fronts are on the right, the
// space is to the right of both.
type wedge struct {
	inbound  *Segment
	outbound *Segment
}

// between tells if the direction from the wedge vertex toward p points into
// sector space
func (w wedge) between(p Vec2, epsilon float64) bool {
	rightOfIn := w.inbound.Side(p, epsilon) == SIDE_RIGHT
	rightOfOut := w.outbound.Side(p, epsilon) == SIDE_RIGHT
	// Outbound turning left means the sector space spans more than 180
	// degrees, so being on the right of either one is enough
	if w.inbound.Side(w.outbound.End, epsilon) != SIDE_RIGHT {
		return rightOfIn || rightOfOut
	}
	return rightOfIn && rightOfOut
}

// Junction collects one-sided segments meeting at a vertex
type Junction struct {
	Inbound  []*Segment
	Outbound []*Segment
	wedges   []wedge
}

// angleScore is lower for the outbound segment that turns the most to the
// right after inbound, i.e. the one closing the tightest wedge
func angleScore(inbound, outbound *Segment, epsilon float64) float64 {
	back := inbound.Start.Sub(inbound.End)
	out := outbound.End.Sub(outbound.Start)
	cosTheta := out.Dot(back) / (out.Length() * back.Length())
	if inbound.Side(outbound.End, epsilon) == SIDE_RIGHT {
		return -cosTheta
	}
	return cosTheta + 2.0
}

func (j *Junction) generateWedges(epsilon float64) {
	// Dangling one-sided lines have nothing to pair with
	if len(j.Outbound) == 0 {
		return
	}
	for _, in := range j.Inbound {
		closest := j.Outbound[0]
		best := angleScore(in, closest, epsilon)
		for _, out := range j.Outbound[1:] {
			if score := angleScore(in, out, epsilon); score < best {
				best = score
				closest = out
			}
		}
		j.wedges = append(j.wedges, wedge{inbound: in, outbound: closest})
	}
}

func (j *Junction) Between(p Vec2, epsilon float64) bool {
	for _, w := range j.wedges {
		if w.between(p, epsilon) {
			return true
		}
	}
	return false
}

// JunctionClassifier answers, for a vertex on the boundary of the map,
// whether a direction leaving it goes into the void or into sector space.
// This is how minisegs avoid being placed across the outside of the map.
type JunctionClassifier struct {
	epsilon   float64
	junctions map[int]*Junction
}

func NewJunctionClassifier(epsilon float64) *JunctionClassifier {
	return &JunctionClassifier{
		epsilon:   epsilon,
		junctions: make(map[int]*Junction),
	}
}

func (c *JunctionClassifier) junctionAt(vertex int) *Junction {
	j, ok := c.junctions[vertex]
	if !ok {
		j = &Junction{}
		c.junctions[vertex] = j
	}
	return j
}

// AddOneSided registers a wall. Two-sided segments and minisegs are ignored.
// Must be called for all map walls before Finish.
func (c *JunctionClassifier) AddOneSided(seg *Segment) {
	if !seg.OneSided() {
		return
	}
	c.junctionAt(seg.EndIndex).Inbound = append(c.junctionAt(seg.EndIndex).Inbound, seg)
	c.junctionAt(seg.StartIndex).Outbound = append(c.junctionAt(seg.StartIndex).Outbound, seg)
}

// Finish pairs inbound and outbound walls at every vertex. Pairing can't be
// done incrementally since a wall added later may close a tighter wedge.
// Returns the vertices whose inbound and outbound wall counts differ, in
// ascending order; the tree built around them is likely malformed.
func (c *JunctionClassifier) Finish() []int {
	var malformed []int
	for vertex, j := range c.junctions {
		if len(j.Inbound) != len(j.Outbound) {
			malformed = append(malformed, vertex)
		}
		j.generateWedges(c.epsilon)
	}
	sort.Ints(malformed)
	return malformed
}

// AddSplit registers the new vertex where a wall got split in two: first
// comes in, second goes out, and the wedge between them is a straight line
func (c *JunctionClassifier) AddSplit(first, second *Segment) {
	j := c.junctionAt(first.EndIndex)
	j.Inbound = append(j.Inbound, first)
	j.Outbound = append(j.Outbound, second)
	j.wedges = append(j.wedges, wedge{inbound: first, outbound: second})
}

// Junction returns the junction at vertex, or nil
func (c *JunctionClassifier) Junction(vertex int) *Junction {
	return c.junctions[vertex]
}

// CrossesVoid tells whether going from vertex toward p leaves sector space.
// known is false when there are no walls at the vertex to decide from.
func (c *JunctionClassifier) CrossesVoid(vertex int, toward Vec2) (void bool, known bool) {
	j, ok := c.junctions[vertex]
	if !ok || len(j.wedges) == 0 {
		return false, false
	}
	return !j.Between(toward, c.epsilon), true
}
