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

// tree.go
package bsp

// Node is either a partition (Splitter with two children) or a leaf
// (Subsector). Children are owned by their parent only.
type Node struct {
	// Position in Tree.Nodes for partitions, -1 for leaves
	Index      int
	BranchPath string
	Splitter   *Segment
	Left       *Node
	Right      *Node
	Subsector  *Subsector
}

func (n *Node) IsLeaf() bool {
	return n.Subsector != nil
}

// Subsector is a convex leaf region
type Subsector struct {
	Index      int
	BranchPath string
	// The convex segment set the leaf was made from
	Segments []*Segment
	// The same segments oriented and ordered clockwise
	Edges []SubsectorEdge
	// Most common sector among the edges, NO_SECTOR if all are minisegs
	Sector int
}

// Tree is the output of a build. It is immutable once returned and safe for
// concurrent readers.
type Tree struct {
	Root *Node
	// Partition nodes in post order: children before their parent, the
	// root last
	Nodes      []*Node
	Subsectors []*Subsector
	Vertices   []Vertex
	Segments   []*Segment
	Splits     int
}

// Locate returns the subsector containing p. Points on a splitter line go
// right.
func (t *Tree) Locate(p Vec2) *Subsector {
	n := t.Root
	for n != nil && !n.IsLeaf() {
		if n.Splitter.Side(p, 0) == SIDE_LEFT {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if n == nil {
		return nil
	}
	return n.Subsector
}

// Walk visits nodes depth first, left before right. Returning false from fn
// skips the children of that node.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if n == nil || !fn(n, depth) {
			return
		}
		walk(n.Left, depth+1)
		walk(n.Right, depth+1)
	}
	walk(t.Root, 0)
}

type TreeStats struct {
	Nodes      int `yaml:"nodes"`
	Subsectors int `yaml:"subsectors"`
	Segments   int `yaml:"segments"`
	Minisegs   int `yaml:"minisegs"`
	Vertices   int `yaml:"vertices"`
	Depth      int `yaml:"depth"`
	Splits     int `yaml:"splits"`
}

func (t *Tree) Stats() TreeStats {
	st := TreeStats{
		Nodes:      len(t.Nodes),
		Subsectors: len(t.Subsectors),
		Vertices:   len(t.Vertices),
		Splits:     t.Splits,
	}
	for _, seg := range t.Segments {
		if seg.IsMiniseg() {
			st.Minisegs++
		} else {
			st.Segments++
		}
	}
	t.Walk(func(n *Node, depth int) bool {
		if depth > st.Depth {
			st.Depth = depth
		}
		return true
	})
	return st
}

// Collecting output of a finished build
func (t *Tree) collectNodes() {
	t.Nodes = t.Nodes[:0]
	var post func(n *Node)
	post = func(n *Node) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			n.Index = -1
			return
		}
		post(n.Left)
		post(n.Right)
		n.Index = len(t.Nodes)
		t.Nodes = append(t.Nodes, n)
	}
	post(t.Root)
}

func dominantSector(edges []SubsectorEdge) int {
	counts := make(map[int]int)
	best := NO_SECTOR
	for _, e := range edges {
		if e.Sector == NO_SECTOR {
			continue
		}
		counts[e.Sector]++
		c := counts[e.Sector]
		if best == NO_SECTOR || c > counts[best] || (c == counts[best] && e.Sector < best) {
			best = e.Sector
		}
	}
	return best
}
