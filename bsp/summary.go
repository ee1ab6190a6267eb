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

// summary.go
package bsp

// Pointer-free description of a tree, for dumping and for comparing trees
// with each other. Everything refers to everything else by index.

type SegmentSummary struct {
	Index     int  `yaml:"index"`
	Start     int  `yaml:"start"`
	End       int  `yaml:"end"`
	Line      int  `yaml:"line"`
	Front     int  `yaml:"front"`
	Back      int  `yaml:"back"`
	Collinear int  `yaml:"collinear"`
	Miniseg   bool `yaml:"miniseg,omitempty"`
}

type NodeSummary struct {
	Index    int    `yaml:"index"`
	Branch   string `yaml:"branch"`
	Splitter int    `yaml:"splitter"`
	Line     int    `yaml:"line"`
	// Child node index, or -1 - subsector index for leaf children
	Left  int `yaml:"left"`
	Right int `yaml:"right"`
}

type EdgeSummary struct {
	Segment  int  `yaml:"segment"`
	Start    int  `yaml:"start"`
	End      int  `yaml:"end"`
	Reversed bool `yaml:"reversed,omitempty"`
	Sector   int  `yaml:"sector"`
}

type SubsectorSummary struct {
	Index  int           `yaml:"index"`
	Branch string        `yaml:"branch"`
	Sector int           `yaml:"sector"`
	Edges  []EdgeSummary `yaml:"edges"`
}

type TreeSummary struct {
	Stats      TreeStats          `yaml:"stats"`
	Vertices   [][2]float64       `yaml:"vertices,flow"`
	Segments   []SegmentSummary   `yaml:"segments"`
	Nodes      []NodeSummary      `yaml:"nodes"`
	Subsectors []SubsectorSummary `yaml:"subsectors"`
}

// childRef follows the Doom convention of flagging leaves: partitions are
// referenced by node index, leaves by -1 - subsector index
func childRef(n *Node) int {
	if n.IsLeaf() {
		return -1 - n.Subsector.Index
	}
	return n.Index
}

func (t *Tree) Summary() TreeSummary {
	s := TreeSummary{
		Stats:      t.Stats(),
		Vertices:   make([][2]float64, 0, len(t.Vertices)),
		Segments:   make([]SegmentSummary, 0, len(t.Segments)),
		Nodes:      make([]NodeSummary, 0, len(t.Nodes)),
		Subsectors: make([]SubsectorSummary, 0, len(t.Subsectors)),
	}
	for _, v := range t.Vertices {
		s.Vertices = append(s.Vertices, [2]float64{v.Pos.X, v.Pos.Y})
	}
	for _, seg := range t.Segments {
		s.Segments = append(s.Segments, SegmentSummary{
			Index:     seg.Index,
			Start:     seg.StartIndex,
			End:       seg.EndIndex,
			Line:      seg.Line,
			Front:     seg.FrontSector,
			Back:      seg.BackSector,
			Collinear: seg.CollinearIndex,
			Miniseg:   seg.IsMiniseg(),
		})
	}
	for _, n := range t.Nodes {
		s.Nodes = append(s.Nodes, NodeSummary{
			Index:    n.Index,
			Branch:   n.BranchPath,
			Splitter: n.Splitter.Index,
			Line:     n.Splitter.Line,
			Left:     childRef(n.Left),
			Right:    childRef(n.Right),
		})
	}
	for _, ss := range t.Subsectors {
		sum := SubsectorSummary{
			Index:  ss.Index,
			Branch: ss.BranchPath,
			Sector: ss.Sector,
			Edges:  make([]EdgeSummary, 0, len(ss.Edges)),
		}
		for _, e := range ss.Edges {
			sum.Edges = append(sum.Edges, EdgeSummary{
				Segment:  e.Segment,
				Start:    e.StartIndex,
				End:      e.EndIndex,
				Reversed: e.Reversed,
				Sector:   e.Sector,
			})
		}
		s.Subsectors = append(s.Subsectors, sum)
	}
	return s
}
