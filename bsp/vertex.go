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

// vertex.go
package bsp

import (
	"fmt"
	"math"
)

// Side length of a vertex grid cell, in map units
const VERTEX_CELL_SIZE = 16.0

// Vertex is an immutable position with its stable index in the allocator
type Vertex struct {
	Index int
	Pos   Vec2
}

type vertexCell struct {
	cx, cy int64
}

// VertexAllocator welds positions closer than epsilon into a single vertex.
// It is a hashed take on the vertex map from ZDBSP: a vertex is filed under
// every grid cell its epsilon box touches, so that a lookup only has to scan
// the one cell the queried position falls in.
type VertexAllocator struct {
	epsilon  float64
	vertices []Vertex
	grid     map[vertexCell][]int
}

func NewVertexAllocator(epsilon float64) *VertexAllocator {
	return &VertexAllocator{
		epsilon: epsilon,
		grid:    make(map[vertexCell][]int),
	}
}

func (a *VertexAllocator) cellOf(x, y float64) vertexCell {
	return vertexCell{
		cx: int64(math.Floor(x / VERTEX_CELL_SIZE)),
		cy: int64(math.Floor(y / VERTEX_CELL_SIZE)),
	}
}

// GetOrCreate returns the index of the vertex within epsilon of p, creating
// one at p if there is none. Non-finite positions are a programming error,
// builders must reject them before getting here.
func (a *VertexAllocator) GetOrCreate(p Vec2) int {
	if !p.IsFinite() {
		panic(fmt.Sprintf("bsp: vertex allocator got non-finite position %v", p))
	}
	for _, idx := range a.grid[a.cellOf(p.X, p.Y)] {
		if a.vertices[idx].Pos.Distance(p) < a.epsilon {
			return idx
		}
	}
	return a.insert(p)
}

// Lookup is GetOrCreate without the create
func (a *VertexAllocator) Lookup(p Vec2) (int, bool) {
	if !p.IsFinite() {
		return -1, false
	}
	for _, idx := range a.grid[a.cellOf(p.X, p.Y)] {
		if a.vertices[idx].Pos.Distance(p) < a.epsilon {
			return idx, true
		}
	}
	return -1, false
}

func (a *VertexAllocator) insert(p Vec2) int {
	idx := len(a.vertices)
	a.vertices = append(a.vertices, Vertex{Index: idx, Pos: p})
	lo := a.cellOf(p.X-a.epsilon, p.Y-a.epsilon)
	hi := a.cellOf(p.X+a.epsilon, p.Y+a.epsilon)
	// Usually 1 cell, at most 4 unless epsilon outgrows the cell
	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			key := vertexCell{cx, cy}
			a.grid[key] = append(a.grid[key], idx)
		}
	}
	return idx
}

func (a *VertexAllocator) Len() int {
	return len(a.vertices)
}

func (a *VertexAllocator) Epsilon() float64 {
	return a.epsilon
}

func (a *VertexAllocator) Vertex(idx int) Vertex {
	return a.vertices[idx]
}

func (a *VertexAllocator) Position(idx int) Vec2 {
	return a.vertices[idx].Pos
}

// Vertices returns a copy of the pool, ordered by index
func (a *VertexAllocator) Vertices() []Vertex {
	ret := make([]Vertex, len(a.vertices))
	copy(ret, a.vertices)
	return ret
}
