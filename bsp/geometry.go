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

// geometry.go
package bsp

import (
	"fmt"
	"math"
)

// All the float geometry the builder needs lives here. Coordinates follow the
// map convention: x grows to the east, y grows to the north, and the front of
// a line is on its right side.

// Vec2 is a point or a direction in map space
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross is the z component of the 3D cross product (perp dot product)
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Length()
}

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Side is where a point lies relative to a directed line
type Side int

const (
	SIDE_ON Side = iota
	SIDE_RIGHT
	SIDE_LEFT
)

func (s Side) String() string {
	switch s {
	case SIDE_ON:
		return "on"
	case SIDE_RIGHT:
		return "right"
	case SIDE_LEFT:
		return "left"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Opposite flips right and left, on stays on
func (s Side) Opposite() Side {
	switch s {
	case SIDE_RIGHT:
		return SIDE_LEFT
	case SIDE_LEFT:
		return SIDE_RIGHT
	}
	return SIDE_ON
}

// perpDistance is the signed perpendicular distance of p from the infinite
// line through start and end. Negative values are on the right.
func perpDistance(start, end, p Vec2) float64 {
	d := end.Sub(start)
	l := d.Length()
	if l == 0 {
		return p.Distance(start)
	}
	return d.Cross(p.Sub(start)) / l
}

// sideOf classifies p against the directed line start->end. Points closer
// to the line than epsilon are on it, which is how every ambiguity gets
// resolved: they go to the collinear bucket, never to a guessed side.
func sideOf(start, end, p Vec2, epsilon float64) Side {
	dist := perpDistance(start, end, p)
	if math.Abs(dist) <= epsilon {
		return SIDE_ON
	}
	if dist < 0 {
		return SIDE_RIGHT
	}
	return SIDE_LEFT
}

// lineIntersection returns the parameter along a (a0->a1) and along b
// (b0->b1) where the two infinite lines meet. ok is false for parallel lines.
func lineIntersection(a0, a1, b0, b1 Vec2) (ta, tb float64, ok bool) {
	da := a1.Sub(a0)
	db := b1.Sub(b0)
	denom := da.Cross(db)
	if denom == 0 {
		return 0, 0, false
	}
	diff := b0.Sub(a0)
	ta = diff.Cross(db) / denom
	tb = diff.Cross(da) / denom
	return ta, tb, true
}

// parallelDirections is true when directions a and b are parallel, with a
// tolerance relative to their lengths so that halves of a split line keep
// being parallel to the original despite rounding.
func parallelDirections(a, b Vec2) bool {
	la := a.Length()
	lb := b.Length()
	if la == 0 || lb == 0 {
		return true
	}
	return math.Abs(a.Cross(b)) <= PARALLEL_SINE_EPSILON*la*lb
}

// inNormalRange is true for parameters on the closed segment
func inNormalRange(t float64) bool {
	return t >= 0.0 && t <= 1.0
}

// Bounds is an axis-aligned bounding box in map space
type Bounds struct {
	Min, Max Vec2
}

// EmptyBounds returns an inverted box that any point will expand
func EmptyBounds() Bounds {
	return Bounds{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

func (b *Bounds) Extend(p Vec2) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
