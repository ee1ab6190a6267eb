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

// collinear.go
package bsp

import (
	"math"
)

const (
	// Bucket widths for the (angle, offset) key of an infinite line
	COLLINEAR_ANGLE_BUCKET  = 1e-3
	COLLINEAR_OFFSET_BUCKET = 1.0
)

type collinearKey struct {
	angle  int64
	offset int64
}

// Canonical description of an infinite line: a unit direction with
// angle in [0, pi), and one point on it
type collinearLine struct {
	dir    Vec2
	origin Vec2
}

// CollinearTracker hands out group ids for infinite lines. Segments on the
// same line get the same id no matter which way they point, so that the
// splitter selector only needs to evaluate one of them.
type CollinearTracker struct {
	epsilon float64
	lines   []collinearLine
	buckets map[collinearKey][]int
}

func NewCollinearTracker(epsilon float64) *CollinearTracker {
	return &CollinearTracker{
		epsilon: epsilon,
		buckets: make(map[collinearKey][]int),
	}
}

// Count is the number of groups handed out so far; ids are 0..Count-1
func (t *CollinearTracker) Count() int {
	return len(t.lines)
}

// canonicalLine returns the unit direction of start->end folded into
// angle [0, pi), its angle and the signed offset of the line from origin
func canonicalLine(start, end Vec2) (Vec2, float64, float64) {
	d := end.Sub(start)
	d = d.Scale(1.0 / d.Length())
	if d.Y < 0 || (d.Y == 0 && d.X < 0) {
		d = d.Scale(-1)
	}
	angle := math.Atan2(d.Y, d.X)
	if angle >= math.Pi {
		angle = 0
	}
	return d, angle, d.Cross(start)
}

func (t *CollinearTracker) keyOf(angle, offset float64) collinearKey {
	return collinearKey{
		angle:  int64(math.Floor(angle / COLLINEAR_ANGLE_BUCKET)),
		offset: int64(math.Floor(offset / COLLINEAR_OFFSET_BUCKET)),
	}
}

func (t *CollinearTracker) matches(group int, start, end Vec2) bool {
	line := t.lines[group]
	other := line.origin.Add(line.dir)
	return math.Abs(perpDistance(line.origin, other, start)) <= t.epsilon &&
		math.Abs(perpDistance(line.origin, other, end)) <= t.epsilon
}

func (t *CollinearTracker) probe(key collinearKey, start, end Vec2) int {
	for da := int64(-1); da <= 1; da++ {
		for do := int64(-1); do <= 1; do++ {
			k := collinearKey{key.angle + da, key.offset + do}
			for _, group := range t.buckets[k] {
				if t.matches(group, start, end) {
					return group
				}
			}
		}
	}
	return -1
}

// GetOrAssign returns the group of the line through start and end, creating a
// new group if no existing one matches. Start and end must differ.
func (t *CollinearTracker) GetOrAssign(start, end Vec2) int {
	dir, angle, offset := canonicalLine(start, end)
	key := t.keyOf(angle, offset)
	if group := t.probe(key, start, end); group >= 0 {
		return group
	}
	// Angles just below pi are the same lines as angles just above 0 with
	// the direction (and therefore the offset sign) flipped
	if angle < COLLINEAR_ANGLE_BUCKET*2 {
		wrapped := t.keyOf(angle+math.Pi, -offset)
		if group := t.probe(wrapped, start, end); group >= 0 {
			return group
		}
	} else if angle > math.Pi-COLLINEAR_ANGLE_BUCKET*2 {
		wrapped := t.keyOf(angle-math.Pi, -offset)
		if group := t.probe(wrapped, start, end); group >= 0 {
			return group
		}
	}
	group := len(t.lines)
	t.lines = append(t.lines, collinearLine{dir: dir, origin: start})
	t.buckets[key] = append(t.buckets[key], group)
	return group
}
