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

// prune.go
package bsp

import (
	"sort"
)

// PruneDanglingChains removes chains of segments that lead nowhere: starting
// from every vertex used by a single segment, segments are removed one after
// another until a vertex still used by two or more segments remains, or the
// chain runs out (a chain dangling at both ends vanishes entirely). Such
// chains enclose no area and would only confuse the junction and
// convexity logic. Returns the surviving segments in their original order
// and the number of segments removed.
func PruneDanglingChains(segments []*Segment) ([]*Segment, int) {
	adjacency := make(map[int][]int)
	link := func(a, b int) {
		adjacency[a] = append(adjacency[a], b)
	}
	for _, seg := range segments {
		link(seg.StartIndex, seg.EndIndex)
		link(seg.EndIndex, seg.StartIndex)
	}
	unlink := func(a, b int) {
		list := adjacency[a]
		if len(list) == 1 {
			delete(adjacency, a)
			return
		}
		for i, it := range list {
			if it == b {
				adjacency[a] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}

	// Sorted so that the outcome never depends on map iteration order
	var tails []int
	for vertex, list := range adjacency {
		if len(list) == 1 {
			tails = append(tails, vertex)
		}
	}
	sort.Ints(tails)

	pruned := make(map[segmentKey]bool)
	for _, tail := range tails {
		list, ok := adjacency[tail]
		if !ok || len(list) != 1 {
			// Went away with the other end of a chain dangling at both ends
			continue
		}
		current, next := tail, list[0]
		for {
			pruned[makeSegmentKey(current, next)] = true
			unlink(current, next)
			unlink(next, current)
			nextList, ok := adjacency[next]
			if !ok || len(nextList) >= 2 {
				break
			}
			current, next = next, nextList[0]
		}
	}

	if len(pruned) == 0 {
		return segments, 0
	}
	ret := make([]*Segment, 0, len(segments)-len(pruned))
	for _, seg := range segments {
		if !pruned[makeSegmentKey(seg.StartIndex, seg.EndIndex)] {
			ret = append(ret, seg)
		}
	}
	return ret, len(segments) - len(ret)
}
