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

// segalias.go
package bsp

// Visit marks for collinear groups. Test one seg as a partition per all the
// collinear ones, they all yield the same partition line.
type segAliasHolder struct {
	visited []bool
}

// MarkAndRecall marks alias as visited but returns whether it was visited
// already
func (s *segAliasHolder) MarkAndRecall(alias int) bool {
	for alias >= len(s.visited) {
		s.visited = append(s.visited, false)
	}
	b := s.visited[alias]
	s.visited[alias] = true
	return b
}

// UnvisitAll forgets all marks, keeping the storage for the next round
func (s *segAliasHolder) UnvisitAll(groups int) {
	if cap(s.visited) < groups {
		s.visited = make([]bool, groups)
		return
	}
	s.visited = s.visited[:groups]
	for i := range s.visited {
		s.visited[i] = false
	}
}
