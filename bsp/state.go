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

// state.go
package bsp

import (
	"fmt"
)

// State of the builder's state machine
type State int

const (
	STATE_NOT_STARTED State = iota
	STATE_CHECKING_CONVEXITY
	STATE_CREATING_LEAF_NODE
	STATE_FINDING_SPLITTER
	STATE_PARTITIONING_SEGMENTS
	STATE_GENERATING_MINISEGS
	STATE_FINISHING_SPLIT
	STATE_COMPLETE
)

var stateNames = [...]string{
	STATE_NOT_STARTED:           "NotStarted",
	STATE_CHECKING_CONVEXITY:    "CheckingConvexity",
	STATE_CREATING_LEAF_NODE:    "CreatingLeafNode",
	STATE_FINDING_SPLITTER:      "FindingSplitter",
	STATE_PARTITIONING_SEGMENTS: "PartitioningSegments",
	STATE_GENERATING_MINISEGS:   "GeneratingMinisegs",
	STATE_FINISHING_SPLIT:       "FinishingSplit",
	STATE_COMPLETE:              "Complete",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// WorkItem is a region waiting to be processed: its boundary segments and
// the left/right turns taken from the root to reach it
type WorkItem struct {
	Segments   []*Segment
	BranchPath string
	node       *Node
}

// Depth of the region in the tree, the root being 0
func (w *WorkItem) Depth() int {
	return len(w.BranchPath)
}
