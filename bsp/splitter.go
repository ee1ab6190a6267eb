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

// splitter.go
package bsp

import (
	"math"
)

// Score of a splitter that has every other segment on one side and splits
// nothing. Such a line is on the hull of the region and never useful.
const WORST_SCORE = math.MaxInt

// What happens to a segment when a splitter is applied
type segClass int

const (
	CLASS_RIGHT segClass = iota
	CLASS_LEFT
	CLASS_COLLINEAR
	CLASS_SPLIT
)

// classify decides what partitioning seg by splitter would do. Endpoints
// within epsilon of the splitter line count as on it. Segments touching the
// line with one endpoint belong to the side of the other endpoint, so a
// segment sharing a vertex with the splitter is never split.
func classify(splitter, seg *Segment, epsilon float64) (segClass, Side, Side) {
	if seg == splitter {
		return CLASS_COLLINEAR, SIDE_ON, SIDE_ON
	}
	startSide := splitter.Side(seg.Start, epsilon)
	endSide := splitter.Side(seg.End, epsilon)
	if seg.StartIndex == splitter.StartIndex || seg.StartIndex == splitter.EndIndex {
		startSide = SIDE_ON
	}
	if seg.EndIndex == splitter.StartIndex || seg.EndIndex == splitter.EndIndex {
		endSide = SIDE_ON
	}
	switch {
	case startSide == SIDE_ON && endSide == SIDE_ON:
		return CLASS_COLLINEAR, startSide, endSide
	case startSide == SIDE_ON:
		return sideClass(endSide), startSide, endSide
	case endSide == SIDE_ON, startSide == endSide:
		return sideClass(startSide), startSide, endSide
	}
	return CLASS_SPLIT, startSide, endSide
}

func sideClass(s Side) segClass {
	if s == SIDE_RIGHT {
		return CLASS_RIGHT
	}
	return CLASS_LEFT
}

// SplitScore is the evaluation of one candidate splitter
type SplitScore struct {
	Score  int
	Left   int
	Right  int
	Splits int
}

// SplitterSelector picks the partition line for a non-convex region
type SplitterSelector struct {
	cfg     Config
	aliases segAliasHolder
	groups  func() int
}

func NewSplitterSelector(cfg Config, collinear *CollinearTracker) *SplitterSelector {
	return &SplitterSelector{
		cfg:    cfg,
		groups: collinear.Count,
	}
}

// Side test used by the scorer for segments it doesn't split. Much tighter
// than the weld epsilon: only an endpoint really on the line defers to the
// other endpoint.
const SCORE_SIDE_EPSILON = 1e-6

// crossing finds where the splitter's line meets seg's line. t is the
// parameter along seg, dist is how far the crossing is from the endpoint of
// seg nearer to it. ok is false for parallel lines.
func crossing(splitter, seg *Segment) (t, dist float64, ok bool) {
	if splitter.Parallel(seg) {
		return 0, 0, false
	}
	t, _, ok = lineIntersection(seg.Start, seg.End, splitter.Start, splitter.End)
	if !ok {
		return 0, 0, false
	}
	endpoint := seg.End
	if t < 0.5 {
		endpoint = seg.Start
	}
	return t, endpoint.Distance(seg.FromTime(t)), true
}

// nearEndpoint is true for distances within epsilon of either 0 or 1
func nearEndpoint(dist, epsilon float64) bool {
	return math.Abs(dist) <= epsilon || math.Abs(dist-1.0) <= epsilon
}

// effectivelyRight tells which side an unsplit seg is counted on: that of
// its start, or that of its end when the start is on the splitter line
func effectivelyRight(splitter, seg *Segment) bool {
	side := splitter.Side(seg.Start, SCORE_SIDE_EPSILON)
	if side == SIDE_ON {
		side = splitter.Side(seg.End, SCORE_SIDE_EPSILON)
	}
	return side == SIDE_RIGHT
}

// Score evaluates splitter against segments. Lower is better.
func (s *SplitterSelector) Score(splitter *Segment, segments []*Segment) SplitScore {
	return s.score(splitter, segments, WORST_SCORE)
}

// score stops early once the running total can no longer beat bestcost. The
// running total only grows, so a pruned candidate could never have won.
//
// A crossing within the weld epsilon of distance 0 or 1 from the nearer
// endpoint is not counted as a split. One that is within the punishable
// distance of those, but not welded, costs NearEndpoint.
func (s *SplitterSelector) score(splitter *Segment, segments []*Segment,
	bestcost int) SplitScore {
	weights := s.cfg.Weights
	weld := s.cfg.WeldEpsilon
	punish := s.cfg.PunishableEndpointDistance
	var ret SplitScore

	if !splitter.IsAxisAligned() {
		ret.Score += weights.NotAxisAligned
	}

	countSide := func(seg *Segment) {
		if effectivelyRight(splitter, seg) {
			ret.Right++
		} else {
			ret.Left++
		}
	}

	for _, seg := range segments {
		if seg == splitter {
			continue
		}
		t, dist, ok := crossing(splitter, seg)
		if !ok {
			if splitter.Side(seg.Start, weld) != SIDE_ON {
				countSide(seg)
			}
			continue
		}

		if inNormalRange(t) && !nearEndpoint(dist, weld) {
			ret.Splits++
		} else {
			countSide(seg)
		}

		if nearEndpoint(dist, punish) && !nearEndpoint(dist, weld) {
			ret.Score += weights.NearEndpoint
		}
		if ret.Score >= bestcost {
			ret.Score = WORST_SCORE
			return ret
		}
	}

	imbalance := ret.Left - ret.Right
	if imbalance < 0 {
		imbalance = -imbalance
	}
	ret.Score += imbalance * weights.Imbalance

	if ret.Splits == 0 && (ret.Left == 0 || ret.Right == 0) {
		ret.Score = WORST_SCORE
	} else {
		ret.Score += ret.Splits * weights.SplitFactor
	}
	return ret
}

// Candidates returns one segment per collinear group in evaluation order,
// leaving out minisegs
func (s *SplitterSelector) Candidates(segments []*Segment) []*Segment {
	s.aliases.UnvisitAll(s.groups())
	ret := make([]*Segment, 0, len(segments))
	n := len(segments)
	for i := 0; i < n; i++ {
		seg := segments[i]
		if s.cfg.BranchRight {
			seg = segments[n-1-i]
		}
		if seg.IsMiniseg() {
			continue
		}
		if s.aliases.MarkAndRecall(seg.CollinearIndex) {
			continue
		}
		ret = append(ret, seg)
	}
	return ret
}

// Best returns the lowest scoring candidate, the first one encountered
// winning ties. nil means no candidate divides the region.
func (s *SplitterSelector) Best(segments []*Segment) (*Segment, SplitScore) {
	var best *Segment
	bestScore := SplitScore{Score: WORST_SCORE}
	for _, part := range s.Candidates(segments) {
		sc := s.score(part, segments, bestScore.Score)
		if sc.Score < bestScore.Score {
			best = part
			bestScore = sc
		}
	}
	return best, bestScore
}

// SelectSplitter picks the splitter for a region already known not to be
// convex. It returns nil if nothing divides the region.
func (s *SplitterSelector) SelectSplitter(segments []*Segment) *Segment {
	best, _ := s.Best(segments)
	return best
}
