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

// builder.go
package bsp

import (
	"errors"
	"fmt"
	"log/slog"
)

// Line is one map line as the builder consumes it. The front sector is on
// the right of Start->End. BackSector is NO_SECTOR for one-sided lines.
type Line struct {
	Start       Vec2
	End         Vec2
	FrontSector int
	BackSector  int
}

// Builder turns lines into a BSP tree by driving a single state machine.
// In MODE_BATCH, Execute runs the machine to completion; in MODE_SINGLE_STEP
// every Execute call performs one transition, which is what debuggers and
// viewers want. Both go through Step, so both produce the same tree.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	cfg  Config
	mode Mode
	log  *slog.Logger

	vertices    *VertexAllocator
	collinear   *CollinearTracker
	segments    *SegmentAllocator
	junctions   *JunctionClassifier
	convexity   *ConvexityChecker
	selector    *SplitterSelector
	partitioner *Partitioner
	minisegs    *MinisegGenerator

	state        State
	work         []*WorkItem // stack, top is last
	root         *Node
	subsectors   []*Subsector
	splits       int
	rootSplitter int

	// Per split scratch: filled by one state, consumed by the next
	splitter  *Segment
	score     SplitScore
	partition *Partition

	err  error
	tree *Tree
}

// NewBuilder validates input and config, welds the vertices, creates the
// initial segments and primes the work stack with the whole map. All
// failures are *BuildError with KindPrecondition.
func NewBuilder(lines []Line, cfg Config, opts ...Option) (*Builder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	fail := func(err error) (*Builder, error) {
		return nil, preconditionError(STATE_NOT_STARTED, "", err)
	}
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}
	if len(lines) == 0 {
		return fail(ErrEmptyInput)
	}

	b := &Builder{
		cfg:          cfg,
		mode:         o.mode,
		log:          o.logger,
		vertices:     NewVertexAllocator(cfg.WeldEpsilon),
		collinear:    NewCollinearTracker(cfg.WeldEpsilon),
		junctions:    NewJunctionClassifier(cfg.WeldEpsilon),
		convexity:    NewConvexityChecker(cfg.WeldEpsilon),
		state:        STATE_NOT_STARTED,
		rootSplitter: o.rootSplitter,
	}
	b.segments = NewSegmentAllocator(b.vertices, b.collinear)
	b.selector = NewSplitterSelector(cfg, b.collinear)
	b.partitioner = NewPartitioner(cfg, b.segments, b.junctions)
	b.minisegs = NewMinisegGenerator(cfg, b.vertices, b.segments, b.junctions)

	inputLog := b.log
	if o.quietInput {
		inputLog = newNopLogger()
	}
	segs, err := b.populate(lines, inputLog)
	if err != nil {
		return fail(err)
	}
	if len(segs) == 0 {
		return fail(fmt.Errorf("%w: nothing left after pruning dangling lines", ErrEmptyInput))
	}

	b.root = &Node{Index: -1}
	b.work = append(b.work, &WorkItem{Segments: segs, node: b.root})
	return b, nil
}

// populate feeds the allocators from the input lines and readies the
// junction classifier. Junctions are only paired once every wall is known,
// since a wall added later could close a tighter wedge.
func (b *Builder) populate(lines []Line, log *slog.Logger) ([]*Segment, error) {
	segs := make([]*Segment, 0, len(lines))
	dups := 0
	for i, line := range lines {
		if !line.Start.IsFinite() || !line.End.IsFinite() {
			return nil, fmt.Errorf("%w: line %d from %v to %v", ErrInvalidPosition,
				i, line.Start, line.End)
		}
		if line.FrontSector < 0 {
			return nil, fmt.Errorf("%w: line %d", ErrInvalidSector, i)
		}
		back := line.BackSector
		if back < 0 {
			back = NO_SECTOR
		}
		start := b.vertices.GetOrCreate(line.Start)
		end := b.vertices.GetOrCreate(line.End)
		if start == end {
			return nil, fmt.Errorf("%w: line %d from %v to %v", ErrDegenerateSegment,
				i, line.Start, line.End)
		}
		count := b.segments.Len()
		seg, err := b.segments.Create(start, end, line.FrontSector, back, i)
		if err != nil {
			return nil, err
		}
		if b.segments.Len() == count {
			// Overlapping line on the same vertex pair, the first one wins
			dups++
			continue
		}
		segs = append(segs, seg)
	}
	if dups > 0 {
		log.Warn("dropped lines duplicating the vertex pair of another line",
			"count", dups)
	}

	if b.cfg.PruneDanglingChains {
		var pruned int
		segs, pruned = PruneDanglingChains(segs)
		if pruned > 0 {
			log.Debug("pruned dangling segments", "count", pruned)
		}
	}

	for _, seg := range segs {
		b.junctions.AddOneSided(seg)
	}
	for _, v := range b.junctions.Finish() {
		log.Warn("junction has unequal inbound and outbound one-sided lines, tree likely to be malformed",
			"vertex", v, "pos", b.vertices.Position(v).String())
	}
	return segs, nil
}

func (b *Builder) State() State {
	return b.state
}

func (b *Builder) Mode() Mode {
	return b.mode
}

func (b *Builder) Done() bool {
	return b.state == STATE_COMPLETE
}

// Err returns the error that stopped the build, if any
func (b *Builder) Err() error {
	return b.err
}

// Current returns the work item on top of the stack, nil when complete
func (b *Builder) Current() *WorkItem {
	if len(b.work) == 0 {
		return nil
	}
	return b.work[len(b.work)-1]
}

// Pending is the number of regions waiting on the work stack, including
// the current one
func (b *Builder) Pending() int {
	return len(b.work)
}

// Splitter is the splitter chosen for the current region, if the builder
// got that far with it
func (b *Builder) Splitter() *Segment {
	return b.splitter
}

// Partition is the partition of the current region, once computed
func (b *Builder) Partition() *Partition {
	return b.partition
}

func (b *Builder) Vertices() *VertexAllocator {
	return b.vertices
}

func (b *Builder) Segments() *SegmentAllocator {
	return b.segments
}

func (b *Builder) Subsectors() []*Subsector {
	return b.subsectors
}

// Tree returns the finished tree, nil until the build completes
func (b *Builder) Tree() *Tree {
	return b.tree
}

// Execute advances the build according to the builder's mode
func (b *Builder) Execute() (State, error) {
	if b.mode == MODE_SINGLE_STEP {
		return b.Step()
	}
	for !b.Done() {
		if _, err := b.Step(); err != nil {
			return b.state, err
		}
	}
	return b.state, nil
}

// Build runs the build to completion in either mode and returns the tree
func (b *Builder) Build() (*Tree, error) {
	for !b.Done() {
		if _, err := b.Execute(); err != nil {
			return nil, err
		}
	}
	return b.tree, nil
}

// Step performs exactly one state transition. The first error is sticky:
// every later call returns it again.
func (b *Builder) Step() (State, error) {
	if b.err != nil {
		return b.state, b.err
	}
	var err error
	switch b.state {
	case STATE_NOT_STARTED:
		b.log.Debug("starting build", "segments", len(b.work[0].Segments),
			"vertices", b.vertices.Len())
		b.state = STATE_CHECKING_CONVEXITY
	case STATE_CHECKING_CONVEXITY:
		err = b.checkConvexity()
	case STATE_CREATING_LEAF_NODE:
		b.createLeafNode()
	case STATE_FINDING_SPLITTER:
		err = b.findSplitter()
	case STATE_PARTITIONING_SEGMENTS:
		err = b.partitionSegments()
	case STATE_GENERATING_MINISEGS:
		err = b.generateMinisegs()
	case STATE_FINISHING_SPLIT:
		b.finishSplit()
	case STATE_COMPLETE:
	}
	if err != nil {
		var be *BuildError
		if !errors.As(err, &be) {
			path := ""
			if item := b.Current(); item != nil {
				path = item.BranchPath
			}
			be = preconditionError(b.state, path, err)
		}
		b.err = be
		return b.state, be
	}
	return b.state, nil
}

func (b *Builder) checkConvexity() error {
	item := b.Current()
	if len(b.work) > b.cfg.MaxDepth || item.Depth() > b.cfg.MaxDepth {
		return nonConvergenceError(b.state, item.BranchPath,
			fmt.Errorf("%w: depth %d, %d pending regions, limit %d",
				ErrRecursionOverflow, item.Depth(), len(b.work), b.cfg.MaxDepth))
	}
	convex, err := b.convexity.Check(item.Segments)
	if err != nil {
		return err
	}
	if convex {
		b.state = STATE_CREATING_LEAF_NODE
	} else {
		b.state = STATE_FINDING_SPLITTER
	}
	return nil
}

func (b *Builder) createLeafNode() {
	item := b.Current()
	edges := b.convexity.ClockwiseEdges(item.Segments)
	ss := &Subsector{
		Index:      len(b.subsectors),
		BranchPath: item.BranchPath,
		Segments:   item.Segments,
		Edges:      edges,
		Sector:     dominantSector(edges),
	}
	b.subsectors = append(b.subsectors, ss)
	item.node.Subsector = ss
	b.log.Debug("leaf", "branch", item.BranchPath, "subsector", ss.Index,
		"segments", len(item.Segments), "sector", ss.Sector)

	b.work = b.work[:len(b.work)-1]
	if len(b.work) == 0 {
		b.finish()
		b.state = STATE_COMPLETE
		return
	}
	b.state = STATE_CHECKING_CONVEXITY
}

func (b *Builder) forcedRootSplitter(item *WorkItem) (*Segment, error) {
	for _, seg := range item.Segments {
		if seg.Line == b.rootSplitter {
			return seg, nil
		}
	}
	return nil, fmt.Errorf("%w: forced root splitter line %d is not in the map",
		ErrInvalidConfig, b.rootSplitter)
}

func (b *Builder) findSplitter() error {
	item := b.Current()
	if item.BranchPath == "" && b.rootSplitter != NO_LINE {
		splitter, err := b.forcedRootSplitter(item)
		if err != nil {
			return err
		}
		b.splitter = splitter
		b.score = b.selector.Score(splitter, item.Segments)
	} else {
		b.splitter, b.score = b.selector.Best(item.Segments)
	}
	if b.splitter == nil {
		return nonConvergenceError(b.state, item.BranchPath,
			fmt.Errorf("%w: %d segments", ErrNoSplitter, len(item.Segments)))
	}
	b.state = STATE_PARTITIONING_SEGMENTS
	return nil
}

func (b *Builder) partitionSegments() error {
	item := b.Current()
	p, err := b.partitioner.Partition(item.Segments, b.splitter)
	if err != nil {
		return err
	}
	b.partition = p
	for _, piece := range p.SplitPieces {
		if piece.Length() < b.cfg.PunishableEndpointDistance {
			b.log.Warn("tight split", "branch", item.BranchPath,
				"segment", piece.Index, "length", piece.Length())
		}
	}
	b.state = STATE_GENERATING_MINISEGS
	return nil
}

func (b *Builder) generateMinisegs() error {
	if _, err := b.minisegs.Generate(b.partition); err != nil {
		return err
	}
	b.state = STATE_FINISHING_SPLIT
	return nil
}

// finishSplit turns the current region into a partition node and pushes its
// two halves. Right is pushed first so that left gets built first.
func (b *Builder) finishSplit() {
	item := b.Current()
	b.work = b.work[:len(b.work)-1]

	p := b.partition
	left := &Node{Index: -1, BranchPath: item.BranchPath + "L"}
	right := &Node{Index: -1, BranchPath: item.BranchPath + "R"}
	item.node.Splitter = b.splitter
	item.node.Left = left
	item.node.Right = right
	b.splits++

	b.log.Debug("split", "branch", item.BranchPath, "splitter", b.splitter.Index,
		"line", b.splitter.Line, "score", b.score.Score, "left", len(p.Left),
		"right", len(p.Right), "splits", b.score.Splits, "minisegs", len(p.Minisegs))

	b.work = append(b.work,
		&WorkItem{
			Segments:   b.minisegs.Close(p, SIDE_RIGHT),
			BranchPath: right.BranchPath,
			node:       right,
		},
		&WorkItem{
			Segments:   b.minisegs.Close(p, SIDE_LEFT),
			BranchPath: left.BranchPath,
			node:       left,
		})

	b.splitter = nil
	b.score = SplitScore{}
	b.partition = nil
	b.state = STATE_CHECKING_CONVEXITY
}

func (b *Builder) finish() {
	t := &Tree{
		Root:       b.root,
		Subsectors: b.subsectors,
		Vertices:   b.vertices.Vertices(),
		Segments:   b.segments.Segments(),
		Splits:     b.splits,
	}
	t.collectNodes()
	b.tree = t
	b.log.Debug("build complete", "nodes", len(t.Nodes), "subsectors",
		len(t.Subsectors), "vertices", len(t.Vertices))
}

// Build is a shorthand for NewBuilder followed by Build in batch mode
func Build(lines []Line, cfg Config, opts ...Option) (*Tree, error) {
	b, err := NewBuilder(lines, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return b.Build()
}
