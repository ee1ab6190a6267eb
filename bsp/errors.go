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

// errors.go
package bsp

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput        = errors.New("no lines to build from")
	ErrInvalidPosition   = errors.New("vertex position is not a finite number")
	ErrInvalidSector     = errors.New("line has no front sector")
	ErrDegenerateSegment = errors.New("segment has zero length")
	ErrTooFewSegments    = errors.New("region has fewer than 3 segments")
	ErrCollinearRegion   = errors.New("all segments of region lie on one line")
	ErrInvalidConfig     = errors.New("invalid config")
	ErrAmbiguousSide     = errors.New("segment too small to tell which side of splitter it is on")
	ErrNoSplitter        = errors.New("no splitter divides a non-convex region")
	ErrRecursionOverflow = errors.New("recursion overflow")
)

// ErrorKind tells a broken input apart from a build that could not finish
type ErrorKind int

const (
	// Bad geometry, empty input or bad config. Retrying won't help
	KindPrecondition ErrorKind = iota
	// The build ran away (pathological or corrupt map). Callers may reject
	// the map rather than crash
	KindNonConvergence
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition violation"
	case KindNonConvergence:
		return "non-convergence"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// BuildError is the only failure a build returns. It identifies the state
// the builder was in and the branch path of the work item being processed.
type BuildError struct {
	Kind       ErrorKind
	Stage      State
	BranchPath string
	Err        error
}

func (e *BuildError) Error() string {
	path := e.BranchPath
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("bsp %s at %s (branch %s): %v", e.Kind, e.Stage, path, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// IsNonConvergence reports whether err is a build that ran away rather than
// one rejected for bad input
func IsNonConvergence(err error) bool {
	var be *BuildError
	return errors.As(err, &be) && be.Kind == KindNonConvergence
}

func preconditionError(stage State, path string, err error) *BuildError {
	return &BuildError{Kind: KindPrecondition, Stage: stage, BranchPath: path, Err: err}
}

func nonConvergenceError(stage State, path string, err error) *BuildError {
	return &BuildError{Kind: KindNonConvergence, Stage: stage, BranchPath: path, Err: err}
}
