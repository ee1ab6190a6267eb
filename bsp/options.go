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

// options.go
package bsp

import (
	"context"
	"log/slog"
)

// nopHandler discards every record. Enabled returns false so that callers
// skip formatting altogether.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// Mode selects how the builder's state machine is driven
type Mode int

const (
	// Execute drains the whole work stack
	MODE_BATCH Mode = iota
	// Execute performs exactly one state transition
	MODE_SINGLE_STEP
)

func (m Mode) String() string {
	if m == MODE_SINGLE_STEP {
		return "single-step"
	}
	return "batch"
}

// Option configures a Builder during creation
type Option func(*builderOptions)

type builderOptions struct {
	logger       *slog.Logger
	mode         Mode
	rootSplitter int
	quietInput   bool
}

func defaultOptions() builderOptions {
	return builderOptions{
		logger:       newNopLogger(),
		mode:         MODE_BATCH,
		rootSplitter: NO_LINE,
	}
}

// WithLogger makes the builder report progress to l. Splits and leaves are
// logged at debug level, suspicious geometry at warn level. By default the
// builder logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(o *builderOptions) {
		if l == nil {
			l = newNopLogger()
		}
		o.logger = l
	}
}

func WithMode(m Mode) Option {
	return func(o *builderOptions) {
		o.mode = m
	}
}

// WithRootSplitter forces the first partition line to be the one of the
// given input line instead of the best scoring one
func WithRootSplitter(line int) Option {
	return func(o *builderOptions) {
		o.rootSplitter = line
	}
}

// withQuietInput keeps the findings about the input lines (duplicates,
// pruned chains, odd junctions) out of the log. Builders that redo the work
// of another one over the same lines use it.
func withQuietInput() Option {
	return func(o *builderOptions) {
		o.quietInput = true
	}
}
