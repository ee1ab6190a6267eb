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

// mylogger.go
// Central log (stdout/stderr) of the program
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
)

type MyLogger struct {
	syslog    *log.Logger
	errlog    *log.Logger
	verbosity int
	// Mutex is used to order writes to stdin and stderr, as well as Sync call
	mu sync.Mutex
}

// Logs specific to one task (one level being built). A task is always worked
// on by a single goroutine and never shared with others until complete. Their
// output is not forwarded to the stdout, but is instead buffered until merged
// into main log of MyLogger type, so that output of levels built in parallel
// does not interleave.
//
// MiniLogger is an io.Writer so that the bsp library's slog output can be
// captured into it.
type MiniLogger struct {
	buf       bytes.Buffer
	verbosity int
}

func CreateLogger(stdout, stderr io.Writer) *MyLogger {
	return &MyLogger{
		syslog: log.New(stdout, "", 0),
		errlog: log.New(stderr, "", 0),
	}
}

var Log = CreateLogger(os.Stdout, os.Stderr)

func (log *MyLogger) SetVerbosity(level int) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.verbosity = level
}

func (log *MyLogger) Verbosity() int {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.verbosity
}

// Your generic printf to let user see things
func (log *MyLogger) Printf(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.syslog.Printf(s, a...)
}

// As generic as printf, but writes to stderr instead of stdout
// Does NOT interrupt execution of the program
func (log *MyLogger) Error(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.errlog.Printf(s, a...)
}

// For advanced users or users that are curious, or programmers, there is
// stuff they might want to see but only when they can really bother to spend
// time reading it
func (log *MyLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if verbosityLevel <= log.verbosity {
		log.syslog.Printf(s, a...)
	}
}

// Panicking is not a good thing, but at least we can now use formatted printing
// for it
func (log *MyLogger) Panic(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	panic(fmt.Sprintf(s, a...))
}

// Sync is used to wait until all messages are written to the output
func (log *MyLogger) Sync() {
	log.mu.Lock()
	log.mu.Unlock()
}

func (log *MyLogger) Merge(mlog *MiniLogger, preface string) {
	if mlog == nil {
		return
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(preface) > 0 {
		log.syslog.Print(preface)
	}
	content := mlog.buf.String()
	if len(content) > 0 {
		log.syslog.Print(content)
	}
}

func CreateMiniLogger(verbosity int) *MiniLogger {
	return &MiniLogger{verbosity: verbosity}
}

func (mlog *MiniLogger) Printf(s string, a ...interface{}) {
	if mlog == nil {
		Log.Printf(s, a...)
		return
	}
	fmt.Fprintf(&mlog.buf, s, a...)
}

func (mlog *MiniLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if mlog == nil {
		Log.Verbose(verbosityLevel, s, a...)
		return
	}
	if verbosityLevel <= mlog.verbosity {
		fmt.Fprintf(&mlog.buf, s, a...)
	}
}

func (mlog *MiniLogger) Write(p []byte) (int, error) {
	return mlog.buf.Write(p)
}

func (mlog *MiniLogger) String() string {
	return mlog.buf.String()
}

// slogLevel maps -v count onto slog levels: warnings are always shown, -v
// adds build summaries, -vv every split and leaf
func slogLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// Slog returns a logger writing text records into mlog. Timestamps are left
// out, the merged log already comes out in level order.
func (mlog *MiniLogger) Slog(attrs ...any) *slog.Logger {
	h := slog.NewTextHandler(mlog, &slog.HandlerOptions{
		Level: slogLevel(mlog.verbosity),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(h).With(attrs...)
}
