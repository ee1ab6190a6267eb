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

// wad.go
package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrNotAWad      = errors.New("not a wad file")
	ErrBadDirectory = errors.New("wad directory is corrupt")
	ErrMissingLump  = errors.New("level is missing a mandatory lump")
	ErrBadLump      = errors.New("lump size is not a multiple of its record size")
	ErrBadReference = errors.New("reference out of range")
)

// Wad is an opened wad file: header and directory are read eagerly, lumps
// on demand
type Wad struct {
	Header    WadHeader
	Directory []LumpEntry
	r         io.ReaderAt
	size      int64
	closer    io.Closer
}

// LevelRef locates the lumps of one level in the directory
type LevelRef struct {
	Name   string
	Marker int // directory index of the level marker
	Format Format
	// Directory index of every level lump found, first occurrence only
	Lumps map[string]int
	// Names of lumps that occurred more than once; the extra copies are
	// ignored
	Duplicates []string
}

// ByteSliceBeforeTerm returns a part of the original bytes
// excluding everything that starts with zero-byte character.
// This allows string operations (such as pattern matching) to be performed
// correctly on returned value
func ByteSliceBeforeTerm(b []byte) []byte {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return b
	} else {
		return b[:i]
	}
}

// Open reads header and directory of the wad at path. The file stays open
// until Close.
func Open(path string) (*Wad, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	w, err := Read(f, st.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	w.closer = f
	return w, nil
}

// Read parses header and directory from r, which holds size bytes
func Read(r io.ReaderAt, size int64) (*Wad, error) {
	w := &Wad{r: r, size: size}
	if size < WAD_HEADER_SIZE {
		return nil, fmt.Errorf("%w: only %d bytes", ErrNotAWad, size)
	}
	err := binary.Read(io.NewSectionReader(r, 0, WAD_HEADER_SIZE),
		binary.LittleEndian, &w.Header)
	if err != nil {
		return nil, fmt.Errorf("couldn't read wad header: %w", err)
	}
	if w.Header.MagicSig != IWAD_MAGIC_SIG && w.Header.MagicSig != PWAD_MAGIC_SIG {
		return nil, fmt.Errorf("%w: bad signature %08X", ErrNotAWad, w.Header.MagicSig)
	}

	dirSize := int64(w.Header.LumpCount) * LUMP_ENTRY_SIZE
	dirEnd := int64(w.Header.DirectoryStart) + dirSize
	if dirEnd > size {
		return nil, fmt.Errorf("%w: %d lumps at offset %d run past the end of file (%d bytes)",
			ErrBadDirectory, w.Header.LumpCount, w.Header.DirectoryStart, size)
	}
	// Read in whole directory at once
	w.Directory = make([]LumpEntry, w.Header.LumpCount)
	err = binary.Read(io.NewSectionReader(r, int64(w.Header.DirectoryStart), dirSize),
		binary.LittleEndian, w.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read lump info from a wad's directory: %w", err)
	}
	for i, entry := range w.Directory {
		if int64(entry.FilePos)+int64(entry.Size) > size {
			return nil, fmt.Errorf("%w: lump %d (%s) runs past the end of file",
				ErrBadDirectory, i, w.LumpName(i))
		}
	}
	return w, nil
}

func (w *Wad) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *Wad) IsIWAD() bool {
	return w.Header.MagicSig == IWAD_MAGIC_SIG
}

func (w *Wad) LumpName(idx int) string {
	return string(ByteSliceBeforeTerm(w.Directory[idx].Name[:]))
}

// ReadLump returns a copy of the lump contents
func (w *Wad) ReadLump(idx int) ([]byte, error) {
	entry := w.Directory[idx]
	buf := make([]byte, entry.Size)
	if _, err := w.r.ReadAt(buf, int64(entry.FilePos)); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("couldn't read lump %d (%s): %w", idx, w.LumpName(idx), err)
	}
	return buf, nil
}

// readRecords decodes lump idx into data, which must be a slice of
// recordSize-sized structs with enough room for the whole lump
func (w *Wad) readRecords(idx int, recordSize int, data any) error {
	entry := w.Directory[idx]
	if entry.Size%uint32(recordSize) != 0 {
		return fmt.Errorf("%w: %s is %d bytes, records are %d", ErrBadLump,
			w.LumpName(idx), entry.Size, recordSize)
	}
	err := binary.Read(io.NewSectionReader(w.r, int64(entry.FilePos), int64(entry.Size)),
		binary.LittleEndian, data)
	if err != nil {
		return fmt.Errorf("couldn't read lump %d (%s): %w", idx, w.LumpName(idx), err)
	}
	return nil
}

func recordCount(entry LumpEntry, recordSize int) int {
	return int(entry.Size) / recordSize
}

// Levels finds every level marker and the level lumps following it, in
// directory order. A level ends at the first lump that is not a level lump.
func (w *Wad) Levels() []LevelRef {
	var levels []LevelRef
	var cur *LevelRef
	for i, entry := range w.Directory {
		// exclude zero byte and all that follows it from string for pattern
		// matching to work correctly
		bname := ByteSliceBeforeTerm(entry.Name[:])
		if IsALevel(bname) {
			levels = append(levels, LevelRef{
				Name:   string(bname),
				Marker: i,
				Format: FORMAT_DOOM,
				Lumps:  make(map[string]int),
			})
			cur = &levels[len(levels)-1]
			continue
		}
		if cur == nil {
			continue
		}
		sname := string(bname)
		if !isLevelLump(sname) {
			cur = nil
			continue
		}
		if sname == "BEHAVIOR" {
			cur.Format = FORMAT_HEXEN
		}
		if _, dup := cur.Lumps[sname]; dup {
			cur.Duplicates = append(cur.Duplicates, sname)
			continue
		}
		cur.Lumps[sname] = i
	}
	return levels
}

// Missing lists the mandatory lumps the level lacks
func (ref LevelRef) Missing() []string {
	var ret []string
	for _, name := range LUMP_MUSTEXIST {
		if _, ok := ref.Lumps[name]; !ok {
			ret = append(ret, name)
		}
	}
	return ret
}
