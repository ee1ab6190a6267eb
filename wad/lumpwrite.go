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

// lumpwrite.go
package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Writer assembles a wad from lumps. Lump data is laid out in the order
// lumps were added, the directory follows the last lump.
type Writer struct {
	magic uint32
	names []string
	data  [][]byte
}

func NewWriter(iwad bool) *Writer {
	magic := PWAD_MAGIC_SIG
	if iwad {
		magic = IWAD_MAGIC_SIG
	}
	return &Writer{magic: magic}
}

// AddLump appends a lump. Data is written without conversion, so it must
// already be in file endianness. Nil data makes a marker lump.
func (w *Writer) AddLump(name string, data []byte) {
	w.names = append(w.names, name)
	w.data = append(w.data, data)
}

// AddStructLump appends a lump from a typed array of structures that
// represent game data
func (w *Writer) AddStructLump(name string, data any) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("couldn't encode lump %s: %w", name, err)
	}
	w.AddLump(name, buf.Bytes())
	return nil
}

// AddLevel appends marker and lumps of lvl. Linedefs are written in the
// layout lvl.Format calls for; Hexen levels get an empty BEHAVIOR lump
// unless behavior is supplied.
func (w *Writer) AddLevel(lvl *Level, behavior []byte) error {
	w.AddLump(lvl.Name, nil)
	w.AddLump("THINGS", nil)
	var err error
	if lvl.Format == FORMAT_HEXEN {
		hexen := make([]HexenLinedef, len(lvl.Linedefs))
		for i, ld := range lvl.Linedefs {
			hexen[i] = HexenLinedef{
				StartVertex: ld.StartVertex,
				EndVertex:   ld.EndVertex,
				Flags:       ld.Flags,
				Action:      uint8(ld.Action),
				FrontSdef:   ld.FrontSdef,
				BackSdef:    ld.BackSdef,
			}
		}
		err = w.AddStructLump("LINEDEFS", hexen)
	} else {
		err = w.AddStructLump("LINEDEFS", lvl.Linedefs)
	}
	if err != nil {
		return err
	}
	if err := w.AddStructLump("SIDEDEFS", lvl.Sidedefs); err != nil {
		return err
	}
	if err := w.AddStructLump("VERTEXES", lvl.Vertices); err != nil {
		return err
	}
	if err := w.AddStructLump("SECTORS", lvl.Sectors); err != nil {
		return err
	}
	if lvl.Format == FORMAT_HEXEN {
		if behavior == nil {
			behavior = []byte{}
		}
		w.AddLump("BEHAVIOR", behavior)
	}
	return nil
}

// WriteTo writes header, lumps and directory to out
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	var buf bytes.Buffer
	le := make([]LumpEntry, len(w.names))
	curPos := uint32(WAD_HEADER_SIZE)
	buf.Write(make([]byte, WAD_HEADER_SIZE))
	for i, data := range w.data {
		buf.Write(data)
		le[i].FilePos = curPos
		le[i].Size = uint32(len(data))
		copy(le[i].Name[:], w.names[i])
		curPos += uint32(len(data))
	}
	header := WadHeader{
		MagicSig:       w.magic,
		LumpCount:      uint32(len(le)),
		DirectoryStart: curPos,
	}
	if err := binary.Write(&buf, binary.LittleEndian, le); err != nil {
		return 0, err
	}
	b := buf.Bytes()
	var hbuf bytes.Buffer
	if err := binary.Write(&hbuf, binary.LittleEndian, header); err != nil {
		return 0, err
	}
	copy(b, hbuf.Bytes())
	n, err := out.Write(b)
	return int64(n), err
}
