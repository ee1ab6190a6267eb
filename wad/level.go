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

// level.go
package wad

import (
	"fmt"

	"github.com/vigilantdoomer/floatbsp/bsp"
)

// Level holds the lumps of one level that a node builder needs. Hexen
// linedefs are reduced to the Doom layout: action and args are not needed
// to build nodes.
type Level struct {
	Name     string
	Format   Format
	Linedefs []Linedef
	Sidedefs []Sidedef
	Vertices []Vertex
	Sectors  []Sector
}

// Conversion is the result of turning a level into builder input
type Conversion struct {
	Lines []bsp.Line
	// Linedef index of each entry in Lines
	Linedefs []int
	// Linedefs dropped because both ends sit on the same spot
	ZeroLength int
	// Linedefs dropped because they have no sidedef at all
	NoSidedefs int
	// Linedefs with only a back sidedef, turned around so that the sidedef
	// is in front
	Flipped int
}

// LoadLevel reads the lumps of ref
func (w *Wad) LoadLevel(ref LevelRef) (*Level, error) {
	if missing := ref.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %v", ref.Name, ErrMissingLump, missing)
	}
	lvl := &Level{Name: ref.Name, Format: ref.Format}

	idx := ref.Lumps["LINEDEFS"]
	if ref.Format == FORMAT_HEXEN {
		hexen := make([]HexenLinedef, recordCount(w.Directory[idx], HEXEN_LINEDEF_SIZE))
		if err := w.readRecords(idx, HEXEN_LINEDEF_SIZE, hexen); err != nil {
			return nil, fmt.Errorf("%s: %w", ref.Name, err)
		}
		lvl.Linedefs = make([]Linedef, len(hexen))
		for i, h := range hexen {
			lvl.Linedefs[i] = Linedef{
				StartVertex: h.StartVertex,
				EndVertex:   h.EndVertex,
				Flags:       h.Flags,
				Action:      uint16(h.Action),
				FrontSdef:   h.FrontSdef,
				BackSdef:    h.BackSdef,
			}
		}
	} else {
		lvl.Linedefs = make([]Linedef, recordCount(w.Directory[idx], DOOM_LINEDEF_SIZE))
		if err := w.readRecords(idx, DOOM_LINEDEF_SIZE, lvl.Linedefs); err != nil {
			return nil, fmt.Errorf("%s: %w", ref.Name, err)
		}
	}

	idx = ref.Lumps["SIDEDEFS"]
	lvl.Sidedefs = make([]Sidedef, recordCount(w.Directory[idx], DOOM_SIDEDEF_SIZE))
	if err := w.readRecords(idx, DOOM_SIDEDEF_SIZE, lvl.Sidedefs); err != nil {
		return nil, fmt.Errorf("%s: %w", ref.Name, err)
	}

	idx = ref.Lumps["VERTEXES"]
	lvl.Vertices = make([]Vertex, recordCount(w.Directory[idx], DOOM_VERTEX_SIZE))
	if err := w.readRecords(idx, DOOM_VERTEX_SIZE, lvl.Vertices); err != nil {
		return nil, fmt.Errorf("%s: %w", ref.Name, err)
	}

	idx = ref.Lumps["SECTORS"]
	lvl.Sectors = make([]Sector, recordCount(w.Directory[idx], DOOM_SECTOR_SIZE))
	if err := w.readRecords(idx, DOOM_SECTOR_SIZE, lvl.Sectors); err != nil {
		return nil, fmt.Errorf("%s: %w", ref.Name, err)
	}
	return lvl, nil
}

func (l *Level) sidedefSector(linedef int, sdef uint16) (int, error) {
	if sdef == SIDEDEF_NONE {
		return bsp.NO_SECTOR, nil
	}
	if int(sdef) >= len(l.Sidedefs) {
		return 0, fmt.Errorf("%w: linedef %d references sidedef %d, only %d exist",
			ErrBadReference, linedef, sdef, len(l.Sidedefs))
	}
	sector := l.Sidedefs[sdef].Sector
	if int(sector) >= len(l.Sectors) {
		return 0, fmt.Errorf("%w: sidedef %d references sector %d, only %d exist",
			ErrBadReference, sdef, sector, len(l.Sectors))
	}
	return int(sector), nil
}

// Lines converts linedefs into builder input. Linedefs with no sidedefs or
// with zero length are skipped and counted; a linedef with only a back
// sidedef is turned around. Out of range vertex, sidedef or sector numbers
// fail with ErrBadReference.
func (l *Level) Lines() (*Conversion, error) {
	conv := &Conversion{
		Lines:    make([]bsp.Line, 0, len(l.Linedefs)),
		Linedefs: make([]int, 0, len(l.Linedefs)),
	}
	for i, ld := range l.Linedefs {
		if int(ld.StartVertex) >= len(l.Vertices) || int(ld.EndVertex) >= len(l.Vertices) {
			return nil, fmt.Errorf("%s: %w: linedef %d references vertices %d-%d, only %d exist",
				l.Name, ErrBadReference, i, ld.StartVertex, ld.EndVertex, len(l.Vertices))
		}
		front, err := l.sidedefSector(i, ld.FrontSdef)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.Name, err)
		}
		back, err := l.sidedefSector(i, ld.BackSdef)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.Name, err)
		}
		start := l.Vertices[ld.StartVertex]
		end := l.Vertices[ld.EndVertex]
		if start == end {
			conv.ZeroLength++
			continue
		}
		if front == bsp.NO_SECTOR {
			if back == bsp.NO_SECTOR {
				conv.NoSidedefs++
				continue
			}
			start, end = end, start
			front, back = back, bsp.NO_SECTOR
			conv.Flipped++
		}
		conv.Lines = append(conv.Lines, bsp.Line{
			Start:       bsp.Vec2{X: float64(start.XPos), Y: float64(start.YPos)},
			End:         bsp.Vec2{X: float64(end.XPos), Y: float64(end.YPos)},
			FrontSector: front,
			BackSector:  back,
		})
		conv.Linedefs = append(conv.Linedefs, i)
	}
	return conv, nil
}
