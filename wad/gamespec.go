// Copyright (C) 2022, VigilantDoomer
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

// Wad specifications for Doom-engine family of games
// (including Heretic, Hexen, etc.), the parts of them that a node builder
// reads
package wad

import (
	"regexp"
)

// Both brought in accordance with Prboom-Plus 2.6.1um map name ranges, except
// that E1M0x is possible (when it is probably shouldn't be) since I don't
// want to complicate these regexp's (and E9M97 is perfectly legal, for example)
var MAP_SEQUEL *regexp.Regexp = regexp.MustCompile(`^MAP[0-9][0-9]$`)
var MAP_ExMx *regexp.Regexp = regexp.MustCompile(`^E[1-9]M[0-9][0-9]?$`)

type Format int

const (
	FORMAT_DOOM Format = iota
	// Detected by the presence of BEHAVIOR lump
	FORMAT_HEXEN
)

func (f Format) String() string {
	if f == FORMAT_HEXEN {
		return "Hexen"
	}
	return "Doom"
}

const IWAD_MAGIC_SIG = uint32(0x44415749) // ASCII - 'IWAD'
const PWAD_MAGIC_SIG = uint32(0x44415750) // ASCII - 'PWAD'

// COMMON linedef flags: for Doom & derivatives
const LF_IMPASSABLE = uint16(0x0001)

const SIDEDEF_NONE = uint16(0xFFFF)

const WAD_HEADER_SIZE = 12    // Size of "WadHeader" struct
const LUMP_ENTRY_SIZE = 16    // Size of "LumpEntry" struct
const DOOM_LINEDEF_SIZE = 14  // Size of "Linedef" struct
const HEXEN_LINEDEF_SIZE = 16 // Size of "HexenLinedef" struct
const DOOM_SIDEDEF_SIZE = 30  // Size of "Sidedef" struct
const DOOM_VERTEX_SIZE = 4    // Size of "Vertex" struct
const DOOM_SECTOR_SIZE = 26   // Size of "Sector" struct

// Lumps a level can't be built without. SECTORS only feeds the sector count
// check, but a level without it is broken anyway.
var LUMP_MUSTEXIST = []string{"LINEDEFS", "SIDEDEFS", "VERTEXES", "SECTORS"}

// Every lump name that may follow a level marker
var LUMP_LEVEL = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS",
	"SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP", "BEHAVIOR", "SCRIPTS"}

// Wad header, 12 bytes.
type WadHeader struct {
	MagicSig       uint32
	LumpCount      uint32 // vanilla treats this as signed int32
	DirectoryStart uint32 // vanilla treats this as signed int32
}

// Lump entries listed one after another comprise the directory,
// the first such lump entry is found at WadHeader.DirectoryStart offset into
// the wad file.
// Each lump entry is 16 bytes long
type LumpEntry struct {
	FilePos uint32 // vanilla treats this as signed int32
	Size    uint32 // vanilla treats this as signed int32
	Name    [8]byte
}

// Doom/Heretic linedef format
type Linedef struct {
	// Vanilla treats ALL fields as signed int16
	StartVertex uint16
	EndVertex   uint16
	Flags       uint16
	Action      uint16
	Tag         uint16
	FrontSdef   uint16 // Front Sidedef number
	BackSdef    uint16 // Back Sidedef number (0xFFFF special value for one-sided line)
}

// Hexen linedef format
type HexenLinedef struct {
	// Vanilla treats ALL fields as signed
	StartVertex uint16
	EndVertex   uint16
	Flags       uint16
	Action      uint8
	Args        [5]uint8
	FrontSdef   uint16
	BackSdef    uint16
}

// Sidedef format - common to Doom and Hexen
type Sidedef struct {
	XOffset int16
	YOffset int16
	UpName  [8]byte // name of upper texture
	LoName  [8]byte // name of lower texture
	MidName [8]byte // name of middle texture
	Sector  uint16  // sector number; vanilla treats this as signed int16
}

// A Vertex is a coordinate on the map, and can be used in both linedefs and segs
// as starting(ending) point
type Vertex struct {
	XPos int16
	YPos int16
}

type Sector struct {
	FloorHeight int16
	CeilHeight  int16
	FloorName   [8]byte
	CeilName    [8]byte
	LightLevel  uint16
	Special     uint16
	Tag         uint16
}

// Returns whether the string in lumpName represents Doom level marker,
// i.e. MAP02, E3M1
func IsALevel(lumpName []byte) bool {
	return MAP_SEQUEL.Match(lumpName) || MAP_ExMx.Match(lumpName)
}

func isLevelLump(name string) bool {
	for _, it := range LUMP_LEVEL {
		if it == name {
			return true
		}
	}
	return false
}
