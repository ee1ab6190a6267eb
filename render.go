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

// render.go
package main

import (
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/vigilantdoomer/floatbsp/bsp"
)

// Margin around the map, in pixels
const RENDER_MARGIN = 8

// renderView maps map coordinates onto the picture. Map Y grows upwards,
// picture Y downwards.
type renderView struct {
	minX, maxY float64
	scale      float64
}

func (v renderView) project(p bsp.Vec2) (float64, float64) {
	return RENDER_MARGIN + (p.X-v.minX)*v.scale, RENDER_MARGIN + (v.maxY-p.Y)*v.scale
}

// pictureSize fits the bounds of the tree into size pixels along the longer
// side, keeping the aspect ratio
func pictureSize(tree *bsp.Tree, size int) (int, int, renderView) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range tree.Vertices {
		minX = math.Min(minX, v.Pos.X)
		minY = math.Min(minY, v.Pos.Y)
		maxX = math.Max(maxX, v.Pos.X)
		maxY = math.Max(maxY, v.Pos.Y)
	}
	w, h := maxX-minX, maxY-minY
	inner := float64(size - 2*RENDER_MARGIN)
	scale := inner / math.Max(w, h)
	width := int(math.Ceil(w*scale)) + 2*RENDER_MARGIN
	height := int(math.Ceil(h*scale)) + 2*RENDER_MARGIN
	return width, height, renderView{minX: minX, maxY: maxY, scale: scale}
}

// sectorColor gives neighbouring sector numbers clearly different hues
func sectorColor(sector int) gg.RGBA {
	if sector == bsp.NO_SECTOR {
		return gg.RGB(0.5, 0.5, 0.5)
	}
	return gg.HSL(float64(sector)*137.508, 0.55, 0.75)
}

// RenderTree draws every subsector filled with the colour of its sector,
// map segments in black and minisegs in red
func RenderTree(tree *bsp.Tree, size int) (*gg.Context, error) {
	width, height, view := pictureSize(tree, size)
	dc := gg.NewContext(width, height)
	dc.ClearWithColor(gg.White)

	for _, ss := range tree.Subsectors {
		if len(ss.Edges) == 0 {
			continue
		}
		clr := sectorColor(ss.Sector)
		dc.SetRGB(clr.R, clr.G, clr.B)
		dc.MoveTo(view.project(ss.Edges[0].Start))
		for _, e := range ss.Edges[1:] {
			dc.LineTo(view.project(e.Start))
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, err
		}
	}

	// Only the pieces that ended up in subsectors are drawn, not the
	// segments they were split from
	dc.SetLineWidth(1)
	for _, miniseg := range []bool{true, false} {
		if miniseg {
			dc.SetRGB(0.85, 0.1, 0.1)
		} else {
			dc.SetRGB(0, 0, 0)
		}
		for _, ss := range tree.Subsectors {
			for _, seg := range ss.Segments {
				if seg.IsMiniseg() != miniseg {
					continue
				}
				x0, y0 := view.project(seg.Start)
				x1, y1 := view.project(seg.End)
				dc.DrawLine(x0, y0, x1, y1)
			}
		}
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

// WritePNG renders tree and encodes it as PNG
func WritePNG(w io.Writer, tree *bsp.Tree, size int) error {
	dc, err := RenderTree(tree, size)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}
