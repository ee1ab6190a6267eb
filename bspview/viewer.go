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

// viewer.go
package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vigilantdoomer/floatbsp/bsp"
)

const VIEW_MARGIN = 24

var (
	colorBackground = color.RGBA{0x10, 0x10, 0x18, 0xff}
	colorDone       = color.RGBA{0x50, 0x50, 0x60, 0xff}
	colorCurrent    = color.RGBA{0xf0, 0xe0, 0x40, 0xff}
	colorMiniseg    = color.RGBA{0xe0, 0x30, 0x30, 0xff}
	colorSplitter   = color.RGBA{0x40, 0xe0, 0xf0, 0xff}
	colorLeft       = color.RGBA{0x40, 0xd0, 0x60, 0xff}
	colorRight      = color.RGBA{0x60, 0x80, 0xff, 0xff}
)

// Viewer drives a single-step builder, one transition per key press, and
// draws what the builder is working on
type Viewer struct {
	name   string
	lines  []bsp.Line
	cfg    bsp.Config
	b      *bsp.Builder
	steps  int
	err    error
	width  int
	height int
	view   viewTransform
}

// viewTransform maps map coordinates onto the screen, Y flipped
type viewTransform struct {
	minX, maxY float64
	scale      float64
}

func (v viewTransform) project(p bsp.Vec2) (float32, float32) {
	return float32(VIEW_MARGIN + (p.X-v.minX)*v.scale),
		float32(VIEW_MARGIN + (v.maxY-p.Y)*v.scale)
}

func fitView(lines []bsp.Line, width, height int) viewTransform {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, l := range lines {
		for _, p := range []bsp.Vec2{l.Start, l.End} {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	scale := math.Min(float64(width-2*VIEW_MARGIN)/math.Max(maxX-minX, 1),
		float64(height-2*VIEW_MARGIN)/math.Max(maxY-minY, 1))
	return viewTransform{minX: minX, maxY: maxY, scale: scale}
}

func NewViewer(name string, lines []bsp.Line, cfg bsp.Config, width, height int) (*Viewer, error) {
	v := &Viewer{
		name:   name,
		lines:  lines,
		cfg:    cfg,
		width:  width,
		height: height,
		view:   fitView(lines, width, height),
	}
	if err := v.restart(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Viewer) restart() error {
	b, err := bsp.NewBuilder(v.lines, v.cfg, bsp.WithMode(bsp.MODE_SINGLE_STEP))
	if err != nil {
		return err
	}
	v.b = b
	v.steps = 0
	v.err = nil
	return nil
}

// step makes one transition, unless the build is over
func (v *Viewer) step() {
	if v.b.Done() || v.err != nil {
		return
	}
	if _, err := v.b.Execute(); err != nil {
		v.err = err
		return
	}
	v.steps++
}

func (v *Viewer) runToEnd() {
	for !v.b.Done() && v.err == nil {
		v.step()
	}
}

func (v *Viewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.step()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		v.runToEnd()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return v.restart()
	}
	return nil
}

func (v *Viewer) drawSegment(screen *ebiten.Image, seg *bsp.Segment, clr color.Color, width float32) {
	x0, y0 := v.view.project(seg.Start)
	x1, y1 := v.view.project(seg.End)
	vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
}

// drawSplitterLine extends the splitter across the whole screen
func (v *Viewer) drawSplitterLine(screen *ebiten.Image, seg *bsp.Segment) {
	d := seg.End.Sub(seg.Start)
	reach := float64(v.width+v.height) / v.view.scale / d.Length()
	a := seg.Start.Sub(d.Scale(reach))
	b := seg.End.Add(d.Scale(reach))
	x0, y0 := v.view.project(a)
	x1, y1 := v.view.project(b)
	vector.StrokeLine(screen, x0, y0, x1, y1, 1, colorSplitter, true)
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	for _, ss := range v.b.Subsectors() {
		for _, seg := range ss.Segments {
			clr := colorDone
			if seg.IsMiniseg() {
				clr = colorMiniseg
			}
			v.drawSegment(screen, seg, clr, 1)
		}
	}
	if p := v.b.Partition(); p != nil {
		for _, seg := range p.Left {
			v.drawSegment(screen, seg, colorLeft, 2)
		}
		for _, seg := range p.Right {
			v.drawSegment(screen, seg, colorRight, 2)
		}
		for _, seg := range p.Minisegs {
			v.drawSegment(screen, seg, colorMiniseg, 2)
		}
	} else if item := v.b.Current(); item != nil {
		for _, seg := range item.Segments {
			clr := colorCurrent
			if seg.IsMiniseg() {
				clr = colorMiniseg
			}
			v.drawSegment(screen, seg, clr, 2)
		}
	}
	if s := v.b.Splitter(); s != nil && !v.b.Done() {
		v.drawSplitterLine(screen, s)
	}
	ebitenutil.DebugPrintAt(screen, v.status(), 8, 4)
	ebitenutil.DebugPrintAt(screen, "Space: step | Enter: run to end | R: restart | Esc: quit",
		8, v.height-16)
}

func (v *Viewer) status() string {
	path := "<root>"
	if item := v.b.Current(); item != nil && item.BranchPath != "" {
		path = item.BranchPath
	}
	s := fmt.Sprintf("%s  step %d  state %s  branch %s  pending %d  subsectors %d",
		v.name, v.steps, v.b.State(), path, v.b.Pending(), len(v.b.Subsectors()))
	if v.err != nil {
		s += "\n" + v.err.Error()
	}
	return s
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}
