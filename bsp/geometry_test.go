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

// geometry_test.go
package bsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSideOf(t *testing.T) {
	start, end := v(0, 0), v(0, 10)
	require.Equal(t, SIDE_RIGHT, sideOf(start, end, v(1, 5), DEFAULT_WELD_EPSILON))
	require.Equal(t, SIDE_LEFT, sideOf(start, end, v(-1, 5), DEFAULT_WELD_EPSILON))
	require.Equal(t, SIDE_ON, sideOf(start, end, v(0.004, 50), DEFAULT_WELD_EPSILON))
	require.Equal(t, SIDE_ON, sideOf(start, end, v(0, -3), DEFAULT_WELD_EPSILON))
	require.Equal(t, SIDE_RIGHT, sideOf(start, end, v(0.004, 50), 0))
}

func TestSideOpposite(t *testing.T) {
	require.Equal(t, SIDE_LEFT, SIDE_RIGHT.Opposite())
	require.Equal(t, SIDE_RIGHT, SIDE_LEFT.Opposite())
	require.Equal(t, SIDE_ON, SIDE_ON.Opposite())
	require.Equal(t, "right", SIDE_RIGHT.String())
}

func TestLineIntersection(t *testing.T) {
	ta, tb, ok := lineIntersection(v(0, 0), v(4, 0), v(1, -1), v(1, 1))
	require.True(t, ok)
	require.InDelta(t, 0.25, ta, 1e-12)
	require.InDelta(t, 0.5, tb, 1e-12)

	// Off the ends of both segments still intersects the lines
	ta, _, ok = lineIntersection(v(0, 0), v(1, 0), v(3, 5), v(3, 6))
	require.True(t, ok)
	require.InDelta(t, 3.0, ta, 1e-12)
	require.False(t, inNormalRange(ta))

	_, _, ok = lineIntersection(v(0, 0), v(1, 1), v(0, 1), v(2, 3))
	require.False(t, ok)
}

func TestParallelDirections(t *testing.T) {
	require.True(t, parallelDirections(v(1, 1), v(-3, -3)))
	require.True(t, parallelDirections(v(1e6, 1), v(2e6, 2)))
	require.False(t, parallelDirections(v(1, 0), v(1, 0.001)))
}

func TestVec2(t *testing.T) {
	a := v(3, 4)
	require.Equal(t, 5.0, a.Length())
	require.Equal(t, 0.0, a.Cross(a.Scale(2)))
	require.Equal(t, 25.0, a.Dot(a))
	require.True(t, a.IsFinite())
	require.False(t, v(math.NaN(), 0).IsFinite())
	require.False(t, v(0, math.Inf(1)).IsFinite())
	require.Equal(t, "(3, 4)", a.String())
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	require.True(t, b.Empty())
	b.Extend(v(1, 2))
	b.Extend(v(-3, 5))
	require.False(t, b.Empty())
	require.Equal(t, 4.0, b.Width())
	require.Equal(t, 3.0, b.Height())
	require.True(t, b.Contains(v(0, 3)))
	require.False(t, b.Contains(v(0, 6)))
}
