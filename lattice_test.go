/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package countspace

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformPartition(lo, hi float64, n int) PartitionTable {
	coarse := make([]float64, n+1)
	step := (hi - lo) / float64(n)
	for i := range coarse {
		coarse[i] = lo + step*float64(i)
	}
	return PartitionTable{Coarse: coarse, Fine: BuildFineSequence(lo, hi, step/4)}
}

func TestPartitionTableBisectClampsToRange(t *testing.T) {
	p := uniformPartition(0, 10, 10)
	assert.Equal(t, 0, p.bisect(-5))
	assert.Equal(t, 0, p.bisect(0))
	assert.Equal(t, 4, p.bisect(4.5))
	assert.Equal(t, 9, p.bisect(9.99))
	assert.Equal(t, 9, p.bisect(100))
}

func TestNewLatticeFaceAdjacency(t *testing.T) {
	x := uniformPartition(0, 3, 3)
	y := uniformPartition(0, 3, 3)
	z := uniformPartition(0, 3, 3)
	l := NewLattice(x, y, z)

	mid := l.Cells[l.flatIndex(1, 1, 1)]
	require.NotNil(t, mid.neighbors[FaceXNeg])
	require.NotNil(t, mid.neighbors[FaceXPos])
	assert.Equal(t, l.Cells[l.flatIndex(0, 1, 1)], mid.neighbors[FaceXNeg])
	assert.Equal(t, l.Cells[l.flatIndex(2, 1, 1)], mid.neighbors[FaceXPos])

	corner := l.Cells[l.flatIndex(0, 0, 0)]
	assert.Nil(t, corner.neighbors[FaceXNeg])
	assert.Nil(t, corner.neighbors[FaceYNeg])
	assert.Nil(t, corner.neighbors[FaceZNeg])
}

func TestCollideCellTimeExitsThroughExpectedFace(t *testing.T) {
	x := uniformPartition(0, 1, 1)
	y := uniformPartition(0, 1, 1)
	z := uniformPartition(0, 1, 1)
	l := NewLattice(x, y, z)
	cell := l.Cells[0]

	t_, face, hit := CollideCellTime(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}, cell)
	require.True(t, hit)
	assert.Equal(t, FaceXPos, face)
	assert.InDelta(t, 0.5, t_, 1e-9)
}

func TestWalkRaySingleCellWhenDisplacementStaysInside(t *testing.T) {
	x := uniformPartition(0, 10, 1)
	y := uniformPartition(0, 10, 1)
	z := uniformPartition(0, 10, 1)
	l := NewLattice(x, y, z)
	cell := l.Cells[0]

	segs := WalkRay(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2}, cell)
	require.Len(t, segs, 1)
	assert.Equal(t, cell, segs[0].Cell)
	assert.Equal(t, 0.0, segs[0].TStart)
	assert.Equal(t, 1.0, segs[0].TEnd)
}

func TestWalkRayCrossesIntoNeighborCell(t *testing.T) {
	x := uniformPartition(0, 2, 2)
	y := uniformPartition(0, 1, 1)
	z := uniformPartition(0, 1, 1)
	l := NewLattice(x, y, z)
	start := l.CellOf(mgl64.Vec3{0.5, 0.5, 0.5})

	segs := WalkRay(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{1.5, 0.5, 0.5}, start)
	require.Len(t, segs, 2)
	assert.Equal(t, l.CellOf(mgl64.Vec3{0.5, 0.5, 0.5}), segs[0].Cell)
	assert.Equal(t, l.CellOf(mgl64.Vec3{1.5, 0.5, 0.5}), segs[1].Cell)
}
