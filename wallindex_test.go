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
)

func TestWallIndexCandidatesNearFindsWallsUnderAQueryBox(t *testing.T) {
	_, cell := newTestContext(t)
	region := RegionID(0)
	buildUnitCube(cell, region)

	idx := BuildWallIndex(cell)
	near := idx.CandidatesNear(mgl64.Vec3{0, 0.5, 0.5}, 0.1)
	assert.NotEmpty(t, near, "a query box straddling the cube's x=0 face must find at least one of its two triangles")
}

func TestWallIndexCandidatesNearIsEmptyFarFromEveryWall(t *testing.T) {
	_, cell := newTestContext(t)
	buildUnitCube(cell, RegionID(0))

	idx := BuildWallIndex(cell)
	far := idx.CandidatesNear(mgl64.Vec3{500, 500, 500}, 0.1)
	assert.Empty(t, far, "a query box far from the cube must not match any wall's bounding rectangle")
}

func TestWallIndexCandidatesInSegmentCoversTheRayPath(t *testing.T) {
	_, cell := newTestContext(t)
	buildUnitCube(cell, RegionID(0))

	idx := BuildWallIndex(cell)
	hits := idx.CandidatesInSegment(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{0.5, 0.5, 0.5})
	assert.NotEmpty(t, hits, "a segment crossing the cube's x=0 face must find at least one candidate wall")

	miss := idx.CandidatesInSegment(mgl64.Vec3{500, 500, 500}, mgl64.Vec3{501, 501, 501})
	assert.Empty(t, miss, "a segment nowhere near the cube must find no candidates")
}

func TestSubvolumeWallIndexIsCachedAcrossCalls(t *testing.T) {
	_, cell := newTestContext(t)
	buildUnitCube(cell, RegionID(0))

	first := cell.WallIndex()
	second := cell.WallIndex()
	assert.Same(t, first, second, "WallIndex must be built once and reused")
}
