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

// buildUnitCube tags a closed unit cube [0,1]^3 (two triangles per
// face, outward-pointing normals) with regionID and attaches every
// wall to cell, per spec.md §8's "unit cube enclosure query" scenario.
func buildUnitCube(cell *Subvolume, regionID RegionID) {
	type quad struct{ a, b, c, d mgl64.Vec3 }
	faces := []quad{
		{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}, // x=0, outward -x
		{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}, // x=1, outward +x
		{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, // y=0, outward -y
		{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}, // y=1, outward +y
		{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}, // z=0, outward -z
		{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, // z=1, outward +z
	}
	for _, f := range faces {
		for _, w := range []*Wall{NewWall(f.a, f.b, f.c), NewWall(f.a, f.c, f.d)} {
			w.Regions = []RegionID{regionID}
			cell.AddWall(w)
		}
	}
}

func newTestContext(t *testing.T) (*SimContext, *Subvolume) {
	t.Helper()
	x := uniformPartition(-10, 10, 1)
	y := uniformPartition(-10, 10, 1)
	z := uniformPartition(-10, 10, 1)
	l := NewLattice(x, y, z)
	ctx := NewSimContext(l, LatticeMesh{}, NewMathRandRNG(1), NewPriorityScheduler(), NewTextOutputWriter(t.TempDir()), 16)
	return ctx, l.Cells[0]
}

func TestFindEnclosingRegionsUnitCubeInteriorPoint(t *testing.T) {
	ctx, cell := newTestContext(t)
	region := ctx.AddRegion("cube", CountsEnclosed|CountsContents)
	buildUnitCube(cell, region.ID)

	regions := newRegionSet(make([]RegionID, 0, 4))
	antiregions := newRegionSet(make([]RegionID, 0, 4))
	err := findEnclosingRegions(ctx, mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{0.5, 0.5, 0.5}, regions, antiregions, 0)
	require.NoError(t, err)
	assert.Equal(t, []RegionID{region.ID}, regions.IDs())
	assert.Empty(t, antiregions.IDs())
}

func TestFindEnclosingRegionsUnitCubeExteriorPoint(t *testing.T) {
	ctx, cell := newTestContext(t)
	region := ctx.AddRegion("cube", CountsEnclosed|CountsContents)
	buildUnitCube(cell, region.ID)

	regions := newRegionSet(make([]RegionID, 0, 4))
	antiregions := newRegionSet(make([]RegionID, 0, 4))
	err := findEnclosingRegions(ctx, mgl64.Vec3{-5, 5, 5}, mgl64.Vec3{5, 5, 5}, regions, antiregions, 0)
	require.NoError(t, err)
	assert.Empty(t, regions.IDs(), "a ray that never approaches the cube should enclose nothing")
}

func TestCountRegionFromScratchScaleQuery(t *testing.T) {
	ctx, cell := newTestContext(t)
	region := ctx.AddRegion("cube", CountsEnclosed|CountsContents)
	buildUnitCube(cell, region.ID)
	require.NoError(t, ctx.CheckManifold())
	require.NoError(t, InitWaypoints(ctx))

	target := Target{Kind: TargetSpecies, ID: 1}
	key := CounterKey{Target: target, Region: region.ID, Flavor: MOL}
	c := ctx.Counters.GetOrCreate(key, ctx.RegionHash, true)

	err := CountRegionFromScratch(ctx, target, 1, mgl64.Vec3{0.5, 0.5, 0.5}, nil, true, false, OrientAny, 0, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Mol.NEnclosed)
}
