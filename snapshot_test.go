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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoleculeCountSnapshotAndTotalReflectCounterState(t *testing.T) {
	ctx, cell := newTestContext(t)
	region := ctx.AddRegion("cube", CountsContents)
	buildUnitCube(cell, region.ID)

	target := Target{Kind: TargetSpecies, ID: 1}
	key := CounterKey{Target: target, Region: region.ID, Flavor: MOL}
	c := ctx.Counters.GetOrCreate(key, ctx.RegionHash, false)
	c.Mol.NAt = 3
	c.Mol.NEnclosed = 2

	snap := MoleculeCountSnapshot(ctx, target)
	require.NotNil(t, snap)
	assert.Equal(t, float64(5), SnapshotTotal(snap), "the snapshot total must equal n_at+n_enclosed summed over every cell touching the region")
}

func TestSnapshotTotalOfEmptySnapshotIsZero(t *testing.T) {
	ctx, _ := newTestContext(t)
	target := Target{Kind: TargetSpecies, ID: 99}
	snap := MoleculeCountSnapshot(ctx, target)
	assert.Equal(t, float64(0), SnapshotTotal(snap))
}
