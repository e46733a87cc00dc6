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
	"bitbucket.org/ctessum/sparse"
	"github.com/gonum/floats"
)

// MoleculeCountSnapshot exports a target's n_at+n_enclosed, one value
// per lattice cell, as a dense (nx,ny,nz) array for diagnostic
// inspection — the same shape CTMData.AddVariable uses for gridded
// concentration fields in vargrid.go, repurposed here from CTM
// variables to a counter-table slice.
func MoleculeCountSnapshot(ctx *SimContext, target Target) *sparse.DenseArray {
	l := ctx.Lattice
	out := sparse.ZerosDense(l.nx, l.ny, l.nz)
	for _, region := range ctx.Regions {
		key := CounterKey{Target: target, Region: region.ID, Flavor: MOL}
		c := ctx.Counters.Lookup(key, ctx.RegionHash)
		if c == nil || c.Mol == nil {
			continue
		}
		total := float64(c.Mol.NAt + c.Mol.NEnclosed)
		if total == 0 {
			continue
		}
		for _, cell := range l.Cells {
			if cellTouchesRegion(cell, region.ID) {
				out.Set(out.Get(cell.I, cell.J, cell.K)+total, cell.I, cell.J, cell.K)
			}
		}
	}
	return out
}

// SnapshotTotal sums a count snapshot's dense array in one pass, the
// way CTMData's own diagnostics total a gridded variable (floats.Sum
// on the backing Elements slice rather than a manual nested loop).
func SnapshotTotal(snap *sparse.DenseArray) float64 {
	return floats.Sum(snap.Elements)
}

// cellTouchesRegion reports whether any wall owned by cell references
// region — used only for the diagnostic snapshot's coarse attribution
// of a region-scoped count back onto the lattice it was counted over.
func cellTouchesRegion(cell *Subvolume, region RegionID) bool {
	found := false
	cell.Walls(func(w *Wall) bool {
		if w.hasRegion(region) {
			found = true
			return false
		}
		return true
	})
	return found
}
