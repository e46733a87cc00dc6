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

// SimContext is the explicit simulation context passed into every
// core entry point — replacing the original design's global `world`
// object. All subsystems refer to indices within it;
// no thread-local or process-global mutable state is required.
type SimContext struct {
	Lattice  *Lattice
	Regions  []*Region // indexed by RegionID
	Counters *CounterTable
	Mesh     Mesh
	RNG      RNG
	Sched    Scheduler
	Output   OutputWriter
	Subunits *SubunitRegistry

	TimeStep   float64 // seconds per iteration, for scaled-hits normalization (§4.F)
	SpaceStep  float64
	LengthUnit float64

	waypoints []*Waypoint // one per Lattice cell, same index
}

// NewSimContext wires the collaborators together. waypoints are left
// nil until InitWaypoints runs.
func NewSimContext(lattice *Lattice, mesh Mesh, rng RNG, sched Scheduler, out OutputWriter, counterTableSize int) *SimContext {
	return &SimContext{
		Lattice:  lattice,
		Counters: NewCounterTable(counterTableSize),
		Mesh:     mesh,
		RNG:      rng,
		Sched:    sched,
		Output:   out,
		Subunits: NewSubunitRegistry(),
	}
}

// RegionHash looks up a region's cached hash by ID; used as the
// CounterTable's regionHashOf callback.
func (ctx *SimContext) RegionHash(id RegionID) uint64 {
	if int(id) < 0 || int(id) >= len(ctx.Regions) {
		return 0
	}
	return ctx.Regions[id].Hash
}

// AddRegion registers a new region and returns it.
func (ctx *SimContext) AddRegion(name string, flags RegionFlags) *Region {
	r := &Region{
		ID:    RegionID(len(ctx.Regions)),
		UUID:  newRegionUUID(),
		Name:  name,
		Hash:  hashInt64(int64(len(ctx.Regions))) ^ 0x9e3779b97f4a7c15,
		Flags: flags,
	}
	ctx.Regions = append(ctx.Regions, r)
	return r
}

func (ctx *SimContext) Region(id RegionID) *Region { return ctx.Regions[id] }

// CheckManifold verifies that every region flagged CountsEnclosed is a
// closed, watertight surface: every wall edge referencing the region
// must be shared by exactly one other wall referencing the region.
// This is the init-time check spec.md §3 requires before any
// ENCLOSING counter may be created.
func (ctx *SimContext) CheckManifold() error {
	type edgeKey struct {
		region      RegionID
		ax, ay, az  float64
		bx, by, bz  float64
	}
	counts := make(map[edgeKey]int)
	normKey := func(a, b [3]float64) ([3]float64, [3]float64) {
		if a[0] < b[0] || (a[0] == b[0] && (a[1] < b[1] || (a[1] == b[1] && a[2] < b[2]))) {
			return a, b
		}
		return b, a
	}
	for _, cell := range ctx.Lattice.Cells {
		cell.Walls(func(w *Wall) bool {
			verts := [3][3]float64{
				{w.V0[0], w.V0[1], w.V0[2]},
				{w.V1[0], w.V1[1], w.V1[2]},
				{w.V2[0], w.V2[1], w.V2[2]},
			}
			for _, rid := range w.Regions {
				if ctx.Regions[rid].Flags&CountsEnclosed == 0 {
					continue
				}
				for e := 0; e < 3; e++ {
					a, b := normKey(verts[e], verts[(e+1)%3])
					counts[edgeKey{rid, a[0], a[1], a[2], b[0], b[1], b[2]}]++
				}
			}
			return true
		})
	}
	for k, n := range counts {
		if n != 2 {
			r := ctx.Regions[k.region]
			r.Manifold = NotManifold
			return &NonManifoldRegion{Region: r.Name}
		}
	}
	for _, r := range ctx.Regions {
		if r.Flags&CountsEnclosed != 0 && r.Manifold == ManifoldUnchecked {
			r.Manifold = IsManifold
		}
	}
	return nil
}
