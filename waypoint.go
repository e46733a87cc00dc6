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
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const maxWaypointPerturbAttempts = 16

// irrational small offsets (multiples of pi, kept well under the
// half-cell scale) used to bias the waypoint off the exact cell
// center on each axis, so no axis-aligned triangle plane can lie on
// all three coordinates at once.
var waypointAlphaOffset = [3]float64{
	0.137 * math.Pi / 10,
	0.219 * math.Pi / 10,
	0.311 * math.Pi / 10,
}

// Waypoint is the precomputed interior point of a subvolume, with its
// enclosing-region membership (Regions) and the regions crossed
// outward-but-not-inward from the sweep reference (Antiregions).
type Waypoint struct {
	Loc         mgl64.Vec3
	Regions     *RegionSet
	Antiregions *RegionSet
}

// PlaceWaypoint seeds an interior point for cell, perturbing it off
// any wall plane it happens to land on (component C placement, §4.C).
func PlaceWaypoint(cell *Subvolume, rng RNG, mesh Mesh) (mgl64.Vec3, error) {
	alpha := [3]float64{0.5 + waypointAlphaOffset[0], 0.5 + waypointAlphaOffset[1], 0.5 + waypointAlphaOffset[2]}
	loc := mgl64.Vec3{
		alpha[0]*cell.Min[0] + (1-alpha[0])*cell.Max[0],
		alpha[1]*cell.Min[1] + (1-alpha[1])*cell.Max[1],
		alpha[2]*cell.Min[2] + (1-alpha[2])*cell.Max[2],
	}
	for attempt := 0; attempt < maxWaypointPerturbAttempts; attempt++ {
		wall := onWallPlane(loc, cell, mesh)
		if wall == nil {
			return loc, nil
		}
		r := rng.NextInt()%15 - 8
		if r >= 0 {
			r++ // map {-8..7}\{0}, biasing away from exactly 0
		}
		loc = loc.Add(wall.Normal.Mul(EPSC * float64(r)))
	}
	return mgl64.Vec3{}, &UnreachedWaypointTarget{Residual: math.Inf(1)}
}

func onWallPlane(loc mgl64.Vec3, cell *Subvolume, mesh Mesh) *Wall {
	var found *Wall
	for _, w := range mesh.WallsInCell(cell) {
		if withinTol(w.Normal.Dot(loc), w.D, w.D, 1) {
			found = w
			break
		}
	}
	return found
}

// findEnclosingRegions casts a ray from start to loc, updating regions
// and antiregions in place (component C/D's shared core, §4.C). depth
// guards against runaway REDO retries.
func findEnclosingRegions(ctx *SimContext, start, loc mgl64.Vec3, regions, antiregions *RegionSet, depth int) error {
	if depth > 8 {
		return &UnreachedWaypointTarget{
			From:     [3]float64{start[0], start[1], start[2]},
			To:       [3]float64{loc[0], loc[1], loc[2]},
			Residual: loc.Sub(start).Len(),
		}
	}

	delta := loc.Sub(start)
	startCell := ctx.Lattice.CellOf(start)
	segs := WalkRay(start, loc, startCell)

	arena := startCell.Arena()
	enter, err := arena.Acquire()
	if err != nil {
		return err
	}
	defer arena.Release(enter)
	leave, err := arena.Acquire()
	if err != nil {
		return err
	}
	defer arena.Release(leave)

	for _, seg := range segs {
		redo := false
		segStart := start.Add(delta.Mul(seg.TStart))
		segEnd := start.Add(delta.Mul(seg.TEnd))
		candidates := seg.Cell.WallIndex().CandidatesInSegment(segStart, segEnd)
		for _, w := range candidates {
			if len(w.Regions) == 0 {
				continue
			}
			hit := ClassifyTriangle(start, delta, w)
			switch hit.Class {
			case Miss:
				continue
			case Redo:
				redo = true
			case Front, Back:
				if hit.T < seg.TStart-EPSC || hit.T > seg.TEnd+EPSC {
					continue
				}
				for _, rid := range w.Regions {
					if hit.Class == Front {
						if !leave.Remove(rid) {
							enter.Insert(rid)
						}
					} else {
						if !enter.Remove(rid) {
							leave.Insert(rid)
						}
					}
				}
			}
			if redo {
				break
			}
		}
		if redo {
			// Offset each axis by a different multiple, doubling with
			// every retry, so the retried ray leaves the edge or vertex
			// it grazed instead of sliding along it.
			step := math.Ldexp(EPSC*(start.Len()+1), depth+2)
			perturbed := start.Add(mgl64.Vec3{step, 2 * step, 3 * step})
			return findEnclosingRegions(ctx, perturbed, loc, regions, antiregions, depth+1)
		}
	}

	// Commit: cancel against the opposite persistent list, else insert
	// into the matching one. This is the spec's stated *intent* for
	// clean_region_lists — see DESIGN.md's open-question decision on
	// the source's double-antiregion-argument bug.
	for _, rid := range enter.IDs() {
		if !antiregions.Remove(rid) {
			regions.Insert(rid)
		}
	}
	for _, rid := range leave.IDs() {
		if !regions.Remove(rid) {
			antiregions.Insert(rid)
		}
	}
	return nil
}

// InitWaypoints places and enclosure-resolves one waypoint per lattice
// cell. Cells are visited in lattice order with z as the fastest axis;
// the first cell of each (i,j) column resolves against a reference
// point deep in the -z exterior, and subsequent cells inherit and
// update their z-neighbor's waypoint, per §4.C.
func InitWaypoints(ctx *SimContext) error {
	l := ctx.Lattice
	ctx.waypoints = make([]*Waypoint, len(l.Cells))
	refZ := (l.Z.Fine[0] + l.Z.Fine[1]) / 2

	for i := 0; i < l.nx; i++ {
		for j := 0; j < l.ny; j++ {
			var prev *Waypoint
			for k := 0; k < l.nz; k++ {
				cell := l.Cells[l.flatIndex(i, j, k)]
				loc, err := PlaceWaypoint(cell, ctx.RNG, ctx.Mesh)
				if err != nil {
					return fatal("InitWaypoints", err)
				}
				wp := &Waypoint{
					Loc:         loc,
					Regions:     newRegionSet(make([]RegionID, 0, 4)),
					Antiregions: newRegionSet(make([]RegionID, 0, 4)),
				}
				var ref mgl64.Vec3
				if prev == nil {
					ref = mgl64.Vec3{loc[0], loc[1], refZ}
				} else {
					ref = prev.Loc
					prev.Regions.clone(wp.Regions)
					prev.Antiregions.clone(wp.Antiregions)
				}
				if err := findEnclosingRegions(ctx, ref, loc, wp.Regions, wp.Antiregions, 0); err != nil {
					if _, ok := err.(*UnreachedWaypointTarget); ok {
						logDiagnostic("%v", err)
					} else {
						return fatal("InitWaypoints", err)
					}
				}
				ctx.waypoints[cell.Index] = wp
				prev = wp
			}
		}
	}
	return nil
}

// WaypointFor returns the precomputed waypoint for the cell containing p.
func (ctx *SimContext) WaypointFor(p mgl64.Vec3) (*Waypoint, *Subvolume) {
	cell := ctx.Lattice.CellOf(p)
	return ctx.waypoints[cell.Index], cell
}
