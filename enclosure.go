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

import "github.com/go-gl/mathgl/mgl64"

// CountRegionFromScratch implements component D (§4.D): given a target
// that just appeared, vanished, or reacted at loc, apply a signed delta
// n to every region counter whose region presently encloses or bounds
// loc, with no dependence on any prior counter state.
//
// myWall is non-nil when the target is surface-bound (so its walk
// starts from the wall's own region list); is3DMobile is set for
// volume molecules and unscoped reactions, which also need the
// waypoint-based ray sweep to pick up enclosing (as opposed to merely
// touching) regions. hasEnclosedFlag mirrors it for reaction pathways
// fired on a surface, which may still be scoped by an ENCLOSING
// region.
func CountRegionFromScratch(ctx *SimContext, target Target, n int32, loc mgl64.Vec3, myWall *Wall, is3DMobile, hasEnclosedFlag bool, orient Orient, t float64, unscopedReaction bool) error {
	flavor := MOL
	if target.Kind == TargetPathway {
		flavor = RXN
	}

	var excluded *RegionSet
	if myWall != nil {
		wallArena := ctx.Lattice.Cells[myWall.Subvol].Arena()
		var err error
		excluded, err = wallArena.Acquire()
		if err != nil {
			return fatal("CountRegionFromScratch", err)
		}
		defer wallArena.Release(excluded)
	}

	// Step 2: wall-bound counters, scoped directly off the wall's own
	// region membership.
	if myWall != nil {
		for _, rid := range myWall.Regions {
			excluded.Insert(rid)
			ctx.Counters.ForEachMatching(target, rid, flavor, ctx.RegionHash, func(c *Counter) {
				if c.Enclosing {
					return
				}
				if !c.Key.Orient.matches(orient) {
					return
				}
				if err := applyDelta(ctx, c, n, loc, orient, t); err != nil {
					logDiagnostic("CountRegionFromScratch: wall step: %v", err)
				}
			})
		}
	}

	// Step 3: waypoint-based ray sweep, for anything that can be deep
	// inside an ENCLOSING region rather than merely touching a wall.
	if is3DMobile || hasEnclosedFlag || unscopedReaction {
		wp, cell := ctx.WaypointFor(loc)
		if wp == nil {
			return &UnreachedWaypointTarget{Residual: 0}
		}
		arena := cell.Arena()
		regions, err := arena.Acquire()
		if err != nil {
			return fatal("CountRegionFromScratch", err)
		}
		defer arena.Release(regions)
		antiregions, err := arena.Acquire()
		if err != nil {
			return fatal("CountRegionFromScratch", err)
		}
		defer arena.Release(antiregions)
		wp.Regions.clone(regions)
		wp.Antiregions.clone(antiregions)
		if err := findEnclosingRegions(ctx, wp.Loc, loc, regions, antiregions, 0); err != nil {
			if _, ok := err.(*UnreachedWaypointTarget); !ok {
				return fatal("CountRegionFromScratch", err)
			}
			logDiagnostic("%v", err)
		}

		// Step 4: skip any region already counted via myWall.Regions in
		// step 2, so a wall sitting on an ENCLOSING region boundary
		// isn't double counted.
		for _, rid := range regions.IDs() {
			if excluded != nil && excluded.Contains(rid) {
				continue
			}
			var fireErr error
			ctx.Counters.ForEachMatching(target, rid, flavor, ctx.RegionHash, func(c *Counter) {
				if !c.Key.Orient.matches(orient) {
					return
				}
				if err := applyDelta(ctx, c, n, loc, orient, t); err != nil {
					fireErr = err
				}
			})
			if fireErr != nil {
				logDiagnostic("CountRegionFromScratch: waypoint step: %v", fireErr)
			}
		}
		// The leave list gets the opposite sign: loc sits outside these
		// regions relative to the waypoint, so they lose n rather than
		// gain it.
		for _, rid := range antiregions.IDs() {
			if excluded != nil && excluded.Contains(rid) {
				continue
			}
			var fireErr error
			ctx.Counters.ForEachMatching(target, rid, flavor, ctx.RegionHash, func(c *Counter) {
				if !c.Key.Orient.matches(orient) {
					return
				}
				if err := applyDelta(ctx, c, -n, loc, orient, t); err != nil {
					fireErr = err
				}
			})
			if fireErr != nil {
				logDiagnostic("CountRegionFromScratch: waypoint step: %v", fireErr)
			}
		}
	}
	return nil
}

// applyDelta folds a signed count into one counter's accumulator and,
// for TRIG counters, dispatches the registered listeners.
func applyDelta(ctx *SimContext, c *Counter, n int32, loc mgl64.Vec3, orient Orient, t float64) error {
	switch c.Key.Flavor {
	case MOL:
		if c.Enclosing {
			c.Mol.NEnclosed += int64(n)
		} else {
			c.Mol.NAt += int64(n)
		}
	case RXN:
		if c.Enclosing {
			c.Rxn.NRxnEnclosed += float64(n)
		} else {
			c.Rxn.NRxnAt += float64(n)
		}
	case TRIG:
		what := ReportContents
		if c.Key.Target.Kind == TargetPathway {
			what = ReportRxns
		}
		if c.Enclosing {
			what |= ReportEnclosed
		}
		return DispatchTrigger(ctx, c, what, t, loc, orient, int(n), "")
	}
	return nil
}
