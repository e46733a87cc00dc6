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

// CUnit is the fixed scaled-hits normalization constant from spec.md
// §4.F: 10^6 * sqrt(pi) / (10^-15 * N_A).
const CUnit = 1e6 * 1.7724538509055159 / (1e-15 * 6.02214076e23)

// CrossDirection is the wall-crossing direction relative to the wall's
// outward normal.
type CrossDirection int8

const (
	Backward CrossDirection = -1
	Forward  CrossDirection = 1
)

// WallCrossingUpdate is component F's first fast path (§4.F): a volume
// molecule hits, and possibly crosses, a wall carrying counting
// regions. factor scales the scaled-hits and reaction-count
// accumulation (normally 1.0; fractional for subdivided time steps);
// plain hit and crossing counts always step by one. timeStep/spaceStep/
// lengthUnit feed the CUnit-normalized scaled-hits formula.
func WallCrossingUpdate(ctx *SimContext, target Target, w *Wall, dir CrossDirection, crossed bool, factor, timeStep, spaceStep, lengthUnit float64, hit mgl64.Vec3, orient Orient, t float64) error {
	flavor := MOL
	if target.Kind == TargetPathway {
		flavor = RXN
	}
	for _, rid := range w.Regions {
		region := ctx.Region(rid)
		var updateErr error
		ctx.Counters.ForEachMatching(target, rid, flavor, ctx.RegionHash, func(c *Counter) {
			if !c.Key.Orient.matches(orient) {
				return
			}
			if err := wallCrossingOne(ctx, c, region, dir, crossed, factor, timeStep, spaceStep, lengthUnit, hit, orient, t); err != nil {
				updateErr = err
			}
		})
		if updateErr != nil {
			return updateErr
		}
	}
	return nil
}

func wallCrossingOne(ctx *SimContext, c *Counter, region *Region, dir CrossDirection, crossed bool, factor, timeStep, spaceStep, lengthUnit float64, hit mgl64.Vec3, orient Orient, t float64) error {
	countsHits := region.Flags&CountsHits != 0
	countsContents := region.Flags&CountsContents != 0

	switch c.Key.Flavor {
	case MOL:
		if crossed {
			if dir == Forward {
				if countsHits {
					c.Mol.FrontHits++
					c.Mol.FrontToBack++
				}
				if countsContents {
					c.Mol.NEnclosed++
				}
			} else {
				if countsHits {
					c.Mol.BackHits++
					c.Mol.BackToFront++
				}
				if countsContents {
					c.Mol.NEnclosed--
				}
			}
		} else if countsHits {
			if dir == Forward {
				c.Mol.FrontHits++
			} else {
				c.Mol.BackHits++
			}
		}
		if region.Area > 0 {
			scaled := factor * (timeStep * CUnit) / (spaceStep * lengthUnit * lengthUnit * lengthUnit * region.Area)
			c.Mol.ScaledHits += scaled
		}
	case RXN:
		if crossed {
			if dir == Forward {
				c.Rxn.NRxnAt += factor
			} else {
				c.Rxn.NRxnAt -= factor
			}
		}
	case TRIG:
		if !crossed {
			return nil
		}
		what := ReportFrontHits | ReportFrontCrossings
		if dir == Backward {
			what = ReportBackHits | ReportBackCrossings
		}
		if err := DispatchTrigger(ctx, c, what, t, hit, orient, 1, ""); err != nil {
			return err
		}
		if countsContents {
			return DispatchTrigger(ctx, c, ReportContents|ReportEnclosed, t, hit, orient, int(dir), "")
		}
	}
	return nil
}

// GridToGridMove is component F's second fast path (§4.F): a grid
// molecule moves from one wall to another. The symmetric difference of
// the two walls' region sets gives the entered (+1) and left (−1)
// regions; identical regions on both walls cancel and are untouched,
// which is what keeps a molecule's grid-move loop conservative (§8).
func GridToGridMove(ctx *SimContext, target Target, from, to *Wall, countsEnclosed bool, orient Orient, t float64) error {
	flavor := MOL
	if target.Kind == TargetPathway {
		flavor = RXN
	}
	entered, left := symmetricDifference(from.Regions, to.Regions)

	// touching pass: a wall-region membership change is "at", never
	// "enclosed" — mirrors CountRegionFromScratch step 2's skip of
	// c.Enclosing.
	touch := func(rid RegionID, n int32) error {
		var err error
		ctx.Counters.ForEachMatching(target, rid, flavor, ctx.RegionHash, func(c *Counter) {
			if c.Enclosing || !c.Key.Orient.matches(orient) {
				return
			}
			if e := applyDelta(ctx, c, n, to.V0, orient, t); e != nil {
				err = e
			}
		})
		return err
	}
	for _, rid := range entered {
		if err := touch(rid, 1); err != nil {
			return err
		}
	}
	for _, rid := range left {
		if err := touch(rid, -1); err != nil {
			return err
		}
	}

	if !countsEnclosed {
		return nil
	}
	// Ray-cast between the two wall positions for ENCLOSING counters,
	// excluding anything already settled by the wall-region pass above.
	// Unlike touch, enclose applies to every matching counter — routing
	// to NAt or NEnclosed is applyDelta's job, exactly as in
	// CountRegionFromScratch step 3.
	enclose := func(rid RegionID, n int32) error {
		var err error
		ctx.Counters.ForEachMatching(target, rid, flavor, ctx.RegionHash, func(c *Counter) {
			if !c.Key.Orient.matches(orient) {
				return
			}
			if e := applyDelta(ctx, c, n, to.V0, orient, t); e != nil {
				err = e
			}
		})
		return err
	}
	arena := ctx.Lattice.CellOf(from.V0).Arena()
	exclude, err := arena.Acquire()
	if err != nil {
		return fatal("GridToGridMove", err)
	}
	defer arena.Release(exclude)
	for _, rid := range from.Regions {
		exclude.Insert(rid)
	}
	for _, rid := range to.Regions {
		exclude.Insert(rid)
	}
	regions, err := arena.Acquire()
	if err != nil {
		return fatal("GridToGridMove", err)
	}
	defer arena.Release(regions)
	antiregions, err := arena.Acquire()
	if err != nil {
		return fatal("GridToGridMove", err)
	}
	defer arena.Release(antiregions)
	if err := findEnclosingRegions(ctx, from.V0, to.V0, regions, antiregions, 0); err != nil {
		if _, ok := err.(*UnreachedWaypointTarget); !ok {
			return fatal("GridToGridMove", err)
		}
		logDiagnostic("%v", err)
	}
	for _, rid := range regions.IDs() {
		if exclude.Contains(rid) {
			continue
		}
		if ctx.Region(rid).Flags&CountsEnclosed == 0 {
			continue
		}
		if err := enclose(rid, 1); err != nil {
			return err
		}
	}
	for _, rid := range antiregions.IDs() {
		if exclude.Contains(rid) {
			continue
		}
		if ctx.Region(rid).Flags&CountsEnclosed == 0 {
			continue
		}
		if err := enclose(rid, -1); err != nil {
			return err
		}
	}
	return nil
}

// symmetricDifference returns the IDs present only in b (entered) and
// only in a (left), given both slices are sorted ascending.
func symmetricDifference(a, b []RegionID) (entered, left []RegionID) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case a[i] < b[j]:
			left = append(left, a[i])
			i++
		default:
			entered = append(entered, b[j])
			j++
		}
	}
	left = append(left, a[i:]...)
	entered = append(entered, b[j:]...)
	return entered, left
}

// InPlaceContentCount is component F's third fast path (§4.F): a
// molecule is created or destroyed at a known, stationary point. It
// walks the waypoint enclosure exactly as CountRegionFromScratch's
// step 3 does, incrementing or decrementing n_enclosed (never
// front/back hits, since no wall was crossed).
func InPlaceContentCount(ctx *SimContext, target Target, n int32, loc mgl64.Vec3, orient Orient, t float64) error {
	return CountRegionFromScratch(ctx, target, n, loc, nil, true, false, orient, t, false)
}
