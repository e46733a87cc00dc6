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

// SubunitRelation names the subunit slot a rule clause compares
// against, relative to a reference subunit k: 0 means k itself, a
// nonzero index is resolved through the complex's own adjacency
// topology (out of scope here; the complex supplies it).
type SubunitRelation int32

// SubunitRule is one row of a complex_counter's rule table (§4.H).
// neighbors/orientations/invert are parallel arrays of length C
// (clause count); relations[j] names which subunit clause j examines.
type SubunitRule struct {
	Relations    []SubunitRelation
	Neighbors    []int32 // species id, or -1 for "null" (clause ignored)
	Orientations []Orient
	Invert       []bool
}

// matches reports whether this rule fires for a subunit whose
// reference orientation is refOrient, given the snapshot state array
// (indexed by subunit slot) and a lookup from relation to subunit slot.
func (r *SubunitRule) matches(refOrient Orient, state []int32, slotOf func(SubunitRelation) int) bool {
	for j, neighborSpecies := range r.Neighbors {
		rel := r.Relations[j]
		if neighborSpecies < 0 {
			if rel == 0 && r.Orientations[j] != OrientAny {
				if !orientSignMatches(r.Orientations[j], refOrient, r.Invert[j]) {
					return false
				}
			}
			continue
		}
		slot := slotOf(rel)
		if slot < 0 || slot >= len(state) {
			return false // empty slot fails any non-null clause
		}
		actual := state[slot]
		eq := actual == neighborSpecies
		if r.Invert[j] {
			eq = !eq
		}
		if !eq {
			return false
		}
		if r.Orientations[j] != OrientAny {
			if !orientSignMatches(r.Orientations[j], refOrient, r.Invert[j]) {
				return false
			}
		}
	}
	return true
}

func orientSignMatches(want, actual Orient, invert bool) bool {
	ok := want.matches(actual)
	if invert {
		return !ok
	}
	return ok
}

// ComplexCounter is the per-(complex species, region, complex
// orientation) rule table and scoreboard (§4.H init). Rows are packed
// in declaration order so paired_expression-style external pointers
// can address counts[row] directly.
type ComplexCounter struct {
	ComplexSpecies int32
	Region         RegionID // world counters use RegionID(-1)
	OrientFilter   Orient
	Rules          []*SubunitRule
	Counts         []int64
	next           *ComplexCounter // orientation-split chain, per region
}

// subunitToRulesRange maps a reference-subunit species to the
// contiguous [lo,hi) slice of Rules whose reference species is that
// one — the "subunit_to_rules_range" index spec.md §4.H names,
// computed once at registration instead of scanned per update.
type rulesRange struct{ lo, hi int }

// SubunitRegistry owns every ComplexCounter, indexed by complex
// species and keyed further by region for the enclosure walk in
// UpdateSubunit.
type SubunitRegistry struct {
	byComplex map[int32][]*ComplexCounter
	ranges    map[*ComplexCounter]map[int32]rulesRange
}

// NewSubunitRegistry constructs an empty registry.
func NewSubunitRegistry() *SubunitRegistry {
	return &SubunitRegistry{
		byComplex: make(map[int32][]*ComplexCounter),
		ranges:    make(map[*ComplexCounter]map[int32]rulesRange),
	}
}

// Register installs a ComplexCounter built by the init-time grouping
// pass (group by complex species, then reference-subunit species,
// then region; §4.H Initialization). rangesByRefSpecies maps each
// reference species to its [lo,hi) span of cc.Rules, so the caller must
// pack cc.Rules contiguously per reference species.
func (reg *SubunitRegistry) Register(cc *ComplexCounter, rangesByRefSpecies map[int32]rulesRange) {
	reg.byComplex[cc.ComplexSpecies] = append(reg.byComplex[cc.ComplexSpecies], cc)
	reg.ranges[cc] = rangesByRefSpecies
}

// CountersFor returns every ComplexCounter registered for a complex
// species, across all regions and orientation splits.
func (reg *SubunitRegistry) CountersFor(complexSpecies int32) []*ComplexCounter {
	return reg.byComplex[complexSpecies]
}

// UpdateSubunit implements the §4.H update protocol for subunit k of a
// complex whose full subunit-species snapshot is `before`, changing
// only slot k to `afterSpecies`. relationsOf resolves a rule clause's
// SubunitRelation to the updated subunit's neighbor slot index (or -1
// if that relation is out of range for this complex instance).
// enclosingRegions is the set of regions presently containing the
// complex's position (world counters, Region RegionID(-1), always
// apply whatever the slice holds), as resolved by a
// CountRegionFromScratch-style waypoint walk.
func UpdateSubunit(reg *SubunitRegistry, complexSpecies int32, k int, before []int32, afterSpecies int32, refOrient Orient, relationsOf func(SubunitRelation) int, enclosingRegions []RegionID, antiregions []RegionID) {
	after := append([]int32(nil), before...)
	after[k] = afterSpecies

	updateMask := subunitUpdateMask(k, relationsOf, len(before))

	for _, cc := range reg.byComplex[complexSpecies] {
		if !counterApplies(cc, enclosingRegions, antiregions) {
			continue
		}
		if !cc.OrientFilter.matches(refOrient) {
			continue
		}
		ranges := reg.ranges[cc]
		sign := int64(1)
		if isAntiregion(cc.Region, antiregions) {
			sign = -1
		}
		for _, s := range updateMask {
			applyRuleDelta(cc, ranges, beforeSpeciesAt(before, s), before, relationsOf, -sign)
			applyRuleDelta(cc, ranges, speciesAt(after, s), after, relationsOf, sign)
		}
	}
}

// subunitUpdateMask returns the subunit k itself plus every subunit j
// such that some relation points j→k — the only slots whose rule
// match state can change (§4.H step 2). relationsOf is queried with
// SubunitRelation(k) to discover j's pointing at k; a minimal,
// correct-but-conservative registry (every slot up to n) is produced
// when no cheaper reverse index is available.
func subunitUpdateMask(k int, relationsOf func(SubunitRelation) int, n int) []int {
	mask := []int{k}
	for j := 0; j < n; j++ {
		if j == k {
			continue
		}
		if relationsOf(SubunitRelation(j)) == k {
			mask = append(mask, j)
		}
	}
	return mask
}

func beforeSpeciesAt(before []int32, slot int) int32 { return before[slot] }
func speciesAt(state []int32, slot int) int32        { return state[slot] }

func applyRuleDelta(cc *ComplexCounter, ranges map[int32]rulesRange, refSpecies int32, state []int32, relationsOf func(SubunitRelation) int, delta int64) {
	rr, ok := ranges[refSpecies]
	if !ok {
		return
	}
	for row := rr.lo; row < rr.hi; row++ {
		rule := cc.Rules[row]
		if rule.matches(OrientAny, state, relationsOf) {
			cc.Counts[row] += delta
		}
	}
}

func counterApplies(cc *ComplexCounter, enclosing, anti []RegionID) bool {
	if cc.Region == RegionID(-1) {
		return true // world counter
	}
	for _, r := range enclosing {
		if r == cc.Region {
			return true
		}
	}
	return isAntiregion(cc.Region, anti)
}

func isAntiregion(region RegionID, anti []RegionID) bool {
	for _, r := range anti {
		if r == region {
			return true
		}
	}
	return false
}

// Complex is one instance of a macromolecular complex: its species
// identity, the species currently occupying each subunit slot, its
// position, and — for a surface complex — the wall it sits on (nil for
// a volume complex). A complex's own adjacency topology is an external
// collaborator's concern (§4.H), so it's carried here as a resolver
// rather than modeled structurally.
type Complex struct {
	Species     int32
	Subunits    []int32
	Orient      Orient
	Loc         mgl64.Vec3
	Wall        *Wall
	RelationsOf func(SubunitRelation) int
}

// resolveComplexLocation finds the regions/antiregions presently
// enclosing a complex's position, the same way CountRegionFromScratch
// locates any other target: a waypoint-based ray sweep, folding in the
// wall's own region membership when the complex sits on one.
func resolveComplexLocation(ctx *SimContext, complex *Complex) (regions, antiregions []RegionID, err error) {
	wp, cell := ctx.WaypointFor(complex.Loc)
	if wp == nil {
		return nil, nil, &UnreachedWaypointTarget{Residual: 0}
	}
	arena := cell.Arena()
	regionSet, err := arena.Acquire()
	if err != nil {
		return nil, nil, fatal("resolveComplexLocation", err)
	}
	defer arena.Release(regionSet)
	antiregionSet, err := arena.Acquire()
	if err != nil {
		return nil, nil, fatal("resolveComplexLocation", err)
	}
	defer arena.Release(antiregionSet)
	wp.Regions.clone(regionSet)
	wp.Antiregions.clone(antiregionSet)
	if err := findEnclosingRegions(ctx, wp.Loc, complex.Loc, regionSet, antiregionSet, 0); err != nil {
		if _, ok := err.(*UnreachedWaypointTarget); !ok {
			return nil, nil, fatal("resolveComplexLocation", err)
		}
		logDiagnostic("%v", err)
	}
	regions = append([]RegionID(nil), regionSet.IDs()...)
	antiregions = append([]RegionID(nil), antiregionSet.IDs()...)
	if complex.Wall != nil {
		regions = append(regions, complex.Wall.Regions...)
	}
	return regions, antiregions, nil
}

// CountComplexVolume implements count_complex_volume (§6): subunit k of
// a volume complex changed from replacedSpecies to its current
// (post-change) species, and every world/region/antiregion counter
// presently enclosing the complex must have its matching rule rows
// decremented for the old state and incremented for the new one.
func CountComplexVolume(ctx *SimContext, reg *SubunitRegistry, complex *Complex, k int, replacedSpecies int32) error {
	regions, antiregions, err := resolveComplexLocation(ctx, complex)
	if err != nil {
		return err
	}
	before := append([]int32(nil), complex.Subunits...)
	before[k] = replacedSpecies
	UpdateSubunit(reg, complex.Species, k, before, complex.Subunits[k], complex.Orient, complex.RelationsOf, regions, antiregions)
	return nil
}

// CountComplexSurface implements count_complex_surface (§6): the same
// update protocol as CountComplexVolume, with the complex's current
// wall folded into its location resolution.
func CountComplexSurface(ctx *SimContext, reg *SubunitRegistry, complex *Complex, k int, replacedSpecies int32) error {
	return CountComplexVolume(ctx, reg, complex, k, replacedSpecies)
}

// CountComplexSurfaceNew implements count_complex_surface_new (§6): a
// freshly created complex performs only the protocol's "add" half
// (§4.H point 4) — there is no prior snapshot to decrement against.
func CountComplexSurfaceNew(ctx *SimContext, reg *SubunitRegistry, complex *Complex) error {
	regions, antiregions, err := resolveComplexLocation(ctx, complex)
	if err != nil {
		return err
	}
	addOnlySubunitUpdate(reg, complex.Species, complex.Subunits, complex.Orient, complex.RelationsOf, regions, antiregions)
	return nil
}

// addOnlySubunitUpdate increments every rule row matching a freshly
// created complex's full subunit snapshot, across every slot — there
// is no "before" state to decrement.
func addOnlySubunitUpdate(reg *SubunitRegistry, complexSpecies int32, subunits []int32, refOrient Orient, relationsOf func(SubunitRelation) int, enclosingRegions, antiregions []RegionID) {
	for _, cc := range reg.byComplex[complexSpecies] {
		if !counterApplies(cc, enclosingRegions, antiregions) {
			continue
		}
		if !cc.OrientFilter.matches(refOrient) {
			continue
		}
		ranges := reg.ranges[cc]
		sign := int64(1)
		if isAntiregion(cc.Region, antiregions) {
			sign = -1
		}
		for s := range subunits {
			applyRuleDelta(cc, ranges, speciesAt(subunits, s), subunits, relationsOf, sign)
		}
	}
}
