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

// Package countspace implements the spatial counting and
// region-enclosure subsystem of a 3D stochastic reaction-diffusion
// simulator: subvolume lattice navigation, waypoint-based enclosure
// queries, per-region counters, trigger dispatch, and macromolecular
// subunit counting.
package countspace

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// RegionID indexes into SimContext.Regions. Index-based ownership
// replaces the pointer-graph-with-cycles the original design used
// between waypoints, region lists, and arenas.
type RegionID int32

// RegionFlags is a bitmask of counting behaviors attached to a region.
type RegionFlags uint8

const (
	CountsHits RegionFlags = 1 << iota
	CountsContents
	CountsEnclosed
	IsTriggerRegion
)

// ManifoldStatus caches the result of the closed-surface check a
// region must pass before it can host an ENCLOSING counter.
type ManifoldStatus uint8

const (
	ManifoldUnchecked ManifoldStatus = iota
	IsManifold
	NotManifold
)

// Region is a named equivalence class of walls. It owns no geometry
// directly: its identity is its ID, and membership is recorded on the
// Wall side (Wall.Regions).
type Region struct {
	ID       RegionID
	UUID     string // stable external identity, independent of index reuse
	Name     string
	Hash     uint64
	Flags    RegionFlags
	Manifold ManifoldStatus
	Area     float64 // nominal surface area, for concentration scaling
}

// newRegionUUID mints a region's external identity.
func newRegionUUID() string { return uuid.New().String() }

// WallFlags records which counting modes are active for any region
// referencing this wall.
type WallFlags uint8

const (
	WallCountsHits WallFlags = 1 << iota
	WallCountsContents
	WallCountsEnclosed
)

// Wall is an immutable-after-init triangle. Regions is a sorted
// small-vector of region IDs (replacing the original sorted,
// address-ordered linked list).
type Wall struct {
	V0, V1, V2 mgl64.Vec3
	Normal     mgl64.Vec3
	D          float64 // plane offset: Normal.Dot(p) == D for p on the plane
	Regions    []RegionID
	Flags      WallFlags
	Subvol     int32 // owning subvolume index
	next       *Wall // intrusive singly-linked list within a subvolume
}

// hasRegion returns true if id is present in the wall's sorted region list.
func (w *Wall) hasRegion(id RegionID) bool {
	return searchSortedRegions(w.Regions, id)
}

func searchSortedRegions(rs []RegionID, id RegionID) bool {
	lo, hi := 0, len(rs)
	for lo < hi {
		mid := (lo + hi) / 2
		if rs[mid] < id {
			lo = mid + 1
		} else if rs[mid] > id {
			hi = mid
		} else {
			return true
		}
	}
	return false
}

// TargetKind discriminates the tagged Target variant.
type TargetKind uint8

const (
	TargetSpecies TargetKind = iota
	TargetPathway
)

// Target is the explicit tagged union the counter table is keyed on:
// either a molecule species or a reaction pathway, never a raw
// void pointer.
type Target struct {
	Kind TargetKind
	ID   int32
}

// Orient encodes the crossing/complex orientation filter. OrientAny
// and OrientNotSet both match any molecule orientation; a nonzero
// Pos/Neg value matches only a molecule whose own orientation carries
// the same sign.
type Orient int8

const (
	OrientNeg    Orient = -1
	OrientAny    Orient = 0
	OrientPos    Orient = 1
	OrientNotSet Orient = 2
)

// matches reports whether a molecule/complex with orientation `actual`
// satisfies this filter.
func (o Orient) matches(actual Orient) bool {
	switch o {
	case OrientNotSet, OrientAny:
		return true
	case OrientPos:
		return actual > 0
	case OrientNeg:
		return actual < 0
	}
	return false
}

// Molecule is the minimal shape of the external Molecule collaborator
// (§6): volume or surface bound, with a current subvolume/wall and
// orientation. The diffusion kernel that moves it is out of scope;
// this struct only carries the state the counting subsystem reads.
type Molecule struct {
	Species     int32
	loc         mgl64.Vec3
	onGrid      bool
	orient      Orient
	currentWall *Wall
	subvol      int32
	uv          [2]float64 // surface parametric coordinates, when onGrid

	nextInSubvol *Molecule // intrusive list; subvolume owns molecules it contains
}

func (m *Molecule) SpeciesHash() uint64     { return hashInt64(int64(m.Species)) }
func (m *Molecule) Orient_() Orient         { return m.orient }
func (m *Molecule) Position() mgl64.Vec3    { return m.loc }
func (m *Molecule) OnGrid() bool            { return m.onGrid }
func (m *Molecule) CurrentWall() *Wall      { return m.currentWall }
func (m *Molecule) Subvolume() int32        { return m.subvol }
