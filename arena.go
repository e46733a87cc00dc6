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

import "sort"

// RegionSet is a sorted small-vector of region IDs. It replaces the
// original's address-ordered linked list so that intersection/symmetric-difference/toggle operations have a
// well-defined, address-independent element order.
type RegionSet struct {
	ids []RegionID
}

func newRegionSet(buf []RegionID) *RegionSet { return &RegionSet{ids: buf[:0]} }

// IDs returns the set's contents in sorted order. The caller must not
// retain the slice past the set's Release.
func (s *RegionSet) IDs() []RegionID { return s.ids }

func (s *RegionSet) Len() int { return len(s.ids) }

func (s *RegionSet) Contains(id RegionID) bool { return searchSortedRegions(s.ids, id) }

// Insert adds id if absent. Returns true if the set changed.
func (s *RegionSet) Insert(id RegionID) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i < len(s.ids) && s.ids[i] == id {
		return false
	}
	s.ids = append(s.ids, 0)
	copy(s.ids[i+1:], s.ids[i:])
	s.ids[i] = id
	return true
}

// Remove deletes id if present. Returns true if the set changed.
func (s *RegionSet) Remove(id RegionID) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i < len(s.ids) && s.ids[i] == id {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		return true
	}
	return false
}

// Toggle implements the mutual-cancellation rule used throughout §4.C
// and §4.D: if id is already present, remove it (it was crossed
// evenly); otherwise insert it.
func (s *RegionSet) Toggle(id RegionID) {
	if !s.Remove(id) {
		s.Insert(id)
	}
}

func (s *RegionSet) clone(into *RegionSet) {
	into.ids = append(into.ids[:0], s.ids...)
}

// Arena is the per-subvolume storage pool for transient RegionSets
// used during a single enclosure query. Index-based ownership (plain
// slices, not pointer graphs) means Release only needs to return the
// backing array to the free list.
type Arena struct {
	subvol      int
	pool        [][]RegionID
	outstanding int
	maxNodes    int // 0 = unlimited
}

// NewArena constructs an arena for the given subvolume index. maxNodes
// of 0 means unlimited (the common case); a positive value allows
// tests to exercise the AllocFailure path deterministically.
func NewArena(subvol, maxNodes int) *Arena {
	return &Arena{subvol: subvol, maxNodes: maxNodes}
}

// Acquire returns a fresh, empty RegionSet. The caller must Release it
// on every exit path, including error returns.
func (a *Arena) Acquire() (*RegionSet, error) {
	if a.maxNodes > 0 && a.outstanding >= a.maxNodes {
		return nil, &AllocFailure{Subvolume: a.subvol}
	}
	a.outstanding++
	if n := len(a.pool); n > 0 {
		buf := a.pool[n-1]
		a.pool = a.pool[:n-1]
		return newRegionSet(buf), nil
	}
	return newRegionSet(make([]RegionID, 0, 8)), nil
}

// Release returns the set's backing array to the pool. Safe to call
// with nil (so defer-based release at an early-return is always safe).
func (a *Arena) Release(s *RegionSet) {
	if s == nil {
		return
	}
	a.outstanding--
	a.pool = append(a.pool, s.ids[:0])
}
