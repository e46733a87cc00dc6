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

// Flavor discriminates the three counter variants. They never combine
// (tagged variants replace a counter_type bitmask); ENCLOSING is tracked as an orthogonal bool.
type Flavor uint8

const (
	MOL Flavor = iota
	RXN
	TRIG
)

// MolCounterData is the per-(target,region) accumulator for molecule
// targets.
type MolCounterData struct {
	NAt          int64
	NEnclosed    int64
	FrontHits    float64
	BackHits     float64
	FrontToBack  float64
	BackToFront  float64
	ScaledHits   float64
}

// RxnCounterData is the per-(target,region) accumulator for reaction
// pathway targets. Doubles, since probabilistic schemes can accumulate
// fractional reaction counts.
type RxnCounterData struct {
	NRxnAt       float64
	NRxnEnclosed float64
}

// TriggerListener is one registered report request on a TRIG counter.
type TriggerListener struct {
	Name         string
	ReportType   ReportType
	ExactTime    bool
	BufferSize   int
	FileID       string
	buffer       []TriggerRecord
}

// ReportType selects which fired event kind(s) a listener cares about.
// TriggerFlag and EnclosedFlag may be OR'd in.
type ReportType uint16

const (
	ReportContents ReportType = 1 << iota
	ReportRxns
	ReportFrontHits
	ReportBackHits
	ReportFrontCrossings
	ReportBackCrossings
	ReportAllHits
	ReportAllCrossings
	ReportTrigger
	ReportEnclosed
)

// TrigCounterData is the per-(target,region) state for TRIG counters:
// no scalar accumulator, only the most recent stamped event plus the
// listener list.
type TrigCounterData struct {
	TEvent    float64
	Loc       mgl64.Vec3
	Orient    Orient
	Listeners []*TriggerListener
}

// CounterKey identifies a counter: target, region, flavor, and the
// crossing/complex orientation filter.
type CounterKey struct {
	Target Target
	Region RegionID
	Flavor Flavor
	Orient Orient
}

// Counter is a single (target, region, flavor) accumulator.
type Counter struct {
	Key       CounterKey
	Enclosing bool
	Mol       *MolCounterData
	Rxn       *RxnCounterData
	Trig      *TrigCounterData

	next *Counter // chain link within its bucket
}

// CounterTable is a separately-chained open hash keyed on
// (targetHash + regionHash) & mask, per spec.md §4.E.
type CounterTable struct {
	buckets []*Counter
	mask    uint64
	count   int
}

// NewCounterTable allocates a table sized to the next power of two
// at or above minSize.
func NewCounterTable(minSize int) *CounterTable {
	size := 1
	for size < minSize {
		size <<= 1
	}
	if size == 0 {
		size = 1
	}
	return &CounterTable{buckets: make([]*Counter, size), mask: uint64(size - 1)}
}

func (t *CounterTable) bucketIndex(th, rh uint64) uint64 {
	return (th + rh) & t.mask
}

// Lookup walks the chain at the key's bucket, returning the matching
// counter if present.
func (t *CounterTable) Lookup(key CounterKey, regionHashOf func(RegionID) uint64) *Counter {
	idx := t.bucketIndex(targetHash(key.Target), regionHashOf(key.Region))
	for c := t.buckets[idx]; c != nil; c = c.next {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// GetOrCreate returns the existing counter for key, or creates and
// inserts one (with fresh, zeroed flavor data) if absent.
func (t *CounterTable) GetOrCreate(key CounterKey, regionHashOf func(RegionID) uint64, enclosing bool) *Counter {
	if c := t.Lookup(key, regionHashOf); c != nil {
		return c
	}
	c := &Counter{Key: key, Enclosing: enclosing}
	switch key.Flavor {
	case MOL:
		c.Mol = &MolCounterData{}
	case RXN:
		c.Rxn = &RxnCounterData{}
	case TRIG:
		c.Trig = &TrigCounterData{}
	}
	idx := t.bucketIndex(targetHash(key.Target), regionHashOf(key.Region))
	c.next = t.buckets[idx]
	t.buckets[idx] = c
	t.count++
	return c
}

// Count returns the number of counters currently stored.
func (t *CounterTable) Count() int { return t.count }

// ForEachMatching walks the bucket chain shared by every counter on
// (target, region, flavor) regardless of orientation filter — callers
// then test c.Key.Orient.matches(actual) themselves, since a single
// (target, region, flavor) may host several orientation-filtered
// counters concurrently (spec.md §4.E).
func (t *CounterTable) ForEachMatching(target Target, region RegionID, flavor Flavor, regionHashOf func(RegionID) uint64, fn func(*Counter)) {
	idx := t.bucketIndex(targetHash(target), regionHashOf(region))
	for c := t.buckets[idx]; c != nil; c = c.next {
		if c.Key.Target == target && c.Key.Region == region && c.Key.Flavor == flavor {
			fn(c)
		}
	}
}

// ForEachInRegion invokes fn for every counter on the given region
// with the given flavor, scanning every bucket.
func (t *CounterTable) ForEachInRegion(region RegionID, flavor Flavor, fn func(*Counter)) {
	for _, head := range t.buckets {
		for c := head; c != nil; c = c.next {
			if c.Key.Region == region && c.Key.Flavor == flavor {
				fn(c)
			}
		}
	}
}
