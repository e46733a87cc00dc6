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
	"encoding/json"
	"os"
	"strings"
)

// allSuffix is the synthetic region-name suffix a bare count request
// (no explicit region) is rewritten to, exactly as count_util.c's
// is_reverse_abbrev(",ALL", name) check does.
const allSuffix = ",ALL"

// CountRequest is one user-issued count directive, as read from a
// config file before init-time registration builds the corresponding
// Counter/ComplexCounter entries.
type CountRequest struct {
	Target     string // species or pathway name
	IsPathway  bool
	Region     string // "" means "no explicit region" -> rewritten
	Flavor     string // "MOL", "RXN", or "TRIG"
	Orient     int8
	Enclosing  bool
}

// NormalizeRequest rewrites a bare object-count request (Region == "")
// to the synthetic "<object>,ALL" region symbol, mirroring
// is_reverse_abbrev(",ALL", name) in count_util.c. A request that
// already names a region is returned unchanged.
func NormalizeRequest(objectName string, req CountRequest) CountRequest {
	if req.Region == "" {
		req.Region = objectName + allSuffix
	} else if isReverseAbbrev(allSuffix, req.Region) {
		return req // already normalized; don't double-rewrite
	}
	return req
}

// isReverseAbbrev reports whether suffix, read backward, is a prefix
// of name read backward — the exact test count_util.c performs to
// recognize a region symbol ending in ",ALL". Kept as a named,
// independently testable helper rather than inlined into
// NormalizeRequest.
func isReverseAbbrev(suffix, name string) bool {
	if len(suffix) > len(name) {
		return false
	}
	return strings.HasSuffix(name, suffix)
}

// SimConfig is the JSON-loadable configuration for a countsim run,
// grounded on wrf2inmap.go's ConfigInfo/-config flag pattern.
type SimConfig struct {
	MeshPath         string // path the external Mesh collaborator loads from
	OutputDir        string
	CounterTableSize int
	ArenaMaxNodes    int // 0 = unlimited; nonzero lets tests exercise AllocFailure
	TimeStep         float64
	SpaceStep        float64
	LengthUnit       float64
	Requests         []CountRequest

	// Lattice bounds: the subvolume grid itself is in scope (§1), even
	// though the wall/mesh geometry populating it is supplied by the
	// external Mesh collaborator at MeshPath.
	XLo, XHi, YLo, YHi, ZLo, ZHi float64
	InteractionRadius            float64
}

// BuildLattice constructs the partition lattice this config describes.
func (c *SimConfig) BuildLattice() *Lattice {
	x := PartitionTable{Fine: BuildFineSequence(c.XLo, c.XHi, c.InteractionRadius)}
	y := PartitionTable{Fine: BuildFineSequence(c.YLo, c.YHi, c.InteractionRadius)}
	z := PartitionTable{Fine: BuildFineSequence(c.ZLo, c.ZHi, c.InteractionRadius)}
	x.Coarse = []float64{c.XLo, c.XHi}
	y.Coarse = []float64{c.YLo, c.YHi}
	z.Coarse = []float64{c.ZLo, c.ZHi}
	l := NewLattice(x, y, z)
	for _, cell := range l.Cells {
		cell.arena = NewArena(cell.Index, c.ArenaMaxNodes)
	}
	return l
}

// ReadConfigFile loads and JSON-decodes a SimConfig from path.
func ReadConfigFile(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := new(SimConfig)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	for i, r := range cfg.Requests {
		cfg.Requests[i] = NormalizeRequest(r.Target, r)
	}
	return cfg, nil
}
