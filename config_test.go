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
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRequestRewritesBareRegion(t *testing.T) {
	req := NormalizeRequest("speciesA", CountRequest{Target: "speciesA"})
	assert.Equal(t, "speciesA,ALL", req.Region)
}

func TestNormalizeRequestLeavesExplicitRegionAlone(t *testing.T) {
	req := NormalizeRequest("speciesA", CountRequest{Target: "speciesA", Region: "shell1"})
	assert.Equal(t, "shell1", req.Region)
}

func TestNormalizeRequestIsIdempotentOnAlreadyNormalizedRegion(t *testing.T) {
	once := NormalizeRequest("speciesA", CountRequest{Target: "speciesA"})
	twice := NormalizeRequest("speciesA", once)
	assert.Equal(t, once.Region, twice.Region)
}

func TestIsReverseAbbrevMatchesAllSuffix(t *testing.T) {
	assert.True(t, isReverseAbbrev(allSuffix, "speciesA,ALL"))
	assert.False(t, isReverseAbbrev(allSuffix, "speciesA"))
	assert.False(t, isReverseAbbrev(allSuffix, ",A"))
}

func TestBuildLatticeUsesConfiguredBoundsAndInteractionRadius(t *testing.T) {
	cfg := &SimConfig{
		XLo: 0, XHi: 2, YLo: 0, YHi: 2, ZLo: 0, ZHi: 2,
		InteractionRadius: 0.5,
	}
	l := cfg.BuildLattice()
	require.NotNil(t, l)
	cell := l.CellOf(mgl64.Vec3{1, 1, 1})
	require.NotNil(t, cell)
}

func TestReadConfigFileNormalizesEveryRequest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countsim.json")
	cfg := SimConfig{
		MeshPath:         "mesh.mdl",
		OutputDir:        dir,
		CounterTableSize: 64,
		TimeStep:         0.001,
		SpaceStep:        0.1,
		LengthUnit:       1e-6,
		Requests: []CountRequest{
			{Target: "speciesA", Flavor: "MOL"},
			{Target: "speciesB", Flavor: "MOL", Region: "shell1"},
		},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := ReadConfigFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Requests, 2)
	assert.Equal(t, "speciesA,ALL", loaded.Requests[0].Region)
	assert.Equal(t, "shell1", loaded.Requests[1].Region)
}

func TestReadConfigFileMissingPathReturnsError(t *testing.T) {
	_, err := ReadConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
