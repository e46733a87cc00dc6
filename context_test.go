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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRegionAssignsAParsableUniqueUUID(t *testing.T) {
	ctx, _ := newTestContext(t)
	r1 := ctx.AddRegion("r1", CountsContents)
	r2 := ctx.AddRegion("r2", CountsContents)

	_, err := uuid.Parse(r1.UUID)
	require.NoError(t, err)
	_, err = uuid.Parse(r2.UUID)
	require.NoError(t, err)
	assert.NotEqual(t, r1.UUID, r2.UUID, "each region must get its own external identity, independent of its reusable index-based RegionID")
}

func TestRegionHashLooksUpByIndexNotUUID(t *testing.T) {
	ctx, _ := newTestContext(t)
	r := ctx.AddRegion("r", CountsContents)
	assert.Equal(t, r.Hash, ctx.RegionHash(r.ID))
}
