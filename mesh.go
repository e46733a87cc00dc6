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

// Mesh is the external collaborator that owns wall/vertex
// construction (§1, §6). This core never builds a mesh; it only reads
// wall membership through this interface.
type Mesh interface {
	WallsInCell(cell *Subvolume) []*Wall
	WallRegions(w *Wall) []RegionID
}

// LatticeMesh is the reference Mesh implementation used by tests and
// the CLI driver: walls are attached directly to their owning
// Subvolume's linked list at init time (AddWall), so WallsInCell is
// just that list materialized into a slice.
type LatticeMesh struct{}

func (LatticeMesh) WallsInCell(cell *Subvolume) []*Wall {
	var out []*Wall
	cell.Walls(func(w *Wall) bool {
		out = append(out, w)
		return true
	})
	return out
}

func (LatticeMesh) WallRegions(w *Wall) []RegionID {
	return w.Regions
}
