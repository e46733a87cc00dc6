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
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/go-gl/mathgl/mgl64"
)

// wallFootprint wraps a Wall with its XY-projected bounding rectangle
// so it can live in an rtree, the way framework.go's Regrid wraps a
// Cell's data behind a geom.Polygonal for the same index.
type wallFootprint struct {
	geom.Polygonal
	wall *Wall
}

// WallIndex is a per-subvolume XY candidate filter ahead of the exact
// ray-triangle test in ClassifyTriangle/WalkRay — geom has no 3D
// geometry type, so it is used here only to narrow which walls are
// worth testing exactly, the same pre-filter role rtree plays ahead of
// polygon intersection in framework.go's CellIntersections.
type WallIndex struct {
	tree *rtree.Rtree
}

// footprintOf projects a triangle's three vertices onto the XY plane
// and returns their axis-aligned bounding rectangle as a geom.Polygon,
// built the same way cellGeometry assembles a grid cell's rectangle.
func footprintOf(w *Wall) geom.Polygonal {
	minX := math.Min(w.V0[0], math.Min(w.V1[0], w.V2[0]))
	maxX := math.Max(w.V0[0], math.Max(w.V1[0], w.V2[0]))
	minY := math.Min(w.V0[1], math.Min(w.V1[1], w.V2[1]))
	maxY := math.Max(w.V0[1], math.Max(w.V1[1], w.V2[1]))
	return geom.Polygon{[]geom.Point{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}}
}

// BuildWallIndex indexes every wall owned by cell. It is a diagnostic
// and candidate-narrowing aid only: findEnclosingRegions runs the exact
// ClassifyTriangle test on the walls this index returns, and a wall the
// index does not return is not tested.
func BuildWallIndex(cell *Subvolume) *WallIndex {
	tree := rtree.NewTree(25, 50)
	cell.Walls(func(w *Wall) bool {
		tree.Insert(&wallFootprint{Polygonal: footprintOf(w), wall: w})
		return true
	})
	return &WallIndex{tree: tree}
}

// boxAround builds a degenerate query rectangle centered on p, the way
// loadPopulation's rtree queries project a point outward by a small
// buffer before searching.
func boxAround(p mgl64.Vec3, radius float64) geom.Polygonal {
	return geom.Polygon{[]geom.Point{
		{p[0] - radius, p[1] - radius},
		{p[0] + radius, p[1] - radius},
		{p[0] + radius, p[1] + radius},
		{p[0] - radius, p[1] + radius},
		{p[0] - radius, p[1] - radius},
	}}
}

// CandidatesNear returns the walls whose XY bounding rectangle
// intersects a radius-sized box around p.
func (idx *WallIndex) CandidatesNear(p mgl64.Vec3, radius float64) []*Wall {
	hits := idx.tree.SearchIntersect(boxAround(p, radius).Bounds())
	out := make([]*Wall, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*wallFootprint).wall)
	}
	return out
}

// CandidatesInSegment returns the walls whose XY bounding rectangle
// intersects the XY bounding box of the straight segment from a to b.
// Since a ray's XY coordinates vary linearly with t, the segment's own
// XY extent for any sub-range of t is bounded by its two endpoints —
// so this never excludes a wall the exact ray-triangle test could
// still hit, only ones no point of the segment could possibly reach.
func (idx *WallIndex) CandidatesInSegment(a, b mgl64.Vec3) []*Wall {
	minX, maxX := math.Min(a[0], b[0]), math.Max(a[0], b[0])
	minY, maxY := math.Min(a[1], b[1]), math.Max(a[1], b[1])
	box := geom.Polygon{[]geom.Point{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}}
	hits := idx.tree.SearchIntersect(box.Bounds())
	out := make([]*Wall, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*wallFootprint).wall)
	}
	return out
}
