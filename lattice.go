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
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// EPSC is the relative-tolerance constant used throughout the package
// for "near" comparisons: EPSC * (max(|x|,|y|) + 1).
const EPSC = 1e-10

func withinTol(a, b, scaleA, scaleB float64) bool {
	tol := EPSC * (math.Max(math.Abs(scaleA), math.Abs(scaleB)) + 1)
	return math.Abs(a-b) < tol
}

// PartitionTable holds one axis's coarse and fine partition sequences.
// Both are strictly increasing; Fine has exactly FineLen entries
// (4096 tail + 16384 linear interior + 4096 tail, the tails spaced
// quadratically) used as the snap target for partition refinement.
type PartitionTable struct {
	Coarse []float64
	Fine   []float64
}

const (
	fineTailLen     = 4096
	fineInteriorLen = 16384
	FineLen         = 2*fineTailLen + fineInteriorLen
)

// BuildFineSequence constructs the fixed-length fine partition array
// for one axis: a linear interior spanning [lo,hi] in fineInteriorLen
// steps, flanked by fineTailLen entries on each side extending
// outward. The tails are quadratic, not exponential: a tail entry's
// distance from its boundary grows with the square of its position in
// the tail. interactionRadius bounds how fine the
// interior may get relative to the reaction interaction radius
// (interior partitions must stay more than 2*interactionRadius apart,
// per the Subvolume lattice invariant in spec.md §3).
func BuildFineSequence(lo, hi, interactionRadius float64) []float64 {
	span := hi - lo
	step := span / float64(fineInteriorLen-1)
	if step < 2*interactionRadius {
		step = 2 * interactionRadius
	}
	out := make([]float64, 0, FineLen)

	// lower quadratic tail, increasing toward lo
	tailSpan := step * float64(fineTailLen)
	for i := 0; i < fineTailLen; i++ {
		frac := float64(fineTailLen-i) / float64(fineTailLen)
		out = append(out, lo-tailSpan*math.Pow(frac, 2))
	}
	// linear interior
	for i := 0; i < fineInteriorLen; i++ {
		out = append(out, lo+step*float64(i))
	}
	// upper quadratic tail, increasing away from hi
	for i := 1; i <= fineTailLen; i++ {
		frac := float64(i) / float64(fineTailLen)
		out = append(out, hi+tailSpan*math.Pow(frac, 2))
	}
	return out
}

// snap returns the nearest fine-array entry to v.
func (p *PartitionTable) snap(v float64) float64 {
	i := sort.SearchFloat64s(p.Fine, v)
	switch {
	case i <= 0:
		return p.Fine[0]
	case i >= len(p.Fine):
		return p.Fine[len(p.Fine)-1]
	default:
		if p.Fine[i]-v < v-p.Fine[i-1] {
			return p.Fine[i]
		}
		return p.Fine[i-1]
	}
}

// bisect returns the largest index with Coarse[idx] <= v, clamped to
// [0, len(Coarse)-2] so it always names a valid cell along this axis.
func (p *PartitionTable) bisect(v float64) int {
	i := sort.Search(len(p.Coarse), func(i int) bool { return p.Coarse[i] > v }) - 1
	if i < 0 {
		i = 0
	}
	if n := len(p.Coarse) - 2; i > n {
		i = n
	}
	return i
}

func (p *PartitionTable) numCells() int { return len(p.Coarse) - 1 }

// Face identifies one of the six axis-aligned faces of a subvolume.
type Face int

const (
	FaceXNeg Face = iota
	FaceXPos
	FaceYNeg
	FaceYPos
	FaceZNeg
	FaceZPos
)

func (f Face) axis() int { return int(f) / 2 }
func (f Face) positive() bool { return int(f)%2 == 1 }

// CellLink is either a *Subvolume or a *BSPNode (built outside this
// core; a node resolves to the child on the point's side of its split).
// This mirrors spec.md §4.A's "if the neighbor is a BSP node, walks it
// keyed on whichever axis the node splits".
type CellLink interface {
	resolve(point mgl64.Vec3) *Subvolume
}

func (c *Subvolume) resolve(mgl64.Vec3) *Subvolume { return c }

// BSPNode is an out-of-scope construction collaborator: this core only
// needs to walk past it, never to build one.
type BSPNode struct {
	Axis     int
	Split    float64
	Lo, Hi   CellLink
}

func (n *BSPNode) resolve(point mgl64.Vec3) *Subvolume {
	if point[n.Axis] <= n.Split {
		if n.Lo == nil {
			return nil
		}
		return n.Lo.resolve(point)
	}
	if n.Hi == nil {
		return nil
	}
	return n.Hi.resolve(point)
}

// Subvolume is one axis-aligned cell of the 3D lattice.
type Subvolume struct {
	I, J, K int
	Index   int // flat row-major index into Lattice.Cells

	// indices into the owning axis PartitionTable.Fine arrays,
	// identifying this cell's bounds precisely (spec.md §3).
	XFineLo, XFineHi int
	YFineLo, YFineHi int
	ZFineLo, ZFineHi int

	Min, Max mgl64.Vec3 // derived axis-aligned bounds

	walls     *Wall
	molecules *Molecule

	neighbors [6]CellLink

	arena     *Arena
	wallIndex *WallIndex
}

// Walls iterates the subvolume's wall linked list.
func (c *Subvolume) Walls(yield func(*Wall) bool) {
	for w := c.walls; w != nil; w = w.next {
		if !yield(w) {
			return
		}
	}
}

// AddWall prepends w to the subvolume's wall list (init-time only).
func (c *Subvolume) AddWall(w *Wall) {
	w.Subvol = int32(c.Index)
	w.next = c.walls
	c.walls = w
}

// Molecules iterates the subvolume's currently-resident molecules.
func (c *Subvolume) Molecules(yield func(*Molecule) bool) {
	for m := c.molecules; m != nil; m = m.nextInSubvol {
		if !yield(m) {
			return
		}
	}
}

func (c *Subvolume) addMolecule(m *Molecule) {
	m.subvol = int32(c.Index)
	m.nextInSubvol = c.molecules
	c.molecules = m
}

func (c *Subvolume) removeMolecule(m *Molecule) {
	if c.molecules == m {
		c.molecules = m.nextInSubvol
		m.nextInSubvol = nil
		return
	}
	for p := c.molecules; p != nil; p = p.nextInSubvol {
		if p.nextInSubvol == m {
			p.nextInSubvol = m.nextInSubvol
			m.nextInSubvol = nil
			return
		}
	}
}

func (c *Subvolume) Arena() *Arena { return c.arena }

// WallIndex lazily builds and caches the cell's candidate-narrowing
// spatial index over its own walls (findEnclosingRegions consults
// this before running the exact ClassifyTriangle test). Built once,
// since a cell's wall list is init-time only.
func (c *Subvolume) WallIndex() *WallIndex {
	if c.wallIndex == nil {
		c.wallIndex = BuildWallIndex(c)
	}
	return c.wallIndex
}

// Lattice is the dense row-major 3D partition lattice: component A.
type Lattice struct {
	X, Y, Z PartitionTable
	Cells   []*Subvolume
	nx, ny, nz int // number of cells per axis
}

// NewLattice builds the dense cell array and wires face-adjacency
// neighbor links, from three already-built partition tables.
func NewLattice(x, y, z PartitionTable) *Lattice {
	l := &Lattice{X: x, Y: y, Z: z}
	l.nx, l.ny, l.nz = x.numCells(), y.numCells(), z.numCells()
	l.Cells = make([]*Subvolume, l.nx*l.ny*l.nz)
	for i := 0; i < l.nx; i++ {
		for j := 0; j < l.ny; j++ {
			for k := 0; k < l.nz; k++ {
				idx := l.flatIndex(i, j, k)
				c := &Subvolume{
					I: i, J: j, K: k, Index: idx,
					Min: mgl64.Vec3{x.Coarse[i], y.Coarse[j], z.Coarse[k]},
					Max: mgl64.Vec3{x.Coarse[i+1], y.Coarse[j+1], z.Coarse[k+1]},
				}
				c.arena = NewArena(idx, 0)
				l.Cells[idx] = c
			}
		}
	}
	for i := 0; i < l.nx; i++ {
		for j := 0; j < l.ny; j++ {
			for k := 0; k < l.nz; k++ {
				c := l.Cells[l.flatIndex(i, j, k)]
				c.neighbors[FaceXNeg] = l.neighborAt(i-1, j, k)
				c.neighbors[FaceXPos] = l.neighborAt(i+1, j, k)
				c.neighbors[FaceYNeg] = l.neighborAt(i, j-1, k)
				c.neighbors[FaceYPos] = l.neighborAt(i, j+1, k)
				c.neighbors[FaceZNeg] = l.neighborAt(i, j, k-1)
				c.neighbors[FaceZPos] = l.neighborAt(i, j, k+1)
			}
		}
	}
	return l
}

func (l *Lattice) neighborAt(i, j, k int) CellLink {
	if i < 0 || j < 0 || k < 0 || i >= l.nx || j >= l.ny || k >= l.nz {
		return nil
	}
	return l.Cells[l.flatIndex(i, j, k)]
}

// flatIndex implements spec.md §3's k + (nz-1)*(j + (ny-1)*i) layout,
// where nz-1/ny-1 here are l.nz/l.ny (already cell counts, not
// partition counts).
func (l *Lattice) flatIndex(i, j, k int) int {
	return k + l.nz*(j+l.ny*i)
}

// CellOf maps a point to its cell via bisection on each axis's coarse
// partition table: component A's cell_of. Out-of-box points clamp to
// the boundary cell (callers needing strict containment must check
// against Min/Max themselves).
func (l *Lattice) CellOf(p mgl64.Vec3) *Subvolume {
	i := l.X.bisect(p[0])
	j := l.Y.bisect(p[1])
	k := l.Z.bisect(p[2])
	return l.Cells[l.flatIndex(i, j, k)]
}

// Traverse follows cell's neighbor link across face, resolving through
// any BSP node with the point that should land in the result cell.
func (c *Subvolume) Traverse(face Face, point mgl64.Vec3) *Subvolume {
	link := c.neighbors[face]
	if link == nil {
		return nil
	}
	return link.resolve(point)
}

// CollideCellTime returns the parametric t at which the ray
// origin + t*delta, t in (0,inf), first exits cell through one of its
// six faces, and which face that is. t > 1 means the displacement
// delta ends inside the cell. Ties are broken x before y before z.
func CollideCellTime(origin, delta mgl64.Vec3, cell *Subvolume) (t float64, face Face, hit bool) {
	best := math.Inf(1)
	bestFace := Face(-1)
	for axis := 0; axis < 3; axis++ {
		d := delta[axis]
		if math.Abs(d) < 1e-300 {
			continue
		}
		var boundary float64
		var f Face
		if d > 0 {
			boundary = cell.Max[axis]
			f = Face(axis*2 + 1)
		} else {
			boundary = cell.Min[axis]
			f = Face(axis * 2)
		}
		ct := (boundary - origin[axis]) / d
		if ct <= 0 {
			continue
		}
		if ct < best-EPSC*(math.Abs(best)+1) {
			best = ct
			bestFace = f
		}
		// within tolerance of current best: keep the earlier axis
		// (x beats y beats z), i.e. do nothing since axis increases.
	}
	if bestFace < 0 {
		return 0, 0, false
	}
	return best, bestFace, true
}

// RaySegment is one (cell, parametric-range) leg of a ray walk.
type RaySegment struct {
	Cell       *Subvolume
	TStart, TEnd float64
}

// WalkRay yields each cell traversed by the segment origin->end,
// starting from `start`. This is the primitive underneath components
// C, D, and F.
func WalkRay(origin, end mgl64.Vec3, start *Subvolume) []RaySegment {
	delta := end.Sub(origin)
	var segs []RaySegment
	cur := start
	tPrev := 0.0
	for cur != nil {
		t, face, hit := CollideCellTime(origin, delta, cur)
		if !hit || t >= 1 {
			segs = append(segs, RaySegment{Cell: cur, TStart: tPrev, TEnd: 1})
			return segs
		}
		segs = append(segs, RaySegment{Cell: cur, TStart: tPrev, TEnd: t})
		nextPoint := origin.Add(delta.Mul(t))
		cur = cur.Traverse(face, nextPoint)
		tPrev = t
	}
	return segs
}
