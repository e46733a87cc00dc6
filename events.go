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

// WallHitEvent is the payload of an EventRecord describing a volume
// molecule hitting (and possibly crossing) a wall. The diffusion
// kernel that decides whether a hit occurs, and the reflect/cross
// outcome, is an external collaborator (§1); this struct only carries
// what WallCrossingUpdate needs to apply it.
type WallHitEvent struct {
	Target  Target
	Wall    *Wall
	Dir     CrossDirection
	Crossed bool
	Factor  float64
	Hit     mgl64.Vec3
	Orient  Orient
}

// GridMoveEvent is the payload for a grid molecule moving between
// walls.
type GridMoveEvent struct {
	Target         Target
	From, To       *Wall
	CountsEnclosed bool
	Orient         Orient
}

// ContentEvent is the payload for a molecule or complex created or
// destroyed at a point.
type ContentEvent struct {
	Target Target
	N      int32
	Loc    mgl64.Vec3
	Orient Orient
}

// ComplexEventKind selects which component H update protocol a
// ComplexEvent drives.
type ComplexEventKind int8

const (
	// ComplexVolumeUpdate is a subunit change on a volume complex.
	ComplexVolumeUpdate ComplexEventKind = iota
	// ComplexSurfaceUpdate is a subunit change on a surface complex.
	ComplexSurfaceUpdate
	// ComplexCreated is a freshly assembled complex with no prior
	// snapshot, handled by the update protocol's add-only half.
	ComplexCreated
)

// ComplexEvent is the payload for a macromolecular complex subunit
// change or creation (§4.H, §6). Registry is the complex species'
// rule-counter table; Complex carries the post-change subunit snapshot,
// location, and (for surface complexes) wall. Subunit/ReplacedSpecies
// are unused for ComplexCreated.
type ComplexEvent struct {
	Registry        *SubunitRegistry
	Complex         *Complex
	Kind            ComplexEventKind
	Subunit         int
	ReplacedSpecies int32
}

// ApplyEvent dispatches one dequeued EventRecord to the matching
// component F fast path, or for a ComplexEvent to the component H
// update, based on its Payload's concrete type. Events
// with an unrecognized payload are silently ignored — they belong to
// an external collaborator this package doesn't model.
func ApplyEvent(ctx *SimContext, ev EventRecord) error {
	switch p := ev.Payload.(type) {
	case WallHitEvent:
		return WallCrossingUpdate(ctx, p.Target, p.Wall, p.Dir, p.Crossed, p.Factor,
			ctx.TimeStep, ctx.SpaceStep, ctx.LengthUnit, p.Hit, p.Orient, ev.Time)
	case GridMoveEvent:
		return GridToGridMove(ctx, p.Target, p.From, p.To, p.CountsEnclosed, p.Orient, ev.Time)
	case ContentEvent:
		return InPlaceContentCount(ctx, p.Target, p.N, p.Loc, p.Orient, ev.Time)
	case ComplexEvent:
		switch p.Kind {
		case ComplexVolumeUpdate:
			return CountComplexVolume(ctx, p.Registry, p.Complex, p.Subunit, p.ReplacedSpecies)
		case ComplexSurfaceUpdate:
			return CountComplexSurface(ctx, p.Registry, p.Complex, p.Subunit, p.ReplacedSpecies)
		case ComplexCreated:
			return CountComplexSurfaceNew(ctx, p.Registry, p.Complex)
		default:
			return nil
		}
	default:
		return nil
	}
}
