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

	"github.com/go-gl/mathgl/mgl64"
)

// HitClass is the result of a ray-triangle classification.
type HitClass uint8

const (
	Miss HitClass = iota
	Front
	Back
	Redo
)

// Hit carries the parametric/location detail of a non-Miss classification.
type Hit struct {
	Class HitClass
	T     float64
	Point mgl64.Vec3
}

// ClassifyTriangle casts the ray origin + t*delta, t in [0,1], against
// w and reports whether it enters from the front (along the outward
// normal), the back, misses, or must be redone after perturbation
// because it grazes an edge/vertex within tolerance (component B).
//
// The technique — per-axis/plane parametric intersection followed by
// an explicit sign back-check — is adapted from the swept-AABB contact
// classification in Gekko3D-gekko's PhysicsResolveAxis, generalized
// from box faces to an arbitrary triangle plane.
func ClassifyTriangle(origin, delta mgl64.Vec3, w *Wall) Hit {
	denom := w.Normal.Dot(delta)
	if math.Abs(denom) < 1e-15 {
		return Hit{Class: Miss}
	}
	t := (w.D - w.Normal.Dot(origin)) / denom
	if t < -EPSC || t > 1+EPSC {
		return Hit{Class: Miss}
	}
	point := origin.Add(delta.Mul(t))

	// Barycentric containment test.
	v0 := w.V1.Sub(w.V0)
	v1 := w.V2.Sub(w.V0)
	v2 := point.Sub(w.V0)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denomBary := d00*d11 - d01*d01
	if math.Abs(denomBary) < 1e-15 {
		return Hit{Class: Miss}
	}
	u := (d11*d20 - d01*d21) / denomBary
	v := (d00*d21 - d01*d20) / denomBary
	wgt := 1 - u - v

	const edgeTol = EPSC
	if u < -edgeTol || v < -edgeTol || wgt < -edgeTol {
		return Hit{Class: Miss}
	}
	if near(u, 0, edgeTol) || near(v, 0, edgeTol) || near(wgt, 0, edgeTol) {
		return Hit{Class: Redo}
	}

	// Sign back-check: reject hits whose offset from the query origin
	// points the wrong way relative to delta (guards against numerical
	// drift classifying a hit as occurring behind the ray's start).
	if point.Sub(origin).Dot(delta) < -EPSC {
		return Hit{Class: Miss}
	}

	if denom < 0 {
		// Ray travels against the outward normal: entering from the front.
		return Hit{Class: Front, T: t, Point: point}
	}
	return Hit{Class: Back, T: t, Point: point}
}

func near(v, target, tol float64) bool {
	return math.Abs(v-target) < tol
}

// NewWall constructs a Wall with its outward normal and plane offset
// derived from the three vertices in winding order (v0,v1,v2), the
// normal pointing per the right-hand rule.
func NewWall(v0, v1, v2 mgl64.Vec3) *Wall {
	n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	return &Wall{
		V0: v0, V1: v1, V2: v2,
		Normal: n,
		D:      n.Dot(v0),
	}
}
