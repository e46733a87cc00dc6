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

import "math/rand"

// RNG is the external random-number collaborator (§6). The core only
// ever draws from it to perturb a waypoint off a wall plane.
type RNG interface {
	NextUniform() float64 // in [0,1)
	NextInt() int
}

// DrawCount is incremented on every RNG draw made by this package, for
// optional reporting, per §6.
var DrawCount uint64

// mathRandRNG adapts math/rand.Rand to the RNG interface; used by
// tests and the CLI driver when no external RNG collaborator is wired.
type mathRandRNG struct {
	r *rand.Rand
}

// NewMathRandRNG returns an RNG backed by the standard library's
// math/rand, seeded deterministically.
func NewMathRandRNG(seed int64) RNG {
	return &mathRandRNG{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRandRNG) NextUniform() float64 {
	DrawCount++
	return m.r.Float64()
}

func (m *mathRandRNG) NextInt() int {
	DrawCount++
	return m.r.Int()
}
