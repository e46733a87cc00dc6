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
	"encoding/binary"
	"hash/fnv"
)

// hashInt64 produces a stable hash for an integer identity (species
// id, pathway id, region id). No third-party hashing library appears
// anywhere in the retrieval pack, so this uses the standard library's
// hash/fnv, the same way sym_table.h hashes identifiers by folding
// bytes through a mixing function in the original source.
func hashInt64(id int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

// targetHash derives the counter-table hash for a tagged Target: the
// payload hash XOR'd with the variant discriminant shifted left by 32
// bits.
func targetHash(t Target) uint64 {
	return hashInt64(int64(t.ID)) ^ uint64(t.Kind)<<32
}

// regionHash returns the region's cached identity hash.
func regionHash(r *Region) uint64 {
	return r.Hash
}
