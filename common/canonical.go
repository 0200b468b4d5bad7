// Copyright 2024 The nanopow Authors
//
// This file is part of the nanopow library.
//
// The nanopow library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The nanopow library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the nanopow library. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"crypto/sha256"
	"encoding/json"
)

// CanonicalHash computes the SHA-256 digest of v's canonical JSON
// serialization. Go's encoding/json always emits object keys in the order
// the struct fields are declared, so this is stable across processes as
// long as the struct definitions agree - which is the one property this
// node's hash-based identity (transaction hash, block hash) depends on.
//
// A binary, fixed-width canonical form would be the better long-term
// choice; JSON is kept here because cross-node hash agreement only
// requires that every node in the cluster agree on one encoding, and this
// one needs no extra codec.
func CanonicalHash(v interface{}) Hash {
	b, err := json.Marshal(v)
	if err != nil {
		panic("common: canonical marshal: " + err.Error())
	}
	return sha256.Sum256(b)
}
