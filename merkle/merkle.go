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

// Package merkle builds a binary Merkle tree over any sequence of Hashable
// items and answers inclusion proofs against its root. It has no knowledge
// of transactions or blocks - it operates purely on Hash values.
package merkle

import (
	"crypto/sha256"

	"github.com/nanopow/nanopow/common"
)

// Hashable is anything that can contribute a leaf hash to a Merkle tree.
type Hashable interface {
	Hash() common.Hash
}

// LeafHash adapts a bare Hash into a Hashable, for callers (and tests) that
// already have leaf digests in hand rather than hashable structs.
type LeafHash common.Hash

func (l LeafHash) Hash() common.Hash { return common.Hash(l) }

// Tree is an immutable, bottom-up Merkle tree. Rows are stored flattened
// into a single slice; rowSizes records how many nodes each level
// contributed so Proof can walk back up from a leaf index.
type Tree struct {
	nodes    []common.Hash
	rowSizes []int
	leaves   int
}

// New builds a Tree over data. A row of odd width duplicates its last
// element before pairing, matching the reference construction.
func New(data []Hashable) *Tree {
	t := &Tree{leaves: len(data)}
	if len(data) == 0 {
		return t
	}

	for _, d := range data {
		t.nodes = append(t.nodes, d.Hash())
	}

	length := len(data)
	start := 0
	for length > 1 {
		rowLength := length
		if length%2 == 1 {
			t.nodes = append(t.nodes, t.nodes[len(t.nodes)-1])
			rowLength = length + 1
		}
		t.rowSizes = append(t.rowSizes, rowLength)

		for m := start; m < start+rowLength; m += 2 {
			t.nodes = append(t.nodes, hashPair(t.nodes[m], t.nodes[m+1]))
		}

		start += rowLength
		length = rowLength / 2
	}
	return t
}

func hashPair(left, right common.Hash) common.Hash {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out common.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Root returns the tree's root hash. The zero Hash is returned for an empty
// tree.
func (t *Tree) Root() common.Hash {
	if len(t.nodes) == 0 {
		return common.Hash{}
	}
	return t.nodes[len(t.nodes)-1]
}

// Proof returns the sibling hashes needed to walk leaf i up to the root, in
// bottom-to-top order. t.rowSizes holds one padded row width per tree level
// from the leaves up, so it also gives the proof's required length.
func (t *Tree) Proof(index int) []common.Hash {
	var proof []common.Hash
	if index >= t.leaves || len(t.nodes) == 0 {
		return proof
	}

	rowStart := 0
	idx := index
	for _, rowLen := range t.rowSizes {
		var sibling int
		if idx%2 == 0 {
			sibling = idx + 1
		} else {
			sibling = idx - 1
		}
		proof = append(proof, t.nodes[rowStart+sibling])
		rowStart += rowLen
		idx /= 2
	}
	return proof
}

// Verify recomputes the root from leaf, proof, its index and the total leaf
// count, and reports whether it matches root.
func Verify(root common.Hash, leaf common.Hash, proof []common.Hash, index int, numLeaves int) bool {
	if index >= numLeaves {
		return false
	}

	hash := leaf
	idx := index
	for _, sibling := range proof {
		if idx%2 == 0 {
			hash = hashPair(hash, sibling)
		} else {
			hash = hashPair(sibling, hash)
		}
		idx /= 2
	}
	return hash == root
}
