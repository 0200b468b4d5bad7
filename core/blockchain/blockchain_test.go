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

package blockchain

import (
	"testing"

	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/core/types"
	"github.com/stretchr/testify/assert"
)

// looseDifficulty never rejects a block on PoW grounds, so tests can focus
// on the blockchain store's own bookkeeping rather than hunting for nonces.
var looseDifficulty = func() common.Hash {
	var h common.Hash
	for i := range h {
		h[i] = 0xff
	}
	return h
}()

func childOf(parent *types.Block) *types.Block {
	header := types.Header{
		Parent:     parent.Hash(),
		Difficulty: looseDifficulty,
	}
	return types.NewBlock(header, nil, parent.State.Clone())
}

// TestSingleInsertTip covers inserting a single child onto genesis.
func TestSingleInsertTip(t *testing.T) {
	bc := New(common.Address{0x01})
	genesis := bc.TipBlock()

	block := childOf(genesis)
	hash, err := bc.Insert(block)
	assert.NoError(t, err)

	assert.Equal(t, hash, bc.Tip())
	height, err := bc.Height(bc.Tip())
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), height)
}

func TestInsertUnknownParentIsRejected(t *testing.T) {
	bc := New(common.Address{0x01})
	header := types.Header{Parent: common.Hash{0xde, 0xad}, Difficulty: looseDifficulty}
	orphan := types.NewBlock(header, nil, types.AccountState{})

	_, err := bc.Insert(orphan)
	assert.Equal(t, ErrUnknownParent, err)
}

func TestInsertIsIdempotentOnKnownHash(t *testing.T) {
	bc := New(common.Address{0x01})
	block := childOf(bc.TipBlock())

	first, err := bc.Insert(block)
	assert.NoError(t, err)
	second, err := bc.Insert(block)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	height, err := bc.Height(first)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), height)
}

func TestTieBreakIsFirstSeenWins(t *testing.T) {
	bc := New(common.Address{0x01})
	genesis := bc.TipBlock()

	a := childOf(genesis)
	b := childOf(genesis)
	b.Header.MerkleRoot[0] = 0x01 // distinguish b's hash from a's

	hashA, err := bc.Insert(a)
	assert.NoError(t, err)
	_, err = bc.Insert(b)
	assert.NoError(t, err)

	assert.Equal(t, hashA, bc.Tip())
}

func TestTipSwitchesToStrictlyLongerBranch(t *testing.T) {
	bc := New(common.Address{0x01})
	genesis := bc.TipBlock()

	a := childOf(genesis)
	_, err := bc.Insert(a)
	assert.NoError(t, err)

	b := childOf(genesis)
	b.Header.MerkleRoot[0] = 0x01
	bHash, err := bc.Insert(b)
	assert.NoError(t, err)

	c := childOf(b)
	cHash, err := bc.Insert(c)
	assert.NoError(t, err)

	assert.Equal(t, cHash, bc.Tip())
	height, err := bc.Height(bHash)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), height)
}

// TestLongestChainReconstruction covers walking parent pointers from tip
// back to genesis.
func TestLongestChainReconstruction(t *testing.T) {
	bc := New(common.Address{0x01})
	genesisHash := bc.Tip()

	a := childOf(bc.TipBlock())
	aHash, err := bc.Insert(a)
	assert.NoError(t, err)

	b := childOf(a)
	bHash, err := bc.Insert(b)
	assert.NoError(t, err)

	chain := bc.LongestChain()
	assert.Equal(t, []common.Hash{genesisHash, aHash, bHash}, chain)
	assert.Equal(t, bc.Tip(), chain[len(chain)-1])
}

func TestGetAndContainsOnUnknownHash(t *testing.T) {
	bc := New(common.Address{0x01})
	unknown := common.Hash{0x99}

	assert.False(t, bc.Contains(unknown))
	_, err := bc.Get(unknown)
	assert.Equal(t, ErrUnknownBlock, err)
}
