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

package types

import (
	"testing"

	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/params"
	"github.com/stretchr/testify/assert"
)

func TestNewGenesisBlockCreditsCoinbase(t *testing.T) {
	coinbase := common.Address{0x01, 0x02, 0x03}
	genesis := NewGenesisBlock(coinbase)

	assert.True(t, genesis.Header.Parent.IsZero())
	assert.Equal(t, params.DefaultDifficulty, genesis.Header.Difficulty)
	assert.Equal(t, uint64(0), genesis.Header.TimestampMs)
	assert.Empty(t, genesis.Body)

	acc, ok := genesis.State.Get(coinbase)
	assert.True(t, ok)
	assert.Equal(t, uint32(params.InitialBalance), acc.Balance)
	assert.Equal(t, uint32(params.GenesisNonceStart), acc.Nonce)
}

// TestBlockSatisfiesPoWAgainstASufficientlyLooseDifficulty exercises
// SatisfiesPoW directly rather than against genesis's real difficulty -
// genesis is constructed, not mined, so nothing guarantees its hash clears
// DefaultDifficulty the way a mined block's would.
func TestBlockSatisfiesPoWAgainstASufficientlyLooseDifficulty(t *testing.T) {
	genesis := NewGenesisBlock(common.Address{0xaa})

	loose := common.Hash{}
	for i := range loose {
		loose[i] = 0xff
	}
	block := NewBlock(Header{
		Parent:     genesis.Hash(),
		Difficulty: loose,
		MerkleRoot: genesis.Header.MerkleRoot,
	}, nil, genesis.State)
	assert.True(t, block.SatisfiesPoW())
}
