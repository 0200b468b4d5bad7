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

package miner

import (
	"testing"
	"time"

	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/core/blockchain"
	"github.com/nanopow/nanopow/core/mempool"
	"github.com/stretchr/testify/assert"
)

// TestMinerProducesThreeChainedBlocks verifies continuous mining chains
// blocks correctly: with difficulty 0xff...ff every trial succeeds, so three
// consecutive reads off the finished-block channel must chain.
func TestMinerProducesThreeChainedBlocks(t *testing.T) {
	bc := blockchain.New(common.Address{0x01})
	mp := mempool.New()

	// The genesis block's own difficulty is DefaultDifficulty, which the
	// miner inherits for its first trial - swap it for an all-ones
	// difficulty so every trial is guaranteed to succeed, matching the
	// scenario's stated setup.
	genesis, err := bc.Get(bc.Tip())
	assert.NoError(t, err)
	var loose common.Hash
	for i := range loose {
		loose[i] = 0xff
	}
	genesis.Header.Difficulty = loose

	m := New(bc, mp)
	go m.Run()
	defer m.Exit()

	m.Start(0)

	var blocks []common.Hash
	var parents []common.Hash
	for i := 0; i < 3; i++ {
		select {
		case block := <-m.FinishedBlocks():
			blocks = append(blocks, block.Hash())
			parents = append(parents, block.Header.Parent)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for mined block")
		}
	}

	assert.Equal(t, blocks[0], parents[1])
	assert.Equal(t, blocks[1], parents[2])
}

func TestMinerStaysPausedUntilStarted(t *testing.T) {
	bc := blockchain.New(common.Address{0x01})
	mp := mempool.New()
	m := New(bc, mp)
	go m.Run()
	defer m.Exit()

	select {
	case <-m.FinishedBlocks():
		t.Fatal("miner produced a block before being started")
	case <-time.After(100 * time.Millisecond):
	}
}
