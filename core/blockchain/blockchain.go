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

// Package blockchain holds the in-memory block DAG: every block this node
// has ever accepted, indexed by hash, plus the single mutex that protects
// them and the bookkeeping needed to answer "what's the tip" in O(1).
package blockchain

import (
	"sync"

	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/core/types"
	"github.com/nanopow/nanopow/log"
	"github.com/pkg/errors"
)

var logger = log.NewModuleLogger(log.Blockchain)

// ErrUnknownBlock is returned by Get and Height for a hash not in the
// store.
var ErrUnknownBlock = errors.New("blockchain: unknown block hash")

// ErrUnknownParent is returned by Insert when the block's declared parent
// has not been seen. Callers (network worker, miner) must not call Insert
// with an orphan; this is a programmer error in this core, not a normal
// rejection path.
var ErrUnknownParent = errors.New("blockchain: parent not present")

// Blockchain is the hash-indexed block store described in the node's
// consensus model. A single RWMutex guards every field; callers take the
// read lock for lookups and the write lock only inside Insert.
//
// Caller discipline: never hold this lock while acquiring the mempool's,
// or across a channel send or network I/O. Readers that need a consistent
// view across both stores take a snapshot under one lock, release it, and
// only then touch the other store.
type Blockchain struct {
	mu sync.RWMutex

	blocks  map[common.Hash]*types.Block
	heights map[common.Hash]uint64

	tip     common.Hash
	longest uint64
}

// New builds a fresh Blockchain containing only the genesis block, whose
// sole content is a coinbase credit to coinbase.
func New(coinbase common.Address) *Blockchain {
	genesis := types.NewGenesisBlock(coinbase)
	hash := genesis.Hash()

	bc := &Blockchain{
		blocks:  map[common.Hash]*types.Block{hash: genesis},
		heights: map[common.Hash]uint64{hash: 0},
		tip:     hash,
		longest: 0,
	}
	logger.Info("created genesis block", "hash", hash.Hex(), "coinbase", coinbase.Hex())
	return bc
}

// Insert stores block and updates tip bookkeeping. The caller is
// responsible for every precondition named in the consensus model before
// calling this: the parent must already be present, the block must
// satisfy its declared proof-of-work, and its difficulty must match its
// parent's. Insert itself only enforces that the parent is known, since
// without it the new height cannot be computed.
//
// Equal-length ties are first-seen-wins: the tip only moves when the
// inserted block's height strictly exceeds the current longest.
func (bc *Blockchain) Insert(block *types.Block) (common.Hash, error) {
	hash := block.Hash()

	bc.mu.Lock()
	defer bc.mu.Unlock()

	if _, ok := bc.blocks[hash]; ok {
		return hash, nil
	}

	parentHeight, ok := bc.heights[block.Header.Parent]
	if !ok {
		return hash, ErrUnknownParent
	}

	height := parentHeight + 1
	bc.blocks[hash] = block
	bc.heights[hash] = height

	if height > bc.longest {
		bc.longest = height
		bc.tip = hash
		logger.Debug("tip advanced", "hash", hash.Hex(), "height", height)
	}
	return hash, nil
}

// Tip returns the hash of the last block on the current longest chain.
func (bc *Blockchain) Tip() common.Hash {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.tip
}

// Height returns the chain length recorded for hash, or ErrUnknownBlock.
func (bc *Blockchain) Height(hash common.Hash) (uint64, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	h, ok := bc.heights[hash]
	if !ok {
		return 0, ErrUnknownBlock
	}
	return h, nil
}

// Get returns the stored block for hash, or ErrUnknownBlock.
func (bc *Blockchain) Get(hash common.Hash) (*types.Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	b, ok := bc.blocks[hash]
	if !ok {
		return nil, ErrUnknownBlock
	}
	return b, nil
}

// Contains reports whether hash is a known block.
func (bc *Blockchain) Contains(hash common.Hash) bool {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	_, ok := bc.blocks[hash]
	return ok
}

// TipBlock is a convenience combining Tip and Get under one lock
// acquisition, used by the transaction generator to read the current head
// and its post-state together.
func (bc *Blockchain) TipBlock() *types.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.blocks[bc.tip]
}

// LongestChain reconstructs the hash sequence from genesis to tip by
// walking parent pointers and reversing. Its length is always
// longest+1.
func (bc *Blockchain) LongestChain() []common.Hash {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	chain := make([]common.Hash, 0, bc.longest+1)
	cur := bc.tip
	for {
		chain = append(chain, cur)
		b, ok := bc.blocks[cur]
		if !ok || b.Header.Parent.IsZero() {
			break
		}
		cur = b.Header.Parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
