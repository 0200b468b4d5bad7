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

package p2p

import (
	"sync"

	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/core/types"
)

// orphanBuffer holds blocks whose parent has not yet been seen, keyed by
// that parent's hash.
//
// Scoped node-global and mutex-protected, not per-Blocks-message: a block
// and its parent routinely arrive in separate gossip batches, sometimes
// from different peers, and a buffer that only lives for the duration of
// one message would never reunite them. Every worker goroutine shares this
// one instance and drains it on every successful insert, regardless of
// which worker performed that insert.
type orphanBuffer struct {
	mu      sync.Mutex
	pending map[common.Hash]*types.Block
}

func newOrphanBuffer() *orphanBuffer {
	return &orphanBuffer{pending: make(map[common.Hash]*types.Block)}
}

// add stashes block, keyed by its declared parent.
func (o *orphanBuffer) add(block *types.Block) {
	o.mu.Lock()
	o.pending[block.Header.Parent] = block
	o.mu.Unlock()
}

// take pops the orphan keyed by parentHash, if any.
func (o *orphanBuffer) take(parentHash common.Hash) (*types.Block, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, ok := o.pending[parentHash]
	if ok {
		delete(o.pending, parentHash)
	}
	return b, ok
}
