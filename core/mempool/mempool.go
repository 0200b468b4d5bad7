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

// Package mempool holds unconfirmed signed transactions, keyed by their own
// hash. It has no ordering and no size cap of its own; draining is the
// miner's job and the only effective bound is network throughput.
package mempool

import (
	"sync"

	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/core/types"
	"github.com/nanopow/nanopow/log"
)

var logger = log.NewModuleLogger(log.Mempool)

// Mempool is a mutex-guarded set of unconfirmed SignedTransactions. Callers
// follow the same lock discipline as Blockchain: take the lock for the
// minimum scope necessary, and never hold it across a channel send or
// network call.
type Mempool struct {
	mu      sync.RWMutex
	entries map[common.Hash]*types.SignedTransaction
}

// New returns an empty Mempool.
func New() *Mempool {
	return &Mempool{entries: make(map[common.Hash]*types.SignedTransaction)}
}

// Contains reports whether hash is already pending.
func (m *Mempool) Contains(hash common.Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[hash]
	return ok
}

// Get returns the pending transaction for hash, if any.
func (m *Mempool) Get(hash common.Hash) (*types.SignedTransaction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stx, ok := m.entries[hash]
	return stx, ok
}

// Insert adds stx, keyed by its own hash. Re-inserting an already-pending
// hash is a no-op.
func (m *Mempool) Insert(stx *types.SignedTransaction) common.Hash {
	hash := stx.Hash()
	m.mu.Lock()
	m.entries[hash] = stx
	m.mu.Unlock()
	return hash
}

// Remove drops hash from the pool, if present.
func (m *Mempool) Remove(hash common.Hash) {
	m.mu.Lock()
	delete(m.entries, hash)
	m.mu.Unlock()
}

// Snapshot returns a copy of every pending transaction, safe for the caller
// to iterate without holding the mempool lock. Iteration order over the
// result is nondeterministic - callers (the miner, in particular) must not
// depend on it.
func (m *Mempool) Snapshot() []*types.SignedTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.SignedTransaction, 0, len(m.entries))
	for _, stx := range m.entries {
		out = append(out, stx)
	}
	return out
}

// Len reports the number of pending transactions.
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Revalidate drops every pending transaction that no longer passes
// validate against the given state - used after a block is mined or
// inserted, with state the new tip's post-state. Transactions whose
// sender is unknown to state, or whose nonce/balance predicate fails, are
// removed; everything else is kept.
func (m *Mempool) Revalidate(state types.AccountState, validate func(*types.SignedTransaction, types.AccountState) error) {
	stale := make([]common.Hash, 0)

	m.mu.RLock()
	for hash, stx := range m.entries {
		if err := validate(stx, state); err != nil {
			stale = append(stale, hash)
		}
	}
	m.mu.RUnlock()

	if len(stale) == 0 {
		return
	}
	m.mu.Lock()
	for _, hash := range stale {
		delete(m.entries, hash)
	}
	m.mu.Unlock()
	logger.Debug("mempool revalidated", "dropped", len(stale))
}
