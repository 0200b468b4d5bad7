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

package mempool

import (
	"crypto/rand"
	"testing"

	"github.com/nanopow/nanopow/core/types"
	"github.com/nanopow/nanopow/crypto"
	"github.com/stretchr/testify/assert"
)

func newSignedTx(t *testing.T, nonce uint32) *types.SignedTransaction {
	sender, err := crypto.GenerateKeyPair(rand.Reader)
	assert.NoError(t, err)
	receiver, err := crypto.GenerateKeyPair(rand.Reader)
	assert.NoError(t, err)
	tx := types.Transaction{Receiver: receiver.Address(), Value: 5, Nonce: nonce}
	return types.NewSignedTransaction(tx, sender)
}

func TestInsertGetContainsRemove(t *testing.T) {
	mp := New()
	stx := newSignedTx(t, 1)

	hash := mp.Insert(stx)
	assert.True(t, mp.Contains(hash))

	got, ok := mp.Get(hash)
	assert.True(t, ok)
	assert.Equal(t, stx, got)

	mp.Remove(hash)
	assert.False(t, mp.Contains(hash))
	assert.Equal(t, 0, mp.Len())
}

func TestSnapshotIsACopy(t *testing.T) {
	mp := New()
	mp.Insert(newSignedTx(t, 1))
	mp.Insert(newSignedTx(t, 2))

	snap := mp.Snapshot()
	assert.Len(t, snap, 2)

	mp.Insert(newSignedTx(t, 3))
	assert.Len(t, snap, 2, "snapshot must not observe later inserts")
	assert.Equal(t, 3, mp.Len())
}

// TestRevalidateDropsStaleEntries covers dropping entries that no longer
// validate against a new tip state.
func TestRevalidateDropsStaleEntries(t *testing.T) {
	mp := New()

	sender, err := crypto.GenerateKeyPair(rand.Reader)
	assert.NoError(t, err)
	receiver, err := crypto.GenerateKeyPair(rand.Reader)
	assert.NoError(t, err)

	valid := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 1, Nonce: 2}, sender)
	stale := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 1, Nonce: 5}, sender)

	validHash := mp.Insert(valid)
	staleHash := mp.Insert(stale)

	state := types.AccountState{
		sender.Address(): types.Account{Nonce: 1, Balance: 100},
	}
	validate := func(stx *types.SignedTransaction, s types.AccountState) error {
		acc, ok := s.Get(stx.Sender())
		if !ok || stx.Tx.Nonce != acc.Nonce+1 {
			return assert.AnError
		}
		return nil
	}

	mp.Revalidate(state, validate)

	assert.True(t, mp.Contains(validHash))
	assert.False(t, mp.Contains(staleHash))
}
