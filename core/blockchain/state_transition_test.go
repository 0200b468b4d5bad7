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
	"crypto/rand"
	mathrand "math/rand"
	"testing"

	"github.com/nanopow/nanopow/core/types"
	"github.com/nanopow/nanopow/crypto"
	"github.com/stretchr/testify/assert"
)

func newKeyPair(t *testing.T) *crypto.KeyPair {
	kp, err := crypto.GenerateKeyPair(rand.Reader)
	assert.NoError(t, err)
	return kp
}

func TestValidateTransactionRejectsBadSignature(t *testing.T) {
	sender := newKeyPair(t)
	receiver := newKeyPair(t)

	stx := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 1, Nonce: 1}, sender)
	stx.Signature[0] ^= 0xff

	state := types.AccountState{sender.Address(): types.Account{Nonce: 0, Balance: 100}}
	assert.Equal(t, ErrBadSignature, ValidateTransaction(stx, state))
}

func TestValidateTransactionRejectsUnknownSender(t *testing.T) {
	sender := newKeyPair(t)
	receiver := newKeyPair(t)
	stx := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 1, Nonce: 1}, sender)

	assert.Equal(t, ErrUnknownSender, ValidateTransaction(stx, types.AccountState{}))
}

func TestValidateTransactionRejectsInsufficientBalance(t *testing.T) {
	sender := newKeyPair(t)
	receiver := newKeyPair(t)
	stx := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 50, Nonce: 1}, sender)

	state := types.AccountState{sender.Address(): types.Account{Nonce: 0, Balance: 10}}
	assert.Equal(t, ErrInsufficientBalance, ValidateTransaction(stx, state))
}

func TestValidateTransactionRejectsWrongNonce(t *testing.T) {
	sender := newKeyPair(t)
	receiver := newKeyPair(t)
	stx := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 1, Nonce: 7}, sender)

	state := types.AccountState{sender.Address(): types.Account{Nonce: 0, Balance: 100}}
	assert.Equal(t, ErrWrongNonce, ValidateTransaction(stx, state))
}

// TestApplyTransactionDoesNotAdvanceSenderNonce pins down that the
// sender's nonce is left unchanged after a debit. This is
// deliberate, load-bearing behavior, not a bug to be "fixed" by a future
// change.
func TestApplyTransactionDoesNotAdvanceSenderNonce(t *testing.T) {
	sender := newKeyPair(t)
	receiver := newKeyPair(t)
	stx := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 10, Nonce: 1}, sender)

	state := types.AccountState{sender.Address(): types.Account{Nonce: 0, Balance: 100}}
	rng := mathrand.New(mathrand.NewSource(1))

	ApplyTransaction(stx, state, rng)

	acc := state[sender.Address()]
	assert.Equal(t, uint32(0), acc.Nonce)
	assert.Equal(t, uint32(90), acc.Balance)
}

func TestApplyTransactionCreditsNewReceiverWithFreshNonce(t *testing.T) {
	sender := newKeyPair(t)
	receiver := newKeyPair(t)
	stx := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 10, Nonce: 1}, sender)

	state := types.AccountState{sender.Address(): types.Account{Nonce: 0, Balance: 100}}
	rng := mathrand.New(mathrand.NewSource(1))

	ApplyTransaction(stx, state, rng)

	acc, ok := state.Get(receiver.Address())
	assert.True(t, ok)
	assert.Equal(t, uint32(10), acc.Balance)
}

// TestApplyTransactionsSkipsInvalidButAdmitsRest covers the
// "rejected transactions are skipped but not removed" ordering rule, and
// that no balance ever goes negative.
func TestApplyTransactionsSkipsInvalidButAdmitsRest(t *testing.T) {
	sender := newKeyPair(t)
	receiver := newKeyPair(t)

	parent := types.AccountState{sender.Address(): types.Account{Nonce: 0, Balance: 10}}

	ok := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 5, Nonce: 1}, sender)
	tooExpensive := types.NewSignedTransaction(types.Transaction{Receiver: receiver.Address(), Value: 9, Nonce: 1}, sender)

	rng := mathrand.New(mathrand.NewSource(1))
	state, admitted := ApplyTransactions(parent, []*types.SignedTransaction{ok, tooExpensive}, rng)

	assert.Len(t, admitted, 1)
	assert.Equal(t, ok.Hash(), admitted[0].Hash())

	senderAcc := state[sender.Address()]
	assert.True(t, senderAcc.Balance >= 0)
	assert.Equal(t, uint32(5), senderAcc.Balance)

	assert.NotContains(t, parent, receiver.Address(), "parent state must be untouched by ApplyTransactions")
}
