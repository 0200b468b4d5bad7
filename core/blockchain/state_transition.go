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
	"math/rand"

	"github.com/nanopow/nanopow/core/types"
	"github.com/pkg/errors"
)

// Errors returned by ValidateTransaction. The miner and the network worker
// both drop the offending transaction on any of these rather than
// propagating them further; they're exported only so callers and tests can
// tell rejection reasons apart.
var (
	ErrBadSignature       = errors.New("state transition: signature does not verify")
	ErrUnknownSender      = errors.New("state transition: sender has no account")
	ErrInsufficientBalance = errors.New("state transition: balance less than value")
	ErrWrongNonce         = errors.New("state transition: nonce is not sender.nonce+1")
)

// ValidateTransaction checks the four predicates of the state transition
// against state without mutating it: signature validity, sender presence,
// sufficient balance, and the next-nonce rule. It returns the first
// violated predicate, in the order the consensus model lists them.
func ValidateTransaction(stx *types.SignedTransaction, state types.AccountState) error {
	if !stx.VerifySignature() {
		return ErrBadSignature
	}
	sender := stx.Sender()
	acc, ok := state.Get(sender)
	if !ok {
		return ErrUnknownSender
	}
	if acc.Balance < stx.Tx.Value {
		return ErrInsufficientBalance
	}
	if stx.Tx.Nonce != acc.Nonce+1 {
		return ErrWrongNonce
	}
	return nil
}

// ApplyTransaction mutates state in place per a single admitted
// transaction. Callers must have already called ValidateTransaction; this
// function does not re-check the predicates.
//
// The sender's nonce is deliberately left unchanged after the debit: the
// source this core is modeled on does the same, relying on
// nonce == current_nonce+1 to let the generator and validator converge on
// one canonical next transaction per sender. This is not a bug fix
// opportunity here - it is load-bearing behavior, preserved as-is.
func ApplyTransaction(stx *types.SignedTransaction, state types.AccountState, rng *rand.Rand) {
	sender := stx.Sender()
	senderAcc := state[sender]
	senderAcc.Balance -= stx.Tx.Value
	state[sender] = senderAcc

	receiver := stx.Tx.Receiver
	if recvAcc, ok := state.Get(receiver); ok {
		recvAcc.Balance += stx.Tx.Value
		state[receiver] = recvAcc
	} else {
		state[receiver] = types.Account{Nonce: rng.Uint32(), Balance: stx.Tx.Value}
	}
}

// ApplyTransactions starts from a clone of parent and applies txs in
// order, skipping (but not otherwise reporting) any that fail
// ValidateTransaction. It returns the resulting post-state and the subset
// of txs that were actually admitted, in the order they were admitted -
// the miner needs that subset to know which mempool entries to remove.
func ApplyTransactions(parent types.AccountState, txs []*types.SignedTransaction, rng *rand.Rand) (types.AccountState, []*types.SignedTransaction) {
	state := parent.Clone()
	admitted := make([]*types.SignedTransaction, 0, len(txs))
	for _, stx := range txs {
		if err := ValidateTransaction(stx, state); err != nil {
			continue
		}
		ApplyTransaction(stx, state, rng)
		admitted = append(admitted, stx)
	}
	return state, admitted
}
