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

import "github.com/nanopow/nanopow/common"

// Account is one entry of an AccountState: the account's current nonce and
// its spendable balance.
type Account struct {
	Nonce   uint32 `json:"nonce"`
	Balance uint32 `json:"balance"`
}

// AccountState is the per-block account snapshot. Every Block stores one of
// its own, so switching chain tips never requires replaying history, at the
// cost of one full account map per block.
type AccountState map[common.Address]Account

// Clone returns an independent copy of s. The miner's post-state build
// (core/blockchain.ApplyTransactions) mutates a working copy of the
// parent's state without touching the immutable block it came from.
func (s AccountState) Clone() AccountState {
	out := make(AccountState, len(s))
	for addr, acc := range s {
		out[addr] = acc
	}
	return out
}

func (s AccountState) Get(addr common.Address) (Account, bool) {
	acc, ok := s[addr]
	return acc, ok
}
