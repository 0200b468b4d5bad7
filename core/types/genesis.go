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
	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/merkle"
	"github.com/nanopow/nanopow/params"
)

// NewGenesisBlock builds the sole block a node creates for itself at
// startup: an empty body, parent = the zero hash, timestamp = 0, and a
// state holding exactly one coinbase credit to coinbase of
// params.InitialBalance at nonce params.GenesisNonceStart.
//
// The credit is expressed directly in the state snapshot rather than as a
// SignedTransaction in the body: a real entry would need a signature
// verifiable against some sender account, and genesis has no predecessor
// state to debit from. The empty body keeps the Merkle root well-defined
// (the zero hash, by merkle.New's convention for zero leaves).
func NewGenesisBlock(coinbase common.Address) *Block {
	state := AccountState{
		coinbase: Account{Nonce: params.GenesisNonceStart, Balance: params.InitialBalance},
	}
	header := Header{
		Parent:      common.ZeroHash,
		Nonce:       0,
		Difficulty:  params.DefaultDifficulty,
		TimestampMs: 0,
		MerkleRoot:  merkle.New(nil).Root(),
	}
	return NewBlock(header, nil, state)
}
