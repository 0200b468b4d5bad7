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

// Header is the proof-of-work-sealed part of a Block. A block's identity,
// hash(b), is the SHA-256 of the header's canonical encoding - the body
// enters the hash only through MerkleRoot, and the state not at all.
type Header struct {
	Parent      common.Hash `json:"parent"`
	Nonce       uint32      `json:"nonce"`
	Difficulty  common.Hash `json:"difficulty"`
	TimestampMs uint64      `json:"timestamp"`
	MerkleRoot  common.Hash `json:"merkle_root"`
}

// Hash is the block hash used for the PoW threshold test and for chaining
// blocks by parent.
func (h *Header) Hash() common.Hash {
	return common.CanonicalHash(h)
}

// Block is immutable once constructed: State is the post-state of applying
// Body to the parent's state (see core/blockchain.ApplyTransactions), and
// nothing in this package ever mutates a Block's fields after it is built.
type Block struct {
	Header Header               `json:"header"`
	Body   []*SignedTransaction `json:"body"`
	State  AccountState         `json:"state"`
}

// Hash is the block's identity, i.e. the hash of its header.
func (b *Block) Hash() common.Hash {
	return b.Header.Hash()
}

// SatisfiesPoW reports whether the block's hash is at or below its
// declared difficulty, the sole proof-of-work check in this core.
func (b *Block) SatisfiesPoW() bool {
	return b.Hash().LessOrEqual(b.Header.Difficulty)
}

// NewBlock assembles a block from its parts. It does not compute the
// Merkle root or run proof-of-work - callers (the miner, or the network
// worker validating an inbound block) are responsible for constructing the
// header before calling this.
func NewBlock(header Header, body []*SignedTransaction, state AccountState) *Block {
	if body == nil {
		body = []*SignedTransaction{}
	}
	return &Block{Header: header, Body: body, State: state}
}
