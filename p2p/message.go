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

// Package p2p implements the gossip state machine: message shapes, the
// Peer handle contract, and the worker pool that drains inbound messages
// and drives the block/transaction dissemination protocol.
//
// The wire codec itself - how a Message is framed onto a TCP stream - is
// an external collaborator's concern and is not implemented here; only
// message shape matters to the worker logic in this package.
package p2p

import (
	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/core/types"
)

// MessageKind tags the eight message shapes the protocol exchanges.
type MessageKind int

const (
	KindPing MessageKind = iota
	KindPong
	KindNewBlockHashes
	KindGetBlocks
	KindBlocks
	KindNewTransactionHashes
	KindGetTransactions
	KindTransactions
)

// Message is satisfied by every concrete message type below. The codec
// that serializes a Message onto the wire is out of scope here; only
// Kind() and the payload accessors matter to the worker.
type Message interface {
	Kind() MessageKind
}

type Ping struct{ Nonce uint64 }

func (Ping) Kind() MessageKind { return KindPing }

type Pong struct{ Nonce string }

func (Pong) Kind() MessageKind { return KindPong }

type NewBlockHashes struct{ Hashes []common.Hash }

func (NewBlockHashes) Kind() MessageKind { return KindNewBlockHashes }

type GetBlocks struct{ Hashes []common.Hash }

func (GetBlocks) Kind() MessageKind { return KindGetBlocks }

type Blocks struct{ Blocks []*types.Block }

func (Blocks) Kind() MessageKind { return KindBlocks }

type NewTransactionHashes struct{ Hashes []common.Hash }

func (NewTransactionHashes) Kind() MessageKind { return KindNewTransactionHashes }

type GetTransactions struct{ Hashes []common.Hash }

func (GetTransactions) Kind() MessageKind { return KindGetTransactions }

type Transactions struct{ Transactions []*types.SignedTransaction }

func (Transactions) Kind() MessageKind { return KindTransactions }
