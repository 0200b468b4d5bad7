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
	"strconv"

	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/core/blockchain"
	"github.com/nanopow/nanopow/core/mempool"
	"github.com/nanopow/nanopow/core/types"
	"github.com/nanopow/nanopow/log"
)

var logger = log.NewModuleLogger(log.Network)

// recentSeenSize bounds the dedup cache below: large enough to absorb a
// burst of re-announcements for the same hash from several peers, small
// enough that memory use stays flat under sustained gossip.
const recentSeenSize = 4096

// Network owns the shared inbound queue and the pool of worker goroutines
// that drain it. One Network per node; the blockchain and mempool it
// holds are the same instances the miner and generator use, so every
// insert a worker makes is immediately visible to them.
type Network struct {
	inbound chan Inbound

	bc *blockchain.Blockchain
	mp *mempool.Mempool

	orphans *orphanBuffer

	// server is this node's own broadcast handle, used for every outbound
	// fan-out regardless of which peer (if any) triggered it - mirroring
	// the source's separate per-peer write vs. node-wide server.broadcast.
	server Broadcaster

	// seenBlocks and seenTxs short-circuit re-processing a hash this node
	// has already handled in the current LRU window; they are an
	// optimization over, not a replacement for, the blockchain/mempool
	// membership checks that follow.
	seenBlocks common.Cache
	seenTxs    common.Cache
}

// New builds a Network backed by bc and mp, with an inbound queue sized
// to queueSize. server is used to fan out every NewBlockHashes /
// NewTransactionHashes this node originates, whether gossiped in or
// self-produced.
func New(bc *blockchain.Blockchain, mp *mempool.Mempool, queueSize int, server Broadcaster) *Network {
	seenBlocks, err := common.NewCache(common.LRUConfig{CacheSize: recentSeenSize})
	if err != nil {
		panic(err)
	}
	seenTxs, err := common.NewCache(common.LRUConfig{CacheSize: recentSeenSize})
	if err != nil {
		panic(err)
	}
	return &Network{
		inbound:    make(chan Inbound, queueSize),
		bc:         bc,
		mp:         mp,
		orphans:    newOrphanBuffer(),
		server:     server,
		seenBlocks: seenBlocks,
		seenTxs:    seenTxs,
	}
}

// Broadcast fans msg out through the node's server handle. Exported so
// the node wiring can publish self-mined blocks and self-generated
// transactions the same way gossiped-in ones are relayed.
func (n *Network) Broadcast(msg Message) {
	n.server.Broadcast(msg)
}

// Inbound returns the channel callers (peer read loops) push received
// messages onto.
func (n *Network) Inbound() chan<- Inbound {
	return n.inbound
}

// Start launches numWorkers goroutines, each running workerLoop. Workers
// exit when the inbound channel is closed; there is no draining semantics
// beyond finishing the message already in hand.
func (n *Network) Start(numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		id := i
		go n.workerLoop(id)
	}
}

func (n *Network) workerLoop(id int) {
	for in := range n.inbound {
		n.handle(in)
	}
	logger.Warn("network worker exited", "worker", id)
}

func (n *Network) handle(in Inbound) {
	switch msg := in.Msg.(type) {
	case Ping:
		logger.Debug("ping", "nonce", msg.Nonce)
		in.From.Write(Pong{Nonce: strconv.FormatUint(msg.Nonce, 10)})

	case Pong:
		logger.Debug("pong", "nonce", msg.Nonce)

	case NewBlockHashes:
		n.handleNewBlockHashes(msg, in.From)

	case GetBlocks:
		n.handleGetBlocks(msg, in.From)

	case Blocks:
		n.handleBlocks(msg, in.From)

	case NewTransactionHashes:
		n.handleNewTransactionHashes(msg, in.From)

	case GetTransactions:
		n.handleGetTransactions(msg, in.From)

	case Transactions:
		n.handleTransactions(msg)

	default:
		logger.Warn("malformed or unrecognized message, dropping")
	}
}

func (n *Network) handleNewBlockHashes(msg NewBlockHashes, from Peer) {
	for _, h := range msg.Hashes {
		if n.bc.Contains(h) {
			continue
		}
		from.Write(GetBlocks{Hashes: []common.Hash{h}})
	}
}

func (n *Network) handleGetBlocks(msg GetBlocks, from Peer) {
	for _, h := range msg.Hashes {
		block, err := n.bc.Get(h)
		if err != nil {
			continue
		}
		from.Write(Blocks{Blocks: []*types.Block{block}})
	}
}

func (n *Network) handleBlocks(msg Blocks, from Peer) {
	for _, block := range msg.Blocks {
		n.handleOneBlock(block, from)
	}
}

// handleOneBlock runs the full validation and insertion pipeline for one
// inbound block, then drains any orphans that were waiting on it.
func (n *Network) handleOneBlock(block *types.Block, from Peer) {
	hash := block.Hash()
	if n.seenBlocks.Contains(hash) {
		return
	}

	for _, stx := range block.Body {
		if !stx.VerifySignature() {
			logger.Debug("dropping block with invalid transaction signature", "hash", hash.Hex())
			return
		}
	}

	if n.bc.Contains(hash) {
		return
	}

	if !block.SatisfiesPoW() {
		logger.Debug("dropping block failing PoW", "hash", hash.Hex())
		return
	}

	parent, err := n.bc.Get(block.Header.Parent)
	if err != nil {
		n.orphans.add(block)
		from.Write(GetBlocks{Hashes: []common.Hash{block.Header.Parent}})
		return
	}

	if block.Header.Difficulty != parent.Header.Difficulty {
		logger.Debug("dropping block with difficulty mismatch", "hash", hash.Hex())
		return
	}

	n.insertAndCascade(block)
}

// insertAndCascade inserts block and then repeatedly drains the
// node-global orphan buffer for any block that names the just-inserted
// hash as its parent, broadcasting NewBlockHashes after each insertion.
func (n *Network) insertAndCascade(block *types.Block) {
	hash, err := n.bc.Insert(block)
	if err != nil {
		logger.Error("failed to insert validated block", "err", err)
		return
	}
	n.seenBlocks.Add(hash, struct{}{})
	n.mp.Revalidate(block.State, blockchain.ValidateTransaction)
	n.server.Broadcast(NewBlockHashes{Hashes: []common.Hash{hash}})

	cur := hash
	curDifficulty := block.Header.Difficulty
	for {
		orphan, ok := n.orphans.take(cur)
		if !ok {
			return
		}
		if orphan.Header.Difficulty != curDifficulty {
			logger.Debug("dropping orphan with difficulty mismatch", "hash", orphan.Hash().Hex())
			return
		}
		orphanHash, err := n.bc.Insert(orphan)
		if err != nil {
			return
		}
		n.seenBlocks.Add(orphanHash, struct{}{})
		n.mp.Revalidate(orphan.State, blockchain.ValidateTransaction)
		n.server.Broadcast(NewBlockHashes{Hashes: []common.Hash{orphanHash}})
		cur = orphanHash
	}
}

func (n *Network) handleNewTransactionHashes(msg NewTransactionHashes, from Peer) {
	for _, h := range msg.Hashes {
		if n.mp.Contains(h) {
			continue
		}
		from.Write(GetTransactions{Hashes: []common.Hash{h}})
	}
}

func (n *Network) handleGetTransactions(msg GetTransactions, from Peer) {
	for _, h := range msg.Hashes {
		stx, ok := n.mp.Get(h)
		if !ok {
			continue
		}
		from.Write(Transactions{Transactions: []*types.SignedTransaction{stx}})
	}
}

func (n *Network) handleTransactions(msg Transactions) {
	for _, stx := range msg.Transactions {
		hash := stx.Hash()
		if n.seenTxs.Contains(hash) {
			continue
		}

		if !stx.VerifySignature() {
			logger.Debug("dropping transaction with invalid signature")
			continue
		}
		n.mp.Insert(stx)
		n.seenTxs.Add(hash, struct{}{})
		n.server.Broadcast(NewTransactionHashes{Hashes: []common.Hash{hash}})
	}
}
