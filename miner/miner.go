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

// Package miner implements the proof-of-work block producer: a single
// long-lived goroutine that drains the mempool, runs PoW trials against
// the current tip, and publishes finished blocks.
package miner

import (
	"math/rand"
	"time"

	"github.com/nanopow/nanopow/core/blockchain"
	"github.com/nanopow/nanopow/core/mempool"
	"github.com/nanopow/nanopow/core/types"
	"github.com/nanopow/nanopow/log"
	"github.com/nanopow/nanopow/merkle"
	"github.com/nanopow/nanopow/params"
)

var logger = log.NewModuleLogger(log.Miner)

type signalKind int

const (
	signalStart signalKind = iota
	signalUpdate
	signalExit
)

// controlSignal is the single message type accepted on the miner's control
// channel, mirroring the {Start(λ), Update, Exit} signals.
type controlSignal struct {
	kind   signalKind
	lambda time.Duration
}

type operatingState int

const (
	statePaused operatingState = iota
	stateRun
	stateShutDown
)

// Miner runs the PoW loop. Construct with New, then call Run in its own
// goroutine; control it from any other goroutine via Start/Update/Exit.
type Miner struct {
	controlCh chan controlSignal
	finishedCh chan *types.Block

	bc *blockchain.Blockchain
	mp *mempool.Mempool

	rng *rand.Rand
}

// New builds a Miner wired to bc and mp. It starts Paused; call Start to
// begin mining.
func New(bc *blockchain.Blockchain, mp *mempool.Mempool) *Miner {
	return &Miner{
		controlCh:  make(chan controlSignal, 1),
		finishedCh: make(chan *types.Block, 16),
		bc:         bc,
		mp:         mp,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FinishedBlocks returns the channel on which newly mined blocks are
// published, one per successful PoW trial.
func (m *Miner) FinishedBlocks() <-chan *types.Block {
	return m.finishedCh
}

// Start transitions the miner into continuous mining with inter-trial
// sleep lambda (0 disables the sleep).
func (m *Miner) Start(lambda time.Duration) {
	m.controlCh <- controlSignal{kind: signalStart, lambda: lambda}
}

// Update nudges the miner to reread the tip on its next iteration. In the
// current loop structure the tip is always reread each trial, so this is
// mostly meaningful while Paused does not apply; it exists to keep the
// control surface symmetric with the source model.
func (m *Miner) Update() {
	m.controlCh <- controlSignal{kind: signalUpdate}
}

// Exit tells the miner to shut down on its next loop iteration. Run
// returns soon after.
func (m *Miner) Exit() {
	m.controlCh <- controlSignal{kind: signalExit}
}

// Run is the miner's main loop. It never returns except on Exit or a
// disconnected control channel, so callers run it in its own goroutine.
func (m *Miner) Run() {
	state := statePaused
	var lambda time.Duration

	logger.Info("miner initialized into paused mode")

	for {
		switch state {
		case statePaused:
			sig, ok := <-m.controlCh
			if !ok {
				logger.Error("miner control channel disconnected while paused")
				return
			}
			state, lambda = m.applySignal(sig, state, lambda)
			continue

		case stateShutDown:
			return

		default: // stateRun
			select {
			case sig, ok := <-m.controlCh:
				if !ok {
					logger.Error("miner control channel disconnected")
					return
				}
				state, lambda = m.applySignal(sig, state, lambda)
			default:
			}
		}

		if state == stateShutDown {
			return
		}
		if state != stateRun {
			continue
		}

		m.tryOneTrial()

		if lambda > 0 {
			time.Sleep(lambda)
		}
	}
}

func (m *Miner) applySignal(sig controlSignal, state operatingState, lambda time.Duration) (operatingState, time.Duration) {
	switch sig.kind {
	case signalExit:
		logger.Info("miner shutting down")
		return stateShutDown, lambda
	case signalStart:
		logger.Info("miner starting in continuous mode", "lambda", sig.lambda)
		return stateRun, sig.lambda
	case signalUpdate:
		return state, lambda
	default:
		return state, lambda
	}
}

// tryOneTrial runs exactly one PoW trial: build a candidate header over the
// current tip, and either assemble+publish a block or discard and let the
// caller retry with a fresh nonce on the next iteration.
func (m *Miner) tryOneTrial() {
	parentHash := m.bc.Tip()
	parentBlock, err := m.bc.Get(parentHash)
	if err != nil {
		logger.Error("tip block missing from store", "hash", parentHash.Hex())
		return
	}
	difficulty := parentBlock.Header.Difficulty

	mempoolTxs := m.mp.Snapshot()
	admissible := mempoolTxs
	if len(admissible) > params.MaxBlockTx {
		admissible = admissible[:params.MaxBlockTx]
	}

	leaves := make([]merkle.Hashable, len(admissible))
	for i, stx := range admissible {
		leaves[i] = merkle.LeafHash(stx.Hash())
	}
	merkleRoot := merkle.New(leaves).Root()

	header := types.Header{
		Parent:      parentHash,
		Nonce:       m.rng.Uint32(),
		Difficulty:  difficulty,
		TimestampMs: uint64(time.Now().UnixMilli()),
		MerkleRoot:  merkleRoot,
	}

	candidateHash := header.Hash()
	if !candidateHash.LessOrEqual(difficulty) {
		return
	}

	postState, admitted := blockchain.ApplyTransactions(parentBlock.State, admissible, m.rng)

	// The block's Body must be admissible, not admitted: MerkleRoot above
	// was computed - and sealed into the hashed header - over every tx in
	// admissible, so the body has to match it exactly or no inclusion
	// proof for any tx would verify. admitted only pares down who gets
	// their balance moved in postState.
	block := types.NewBlock(header, admissible, postState)

	for _, stx := range admitted {
		m.mp.Remove(stx.Hash())
	}

	hash, err := m.bc.Insert(block)
	if err != nil {
		logger.Error("failed to insert self-mined block", "err", err)
		return
	}
	logger.Info("mined block", "hash", hash.Hex(), "txs", len(admitted))

	m.mp.Revalidate(postState, blockchain.ValidateTransaction)

	select {
	case m.finishedCh <- block:
	default:
		logger.Warn("finished-block channel full, dropping notification", "hash", hash.Hex())
	}
}
