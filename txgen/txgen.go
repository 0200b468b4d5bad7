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

// Package txgen continuously synthesizes valid transactions from a growing
// set of locally-held key pairs, driven by the blockchain's current tip
// state. Its output is a hint: the miner re-validates every predicate, so
// a buggy or adversarial generator can only waste mempool space, never
// corrupt the chain.
package txgen

import (
	"math/rand"
	"time"

	"github.com/nanopow/nanopow/core/blockchain"
	"github.com/nanopow/nanopow/core/mempool"
	"github.com/nanopow/nanopow/core/types"
	"github.com/nanopow/nanopow/crypto"
	"github.com/nanopow/nanopow/log"
	"github.com/nanopow/nanopow/params"
)

var logger = log.NewModuleLogger(log.TxGen)

const newAccountProbability = params.NewAccountProbability

type signalKind int

const (
	signalStart signalKind = iota
	signalUpdate
	signalExit
)

type controlSignal struct {
	kind  signalKind
	theta time.Duration
}

type operatingState int

const (
	statePaused operatingState = iota
	stateRun
	stateShutDown
)

// Generator is the transaction-generator actor. Construct with New and run
// Generate in its own goroutine; drive it with Start/Update/Exit from
// elsewhere, same control surface as miner.Miner.
type Generator struct {
	controlCh chan controlSignal
	finishedCh chan *types.SignedTransaction

	bc *blockchain.Blockchain
	mp *mempool.Mempool

	keys []*crypto.KeyPair
	rng  *rand.Rand
}

// New builds a Generator seeded with one key pair (the node's own
// identity); it grows its local key-pair list over time as it mints new
// accounts.
func New(bc *blockchain.Blockchain, mp *mempool.Mempool, seed *crypto.KeyPair) *Generator {
	return &Generator{
		controlCh:  make(chan controlSignal, 1),
		finishedCh: make(chan *types.SignedTransaction, 64),
		bc:         bc,
		mp:         mp,
		keys:       []*crypto.KeyPair{seed},
		rng:        rand.New(rand.NewSource(time.Now().UnixNano() + 1)),
	}
}

// FinishedTransactions returns the channel each newly signed and
// mempool-inserted transaction is published on.
func (g *Generator) FinishedTransactions() <-chan *types.SignedTransaction {
	return g.finishedCh
}

// Start transitions the generator into continuous generation with
// inter-tick sleep theta (0 disables the sleep).
func (g *Generator) Start(theta time.Duration) {
	g.controlCh <- controlSignal{kind: signalStart, theta: theta}
}

// Update nudges the generator, kept symmetric with Miner.Update.
func (g *Generator) Update() {
	g.controlCh <- controlSignal{kind: signalUpdate}
}

// Exit tells the generator to shut down on its next loop iteration.
func (g *Generator) Exit() {
	g.controlCh <- controlSignal{kind: signalExit}
}

// Generate is the generator's main loop.
func (g *Generator) Generate() {
	state := statePaused
	var theta time.Duration

	logger.Info("transaction generator initialized into paused mode")

	for {
		switch state {
		case statePaused:
			sig, ok := <-g.controlCh
			if !ok {
				logger.Error("generator control channel disconnected while paused")
				return
			}
			state, theta = g.applySignal(sig, state, theta)
			continue

		case stateShutDown:
			return

		default:
			select {
			case sig, ok := <-g.controlCh:
				if !ok {
					logger.Error("generator control channel disconnected")
					return
				}
				state, theta = g.applySignal(sig, state, theta)
			default:
			}
		}

		if state == stateShutDown {
			return
		}
		if state != stateRun {
			continue
		}

		g.tick()

		if theta > 0 {
			time.Sleep(theta)
		}
	}
}

func (g *Generator) applySignal(sig controlSignal, state operatingState, theta time.Duration) (operatingState, time.Duration) {
	switch sig.kind {
	case signalExit:
		logger.Info("generator shutting down")
		return stateShutDown, theta
	case signalStart:
		logger.Info("generator starting in continuous mode", "theta", sig.theta)
		return stateRun, sig.theta
	default:
		return state, theta
	}
}

// tick runs one generation step: maybe mint a new account, then emit one
// transaction per locally-held key pair that the tip's state already
// recognizes.
func (g *Generator) tick() {
	if g.rng.Float64() < newAccountProbability {
		kp, err := crypto.GenerateKeyPair(g.rng)
		if err != nil {
			logger.Error("failed to generate new local account", "err", err)
		} else {
			g.keys = append(g.keys, kp)
			logger.Debug("minted new local account", "address", kp.Address().Hex())
		}
	}

	tip := g.bc.TipBlock()
	if tip == nil {
		return
	}
	tipState := tip.State

	for _, kp := range g.keys {
		sender := kp.Address()
		acc, ok := tipState.Get(sender)
		if !ok {
			continue
		}

		value := g.chooseValue(acc.Balance)
		receiver := g.keys[g.rng.Intn(len(g.keys))].Address()

		tx := types.Transaction{
			Receiver: receiver,
			Value:    value,
			Nonce:    acc.Nonce + 1,
		}
		stx := types.NewSignedTransaction(tx, kp)

		g.mp.Insert(stx)
		select {
		case g.finishedCh <- stx:
		default:
			logger.Warn("finished-transaction channel full, dropping notification")
		}
	}
}

// chooseValue implements the three-tier value rule: nothing to spend from
// a near-empty balance, a cautious slice of a comfortable one, and up to
// one less than the whole thing when modest.
func (g *Generator) chooseValue(balance uint32) uint32 {
	switch {
	case balance <= 1:
		return 0
	case balance > 20:
		return uint32(1 + g.rng.Intn(int(balance/10-1)))
	default:
		return uint32(1 + g.rng.Intn(int(balance-1)))
	}
}
