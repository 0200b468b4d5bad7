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

// Package params holds the node-wide constants: mining, mempool draining,
// the genesis balance and the default PoW difficulty.
package params

import "github.com/nanopow/nanopow/common"

const (
	// MaxBlockTx is the most signed transactions the miner will admit into
	// a single block per PoW trial.
	MaxBlockTx = 50

	// InitialBalance is the coinbase credit given to a node's own address
	// in its genesis block.
	InitialBalance = 1_000_000_000

	// GenesisNonceStart is the starting nonce recorded for the genesis
	// coinbase account.
	GenesisNonceStart = 0

	// NewAccountProbability is the per-tick chance the transaction
	// generator mints a brand new local key pair.
	NewAccountProbability = 0.1

	// InboundQueueSize bounds the shared inbound message queue the
	// network workers drain from.
	InboundQueueSize = 10000

	// DefaultP2PWorkers is the default size of the inbound worker pool.
	DefaultP2PWorkers = 4
)

// DefaultDifficulty is the PoW threshold new nodes use for their genesis
// block and inherit from there on, since this core never retargets
// difficulty. 0x0000ffff... gives roughly a 1-in-65536 chance per trial on
// uniformly random header hashes.
var DefaultDifficulty = common.Hash{
	0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// WellKnownPortSeeds maps the first few conventional listen ports to the
// deterministic 32-byte seed used to derive that node's Ed25519 identity,
// so a cluster of local nodes gets stable, reproducible addresses.
var WellKnownPortSeeds = map[int]byte{
	7000: 0,
	7001: 1,
	7002: 2,
}

// SeedForPort returns the 32-byte seed for a listen port: the well-known
// seed byte in seed[0], or, when it is not one of the three well-known
// ports, the port's low byte in seed[0] and its high byte in seed[1], so that
// every node still gets a stable, distinct identity.
func SeedForPort(port int) [32]byte {
	var seed [32]byte
	if b, ok := WellKnownPortSeeds[port]; ok {
		seed[0] = b
	} else {
		seed[0] = byte(port)
		seed[1] = byte(port >> 8)
	}
	return seed
}
