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

// Package node assembles the five core subsystems - blockchain, mempool,
// miner, transaction generator and network worker - into one running
// process, and exposes the lifecycle and configuration surface cmd/nanopow
// drives.
package node

// Config holds every option recognized at process start. Parsing it from
// flags or a file is cmd/nanopow's job; this package only consumes the
// resulting struct.
type Config struct {
	// P2PAddr is this node's own listen address, host:port.
	P2PAddr string
	// APIAddr is the control API's listen address, host:port.
	APIAddr string
	// KnownPeers are outbound peers to dial at startup, host:port each.
	// A failed dial is retried every second, indefinitely.
	KnownPeers []string
	// P2PWorkers sizes the inbound network worker pool.
	P2PWorkers int
	// Verbosity is the counted -v log level.
	Verbosity int
}
