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

// Peer is the handle the worker uses to talk back to whoever sent an
// inbound message, and to the rest of the swarm. Both methods are
// fire-and-forget: no acknowledgement or backpressure is surfaced to the
// caller. The peer-TCP framing and reconnect-on-failure behind this
// interface are external collaborators, not implemented in this package.
type Peer interface {
	// Write sends msg to this peer only.
	Write(msg Message)
	// Broadcast sends msg to every peer the node currently knows about,
	// including or excluding this one depending on the implementation's
	// topology - the worker never relies on which.
	Broadcast(msg Message)
}

// Inbound pairs a received Message with the Peer it arrived from, the
// unit of work each network worker pulls off the shared queue.
type Inbound struct {
	Msg  Message
	From Peer
}

// Broadcaster is the subset of Peer the Network uses to fan a message out
// to the whole swarm on the node's own behalf - after inserting a
// self-mined or gossiped-in block, and for transactions the local
// generator signs. It is satisfied by any Peer, but Network depends only
// on this narrower capability.
type Broadcaster interface {
	Broadcast(msg Message)
}
