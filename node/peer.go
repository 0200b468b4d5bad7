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

package node

import (
	"bufio"
	"encoding/binary"
	"encoding/gob"
	"io"
	"net"
	"sync"
	"time"

	"github.com/nanopow/nanopow/log"
	"github.com/nanopow/nanopow/p2p"
)

// wireEnvelope is what actually crosses the socket: a self-describing gob
// encoding of exactly one populated field. p2p.Message is an interface, so
// gob cannot encode it directly without registering every concrete type
// against the envelope instead - simpler and just as sufficient here,
// since only message shape matters to the worker, never the bytes.
type wireEnvelope struct {
	Kind p2p.MessageKind

	Ping                 *p2p.Ping
	Pong                 *p2p.Pong
	NewBlockHashes       *p2p.NewBlockHashes
	GetBlocks            *p2p.GetBlocks
	Blocks               *p2p.Blocks
	NewTransactionHashes *p2p.NewTransactionHashes
	GetTransactions      *p2p.GetTransactions
	Transactions         *p2p.Transactions
}

func encodeEnvelope(msg p2p.Message) wireEnvelope {
	env := wireEnvelope{Kind: msg.Kind()}
	switch m := msg.(type) {
	case p2p.Ping:
		env.Ping = &m
	case p2p.Pong:
		env.Pong = &m
	case p2p.NewBlockHashes:
		env.NewBlockHashes = &m
	case p2p.GetBlocks:
		env.GetBlocks = &m
	case p2p.Blocks:
		env.Blocks = &m
	case p2p.NewTransactionHashes:
		env.NewTransactionHashes = &m
	case p2p.GetTransactions:
		env.GetTransactions = &m
	case p2p.Transactions:
		env.Transactions = &m
	}
	return env
}

func (env wireEnvelope) message() p2p.Message {
	switch env.Kind {
	case p2p.KindPing:
		return *env.Ping
	case p2p.KindPong:
		return *env.Pong
	case p2p.KindNewBlockHashes:
		return *env.NewBlockHashes
	case p2p.KindGetBlocks:
		return *env.GetBlocks
	case p2p.KindBlocks:
		return *env.Blocks
	case p2p.KindNewTransactionHashes:
		return *env.NewTransactionHashes
	case p2p.KindGetTransactions:
		return *env.GetTransactions
	case p2p.KindTransactions:
		return *env.Transactions
	default:
		return nil
	}
}

// connPeer is the length-prefixed gob Peer implementation: four bytes of
// big-endian length, then the gob-encoded envelope. It implements
// p2p.Peer and p2p.Broadcaster.
type connPeer struct {
	conn net.Conn
	w    *bufio.Writer
	mu   sync.Mutex

	peers *peerSet
}

func newConnPeer(conn net.Conn, peers *peerSet) *connPeer {
	return &connPeer{conn: conn, w: bufio.NewWriter(conn), peers: peers}
}

// Write sends msg to this peer only, dropping the connection on any
// framing error - fire-and-forget, no surfaced backpressure.
func (p *connPeer) Write(msg p2p.Message) {
	env := encodeEnvelope(msg)

	var body []byte
	var err error
	if body, err = gobEncode(env); err != nil {
		peerLogger.Error("failed to encode outbound message", "err", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(body)))
	if _, err := p.w.Write(length[:]); err != nil {
		peerLogger.Warn("peer write failed, dropping connection", "err", err)
		p.peers.remove(p)
		return
	}
	if _, err := p.w.Write(body); err != nil {
		peerLogger.Warn("peer write failed, dropping connection", "err", err)
		p.peers.remove(p)
		return
	}
	if err := p.w.Flush(); err != nil {
		peerLogger.Warn("peer flush failed, dropping connection", "err", err)
		p.peers.remove(p)
	}
}

// Broadcast fans msg out to every peer this node currently knows about.
func (p *connPeer) Broadcast(msg p2p.Message) {
	p.peers.Broadcast(msg)
}

func gobEncode(env wireEnvelope) ([]byte, error) {
	var buf writeBuffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, err
	}
	return buf.data, nil
}

// writeBuffer is the minimal io.Writer gob needs; avoids pulling in
// bytes.Buffer just to satisfy one method.
type writeBuffer struct{ data []byte }

func (b *writeBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

var peerLogger = log.NewModuleLogger(log.Network)

// readLoop blocks reading length-prefixed envelopes off conn and pushes
// each decoded message onto inbound, paired with peer as its Peer handle.
// It returns when the connection is closed or framing fails.
func readLoop(conn net.Conn, peer *connPeer, inbound chan<- p2p.Inbound) {
	r := bufio.NewReader(conn)
	for {
		var length [4]byte
		if _, err := io.ReadFull(r, length[:]); err != nil {
			peerLogger.Debug("peer connection closed", "err", err)
			return
		}
		n := binary.BigEndian.Uint32(length[:])
		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			peerLogger.Debug("peer connection closed mid-message", "err", err)
			return
		}

		var env wireEnvelope
		if err := gob.NewDecoder(&readBuffer{data: body}).Decode(&env); err != nil {
			peerLogger.Debug("malformed message, dropping", "err", err)
			continue
		}
		msg := env.message()
		if msg == nil {
			continue
		}
		inbound <- p2p.Inbound{Msg: msg, From: peer}
	}
}

type readBuffer struct {
	data []byte
	pos  int
}

func (b *readBuffer) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

// peerSet tracks every currently-connected peer and implements
// p2p.Broadcaster by fanning a message out to all of them.
type peerSet struct {
	mu    sync.Mutex
	peers map[*connPeer]struct{}
}

func newPeerSet() *peerSet {
	return &peerSet{peers: make(map[*connPeer]struct{})}
}

func (s *peerSet) add(p *connPeer) {
	s.mu.Lock()
	s.peers[p] = struct{}{}
	s.mu.Unlock()
}

func (s *peerSet) remove(p *connPeer) {
	s.mu.Lock()
	delete(s.peers, p)
	s.mu.Unlock()
	_ = p.conn.Close()
}

// Broadcast implements p2p.Broadcaster directly, so a peerSet can be
// passed to p2p.New as the node's server handle.
func (s *peerSet) Broadcast(msg p2p.Message) {
	s.mu.Lock()
	targets := make([]*connPeer, 0, len(s.peers))
	for p := range s.peers {
		targets = append(targets, p)
	}
	s.mu.Unlock()

	for _, p := range targets {
		p.Write(msg)
	}
}

// dialWithRetry connects to addr, retrying every second, unbounded, until
// it succeeds - the only retry policy this core carries, and only for
// outbound connect at startup.
func dialWithRetry(addr string) net.Conn {
	for {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			return conn
		}
		peerLogger.Debug("dial failed, retrying", "addr", addr, "err", err)
		time.Sleep(time.Second)
	}
}
