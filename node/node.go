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
	"net"
	"strconv"

	"github.com/nanopow/nanopow/api"
	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/core/blockchain"
	"github.com/nanopow/nanopow/core/mempool"
	"github.com/nanopow/nanopow/crypto"
	"github.com/nanopow/nanopow/log"
	"github.com/nanopow/nanopow/miner"
	"github.com/nanopow/nanopow/p2p"
	"github.com/nanopow/nanopow/params"
	"github.com/nanopow/nanopow/txgen"
)

var logger = log.NewModuleLogger(log.Node)

// Node owns every long-lived piece described in the concurrency model:
// the blockchain and mempool (shared state), the miner, the generator,
// the network worker pool, and the peer listener/dialer goroutines.
type Node struct {
	cfg Config

	Blockchain *blockchain.Blockchain
	Mempool    *mempool.Mempool
	Miner      *miner.Miner
	Generator  *txgen.Generator
	Network    *p2p.Network
	API        *api.Server

	identity *crypto.KeyPair
	peers    *peerSet
	listener net.Listener
}

// New builds a Node from cfg. The node's Ed25519 identity is derived from
// its listen port per the node-key seeding rule; genesis credits that
// identity's own address.
func New(cfg Config) (*Node, error) {
	_, port, err := splitHostPort(cfg.P2PAddr)
	if err != nil {
		return nil, err
	}
	seed := params.SeedForPort(port)
	identity := crypto.KeyPairFromSeed(seed)

	bc := blockchain.New(identity.Address())
	mp := mempool.New()

	peers := newPeerSet()
	workers := cfg.P2PWorkers
	if workers <= 0 {
		workers = params.DefaultP2PWorkers
	}
	network := p2p.New(bc, mp, params.InboundQueueSize, peers)

	m := miner.New(bc, mp)
	g := txgen.New(bc, mp, identity)

	n := &Node{
		cfg:        cfg,
		Blockchain: bc,
		Mempool:    mp,
		Miner:      m,
		Generator:  g,
		Network:    network,
		API:        api.New(m, g, bc),
		identity:   identity,
		peers:      peers,
	}

	n.Network.Start(workers)
	return n, nil
}

// Listen starts accepting inbound peer connections on cfg.P2PAddr and
// dialing every configured known peer, then launches the miner and
// generator goroutines, and forwards their self-produced output onto the
// network for broadcast.
func (n *Node) Listen() error {
	ln, err := net.Listen("tcp", n.cfg.P2PAddr)
	if err != nil {
		return err
	}
	n.listener = ln
	go n.acceptLoop()

	for _, addr := range n.cfg.KnownPeers {
		go n.dialPeer(addr)
	}

	go n.Miner.Run()
	go n.Generator.Generate()
	go n.forwardMinedBlocks()
	go n.forwardGeneratedTransactions()

	if n.cfg.APIAddr != "" {
		go func() {
			if err := n.API.ListenAndServe(n.cfg.APIAddr); err != nil {
				logger.Error("control API stopped", "err", err)
			}
		}()
	}

	logger.Info("node listening", "addr", n.cfg.P2PAddr, "identity", n.identity.Address().Hex())
	return nil
}

func (n *Node) acceptLoop() {
	for {
		conn, err := n.listener.Accept()
		if err != nil {
			logger.Warn("listener closed", "err", err)
			return
		}
		n.adoptConn(conn)
	}
}

func (n *Node) dialPeer(addr string) {
	conn := dialWithRetry(addr)
	n.adoptConn(conn)
}

func (n *Node) adoptConn(conn net.Conn) {
	peer := newConnPeer(conn, n.peers)
	n.peers.add(peer)
	go readLoop(conn, peer, n.Network.Inbound())
}

// forwardMinedBlocks republishes every block the miner finishes as a
// NewBlockHashes announcement, exactly as the network worker would after
// inserting a gossiped-in one.
func (n *Node) forwardMinedBlocks() {
	for block := range n.Miner.FinishedBlocks() {
		n.Network.Broadcast(p2p.NewBlockHashes{Hashes: []common.Hash{block.Hash()}})
	}
}

func (n *Node) forwardGeneratedTransactions() {
	for stx := range n.Generator.FinishedTransactions() {
		n.Network.Broadcast(p2p.NewTransactionHashes{Hashes: []common.Hash{stx.Hash()}})
	}
}

// Shutdown tells the miner and generator to exit and closes the listener.
// Network workers exit on their own once the inbound channel closes,
// which this node never does today - matching the source's no-draining
// shutdown semantics for the network layer.
func (n *Node) Shutdown() {
	n.Miner.Exit()
	n.Generator.Exit()
	if n.listener != nil {
		_ = n.listener.Close()
	}
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}
