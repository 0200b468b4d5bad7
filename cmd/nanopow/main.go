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

// Command nanopow is the node's process entry point: CLI flag parsing,
// the one responsibility this core treats as an external collaborator
// rather than part of its consensus surface.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nanopow/nanopow/log"
	"github.com/nanopow/nanopow/node"
	"github.com/nanopow/nanopow/params"
	"gopkg.in/urfave/cli.v1"
)

var (
	p2pAddrFlag = cli.StringFlag{
		Name:  "p2p_addr",
		Usage: "host:port this node listens for peer connections on",
		Value: "0.0.0.0:7000",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api_addr",
		Usage: "host:port the control API listens on",
		Value: "127.0.0.1:7100",
	}
	knownPeerFlag = cli.StringSliceFlag{
		Name:  "known_peer",
		Usage: "host:port of a peer to dial at startup; repeatable",
	}
	p2pWorkersFlag = cli.IntFlag{
		Name:  "p2p_workers",
		Usage: "size of the inbound network worker pool",
		Value: params.DefaultP2PWorkers,
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "increase log verbosity; repeat for more (-v, -v -v, ...)",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "nanopow"
	app.Usage = "a small proof-of-work blockchain node"
	app.Flags = []cli.Flag{
		p2pAddrFlag,
		apiAddrFlag,
		knownPeerFlag,
		p2pWorkersFlag,
		verboseFlag,
	}
	app.Action = run
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	verbosity := countVerbose(os.Args)
	log.SetVerbosity(verbosity)

	cfg := node.Config{
		P2PAddr:    ctx.String(p2pAddrFlag.Name),
		APIAddr:    ctx.String(apiAddrFlag.Name),
		KnownPeers: ctx.StringSlice(knownPeerFlag.Name),
		P2PWorkers: ctx.Int(p2pWorkersFlag.Name),
		Verbosity:  verbosity,
	}

	n, err := node.New(cfg)
	if err != nil {
		return err
	}
	if err := n.Listen(); err != nil {
		return err
	}

	waitForSignal()
	n.Shutdown()
	return nil
}

// countVerbose counts how many times -verbose/-v/--verbose/--v appear in
// args, giving the counted verbosity flag named in the external
// interfaces without needing a CLI library that supports counted flags
// natively.
func countVerbose(args []string) int {
	count := 0
	for _, a := range args {
		switch strings.TrimLeft(a, "-") {
		case "v", "verbose":
			count++
		}
	}
	return count
}

func waitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
