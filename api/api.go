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

// Package api exposes the JSON control surface named in the node's
// external interfaces: start/stop the miner with a lambda, start/stop the
// generator with a theta, and query the current tip. It is a thin
// external collaborator over the node's public fields - no consensus
// logic lives here.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/nanopow/nanopow/core/blockchain"
	"github.com/nanopow/nanopow/log"
	"github.com/nanopow/nanopow/miner"
	"github.com/nanopow/nanopow/txgen"
)

var logger = log.NewModuleLogger(log.API)

// Server wires the control API's routes against a miner, a generator, and
// the node's blockchain.
type Server struct {
	Miner      *miner.Miner
	Generator  *txgen.Generator
	Blockchain *blockchain.Blockchain

	router *httprouter.Router
}

// New builds a Server ready to ListenAndServe.
func New(m *miner.Miner, g *txgen.Generator, bc *blockchain.Blockchain) *Server {
	s := &Server{Miner: m, Generator: g, Blockchain: bc}
	s.router = httprouter.New()
	s.router.POST("/miner/start", s.handleMinerStart)
	s.router.POST("/miner/stop", s.handleMinerStop)
	s.router.POST("/generator/start", s.handleGeneratorStart)
	s.router.POST("/generator/stop", s.handleGeneratorStop)
	s.router.GET("/tip", s.handleTip)
	return s
}

// ListenAndServe blocks serving the control API on addr.
func (s *Server) ListenAndServe(addr string) error {
	logger.Info("control API listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

type lambdaRequest struct {
	LambdaMicros int64 `json:"lambda_micros"`
}

func (s *Server) handleMinerStart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req lambdaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Miner.Start(time.Duration(req.LambdaMicros) * time.Microsecond)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMinerStop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.Miner.Exit()
	w.WriteHeader(http.StatusNoContent)
}

type thetaRequest struct {
	ThetaMillis int64 `json:"theta_millis"`
}

func (s *Server) handleGeneratorStart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req thetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Generator.Start(time.Duration(req.ThetaMillis) * time.Millisecond)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGeneratorStop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.Generator.Exit()
	w.WriteHeader(http.StatusNoContent)
}

type tipResponse struct {
	Tip string `json:"tip"`
}

func (s *Server) handleTip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tipResponse{Tip: s.Blockchain.Tip().Hex()})
}
