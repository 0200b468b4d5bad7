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

// Package log is the node's single logging entry point. Every package gets
// its own named logger via NewModuleLogger so log lines can be filtered by
// subsystem; the sink underneath is zap's sugared logger.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Module names, one per subsystem. Kept here rather than scattered across
// packages so the set of valid modules is visible in one place.
const (
	Blockchain = "blockchain"
	Mempool    = "mempool"
	Miner      = "miner"
	TxGen      = "txgen"
	Network    = "p2p"
	Node       = "node"
	API        = "api"
	Common     = "common"
)

var (
	once  sync.Once
	base  *zap.Logger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// SetVerbosity maps the node's counted -v flag onto zap levels. 0 is Info,
// 1+ is Debug. level is a live zap.AtomicLevel, so this takes effect
// immediately even though every package's module logger is already
// constructed by the time main parses flags - package-level var
// initializers run before main, so SetVerbosity can never win a race
// against NewModuleLogger by running first.
func SetVerbosity(n int) {
	if n <= 0 {
		level.SetLevel(zapcore.InfoLevel)
	} else {
		level.SetLevel(zapcore.DebugLevel)
	}
}

func root() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.Level = level
		l, err := cfg.Build()
		if err != nil {
			// Logging must never be the reason the node fails to start.
			l = zap.NewNop()
			os.Stderr.WriteString("log: falling back to no-op logger: " + err.Error() + "\n")
		}
		base = l
	})
	return base
}

// Logger is the module-scoped handle every package logs through.
type Logger struct {
	s *zap.SugaredLogger
}

// NewModuleLogger returns a Logger tagged with the given module name.
func NewModuleLogger(module string) *Logger {
	return &Logger{s: root().Sugar().With("module", module)}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }

// Fatal logs at fatal level and then terminates the process. Nothing in
// this module calls it: the miner and generator log a disconnected
// control channel with Error and return from their loop instead.
func (l *Logger) Fatal(msg string, kv ...interface{}) { l.s.Fatalw(msg, kv...) }
