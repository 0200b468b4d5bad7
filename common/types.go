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

// Package common holds the fixed-size value types shared by every layer of
// the node: the 32-byte block/transaction Hash and the 20-byte account
// Address.
package common

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash is a 32-byte SHA-256 digest. Block hashes, transaction hashes and
// Merkle roots all share this type.
type Hash [HashLength]byte

// BytesToHash keeps the last HashLength bytes of b, left-padding shorter
// input with zero bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (h Hash) Bytes() []byte { return h[:] }
func (h Hash) Hex() string   { return "0x" + hex.EncodeToString(h[:]) }
func (h Hash) String() string { return h.Hex() }
func (h Hash) IsZero() bool  { return h == Hash{} }

// Cmp returns -1, 0 or 1 comparing h to other lexicographically, big-endian.
// This is the total order used for the PoW difficulty test: a block
// satisfies PoW iff hash(block).Cmp(difficulty) <= 0.
func (h Hash) Cmp(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// LessOrEqual reports whether h <= threshold under the big-endian byte
// ordering used throughout the PoW and difficulty checks.
func (h Hash) LessOrEqual(threshold Hash) bool {
	return h.Cmp(threshold) <= 0
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) >= 2 && s[0:2] == "0x" {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*h = BytesToHash(b)
	return nil
}

// Address is a 20-byte account identifier derived from the trailing 20
// bytes of SHA-256(public_key).
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) Bytes() []byte   { return a[:] }
func (a Address) Hex() string     { return "0x" + hex.EncodeToString(a[:]) }
func (a Address) String() string  { return a.Hex() }
func (a Address) IsZero() bool    { return a == Address{} }

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) >= 2 && s[0:2] == "0x" {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*a = BytesToAddress(b)
	return nil
}

// ZeroHash is the conventional parent hash of the genesis block.
var ZeroHash = Hash{}
