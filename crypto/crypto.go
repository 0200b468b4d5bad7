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

// Package crypto wraps the Ed25519 signing primitives and the address
// derivation rule (last 20 bytes of SHA-256(public key)) used across the
// node.
package crypto

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/ed25519"

	"github.com/nanopow/nanopow/common"
)

var ErrInvalidSignature = errors.New("crypto: invalid signature length")

// KeyPair is a node- or account-held Ed25519 signing identity.
type KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateKeyPair draws a fresh random Ed25519 key pair from rand.
func GenerateKeyPair(rand io.Reader) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Public: pub, Private: priv}, nil
}

// KeyPairFromSeed derives a deterministic Ed25519 key pair from a 32-byte
// seed. Used for a node's own identity, seeded from its listen port.
func KeyPairFromSeed(seed [32]byte) *KeyPair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	return &KeyPair{Public: priv.Public().(ed25519.PublicKey), Private: priv}
}

// Address returns the 20-byte address derived from this key pair's public
// key, i.e. the last 20 bytes of SHA-256(public_key).
func (k *KeyPair) Address() common.Address {
	return PubkeyToAddress(k.Public)
}

// Sign produces an Ed25519 signature of msg.
func (k *KeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.Private, msg)
}

// PubkeyToAddress derives an Address from a raw public key's bytes.
func PubkeyToAddress(pub []byte) common.Address {
	h := sha256.Sum256(pub)
	return common.BytesToAddress(h[:])
}

// Verify checks an Ed25519 signature of msg against a raw public key. A
// malformed public key or signature is treated as verification failure,
// never as an error - callers only care whether the signature is valid.
func Verify(pub []byte, msg []byte, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}
