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

package types

import (
	"github.com/nanopow/nanopow/common"
	"github.com/nanopow/nanopow/crypto"
)

// Transaction moves value from the signer of a SignedTransaction to
// Receiver. Nonce is the sender's *next expected* nonce, not a sequence
// counter that increments per spend - see core/blockchain's state
// transition (ApplyTransaction) for why.
type Transaction struct {
	Receiver common.Address `json:"receiver"`
	Value    uint32         `json:"value"`
	Nonce    uint32         `json:"nonce"`
}

// SignedTransaction pairs a Transaction with the signature and public key
// that authorize it. Its identity - used as the mempool key and the
// Merkle-tree leaf - is the SHA-256 of its own canonical encoding.
type SignedTransaction struct {
	Tx        Transaction `json:"tx"`
	Signature []byte      `json:"signature"`
	PublicKey []byte      `json:"public_key"`
}

// Hash identifies a signed transaction. It satisfies merkle.Hashable.
func (stx *SignedTransaction) Hash() common.Hash {
	return common.CanonicalHash(stx)
}

// Sender recovers the address that authorized this transaction. It does
// not check the signature; use VerifySignature for that.
func (stx *SignedTransaction) Sender() common.Address {
	return crypto.PubkeyToAddress(stx.PublicKey)
}

// VerifySignature checks the signature over the embedded Transaction
// against the embedded public key.
func (stx *SignedTransaction) VerifySignature() bool {
	msg := common.CanonicalHash(stx.Tx)
	return crypto.Verify(stx.PublicKey, msg[:], stx.Signature)
}

// NewSignedTransaction signs tx with key and returns the signed envelope.
func NewSignedTransaction(tx Transaction, key *crypto.KeyPair) *SignedTransaction {
	msg := common.CanonicalHash(tx)
	return &SignedTransaction{
		Tx:        tx,
		Signature: key.Sign(msg[:]),
		PublicKey: []byte(key.Public),
	}
}
