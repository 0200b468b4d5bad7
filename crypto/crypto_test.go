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

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSignVerifyRoundTrip covers that a signature verifies under the
// signing key for the signed message and fails for an altered message.
func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(rand.Reader)
	assert.NoError(t, err)

	msg := []byte("transfer 10 to bob, nonce 1")
	sig := kp.Sign(msg)

	assert.True(t, Verify([]byte(kp.Public), msg, sig))

	other := append([]byte{}, msg...)
	other[0] ^= 0xff
	assert.False(t, Verify([]byte(kp.Public), other, sig))
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	assert.False(t, Verify([]byte("too short"), []byte("msg"), []byte("sig")))
}

func TestKeyPairFromSeedIsDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 7

	a := KeyPairFromSeed(seed)
	b := KeyPairFromSeed(seed)
	assert.Equal(t, a.Address(), b.Address())
	assert.Equal(t, []byte(a.Public), []byte(b.Public))
}

func TestAddressIsLast20BytesOfSHA256(t *testing.T) {
	kp, err := GenerateKeyPair(rand.Reader)
	assert.NoError(t, err)

	addr := PubkeyToAddress(kp.Public)
	assert.False(t, addr.IsZero())
	assert.Equal(t, kp.Address(), addr)

	digest := sha256.Sum256(kp.Public)
	assert.Equal(t, digest[12:], addr.Bytes())
}
