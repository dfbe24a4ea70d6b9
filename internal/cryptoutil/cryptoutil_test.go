/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cryptoutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeal(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	msg := []byte{0, 1, 2, 0, 255}

	sealed, err := Seal(msg, pub, rand.Reader)
	require.NoError(t, err)

	opened, err := SealOpen(sealed, pub, priv)
	require.NoError(t, err)
	require.Equal(t, msg, opened)

	t.Run("tampered box", func(t *testing.T) {
		sealed[len(sealed)-1] ^= 1

		_, err := SealOpen(sealed, pub, priv)
		require.ErrorIs(t, err, ErrOpen)
	})

	t.Run("short box", func(t *testing.T) {
		_, err := SealOpen([]byte("short"), pub, priv)
		require.ErrorIs(t, err, ErrOpen)
	})

	t.Run("bad key size", func(t *testing.T) {
		_, err := Seal(msg, []byte("nope"), rand.Reader)
		require.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestBox(t *testing.T) {
	alicePub, alicePriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	bobPub, bobPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	nonce := new([NonceSize]byte)
	_, err = rand.Read(nonce[:])
	require.NoError(t, err)

	enc, err := Box([]byte("hello"), nonce, bobPub, alicePriv)
	require.NoError(t, err)

	dec, err := BoxOpen(enc, nonce, alicePub, bobPriv)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), dec)

	_, err = BoxOpen(enc, new([NonceSize]byte), alicePub, bobPriv)
	require.ErrorIs(t, err, ErrOpen)
}

func TestNonce(t *testing.T) {
	n1, err := Nonce([]byte("a"), []byte("b"))
	require.NoError(t, err)

	n2, err := Nonce([]byte("a"), []byte("b"))
	require.NoError(t, err)
	require.Equal(t, n1, n2)

	n3, err := Nonce([]byte("b"), []byte("a"))
	require.NoError(t, err)
	require.NotEqual(t, n1, n3)
}
