/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cryptoutil holds the Ed25519 to Curve25519 conversions and nacl box helpers used by the identity core.
package cryptoutil

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"

	"github.com/agl/ed25519/extra25519"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/box"
)

// Curve25519KeySize number of bytes in a Curve25519 public or private key.
const Curve25519KeySize = 32

// NonceSize size of a nacl box nonce.
const NonceSize = 24

// ErrInvalidKey is used when a key is invalid.
var ErrInvalidKey = errors.New("invalid key")

// ErrOpen is returned when a box can not be opened.
var ErrOpen = errors.New("failed to open box")

// PublicEd25519toCurve25519 takes an Ed25519 public key and provides the corresponding Curve25519 public key.
func PublicEd25519toCurve25519(pub []byte) (*[Curve25519KeySize]byte, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: %d-byte public key", ErrInvalidKey, len(pub))
	}

	in := new([Curve25519KeySize]byte)
	out := new([Curve25519KeySize]byte)
	copy(in[:], pub)

	if !extra25519.PublicKeyToCurve25519(out, in) {
		return nil, fmt.Errorf("%w: not a point on the curve", ErrInvalidKey)
	}

	return out, nil
}

// SecretEd25519toCurve25519 converts a secret key from Ed25519 to Curve25519 format.
func SecretEd25519toCurve25519(priv ed25519.PrivateKey) (*[Curve25519KeySize]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: %d-byte private key", ErrInvalidKey, len(priv))
	}

	in := new([ed25519.PrivateKeySize]byte)
	out := new([Curve25519KeySize]byte)
	copy(in[:], priv)

	extra25519.PrivateKeyToCurve25519(out, in)

	return out, nil
}

// Nonce derives the libsodium sealed box nonce blake2b(pub1 || pub2).
func Nonce(pub1, pub2 []byte) (*[NonceSize]byte, error) {
	h, err := blake2b.New(NonceSize, nil)
	if err != nil {
		return nil, err
	}

	_, _ = h.Write(pub1) //nolint:errcheck
	_, _ = h.Write(pub2) //nolint:errcheck

	var nonce [NonceSize]byte

	copy(nonce[:], h.Sum(nil))

	return &nonce, nil
}

// Seal anonymously encrypts payload for the Ed25519 public key theirPub. The output is the ephemeral
// Curve25519 public key followed by the box.
func Seal(payload, theirPub []byte, rand io.Reader) ([]byte, error) {
	recPub, err := PublicEd25519toCurve25519(theirPub)
	if err != nil {
		return nil, err
	}

	epk, esk, err := box.GenerateKey(rand)
	if err != nil {
		return nil, err
	}

	nonce, err := Nonce(epk[:], recPub[:])
	if err != nil {
		return nil, err
	}

	return box.Seal(epk[:], payload, nonce, recPub, esk), nil
}

// SealOpen decrypts a payload encrypted with Seal using the recipient Ed25519 key pair.
func SealOpen(cipherText []byte, myPub ed25519.PublicKey, myPriv ed25519.PrivateKey) ([]byte, error) {
	if len(cipherText) < Curve25519KeySize+box.Overhead {
		return nil, fmt.Errorf("%w: message too short", ErrOpen)
	}

	recPub, err := PublicEd25519toCurve25519(myPub)
	if err != nil {
		return nil, err
	}

	recPriv, err := SecretEd25519toCurve25519(myPriv)
	if err != nil {
		return nil, err
	}

	var epk [Curve25519KeySize]byte

	copy(epk[:], cipherText[:Curve25519KeySize])

	nonce, err := Nonce(epk[:], recPub[:])
	if err != nil {
		return nil, err
	}

	out, ok := box.Open(nil, cipherText[Curve25519KeySize:], nonce, &epk, recPriv)
	if !ok {
		return nil, ErrOpen
	}

	return out, nil
}

// Box encrypts payload from the Ed25519 key pair of the sender to theirPub under nonce.
func Box(payload []byte, nonce *[NonceSize]byte, theirPub []byte, myPriv ed25519.PrivateKey) ([]byte, error) {
	recPub, err := PublicEd25519toCurve25519(theirPub)
	if err != nil {
		return nil, err
	}

	priv, err := SecretEd25519toCurve25519(myPriv)
	if err != nil {
		return nil, err
	}

	return box.Seal(nil, payload, nonce, recPub, priv), nil
}

// BoxOpen decrypts a payload produced by Box.
func BoxOpen(cipherText []byte, nonce *[NonceSize]byte, theirPub []byte, myPriv ed25519.PrivateKey) ([]byte, error) {
	senderPub, err := PublicEd25519toCurve25519(theirPub)
	if err != nil {
		return nil, err
	}

	priv, err := SecretEd25519toCurve25519(myPriv)
	if err != nil {
		return nil, err
	}

	out, ok := box.Open(nil, cipherText, nonce, senderPub, priv)
	if !ok {
		return nil, ErrOpen
	}

	return out, nil
}
