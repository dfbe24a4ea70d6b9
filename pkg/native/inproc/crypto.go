/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package inproc

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"io"

	"github.com/btcsuite/btcutil/base58"

	"github.com/hyperledger/indy-sdk-go/internal/cryptoutil"
	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
)

// authcryptEnvelope is the anonymously encrypted body of an authenticated message.
type authcryptEnvelope struct {
	Sender string `json:"sender"`
	Nonce  []byte `json:"nonce"`
	Msg    []byte `json:"msg"`
}

func openFailed(err error) error {
	if errors.Is(err, cryptoutil.ErrOpen) || errors.Is(err, cryptoutil.ErrInvalidKey) {
		return indyerror.Errorf(indyerror.CommonInvalidStructure, "%s", err)
	}

	return err
}

// CryptoSign signs msg with the key of signerVerkey.
func (c *Core) CryptoSign(h command.Handle, wallet native.WalletHandle, signerVerkey string, msg []byte,
	cb native.BytesCB) indyerror.Code {
	switch {
	case signerVerkey == "":
		return c.reject(h, 3, "signer verkey is empty")
	case msg == nil:
		return c.reject(h, 4, "message is nil")
	case cb == nil:
		return c.reject(h, 6, "%s", errNilCallback)
	}

	msg = append([]byte(nil), msg...)

	return c.runBytes(h, cb, func() ([]byte, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return nil, err
		}

		_, priv, err := c.signKey(w, signerVerkey)
		if err != nil {
			return nil, err
		}

		return ed25519.Sign(priv, msg), nil
	})
}

// CryptoVerify checks signature over msg against signerVerkey. A signature that does not match completes
// successfully with false.
func (c *Core) CryptoVerify(h command.Handle, signerVerkey string, msg, signature []byte,
	cb native.BoolCB) indyerror.Code {
	switch {
	case signerVerkey == "":
		return c.reject(h, 2, "signer verkey is empty")
	case msg == nil:
		return c.reject(h, 3, "message is nil")
	case signature == nil:
		return c.reject(h, 5, "signature is nil")
	case cb == nil:
		return c.reject(h, 7, "%s", errNilCallback)
	}

	msg = append([]byte(nil), msg...)
	signature = append([]byte(nil), signature...)

	return c.runBool(h, cb, func() (bool, error) {
		_, pub, err := decodeVerkey(signerVerkey)
		if err != nil {
			return false, err
		}

		return ed25519.Verify(pub, msg, signature), nil
	})
}

// AnonCrypt seals msg for recipientVerkey without revealing the sender.
func (c *Core) AnonCrypt(h command.Handle, recipientVerkey string, msg []byte, cb native.BytesCB) indyerror.Code {
	switch {
	case recipientVerkey == "":
		return c.reject(h, 2, "recipient verkey is empty")
	case msg == nil:
		return c.reject(h, 3, "message is nil")
	case cb == nil:
		return c.reject(h, 5, "%s", errNilCallback)
	}

	msg = append([]byte(nil), msg...)

	return c.runBytes(h, cb, func() ([]byte, error) {
		return c.anonCrypt(recipientVerkey, msg)
	})
}

func (c *Core) anonCrypt(recipientVerkey string, msg []byte) ([]byte, error) {
	_, pub, err := decodeVerkey(recipientVerkey)
	if err != nil {
		return nil, err
	}

	return cryptoutil.Seal(msg, pub, c.rand)
}

func (c *Core) anonDecrypt(w *openWallet, recipientVerkey string, encrypted []byte) ([]byte, error) {
	pub, priv, err := c.signKey(w, recipientVerkey)
	if err != nil {
		return nil, err
	}

	msg, err := cryptoutil.SealOpen(encrypted, pub, priv)
	if err != nil {
		return nil, openFailed(err)
	}

	return msg, nil
}

// AnonDecrypt opens a message sealed with AnonCrypt for a key stored in the wallet.
func (c *Core) AnonDecrypt(h command.Handle, wallet native.WalletHandle, recipientVerkey string, encrypted []byte,
	cb native.BytesCB) indyerror.Code {
	switch {
	case recipientVerkey == "":
		return c.reject(h, 3, "recipient verkey is empty")
	case encrypted == nil:
		return c.reject(h, 4, "encrypted message is nil")
	case cb == nil:
		return c.reject(h, 6, "%s", errNilCallback)
	}

	encrypted = append([]byte(nil), encrypted...)

	return c.runBytes(h, cb, func() ([]byte, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return nil, err
		}

		return c.anonDecrypt(w, recipientVerkey, encrypted)
	})
}

// AuthCrypt boxes msg from senderVerkey to recipientVerkey and seals the result with the sender verkey.
func (c *Core) AuthCrypt(h command.Handle, wallet native.WalletHandle, senderVerkey, recipientVerkey string,
	msg []byte, cb native.BytesCB) indyerror.Code {
	switch {
	case senderVerkey == "":
		return c.reject(h, 3, "sender verkey is empty")
	case recipientVerkey == "":
		return c.reject(h, 4, "recipient verkey is empty")
	case msg == nil:
		return c.reject(h, 5, "message is nil")
	case cb == nil:
		return c.reject(h, 7, "%s", errNilCallback)
	}

	msg = append([]byte(nil), msg...)

	return c.runBytes(h, cb, func() ([]byte, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return nil, err
		}

		senderPub, senderPriv, err := c.signKey(w, senderVerkey)
		if err != nil {
			return nil, err
		}

		_, recipientPub, err := decodeVerkey(recipientVerkey)
		if err != nil {
			return nil, err
		}

		nonce, err := c.nonce()
		if err != nil {
			return nil, err
		}

		boxed, err := cryptoutil.Box(msg, nonce, recipientPub, senderPriv)
		if err != nil {
			return nil, err
		}

		env, err := json.Marshal(authcryptEnvelope{Sender: base58.Encode(senderPub), Nonce: nonce[:], Msg: boxed})
		if err != nil {
			return nil, err
		}

		return cryptoutil.Seal(env, recipientPub, c.rand)
	})
}

// AuthDecrypt opens an AuthCrypt message. The callback receives the sender verkey and the message.
func (c *Core) AuthDecrypt(h command.Handle, wallet native.WalletHandle, recipientVerkey string, encrypted []byte,
	cb native.StringBytesCB) indyerror.Code {
	switch {
	case recipientVerkey == "":
		return c.reject(h, 3, "recipient verkey is empty")
	case encrypted == nil:
		return c.reject(h, 4, "encrypted message is nil")
	case cb == nil:
		return c.reject(h, 6, "%s", errNilCallback)
	}

	encrypted = append([]byte(nil), encrypted...)

	return c.runStringBytes(h, cb, func() (string, []byte, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return "", nil, err
		}

		env, err := c.anonDecrypt(w, recipientVerkey, encrypted)
		if err != nil {
			return "", nil, err
		}

		var ae authcryptEnvelope

		if err = json.Unmarshal(env, &ae); err != nil {
			return "", nil, errInvalidStructure("authcrypt envelope", err)
		}

		nonce, err := toNonce(ae.Nonce)
		if err != nil {
			return "", nil, err
		}

		_, priv, err := c.signKey(w, recipientVerkey)
		if err != nil {
			return "", nil, err
		}

		_, senderPub, err := decodeVerkey(ae.Sender)
		if err != nil {
			return "", nil, err
		}

		msg, err := cryptoutil.BoxOpen(ae.Msg, nonce, senderPub, priv)
		if err != nil {
			return "", nil, openFailed(err)
		}

		return ae.Sender, msg, nil
	})
}

// CryptoBox encrypts msg from myVerkey to theirVerkey. The callback receives the box and its random nonce.
func (c *Core) CryptoBox(h command.Handle, wallet native.WalletHandle, myVerkey, theirVerkey string, msg []byte,
	cb native.BytesNonceCB) indyerror.Code {
	switch {
	case myVerkey == "":
		return c.reject(h, 3, "my verkey is empty")
	case theirVerkey == "":
		return c.reject(h, 4, "their verkey is empty")
	case msg == nil:
		return c.reject(h, 5, "message is nil")
	case cb == nil:
		return c.reject(h, 7, "%s", errNilCallback)
	}

	msg = append([]byte(nil), msg...)

	return c.runBytesNonce(h, cb, func() ([]byte, []byte, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return nil, nil, err
		}

		_, priv, err := c.signKey(w, myVerkey)
		if err != nil {
			return nil, nil, err
		}

		_, theirPub, err := decodeVerkey(theirVerkey)
		if err != nil {
			return nil, nil, err
		}

		nonce, err := c.nonce()
		if err != nil {
			return nil, nil, err
		}

		boxed, err := cryptoutil.Box(msg, nonce, theirPub, priv)
		if err != nil {
			return nil, nil, err
		}

		return boxed, nonce[:], nil
	})
}

// CryptoBoxOpen opens a CryptoBox message sent by theirVerkey to myVerkey.
func (c *Core) CryptoBoxOpen(h command.Handle, wallet native.WalletHandle, myVerkey, theirVerkey string,
	encrypted, nonce []byte, cb native.BytesCB) indyerror.Code {
	switch {
	case myVerkey == "":
		return c.reject(h, 3, "my verkey is empty")
	case theirVerkey == "":
		return c.reject(h, 4, "their verkey is empty")
	case encrypted == nil:
		return c.reject(h, 5, "encrypted message is nil")
	case nonce == nil:
		return c.reject(h, 7, "nonce is nil")
	case cb == nil:
		return c.reject(h, 9, "%s", errNilCallback)
	}

	encrypted = append([]byte(nil), encrypted...)
	nonce = append([]byte(nil), nonce...)

	return c.runBytes(h, cb, func() ([]byte, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return nil, err
		}

		n, err := toNonce(nonce)
		if err != nil {
			return nil, err
		}

		_, priv, err := c.signKey(w, myVerkey)
		if err != nil {
			return nil, err
		}

		_, theirPub, err := decodeVerkey(theirVerkey)
		if err != nil {
			return nil, err
		}

		msg, err := cryptoutil.BoxOpen(encrypted, n, theirPub, priv)
		if err != nil {
			return nil, openFailed(err)
		}

		return msg, nil
	})
}

func (c *Core) nonce() (*[cryptoutil.NonceSize]byte, error) {
	n := new([cryptoutil.NonceSize]byte)

	if _, err := io.ReadFull(c.rand, n[:]); err != nil {
		return nil, err
	}

	return n, nil
}

func toNonce(b []byte) (*[cryptoutil.NonceSize]byte, error) {
	if len(b) != cryptoutil.NonceSize {
		return nil, indyerror.Errorf(indyerror.CommonInvalidStructure, "nonce must be %d bytes, got %d",
			cryptoutil.NonceSize, len(b))
	}

	n := new([cryptoutil.NonceSize]byte)
	copy(n[:], b)

	return n, nil
}
