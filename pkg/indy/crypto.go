/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package indy

import (
	"context"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
)

// nonNil keeps an empty message distinguishable from a missing one at the native boundary.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}

	return b
}

// CryptoSign signs msg with the key of signerVerkey.
func (c *Client) CryptoSign(ctx context.Context, wallet WalletHandle, signerVerkey string, msg []byte) ([]byte, error) {
	return call[[]byte](ctx, c, "crypto sign", func(h command.Handle) indyerror.Code {
		return c.core.CryptoSign(h, wallet, signerVerkey, nonNil(msg), c.dispatch.Bytes)
	})
}

// CryptoVerify reports whether signature is valid for msg and signerVerkey.
func (c *Client) CryptoVerify(ctx context.Context, signerVerkey string, msg, signature []byte) (bool, error) {
	return call[bool](ctx, c, "crypto verify", func(h command.Handle) indyerror.Code {
		return c.core.CryptoVerify(h, signerVerkey, nonNil(msg), nonNil(signature), c.dispatch.Bool)
	})
}

// AuthCrypt encrypts msg from senderVerkey to recipientVerkey so the recipient learns the sender.
func (c *Client) AuthCrypt(ctx context.Context, wallet WalletHandle, senderVerkey, recipientVerkey string,
	msg []byte) ([]byte, error) {
	return call[[]byte](ctx, c, "auth crypt", func(h command.Handle) indyerror.Code {
		return c.core.AuthCrypt(h, wallet, senderVerkey, recipientVerkey, nonNil(msg), c.dispatch.Bytes)
	})
}

// AuthDecrypt decrypts an AuthCrypt message and returns it with the sender verkey.
func (c *Client) AuthDecrypt(ctx context.Context, wallet WalletHandle, recipientVerkey string,
	encrypted []byte) (SenderMessage, error) {
	return call[SenderMessage](ctx, c, "auth decrypt", func(h command.Handle) indyerror.Code {
		return c.core.AuthDecrypt(h, wallet, recipientVerkey, nonNil(encrypted), c.dispatch.StringBytes)
	})
}

// AnonCrypt encrypts msg for recipientVerkey.
func (c *Client) AnonCrypt(ctx context.Context, recipientVerkey string, msg []byte) ([]byte, error) {
	return call[[]byte](ctx, c, "anon crypt", func(h command.Handle) indyerror.Code {
		return c.core.AnonCrypt(h, recipientVerkey, nonNil(msg), c.dispatch.Bytes)
	})
}

// AnonDecrypt decrypts an AnonCrypt message with a key from the wallet.
func (c *Client) AnonDecrypt(ctx context.Context, wallet WalletHandle, recipientVerkey string,
	encrypted []byte) ([]byte, error) {
	return call[[]byte](ctx, c, "anon decrypt", func(h command.Handle) indyerror.Code {
		return c.core.AnonDecrypt(h, wallet, recipientVerkey, nonNil(encrypted), c.dispatch.Bytes)
	})
}

// CryptoBox encrypts msg from myVerkey to theirVerkey and returns the box with its nonce.
func (c *Client) CryptoBox(ctx context.Context, wallet WalletHandle, myVerkey, theirVerkey string,
	msg []byte) (Sealed, error) {
	return call[Sealed](ctx, c, "crypto box", func(h command.Handle) indyerror.Code {
		return c.core.CryptoBox(h, wallet, myVerkey, theirVerkey, nonNil(msg), c.dispatch.BytesNonce)
	})
}

// CryptoBoxOpen opens a CryptoBox message.
func (c *Client) CryptoBoxOpen(ctx context.Context, wallet WalletHandle, myVerkey, theirVerkey string,
	encrypted, nonce []byte) ([]byte, error) {
	return call[[]byte](ctx, c, "crypto box open", func(h command.Handle) indyerror.Code {
		return c.core.CryptoBoxOpen(h, wallet, myVerkey, theirVerkey, nonNil(encrypted), nonNil(nonce),
			c.dispatch.Bytes)
	})
}
