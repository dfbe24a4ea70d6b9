/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package indy

import (
	"context"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

// RegisterWalletType makes backend available as storage_type typeName.
func (c *Client) RegisterWalletType(ctx context.Context, typeName string, backend plugin.Backend) error {
	return exec(ctx, c, "register wallet type", func(h command.Handle) indyerror.Code {
		return c.core.RegisterWalletType(h, typeName, backend, c.dispatch.Empty)
	})
}

// CreateWallet creates a wallet.
func (c *Client) CreateWallet(ctx context.Context, config, credentials string) error {
	return exec(ctx, c, "create wallet", func(h command.Handle) indyerror.Code {
		return c.core.CreateWallet(h, config, credentials, c.dispatch.Empty)
	})
}

// OpenWallet opens a wallet.
func (c *Client) OpenWallet(ctx context.Context, config, credentials string) (WalletHandle, error) {
	v, err := call[int32](ctx, c, "open wallet", func(h command.Handle) indyerror.Code {
		return c.core.OpenWallet(h, config, credentials, c.dispatch.Handle)
	})

	return WalletHandle(v), err
}

// CloseWallet closes a wallet.
func (c *Client) CloseWallet(ctx context.Context, wallet WalletHandle) error {
	return exec(ctx, c, "close wallet", func(h command.Handle) indyerror.Code {
		return c.core.CloseWallet(h, wallet, c.dispatch.Empty)
	})
}

// DeleteWallet deletes a wallet that is not open.
func (c *Client) DeleteWallet(ctx context.Context, config, credentials string) error {
	return exec(ctx, c, "delete wallet", func(h command.Handle) indyerror.Code {
		return c.core.DeleteWallet(h, config, credentials, c.dispatch.Empty)
	})
}
