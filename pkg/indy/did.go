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

// CreateAndStoreMyDID creates a DID from didJSON ({"did", "seed", "crypto_type", "cid"}, all optional)
// and returns the DID and its verkey.
func (c *Client) CreateAndStoreMyDID(ctx context.Context, wallet WalletHandle, didJSON string) (string, string, error) {
	v, err := call[StringPair](ctx, c, "create did", func(h command.Handle) indyerror.Code {
		return c.core.CreateAndStoreMyDID(h, wallet, didJSON, c.dispatch.StringPair)
	})

	return v.First, v.Second, err
}

// KeyForLocalDID returns the verkey of a DID in the wallet.
func (c *Client) KeyForLocalDID(ctx context.Context, wallet WalletHandle, did string) (string, error) {
	return call[string](ctx, c, "key for local did", func(h command.Handle) indyerror.Code {
		return c.core.KeyForLocalDID(h, wallet, did, c.dispatch.String)
	})
}

// CreateKey creates a key pair and returns its verkey.
func (c *Client) CreateKey(ctx context.Context, wallet WalletHandle, keyJSON string) (string, error) {
	return call[string](ctx, c, "create key", func(h command.Handle) indyerror.Code {
		return c.core.CreateKey(h, wallet, keyJSON, c.dispatch.String)
	})
}

// SetKeyMetadata attaches metadata to a verkey.
func (c *Client) SetKeyMetadata(ctx context.Context, wallet WalletHandle, verkey, metadata string) error {
	return exec(ctx, c, "set key metadata", func(h command.Handle) indyerror.Code {
		return c.core.SetKeyMetadata(h, wallet, verkey, metadata, c.dispatch.Empty)
	})
}

// GetKeyMetadata returns the metadata of a verkey.
func (c *Client) GetKeyMetadata(ctx context.Context, wallet WalletHandle, verkey string) (string, error) {
	return call[string](ctx, c, "get key metadata", func(h command.Handle) indyerror.Code {
		return c.core.GetKeyMetadata(h, wallet, verkey, c.dispatch.String)
	})
}

// ReplaceKeysStart creates a new key for a DID of the wallet and returns its verkey. The DID keeps its
// current verkey until ReplaceKeysApply.
func (c *Client) ReplaceKeysStart(ctx context.Context, wallet WalletHandle, did, keyJSON string) (string, error) {
	return call[string](ctx, c, "replace keys start", func(h command.Handle) indyerror.Code {
		return c.core.ReplaceKeysStart(h, wallet, did, keyJSON, c.dispatch.String)
	})
}

// ReplaceKeysApply switches a DID to the verkey returned by ReplaceKeysStart.
func (c *Client) ReplaceKeysApply(ctx context.Context, wallet WalletHandle, did string) error {
	return exec(ctx, c, "replace keys apply", func(h command.Handle) indyerror.Code {
		return c.core.ReplaceKeysApply(h, wallet, did, c.dispatch.Empty)
	})
}

// StoreTheirDID stores the DID of another party from identityJSON ({"did", "verkey", "crypto_type"}).
func (c *Client) StoreTheirDID(ctx context.Context, wallet WalletHandle, identityJSON string) error {
	return exec(ctx, c, "store their did", func(h command.Handle) indyerror.Code {
		return c.core.StoreTheirDID(h, wallet, identityJSON, c.dispatch.Empty)
	})
}

// SetDIDMetadata attaches metadata to a DID.
func (c *Client) SetDIDMetadata(ctx context.Context, wallet WalletHandle, did, metadata string) error {
	return exec(ctx, c, "set did metadata", func(h command.Handle) indyerror.Code {
		return c.core.SetDIDMetadata(h, wallet, did, metadata, c.dispatch.Empty)
	})
}

// GetDIDMetadata returns the metadata of a DID.
func (c *Client) GetDIDMetadata(ctx context.Context, wallet WalletHandle, did string) (string, error) {
	return call[string](ctx, c, "get did metadata", func(h command.Handle) indyerror.Code {
		return c.core.GetDIDMetadata(h, wallet, did, c.dispatch.String)
	})
}
