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

// AddWalletRecord adds a record. tagsJSON is a flat JSON object of string values, or empty.
func (c *Client) AddWalletRecord(ctx context.Context, wallet WalletHandle, typ, id, value, tagsJSON string) error {
	return exec(ctx, c, "add wallet record", func(h command.Handle) indyerror.Code {
		return c.core.AddWalletRecord(h, wallet, typ, id, value, tagsJSON, c.dispatch.Empty)
	})
}

// UpdateWalletRecordValue replaces the value of a record.
func (c *Client) UpdateWalletRecordValue(ctx context.Context, wallet WalletHandle, typ, id, value string) error {
	return exec(ctx, c, "update wallet record value", func(h command.Handle) indyerror.Code {
		return c.core.UpdateWalletRecordValue(h, wallet, typ, id, value, c.dispatch.Empty)
	})
}

// UpdateWalletRecordTags replaces the tags of a record.
func (c *Client) UpdateWalletRecordTags(ctx context.Context, wallet WalletHandle, typ, id, tagsJSON string) error {
	return exec(ctx, c, "update wallet record tags", func(h command.Handle) indyerror.Code {
		return c.core.UpdateWalletRecordTags(h, wallet, typ, id, tagsJSON, c.dispatch.Empty)
	})
}

// AddWalletRecordTags merges tags into a record.
func (c *Client) AddWalletRecordTags(ctx context.Context, wallet WalletHandle, typ, id, tagsJSON string) error {
	return exec(ctx, c, "add wallet record tags", func(h command.Handle) indyerror.Code {
		return c.core.AddWalletRecordTags(h, wallet, typ, id, tagsJSON, c.dispatch.Empty)
	})
}

// DeleteWalletRecordTags removes tags, given as a JSON array of names, from a record.
func (c *Client) DeleteWalletRecordTags(ctx context.Context, wallet WalletHandle, typ, id, tagNamesJSON string) error {
	return exec(ctx, c, "delete wallet record tags", func(h command.Handle) indyerror.Code {
		return c.core.DeleteWalletRecordTags(h, wallet, typ, id, tagNamesJSON, c.dispatch.Empty)
	})
}

// DeleteWalletRecord deletes a record.
func (c *Client) DeleteWalletRecord(ctx context.Context, wallet WalletHandle, typ, id string) error {
	return exec(ctx, c, "delete wallet record", func(h command.Handle) indyerror.Code {
		return c.core.DeleteWalletRecord(h, wallet, typ, id, c.dispatch.Empty)
	})
}

// GetWalletRecord returns the record JSON document selected by optionsJSON.
func (c *Client) GetWalletRecord(ctx context.Context, wallet WalletHandle, typ, id,
	optionsJSON string) (string, error) {
	return call[string](ctx, c, "get wallet record", func(h command.Handle) indyerror.Code {
		return c.core.GetWalletRecord(h, wallet, typ, id, optionsJSON, c.dispatch.String)
	})
}

// OpenWalletSearch starts a WQL search over records of typ.
func (c *Client) OpenWalletSearch(ctx context.Context, wallet WalletHandle, typ, queryJSON,
	optionsJSON string) (SearchHandle, error) {
	v, err := call[int32](ctx, c, "open wallet search", func(h command.Handle) indyerror.Code {
		return c.core.OpenWalletSearch(h, wallet, typ, queryJSON, optionsJSON, c.dispatch.Handle)
	})

	return SearchHandle(v), err
}

// FetchWalletSearchNextRecords returns the next page of at most count records.
func (c *Client) FetchWalletSearchNextRecords(ctx context.Context, wallet WalletHandle, search SearchHandle,
	count int) (string, error) {
	return call[string](ctx, c, "fetch wallet search records", func(h command.Handle) indyerror.Code {
		return c.core.FetchWalletSearchNextRecords(h, wallet, search, count, c.dispatch.String)
	})
}

// CloseWalletSearch closes a search.
func (c *Client) CloseWalletSearch(ctx context.Context, search SearchHandle) error {
	return exec(ctx, c, "close wallet search", func(h command.Handle) indyerror.Code {
		return c.core.CloseWalletSearch(h, search, c.dispatch.Empty)
	})
}
