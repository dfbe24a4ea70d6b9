/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package inproc

import (
	"encoding/json"
	"strings"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

type recordOptions struct {
	RetrieveType  bool `json:"retrieveType"`
	RetrieveValue bool `json:"retrieveValue"`
	RetrieveTags  bool `json:"retrieveTags"`
}

type searchOptions struct {
	recordOptions
	RetrieveRecords    bool `json:"retrieveRecords"`
	RetrieveTotalCount bool `json:"retrieveTotalCount"`
}

type walletRecord struct {
	ID    string            `json:"id"`
	Type  *string           `json:"type,omitempty"`
	Value *string           `json:"value,omitempty"`
	Tags  map[string]string `json:"tags,omitempty"`
}

type searchPage struct {
	TotalCount *int           `json:"totalCount,omitempty"`
	Records    []walletRecord `json:"records"`
}

func parseRecordOptions(doc string) (recordOptions, error) {
	opts := recordOptions{RetrieveValue: true}

	if strings.TrimSpace(doc) == "" {
		return opts, nil
	}

	if err := json.Unmarshal([]byte(doc), &opts); err != nil {
		return opts, errInvalidStructure("record options", err)
	}

	return opts, nil
}

func parseSearchOptions(doc string) (searchOptions, error) {
	opts := searchOptions{recordOptions: recordOptions{RetrieveValue: true}, RetrieveRecords: true}

	if strings.TrimSpace(doc) == "" {
		return opts, nil
	}

	if err := json.Unmarshal([]byte(doc), &opts); err != nil {
		return opts, errInvalidStructure("search options", err)
	}

	return opts, nil
}

func parseTags(doc string) (plugin.Tags, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, nil
	}

	var tags map[string]string

	if err := json.Unmarshal([]byte(doc), &tags); err != nil {
		return nil, errInvalidStructure("tags", err)
	}

	return tags, nil
}

func checkType(typ string) error {
	if strings.HasPrefix(typ, reservedTypePrefix) {
		return indyerror.Errorf(indyerror.WalletAccessFailed, "record type %s is reserved", typ)
	}

	return nil
}

func (opts recordOptions) render(rec *plugin.Record) walletRecord {
	out := walletRecord{ID: rec.ID}

	if opts.RetrieveType {
		typ := rec.Type
		out.Type = &typ
	}

	if opts.RetrieveValue {
		value := string(rec.Value)
		out.Value = &value
	}

	if opts.RetrieveTags {
		out.Tags = rec.Tags
		if out.Tags == nil {
			out.Tags = map[string]string{}
		}
	}

	return out
}

// record runs fn against the store of an open wallet for an application record type.
func (c *Core) record(wallet native.WalletHandle, typ string, fn func(w *openWallet) error) error {
	if err := checkType(typ); err != nil {
		return err
	}

	w, err := c.wallets.get(wallet)
	if err != nil {
		return err
	}

	return fn(w)
}

func (c *Core) recordArgs(h command.Handle, typ, id string, cbParam int, hasCB bool) indyerror.Code {
	switch {
	case typ == "":
		return c.reject(h, 3, "record type is empty")
	case id == "":
		return c.reject(h, 4, "record id is empty")
	case !hasCB:
		return c.reject(h, cbParam, "%s", errNilCallback)
	}

	return indyerror.Success
}

// AddWalletRecord stores a new application record.
func (c *Core) AddWalletRecord(h command.Handle, wallet native.WalletHandle, typ, id, value, tagsJSON string,
	cb native.EmptyCB) indyerror.Code {
	if code := c.recordArgs(h, typ, id, 7, cb != nil); code != indyerror.Success {
		return code
	}

	tags, err := parseTags(tagsJSON)
	if err != nil {
		return c.fail(h, err)
	}

	return c.runEmpty(h, cb, func() error {
		return c.record(wallet, typ, func(w *openWallet) error {
			return w.backend.AddRecord(w.store, plugin.Record{Type: typ, ID: id, Value: []byte(value), Tags: tags})
		})
	})
}

// UpdateWalletRecordValue replaces the value of a record.
func (c *Core) UpdateWalletRecordValue(h command.Handle, wallet native.WalletHandle, typ, id, value string,
	cb native.EmptyCB) indyerror.Code {
	if code := c.recordArgs(h, typ, id, 6, cb != nil); code != indyerror.Success {
		return code
	}

	return c.runEmpty(h, cb, func() error {
		return c.record(wallet, typ, func(w *openWallet) error {
			return w.backend.UpdateRecordValue(w.store, typ, id, []byte(value))
		})
	})
}

// UpdateWalletRecordTags replaces all tags of a record.
func (c *Core) UpdateWalletRecordTags(h command.Handle, wallet native.WalletHandle, typ, id, tagsJSON string,
	cb native.EmptyCB) indyerror.Code {
	if code := c.recordArgs(h, typ, id, 6, cb != nil); code != indyerror.Success {
		return code
	}

	tags, err := parseTags(tagsJSON)
	if err != nil {
		return c.fail(h, err)
	}

	return c.runEmpty(h, cb, func() error {
		return c.record(wallet, typ, func(w *openWallet) error {
			return w.backend.UpdateRecordTags(w.store, typ, id, tags)
		})
	})
}

// AddWalletRecordTags adds tags to a record, overwriting tags of the same name.
func (c *Core) AddWalletRecordTags(h command.Handle, wallet native.WalletHandle, typ, id, tagsJSON string,
	cb native.EmptyCB) indyerror.Code {
	if code := c.recordArgs(h, typ, id, 6, cb != nil); code != indyerror.Success {
		return code
	}

	tags, err := parseTags(tagsJSON)
	if err != nil {
		return c.fail(h, err)
	}

	return c.runEmpty(h, cb, func() error {
		return c.record(wallet, typ, func(w *openWallet) error {
			return w.backend.AddRecordTags(w.store, typ, id, tags)
		})
	})
}

// DeleteWalletRecordTags removes the tags named in a JSON array.
func (c *Core) DeleteWalletRecordTags(h command.Handle, wallet native.WalletHandle, typ, id, tagNamesJSON string,
	cb native.EmptyCB) indyerror.Code {
	if code := c.recordArgs(h, typ, id, 6, cb != nil); code != indyerror.Success {
		return code
	}

	var names []string

	if err := json.Unmarshal([]byte(tagNamesJSON), &names); err != nil {
		return c.fail(h, errInvalidStructure("tag names", err))
	}

	return c.runEmpty(h, cb, func() error {
		return c.record(wallet, typ, func(w *openWallet) error {
			return w.backend.DeleteRecordTags(w.store, typ, id, names)
		})
	})
}

// DeleteWalletRecord removes a record.
func (c *Core) DeleteWalletRecord(h command.Handle, wallet native.WalletHandle, typ, id string,
	cb native.EmptyCB) indyerror.Code {
	if code := c.recordArgs(h, typ, id, 5, cb != nil); code != indyerror.Success {
		return code
	}

	return c.runEmpty(h, cb, func() error {
		return c.record(wallet, typ, func(w *openWallet) error {
			return w.backend.DeleteRecord(w.store, typ, id)
		})
	})
}

// GetWalletRecord returns a record as {"id", "type", "value", "tags"}, with only the parts the options select.
func (c *Core) GetWalletRecord(h command.Handle, wallet native.WalletHandle, typ, id, optionsJSON string,
	cb native.StringCB) indyerror.Code {
	if code := c.recordArgs(h, typ, id, 6, cb != nil); code != indyerror.Success {
		return code
	}

	opts, err := parseRecordOptions(optionsJSON)
	if err != nil {
		return c.fail(h, err)
	}

	return c.runString(h, cb, func() (string, error) {
		var doc []byte

		err := c.record(wallet, typ, func(w *openWallet) error {
			rec, err := w.backend.GetRecord(w.store, typ, id)
			if err != nil {
				return err
			}

			doc, err = json.Marshal(opts.render(rec))

			return err
		})

		return string(doc), err
	})
}

// OpenWalletSearch starts a WQL search over records of typ.
func (c *Core) OpenWalletSearch(h command.Handle, wallet native.WalletHandle, typ, queryJSON, optionsJSON string,
	cb native.HandleCB) indyerror.Code {
	switch {
	case typ == "":
		return c.reject(h, 3, "record type is empty")
	case cb == nil:
		return c.reject(h, 6, "%s", errNilCallback)
	}

	opts, err := parseSearchOptions(optionsJSON)
	if err != nil {
		return c.fail(h, err)
	}

	return c.runHandle(h, cb, func() (int32, error) {
		var sh native.SearchHandle

		err := c.record(wallet, typ, func(w *openWallet) error {
			s, err := w.backend.OpenSearch(w.store, typ, queryJSON, plugin.SearchOptions{
				RetrieveRecords:    opts.RetrieveRecords,
				RetrieveTotalCount: opts.RetrieveTotalCount,
			})
			if err != nil {
				return err
			}

			sh = c.wallets.addSearch(w, s, opts)

			return nil
		})

		return int32(sh), err
	})
}

// FetchWalletSearchNextRecords returns up to count records as {"totalCount", "records"}.
func (c *Core) FetchWalletSearchNextRecords(h command.Handle, wallet native.WalletHandle,
	search native.SearchHandle, count int, cb native.StringCB) indyerror.Code {
	switch {
	case count < 0:
		return c.reject(h, 4, "count is negative")
	case cb == nil:
		return c.reject(h, 5, "%s", errNilCallback)
	}

	return c.runString(h, cb, func() (string, error) {
		ws, err := c.wallets.getSearch(wallet, search)
		if err != nil {
			return "", err
		}

		return fetchPage(ws, count)
	})
}

func fetchPage(ws *walletSearch, count int) (string, error) {
	var page searchPage

	if ws.opts.RetrieveTotalCount {
		n, err := ws.wallet.backend.SearchTotalCount(ws.search)
		if err != nil {
			return "", err
		}

		page.TotalCount = &n
	}

	if ws.opts.RetrieveRecords {
		for i := 0; i < count; i++ {
			rec, ok, err := ws.wallet.backend.FetchNext(ws.search)
			if err != nil {
				return "", err
			}

			if !ok {
				break
			}

			page.Records = append(page.Records, ws.opts.render(rec))
		}
	}

	doc, err := json.Marshal(page)

	return string(doc), err
}

// CloseWalletSearch releases a search.
func (c *Core) CloseWalletSearch(h command.Handle, search native.SearchHandle, cb native.EmptyCB) indyerror.Code {
	if cb == nil {
		return c.reject(h, 3, "%s", errNilCallback)
	}

	return c.runEmpty(h, cb, func() error {
		return c.wallets.closeSearch(search)
	})
}
