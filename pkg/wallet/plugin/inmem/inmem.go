/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package inmem is an in-memory wallet storage backend. Stores live as long as the Backend value.
package inmem

import (
	"fmt"
	"sync"

	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

type recordKey struct {
	typ string
	id  string
}

type memWallet struct {
	lock    sync.RWMutex
	records map[recordKey]plugin.Record
}

// Backend implements plugin.Backend in memory.
type Backend struct {
	lock     sync.RWMutex
	wallets  map[string]*memWallet
	stores   map[plugin.StoreHandle]*memWallet
	searches plugin.Searches
	next     int32
}

// New returns an empty in-memory backend.
func New() *Backend {
	return &Backend{
		wallets: make(map[string]*memWallet),
		stores:  make(map[plugin.StoreHandle]*memWallet),
	}
}

// Create creates an empty store for cfg.ID.
func (b *Backend) Create(cfg plugin.Config) error {
	if cfg.ID == "" {
		return fmt.Errorf("create: %w: empty wallet id", plugin.ErrInvalidConfig)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.wallets[cfg.ID]; ok {
		return fmt.Errorf("create %s: %w", cfg.ID, plugin.ErrWalletAlreadyExists)
	}

	b.wallets[cfg.ID] = &memWallet{records: make(map[recordKey]plugin.Record)}

	return nil
}

// Open returns a new handle on the store of cfg.ID.
func (b *Backend) Open(cfg plugin.Config) (plugin.StoreHandle, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	w, ok := b.wallets[cfg.ID]
	if !ok {
		return 0, fmt.Errorf("open %s: %w", cfg.ID, plugin.ErrWalletNotFound)
	}

	b.next++
	h := plugin.StoreHandle(b.next)
	b.stores[h] = w

	return h, nil
}

// Close releases h and every search still open on it.
func (b *Backend) Close(h plugin.StoreHandle) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.stores[h]; !ok {
		return fmt.Errorf("close store %d: %w", h, plugin.ErrInvalidHandle)
	}

	b.searches.CloseStore(h)
	delete(b.stores, h)

	return nil
}

// Delete removes the store of cfg.ID and its records.
func (b *Backend) Delete(cfg plugin.Config) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.wallets[cfg.ID]; !ok {
		return fmt.Errorf("delete %s: %w", cfg.ID, plugin.ErrWalletNotFound)
	}

	delete(b.wallets, cfg.ID)

	return nil
}

func (b *Backend) wallet(h plugin.StoreHandle) (*memWallet, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	w, ok := b.stores[h]
	if !ok {
		return nil, fmt.Errorf("store %d: %w", h, plugin.ErrInvalidHandle)
	}

	return w, nil
}

// AddRecord stores rec. It fails with ErrDuplicateRecord when type and id are taken.
func (b *Backend) AddRecord(h plugin.StoreHandle, rec plugin.Record) error {
	w, err := b.wallet(h)
	if err != nil {
		return err
	}

	k := recordKey{typ: rec.Type, id: rec.ID}

	w.lock.Lock()
	defer w.lock.Unlock()

	if _, ok := w.records[k]; ok {
		return fmt.Errorf("add %s/%s: %w", rec.Type, rec.ID, plugin.ErrDuplicateRecord)
	}

	w.records[k] = clone(rec)

	return nil
}

// GetRecord returns a copy of the record.
func (b *Backend) GetRecord(h plugin.StoreHandle, typ, id string) (*plugin.Record, error) {
	w, err := b.wallet(h)
	if err != nil {
		return nil, err
	}

	w.lock.RLock()
	defer w.lock.RUnlock()

	rec, ok := w.records[recordKey{typ: typ, id: id}]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", typ, id, plugin.ErrRecordNotFound)
	}

	out := clone(rec)

	return &out, nil
}

// UpdateRecordValue replaces the value of a record.
func (b *Backend) UpdateRecordValue(h plugin.StoreHandle, typ, id string, value []byte) error {
	return b.mutate(h, typ, id, func(rec *plugin.Record) {
		rec.Value = append([]byte{}, value...)
	})
}

// DeleteRecord removes a record.
func (b *Backend) DeleteRecord(h plugin.StoreHandle, typ, id string) error {
	w, err := b.wallet(h)
	if err != nil {
		return err
	}

	k := recordKey{typ: typ, id: id}

	w.lock.Lock()
	defer w.lock.Unlock()

	if _, ok := w.records[k]; !ok {
		return fmt.Errorf("delete %s/%s: %w", typ, id, plugin.ErrRecordNotFound)
	}

	delete(w.records, k)

	return nil
}

// AddRecordTags merges tags into the record tags.
func (b *Backend) AddRecordTags(h plugin.StoreHandle, typ, id string, tags plugin.Tags) error {
	return b.mutate(h, typ, id, func(rec *plugin.Record) {
		for k, v := range tags {
			rec.Tags[k] = v
		}
	})
}

// UpdateRecordTags replaces the record tags.
func (b *Backend) UpdateRecordTags(h plugin.StoreHandle, typ, id string, tags plugin.Tags) error {
	return b.mutate(h, typ, id, func(rec *plugin.Record) {
		rec.Tags = cloneTags(tags)
	})
}

// DeleteRecordTags removes the named tags from the record.
func (b *Backend) DeleteRecordTags(h plugin.StoreHandle, typ, id string, names []string) error {
	return b.mutate(h, typ, id, func(rec *plugin.Record) {
		for _, n := range names {
			delete(rec.Tags, n)
		}
	})
}

func (b *Backend) mutate(h plugin.StoreHandle, typ, id string, fn func(rec *plugin.Record)) error {
	w, err := b.wallet(h)
	if err != nil {
		return err
	}

	k := recordKey{typ: typ, id: id}

	w.lock.Lock()
	defer w.lock.Unlock()

	rec, ok := w.records[k]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", typ, id, plugin.ErrRecordNotFound)
	}

	fn(&rec)
	w.records[k] = rec

	return nil
}

// OpenSearch snapshots the records of typ matching query.
func (b *Backend) OpenSearch(h plugin.StoreHandle, typ, query string,
	opts plugin.SearchOptions) (plugin.SearchHandle, error) {
	recs, err := b.snapshot(h)
	if err != nil {
		return 0, err
	}

	recs, err = plugin.Filter(recs, typ, query)
	if err != nil {
		return 0, err
	}

	return b.openSearch(h, recs, opts)
}

// OpenSearchAll snapshots every record of the store.
func (b *Backend) OpenSearchAll(h plugin.StoreHandle) (plugin.SearchHandle, error) {
	recs, err := b.snapshot(h)
	if err != nil {
		return 0, err
	}

	return b.openSearch(h, recs, plugin.SearchOptions{RetrieveRecords: true})
}

func (b *Backend) snapshot(h plugin.StoreHandle) ([]plugin.Record, error) {
	w, err := b.wallet(h)
	if err != nil {
		return nil, err
	}

	w.lock.RLock()
	defer w.lock.RUnlock()

	recs := make([]plugin.Record, 0, len(w.records))
	for _, rec := range w.records {
		recs = append(recs, clone(rec))
	}

	return recs, nil
}

func (b *Backend) openSearch(h plugin.StoreHandle, recs []plugin.Record,
	opts plugin.SearchOptions) (plugin.SearchHandle, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if _, ok := b.stores[h]; !ok {
		return 0, fmt.Errorf("store %d: %w", h, plugin.ErrInvalidHandle)
	}

	return b.searches.Open(h, recs, opts), nil
}

// FetchNext returns the next record of the snapshot.
func (b *Backend) FetchNext(sh plugin.SearchHandle) (*plugin.Record, bool, error) {
	return b.searches.Next(sh)
}

// SearchTotalCount returns the snapshot size when the search was opened with RetrieveTotalCount.
func (b *Backend) SearchTotalCount(sh plugin.SearchHandle) (int, error) {
	return b.searches.Count(sh)
}

// CloseSearch releases the search.
func (b *Backend) CloseSearch(sh plugin.SearchHandle) error {
	return b.searches.Close(sh)
}

func clone(rec plugin.Record) plugin.Record {
	return plugin.Record{
		Type:  rec.Type,
		ID:    rec.ID,
		Value: append([]byte{}, rec.Value...),
		Tags:  cloneTags(rec.Tags),
	}
}

func cloneTags(tags plugin.Tags) plugin.Tags {
	out := make(plugin.Tags, len(tags))
	for k, v := range tags {
		out[k] = v
	}

	return out
}
