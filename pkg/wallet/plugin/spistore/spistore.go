/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package spistore adapts any aries storage provider into a wallet storage backend.
//
// Each wallet lives in the provider store named "indywallet_<id>". Records are kept as JSON envelopes under the key
// <type>.<id> (both base64url encoded) and carry one spi tag holding the encoded record type, so a search of one type
// is a single provider query. WQL is evaluated on the envelope tags.
package spistore

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	spi "github.com/hyperledger/aries-framework-go/spi/storage"
	pkgerrors "github.com/pkg/errors"

	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

const (
	storePrefix        = "indywallet_"
	walletMarkerKey    = "indywallet"
	defaultTypeTagName = "indytype"
)

var encoding = base64.RawURLEncoding

type envelope struct {
	Type  string      `json:"type"`
	ID    string      `json:"id"`
	Value []byte      `json:"value"`
	Tags  plugin.Tags `json:"tags,omitempty"`
}

// Option configures the backend.
type Option func(opts *Backend)

// WithTypeTagName sets the spi tag name used to index record types.
func WithTypeTagName(name string) Option {
	return func(opts *Backend) {
		opts.typeTag = name
	}
}

type store struct {
	lock sync.RWMutex
	spi  spi.Store
}

// Backend implements plugin.Backend on a spi.Provider.
type Backend struct {
	provider spi.Provider
	typeTag  string

	lock     sync.RWMutex
	stores   map[plugin.StoreHandle]*store
	next     int32
	searches plugin.Searches
}

// New returns a backend storing wallets in provider. A nil provider selects an in-memory provider.
func New(provider spi.Provider, opts ...Option) *Backend {
	if provider == nil {
		provider = mem.NewProvider()
	}

	b := &Backend{
		provider: provider,
		typeTag:  defaultTypeTagName,
		stores:   make(map[plugin.StoreHandle]*store),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Backend) openStore(cfg plugin.Config) (spi.Store, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("%w: empty wallet id", plugin.ErrInvalidConfig)
	}

	s, err := b.provider.OpenStore(storePrefix + cfg.ID)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open provider store for wallet %s", cfg.ID)
	}

	return s, nil
}

func exists(s spi.Store) (bool, error) {
	_, err := s.Get(walletMarkerKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, spi.ErrDataNotFound):
		return false, nil
	default:
		return false, pkgerrors.Wrap(err, "read wallet marker")
	}
}

// Create writes the wallet marker into a fresh provider store.
func (b *Backend) Create(cfg plugin.Config) error {
	s, err := b.openStore(cfg)
	if err != nil {
		return err
	}

	ok, err := exists(s)
	if err != nil {
		return err
	}

	if ok {
		return fmt.Errorf("create %s: %w", cfg.ID, plugin.ErrWalletAlreadyExists)
	}

	err = b.provider.SetStoreConfig(storePrefix+cfg.ID, spi.StoreConfiguration{TagNames: []string{b.typeTag}})
	if err != nil {
		return pkgerrors.Wrapf(err, "configure provider store for wallet %s", cfg.ID)
	}

	return pkgerrors.Wrap(s.Put(walletMarkerKey, []byte(cfg.ID)), "write wallet marker")
}

// Open returns a handle on an existing wallet.
func (b *Backend) Open(cfg plugin.Config) (plugin.StoreHandle, error) {
	s, err := b.openStore(cfg)
	if err != nil {
		return 0, err
	}

	ok, err := exists(s)
	if err != nil {
		return 0, err
	}

	if !ok {
		return 0, fmt.Errorf("open %s: %w", cfg.ID, plugin.ErrWalletNotFound)
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.next++
	h := plugin.StoreHandle(b.next)
	b.stores[h] = &store{spi: s}

	return h, nil
}

// Close releases h and its searches. The provider store stays open for other handles.
func (b *Backend) Close(h plugin.StoreHandle) error {
	b.lock.Lock()
	_, ok := b.stores[h]
	delete(b.stores, h)
	b.lock.Unlock()

	if !ok {
		return fmt.Errorf("close store %d: %w", h, plugin.ErrInvalidHandle)
	}

	b.searches.CloseStore(h)

	return nil
}

// Delete removes every record and the wallet marker.
func (b *Backend) Delete(cfg plugin.Config) error {
	s, err := b.openStore(cfg)
	if err != nil {
		return err
	}

	ok, err := exists(s)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("delete %s: %w", cfg.ID, plugin.ErrWalletNotFound)
	}

	envs, err := b.query(s, b.typeTag)
	if err != nil {
		return err
	}

	ops := make([]spi.Operation, 0, len(envs)+1)
	for _, env := range envs {
		ops = append(ops, spi.Operation{Key: key(env.Type, env.ID)})
	}

	ops = append(ops, spi.Operation{Key: walletMarkerKey})

	return pkgerrors.Wrapf(s.Batch(ops), "delete wallet %s", cfg.ID)
}

func key(typ, id string) string {
	return encoding.EncodeToString([]byte(typ)) + "." + encoding.EncodeToString([]byte(id))
}

func (b *Backend) store(h plugin.StoreHandle) (*store, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	s, ok := b.stores[h]
	if !ok {
		return nil, fmt.Errorf("store %d: %w", h, plugin.ErrInvalidHandle)
	}

	return s, nil
}

func get(s spi.Store, typ, id string) (*envelope, error) {
	raw, err := s.Get(key(typ, id))
	if errors.Is(err, spi.ErrDataNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", typ, id, plugin.ErrRecordNotFound)
	}

	if err != nil {
		return nil, pkgerrors.Wrapf(err, "get %s/%s", typ, id)
	}

	env := &envelope{}
	if err = json.Unmarshal(raw, env); err != nil {
		return nil, pkgerrors.Wrapf(err, "decode %s/%s", typ, id)
	}

	if env.Tags == nil {
		env.Tags = plugin.Tags{}
	}

	return env, nil
}

func (b *Backend) put(s spi.Store, env *envelope) error {
	if env.Value == nil {
		env.Value = []byte{}
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return pkgerrors.Wrap(err, "encode record")
	}

	tag := spi.Tag{Name: b.typeTag, Value: encoding.EncodeToString([]byte(env.Type))}

	return pkgerrors.Wrapf(s.Put(key(env.Type, env.ID), raw, tag), "put %s/%s", env.Type, env.ID)
}

// AddRecord stores rec unless its type and id are taken.
func (b *Backend) AddRecord(h plugin.StoreHandle, rec plugin.Record) error {
	s, err := b.store(h)
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, err = get(s.spi, rec.Type, rec.ID); err == nil {
		return fmt.Errorf("add %s/%s: %w", rec.Type, rec.ID, plugin.ErrDuplicateRecord)
	} else if !errors.Is(err, plugin.ErrRecordNotFound) {
		return err
	}

	return b.put(s.spi, &envelope{Type: rec.Type, ID: rec.ID, Value: rec.Value, Tags: rec.Tags})
}

// GetRecord reads a record.
func (b *Backend) GetRecord(h plugin.StoreHandle, typ, id string) (*plugin.Record, error) {
	s, err := b.store(h)
	if err != nil {
		return nil, err
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	env, err := get(s.spi, typ, id)
	if err != nil {
		return nil, err
	}

	return &plugin.Record{Type: env.Type, ID: env.ID, Value: env.Value, Tags: env.Tags}, nil
}

func (b *Backend) mutate(h plugin.StoreHandle, typ, id string, fn func(env *envelope)) error {
	s, err := b.store(h)
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	env, err := get(s.spi, typ, id)
	if err != nil {
		return err
	}

	fn(env)

	return b.put(s.spi, env)
}

// UpdateRecordValue replaces the value of a record.
func (b *Backend) UpdateRecordValue(h plugin.StoreHandle, typ, id string, value []byte) error {
	return b.mutate(h, typ, id, func(env *envelope) {
		env.Value = value
	})
}

// DeleteRecord removes a record.
func (b *Backend) DeleteRecord(h plugin.StoreHandle, typ, id string) error {
	s, err := b.store(h)
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, err = get(s.spi, typ, id); err != nil {
		return err
	}

	return pkgerrors.Wrapf(s.spi.Delete(key(typ, id)), "delete %s/%s", typ, id)
}

// AddRecordTags merges tags into the record tags.
func (b *Backend) AddRecordTags(h plugin.StoreHandle, typ, id string, tags plugin.Tags) error {
	return b.mutate(h, typ, id, func(env *envelope) {
		for k, v := range tags {
			env.Tags[k] = v
		}
	})
}

// UpdateRecordTags replaces the record tags.
func (b *Backend) UpdateRecordTags(h plugin.StoreHandle, typ, id string, tags plugin.Tags) error {
	return b.mutate(h, typ, id, func(env *envelope) {
		env.Tags = tags
	})
}

// DeleteRecordTags removes the named tags.
func (b *Backend) DeleteRecordTags(h plugin.StoreHandle, typ, id string, names []string) error {
	return b.mutate(h, typ, id, func(env *envelope) {
		for _, n := range names {
			delete(env.Tags, n)
		}
	})
}

func (b *Backend) query(s spi.Store, expression string) ([]envelope, error) {
	it, err := s.Query(expression)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "query %s", expression)
	}

	defer it.Close() //nolint:errcheck

	var envs []envelope

	for {
		more, err := it.Next()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "iterate")
		}

		if !more {
			return envs, nil
		}

		raw, err := it.Value()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "read value")
		}

		var env envelope
		if err = json.Unmarshal(raw, &env); err != nil {
			return nil, pkgerrors.Wrap(err, "decode record")
		}

		envs = append(envs, env)
	}
}

func (b *Backend) load(h plugin.StoreHandle, expression string) ([]plugin.Record, error) {
	s, err := b.store(h)
	if err != nil {
		return nil, err
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	envs, err := b.query(s.spi, expression)
	if err != nil {
		return nil, err
	}

	recs := make([]plugin.Record, 0, len(envs))

	for _, env := range envs {
		if env.Tags == nil {
			env.Tags = plugin.Tags{}
		}

		recs = append(recs, plugin.Record{Type: env.Type, ID: env.ID, Value: env.Value, Tags: env.Tags})
	}

	return recs, nil
}

// OpenSearch queries the records of typ and keeps those matching the WQL query.
func (b *Backend) OpenSearch(h plugin.StoreHandle, typ, query string,
	opts plugin.SearchOptions) (plugin.SearchHandle, error) {
	recs, err := b.load(h, b.typeTag+":"+encoding.EncodeToString([]byte(typ)))
	if err != nil {
		return 0, err
	}

	recs, err = plugin.Filter(recs, typ, query)
	if err != nil {
		return 0, err
	}

	return b.searches.Open(h, recs, opts), nil
}

// OpenSearchAll queries every record of the wallet.
func (b *Backend) OpenSearchAll(h plugin.StoreHandle) (plugin.SearchHandle, error) {
	recs, err := b.load(h, b.typeTag)
	if err != nil {
		return 0, err
	}

	return b.searches.Open(h, recs, plugin.SearchOptions{RetrieveRecords: true}), nil
}

// FetchNext returns the next queried record.
func (b *Backend) FetchNext(sh plugin.SearchHandle) (*plugin.Record, bool, error) {
	return b.searches.Next(sh)
}

// SearchTotalCount returns the number of matches when the search was opened with RetrieveTotalCount.
func (b *Backend) SearchTotalCount(sh plugin.SearchHandle) (int, error) {
	return b.searches.Count(sh)
}

// CloseSearch releases the search.
func (b *Backend) CloseSearch(sh plugin.SearchHandle) error {
	return b.searches.Close(sh)
}
