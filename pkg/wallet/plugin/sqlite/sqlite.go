/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sqlite is a durable wallet storage backend keeping every wallet in its own SQLite database file,
// <path>/<wallet id>/sqlite.db. The path comes from the "path" key of storage_config and defaults to the
// directory the backend was created with.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/mitchellh/mapstructure"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

var logger = log.New("indy-sdk/wallet/sqlite")

const (
	dbFileName         = "sqlite.db"
	defaultBusyRetries = 5
	defaultBusyBackOff = 20 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	type  TEXT NOT NULL,
	name  TEXT NOT NULL,
	value BLOB NOT NULL,
	UNIQUE (type, name)
);

CREATE TABLE IF NOT EXISTS tags (
	item_id INTEGER NOT NULL REFERENCES items (id) ON DELETE CASCADE,
	name    TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (item_id, name)
);
`

// StorageConfig is the storage_config document understood by the backend.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// Option configures the backend.
type Option func(opts *Backend)

// WithBusyRetries sets how many times an operation is retried while the database is locked.
func WithBusyRetries(n uint64) Option {
	return func(opts *Backend) {
		opts.busyRetries = n
	}
}

// WithBusyBackOff sets the interval between retries of a locked database.
func WithBusyBackOff(d time.Duration) Option {
	return func(opts *Backend) {
		opts.busyBackOff = d
	}
}

type store struct {
	lock sync.Mutex
	db   *sql.DB
}

// Backend implements plugin.Backend on SQLite files.
type Backend struct {
	basePath    string
	busyRetries uint64
	busyBackOff time.Duration

	lock     sync.RWMutex
	stores   map[plugin.StoreHandle]*store
	next     int32
	searches plugin.Searches
}

// New returns a backend creating wallets under basePath unless a wallet config names another path.
func New(basePath string, opts ...Option) *Backend {
	b := &Backend{
		basePath:    basePath,
		busyRetries: defaultBusyRetries,
		busyBackOff: defaultBusyBackOff,
		stores:      make(map[plugin.StoreHandle]*store),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Backend) dir(cfg plugin.Config) (string, error) {
	if cfg.ID == "" || strings.ContainsAny(cfg.ID, `/\`) || cfg.ID == "." || cfg.ID == ".." {
		return "", fmt.Errorf("%w: invalid wallet id %q", plugin.ErrInvalidConfig, cfg.ID)
	}

	sc := StorageConfig{Path: b.basePath}

	if err := mapstructure.Decode(cfg.StorageConfig, &sc); err != nil {
		return "", fmt.Errorf("%w: %s", plugin.ErrInvalidConfig, err)
	}

	if sc.Path == "" {
		return "", fmt.Errorf("%w: no storage path", plugin.ErrInvalidConfig)
	}

	return filepath.Join(sc.Path, cfg.ID), nil
}

func (b *Backend) retry(op func() error) error {
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(b.busyBackOff), b.busyRetries)

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isBusy(err) {
			return backoff.Permanent(err)
		}

		if err != nil {
			logger.Debugf("database busy, retrying: %s", err)
		}

		return err
	}, policy)
}

func isBusy(err error) bool {
	msg := err.Error()

	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// pragmas are per connection
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=1000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close() //nolint:errcheck

			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return db, nil
}

// Create creates the wallet directory and database.
func (b *Backend) Create(cfg plugin.Config) error {
	dir, err := b.dir(cfg)
	if err != nil {
		return err
	}

	if _, err = os.Stat(dir); err == nil {
		return fmt.Errorf("create %s: %w", cfg.ID, plugin.ErrWalletAlreadyExists)
	}

	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create wallet directory: %w", err)
	}

	db, err := openDB(filepath.Join(dir, dbFileName))
	if err != nil {
		_ = os.RemoveAll(dir) //nolint:errcheck

		return err
	}

	defer db.Close() //nolint:errcheck

	if _, err = db.Exec(schema); err != nil {
		_ = os.RemoveAll(dir) //nolint:errcheck

		return fmt.Errorf("create schema: %w", err)
	}

	logger.Infof("created sqlite wallet %s at %s", cfg.ID, dir)

	return nil
}

// Open opens the wallet database.
func (b *Backend) Open(cfg plugin.Config) (plugin.StoreHandle, error) {
	dir, err := b.dir(cfg)
	if err != nil {
		return 0, err
	}

	path := filepath.Join(dir, dbFileName)

	if _, err = os.Stat(path); err != nil {
		return 0, fmt.Errorf("open %s: %w", cfg.ID, plugin.ErrWalletNotFound)
	}

	db, err := openDB(path)
	if err != nil {
		return 0, err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.next++
	h := plugin.StoreHandle(b.next)
	b.stores[h] = &store{db: db}

	return h, nil
}

// Close closes the database of h and every search still open on it.
func (b *Backend) Close(h plugin.StoreHandle) error {
	b.lock.Lock()
	s, ok := b.stores[h]
	delete(b.stores, h)
	b.lock.Unlock()

	if !ok {
		return fmt.Errorf("close store %d: %w", h, plugin.ErrInvalidHandle)
	}

	b.searches.CloseStore(h)

	s.lock.Lock()
	defer s.lock.Unlock()

	return s.db.Close()
}

// Delete removes the wallet directory.
func (b *Backend) Delete(cfg plugin.Config) error {
	dir, err := b.dir(cfg)
	if err != nil {
		return err
	}

	if _, err = os.Stat(dir); err != nil {
		return fmt.Errorf("delete %s: %w", cfg.ID, plugin.ErrWalletNotFound)
	}

	return os.RemoveAll(dir)
}

// tx runs fn in a transaction on the database of h, serialized with other writers of the same handle.
func (b *Backend) tx(h plugin.StoreHandle, fn func(tx *sql.Tx) error) error {
	b.lock.RLock()
	s, ok := b.stores[h]
	b.lock.RUnlock()

	if !ok {
		return fmt.Errorf("store %d: %w", h, plugin.ErrInvalidHandle)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	return b.retry(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if err = fn(tx); err != nil {
			_ = tx.Rollback() //nolint:errcheck

			return err
		}

		return tx.Commit()
	})
}

func itemID(tx *sql.Tx, typ, id string) (int64, error) {
	var rowID int64

	err := tx.QueryRow(`SELECT id FROM items WHERE type = ? AND name = ?`, typ, id).Scan(&rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s/%s: %w", typ, id, plugin.ErrRecordNotFound)
	}

	return rowID, err
}

func insertTags(tx *sql.Tx, rowID int64, tags plugin.Tags) error {
	for name, value := range tags {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO tags (item_id, name, value) VALUES (?, ?, ?)`,
			rowID, name, value); err != nil {
			return err
		}
	}

	return nil
}

// AddRecord inserts rec.
func (b *Backend) AddRecord(h plugin.StoreHandle, rec plugin.Record) error {
	return b.tx(h, func(tx *sql.Tx) error {
		value := rec.Value
		if value == nil {
			value = []byte{}
		}

		res, err := tx.Exec(`INSERT OR IGNORE INTO items (type, name, value) VALUES (?, ?, ?)`,
			rec.Type, rec.ID, value)
		if err != nil {
			return err
		}

		if n, _ := res.RowsAffected(); n == 0 { //nolint:errcheck
			return fmt.Errorf("add %s/%s: %w", rec.Type, rec.ID, plugin.ErrDuplicateRecord)
		}

		rowID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		return insertTags(tx, rowID, rec.Tags)
	})
}

// GetRecord reads a record with its tags.
func (b *Backend) GetRecord(h plugin.StoreHandle, typ, id string) (*plugin.Record, error) {
	var rec *plugin.Record

	err := b.tx(h, func(tx *sql.Tx) error {
		rowID, err := itemID(tx, typ, id)
		if err != nil {
			return err
		}

		rec = &plugin.Record{Type: typ, ID: id}

		if err = tx.QueryRow(`SELECT value FROM items WHERE id = ?`, rowID).Scan(&rec.Value); err != nil {
			return err
		}

		rec.Tags, err = readTags(tx, rowID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func readTags(tx *sql.Tx, rowID int64) (plugin.Tags, error) {
	rows, err := tx.Query(`SELECT name, value FROM tags WHERE item_id = ?`, rowID)
	if err != nil {
		return nil, err
	}

	defer rows.Close() //nolint:errcheck

	tags := plugin.Tags{}

	for rows.Next() {
		var name, value string
		if err = rows.Scan(&name, &value); err != nil {
			return nil, err
		}

		tags[name] = value
	}

	return tags, rows.Err()
}

// UpdateRecordValue replaces the value of a record.
func (b *Backend) UpdateRecordValue(h plugin.StoreHandle, typ, id string, value []byte) error {
	return b.withItem(h, typ, id, func(tx *sql.Tx, rowID int64) error {
		if value == nil {
			value = []byte{}
		}

		_, err := tx.Exec(`UPDATE items SET value = ? WHERE id = ?`, value, rowID)

		return err
	})
}

// DeleteRecord removes a record and its tags.
func (b *Backend) DeleteRecord(h plugin.StoreHandle, typ, id string) error {
	return b.withItem(h, typ, id, func(tx *sql.Tx, rowID int64) error {
		if _, err := tx.Exec(`DELETE FROM tags WHERE item_id = ?`, rowID); err != nil {
			return err
		}

		_, err := tx.Exec(`DELETE FROM items WHERE id = ?`, rowID)

		return err
	})
}

// AddRecordTags merges tags into the record tags.
func (b *Backend) AddRecordTags(h plugin.StoreHandle, typ, id string, tags plugin.Tags) error {
	return b.withItem(h, typ, id, func(tx *sql.Tx, rowID int64) error {
		return insertTags(tx, rowID, tags)
	})
}

// UpdateRecordTags replaces the record tags.
func (b *Backend) UpdateRecordTags(h plugin.StoreHandle, typ, id string, tags plugin.Tags) error {
	return b.withItem(h, typ, id, func(tx *sql.Tx, rowID int64) error {
		if _, err := tx.Exec(`DELETE FROM tags WHERE item_id = ?`, rowID); err != nil {
			return err
		}

		return insertTags(tx, rowID, tags)
	})
}

// DeleteRecordTags removes the named tags.
func (b *Backend) DeleteRecordTags(h plugin.StoreHandle, typ, id string, names []string) error {
	return b.withItem(h, typ, id, func(tx *sql.Tx, rowID int64) error {
		for _, name := range names {
			if _, err := tx.Exec(`DELETE FROM tags WHERE item_id = ? AND name = ?`, rowID, name); err != nil {
				return err
			}
		}

		return nil
	})
}

func (b *Backend) withItem(h plugin.StoreHandle, typ, id string, fn func(tx *sql.Tx, rowID int64) error) error {
	return b.tx(h, func(tx *sql.Tx) error {
		rowID, err := itemID(tx, typ, id)
		if err != nil {
			return err
		}

		return fn(tx, rowID)
	})
}

// OpenSearch loads the records of typ and keeps those matching query.
func (b *Backend) OpenSearch(h plugin.StoreHandle, typ, query string,
	opts plugin.SearchOptions) (plugin.SearchHandle, error) {
	recs, err := b.load(h, `SELECT id, type, name, value FROM items WHERE type = ?`, typ)
	if err != nil {
		return 0, err
	}

	recs, err = plugin.Filter(recs, typ, query)
	if err != nil {
		return 0, err
	}

	return b.openSearch(h, recs, opts)
}

// OpenSearchAll loads every record of the store.
func (b *Backend) OpenSearchAll(h plugin.StoreHandle) (plugin.SearchHandle, error) {
	recs, err := b.load(h, `SELECT id, type, name, value FROM items`)
	if err != nil {
		return 0, err
	}

	return b.openSearch(h, recs, plugin.SearchOptions{RetrieveRecords: true})
}

// openSearch registers the loaded records unless h was closed while they were read.
func (b *Backend) openSearch(h plugin.StoreHandle, recs []plugin.Record,
	opts plugin.SearchOptions) (plugin.SearchHandle, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if _, ok := b.stores[h]; !ok {
		return 0, fmt.Errorf("store %d: %w", h, plugin.ErrInvalidHandle)
	}

	return b.searches.Open(h, recs, opts), nil
}

func (b *Backend) load(h plugin.StoreHandle, query string, args ...interface{}) ([]plugin.Record, error) {
	var recs []plugin.Record

	err := b.tx(h, func(tx *sql.Tx) error {
		recs = nil

		rows, err := tx.Query(query, args...)
		if err != nil {
			return err
		}

		var ids []int64

		for rows.Next() {
			var (
				rowID int64
				rec   plugin.Record
			)

			if err = rows.Scan(&rowID, &rec.Type, &rec.ID, &rec.Value); err != nil {
				_ = rows.Close() //nolint:errcheck

				return err
			}

			ids = append(ids, rowID)
			recs = append(recs, rec)
		}

		if err = rows.Err(); err != nil {
			_ = rows.Close() //nolint:errcheck

			return err
		}

		if err = rows.Close(); err != nil {
			return err
		}

		for i, rowID := range ids {
			if recs[i].Tags, err = readTags(tx, rowID); err != nil {
				return err
			}
		}

		return nil
	})

	return recs, err
}

// FetchNext returns the next loaded record.
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
