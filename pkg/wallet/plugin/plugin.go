/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package plugin defines the storage backend protocol the identity core calls back into.
//
// A Backend is registered under a wallet type name. The core then creates, opens and deletes stores through it
// and performs all record, tag and search operations of a wallet on the StoreHandle it returned. Handles are
// minted by the backend and are only valid between their opening and closing calls.
//
// The core may call a backend from several goroutines at once, including for the same StoreHandle, so
// implementations must guard per-handle state themselves.
package plugin

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/wql"
)

// StoreHandle identifies an opened store inside one backend.
type StoreHandle int32

// SearchHandle identifies an open search inside one backend.
type SearchHandle int32

// Tags are the name/value pairs attached to a record. Names starting with '~' are plain text tags.
type Tags map[string]string

// Record is a wallet record as seen by a backend.
type Record struct {
	Type  string
	ID    string
	Value []byte
	Tags  Tags
}

// Config is the configuration a store is created, opened or deleted with.
type Config struct {
	// ID is the wallet id.
	ID string
	// StorageConfig is the backend specific storage_config document.
	StorageConfig map[string]interface{}
	// Credentials is the backend specific storage_credentials document.
	Credentials map[string]interface{}
}

// SearchOptions select what a search computes.
type SearchOptions struct {
	RetrieveRecords    bool
	RetrieveTotalCount bool
}

// Backend is a pluggable wallet storage engine.
type Backend interface {
	// Create creates a new store. It does not open it.
	Create(cfg Config) error
	Open(cfg Config) (StoreHandle, error)
	Close(h StoreHandle) error
	Delete(cfg Config) error

	AddRecord(h StoreHandle, rec Record) error
	GetRecord(h StoreHandle, typ, id string) (*Record, error)
	UpdateRecordValue(h StoreHandle, typ, id string, value []byte) error
	DeleteRecord(h StoreHandle, typ, id string) error

	AddRecordTags(h StoreHandle, typ, id string, tags Tags) error
	UpdateRecordTags(h StoreHandle, typ, id string, tags Tags) error
	DeleteRecordTags(h StoreHandle, typ, id string, names []string) error

	// OpenSearch starts a search over records of typ matching the WQL query.
	OpenSearch(h StoreHandle, typ, query string, opts SearchOptions) (SearchHandle, error)
	// OpenSearchAll starts a search over every record of the store.
	OpenSearchAll(h StoreHandle) (SearchHandle, error)
	// FetchNext returns the next record. It returns false once the search is exhausted.
	FetchNext(s SearchHandle) (*Record, bool, error)
	// SearchTotalCount returns the number of matching records or ErrCountUnsupported.
	SearchTotalCount(s SearchHandle) (int, error)
	CloseSearch(s SearchHandle) error
}

// Errors a backend reports to the core. Backends may wrap them.
var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrDuplicateRecord     = errors.New("record already exists")
	ErrInvalidHandle       = errors.New("handle is not open")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletAlreadyExists = errors.New("wallet already exists")
	ErrAccessFailed        = errors.New("wallet access failed")
	ErrInvalidConfig       = errors.New("invalid storage config")
	ErrCountUnsupported    = errors.New("search total count not supported")
)

// CodeOf maps an error returned by a backend to a native status code.
// Errors outside the protocol map to WalletStorageError.
func CodeOf(err error) indyerror.Code {
	var ie *indyerror.Error

	switch {
	case err == nil:
		return indyerror.Success
	case errors.As(err, &ie):
		return ie.Code
	case errors.Is(err, ErrRecordNotFound):
		return indyerror.WalletItemNotFound
	case errors.Is(err, ErrDuplicateRecord):
		return indyerror.WalletItemAlreadyExists
	case errors.Is(err, ErrInvalidHandle), errors.Is(err, ErrCountUnsupported):
		return indyerror.CommonInvalidState
	case errors.Is(err, ErrWalletNotFound):
		return indyerror.WalletNotFoundError
	case errors.Is(err, ErrWalletAlreadyExists):
		return indyerror.WalletAlreadyExistsError
	case errors.Is(err, ErrAccessFailed):
		return indyerror.WalletAccessFailed
	case errors.Is(err, ErrInvalidConfig):
		return indyerror.CommonInvalidStructure
	case errors.Is(err, wql.ErrQuery):
		return indyerror.WalletQueryError
	default:
		return indyerror.WalletStorageError
	}
}

// Registry maps wallet type names to backends. Names can not be removed or rebound once registered.
type Registry struct {
	mu       sync.Mutex
	backends map[string]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register binds name to b. A name that is already registered fails with the DuplicateBackendType kind.
func (r *Registry) Register(name string, b Backend) error {
	if name == "" {
		return indyerror.Errorf(indyerror.CommonInvalidParam2, "wallet type name is empty")
	}

	if b == nil {
		return indyerror.Errorf(indyerror.CommonInvalidParam3, "wallet type %s has no backend", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.backends[name]; ok {
		return indyerror.Errorf(indyerror.WalletTypeAlreadyRegistered, "wallet type %s is already registered", name)
	}

	r.backends[name] = b

	return nil
}

// Lookup returns the backend registered under name.
func (r *Registry) Lookup(name string) (Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.backends[name]
	if !ok {
		return nil, indyerror.Errorf(indyerror.WalletUnknownType, "unknown wallet type %s", name)
	}

	return b, nil
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	names := maps.Keys(r.backends)
	r.mu.Unlock()

	slices.Sort(names)

	return names
}

// String implements fmt.Stringer for log lines.
func (r *Registry) String() string {
	return fmt.Sprintf("wallet types %v", r.Names())
}
