/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package inproc

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

// Record types the core keeps for itself. Applications can not use the prefix.
const (
	reservedTypePrefix = "Indy::"

	metadataType   = reservedTypePrefix + "Metadata"
	keyCheckID     = "key_check"
	keyType        = reservedTypePrefix + "Key"
	didType        = reservedTypePrefix + "Did"
	keyMetadataTyp = reservedTypePrefix + "KeyMetadata"
	temporaryDid   = reservedTypePrefix + "TemporaryDid"
	theirDidType   = reservedTypePrefix + "TheirDid"
	didMetadataTyp = reservedTypePrefix + "DidMetadata"
)

type walletConfig struct {
	ID            string                 `json:"id"`
	StorageType   string                 `json:"storage_type,omitempty"`
	StorageConfig map[string]interface{} `json:"storage_config,omitempty"`
}

type walletCredentials struct {
	Key                string                 `json:"key"`
	StorageCredentials map[string]interface{} `json:"storage_credentials,omitempty"`
}

func parseWalletConfig(config, credentials string) (*walletConfig, *walletCredentials, error) {
	var cfg walletConfig

	if err := json.Unmarshal([]byte(config), &cfg); err != nil {
		return nil, nil, errInvalidStructure("wallet config", err)
	}

	if cfg.ID == "" {
		return nil, nil, indyerror.Errorf(indyerror.CommonInvalidStructure, "wallet config has no id")
	}

	if cfg.StorageType == "" {
		cfg.StorageType = DefaultStorageType
	}

	var creds walletCredentials

	if err := json.Unmarshal([]byte(credentials), &creds); err != nil {
		return nil, nil, errInvalidStructure("wallet credentials", err)
	}

	if creds.Key == "" {
		return nil, nil, indyerror.Errorf(indyerror.CommonInvalidStructure, "wallet credentials have no key")
	}

	return &cfg, &creds, nil
}

func (cfg *walletConfig) storage(creds *walletCredentials) plugin.Config {
	return plugin.Config{ID: cfg.ID, StorageConfig: cfg.StorageConfig, Credentials: creds.StorageCredentials}
}

func keyCheck(key string) []byte {
	sum := blake2b.Sum256([]byte(key))

	return sum[:]
}

type openWallet struct {
	id      string
	backend plugin.Backend
	store   plugin.StoreHandle
}

type walletSearch struct {
	wallet *openWallet
	search plugin.SearchHandle
	opts   searchOptions
}

// walletService tracks opened wallets and their searches.
type walletService struct {
	plugins *plugin.Registry

	mu         sync.Mutex
	wallets    map[native.WalletHandle]*openWallet
	openIDs    map[string]struct{}
	searches   map[native.SearchHandle]*walletSearch
	nextWallet int32
	nextSearch int32
}

func newWalletService(plugins *plugin.Registry) *walletService {
	return &walletService{
		plugins:  plugins,
		wallets:  make(map[native.WalletHandle]*openWallet),
		openIDs:  make(map[string]struct{}),
		searches: make(map[native.SearchHandle]*walletSearch),
	}
}

func (s *walletService) create(cfg *walletConfig, creds *walletCredentials) error {
	backend, err := s.plugins.Lookup(cfg.StorageType)
	if err != nil {
		return err
	}

	sc := cfg.storage(creds)

	if err = backend.Create(sc); err != nil {
		return err
	}

	h, err := backend.Open(sc)
	if err != nil {
		return err
	}

	err = backend.AddRecord(h, plugin.Record{Type: metadataType, ID: keyCheckID, Value: keyCheck(creds.Key)})

	if closeErr := backend.Close(h); err == nil {
		err = closeErr
	}

	if err != nil {
		logger.Warnf("wallet %s created without key check: %s", cfg.ID, err)

		if delErr := backend.Delete(sc); delErr != nil {
			logger.Errorf("remove half created wallet %s: %s", cfg.ID, delErr)
		}

		return err
	}

	logger.Infof("created wallet %s of type %s", cfg.ID, cfg.StorageType)

	return nil
}

// openStore opens the store of cfg and verifies the wallet key.
func (s *walletService) openStore(cfg *walletConfig, creds *walletCredentials) (*openWallet, error) {
	backend, err := s.plugins.Lookup(cfg.StorageType)
	if err != nil {
		return nil, err
	}

	h, err := backend.Open(cfg.storage(creds))
	if err != nil {
		return nil, err
	}

	rec, err := backend.GetRecord(h, metadataType, keyCheckID)
	if err == nil && subtle.ConstantTimeCompare(rec.Value, keyCheck(creds.Key)) != 1 {
		err = plugin.ErrAccessFailed
	} else if errors.Is(err, plugin.ErrRecordNotFound) {
		err = plugin.ErrAccessFailed
	}

	if err != nil {
		if closeErr := backend.Close(h); closeErr != nil {
			logger.Warnf("close store of wallet %s: %s", cfg.ID, closeErr)
		}

		return nil, err
	}

	return &openWallet{id: cfg.ID, backend: backend, store: h}, nil
}

func (s *walletService) reserve(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.openIDs[id]; ok {
		return indyerror.Errorf(indyerror.WalletAlreadyOpenedError, "wallet %s is already opened", id)
	}

	s.openIDs[id] = struct{}{}

	return nil
}

func (s *walletService) release(id string) {
	s.mu.Lock()
	delete(s.openIDs, id)
	s.mu.Unlock()
}

func (s *walletService) open(cfg *walletConfig, creds *walletCredentials) (native.WalletHandle, error) {
	if err := s.reserve(cfg.ID); err != nil {
		return 0, err
	}

	w, err := s.openStore(cfg, creds)
	if err != nil {
		s.release(cfg.ID)

		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextWallet++
	h := native.WalletHandle(s.nextWallet)
	s.wallets[h] = w

	logger.Debugf("opened wallet %s as handle %d", cfg.ID, h)

	return h, nil
}

func (s *walletService) get(h native.WalletHandle) (*openWallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[h]
	if !ok {
		return nil, indyerror.Errorf(indyerror.WalletInvalidHandle, "wallet handle %d is not open", h)
	}

	return w, nil
}

// close releases the searches of the wallet before its store. It returns the closed instance.
func (s *walletService) close(h native.WalletHandle) (*openWallet, error) {
	s.mu.Lock()

	w, ok := s.wallets[h]
	if !ok {
		s.mu.Unlock()

		return nil, indyerror.Errorf(indyerror.WalletInvalidHandle, "wallet handle %d is not open", h)
	}

	delete(s.wallets, h)

	var searches []plugin.SearchHandle

	for sh, ws := range s.searches {
		if ws.wallet == w {
			searches = append(searches, ws.search)
			delete(s.searches, sh)
		}
	}

	s.mu.Unlock()

	for _, sh := range searches {
		if err := w.backend.CloseSearch(sh); err != nil && !errors.Is(err, plugin.ErrInvalidHandle) {
			logger.Warnf("close search of wallet %s: %s", w.id, err)
		}
	}

	err := w.backend.Close(w.store)

	s.release(w.id)

	logger.Debugf("closed wallet %s (handle %d, %d searches)", w.id, h, len(searches))

	return w, err
}

// delete holds the wallet id for its whole run, so the wallet can not be opened while it is removed.
func (s *walletService) delete(cfg *walletConfig, creds *walletCredentials) error {
	if err := s.reserve(cfg.ID); err != nil {
		return indyerror.Errorf(indyerror.CommonInvalidState, "wallet %s is opened", cfg.ID)
	}

	defer s.release(cfg.ID)

	w, err := s.openStore(cfg, creds)
	if err != nil {
		return err
	}

	if err = w.backend.Close(w.store); err != nil {
		return err
	}

	if err = w.backend.Delete(cfg.storage(creds)); err != nil {
		return err
	}

	logger.Infof("deleted wallet %s", cfg.ID)

	return nil
}

func (s *walletService) addSearch(w *openWallet, sh plugin.SearchHandle, opts searchOptions) native.SearchHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSearch++
	h := native.SearchHandle(s.nextSearch)
	s.searches[h] = &walletSearch{wallet: w, search: sh, opts: opts}

	return h
}

func (s *walletService) getSearch(wallet native.WalletHandle, h native.SearchHandle) (*walletSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[wallet]
	if !ok {
		return nil, indyerror.Errorf(indyerror.WalletInvalidHandle, "wallet handle %d is not open", wallet)
	}

	ws, ok := s.searches[h]
	if !ok || ws.wallet != w {
		return nil, indyerror.Errorf(indyerror.CommonInvalidState, "search handle %d is not open", h)
	}

	return ws, nil
}

func (s *walletService) closeSearch(h native.SearchHandle) error {
	s.mu.Lock()
	ws, ok := s.searches[h]
	delete(s.searches, h)
	s.mu.Unlock()

	if !ok {
		return indyerror.Errorf(indyerror.CommonInvalidState, "search handle %d is not open", h)
	}

	return ws.wallet.backend.CloseSearch(ws.search)
}

// RegisterWalletType binds typeName to backend in the plugin registry of the core.
func (c *Core) RegisterWalletType(h command.Handle, typeName string, backend plugin.Backend,
	cb native.EmptyCB) indyerror.Code {
	switch {
	case typeName == "":
		return c.reject(h, 2, "wallet type name is empty")
	case backend == nil:
		return c.reject(h, 3, "backend is nil")
	case cb == nil:
		return c.reject(h, 4, "%s", errNilCallback)
	}

	return c.runEmpty(h, cb, func() error {
		if err := c.plugins.Register(typeName, backend); err != nil {
			return err
		}

		logger.Infof("registered wallet type %s", typeName)

		return nil
	})
}

// CreateWallet creates a wallet from a {"id", "storage_type", "storage_config"} config and {"key"} credentials.
func (c *Core) CreateWallet(h command.Handle, config, credentials string, cb native.EmptyCB) indyerror.Code {
	cfg, creds, code := c.walletArgs(h, config, credentials, cb != nil)
	if code != indyerror.Success {
		return code
	}

	return c.runEmpty(h, cb, func() error {
		return c.wallets.create(cfg, creds)
	})
}

// OpenWallet opens a wallet. A wallet id can be open at most once at a time.
func (c *Core) OpenWallet(h command.Handle, config, credentials string, cb native.HandleCB) indyerror.Code {
	cfg, creds, code := c.walletArgs(h, config, credentials, cb != nil)
	if code != indyerror.Success {
		return code
	}

	return c.runHandle(h, cb, func() (int32, error) {
		wh, err := c.wallets.open(cfg, creds)

		return int32(wh), err
	})
}

// CloseWallet closes a wallet and every search opened on it.
func (c *Core) CloseWallet(h command.Handle, wallet native.WalletHandle, cb native.EmptyCB) indyerror.Code {
	if cb == nil {
		return c.reject(h, 3, "%s", errNilCallback)
	}

	return c.runEmpty(h, cb, func() error {
		w, err := c.wallets.close(wallet)
		if w != nil {
			c.forgetKeys(w)
		}

		return err
	})
}

// DeleteWallet deletes a wallet that is not open.
func (c *Core) DeleteWallet(h command.Handle, config, credentials string, cb native.EmptyCB) indyerror.Code {
	cfg, creds, code := c.walletArgs(h, config, credentials, cb != nil)
	if code != indyerror.Success {
		return code
	}

	return c.runEmpty(h, cb, func() error {
		return c.wallets.delete(cfg, creds)
	})
}

func (c *Core) walletArgs(h command.Handle, config, credentials string,
	hasCB bool) (*walletConfig, *walletCredentials, indyerror.Code) {
	switch {
	case strings.TrimSpace(config) == "":
		return nil, nil, c.reject(h, 2, "wallet config is empty")
	case strings.TrimSpace(credentials) == "":
		return nil, nil, c.reject(h, 3, "wallet credentials are empty")
	case !hasCB:
		return nil, nil, c.reject(h, 4, "%s", errNilCallback)
	}

	cfg, creds, err := parseWalletConfig(config, credentials)
	if err != nil {
		return nil, nil, c.fail(h, err)
	}

	return cfg, creds, indyerror.Success
}
