/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package inproc

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/btcsuite/btcutil/base58"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

const (
	ed25519Type   = "ed25519"
	verkeySuffix  = ":" + ed25519Type
	didKeyLength  = 16
	seedB64Length = 44
)

type keyInfo struct {
	Seed       string `json:"seed,omitempty"`
	CryptoType string `json:"crypto_type,omitempty"`
}

type didInfo struct {
	DID        string `json:"did,omitempty"`
	Seed       string `json:"seed,omitempty"`
	CryptoType string `json:"crypto_type,omitempty"`
	CID        bool   `json:"cid,omitempty"`
}

type keyRecord struct {
	Verkey  string `json:"verkey"`
	Signkey string `json:"signkey"`
}

type didRecord struct {
	DID    string `json:"did"`
	Verkey string `json:"verkey"`
}

// keyCacheKey scopes a cached signing key to the open wallet instance that read it from storage.
type keyCacheKey struct {
	wallet *openWallet
	verkey string
}

type keyMetadataRecord struct {
	Value string `json:"value"`
}

// seedBytes accepts a 32 character seed or its base64 form.
func seedBytes(seed string) ([]byte, error) {
	if len(seed) == ed25519.SeedSize {
		return []byte(seed), nil
	}

	if len(seed) == seedB64Length && strings.HasSuffix(seed, "=") {
		b, err := base64.StdEncoding.DecodeString(seed)
		if err == nil && len(b) == ed25519.SeedSize {
			return b, nil
		}
	}

	return nil, indyerror.Errorf(indyerror.CommonInvalidStructure, "seed must be %d bytes", ed25519.SeedSize)
}

func checkCryptoType(cryptoType string) error {
	if cryptoType != "" && cryptoType != ed25519Type {
		return indyerror.Errorf(indyerror.UnknownCryptoTypeError, "unknown crypto type %s", cryptoType)
	}

	return nil
}

func (c *Core) newKeyPair(seed, cryptoType string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	if err := checkCryptoType(cryptoType); err != nil {
		return nil, nil, err
	}

	if seed == "" {
		return ed25519.GenerateKey(c.rand)
	}

	b, err := seedBytes(seed)
	if err != nil {
		return nil, nil, err
	}

	priv := ed25519.NewKeyFromSeed(b)

	return priv.Public().(ed25519.PublicKey), priv, nil
}

// decodeVerkey returns the raw Ed25519 public key of a base58 verkey with an optional ":ed25519" suffix.
func decodeVerkey(verkey string) (string, ed25519.PublicKey, error) {
	if i := strings.IndexByte(verkey, ':'); i >= 0 {
		if verkey[i:] != verkeySuffix {
			return "", nil, indyerror.Errorf(indyerror.UnknownCryptoTypeError, "unknown crypto type %s", verkey[i+1:])
		}

		verkey = verkey[:i]
	}

	pub := base58.Decode(verkey)
	if len(pub) != ed25519.PublicKeySize {
		return "", nil, indyerror.Errorf(indyerror.CommonInvalidStructure, "invalid verkey %q", verkey)
	}

	return verkey, pub, nil
}

func (c *Core) storeKey(w *openWallet, pub ed25519.PublicKey, priv ed25519.PrivateKey) (string, error) {
	verkey := base58.Encode(pub)

	value, err := json.Marshal(keyRecord{Verkey: verkey, Signkey: base58.Encode(priv)})
	if err != nil {
		return "", err
	}

	if err = w.backend.AddRecord(w.store, plugin.Record{Type: keyType, ID: verkey, Value: value}); err != nil {
		return "", err
	}

	if err = c.keys.Set(keyCacheKey{wallet: w, verkey: verkey}, priv); err != nil {
		logger.Warnf("cache key %s: %s", verkey, err)
	}

	return verkey, nil
}

// signKey returns the private key of verkey stored in w.
func (c *Core) signKey(w *openWallet, verkey string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	verkey, pub, err := decodeVerkey(verkey)
	if err != nil {
		return nil, nil, err
	}

	cacheKey := keyCacheKey{wallet: w, verkey: verkey}

	if v, err := c.keys.Get(cacheKey); err == nil {
		return pub, v.(ed25519.PrivateKey), nil
	}

	rec, err := w.backend.GetRecord(w.store, keyType, verkey)
	if err != nil {
		return nil, nil, err
	}

	var kr keyRecord

	if err = json.Unmarshal(rec.Value, &kr); err != nil {
		return nil, nil, errInvalidStructure("key record", err)
	}

	priv := ed25519.PrivateKey(base58.Decode(kr.Signkey))
	if len(priv) != ed25519.PrivateKeySize {
		return nil, nil, indyerror.Errorf(indyerror.CommonInvalidState, "corrupted key record for %s", verkey)
	}

	if err = c.keys.Set(cacheKey, priv); err != nil {
		logger.Warnf("cache key %s: %s", verkey, err)
	}

	return pub, priv, nil
}

// getRecord decodes the JSON value of a core record into v.
func getRecord(w *openWallet, typ, id string, v interface{}) error {
	rec, err := w.backend.GetRecord(w.store, typ, id)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(rec.Value, v); err != nil {
		return errInvalidStructure(strings.TrimPrefix(typ, reservedTypePrefix)+" record", err)
	}

	return nil
}

// putRecord stores v as the JSON value of a core record, replacing any previous value.
func putRecord(w *openWallet, typ, id string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	err = w.backend.UpdateRecordValue(w.store, typ, id, value)
	if errors.Is(err, plugin.ErrRecordNotFound) {
		err = w.backend.AddRecord(w.store, plugin.Record{Type: typ, ID: id, Value: value})
	}

	return err
}

// forgetKeys drops the cached keys of a closed wallet instance.
func (c *Core) forgetKeys(w *openWallet) {
	for _, k := range c.keys.Keys(false) {
		if ck, ok := k.(keyCacheKey); ok && ck.wallet == w {
			c.keys.Remove(k)
		}
	}
}

func (c *Core) createDID(w *openWallet, info *didInfo) (string, string, error) {
	pub, priv, err := c.newKeyPair(info.Seed, info.CryptoType)
	if err != nil {
		return "", "", err
	}

	did := info.DID

	switch {
	case did != "":
	case info.CID:
		did = base58.Encode(pub)
	default:
		did = base58.Encode(pub[:didKeyLength])
	}

	if _, err = w.backend.GetRecord(w.store, didType, did); err == nil {
		return "", "", indyerror.Errorf(indyerror.DidAlreadyExists, "did %s already exists", did)
	} else if !errors.Is(err, plugin.ErrRecordNotFound) {
		return "", "", err
	}

	verkey, err := c.storeKey(w, pub, priv)
	if errors.Is(err, plugin.ErrDuplicateRecord) {
		verkey, err = base58.Encode(pub), nil
	}

	if err != nil {
		return "", "", err
	}

	value, err := json.Marshal(didRecord{DID: did, Verkey: verkey})
	if err != nil {
		return "", "", err
	}

	err = w.backend.AddRecord(w.store, plugin.Record{Type: didType, ID: did, Value: value})
	if errors.Is(err, plugin.ErrDuplicateRecord) {
		return "", "", indyerror.Errorf(indyerror.DidAlreadyExists, "did %s already exists", did)
	}

	return did, verkey, err
}

// CreateAndStoreMyDID creates a key pair and a DID for it. The callback receives the DID and the verkey.
func (c *Core) CreateAndStoreMyDID(h command.Handle, wallet native.WalletHandle, didJSON string,
	cb native.StringPairCB) indyerror.Code {
	if cb == nil {
		return c.reject(h, 4, "%s", errNilCallback)
	}

	info := &didInfo{}

	if strings.TrimSpace(didJSON) != "" {
		if err := json.Unmarshal([]byte(didJSON), info); err != nil {
			return c.fail(h, errInvalidStructure("did info", err))
		}
	}

	return c.runStringPair(h, cb, func() (string, string, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return "", "", err
		}

		return c.createDID(w, info)
	})
}

// KeyForLocalDID returns the verkey of a DID stored in the wallet, either one of ours or a stored their DID.
func (c *Core) KeyForLocalDID(h command.Handle, wallet native.WalletHandle, did string,
	cb native.StringCB) indyerror.Code {
	switch {
	case did == "":
		return c.reject(h, 3, "did is empty")
	case cb == nil:
		return c.reject(h, 4, "%s", errNilCallback)
	}

	return c.runString(h, cb, func() (string, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return "", err
		}

		var dr didRecord

		err = getRecord(w, didType, did, &dr)
		if errors.Is(err, plugin.ErrRecordNotFound) {
			err = getRecord(w, theirDidType, did, &dr)
		}

		return dr.Verkey, err
	})
}

// CreateKey creates a key pair in the wallet and returns its verkey.
func (c *Core) CreateKey(h command.Handle, wallet native.WalletHandle, keyJSON string,
	cb native.StringCB) indyerror.Code {
	if cb == nil {
		return c.reject(h, 4, "%s", errNilCallback)
	}

	info := &keyInfo{}

	if strings.TrimSpace(keyJSON) != "" {
		if err := json.Unmarshal([]byte(keyJSON), info); err != nil {
			return c.fail(h, errInvalidStructure("key info", err))
		}
	}

	return c.runString(h, cb, func() (string, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return "", err
		}

		pub, priv, err := c.newKeyPair(info.Seed, info.CryptoType)
		if err != nil {
			return "", err
		}

		return c.storeKey(w, pub, priv)
	})
}

// SetKeyMetadata replaces the metadata string of a verkey.
func (c *Core) SetKeyMetadata(h command.Handle, wallet native.WalletHandle, verkey, metadata string,
	cb native.EmptyCB) indyerror.Code {
	switch {
	case verkey == "":
		return c.reject(h, 3, "verkey is empty")
	case cb == nil:
		return c.reject(h, 5, "%s", errNilCallback)
	}

	return c.runEmpty(h, cb, func() error {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return err
		}

		verkey, _, err = decodeVerkey(verkey)
		if err != nil {
			return err
		}

		return putRecord(w, keyMetadataTyp, verkey, keyMetadataRecord{Value: metadata})
	})
}

// GetKeyMetadata returns the metadata string of a verkey.
func (c *Core) GetKeyMetadata(h command.Handle, wallet native.WalletHandle, verkey string,
	cb native.StringCB) indyerror.Code {
	switch {
	case verkey == "":
		return c.reject(h, 3, "verkey is empty")
	case cb == nil:
		return c.reject(h, 4, "%s", errNilCallback)
	}

	return c.runString(h, cb, func() (string, error) {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return "", err
		}

		verkey, _, err = decodeVerkey(verkey)
		if err != nil {
			return "", err
		}

		var md keyMetadataRecord

		if err = getRecord(w, keyMetadataTyp, verkey, &md); err != nil {
			return "", err
		}

		return md.Value, nil
	})
}
