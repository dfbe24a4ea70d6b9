/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package inproc

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"strings"

	"github.com/btcsuite/btcutil/base58"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

// abbreviatedPrefix marks a verkey that only carries the key bytes following the DID.
const abbreviatedPrefix = "~"

type theirDIDInfo struct {
	DID        string `json:"did"`
	Verkey     string `json:"verkey,omitempty"`
	CryptoType string `json:"crypto_type,omitempty"`
}

type didMetadataRecord struct {
	Value string `json:"value"`
}

// validateDID accepts a base58 DID of 16 bytes, or of 32 bytes when the DID is its own verkey.
func validateDID(did string) error {
	if n := len(base58.Decode(did)); n != didKeyLength && n != ed25519.PublicKeySize {
		return indyerror.Errorf(indyerror.CommonInvalidStructure, "invalid did %q", did)
	}

	return nil
}

// theirVerkey resolves the verkey of a their DID. A missing verkey means the DID is the verkey, and an
// abbreviated one is appended to the DID bytes.
func theirVerkey(info *theirDIDInfo) (string, error) {
	verkey := info.Verkey

	switch {
	case verkey == "":
		verkey = info.DID
	case strings.HasPrefix(verkey, abbreviatedPrefix):
		full := append(base58.Decode(info.DID), base58.Decode(verkey[len(abbreviatedPrefix):])...)
		verkey = base58.Encode(full)
	}

	verkey, _, err := decodeVerkey(verkey)

	return verkey, err
}

// myDID returns the stored record of one of our DIDs.
func myDID(w *openWallet, did string) (*didRecord, error) {
	dr := &didRecord{}

	if err := getRecord(w, didType, did, dr); err != nil {
		return nil, err
	}

	return dr, nil
}

// ReplaceKeysStart creates a new key pair for a DID of ours and keeps it pending until ReplaceKeysApply.
// The DID still resolves to its current verkey until then. The callback receives the new verkey.
func (c *Core) ReplaceKeysStart(h command.Handle, wallet native.WalletHandle, did, keyJSON string,
	cb native.StringCB) indyerror.Code {
	switch {
	case did == "":
		return c.reject(h, 3, "did is empty")
	case cb == nil:
		return c.reject(h, 5, "%s", errNilCallback)
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

		if _, err = myDID(w, did); err != nil {
			return "", err
		}

		pub, priv, err := c.newKeyPair(info.Seed, info.CryptoType)
		if err != nil {
			return "", err
		}

		verkey, err := c.storeKey(w, pub, priv)
		if errors.Is(err, plugin.ErrDuplicateRecord) {
			verkey, err = base58.Encode(pub), nil
		}

		if err != nil {
			return "", err
		}

		if err = putRecord(w, temporaryDid, did, didRecord{DID: did, Verkey: verkey}); err != nil {
			return "", err
		}

		logger.Debugf("started key rotation of did %s", did)

		return verkey, nil
	})
}

// ReplaceKeysApply makes the verkey of the pending rotation of did its current verkey.
func (c *Core) ReplaceKeysApply(h command.Handle, wallet native.WalletHandle, did string,
	cb native.EmptyCB) indyerror.Code {
	switch {
	case did == "":
		return c.reject(h, 3, "did is empty")
	case cb == nil:
		return c.reject(h, 4, "%s", errNilCallback)
	}

	return c.runEmpty(h, cb, func() error {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return err
		}

		if _, err = myDID(w, did); err != nil {
			return err
		}

		var pending didRecord

		if err = getRecord(w, temporaryDid, did, &pending); err != nil {
			return err
		}

		if err = putRecord(w, didType, did, pending); err != nil {
			return err
		}

		return w.backend.DeleteRecord(w.store, temporaryDid, did)
	})
}

// StoreTheirDID stores the DID and verkey of another party from identityJSON
// ({"did", "verkey", "crypto_type"}, verkey and crypto_type optional).
func (c *Core) StoreTheirDID(h command.Handle, wallet native.WalletHandle, identityJSON string,
	cb native.EmptyCB) indyerror.Code {
	if cb == nil {
		return c.reject(h, 4, "%s", errNilCallback)
	}

	var info theirDIDInfo

	if err := json.Unmarshal([]byte(identityJSON), &info); err != nil {
		return c.fail(h, errInvalidStructure("their did info", err))
	}

	if err := validateDID(info.DID); err != nil {
		return c.fail(h, err)
	}

	if err := checkCryptoType(info.CryptoType); err != nil {
		return c.fail(h, err)
	}

	return c.runEmpty(h, cb, func() error {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return err
		}

		verkey, err := theirVerkey(&info)
		if err != nil {
			return err
		}

		return putRecord(w, theirDidType, info.DID, didRecord{DID: info.DID, Verkey: verkey})
	})
}

// SetDIDMetadata replaces the metadata string of a DID.
func (c *Core) SetDIDMetadata(h command.Handle, wallet native.WalletHandle, did, metadata string,
	cb native.EmptyCB) indyerror.Code {
	switch {
	case did == "":
		return c.reject(h, 3, "did is empty")
	case cb == nil:
		return c.reject(h, 5, "%s", errNilCallback)
	}

	if err := validateDID(did); err != nil {
		return c.fail(h, err)
	}

	return c.runEmpty(h, cb, func() error {
		w, err := c.wallets.get(wallet)
		if err != nil {
			return err
		}

		return putRecord(w, didMetadataTyp, did, didMetadataRecord{Value: metadata})
	})
}

// GetDIDMetadata returns the metadata string of a DID.
func (c *Core) GetDIDMetadata(h command.Handle, wallet native.WalletHandle, did string,
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

		var md didMetadataRecord

		if err = getRecord(w, didMetadataTyp, did, &md); err != nil {
			return "", err
		}

		return md.Value, nil
	})
}
