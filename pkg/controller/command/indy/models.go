/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package indy

import "encoding/json"

// WalletRequest identifies a wallet by its config and credentials documents.
type WalletRequest struct {
	// wallet config, e.g. {"id":"alice","storage_type":"sqlite"}
	Config json.RawMessage `json:"config"`
	// wallet credentials, e.g. {"key":"secret"}
	Credentials json.RawMessage `json:"credentials"`
}

// WalletHandleRequest carries the handle of an open wallet.
type WalletHandleRequest struct {
	WalletHandle int32 `json:"walletHandle"`
}

// OpenWalletResponse model.
type OpenWalletResponse struct {
	WalletHandle int32 `json:"walletHandle"`
}

// CreateDIDRequest model.
type CreateDIDRequest struct {
	WalletHandle int32 `json:"walletHandle"`
	// optional DID, derived from the verkey when empty
	DID string `json:"did,omitempty"`
	// optional 32 byte seed, raw or base64
	Seed       string `json:"seed,omitempty"`
	CryptoType string `json:"cryptoType,omitempty"`
	CID        bool   `json:"cid,omitempty"`
}

// CreateDIDResponse model.
type CreateDIDResponse struct {
	DID    string `json:"did"`
	Verkey string `json:"verkey"`
}

// SignRequest model. Message is base64 encoded.
type SignRequest struct {
	WalletHandle int32  `json:"walletHandle"`
	Verkey       string `json:"verkey"`
	Message      []byte `json:"message"`
}

// SignResponse model.
type SignResponse struct {
	Signature []byte `json:"signature"`
}

// VerifyRequest model.
type VerifyRequest struct {
	Verkey    string `json:"verkey"`
	Message   []byte `json:"message"`
	Signature []byte `json:"signature"`
}

// VerifyResponse model.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// AnonCryptRequest model.
type AnonCryptRequest struct {
	Verkey  string `json:"verkey"`
	Message []byte `json:"message"`
}

// AnonCryptResponse model.
type AnonCryptResponse struct {
	Encrypted []byte `json:"encrypted"`
}

// AnonDecryptRequest model.
type AnonDecryptRequest struct {
	WalletHandle int32  `json:"walletHandle"`
	Verkey       string `json:"verkey"`
	Encrypted    []byte `json:"encrypted"`
}

// AnonDecryptResponse model.
type AnonDecryptResponse struct {
	Message []byte `json:"message"`
}

// RecordOptions selects the record fields returned by GetRecord and SearchRecords.
type RecordOptions struct {
	RetrieveType  bool `json:"retrieveType"`
	RetrieveValue bool `json:"retrieveValue"`
	RetrieveTags  bool `json:"retrieveTags"`
}

// AddRecordRequest model.
type AddRecordRequest struct {
	WalletHandle int32             `json:"walletHandle"`
	Type         string            `json:"type"`
	ID           string            `json:"id"`
	Value        string            `json:"value"`
	Tags         map[string]string `json:"tags,omitempty"`
}

// RecordRequest addresses a single record.
type RecordRequest struct {
	WalletHandle int32          `json:"walletHandle"`
	Type         string         `json:"type"`
	ID           string         `json:"id"`
	Options      *RecordOptions `json:"options,omitempty"`
}

// Record is a non-secret wallet record.
type Record struct {
	ID    string            `json:"id"`
	Type  string            `json:"type,omitempty"`
	Value string            `json:"value,omitempty"`
	Tags  map[string]string `json:"tags,omitempty"`
}

// SearchRecordsRequest model. Query is a WQL document.
type SearchRecordsRequest struct {
	WalletHandle int32           `json:"walletHandle"`
	Type         string          `json:"type"`
	Query        json.RawMessage `json:"query,omitempty"`
	Count        int             `json:"count"`
	Options      *SearchOptions  `json:"options,omitempty"`
}

// SearchOptions model.
type SearchOptions struct {
	RecordOptions
	RetrieveTotalCount bool `json:"retrieveTotalCount"`
}

// SearchRecordsResponse model.
type SearchRecordsResponse struct {
	TotalCount *int     `json:"totalCount,omitempty"`
	Records    []Record `json:"records"`
}
