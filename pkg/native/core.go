/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package native describes the boundary of the callback based identity core.
//
// Every entry point takes the command handle of the operation, its positional arguments and a completion
// callback. The returned Code only tells whether the command was accepted. When it is not Success the callback
// is never invoked for that handle. Otherwise the callback is invoked exactly once, from a goroutine owned by
// the core, with the final status and the output buffers.
package native

//go:generate mockgen -destination ../internal/gomocks/native/mocks.gen.go -package mocks . Core

import (
	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
)

// Buffer is an output buffer owned by the core. It is only valid until the callback returns.
type Buffer []byte

// WalletHandle identifies an opened wallet inside the core.
type WalletHandle int32

// SearchHandle identifies an open wallet search inside the core.
type SearchHandle int32

// Completion callbacks, one per result shape.
type (
	EmptyCB       func(h command.Handle, code indyerror.Code)
	BoolCB        func(h command.Handle, code indyerror.Code, v bool)
	HandleCB      func(h command.Handle, code indyerror.Code, v int32)
	StringCB      func(h command.Handle, code indyerror.Code, s Buffer)
	StringPairCB  func(h command.Handle, code indyerror.Code, first, second Buffer)
	StringBytesCB func(h command.Handle, code indyerror.Code, s, data Buffer)
	BytesCB       func(h command.Handle, code indyerror.Code, data Buffer)
	BytesNonceCB  func(h command.Handle, code indyerror.Code, data, nonce Buffer)
)

// HandleSource is implemented by cores that issue the command handles of their clients.
//
// Error details are kept per handle inside a core, so every client of one core must draw its handles from the
// same registry.
type HandleSource interface {
	Commands() *command.Registry
}

// Wallet lifecycle entry points.
type Wallet interface {
	RegisterWalletType(h command.Handle, typeName string, backend plugin.Backend, cb EmptyCB) indyerror.Code
	CreateWallet(h command.Handle, config, credentials string, cb EmptyCB) indyerror.Code
	OpenWallet(h command.Handle, config, credentials string, cb HandleCB) indyerror.Code
	CloseWallet(h command.Handle, wallet WalletHandle, cb EmptyCB) indyerror.Code
	DeleteWallet(h command.Handle, config, credentials string, cb EmptyCB) indyerror.Code
}

// DID and key entry points.
type DID interface {
	CreateAndStoreMyDID(h command.Handle, wallet WalletHandle, didJSON string, cb StringPairCB) indyerror.Code
	KeyForLocalDID(h command.Handle, wallet WalletHandle, did string, cb StringCB) indyerror.Code
	CreateKey(h command.Handle, wallet WalletHandle, keyJSON string, cb StringCB) indyerror.Code
	SetKeyMetadata(h command.Handle, wallet WalletHandle, verkey, metadata string, cb EmptyCB) indyerror.Code
	GetKeyMetadata(h command.Handle, wallet WalletHandle, verkey string, cb StringCB) indyerror.Code
	ReplaceKeysStart(h command.Handle, wallet WalletHandle, did, keyJSON string, cb StringCB) indyerror.Code
	ReplaceKeysApply(h command.Handle, wallet WalletHandle, did string, cb EmptyCB) indyerror.Code
	StoreTheirDID(h command.Handle, wallet WalletHandle, identityJSON string, cb EmptyCB) indyerror.Code
	SetDIDMetadata(h command.Handle, wallet WalletHandle, did, metadata string, cb EmptyCB) indyerror.Code
	GetDIDMetadata(h command.Handle, wallet WalletHandle, did string, cb StringCB) indyerror.Code
}

// Crypto entry points.
type Crypto interface {
	CryptoSign(h command.Handle, wallet WalletHandle, signerVerkey string, msg []byte, cb BytesCB) indyerror.Code
	CryptoVerify(h command.Handle, signerVerkey string, msg, signature []byte, cb BoolCB) indyerror.Code
	AuthCrypt(h command.Handle, wallet WalletHandle, senderVerkey, recipientVerkey string, msg []byte,
		cb BytesCB) indyerror.Code
	AuthDecrypt(h command.Handle, wallet WalletHandle, recipientVerkey string, encrypted []byte,
		cb StringBytesCB) indyerror.Code
	AnonCrypt(h command.Handle, recipientVerkey string, msg []byte, cb BytesCB) indyerror.Code
	AnonDecrypt(h command.Handle, wallet WalletHandle, recipientVerkey string, encrypted []byte,
		cb BytesCB) indyerror.Code
	CryptoBox(h command.Handle, wallet WalletHandle, myVerkey, theirVerkey string, msg []byte,
		cb BytesNonceCB) indyerror.Code
	CryptoBoxOpen(h command.Handle, wallet WalletHandle, myVerkey, theirVerkey string, encrypted, nonce []byte,
		cb BytesCB) indyerror.Code
}

// NonSecrets entry points manage application records inside a wallet.
type NonSecrets interface {
	AddWalletRecord(h command.Handle, wallet WalletHandle, typ, id, value, tagsJSON string,
		cb EmptyCB) indyerror.Code
	UpdateWalletRecordValue(h command.Handle, wallet WalletHandle, typ, id, value string, cb EmptyCB) indyerror.Code
	UpdateWalletRecordTags(h command.Handle, wallet WalletHandle, typ, id, tagsJSON string,
		cb EmptyCB) indyerror.Code
	AddWalletRecordTags(h command.Handle, wallet WalletHandle, typ, id, tagsJSON string, cb EmptyCB) indyerror.Code
	DeleteWalletRecordTags(h command.Handle, wallet WalletHandle, typ, id, tagNamesJSON string,
		cb EmptyCB) indyerror.Code
	DeleteWalletRecord(h command.Handle, wallet WalletHandle, typ, id string, cb EmptyCB) indyerror.Code
	GetWalletRecord(h command.Handle, wallet WalletHandle, typ, id, optionsJSON string, cb StringCB) indyerror.Code
	OpenWalletSearch(h command.Handle, wallet WalletHandle, typ, queryJSON, optionsJSON string,
		cb HandleCB) indyerror.Code
	FetchWalletSearchNextRecords(h command.Handle, wallet WalletHandle, search SearchHandle, count int,
		cb StringCB) indyerror.Code
	CloseWalletSearch(h command.Handle, search SearchHandle, cb EmptyCB) indyerror.Code
}

// Core is the complete set of native entry points.
type Core interface {
	Wallet
	DID
	Crypto
	NonSecrets

	// ErrorDetails returns and forgets the JSON error document recorded for the last failure of h.
	// It returns an empty string when nothing was recorded.
	ErrorDetails(h command.Handle) string
}
