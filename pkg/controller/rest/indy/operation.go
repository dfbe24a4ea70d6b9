/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package indy

import (
	"io"
	"net/http"

	"github.com/hyperledger/indy-sdk-go/pkg/controller/command"
	cmdindy "github.com/hyperledger/indy-sdk-go/pkg/controller/command/indy"
	"github.com/hyperledger/indy-sdk-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/indy-sdk-go/pkg/controller/rest"
)

// constants for indy operations.
const (
	WalletOperationID = "/wallet"
	CreateWalletPath  = WalletOperationID + "/create"
	OpenWalletPath    = WalletOperationID + "/open"
	CloseWalletPath   = WalletOperationID + "/close"
	DeleteWalletPath  = WalletOperationID + "/delete"

	DIDOperationID = "/did"
	CreateDIDPath  = DIDOperationID + "/create"

	CryptoOperationID = "/crypto"
	SignPath          = CryptoOperationID + "/sign"
	VerifyPath        = CryptoOperationID + "/verify"
	AnonCryptPath     = CryptoOperationID + "/anoncrypt"
	AnonDecryptPath   = CryptoOperationID + "/anondecrypt"

	RecordsOperationID = "/records"
	AddRecordPath      = RecordsOperationID + "/add"
	GetRecordPath      = RecordsOperationID + "/get"
	DeleteRecordPath   = RecordsOperationID + "/delete"
	SearchRecordsPath  = RecordsOperationID + "/search"
)

type indyCommand interface {
	CreateWallet(rw io.Writer, req io.Reader) command.Error
	OpenWallet(rw io.Writer, req io.Reader) command.Error
	CloseWallet(rw io.Writer, req io.Reader) command.Error
	DeleteWallet(rw io.Writer, req io.Reader) command.Error
	CreateDID(rw io.Writer, req io.Reader) command.Error
	Sign(rw io.Writer, req io.Reader) command.Error
	Verify(rw io.Writer, req io.Reader) command.Error
	AnonCrypt(rw io.Writer, req io.Reader) command.Error
	AnonDecrypt(rw io.Writer, req io.Reader) command.Error
	AddRecord(rw io.Writer, req io.Reader) command.Error
	GetRecord(rw io.Writer, req io.Reader) command.Error
	DeleteRecord(rw io.Writer, req io.Reader) command.Error
	SearchRecords(rw io.Writer, req io.Reader) command.Error
}

// Operation contains the wallet, DID, crypto and record operations provided by the controller REST API.
type Operation struct {
	handlers []rest.Handler
	command  indyCommand
}

// New returns new indy operations rest client instance.
func New(client cmdindy.Client) *Operation {
	o := &Operation{command: cmdindy.New(client)}
	o.registerHandler()

	return o
}

// GetRESTHandlers get all controller API handler available for this service.
func (o *Operation) GetRESTHandlers() []rest.Handler {
	return o.handlers
}

// registerHandler register handlers to be exposed from this service as REST API endpoints.
func (o *Operation) registerHandler() {
	o.handlers = []rest.Handler{
		cmdutil.NewHTTPHandler(CreateWalletPath, http.MethodPost, o.CreateWallet),
		cmdutil.NewHTTPHandler(OpenWalletPath, http.MethodPost, o.OpenWallet),
		cmdutil.NewHTTPHandler(CloseWalletPath, http.MethodPost, o.CloseWallet),
		cmdutil.NewHTTPHandler(DeleteWalletPath, http.MethodPost, o.DeleteWallet),
		cmdutil.NewHTTPHandler(CreateDIDPath, http.MethodPost, o.CreateDID),
		cmdutil.NewHTTPHandler(SignPath, http.MethodPost, o.Sign),
		cmdutil.NewHTTPHandler(VerifyPath, http.MethodPost, o.Verify),
		cmdutil.NewHTTPHandler(AnonCryptPath, http.MethodPost, o.AnonCrypt),
		cmdutil.NewHTTPHandler(AnonDecryptPath, http.MethodPost, o.AnonDecrypt),
		cmdutil.NewHTTPHandler(AddRecordPath, http.MethodPost, o.AddRecord),
		cmdutil.NewHTTPHandler(GetRecordPath, http.MethodPost, o.GetRecord),
		cmdutil.NewHTTPHandler(DeleteRecordPath, http.MethodPost, o.DeleteRecord),
		cmdutil.NewHTTPHandler(SearchRecordsPath, http.MethodPost, o.SearchRecords),
	}
}

// CreateWallet swagger:route POST /wallet/create wallet createWallet
//
// Creates a wallet.
//
// Responses:
//    default: genericError
func (o *Operation) CreateWallet(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.CreateWallet, rw, req.Body)
}

// OpenWallet swagger:route POST /wallet/open wallet openWallet
//
// Opens a wallet and returns its handle.
//
// Responses:
//    default: genericError
//        200: openWalletRes
func (o *Operation) OpenWallet(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.OpenWallet, rw, req.Body)
}

// CloseWallet swagger:route POST /wallet/close wallet closeWallet
//
// Closes an open wallet.
//
// Responses:
//    default: genericError
func (o *Operation) CloseWallet(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.CloseWallet, rw, req.Body)
}

// DeleteWallet swagger:route POST /wallet/delete wallet deleteWallet
//
// Deletes a closed wallet.
//
// Responses:
//    default: genericError
func (o *Operation) DeleteWallet(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.DeleteWallet, rw, req.Body)
}

// CreateDID swagger:route POST /did/create did createDID
//
// Creates and stores a DID.
//
// Responses:
//    default: genericError
//        200: createDIDRes
func (o *Operation) CreateDID(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.CreateDID, rw, req.Body)
}

// Sign swagger:route POST /crypto/sign crypto sign
//
// Signs a message.
//
// Responses:
//    default: genericError
//        200: signRes
func (o *Operation) Sign(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Sign, rw, req.Body)
}

// Verify swagger:route POST /crypto/verify crypto verify
//
// Verifies a signature.
//
// Responses:
//    default: genericError
//        200: verifyRes
func (o *Operation) Verify(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Verify, rw, req.Body)
}

// AnonCrypt swagger:route POST /crypto/anoncrypt crypto anonCrypt
//
// Encrypts a message for a verkey.
//
// Responses:
//    default: genericError
//        200: anonCryptRes
func (o *Operation) AnonCrypt(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.AnonCrypt, rw, req.Body)
}

// AnonDecrypt swagger:route POST /crypto/anondecrypt crypto anonDecrypt
//
// Decrypts a message with a wallet key.
//
// Responses:
//    default: genericError
//        200: anonDecryptRes
func (o *Operation) AnonDecrypt(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.AnonDecrypt, rw, req.Body)
}

// AddRecord swagger:route POST /records/add records addRecord
//
// Adds a non-secret record.
//
// Responses:
//    default: genericError
func (o *Operation) AddRecord(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.AddRecord, rw, req.Body)
}

// GetRecord swagger:route POST /records/get records getRecord
//
// Returns a non-secret record.
//
// Responses:
//    default: genericError
//        200: recordRes
func (o *Operation) GetRecord(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetRecord, rw, req.Body)
}

// DeleteRecord swagger:route POST /records/delete records deleteRecord
//
// Deletes a non-secret record.
//
// Responses:
//    default: genericError
func (o *Operation) DeleteRecord(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.DeleteRecord, rw, req.Body)
}

// SearchRecords swagger:route POST /records/search records searchRecords
//
// Searches non-secret records with a WQL query.
//
// Responses:
//    default: genericError
//        200: searchRecordsRes
func (o *Operation) SearchRecords(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.SearchRecords, rw, req.Body)
}
