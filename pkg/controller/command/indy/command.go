/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package indy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/indy-sdk-go/pkg/controller/command"
	"github.com/hyperledger/indy-sdk-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/indy-sdk-go/pkg/indy"
	"github.com/hyperledger/indy-sdk-go/pkg/internal/logutil"
)

var logger = log.New("indy-sdk/command/indy")

// Error codes.
const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.Common)
)

// wallet error codes.
const (
	CreateWalletError = command.Code(iota + command.Wallet)
	OpenWalletError
	CloseWalletError
	DeleteWalletError
)

// DID error codes.
const (
	CreateDIDError = command.Code(iota + command.DID)
)

// crypto error codes.
const (
	SignError = command.Code(iota + command.Crypto)
	VerifyError
	AnonCryptError
	AnonDecryptError
)

// record error codes.
const (
	AddRecordError = command.Code(iota + command.Records)
	GetRecordError
	DeleteRecordError
	SearchRecordsError
)

// constants for indy commands.
const (
	// command name.
	CommandName = "indy"

	// command methods.
	CreateWalletCommandMethod  = "CreateWallet"
	OpenWalletCommandMethod    = "OpenWallet"
	CloseWalletCommandMethod   = "CloseWallet"
	DeleteWalletCommandMethod  = "DeleteWallet"
	CreateDIDCommandMethod     = "CreateDID"
	SignCommandMethod          = "Sign"
	VerifyCommandMethod        = "Verify"
	AnonCryptCommandMethod     = "AnonCrypt"
	AnonDecryptCommandMethod   = "AnonDecrypt"
	AddRecordCommandMethod     = "AddRecord"
	GetRecordCommandMethod     = "GetRecord"
	DeleteRecordCommandMethod  = "DeleteRecord"
	SearchRecordsCommandMethod = "SearchRecords"

	// error messages.
	errEmptyConfig      = "wallet config is mandatory"
	errEmptyCredentials = "wallet credentials are mandatory"
	errEmptyVerkey      = "verkey is mandatory"
	errEmptyRecordType  = "record type is mandatory"
	errEmptyRecordID    = "record id is mandatory"
	errInvalidCount     = "count must be positive"
)

// Client is the part of the indy facade used by the command layer.
type Client interface {
	CreateWallet(ctx context.Context, config, credentials string) error
	OpenWallet(ctx context.Context, config, credentials string) (indy.WalletHandle, error)
	CloseWallet(ctx context.Context, wallet indy.WalletHandle) error
	DeleteWallet(ctx context.Context, config, credentials string) error
	CreateAndStoreMyDID(ctx context.Context, wallet indy.WalletHandle, didJSON string) (string, string, error)
	CryptoSign(ctx context.Context, wallet indy.WalletHandle, signerVerkey string, msg []byte) ([]byte, error)
	CryptoVerify(ctx context.Context, signerVerkey string, msg, signature []byte) (bool, error)
	AnonCrypt(ctx context.Context, recipientVerkey string, msg []byte) ([]byte, error)
	AnonDecrypt(ctx context.Context, wallet indy.WalletHandle, recipientVerkey string, encrypted []byte) ([]byte, error)
	AddWalletRecord(ctx context.Context, wallet indy.WalletHandle, typ, id, value, tagsJSON string) error
	GetWalletRecord(ctx context.Context, wallet indy.WalletHandle, typ, id, optionsJSON string) (string, error)
	DeleteWalletRecord(ctx context.Context, wallet indy.WalletHandle, typ, id string) error
	OpenWalletSearch(ctx context.Context, wallet indy.WalletHandle, typ, queryJSON,
		optionsJSON string) (indy.SearchHandle, error)
	FetchWalletSearchNextRecords(ctx context.Context, wallet indy.WalletHandle, search indy.SearchHandle,
		count int) (string, error)
	CloseWalletSearch(ctx context.Context, search indy.SearchHandle) error
}

// Command contains the wallet, DID, crypto and record operations of the indy controller.
type Command struct {
	client Client
}

// New returns new indy command instance.
func New(client Client) *Command {
	return &Command{client: client}
}

// GetHandlers returns list of all commands supported by this controller command.
func (o *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		cmdutil.NewCommandHandler(CommandName, CreateWalletCommandMethod, o.CreateWallet),
		cmdutil.NewCommandHandler(CommandName, OpenWalletCommandMethod, o.OpenWallet),
		cmdutil.NewCommandHandler(CommandName, CloseWalletCommandMethod, o.CloseWallet),
		cmdutil.NewCommandHandler(CommandName, DeleteWalletCommandMethod, o.DeleteWallet),
		cmdutil.NewCommandHandler(CommandName, CreateDIDCommandMethod, o.CreateDID),
		cmdutil.NewCommandHandler(CommandName, SignCommandMethod, o.Sign),
		cmdutil.NewCommandHandler(CommandName, VerifyCommandMethod, o.Verify),
		cmdutil.NewCommandHandler(CommandName, AnonCryptCommandMethod, o.AnonCrypt),
		cmdutil.NewCommandHandler(CommandName, AnonDecryptCommandMethod, o.AnonDecrypt),
		cmdutil.NewCommandHandler(CommandName, AddRecordCommandMethod, o.AddRecord),
		cmdutil.NewCommandHandler(CommandName, GetRecordCommandMethod, o.GetRecord),
		cmdutil.NewCommandHandler(CommandName, DeleteRecordCommandMethod, o.DeleteRecord),
		cmdutil.NewCommandHandler(CommandName, SearchRecordsCommandMethod, o.SearchRecords),
	}
}

func decode(req io.Reader, v interface{}, method string) command.Error {
	if req == nil {
		logutil.LogInfo(logger, CommandName, method, "empty request")
		return command.NewValidationError(InvalidRequestErrorCode, errors.New("empty request"))
	}

	if err := json.NewDecoder(req).Decode(v); err != nil {
		logutil.LogInfo(logger, CommandName, method, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("failed request decode : %w", err))
	}

	return nil
}

func invalid(method, msg string) command.Error {
	logutil.LogDebug(logger, CommandName, method, msg)

	return command.NewValidationError(InvalidRequestErrorCode, errors.New(msg))
}

func failed(method string, code command.Code, err error, data ...string) command.Error {
	logutil.LogError(logger, CommandName, method, err.Error(), data...)

	return command.NewExecuteError(code, err)
}

func walletArgs(request *WalletRequest, method string) command.Error {
	if len(request.Config) == 0 {
		return invalid(method, errEmptyConfig)
	}

	if len(request.Credentials) == 0 {
		return invalid(method, errEmptyCredentials)
	}

	return nil
}

func walletHandle(h int32) string {
	return logutil.CreateKeyValueString("walletHandle", fmt.Sprint(h))
}

// CreateWallet creates a wallet.
func (o *Command) CreateWallet(rw io.Writer, req io.Reader) command.Error {
	var request WalletRequest

	if err := decode(req, &request, CreateWalletCommandMethod); err != nil {
		return err
	}

	if err := walletArgs(&request, CreateWalletCommandMethod); err != nil {
		return err
	}

	err := o.client.CreateWallet(context.Background(), string(request.Config), string(request.Credentials))
	if err != nil {
		return failed(CreateWalletCommandMethod, CreateWalletError, err)
	}

	command.WriteResponse(rw, CreateWalletCommandMethod, nil, logger)

	logutil.LogDebug(logger, CommandName, CreateWalletCommandMethod, "success")

	return nil
}

// OpenWallet opens a wallet and returns its handle.
func (o *Command) OpenWallet(rw io.Writer, req io.Reader) command.Error {
	var request WalletRequest

	if err := decode(req, &request, OpenWalletCommandMethod); err != nil {
		return err
	}

	if err := walletArgs(&request, OpenWalletCommandMethod); err != nil {
		return err
	}

	h, err := o.client.OpenWallet(context.Background(), string(request.Config), string(request.Credentials))
	if err != nil {
		return failed(OpenWalletCommandMethod, OpenWalletError, err)
	}

	command.WriteResponse(rw, OpenWalletCommandMethod, &OpenWalletResponse{WalletHandle: int32(h)}, logger)

	logutil.LogDebug(logger, CommandName, OpenWalletCommandMethod, "success", walletHandle(int32(h)))

	return nil
}

// CloseWallet closes an open wallet.
func (o *Command) CloseWallet(rw io.Writer, req io.Reader) command.Error {
	var request WalletHandleRequest

	if err := decode(req, &request, CloseWalletCommandMethod); err != nil {
		return err
	}

	if err := o.client.CloseWallet(context.Background(), indy.WalletHandle(request.WalletHandle)); err != nil {
		return failed(CloseWalletCommandMethod, CloseWalletError, err, walletHandle(request.WalletHandle))
	}

	command.WriteResponse(rw, CloseWalletCommandMethod, nil, logger)

	logutil.LogDebug(logger, CommandName, CloseWalletCommandMethod, "success", walletHandle(request.WalletHandle))

	return nil
}

// DeleteWallet deletes a wallet that is not open.
func (o *Command) DeleteWallet(rw io.Writer, req io.Reader) command.Error {
	var request WalletRequest

	if err := decode(req, &request, DeleteWalletCommandMethod); err != nil {
		return err
	}

	if err := walletArgs(&request, DeleteWalletCommandMethod); err != nil {
		return err
	}

	err := o.client.DeleteWallet(context.Background(), string(request.Config), string(request.Credentials))
	if err != nil {
		return failed(DeleteWalletCommandMethod, DeleteWalletError, err)
	}

	command.WriteResponse(rw, DeleteWalletCommandMethod, nil, logger)

	logutil.LogDebug(logger, CommandName, DeleteWalletCommandMethod, "success")

	return nil
}

// CreateDID creates and stores a DID with its key pair.
func (o *Command) CreateDID(rw io.Writer, req io.Reader) command.Error {
	var request CreateDIDRequest

	if err := decode(req, &request, CreateDIDCommandMethod); err != nil {
		return err
	}

	info, err := json.Marshal(map[string]interface{}{
		"did":         request.DID,
		"seed":        request.Seed,
		"crypto_type": request.CryptoType,
		"cid":         request.CID,
	})
	if err != nil {
		return failed(CreateDIDCommandMethod, CreateDIDError, err)
	}

	did, verkey, err := o.client.CreateAndStoreMyDID(context.Background(),
		indy.WalletHandle(request.WalletHandle), string(info))
	if err != nil {
		return failed(CreateDIDCommandMethod, CreateDIDError, err, walletHandle(request.WalletHandle))
	}

	command.WriteResponse(rw, CreateDIDCommandMethod, &CreateDIDResponse{DID: did, Verkey: verkey}, logger)

	logutil.LogDebug(logger, CommandName, CreateDIDCommandMethod, "success",
		logutil.CreateKeyValueString("did", did))

	return nil
}

// Sign signs a message with the key of verkey.
func (o *Command) Sign(rw io.Writer, req io.Reader) command.Error {
	var request SignRequest

	if err := decode(req, &request, SignCommandMethod); err != nil {
		return err
	}

	if request.Verkey == "" {
		return invalid(SignCommandMethod, errEmptyVerkey)
	}

	sig, err := o.client.CryptoSign(context.Background(), indy.WalletHandle(request.WalletHandle),
		request.Verkey, request.Message)
	if err != nil {
		return failed(SignCommandMethod, SignError, err, logutil.CreateKeyValueString("verkey", request.Verkey))
	}

	command.WriteResponse(rw, SignCommandMethod, &SignResponse{Signature: sig}, logger)

	logutil.LogDebug(logger, CommandName, SignCommandMethod, "success")

	return nil
}

// Verify checks a signature against a message and verkey.
func (o *Command) Verify(rw io.Writer, req io.Reader) command.Error {
	var request VerifyRequest

	if err := decode(req, &request, VerifyCommandMethod); err != nil {
		return err
	}

	if request.Verkey == "" {
		return invalid(VerifyCommandMethod, errEmptyVerkey)
	}

	valid, err := o.client.CryptoVerify(context.Background(), request.Verkey, request.Message, request.Signature)
	if err != nil {
		return failed(VerifyCommandMethod, VerifyError, err, logutil.CreateKeyValueString("verkey", request.Verkey))
	}

	command.WriteResponse(rw, VerifyCommandMethod, &VerifyResponse{Valid: valid}, logger)

	logutil.LogDebug(logger, CommandName, VerifyCommandMethod, "success")

	return nil
}

// AnonCrypt encrypts a message for verkey.
func (o *Command) AnonCrypt(rw io.Writer, req io.Reader) command.Error {
	var request AnonCryptRequest

	if err := decode(req, &request, AnonCryptCommandMethod); err != nil {
		return err
	}

	if request.Verkey == "" {
		return invalid(AnonCryptCommandMethod, errEmptyVerkey)
	}

	encrypted, err := o.client.AnonCrypt(context.Background(), request.Verkey, request.Message)
	if err != nil {
		return failed(AnonCryptCommandMethod, AnonCryptError, err)
	}

	command.WriteResponse(rw, AnonCryptCommandMethod, &AnonCryptResponse{Encrypted: encrypted}, logger)

	logutil.LogDebug(logger, CommandName, AnonCryptCommandMethod, "success")

	return nil
}

// AnonDecrypt decrypts an anonymously encrypted message with a wallet key.
func (o *Command) AnonDecrypt(rw io.Writer, req io.Reader) command.Error {
	var request AnonDecryptRequest

	if err := decode(req, &request, AnonDecryptCommandMethod); err != nil {
		return err
	}

	if request.Verkey == "" {
		return invalid(AnonDecryptCommandMethod, errEmptyVerkey)
	}

	msg, err := o.client.AnonDecrypt(context.Background(), indy.WalletHandle(request.WalletHandle),
		request.Verkey, request.Encrypted)
	if err != nil {
		return failed(AnonDecryptCommandMethod, AnonDecryptError, err)
	}

	command.WriteResponse(rw, AnonDecryptCommandMethod, &AnonDecryptResponse{Message: msg}, logger)

	logutil.LogDebug(logger, CommandName, AnonDecryptCommandMethod, "success")

	return nil
}

func recordArgs(typ, id, method string) command.Error {
	if typ == "" {
		return invalid(method, errEmptyRecordType)
	}

	if id == "" {
		return invalid(method, errEmptyRecordID)
	}

	return nil
}

func recordKey(typ, id string) string {
	return logutil.CreateKeyValueString("record", typ+"/"+id)
}

// AddRecord adds a non-secret record.
func (o *Command) AddRecord(rw io.Writer, req io.Reader) command.Error {
	var request AddRecordRequest

	if err := decode(req, &request, AddRecordCommandMethod); err != nil {
		return err
	}

	if err := recordArgs(request.Type, request.ID, AddRecordCommandMethod); err != nil {
		return err
	}

	var tags string

	if len(request.Tags) > 0 {
		raw, err := json.Marshal(request.Tags)
		if err != nil {
			return failed(AddRecordCommandMethod, AddRecordError, err)
		}

		tags = string(raw)
	}

	err := o.client.AddWalletRecord(context.Background(), indy.WalletHandle(request.WalletHandle),
		request.Type, request.ID, request.Value, tags)
	if err != nil {
		return failed(AddRecordCommandMethod, AddRecordError, err, recordKey(request.Type, request.ID))
	}

	command.WriteResponse(rw, AddRecordCommandMethod, nil, logger)

	logutil.LogDebug(logger, CommandName, AddRecordCommandMethod, "success", recordKey(request.Type, request.ID))

	return nil
}

// GetRecord returns a non-secret record.
func (o *Command) GetRecord(rw io.Writer, req io.Reader) command.Error {
	var request RecordRequest

	if err := decode(req, &request, GetRecordCommandMethod); err != nil {
		return err
	}

	if err := recordArgs(request.Type, request.ID, GetRecordCommandMethod); err != nil {
		return err
	}

	var opts string

	if request.Options != nil {
		raw, err := json.Marshal(request.Options)
		if err != nil {
			return failed(GetRecordCommandMethod, GetRecordError, err)
		}

		opts = string(raw)
	}

	doc, err := o.client.GetWalletRecord(context.Background(), indy.WalletHandle(request.WalletHandle),
		request.Type, request.ID, opts)
	if err != nil {
		return failed(GetRecordCommandMethod, GetRecordError, err, recordKey(request.Type, request.ID))
	}

	var record Record

	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		return failed(GetRecordCommandMethod, GetRecordError, err, recordKey(request.Type, request.ID))
	}

	command.WriteResponse(rw, GetRecordCommandMethod, &record, logger)

	logutil.LogDebug(logger, CommandName, GetRecordCommandMethod, "success", recordKey(request.Type, request.ID))

	return nil
}

// DeleteRecord deletes a non-secret record.
func (o *Command) DeleteRecord(rw io.Writer, req io.Reader) command.Error {
	var request RecordRequest

	if err := decode(req, &request, DeleteRecordCommandMethod); err != nil {
		return err
	}

	if err := recordArgs(request.Type, request.ID, DeleteRecordCommandMethod); err != nil {
		return err
	}

	err := o.client.DeleteWalletRecord(context.Background(), indy.WalletHandle(request.WalletHandle),
		request.Type, request.ID)
	if err != nil {
		return failed(DeleteRecordCommandMethod, DeleteRecordError, err, recordKey(request.Type, request.ID))
	}

	command.WriteResponse(rw, DeleteRecordCommandMethod, nil, logger)

	logutil.LogDebug(logger, CommandName, DeleteRecordCommandMethod, "success", recordKey(request.Type, request.ID))

	return nil
}

// SearchRecords runs a WQL query and returns the first page of at most count records.
// The search is closed before returning.
func (o *Command) SearchRecords(rw io.Writer, req io.Reader) command.Error {
	var request SearchRecordsRequest

	if err := decode(req, &request, SearchRecordsCommandMethod); err != nil {
		return err
	}

	if request.Type == "" {
		return invalid(SearchRecordsCommandMethod, errEmptyRecordType)
	}

	if request.Count <= 0 {
		return invalid(SearchRecordsCommandMethod, errInvalidCount)
	}

	var opts string

	if request.Options != nil {
		raw, err := json.Marshal(map[string]bool{
			"retrieveRecords":    true,
			"retrieveType":       request.Options.RetrieveType,
			"retrieveValue":      request.Options.RetrieveValue,
			"retrieveTags":       request.Options.RetrieveTags,
			"retrieveTotalCount": request.Options.RetrieveTotalCount,
		})
		if err != nil {
			return failed(SearchRecordsCommandMethod, SearchRecordsError, err)
		}

		opts = string(raw)
	}

	ctx := context.Background()
	wallet := indy.WalletHandle(request.WalletHandle)

	search, err := o.client.OpenWalletSearch(ctx, wallet, request.Type, string(request.Query), opts)
	if err != nil {
		return failed(SearchRecordsCommandMethod, SearchRecordsError, err, walletHandle(request.WalletHandle))
	}

	defer func() {
		if closeErr := o.client.CloseWalletSearch(ctx, search); closeErr != nil {
			logutil.LogError(logger, CommandName, SearchRecordsCommandMethod, closeErr.Error())
		}
	}()

	doc, err := o.client.FetchWalletSearchNextRecords(ctx, wallet, search, request.Count)
	if err != nil {
		return failed(SearchRecordsCommandMethod, SearchRecordsError, err, walletHandle(request.WalletHandle))
	}

	var page SearchRecordsResponse

	if err := json.Unmarshal([]byte(doc), &page); err != nil {
		return failed(SearchRecordsCommandMethod, SearchRecordsError, err)
	}

	if page.Records == nil {
		page.Records = []Record{}
	}

	command.WriteResponse(rw, SearchRecordsCommandMethod, &page, logger)

	logutil.LogDebug(logger, CommandName, SearchRecordsCommandMethod, "success",
		logutil.CreateKeyValueString("records", fmt.Sprint(len(page.Records))))

	return nil
}
