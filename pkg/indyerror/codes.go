/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package indyerror

// Code is a status code returned by the native library, either synchronously from an entry point
// or asynchronously through a completion callback.
type Code int32

// Native status codes.
const (
	Success Code = 0

	CommonInvalidParam1    Code = 100
	CommonInvalidParam2    Code = 101
	CommonInvalidParam3    Code = 102
	CommonInvalidParam4    Code = 103
	CommonInvalidParam5    Code = 104
	CommonInvalidParam6    Code = 105
	CommonInvalidParam7    Code = 106
	CommonInvalidParam8    Code = 107
	CommonInvalidParam9    Code = 108
	CommonInvalidParam10   Code = 109
	CommonInvalidParam11   Code = 110
	CommonInvalidParam12   Code = 111
	CommonInvalidState     Code = 112
	CommonInvalidStructure Code = 113
	CommonIOError          Code = 114

	WalletInvalidHandle         Code = 200
	WalletUnknownType           Code = 201
	WalletTypeAlreadyRegistered Code = 202
	WalletAlreadyExistsError    Code = 203
	WalletNotFoundError         Code = 204
	WalletIncompatiblePool      Code = 205
	WalletAlreadyOpenedError    Code = 206
	WalletAccessFailed          Code = 207
	WalletInputError            Code = 208
	WalletDecodingError         Code = 209
	WalletStorageError          Code = 210
	WalletEncryptionError       Code = 211
	WalletItemNotFound          Code = 212
	WalletItemAlreadyExists     Code = 213
	WalletQueryError            Code = 214

	PoolLedgerNotCreated            Code = 300
	PoolLedgerInvalidPoolHandle     Code = 301
	PoolLedgerTerminated            Code = 302
	LedgerNoConsensus               Code = 303
	LedgerInvalidTransaction        Code = 304
	LedgerSecurityError             Code = 305
	PoolLedgerConfigAlreadyExists   Code = 306
	PoolLedgerTimeout               Code = 307
	PoolIncompatibleProtocolVersion Code = 308
	AnoncredsRevocationRegistryFull Code = 400
	AnoncredsInvalidUserRevocID     Code = 401
	AnoncredsMasterSecretDuplicate  Code = 404
	AnoncredsProofRejected          Code = 405
	AnoncredsCredentialRevoked      Code = 406
	AnoncredsCredDefAlreadyExists   Code = 407
	UnknownCryptoTypeError          Code = 500
	DidAlreadyExists                Code = 600
	PaymentUnknownMethod            Code = 700
	PaymentIncompatibleMethods      Code = 701
	PaymentInsufficientFunds        Code = 702
)

// ParamCode returns the CommonInvalidParamN code for the n-th (1-based) parameter of an entry point.
// Positions outside 1..12 are clamped to the nearest end of the range.
func ParamCode(n int) Code {
	switch {
	case n < 1:
		return CommonInvalidParam1
	case n > int(CommonInvalidParam12-CommonInvalidParam1)+1:
		return CommonInvalidParam12
	default:
		return CommonInvalidParam1 + Code(n-1)
	}
}
