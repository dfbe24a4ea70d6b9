/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package indyerror maps native status codes onto a closed set of error kinds.
//
// Every status code the native library can produce, including codes this package has never heard of,
// classifies to some Kind. Unmapped codes become Unknown and keep the raw code for diagnostics.
package indyerror

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is the structured error kind a native status code is classified into.
type Kind int

// Error kinds.
const (
	Unknown Kind = iota
	InvalidParam
	InvalidState
	InvalidStructure
	InvalidHandle
	IOError
	UnknownBackendType
	DuplicateBackendType
	WalletAlreadyExists
	WalletNotFound
	WalletAlreadyOpened
	AccessFailed
	InvalidQuery
	RecordNotFound
	DuplicateRecord
	LedgerError
	AnoncredsError
	UnknownCryptoType
	DuplicateDID
	PaymentError
	InsufficientFunds
)

//nolint:gochecknoglobals
var kindNames = map[Kind]string{
	Unknown:              "Unknown",
	InvalidParam:         "InvalidParam",
	InvalidState:         "InvalidState",
	InvalidStructure:     "InvalidStructure",
	InvalidHandle:        "InvalidHandle",
	IOError:              "IOError",
	UnknownBackendType:   "UnknownBackendType",
	DuplicateBackendType: "DuplicateBackendType",
	WalletAlreadyExists:  "WalletAlreadyExists",
	WalletNotFound:       "WalletNotFound",
	WalletAlreadyOpened:  "WalletAlreadyOpened",
	AccessFailed:         "AccessFailed",
	InvalidQuery:         "InvalidQuery",
	RecordNotFound:       "RecordNotFound",
	DuplicateRecord:      "DuplicateRecord",
	LedgerError:          "LedgerError",
	AnoncredsError:       "AnoncredsError",
	UnknownCryptoType:    "UnknownCryptoType",
	DuplicateDID:         "DuplicateDID",
	PaymentError:         "PaymentError",
	InsufficientFunds:    "InsufficientFunds",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Classify maps a native status code to its Kind. It is total: codes outside the known table,
// including Success, classify to Unknown.
func Classify(code Code) Kind { //nolint:gocyclo
	switch {
	case code >= CommonInvalidParam1 && code <= CommonInvalidParam12:
		return InvalidParam
	case code >= PoolLedgerNotCreated && code <= PoolIncompatibleProtocolVersion:
		return LedgerError
	case code >= AnoncredsRevocationRegistryFull && code <= AnoncredsCredDefAlreadyExists:
		return AnoncredsError
	}

	switch code {
	case CommonInvalidState:
		return InvalidState
	case CommonInvalidStructure, WalletDecodingError, WalletInputError:
		return InvalidStructure
	case CommonIOError, WalletStorageError, WalletEncryptionError:
		return IOError
	case WalletInvalidHandle:
		return InvalidHandle
	case WalletUnknownType:
		return UnknownBackendType
	case WalletTypeAlreadyRegistered:
		return DuplicateBackendType
	case WalletAlreadyExistsError:
		return WalletAlreadyExists
	case WalletNotFoundError:
		return WalletNotFound
	case WalletAlreadyOpenedError:
		return WalletAlreadyOpened
	case WalletAccessFailed, WalletIncompatiblePool:
		return AccessFailed
	case WalletQueryError:
		return InvalidQuery
	case WalletItemNotFound:
		return RecordNotFound
	case WalletItemAlreadyExists:
		return DuplicateRecord
	case UnknownCryptoTypeError:
		return UnknownCryptoType
	case DidAlreadyExists:
		return DuplicateDID
	case PaymentUnknownMethod, PaymentIncompatibleMethods:
		return PaymentError
	case PaymentInsufficientFunds:
		return InsufficientFunds
	default:
		return Unknown
	}
}

// Error is an immutable classified native error.
type Error struct {
	Kind      Kind
	Code      Code
	Message   string
	Backtrace string
}

// New builds a classified error for the given native status code.
func New(code Code, message, backtrace string) *Error {
	return &Error{
		Kind:      Classify(code),
		Code:      code,
		Message:   message,
		Backtrace: backtrace,
	}
}

// Errorf builds a classified error for code with a formatted message and no backtrace.
func Errorf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), "")
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (code %d)", e.Kind, e.Code)
	}

	return fmt.Sprintf("%s: %s (code %d)", e.Kind, e.Message, e.Code)
}

// Is reports whether target is an *Error of the same Kind. Unknown errors additionally need the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if e.Kind == Unknown || t.Kind == Unknown {
		return e.Kind == t.Kind && e.Code == t.Code
	}

	return e.Kind == t.Kind
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Kind == kind
}

// CodeOf returns the native status code carried by err, or CommonInvalidState when err is not classified.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return CommonInvalidState
}

// Details is the error document the native library keeps for the last failed command.
type Details struct {
	Message   string `json:"message"`
	Backtrace string `json:"backtrace,omitempty"`
}

// ParseDetails decodes an error document. Empty or malformed documents yield empty Details.
func ParseDetails(doc string) Details {
	var d Details

	if doc == "" {
		return d
	}

	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return Details{}
	}

	return d
}

// FromDetails builds a classified error from a status code and an error document.
func FromDetails(code Code, doc string) *Error {
	d := ParseDetails(doc)

	return New(code, d.Message, d.Backtrace)
}

// Document renders the error details for err in the native error document format.
func Document(err error) string {
	d := Details{Message: err.Error()}

	var e *Error
	if errors.As(err, &e) {
		d = Details{Message: e.Message, Backtrace: e.Backtrace}
	}

	b, mErr := json.Marshal(d)
	if mErr != nil {
		return ""
	}

	return string(b)
}
