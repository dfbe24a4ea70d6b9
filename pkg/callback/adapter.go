/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package callback turns native completion callbacks into registry resolutions.
//
// Output buffers handed to an adapter belong to the core and are reused as soon as the adapter returns,
// so every adapter copies them, using the exact length given, before resolving the command.
package callback

import (
	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
)

// StringPair is the result of commands returning two strings, such as a DID and its verkey.
type StringPair struct {
	First  string
	Second string
}

// SenderMessage is the result of an authenticated decryption.
type SenderMessage struct {
	SenderVerkey string
	Message      []byte
}

// Sealed is a ciphertext together with the nonce it was sealed with.
type Sealed struct {
	Data  []byte
	Nonce []byte
}

// Dispatcher resolves commands of Registry from native callbacks.
// Details, when set, supplies the error document of a failed command.
type Dispatcher struct {
	Registry *command.Registry
	Details  func(h command.Handle) string
}

// New returns a dispatcher resolving into r and reading error documents from details.
func New(r *command.Registry, details func(h command.Handle) string) *Dispatcher {
	return &Dispatcher{Registry: r, Details: details}
}

// Error builds the classified error for a failed command, consuming its error document.
func (d *Dispatcher) Error(h command.Handle, code indyerror.Code) *indyerror.Error {
	doc := ""
	if d.Details != nil {
		doc = d.Details(h)
	}

	return indyerror.FromDetails(code, doc)
}

func (d *Dispatcher) failed(h command.Handle, code indyerror.Code) bool {
	if code == indyerror.Success {
		return false
	}

	d.Registry.Fail(h, d.Error(h, code))

	return true
}

// Empty adapts native.EmptyCB.
func (d *Dispatcher) Empty(h command.Handle, code indyerror.Code) {
	if d.failed(h, code) {
		return
	}

	d.Registry.Resolve(h, struct{}{})
}

// Bool adapts native.BoolCB.
func (d *Dispatcher) Bool(h command.Handle, code indyerror.Code, v bool) {
	if d.failed(h, code) {
		return
	}

	d.Registry.Resolve(h, v)
}

// Handle adapts native.HandleCB.
func (d *Dispatcher) Handle(h command.Handle, code indyerror.Code, v int32) {
	if d.failed(h, code) {
		return
	}

	d.Registry.Resolve(h, v)
}

// String adapts native.StringCB.
func (d *Dispatcher) String(h command.Handle, code indyerror.Code, s native.Buffer) {
	if d.failed(h, code) {
		return
	}

	d.Registry.Resolve(h, string(s))
}

// StringPair adapts native.StringPairCB.
func (d *Dispatcher) StringPair(h command.Handle, code indyerror.Code, first, second native.Buffer) {
	if d.failed(h, code) {
		return
	}

	d.Registry.Resolve(h, StringPair{First: string(first), Second: string(second)})
}

// StringBytes adapts native.StringBytesCB.
func (d *Dispatcher) StringBytes(h command.Handle, code indyerror.Code, s, data native.Buffer) {
	if d.failed(h, code) {
		return
	}

	d.Registry.Resolve(h, SenderMessage{SenderVerkey: string(s), Message: own(data)})
}

// Bytes adapts native.BytesCB.
func (d *Dispatcher) Bytes(h command.Handle, code indyerror.Code, data native.Buffer) {
	if d.failed(h, code) {
		return
	}

	d.Registry.Resolve(h, own(data))
}

// BytesNonce adapts native.BytesNonceCB.
func (d *Dispatcher) BytesNonce(h command.Handle, code indyerror.Code, data, nonce native.Buffer) {
	if d.failed(h, code) {
		return
	}

	d.Registry.Resolve(h, Sealed{Data: own(data), Nonce: own(nonce)})
}

// own copies b into a new slice. An empty buffer yields an empty, non-nil slice.
func own(b native.Buffer) []byte {
	out := make([]byte, len(b))
	copy(out, b)

	return out
}

// compile time checks that adapters fit the native callback shapes.
var (
	_ native.EmptyCB       = (*Dispatcher)(nil).Empty
	_ native.BoolCB        = (*Dispatcher)(nil).Bool
	_ native.HandleCB      = (*Dispatcher)(nil).Handle
	_ native.StringCB      = (*Dispatcher)(nil).String
	_ native.StringPairCB  = (*Dispatcher)(nil).StringPair
	_ native.StringBytesCB = (*Dispatcher)(nil).StringBytes
	_ native.BytesCB       = (*Dispatcher)(nil).Bytes
	_ native.BytesNonceCB  = (*Dispatcher)(nil).BytesNonce
)
