/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package callback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
)

func scrub(bufs ...native.Buffer) {
	for _, b := range bufs {
		for i := range b {
			b[i] = 0xff
		}
	}
}

func wait(t *testing.T, p *command.Pending) (interface{}, error) {
	t.Helper()

	return p.Wait(context.Background())
}

func TestDispatcher_Success(t *testing.T) {
	r := command.NewRegistry()
	d := New(r, nil)

	t.Run("empty", func(t *testing.T) {
		h, p := r.Allocate()
		d.Empty(h, indyerror.Success)

		v, err := wait(t, p)
		require.NoError(t, err)
		require.Equal(t, struct{}{}, v)
	})

	t.Run("bool and handle", func(t *testing.T) {
		h, p := r.Allocate()
		d.Bool(h, indyerror.Success, true)

		v, err := wait(t, p)
		require.NoError(t, err)
		require.Equal(t, true, v)

		h, p = r.Allocate()
		d.Handle(h, indyerror.Success, 7)

		v, err = wait(t, p)
		require.NoError(t, err)
		require.Equal(t, int32(7), v)
	})

	t.Run("buffers are copied before the core reuses them", func(t *testing.T) {
		s := native.Buffer("did:sov:123")
		other := native.Buffer("verkey")

		h, p := r.Allocate()
		d.StringPair(h, indyerror.Success, s, other)
		scrub(s, other)

		v, err := wait(t, p)
		require.NoError(t, err)
		require.Equal(t, StringPair{First: "did:sov:123", Second: "verkey"}, v)

		data := native.Buffer{0, 1, 2, 0, 3}
		nonce := native.Buffer{9, 9}

		h, p = r.Allocate()
		d.BytesNonce(h, indyerror.Success, data, nonce)
		scrub(data, nonce)

		v, err = wait(t, p)
		require.NoError(t, err)
		require.Equal(t, Sealed{Data: []byte{0, 1, 2, 0, 3}, Nonce: []byte{9, 9}}, v)

		sender := native.Buffer("sender")
		msg := native.Buffer("msg\x00with nul")

		h, p = r.Allocate()
		d.StringBytes(h, indyerror.Success, sender, msg)
		scrub(sender, msg)

		v, err = wait(t, p)
		require.NoError(t, err)
		require.Equal(t, SenderMessage{SenderVerkey: "sender", Message: []byte("msg\x00with nul")}, v)
	})

	t.Run("zero length buffers give empty values", func(t *testing.T) {
		h, p := r.Allocate()
		d.Bytes(h, indyerror.Success, nil)

		v, err := wait(t, p)
		require.NoError(t, err)
		require.NotNil(t, v)
		require.Equal(t, []byte{}, v)

		h, p = r.Allocate()
		d.String(h, indyerror.Success, native.Buffer{})

		v, err = wait(t, p)
		require.NoError(t, err)
		require.Equal(t, "", v)
	})
}

func TestDispatcher_Failure(t *testing.T) {
	r := command.NewRegistry()

	var asked []command.Handle

	d := New(r, func(h command.Handle) string {
		asked = append(asked, h)

		return `{"message":"wallet item not found","backtrace":"trace"}`
	})

	h, p := r.Allocate()
	d.Bytes(h, indyerror.WalletItemNotFound, native.Buffer("ignored"))

	v, err := wait(t, p)
	require.Nil(t, v)
	require.True(t, indyerror.IsKind(err, indyerror.RecordNotFound))
	require.Contains(t, err.Error(), "wallet item not found")
	require.Equal(t, []command.Handle{h}, asked)

	t.Run("failure without details", func(t *testing.T) {
		d := New(r, nil)
		h, p := r.Allocate()
		d.Empty(h, indyerror.Code(4242))

		_, err := wait(t, p)
		require.EqualError(t, err, "Unknown (code 4242)")
	})

	t.Run("duplicate callback is ignored", func(t *testing.T) {
		h, p := r.Allocate()
		d.Bool(h, indyerror.Success, true)
		d.Bool(h, indyerror.Success, false)

		v, err := wait(t, p)
		require.NoError(t, err)
		require.Equal(t, true, v)
		require.Equal(t, uint64(1), r.Stray())
	})
}
