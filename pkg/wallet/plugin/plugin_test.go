/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package plugin_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/inmem"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/wql"
)

func TestRegistry_Register(t *testing.T) {
	t.Run("distinct names succeed", func(t *testing.T) {
		r := plugin.NewRegistry()

		require.NoError(t, r.Register("b-type", inmem.New()))
		require.NoError(t, r.Register("a-type", inmem.New()))
		require.Equal(t, []string{"a-type", "b-type"}, r.Names())
	})

	t.Run("duplicate name fails and keeps the first backend", func(t *testing.T) {
		r := plugin.NewRegistry()
		first := inmem.New()

		require.NoError(t, r.Register("custom", first))

		err := r.Register("custom", inmem.New())
		require.True(t, indyerror.IsKind(err, indyerror.DuplicateBackendType))

		b, err := r.Lookup("custom")
		require.NoError(t, err)
		require.Same(t, first, b)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		r := plugin.NewRegistry()

		require.True(t, indyerror.IsKind(r.Register("", inmem.New()), indyerror.InvalidParam))
		require.True(t, indyerror.IsKind(r.Register("x", nil), indyerror.InvalidParam))
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := plugin.NewRegistry().Lookup("missing")
		require.True(t, indyerror.IsKind(err, indyerror.UnknownBackendType))
	})

	t.Run("concurrent registration of one name has a single winner", func(t *testing.T) {
		r := plugin.NewRegistry()

		var (
			wg   sync.WaitGroup
			wins int32
		)

		for i := 0; i < 50; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				if r.Register("raced", inmem.New()) == nil {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}

		wg.Wait()
		require.Equal(t, int32(1), wins)
	})
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		code indyerror.Code
	}{
		{nil, indyerror.Success},
		{plugin.ErrRecordNotFound, indyerror.WalletItemNotFound},
		{fmt.Errorf("get: %w", plugin.ErrRecordNotFound), indyerror.WalletItemNotFound},
		{plugin.ErrDuplicateRecord, indyerror.WalletItemAlreadyExists},
		{plugin.ErrInvalidHandle, indyerror.CommonInvalidState},
		{plugin.ErrWalletNotFound, indyerror.WalletNotFoundError},
		{plugin.ErrWalletAlreadyExists, indyerror.WalletAlreadyExistsError},
		{plugin.ErrAccessFailed, indyerror.WalletAccessFailed},
		{plugin.ErrInvalidConfig, indyerror.CommonInvalidStructure},
		{fmt.Errorf("%w: bad", wql.ErrQuery), indyerror.WalletQueryError},
		{indyerror.New(indyerror.CommonIOError, "io", ""), indyerror.CommonIOError},
		{errors.New("disk on fire"), indyerror.WalletStorageError},
	}

	for _, tc := range tests {
		require.Equal(t, tc.code, plugin.CodeOf(tc.err), "%v", tc.err)
	}
}
