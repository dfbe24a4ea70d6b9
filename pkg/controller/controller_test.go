/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/indy-sdk-go/pkg/indy"
	"github.com/hyperledger/indy-sdk-go/pkg/native/inproc"
)

func newClient(t *testing.T) *indy.Client {
	t.Helper()

	core := inproc.New()

	t.Cleanup(func() {
		require.NoError(t, core.Close())
	})

	return indy.New(core)
}

func TestGetRESTHandlers(t *testing.T) {
	t.Run("default paths", func(t *testing.T) {
		handlers := GetRESTHandlers(newClient(t))
		require.Len(t, handlers, 13)
		require.Equal(t, "/wallet/create", handlers[0].Path())
	})

	t.Run("with path prefix", func(t *testing.T) {
		handlers := GetRESTHandlers(newClient(t), WithPathPrefix("/indy"))
		require.Len(t, handlers, 13)

		for _, h := range handlers {
			require.True(t, strings.HasPrefix(h.Path(), "/indy/"), h.Path())
			require.NotNil(t, h.Handle())
		}
	})
}

func TestGetCommandHandlers(t *testing.T) {
	handlers := GetCommandHandlers(newClient(t))
	require.Len(t, handlers, 13)

	methods := make(map[string]bool)
	for _, h := range handlers {
		methods[h.Method()] = true
	}

	require.True(t, methods["SearchRecords"])
	require.True(t, methods["Sign"])
}
