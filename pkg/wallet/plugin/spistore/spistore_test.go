/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package spistore

import (
	"errors"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	spi "github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/plugintest"
)

func TestBackend(t *testing.T) {
	plugintest.TestAll(t, New(nil), plugintest.WithID(nil))
}

func TestBackend_SharedProvider(t *testing.T) {
	provider := mem.NewProvider()
	cfg := plugin.Config{ID: "shared"}

	writer := New(provider, WithTypeTagName("kind"))
	require.NoError(t, writer.Create(cfg))

	h, err := writer.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, writer.AddRecord(h, plugin.Record{Type: "a:b", ID: "x:y", Value: []byte("v")}))
	require.NoError(t, writer.Close(h))

	t.Run("records are visible through another backend on the same provider", func(t *testing.T) {
		reader := New(provider, WithTypeTagName("kind"))

		h, err := reader.Open(cfg)
		require.NoError(t, err)

		rec, err := reader.GetRecord(h, "a:b", "x:y")
		require.NoError(t, err)
		require.Equal(t, []byte("v"), rec.Value)

		sh, err := reader.OpenSearch(h, "a:b", "", plugin.SearchOptions{RetrieveRecords: true})
		require.NoError(t, err)

		got, ok, err := reader.FetchNext(sh)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "x:y", got.ID)
	})

	t.Run("records are indexed by the type tag", func(t *testing.T) {
		s, err := provider.OpenStore(storePrefix + "shared")
		require.NoError(t, err)

		tags, err := s.GetTags(key("a:b", "x:y"))
		require.NoError(t, err)
		require.Equal(t, []spi.Tag{{Name: "kind", Value: encoding.EncodeToString([]byte("a:b"))}}, tags)
	})
}

type failingProvider struct {
	spi.Provider
}

func (failingProvider) OpenStore(string) (spi.Store, error) {
	return nil, errors.New("provider down")
}

func TestBackend_ProviderErrors(t *testing.T) {
	b := New(failingProvider{})

	err := b.Create(plugin.Config{ID: "w"})
	require.EqualError(t, err, "open provider store for wallet w: provider down")
	require.Equal(t, plugin.CodeOf(err), plugin.CodeOf(errors.New("any")))

	require.ErrorIs(t, New(nil).Create(plugin.Config{}), plugin.ErrInvalidConfig)
}
