/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package plugintest contains common tests for wallet storage backends.
// They demonstrate the behaviour documented on plugin.Backend and are meant to be run by every implementation.
package plugintest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/wql"
)

// ConfigFunc returns the configuration of a store that does not exist yet.
type ConfigFunc func() plugin.Config

// TestOption is an option for test behaviour.
type TestOption func(opts *testOptions)

type testOptions struct {
	skipTotalCountTests bool
}

// SkipTotalCountTests skips checks of SearchTotalCount for backends that can not count.
func SkipTotalCountTests() TestOption {
	return func(opts *testOptions) {
		opts.skipTotalCountTests = true
	}
}

// WithID returns a ConfigFunc that gives every store a fresh uuid as id and the given storage config.
func WithID(storageConfig map[string]interface{}) ConfigFunc {
	return func() plugin.Config {
		return plugin.Config{ID: uuid.New().String(), StorageConfig: storageConfig}
	}
}

// TestAll runs every common test against b.
func TestAll(t *testing.T, b plugin.Backend, cfg ConfigFunc, opts ...TestOption) {
	t.Run("lifecycle", func(t *testing.T) { TestLifecycle(t, b, cfg) })
	t.Run("record CRUD", func(t *testing.T) { TestRecords(t, b, cfg) })
	t.Run("tags", func(t *testing.T) { TestTags(t, b, cfg) })
	t.Run("search", func(t *testing.T) { TestSearch(t, b, cfg, opts...) })
	t.Run("closed handles", func(t *testing.T) { TestClosedHandles(t, b, cfg) })
	t.Run("concurrent mutations", func(t *testing.T) { TestConcurrentMutations(t, b, cfg) })
}

func open(t *testing.T, b plugin.Backend, cfg ConfigFunc) (plugin.StoreHandle, plugin.Config) {
	t.Helper()

	c := cfg()
	require.NoError(t, b.Create(c))

	h, err := b.Open(c)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = b.Close(h)  //nolint:errcheck
		_ = b.Delete(c) //nolint:errcheck
	})

	return h, c
}

// TestLifecycle checks create, open, close and delete of stores.
func TestLifecycle(t *testing.T, b plugin.Backend, cfg ConfigFunc) {
	c := cfg()

	_, err := b.Open(c)
	require.ErrorIs(t, err, plugin.ErrWalletNotFound)

	require.NoError(t, b.Create(c))
	require.ErrorIs(t, b.Create(c), plugin.ErrWalletAlreadyExists)

	h, err := b.Open(c)
	require.NoError(t, err)
	require.NoError(t, b.AddRecord(h, plugin.Record{Type: "t", ID: "kept", Value: []byte("v")}))
	require.NoError(t, b.Close(h))

	h, err = b.Open(c)
	require.NoError(t, err)

	rec, err := b.GetRecord(h, "t", "kept")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), rec.Value)
	require.NoError(t, b.Close(h))

	require.NoError(t, b.Delete(c))
	require.ErrorIs(t, b.Delete(c), plugin.ErrWalletNotFound)

	_, err = b.Open(c)
	require.ErrorIs(t, err, plugin.ErrWalletNotFound)
}

// TestRecords checks add, get, update and delete of records.
func TestRecords(t *testing.T, b plugin.Backend, cfg ConfigFunc) {
	h, _ := open(t, b, cfg)

	rec := plugin.Record{Type: "t", ID: "1", Value: []byte{0, 1, 2}, Tags: plugin.Tags{"a": "1", "~b": "2"}}
	require.NoError(t, b.AddRecord(h, rec))
	require.ErrorIs(t, b.AddRecord(h, rec), plugin.ErrDuplicateRecord)

	require.NoError(t, b.AddRecord(h, plugin.Record{Type: "other", ID: "1", Value: []byte("x")}),
		"the same id under another type is a different record")

	got, err := b.GetRecord(h, "t", "1")
	require.NoError(t, err)
	require.Equal(t, rec.Value, got.Value)
	require.Equal(t, rec.Tags, got.Tags)

	got.Value[0] = 9

	again, err := b.GetRecord(h, "t", "1")
	require.NoError(t, err)
	require.Equal(t, byte(0), again.Value[0], "returned records must not alias stored data")

	require.NoError(t, b.UpdateRecordValue(h, "t", "1", []byte("new")))

	got, err = b.GetRecord(h, "t", "1")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got.Value)

	require.ErrorIs(t, b.UpdateRecordValue(h, "t", "missing", nil), plugin.ErrRecordNotFound)

	_, err = b.GetRecord(h, "t", "missing")
	require.ErrorIs(t, err, plugin.ErrRecordNotFound)

	t.Run("delete twice fails the second time", func(t *testing.T) {
		require.NoError(t, b.AddRecord(h, plugin.Record{Type: "t", ID: "del", Value: []byte("v")}))
		require.NoError(t, b.DeleteRecord(h, "t", "del"))
		require.ErrorIs(t, b.DeleteRecord(h, "t", "del"), plugin.ErrRecordNotFound)
	})

	t.Run("re-add after delete", func(t *testing.T) {
		r := plugin.Record{Type: "t", ID: "readd", Value: []byte("v1")}
		require.NoError(t, b.AddRecord(h, r))
		require.NoError(t, b.DeleteRecord(h, "t", "readd"))

		r.Value = []byte("v2")
		require.NoError(t, b.AddRecord(h, r))

		got, err := b.GetRecord(h, "t", "readd")
		require.NoError(t, err)
		require.Equal(t, []byte("v2"), got.Value)
	})

	t.Run("empty value", func(t *testing.T) {
		require.NoError(t, b.AddRecord(h, plugin.Record{Type: "t", ID: "empty"}))

		got, err := b.GetRecord(h, "t", "empty")
		require.NoError(t, err)
		require.Empty(t, got.Value)
		require.Empty(t, got.Tags)
	})
}

// TestTags checks tag management.
func TestTags(t *testing.T, b plugin.Backend, cfg ConfigFunc) {
	h, _ := open(t, b, cfg)

	require.NoError(t, b.AddRecord(h, plugin.Record{Type: "t", ID: "1", Tags: plugin.Tags{"a": "1"}}))

	require.NoError(t, b.AddRecordTags(h, "t", "1", plugin.Tags{"b": "2", "a": "x"}))
	requireTags(t, b, h, plugin.Tags{"a": "x", "b": "2"})

	require.NoError(t, b.UpdateRecordTags(h, "t", "1", plugin.Tags{"c": "3"}))
	requireTags(t, b, h, plugin.Tags{"c": "3"})

	require.NoError(t, b.AddRecordTags(h, "t", "1", plugin.Tags{"d": "4"}))
	require.NoError(t, b.DeleteRecordTags(h, "t", "1", []string{"c", "not-there"}))
	requireTags(t, b, h, plugin.Tags{"d": "4"})

	require.ErrorIs(t, b.AddRecordTags(h, "t", "2", plugin.Tags{"a": "1"}), plugin.ErrRecordNotFound)
	require.ErrorIs(t, b.UpdateRecordTags(h, "t", "2", plugin.Tags{"a": "1"}), plugin.ErrRecordNotFound)
	require.ErrorIs(t, b.DeleteRecordTags(h, "t", "2", []string{"a"}), plugin.ErrRecordNotFound)
}

func requireTags(t *testing.T, b plugin.Backend, h plugin.StoreHandle, want plugin.Tags) {
	t.Helper()

	got, err := b.GetRecord(h, "t", "1")
	require.NoError(t, err)
	require.Equal(t, want, got.Tags)
}

// TestSearch checks searches and their handles.
func TestSearch(t *testing.T, b plugin.Backend, cfg ConfigFunc, opts ...TestOption) { //nolint:funlen
	options := testOptions{}

	for _, o := range opts {
		o(&options)
	}

	h, _ := open(t, b, cfg)

	for i := 0; i < 5; i++ {
		color := "red"
		if i%2 == 1 {
			color = "blue"
		}

		require.NoError(t, b.AddRecord(h, plugin.Record{
			Type:  "t",
			ID:    fmt.Sprintf("%d", i),
			Value: []byte(fmt.Sprintf("value-%d", i)),
			Tags:  plugin.Tags{"color": color, "~n": fmt.Sprintf("%d", i)},
		}))
	}

	require.NoError(t, b.AddRecord(h, plugin.Record{Type: "other", ID: "x", Tags: plugin.Tags{"color": "red"}}))

	t.Run("matching records of one type", func(t *testing.T) {
		sh, err := b.OpenSearch(h, "t", `{"color": "red"}`,
			plugin.SearchOptions{RetrieveRecords: true, RetrieveTotalCount: true})
		require.NoError(t, err)

		ids := drain(t, b, sh)
		require.ElementsMatch(t, []string{"0", "2", "4"}, ids)

		if !options.skipTotalCountTests {
			n, err := b.SearchTotalCount(sh)
			require.NoError(t, err)
			require.Equal(t, 3, n)
		}

		require.NoError(t, b.CloseSearch(sh))
	})

	t.Run("operators on plain tags", func(t *testing.T) {
		sh, err := b.OpenSearch(h, "t", `{"~n": {"$gte": "3"}}`, plugin.SearchOptions{RetrieveRecords: true})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"3", "4"}, drain(t, b, sh))
		require.NoError(t, b.CloseSearch(sh))
	})

	t.Run("count only", func(t *testing.T) {
		if options.skipTotalCountTests {
			t.Skip("backend does not count")
		}

		sh, err := b.OpenSearch(h, "t", `{}`, plugin.SearchOptions{RetrieveTotalCount: true})
		require.NoError(t, err)

		n, err := b.SearchTotalCount(sh)
		require.NoError(t, err)
		require.Equal(t, 5, n)

		require.Empty(t, drain(t, b, sh))
		require.NoError(t, b.CloseSearch(sh))
	})

	t.Run("search all", func(t *testing.T) {
		sh, err := b.OpenSearchAll(h)
		require.NoError(t, err)
		require.Len(t, drain(t, b, sh), 6)
		require.NoError(t, b.CloseSearch(sh))
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := b.OpenSearch(h, "t", `{"color": {"$bogus": "x"}}`, plugin.SearchOptions{RetrieveRecords: true})
		require.ErrorIs(t, err, wql.ErrQuery)
	})

	t.Run("fetch after close search", func(t *testing.T) {
		for _, query := range []string{`{"color": "red"}`, `{"color": "none"}`} {
			sh, err := b.OpenSearch(h, "t", query, plugin.SearchOptions{RetrieveRecords: true})
			require.NoError(t, err)
			require.NoError(t, b.CloseSearch(sh))

			_, _, err = b.FetchNext(sh)
			require.ErrorIs(t, err, plugin.ErrInvalidHandle)
			require.ErrorIs(t, b.CloseSearch(sh), plugin.ErrInvalidHandle)
		}
	})
}

func drain(t *testing.T, b plugin.Backend, sh plugin.SearchHandle) []string {
	t.Helper()

	var ids []string

	for {
		rec, ok, err := b.FetchNext(sh)
		require.NoError(t, err)

		if !ok {
			return ids
		}

		ids = append(ids, rec.ID)
	}
}

// TestClosedHandles checks that handles are rejected after their closing call.
func TestClosedHandles(t *testing.T, b plugin.Backend, cfg ConfigFunc) {
	c := cfg()
	require.NoError(t, b.Create(c))

	defer func() {
		require.NoError(t, b.Delete(c))
	}()

	h, err := b.Open(c)
	require.NoError(t, err)
	require.NoError(t, b.AddRecord(h, plugin.Record{Type: "t", ID: "1"}))

	sh, err := b.OpenSearch(h, "t", "", plugin.SearchOptions{RetrieveRecords: true})
	require.NoError(t, err)

	require.NoError(t, b.Close(h))

	_, _, err = b.FetchNext(sh)
	require.ErrorIs(t, err, plugin.ErrInvalidHandle, "closing a store releases its searches")

	_, err = b.GetRecord(h, "t", "1")
	require.ErrorIs(t, err, plugin.ErrInvalidHandle)
	require.ErrorIs(t, b.AddRecord(h, plugin.Record{Type: "t", ID: "2"}), plugin.ErrInvalidHandle)
	require.ErrorIs(t, b.Close(h), plugin.ErrInvalidHandle)

	_, err = b.OpenSearch(h, "t", "", plugin.SearchOptions{RetrieveRecords: true})
	require.ErrorIs(t, err, plugin.ErrInvalidHandle)
}

// TestConcurrentMutations mutates one store from many goroutines.
func TestConcurrentMutations(t *testing.T, b plugin.Backend, cfg ConfigFunc) {
	h, _ := open(t, b, cfg)

	const n = 20

	var wg sync.WaitGroup

	errs := make(chan error, 3*n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			id := fmt.Sprintf("%d", i)
			errs <- b.AddRecord(h, plugin.Record{Type: "t", ID: id, Value: []byte(id)})
			errs <- b.AddRecordTags(h, "t", id, plugin.Tags{"i": id})
			errs <- b.UpdateRecordValue(h, "t", id, []byte("updated-"+id))
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%d", i)

		rec, err := b.GetRecord(h, "t", id)
		require.NoError(t, err)
		require.Equal(t, []byte("updated-"+id), rec.Value)
		require.Equal(t, plugin.Tags{"i": id}, rec.Tags)
	}
}
