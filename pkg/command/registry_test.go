/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Allocate(t *testing.T) {
	t.Run("handles start at 1 and increase", func(t *testing.T) {
		r := NewRegistry()

		h1, p1 := r.Allocate()
		h2, _ := r.Allocate()
		require.Equal(t, Handle(1), h1)
		require.Equal(t, Handle(2), h2)
		require.Equal(t, h1, p1.Handle())
		require.Equal(t, 2, r.Len())
	})

	t.Run("wrap around skips pending handles", func(t *testing.T) {
		r := NewRegistry()

		h1, _ := r.Allocate()
		require.Equal(t, Handle(1), h1)

		r.next = math.MaxInt32 - 1
		last, _ := r.Allocate()
		require.Equal(t, Handle(math.MaxInt32), last)

		wrapped, _ := r.Allocate()
		require.Equal(t, Handle(2), wrapped)
	})

	t.Run("concurrent allocations are unique", func(t *testing.T) {
		r := NewRegistry()

		const n = 1000

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[Handle]struct{}, n)
		)

		for i := 0; i < n; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				h, _ := r.Allocate()

				mu.Lock()
				seen[h] = struct{}{}
				mu.Unlock()
			}()
		}

		wg.Wait()
		require.Len(t, seen, n)
		require.Equal(t, n, r.Len())
	})
}

func TestRegistry_Resolve(t *testing.T) {
	t.Run("resolve wakes the waiter", func(t *testing.T) {
		r := NewRegistry()
		h, p := r.Allocate()

		go r.Resolve(h, "value")

		v, err := p.Wait(context.Background())
		require.NoError(t, err)
		require.Equal(t, "value", v)
		require.Equal(t, 0, r.Len())
	})

	t.Run("fail wakes the waiter", func(t *testing.T) {
		r := NewRegistry()
		h, p := r.Allocate()

		require.True(t, r.Fail(h, errors.New("native failure")))

		v, err := p.Wait(context.Background())
		require.EqualError(t, err, "native failure")
		require.Nil(t, v)
	})

	t.Run("second completion is a counted no-op", func(t *testing.T) {
		r := NewRegistry()
		h, p := r.Allocate()

		require.True(t, r.Resolve(h, 1))
		require.False(t, r.Resolve(h, 2))
		require.False(t, r.Fail(h, errors.New("late")))
		require.Equal(t, uint64(2), r.Stray())

		v, err := p.Wait(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, v)
	})

	t.Run("unknown handle is a no-op", func(t *testing.T) {
		r := NewRegistry()
		_, other := r.Allocate()

		require.False(t, r.Resolve(Handle(42), "x"))
		require.Equal(t, uint64(1), r.Stray())
		require.Equal(t, 1, r.Len())

		select {
		case <-other.Done():
			t.Fatal("unrelated command must stay pending")
		default:
		}
	})

	t.Run("exactly one completion under concurrent callbacks", func(t *testing.T) {
		r := NewRegistry()

		const n = 200

		var delivered int64

		var wg sync.WaitGroup

		for i := 0; i < n; i++ {
			h, p := r.Allocate()

			for j := 0; j < 3; j++ {
				wg.Add(1)

				go func(j int) {
					defer wg.Done()

					if j%2 == 0 {
						r.Resolve(h, j)
					} else {
						r.Fail(h, errors.New("failed"))
					}
				}(j)
			}

			wg.Add(1)

			go func() {
				defer wg.Done()

				_, _ = p.Wait(context.Background()) //nolint:errcheck
				atomic.AddInt64(&delivered, 1)
			}()
		}

		wg.Wait()
		require.Equal(t, int64(n), delivered)
		require.Equal(t, 0, r.Len())
		require.Equal(t, uint64(2*n), r.Stray())
	})
}

func TestRegistry_Discard(t *testing.T) {
	r := NewRegistry()
	h, _ := r.Allocate()

	require.True(t, r.Discard(h))
	require.False(t, r.Discard(h))
	require.Equal(t, 0, r.Len())
	require.False(t, r.Resolve(h, "late"))
}

func TestPending_Wait(t *testing.T) {
	t.Run("timeout leaves the command registered until the late callback", func(t *testing.T) {
		r := NewRegistry()
		h, p := r.Allocate()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := p.Wait(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.True(t, p.abandoned.Load())
		require.Equal(t, 1, r.Len())

		h2, _ := r.Allocate()
		require.NotEqual(t, h, h2)

		require.True(t, r.Resolve(h, "late"))
		require.Equal(t, 1, r.Len())
		require.Equal(t, uint64(0), r.Stray())
	})

	t.Run("result already available ignores a done context", func(t *testing.T) {
		r := NewRegistry()
		h, p := r.Allocate()
		require.True(t, r.Resolve(h, "ready"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		v, err := p.Wait(ctx)
		require.NoError(t, err)
		require.Equal(t, "ready", v)
	})
}
