/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package inproc

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/inmem"
)

const (
	testCredentials = `{"key":"secret"}`
	testSeed        = "000000000000000000000000Trustee1"
	callbackTimeout = 5 * time.Second
)

type result struct {
	code   indyerror.Code
	handle int32
	ok     bool
	first  []byte
	second []byte
}

type harness struct {
	t    *testing.T
	core *Core
	next int32
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	c := New(opts...)

	t.Cleanup(func() {
		require.NoError(t, c.Close())
	})

	return &harness{t: t, core: c}
}

func (x *harness) handle() command.Handle {
	return command.Handle(atomic.AddInt32(&x.next, 1))
}

func (x *harness) wait(ch <-chan result) result {
	x.t.Helper()

	select {
	case r := <-ch:
		return r
	case <-time.After(callbackTimeout):
		require.FailNow(x.t, "callback was not invoked")

		return result{}
	}
}

// call runs a command that must be accepted and returns its completion.
func (x *harness) call(start func(h command.Handle, ch chan<- result) indyerror.Code) result {
	x.t.Helper()

	ch := make(chan result, 1)

	require.Equal(x.t, indyerror.Success, start(x.handle(), ch))

	return x.wait(ch)
}

// own copies a callback buffer. Like the dispatcher it never returns nil, so an empty result reads as []byte{}.
func own(b native.Buffer) []byte {
	out := make([]byte, len(b))
	copy(out, b)

	return out
}

func emptyCB(ch chan<- result) native.EmptyCB {
	return func(_ command.Handle, code indyerror.Code) { ch <- result{code: code} }
}

func boolCB(ch chan<- result) native.BoolCB {
	return func(_ command.Handle, code indyerror.Code, v bool) { ch <- result{code: code, ok: v} }
}

func handleCB(ch chan<- result) native.HandleCB {
	return func(_ command.Handle, code indyerror.Code, v int32) { ch <- result{code: code, handle: v} }
}

func stringCB(ch chan<- result) native.StringCB {
	return func(_ command.Handle, code indyerror.Code, s native.Buffer) { ch <- result{code: code, first: own(s)} }
}

func pairCB(ch chan<- result) native.StringPairCB {
	return func(_ command.Handle, code indyerror.Code, a, b native.Buffer) {
		ch <- result{code: code, first: own(a), second: own(b)}
	}
}

func bytesCB(ch chan<- result) native.BytesCB {
	return func(_ command.Handle, code indyerror.Code, d native.Buffer) { ch <- result{code: code, first: own(d)} }
}

func walletConfigDoc(id string) string {
	return fmt.Sprintf(`{"id":%q}`, id)
}

func (x *harness) createWallet(id, credentials string) indyerror.Code {
	return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CreateWallet(h, walletConfigDoc(id), credentials, emptyCB(ch))
	}).code
}

func (x *harness) openWallet(id, credentials string) (native.WalletHandle, indyerror.Code) {
	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.OpenWallet(h, walletConfigDoc(id), credentials, handleCB(ch))
	})

	return native.WalletHandle(r.handle), r.code
}

func (x *harness) closeWallet(w native.WalletHandle) indyerror.Code {
	return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CloseWallet(h, w, emptyCB(ch))
	}).code
}

func (x *harness) deleteWallet(id, credentials string) indyerror.Code {
	return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.DeleteWallet(h, walletConfigDoc(id), credentials, emptyCB(ch))
	}).code
}

// wallet creates and opens a fresh wallet that is closed when the test ends.
func (x *harness) wallet(id string) native.WalletHandle {
	x.t.Helper()

	require.Equal(x.t, indyerror.Success, x.createWallet(id, testCredentials))

	w, code := x.openWallet(id, testCredentials)
	require.Equal(x.t, indyerror.Success, code)
	require.NotZero(x.t, w)

	return w
}

func (x *harness) createKey(w native.WalletHandle, keyJSON string) string {
	x.t.Helper()

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CreateKey(h, w, keyJSON, stringCB(ch))
	})
	require.Equal(x.t, indyerror.Success, r.code)

	return string(r.first)
}

func TestCore_WalletLifecycle(t *testing.T) {
	x := newHarness(t)

	require.Equal(t, indyerror.Success, x.createWallet("w1", testCredentials))
	require.Equal(t, indyerror.WalletAlreadyExistsError, x.createWallet("w1", testCredentials))

	w, code := x.openWallet("w1", testCredentials)
	require.Equal(t, indyerror.Success, code)

	t.Run("a wallet can only be opened once", func(t *testing.T) {
		_, code := x.openWallet("w1", testCredentials)
		require.Equal(t, indyerror.WalletAlreadyOpenedError, code)
	})

	t.Run("an opened wallet can not be deleted", func(t *testing.T) {
		require.Equal(t, indyerror.CommonInvalidState, x.deleteWallet("w1", testCredentials))
	})

	require.Equal(t, indyerror.Success, x.closeWallet(w))
	require.Equal(t, indyerror.WalletInvalidHandle, x.closeWallet(w))

	t.Run("wrong key", func(t *testing.T) {
		_, code := x.openWallet("w1", `{"key":"other"}`)
		require.Equal(t, indyerror.WalletAccessFailed, code)
		require.Equal(t, indyerror.WalletAccessFailed, x.deleteWallet("w1", `{"key":"other"}`))

		w, code := x.openWallet("w1", testCredentials)
		require.Equal(t, indyerror.Success, code)
		require.Equal(t, indyerror.Success, x.closeWallet(w))
	})

	require.Equal(t, indyerror.Success, x.deleteWallet("w1", testCredentials))

	_, code = x.openWallet("w1", testCredentials)
	require.Equal(t, indyerror.WalletNotFoundError, code)

	t.Run("unknown storage type", func(t *testing.T) {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CreateWallet(h, `{"id":"w2","storage_type":"nope"}`, testCredentials, emptyCB(ch))
		})
		require.Equal(t, indyerror.WalletUnknownType, r.code)
	})
}

func TestCore_SyncRejection(t *testing.T) {
	x := newHarness(t)

	var called int32

	cb := func(command.Handle, indyerror.Code) { atomic.AddInt32(&called, 1) }

	tests := []struct {
		name   string
		start  func(h command.Handle) indyerror.Code
		expect indyerror.Code
	}{
		{
			name:   "empty config",
			start:  func(h command.Handle) indyerror.Code { return x.core.CreateWallet(h, "", testCredentials, cb) },
			expect: indyerror.CommonInvalidParam2,
		},
		{
			name:   "empty credentials",
			start:  func(h command.Handle) indyerror.Code { return x.core.CreateWallet(h, `{"id":"a"}`, " ", cb) },
			expect: indyerror.CommonInvalidParam3,
		},
		{
			name:   "missing callback",
			start:  func(h command.Handle) indyerror.Code { return x.core.CloseWallet(h, 1, nil) },
			expect: indyerror.CommonInvalidParam3,
		},
		{
			name:   "malformed config",
			start:  func(h command.Handle) indyerror.Code { return x.core.CreateWallet(h, "{", testCredentials, cb) },
			expect: indyerror.CommonInvalidStructure,
		},
		{
			name:   "missing open callback",
			start:  func(h command.Handle) indyerror.Code { return x.core.OpenWallet(h, "{}", testCredentials, nil) },
			expect: indyerror.CommonInvalidParam4,
		},
		{
			name:   "config without id",
			start:  func(h command.Handle) indyerror.Code { return x.core.DeleteWallet(h, "{}", testCredentials, cb) },
			expect: indyerror.CommonInvalidStructure,
		},
		{
			name: "bad tags",
			start: func(h command.Handle) indyerror.Code {
				return x.core.AddWalletRecord(h, 1, "t", "i", "v", `{"a":1}`, cb)
			},
			expect: indyerror.CommonInvalidStructure,
		},
		{
			name:   "missing search callback",
			start:  func(h command.Handle) indyerror.Code { return x.core.CloseWalletSearch(h, 1, nil) },
			expect: indyerror.CommonInvalidParam3,
		},
		{
			name: "negative count",
			start: func(h command.Handle) indyerror.Code {
				return x.core.FetchWalletSearchNextRecords(h, 1, 1, -1, func(command.Handle, indyerror.Code, native.Buffer) {})
			},
			expect: indyerror.CommonInvalidParam4,
		},
		{
			name: "nil message",
			start: func(h command.Handle) indyerror.Code {
				return x.core.AnonCrypt(h, "vk", nil, func(command.Handle, indyerror.Code, native.Buffer) {})
			},
			expect: indyerror.CommonInvalidParam3,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h := x.handle()

			require.Equal(t, tc.expect, tc.start(h))

			details := indyerror.ParseDetails(x.core.ErrorDetails(h))
			require.NotEmpty(t, details.Message)
			require.Empty(t, x.core.ErrorDetails(h))
		})
	}

	require.NoError(t, x.core.Close())
	require.Equal(t, indyerror.CommonInvalidState, x.core.CloseWallet(x.handle(), 1, cb))
	require.Zero(t, atomic.LoadInt32(&called))
}

func TestCore_ErrorDetails(t *testing.T) {
	x := newHarness(t, WithBacktraces())

	h := x.handle()
	ch := make(chan result, 1)

	require.Equal(t, indyerror.Success, x.core.CloseWallet(h, 42, emptyCB(ch)))
	require.Equal(t, indyerror.WalletInvalidHandle, x.wait(ch).code)

	err := indyerror.FromDetails(indyerror.WalletInvalidHandle, x.core.ErrorDetails(h))
	require.Equal(t, indyerror.InvalidHandle, err.Kind)
	require.Contains(t, err.Message, "wallet handle 42 is not open")
	require.NotEmpty(t, err.Backtrace)
}

func TestCore_RegisterWalletType(t *testing.T) {
	registry := plugin.NewRegistry()
	x := newHarness(t, WithPluginRegistry(registry))

	register := func(name string) indyerror.Code {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.RegisterWalletType(h, name, inmem.New(), emptyCB(ch))
		}).code
	}

	require.Equal(t, []string{DefaultStorageType}, registry.Names())
	require.Equal(t, indyerror.WalletTypeAlreadyRegistered, register(DefaultStorageType))
	require.Equal(t, indyerror.Success, register("memory"))
	require.Equal(t, indyerror.WalletTypeAlreadyRegistered, register("memory"))

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CreateWallet(h, `{"id":"w","storage_type":"memory"}`, testCredentials, emptyCB(ch))
	})
	require.Equal(t, indyerror.Success, r.code)

	require.Equal(t, indyerror.CommonInvalidParam3, x.core.RegisterWalletType(x.handle(), "x", nil, nil))
}

func TestCore_SetRuntimeConfig(t *testing.T) {
	x := newHarness(t, WithWorkers(1))

	require.Equal(t, indyerror.Success, x.core.SetRuntimeConfig(`{"crypto_thread_pool_size":3}`))
	require.Equal(t, indyerror.Success, x.core.SetRuntimeConfig(`{"crypto_thread_pool_size":1}`))
	require.Equal(t, indyerror.Success, x.core.SetRuntimeConfig(`{}`))
	require.Equal(t, indyerror.CommonInvalidStructure, x.core.SetRuntimeConfig(`{"crypto_thread_pool_size":0}`))
	require.Equal(t, indyerror.CommonInvalidStructure, x.core.SetRuntimeConfig(`[`))

	w := x.wallet("runtime")
	require.Equal(t, indyerror.Success, x.closeWallet(w))
}

func TestCore_CloseAfterShrink(t *testing.T) {
	c := New(WithWorkers(3))

	block := make(chan struct{})
	started := make(chan struct{}, 3)

	for i := 0; i < 3; i++ {
		require.Equal(t, indyerror.Success, c.submit(func() {
			started <- struct{}{}
			<-block
		}))
	}

	for i := 0; i < 3; i++ {
		select {
		case <-started:
		case <-time.After(callbackTimeout):
			require.FailNow(t, "workers did not start")
		}
	}

	// every worker is busy, so the shrink signals are still pending when the core closes
	require.Equal(t, indyerror.Success, c.SetRuntimeConfig(`{"crypto_thread_pool_size":1}`))

	closed := make(chan error, 1)

	go func() { closed <- c.Close() }()

	close(block)

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(callbackTimeout):
		require.FailNow(t, "close did not return")
	}

	require.Equal(t, indyerror.CommonInvalidState, c.submit(func() {}))
	require.NoError(t, c.Close())
}

func TestCore_BuffersAreReused(t *testing.T) {
	x := newHarness(t, WithWorkers(1))
	w := x.wallet("scrub")

	var kept native.Buffer

	ch := make(chan result, 1)
	code := x.core.CreateKey(x.handle(), w, "", func(_ command.Handle, code indyerror.Code, s native.Buffer) {
		kept = s
		ch <- result{code: code, first: own(s)}
	})
	require.Equal(t, indyerror.Success, code)

	r := x.wait(ch)
	require.Equal(t, indyerror.Success, r.code)
	require.NotEmpty(t, r.first)

	// the single worker finished the first job before running this one
	require.Equal(t, indyerror.Success, x.closeWallet(w))

	require.Len(t, kept, len(r.first))
	require.Equal(t, make(native.Buffer, len(r.first)), kept)
}

func TestCore_DID(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("dids")

	createDID := func(didJSON string) result {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CreateAndStoreMyDID(h, w, didJSON, pairCB(ch))
		})
	}

	r := createDID(fmt.Sprintf(`{"seed":%q}`, testSeed))
	require.Equal(t, indyerror.Success, r.code)

	did, verkey := string(r.first), string(r.second)
	require.Equal(t, "V4SGRU86Z58d6TV7PBUe6f", did)
	require.Equal(t, "GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL", verkey)

	t.Run("key for local did", func(t *testing.T) {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.KeyForLocalDID(h, w, did, stringCB(ch))
		})
		require.Equal(t, indyerror.Success, r.code)
		require.Equal(t, verkey, string(r.first))

		r = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.KeyForLocalDID(h, w, "unknown", stringCB(ch))
		})
		require.Equal(t, indyerror.WalletItemNotFound, r.code)
		require.Empty(t, r.first)
	})

	t.Run("duplicate did", func(t *testing.T) {
		require.Equal(t, indyerror.DidAlreadyExists, createDID(fmt.Sprintf(`{"seed":%q}`, testSeed)).code)
	})

	t.Run("explicit did reuses the key", func(t *testing.T) {
		r := createDID(fmt.Sprintf(`{"did":"NcYxiDXkpYi6ov5FcYDi1e","seed":%q}`, testSeed))
		require.Equal(t, indyerror.Success, r.code)
		require.Equal(t, "NcYxiDXkpYi6ov5FcYDi1e", string(r.first))
		require.Equal(t, verkey, string(r.second))
	})

	t.Run("cid", func(t *testing.T) {
		r := createDID(`{"cid":true}`)
		require.Equal(t, indyerror.Success, r.code)
		require.Equal(t, r.first, r.second)
	})

	t.Run("bad seed and crypto type", func(t *testing.T) {
		require.Equal(t, indyerror.CommonInvalidStructure, createDID(`{"seed":"short"}`).code)
		require.Equal(t, indyerror.UnknownCryptoTypeError, createDID(`{"crypto_type":"secp256k1"}`).code)
	})

	t.Run("invalid wallet handle", func(t *testing.T) {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CreateAndStoreMyDID(h, w+100, "{}", pairCB(ch))
		})
		require.Equal(t, indyerror.WalletInvalidHandle, r.code)
	})
}

func TestCore_KeyMetadata(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("metadata")
	verkey := x.createKey(w, "{}")

	get := func(vk string) result {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.GetKeyMetadata(h, w, vk, stringCB(ch))
		})
	}

	set := func(vk, md string) indyerror.Code {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.SetKeyMetadata(h, w, vk, md, emptyCB(ch))
		}).code
	}

	require.Equal(t, indyerror.WalletItemNotFound, get(verkey).code)
	require.Equal(t, indyerror.Success, set(verkey, "first"))
	require.Equal(t, indyerror.Success, set(verkey+":ed25519", "second"))

	r := get(verkey)
	require.Equal(t, indyerror.Success, r.code)
	require.Equal(t, "second", string(r.first))

	require.Equal(t, indyerror.UnknownCryptoTypeError, set(verkey+":bls", "x"))
}

func TestCore_ReplaceKeys(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("rotation")

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CreateAndStoreMyDID(h, w, fmt.Sprintf(`{"seed":%q}`, testSeed), pairCB(ch))
	})
	require.Equal(t, indyerror.Success, r.code)

	did, verkey := string(r.first), string(r.second)

	keyFor := func() string {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.KeyForLocalDID(h, w, did, stringCB(ch))
		})
		require.Equal(t, indyerror.Success, r.code)

		return string(r.first)
	}

	start := func(d, keyJSON string) result {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.ReplaceKeysStart(h, w, d, keyJSON, stringCB(ch))
		})
	}

	apply := func(d string) indyerror.Code {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.ReplaceKeysApply(h, w, d, emptyCB(ch))
		}).code
	}

	t.Run("apply without start", func(t *testing.T) {
		require.Equal(t, indyerror.WalletItemNotFound, apply(did))
	})

	r = start(did, "{}")
	require.Equal(t, indyerror.Success, r.code)

	next := string(r.first)
	require.NotEqual(t, verkey, next)
	require.Equal(t, verkey, keyFor())

	require.Equal(t, indyerror.Success, apply(did))
	require.Equal(t, next, keyFor())

	t.Run("new key signs", func(t *testing.T) {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CryptoSign(h, w, next, []byte("rotated"), bytesCB(ch))
		})
		require.Equal(t, indyerror.Success, r.code)
		require.Len(t, r.first, 64)
	})

	t.Run("pending rotation is consumed", func(t *testing.T) {
		require.Equal(t, indyerror.WalletItemNotFound, apply(did))
	})

	t.Run("unknown did", func(t *testing.T) {
		require.Equal(t, indyerror.WalletItemNotFound, start("NcYxiDXkpYi6ov5FcYDi1e", "{}").code)
	})

	t.Run("bad arguments", func(t *testing.T) {
		require.Equal(t, indyerror.UnknownCryptoTypeError, start(did, `{"crypto_type":"secp256k1"}`).code)

		code := x.core.ReplaceKeysStart(x.handle(), w, "", "{}", func(command.Handle, indyerror.Code, native.Buffer) {})
		require.Equal(t, indyerror.ParamCode(3), code)

		code = x.core.ReplaceKeysApply(x.handle(), w, did, nil)
		require.Equal(t, indyerror.ParamCode(4), code)
	})
}

func TestCore_StoreTheirDID(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("their")

	store := func(identityJSON string) indyerror.Code {
		ch := make(chan result, 1)

		code := x.core.StoreTheirDID(x.handle(), w, identityJSON, emptyCB(ch))
		if code != indyerror.Success {
			return code
		}

		return x.wait(ch).code
	}

	keyFor := func(did string) result {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.KeyForLocalDID(h, w, did, stringCB(ch))
		})
	}

	const (
		did    = "V4SGRU86Z58d6TV7PBUe6f"
		verkey = "GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL"
	)

	t.Run("full verkey", func(t *testing.T) {
		require.Equal(t, indyerror.Success, store(fmt.Sprintf(`{"did":%q,"verkey":%q}`, did, verkey)))

		r := keyFor(did)
		require.Equal(t, indyerror.Success, r.code)
		require.Equal(t, verkey, string(r.first))
	})

	t.Run("abbreviated verkey", func(t *testing.T) {
		require.Equal(t, indyerror.Success, store(fmt.Sprintf(`{"did":%q,"verkey":"~CoRER63DVYnWZtK8uAzNbx"}`, did)))
		require.Equal(t, verkey, string(keyFor(did).first))
	})

	t.Run("did is the verkey", func(t *testing.T) {
		require.Equal(t, indyerror.Success, store(fmt.Sprintf(`{"did":%q}`, verkey)))
		require.Equal(t, verkey, string(keyFor(verkey).first))
	})

	t.Run("invalid identity", func(t *testing.T) {
		require.Equal(t, indyerror.CommonInvalidStructure, store(`{"did":"not-base58!"}`))
		require.Equal(t, indyerror.CommonInvalidStructure, store(`not json`))
		require.Equal(t, indyerror.CommonInvalidStructure, store(fmt.Sprintf(`{"did":%q}`, did)))
		require.Equal(t, indyerror.UnknownCryptoTypeError,
			store(fmt.Sprintf(`{"did":%q,"verkey":%q,"crypto_type":"secp256k1"}`, did, verkey)))
	})
}

func TestCore_DIDMetadata(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("did-metadata")

	const did = "V4SGRU86Z58d6TV7PBUe6f"

	get := func(d string) result {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.GetDIDMetadata(h, w, d, stringCB(ch))
		})
	}

	set := func(d, md string) indyerror.Code {
		ch := make(chan result, 1)

		code := x.core.SetDIDMetadata(x.handle(), w, d, md, emptyCB(ch))
		if code != indyerror.Success {
			return code
		}

		return x.wait(ch).code
	}

	require.Equal(t, indyerror.WalletItemNotFound, get(did).code)
	require.Equal(t, indyerror.Success, set(did, "first"))
	require.Equal(t, indyerror.Success, set(did, "second"))

	r := get(did)
	require.Equal(t, indyerror.Success, r.code)
	require.Equal(t, "second", string(r.first))

	t.Run("empty metadata", func(t *testing.T) {
		require.Equal(t, indyerror.Success, set(did, ""))

		r := get(did)
		require.Equal(t, indyerror.Success, r.code)
		require.Empty(t, r.first)
	})

	t.Run("invalid did", func(t *testing.T) {
		require.Equal(t, indyerror.CommonInvalidStructure, set("invalid_base58_string", "x"))
		require.Equal(t, indyerror.ParamCode(3), set("", "x"))
	})
}

func TestCore_SignVerify(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("sign")
	verkey := x.createKey(w, fmt.Sprintf(`{"seed":%q}`, testSeed))
	msg := []byte("message to sign")

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CryptoSign(h, w, verkey, msg, bytesCB(ch))
	})
	require.Equal(t, indyerror.Success, r.code)
	require.Len(t, r.first, 64)

	signature := r.first

	verify := func(vk string, msg, sig []byte) result {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CryptoVerify(h, vk, msg, sig, boolCB(ch))
		})
	}

	r = verify(verkey, msg, signature)
	require.Equal(t, indyerror.Success, r.code)
	require.True(t, r.ok)

	r = verify(verkey+":ed25519", msg, signature)
	require.True(t, r.ok)

	tampered := append([]byte{}, signature...)
	tampered[10] ^= 0xff

	r = verify(verkey, msg, tampered)
	require.Equal(t, indyerror.Success, r.code)
	require.False(t, r.ok)

	r = verify(verkey, []byte("other message"), signature)
	require.False(t, r.ok)

	require.Equal(t, indyerror.UnknownCryptoTypeError, verify(verkey+":secp256k1", msg, signature).code)
	require.Equal(t, indyerror.CommonInvalidStructure, verify("not-base58-0OIl", msg, signature).code)

	t.Run("unknown signer", func(t *testing.T) {
		other := newHarness(t)
		ow := other.wallet("other")
		unknown := other.createKey(ow, "{}")

		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CryptoSign(h, w, unknown, msg, bytesCB(ch))
		})
		require.Equal(t, indyerror.WalletItemNotFound, r.code)
	})
}

func TestCore_AnonCrypt(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("anon")
	verkey := x.createKey(w, "{}")
	msg := []byte{0, 1, 2, 3, 0}

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.AnonCrypt(h, verkey, msg, bytesCB(ch))
	})
	require.Equal(t, indyerror.Success, r.code)

	encrypted := r.first

	decrypt := func(enc []byte) result {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.AnonDecrypt(h, w, verkey, enc, bytesCB(ch))
		})
	}

	r = decrypt(encrypted)
	require.Equal(t, indyerror.Success, r.code)
	require.Equal(t, msg, r.first)

	encrypted[len(encrypted)-1] ^= 1
	require.Equal(t, indyerror.CommonInvalidStructure, decrypt(encrypted).code)
	require.Equal(t, indyerror.CommonInvalidStructure, decrypt([]byte("short")).code)

	t.Run("empty message", func(t *testing.T) {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.AnonCrypt(h, verkey, []byte{}, bytesCB(ch))
		})
		require.Equal(t, indyerror.Success, r.code)

		r = decrypt(r.first)
		require.Equal(t, indyerror.Success, r.code)
		require.Equal(t, []byte{}, r.first)
	})
}

func TestCore_AuthCrypt(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("auth")
	sender := x.createKey(w, "{}")
	recipient := x.createKey(w, "{}")

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.AuthCrypt(h, w, sender, recipient, []byte("hello"), bytesCB(ch))
	})
	require.Equal(t, indyerror.Success, r.code)

	encrypted := r.first

	r = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.AuthDecrypt(h, w, recipient, encrypted,
			func(_ command.Handle, code indyerror.Code, s, d native.Buffer) {
				ch <- result{code: code, first: own(s), second: own(d)}
			})
	})
	require.Equal(t, indyerror.Success, r.code)
	require.Equal(t, sender, string(r.first))
	require.Equal(t, []byte("hello"), r.second)

	t.Run("wrong recipient", func(t *testing.T) {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.AnonDecrypt(h, w, sender, encrypted, bytesCB(ch))
		})
		require.Equal(t, indyerror.CommonInvalidStructure, r.code)
	})
}

func TestCore_CryptoBox(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("box")
	alice := x.createKey(w, "{}")
	bob := x.createKey(w, "{}")

	var sealed, nonce []byte

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CryptoBox(h, w, alice, bob, []byte("boxed"),
			func(_ command.Handle, code indyerror.Code, d, n native.Buffer) {
				ch <- result{code: code, first: own(d), second: own(n)}
			})
	})
	require.Equal(t, indyerror.Success, r.code)
	require.Len(t, r.second, 24)

	sealed, nonce = r.first, r.second

	open := func(n []byte) result {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CryptoBoxOpen(h, w, bob, alice, sealed, n, bytesCB(ch))
		})
	}

	r = open(nonce)
	require.Equal(t, indyerror.Success, r.code)
	require.Equal(t, []byte("boxed"), r.first)

	require.Equal(t, indyerror.CommonInvalidStructure, open(nonce[:10]).code)
	require.Equal(t, indyerror.CommonInvalidStructure, open(make([]byte, 24)).code)
}

type walletRecordDoc struct {
	ID    string            `json:"id"`
	Type  *string           `json:"type"`
	Value *string           `json:"value"`
	Tags  map[string]string `json:"tags"`
}

type pageDoc struct {
	TotalCount *int              `json:"totalCount"`
	Records    []walletRecordDoc `json:"records"`
}

func TestCore_NonSecrets(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("records")

	add := func(typ, id, value, tags string) indyerror.Code {
		return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.AddWalletRecord(h, w, typ, id, value, tags, emptyCB(ch))
		}).code
	}

	get := func(typ, id, opts string) (walletRecordDoc, indyerror.Code) {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.GetWalletRecord(h, w, typ, id, opts, stringCB(ch))
		})

		var doc walletRecordDoc
		if r.code == indyerror.Success {
			require.NoError(t, json.Unmarshal(r.first, &doc))
		}

		return doc, r.code
	}

	require.Equal(t, indyerror.Success, add("contact", "alice", "a-value", `{"~name":"alice","city":"Paris"}`))
	require.Equal(t, indyerror.Success, add("contact", "bob", "b-value", `{"~name":"bob","city":"Oslo"}`))
	require.Equal(t, indyerror.Success, add("contact", "carol", "c-value", ""))
	require.Equal(t, indyerror.WalletItemAlreadyExists, add("contact", "alice", "x", ""))

	t.Run("reserved types", func(t *testing.T) {
		require.Equal(t, indyerror.WalletAccessFailed, add("Indy::Key", "k", "v", ""))

		_, code := get(metadataType, keyCheckID, "")
		require.Equal(t, indyerror.WalletAccessFailed, code)
	})

	t.Run("get with default options", func(t *testing.T) {
		doc, code := get("contact", "alice", "")
		require.Equal(t, indyerror.Success, code)
		require.Equal(t, "alice", doc.ID)
		require.Nil(t, doc.Type)
		require.Equal(t, "a-value", *doc.Value)
		require.Nil(t, doc.Tags)
	})

	t.Run("get with all parts", func(t *testing.T) {
		doc, code := get("contact", "alice", `{"retrieveType":true,"retrieveValue":true,"retrieveTags":true}`)
		require.Equal(t, indyerror.Success, code)
		require.Equal(t, "contact", *doc.Type)
		require.Equal(t, map[string]string{"~name": "alice", "city": "Paris"}, doc.Tags)
	})

	t.Run("update value and tags", func(t *testing.T) {
		code := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.UpdateWalletRecordValue(h, w, "contact", "carol", "c2", emptyCB(ch))
		}).code
		require.Equal(t, indyerror.Success, code)

		code = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.AddWalletRecordTags(h, w, "contact", "carol", `{"~name":"carol","x":"1"}`, emptyCB(ch))
		}).code
		require.Equal(t, indyerror.Success, code)

		code = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.DeleteWalletRecordTags(h, w, "contact", "carol", `["x"]`, emptyCB(ch))
		}).code
		require.Equal(t, indyerror.Success, code)

		doc, code := get("contact", "carol", `{"retrieveTags":true}`)
		require.Equal(t, indyerror.Success, code)
		require.Equal(t, "c2", *doc.Value)
		require.Equal(t, map[string]string{"~name": "carol"}, doc.Tags)

		code = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.UpdateWalletRecordTags(h, w, "contact", "carol", `{}`, emptyCB(ch))
		}).code
		require.Equal(t, indyerror.Success, code)

		doc, _ = get("contact", "carol", `{"retrieveTags":true}`)
		require.Empty(t, doc.Tags)

		code = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.UpdateWalletRecordValue(h, w, "contact", "nobody", "v", emptyCB(ch))
		}).code
		require.Equal(t, indyerror.WalletItemNotFound, code)
	})

	t.Run("search", func(t *testing.T) {
		open := func(query, opts string) (native.SearchHandle, indyerror.Code) {
			r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
				return x.core.OpenWalletSearch(h, w, "contact", query, opts, handleCB(ch))
			})

			return native.SearchHandle(r.handle), r.code
		}

		fetch := func(s native.SearchHandle, count int) (pageDoc, indyerror.Code) {
			r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
				return x.core.FetchWalletSearchNextRecords(h, w, s, count, stringCB(ch))
			})

			var page pageDoc
			if r.code == indyerror.Success {
				require.NoError(t, json.Unmarshal(r.first, &page))
			}

			return page, r.code
		}

		s, code := open(`{"$or":[{"city":"Paris"},{"~name":{"$like":"b%"}}]}`, `{"retrieveTotalCount":true}`)
		require.Equal(t, indyerror.Success, code)

		page, code := fetch(s, 1)
		require.Equal(t, indyerror.Success, code)
		require.Equal(t, 2, *page.TotalCount)
		require.Len(t, page.Records, 1)
		require.Equal(t, "alice", page.Records[0].ID)

		page, _ = fetch(s, 10)
		require.Len(t, page.Records, 1)
		require.Equal(t, "bob", page.Records[0].ID)

		page, _ = fetch(s, 10)
		require.Nil(t, page.Records)

		code = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CloseWalletSearch(h, s, emptyCB(ch))
		}).code
		require.Equal(t, indyerror.Success, code)

		_, code = fetch(s, 1)
		require.Equal(t, indyerror.CommonInvalidState, code)

		_, code = open(`{"city":{"$gt":"A"}}`, "")
		require.Equal(t, indyerror.WalletQueryError, code)

		s, code = open("", `{"retrieveRecords":false,"retrieveTotalCount":true}`)
		require.Equal(t, indyerror.Success, code)

		page, _ = fetch(s, 5)
		require.Equal(t, 3, *page.TotalCount)
		require.Nil(t, page.Records)
	})

	t.Run("delete", func(t *testing.T) {
		del := func() indyerror.Code {
			return x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
				return x.core.DeleteWalletRecord(h, w, "contact", "bob", emptyCB(ch))
			}).code
		}

		require.Equal(t, indyerror.Success, del())
		require.Equal(t, indyerror.WalletItemNotFound, del())

		_, code := get("contact", "bob", "")
		require.Equal(t, indyerror.WalletItemNotFound, code)
	})
}

func TestCore_CloseWalletClosesSearches(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("searches")

	var searches []native.SearchHandle

	for i := 0; i < 3; i++ {
		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.OpenWalletSearch(h, w, "any", "{}", "", handleCB(ch))
		})
		require.Equal(t, indyerror.Success, r.code)

		searches = append(searches, native.SearchHandle(r.handle))
	}

	require.Equal(t, indyerror.Success, x.closeWallet(w))

	for _, s := range searches {
		code := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CloseWalletSearch(h, s, emptyCB(ch))
		}).code
		require.Equal(t, indyerror.CommonInvalidState, code)
	}

	w, code := x.openWallet("searches", testCredentials)
	require.Equal(t, indyerror.Success, code)

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.FetchWalletSearchNextRecords(h, w, searches[0], 1, stringCB(ch))
	})
	require.Equal(t, indyerror.CommonInvalidState, r.code)
}

func TestCore_CloseWalletForgetsKeys(t *testing.T) {
	x := newHarness(t)
	w := x.wallet("forget")
	verkey := x.createKey(w, "{}")

	require.Equal(t, 1, x.core.keys.Len(false))
	require.Equal(t, indyerror.Success, x.closeWallet(w))
	require.Zero(t, x.core.keys.Len(false))

	require.Equal(t, indyerror.Success, x.deleteWallet("forget", testCredentials))

	w = x.wallet("forget")

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CryptoSign(h, w, verkey, []byte("m"), bytesCB(ch))
	})
	require.Equal(t, indyerror.WalletItemNotFound, r.code)
}

func TestCore_KeysAreScopedToWalletInstance(t *testing.T) {
	registry := plugin.NewRegistry()
	require.NoError(t, registry.Register("other", inmem.New()))

	x := newHarness(t, WithPluginRegistry(registry))

	w := x.wallet("alice")
	verkey := x.createKey(w, "{}")
	require.Equal(t, indyerror.Success, x.closeWallet(w))

	otherConfig := `{"id":"alice","storage_type":"other"}`

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CreateWallet(h, otherConfig, `{"key":"another"}`, emptyCB(ch))
	})
	require.Equal(t, indyerror.Success, r.code)

	r = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.OpenWallet(h, otherConfig, `{"key":"another"}`, handleCB(ch))
	})
	require.Equal(t, indyerror.Success, r.code)

	other := native.WalletHandle(r.handle)

	r = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CryptoSign(h, other, verkey, []byte("m"), bytesCB(ch))
	})
	require.Equal(t, indyerror.WalletItemNotFound, r.code)
	require.Empty(t, r.first)

	t.Run("same wallet reopened still signs", func(t *testing.T) {
		require.Equal(t, indyerror.Success, x.closeWallet(other))

		w, code := x.openWallet("alice", testCredentials)
		require.Equal(t, indyerror.Success, code)

		r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
			return x.core.CryptoSign(h, w, verkey, []byte("m"), bytesCB(ch))
		})
		require.Equal(t, indyerror.Success, r.code)
		require.Len(t, r.first, 64)
	})
}

// gatedBackend blocks key check reads while gated, holding a wallet open or delete in flight.
type gatedBackend struct {
	*inmem.Backend

	gated   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (b *gatedBackend) GetRecord(h plugin.StoreHandle, typ, id string) (*plugin.Record, error) {
	if typ == metadataType && b.gated.Load() {
		b.entered <- struct{}{}
		<-b.release
	}

	return b.Backend.GetRecord(h, typ, id)
}

func TestCore_DeleteHoldsWalletID(t *testing.T) {
	backend := &gatedBackend{
		Backend: inmem.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	registry := plugin.NewRegistry()
	require.NoError(t, registry.Register("gated", backend))

	x := newHarness(t, WithPluginRegistry(registry))

	config := `{"id":"busy","storage_type":"gated"}`

	r := x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.CreateWallet(h, config, testCredentials, emptyCB(ch))
	})
	require.Equal(t, indyerror.Success, r.code)

	backend.gated.Store(true)

	deleted := make(chan result, 1)
	require.Equal(t, indyerror.Success, x.core.DeleteWallet(x.handle(), config, testCredentials, emptyCB(deleted)))

	select {
	case <-backend.entered:
	case <-time.After(callbackTimeout):
		require.FailNow(t, "delete did not reach the backend")
	}

	r = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.OpenWallet(h, config, testCredentials, handleCB(ch))
	})
	require.Equal(t, indyerror.WalletAlreadyOpenedError, r.code)
	require.Zero(t, r.handle)

	backend.gated.Store(false)
	close(backend.release)

	require.Equal(t, indyerror.Success, x.wait(deleted).code)

	r = x.call(func(h command.Handle, ch chan<- result) indyerror.Code {
		return x.core.OpenWallet(h, config, testCredentials, handleCB(ch))
	})
	require.Equal(t, indyerror.WalletNotFoundError, r.code)

	t.Run("open wallet refuses delete", func(t *testing.T) {
		w := x.wallet("opened")

		require.Equal(t, indyerror.CommonInvalidState, x.deleteWallet("opened", testCredentials))
		require.Equal(t, indyerror.Success, x.closeWallet(w))
		require.Equal(t, indyerror.Success, x.deleteWallet("opened", testCredentials))
	})
}
