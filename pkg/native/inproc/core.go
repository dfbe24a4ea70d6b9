/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package inproc is an in-process implementation of the native identity core.
//
// Commands accepted by an entry point run on a fixed pool of worker goroutines and complete through their
// callback on whichever worker ran them. Output buffers handed to callbacks are overwritten once the callback
// returns, the way a native library reuses its memory.
package inproc

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bluele/gcache"
	"github.com/hyperledger/aries-framework-go/component/log"
	pkgerrors "github.com/pkg/errors"

	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin"
	"github.com/hyperledger/indy-sdk-go/pkg/wallet/plugin/inmem"
)

var logger = log.New("indy-sdk/native/inproc")

const (
	// DefaultStorageType is the wallet type of the built-in in-memory backend.
	DefaultStorageType = "default"

	defaultWorkers      = 4
	defaultKeyCacheSize = 128
	queueSize           = 256
)

// Option configures a Core.
type Option func(opts *Core)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(opts *Core) {
		opts.workers = n
	}
}

// WithPluginRegistry sets the registry wallet types are registered in and looked up from.
func WithPluginRegistry(r *plugin.Registry) Option {
	return func(opts *Core) {
		opts.plugins = r
	}
}

// WithKeyCacheSize sets how many signing keys are kept decoded in memory.
func WithKeyCacheSize(n int) Option {
	return func(opts *Core) {
		opts.keyCacheSize = n
	}
}

// WithBacktraces records a stack trace in the error details of failed commands.
func WithBacktraces() Option {
	return func(opts *Core) {
		opts.backtraces = true
	}
}

// WithRandom sets the entropy source for key generation and nonces.
func WithRandom(r io.Reader) Option {
	return func(opts *Core) {
		opts.rand = r
	}
}

// Core is the in-process native core. It implements native.Core.
type Core struct {
	plugins      *plugin.Registry
	workers      int
	keyCacheSize int
	backtraces   bool
	rand         io.Reader

	jobs    chan func()
	quit    chan struct{}
	stopped chan struct{}
	done    sync.WaitGroup
	signals sync.WaitGroup

	poolLock sync.Mutex
	running  int
	closed   bool

	errLock sync.Mutex
	errors  map[command.Handle]string

	keys gcache.Cache

	commands *command.Registry
	wallets  *walletService
}

var (
	_ native.Core         = (*Core)(nil)
	_ native.HandleSource = (*Core)(nil)
)

// New starts a core with its worker pool. A "default" in-memory wallet type is registered unless the plugin
// registry already has one.
func New(opts ...Option) *Core {
	c := &Core{
		workers:      defaultWorkers,
		keyCacheSize: defaultKeyCacheSize,
		rand:         rand.Reader,
		jobs:         make(chan func(), queueSize),
		quit:         make(chan struct{}),
		stopped:      make(chan struct{}),
		errors:       make(map[command.Handle]string),
		commands:     command.NewRegistry(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.plugins == nil {
		c.plugins = plugin.NewRegistry()
	}

	if _, err := c.plugins.Lookup(DefaultStorageType); err != nil {
		if err = c.plugins.Register(DefaultStorageType, inmem.New()); err != nil {
			logger.Warnf("register default wallet type: %s", err)
		}
	}

	if c.workers < 1 {
		c.workers = 1
	}

	c.keys = gcache.New(c.keyCacheSize).LRU().Build()
	c.wallets = newWalletService(c.plugins)

	c.resize(c.workers)

	return c
}

// Commands returns the registry every client of the core allocates its command handles from.
func (c *Core) Commands() *command.Registry {
	return c.commands
}

// Plugins returns the wallet type registry of the core.
func (c *Core) Plugins() *plugin.Registry {
	return c.plugins
}

func (c *Core) worker() {
	defer c.done.Done()

	for {
		select {
		case job, ok := <-c.jobs:
			if !ok {
				return
			}

			job()
		case <-c.quit:
			return
		}
	}
}

// resize grows or shrinks the pool to n workers.
func (c *Core) resize(n int) {
	c.poolLock.Lock()
	defer c.poolLock.Unlock()

	if c.closed {
		return
	}

	for ; c.running < n; c.running++ {
		c.done.Add(1)

		go c.worker()
	}

	for ; c.running > n; c.running-- {
		c.signals.Add(1)

		go func() {
			defer c.signals.Done()

			select {
			case c.quit <- struct{}{}:
			case <-c.stopped:
			}
		}()
	}
}

type runtimeConfig struct {
	CryptoThreadPoolSize *int `json:"crypto_thread_pool_size"`
}

// SetRuntimeConfig applies {"crypto_thread_pool_size": n}, resizing the worker pool.
func (c *Core) SetRuntimeConfig(config string) indyerror.Code {
	var rc runtimeConfig

	if err := json.Unmarshal([]byte(config), &rc); err != nil {
		logger.Warnf("set runtime config: %s", err)

		return indyerror.CommonInvalidStructure
	}

	if rc.CryptoThreadPoolSize != nil {
		if *rc.CryptoThreadPoolSize < 1 {
			return indyerror.CommonInvalidStructure
		}

		c.resize(*rc.CryptoThreadPoolSize)
		logger.Infof("worker pool resized to %d", *rc.CryptoThreadPoolSize)
	}

	return indyerror.Success
}

// Close stops accepting commands and waits for queued ones to finish.
func (c *Core) Close() error {
	c.poolLock.Lock()

	if c.closed {
		c.poolLock.Unlock()

		return nil
	}

	c.closed = true
	close(c.jobs)
	close(c.stopped)
	c.poolLock.Unlock()

	c.done.Wait()
	c.signals.Wait()

	return nil
}

func (c *Core) submit(job func()) indyerror.Code {
	c.poolLock.Lock()
	defer c.poolLock.Unlock()

	if c.closed {
		return indyerror.CommonInvalidState
	}

	c.jobs <- job

	return indyerror.Success
}

// ErrorDetails returns and forgets the error document of the last failure of h.
func (c *Core) ErrorDetails(h command.Handle) string {
	c.errLock.Lock()
	defer c.errLock.Unlock()

	doc := c.errors[h]
	delete(c.errors, h)

	return doc
}

// fail records err for h and returns its status code.
func (c *Core) fail(h command.Handle, err error) indyerror.Code {
	code := plugin.CodeOf(err)

	e := indyerror.New(code, err.Error(), "")

	var ie *indyerror.Error
	if errors.As(err, &ie) && ie == err {
		e.Message, e.Backtrace = ie.Message, ie.Backtrace
	}

	if c.backtraces && e.Backtrace == "" {
		e.Backtrace = fmt.Sprintf("%+v", pkgerrors.WithStack(err))
	}

	c.errLock.Lock()
	c.errors[h] = indyerror.Document(e)
	c.errLock.Unlock()

	logger.Debugf("command %d failed with code %d: %s", h, code, err)

	return code
}

func (c *Core) status(h command.Handle, err error) indyerror.Code {
	if err == nil {
		return indyerror.Success
	}

	return c.fail(h, err)
}

// reject records a synchronous parameter error for h.
func (c *Core) reject(h command.Handle, param int, format string, args ...interface{}) indyerror.Code {
	return c.fail(h, indyerror.Errorf(indyerror.ParamCode(param), format, args...))
}

func scrub(bufs ...native.Buffer) {
	for _, b := range bufs {
		for i := range b {
			b[i] = 0
		}
	}
}

func (c *Core) runEmpty(h command.Handle, cb native.EmptyCB, fn func() error) indyerror.Code {
	return c.submit(func() {
		cb(h, c.status(h, fn()))
	})
}

func (c *Core) runBool(h command.Handle, cb native.BoolCB, fn func() (bool, error)) indyerror.Code {
	return c.submit(func() {
		v, err := fn()
		cb(h, c.status(h, err), v && err == nil)
	})
}

func (c *Core) runHandle(h command.Handle, cb native.HandleCB, fn func() (int32, error)) indyerror.Code {
	return c.submit(func() {
		v, err := fn()
		if err != nil {
			v = 0
		}

		cb(h, c.status(h, err), v)
	})
}

func (c *Core) runString(h command.Handle, cb native.StringCB, fn func() (string, error)) indyerror.Code {
	return c.submit(func() {
		s, err := fn()
		if err != nil {
			cb(h, c.fail(h, err), nil)

			return
		}

		buf := native.Buffer(s)
		cb(h, indyerror.Success, buf)
		scrub(buf)
	})
}

func (c *Core) runStringPair(h command.Handle, cb native.StringPairCB,
	fn func() (string, string, error)) indyerror.Code {
	return c.submit(func() {
		first, second, err := fn()
		if err != nil {
			cb(h, c.fail(h, err), nil, nil)

			return
		}

		b1, b2 := native.Buffer(first), native.Buffer(second)
		cb(h, indyerror.Success, b1, b2)
		scrub(b1, b2)
	})
}

func (c *Core) runStringBytes(h command.Handle, cb native.StringBytesCB,
	fn func() (string, []byte, error)) indyerror.Code {
	return c.submit(func() {
		s, data, err := fn()
		if err != nil {
			cb(h, c.fail(h, err), nil, nil)

			return
		}

		b1, b2 := native.Buffer(s), native.Buffer(data)
		cb(h, indyerror.Success, b1, b2)
		scrub(b1, b2)
	})
}

func (c *Core) runBytes(h command.Handle, cb native.BytesCB, fn func() ([]byte, error)) indyerror.Code {
	return c.submit(func() {
		data, err := fn()
		if err != nil {
			cb(h, c.fail(h, err), nil)

			return
		}

		buf := native.Buffer(data)
		cb(h, indyerror.Success, buf)
		scrub(buf)
	})
}

func (c *Core) runBytesNonce(h command.Handle, cb native.BytesNonceCB,
	fn func() ([]byte, []byte, error)) indyerror.Code {
	return c.submit(func() {
		data, nonce, err := fn()
		if err != nil {
			cb(h, c.fail(h, err), nil, nil)

			return
		}

		b1, b2 := native.Buffer(data), native.Buffer(nonce)
		cb(h, indyerror.Success, b1, b2)
		scrub(b1, b2)
	})
}

// errInvalidStructure wraps a decoding failure of an input document.
func errInvalidStructure(what string, err error) error {
	return indyerror.Errorf(indyerror.CommonInvalidStructure, "invalid %s: %s", what, err)
}

var errNilCallback = errors.New("callback is nil")
