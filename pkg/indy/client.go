/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package indy is the blocking API over the callback based identity core.
//
// Every Client method issues one native command and returns exactly one of: the classified error of a
// synchronous rejection, the value delivered by the completion callback, or the classified error delivered
// by the completion callback. A context that ends first makes the method return a wrapped context error;
// the command keeps running and its late completion is dropped.
//
//	core := inproc.New()
//	client := indy.New(core)
//
//	err := client.CreateWallet(ctx, `{"id":"alice"}`, `{"key":"secret"}`)
package indy

import (
	"context"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/indy-sdk-go/pkg/callback"
	"github.com/hyperledger/indy-sdk-go/pkg/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
	"github.com/hyperledger/indy-sdk-go/pkg/native"
)

var logger = log.New("indy-sdk/indy")

// WalletHandle identifies an opened wallet.
type WalletHandle = native.WalletHandle

// SearchHandle identifies an open wallet search.
type SearchHandle = native.SearchHandle

// Result types delivered by the core.
type (
	StringPair    = callback.StringPair
	SenderMessage = callback.SenderMessage
	Sealed        = callback.Sealed
)

// Option configures a Client.
type Option func(opts *Client)

// WithRegistry sets the command registry. All clients of one core must use the same registry.
func WithRegistry(r *command.Registry) Option {
	return func(opts *Client) {
		opts.registry = r
	}
}

// WithCallTimeout bounds every call, on top of the deadline of its context.
func WithCallTimeout(d time.Duration) Option {
	return func(opts *Client) {
		opts.timeout = d
	}
}

// Client issues commands to a native core and waits for their completion.
type Client struct {
	core     native.Core
	registry *command.Registry
	dispatch *callback.Dispatcher
	timeout  time.Duration
}

// New returns a client for core. Without WithRegistry it uses the registry of a core that is a
// native.HandleSource, and a registry of its own otherwise.
func New(core native.Core, opts ...Option) *Client {
	c := &Client{core: core}

	for _, opt := range opts {
		opt(c)
	}

	if c.registry == nil {
		if src, ok := core.(native.HandleSource); ok {
			c.registry = src.Commands()
		} else {
			c.registry = command.NewRegistry()
		}
	}

	c.dispatch = callback.New(c.registry, core.ErrorDetails)

	return c
}

// Registry returns the command registry of the client.
func (c *Client) Registry() *command.Registry {
	return c.registry
}

// call allocates a handle, starts the command and waits for its typed result.
func call[T any](ctx context.Context, c *Client, op string, start func(h command.Handle) indyerror.Code) (T, error) {
	var zero T

	h, pending := c.registry.Allocate()

	if code := start(h); code != indyerror.Success {
		c.registry.Discard(h)

		err := indyerror.FromDetails(code, c.core.ErrorDetails(h))
		logger.Debugf("%s rejected: %s", op, err)

		return zero, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	v, err := pending.Wait(ctx)
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, indyerror.Errorf(indyerror.CommonInvalidState, "%s: unexpected result type %T", op, v)
	}

	return out, nil
}

func exec(ctx context.Context, c *Client, op string, start func(h command.Handle) indyerror.Code) error {
	_, err := call[struct{}](ctx, c, op, start)

	return err
}
