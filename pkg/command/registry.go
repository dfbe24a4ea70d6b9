/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package command correlates asynchronous native commands with their eventual results.
//
// A caller allocates a Handle and a Pending slot, passes the Handle to a native entry point and waits on
// the slot. Whatever goroutine the native core completes the command on resolves or fails the Handle;
// the slot is removed from the registry in the same step, so each Handle terminates exactly once.
package command

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hyperledger/aries-framework-go/component/log"
)

var logger = log.New("indy-sdk/command")

// Handle identifies one in-flight native command.
type Handle int32

type outcome struct {
	value interface{}
	err   error
}

// Pending is the single-assignment result slot of one command.
type Pending struct {
	handle    Handle
	done      chan struct{}
	result    outcome
	abandoned atomic.Bool
}

// Handle returns the command handle the slot was allocated for.
func (p *Pending) Handle() Handle {
	return p.handle
}

// Wait blocks until the command is resolved or failed, or until ctx is done. When ctx ends first the slot is
// marked abandoned; the late result is discarded when it eventually arrives.
func (p *Pending) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-p.done:
		return p.result.value, p.result.err
	default:
	}

	select {
	case <-p.done:
		return p.result.value, p.result.err
	case <-ctx.Done():
		p.abandoned.Store(true)

		return nil, fmt.Errorf("command %d: wait abandoned: %w", p.handle, ctx.Err())
	}
}

// Done is closed once the slot leaves the pending state.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Registry is a concurrency safe table of pending commands.
type Registry struct {
	mu      sync.Mutex
	pending map[Handle]*Pending
	next    int32
	stray   atomic.Uint64
}

// NewRegistry returns an empty registry. Handles are issued from 1 upward.
func NewRegistry() *Registry {
	return &Registry{pending: make(map[Handle]*Pending)}
}

// Allocate issues a handle that is not currently pending together with its empty result slot.
func (r *Registry) Allocate() (Handle, *Pending) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		if r.next == math.MaxInt32 {
			r.next = 0
		}

		r.next++

		h := Handle(r.next)
		if _, busy := r.pending[h]; busy {
			continue
		}

		p := &Pending{handle: h, done: make(chan struct{})}
		r.pending[h] = p

		return h, p
	}
}

// Resolve completes the command with value. It returns false when h is not pending.
func (r *Registry) Resolve(h Handle, value interface{}) bool {
	return r.complete(h, outcome{value: value}, "resolve")
}

// Fail completes the command with err. It returns false when h is not pending.
func (r *Registry) Fail(h Handle, err error) bool {
	return r.complete(h, outcome{err: err}, "fail")
}

// Discard drops a slot nobody waits on yet, after the native entry point refused the command.
func (r *Registry) Discard(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[h]; !ok {
		return false
	}

	delete(r.pending, h)

	return true
}

// Len returns the number of pending commands.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

// Stray returns how many completions arrived for handles that were not pending.
func (r *Registry) Stray() uint64 {
	return r.stray.Load()
}

func (r *Registry) complete(h Handle, o outcome, action string) bool {
	r.mu.Lock()
	p, ok := r.pending[h]

	if ok {
		delete(r.pending, h)
	}
	r.mu.Unlock()

	if !ok {
		n := r.stray.Add(1)
		logger.Warnf("%s for command %d ignored: not pending (stray completions: %d)", action, h, n)

		return false
	}

	p.result = o
	close(p.done)

	if p.abandoned.Load() {
		logger.Debugf("%s for command %d discarded: waiter abandoned", action, h)
	}

	return true
}
