/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"github.com/hyperledger/indy-sdk-go/pkg/controller/command"
	cmdindy "github.com/hyperledger/indy-sdk-go/pkg/controller/command/indy"
	"github.com/hyperledger/indy-sdk-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/indy-sdk-go/pkg/controller/rest"
	restindy "github.com/hyperledger/indy-sdk-go/pkg/controller/rest/indy"
)

type allOpts struct {
	pathPrefix string
}

// Opt represents a controller option.
type Opt func(opts *allOpts)

// WithPathPrefix mounts every REST endpoint under prefix, e.g. "/indy".
func WithPathPrefix(prefix string) Opt {
	return func(opts *allOpts) {
		opts.pathPrefix = prefix
	}
}

// GetRESTHandlers returns all REST handlers provided by controller.
func GetRESTHandlers(client cmdindy.Client, opts ...Opt) []rest.Handler {
	restAPIOpts := &allOpts{}
	for _, opt := range opts {
		opt(restAPIOpts)
	}

	handlers := restindy.New(client).GetRESTHandlers()

	if restAPIOpts.pathPrefix == "" {
		return handlers
	}

	prefixed := make([]rest.Handler, 0, len(handlers))

	for _, h := range handlers {
		prefixed = append(prefixed, cmdutil.NewHTTPHandler(restAPIOpts.pathPrefix+h.Path(), h.Method(), h.Handle()))
	}

	return prefixed
}

// GetCommandHandlers returns all command handlers provided by controller.
func GetCommandHandlers(client cmdindy.Client) []command.Handler {
	return cmdindy.New(client).GetHandlers()
}
