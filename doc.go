/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package indysdk is a Go binding for the Hyperledger Indy SDK wallet, DID and crypto API
// (https://github.com/hyperledger/indy-sdk).
//
// Packages for end developer usage
//
// pkg/indy: The facade. Every native operation is exposed as a blocking, context aware method.
// Reference: https://pkg.go.dev/github.com/hyperledger/indy-sdk-go/pkg/indy
//
// pkg/native/inproc: A native core implemented in Go, with a worker pool and pluggable wallet storage.
//
// pkg/wallet/plugin: The storage backend protocol, with inmem, sqlite and spistore implementations.
//
// pkg/controller/rest/indy: Wallet, DID, crypto and record operations through a REST API.
//
// Basic workflow
//
//      1) Create a core with inproc.New, registering extra storage types if needed.
//      2) Wrap it with indy.New.
//      3) Create and open a wallet, then use the DID, crypto and record methods.
//      4) Close the wallet and the core to release resources.
package indysdk
