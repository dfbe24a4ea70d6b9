/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"
	"testing"
)

// main must finish with exit code 0 when run without arguments; it only prints the help text.
func TestWithoutUserAgs(t *testing.T) { //nolint: unparam
	setUpArgs()
	main()
}

// Strips out the extra args that the unit test framework adds.
func setUpArgs() {
	os.Args = os.Args[:1]
}
