/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"encoding/json"
	"io"

	"github.com/hyperledger/aries-framework-go/spi/log"
)

// WriteResponse writes the result v of a command method to w.
// Methods without a result, such as CloseWallet, write an empty object.
func WriteResponse(w io.Writer, method string, v interface{}, l log.Logger) {
	obj := v
	if v == nil {
		obj = struct{}{}
	}

	if err := json.NewEncoder(w).Encode(obj); err != nil {
		l.Errorf("unable to send %s response: %s", method, err)
	}
}
