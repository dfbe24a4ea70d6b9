/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/indy-sdk-go/pkg/controller/command"
	"github.com/hyperledger/indy-sdk-go/pkg/indyerror"
)

var logger = log.New("indy-sdk/rest")

// Handler http handler for each controller API endpoint.
type Handler interface {
	Path() string
	Method() string
	Handle() http.HandlerFunc
}

// genericErrorBody is the body of every error response.
type genericErrorBody struct {
	Code    command.Code `json:"code"`
	Message string       `json:"message"`
}

// SendHTTPStatusError sends given http status code to response with error body.
func SendHTTPStatusError(rw http.ResponseWriter, httpStatus int, code command.Code, err error) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(httpStatus)

	e := json.NewEncoder(rw).Encode(genericErrorBody{
		Code:    code,
		Message: err.Error(),
	})
	if e != nil {
		logger.Errorf("Unable to send error response, %s", e)
	}
}

// SendError sends a command error to the response. Validation errors are 400; execute errors are 500
// unless the underlying indy error names a missing item (404) or a rejected wallet key (403).
func SendError(rw http.ResponseWriter, err command.Error) {
	status := http.StatusInternalServerError

	switch {
	case err.Type() == command.ValidationError:
		status = http.StatusBadRequest
	case indyerror.IsKind(err, indyerror.RecordNotFound), indyerror.IsKind(err, indyerror.WalletNotFound):
		status = http.StatusNotFound
	case indyerror.IsKind(err, indyerror.AccessFailed):
		status = http.StatusForbidden
	}

	SendHTTPStatusError(rw, status, err.Code(), err)
}

// Execute executes given command with args provided and writes the command result or error to rw.
func Execute(exec command.Exec, rw http.ResponseWriter, req io.Reader) {
	rw.Header().Set("Content-Type", "application/json")

	if err := exec(rw, req); err != nil {
		SendError(rw, err)
	}
}
