// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package service

import (
	"encoding/json"
	"fmt"
)

// Response codes reserved by the runtime. Services define their own codes
// starting from CodeServiceDefined.
const (
	CodeOK uint64 = iota
	CodeServiceNotFound
	CodeMethodNotFound
	CodeReadOnly
	CodeCallDepthExceeded
	CodeOutOfCycles
	CodeDecode
	CodeDispatchDisabled
	CodeBadPayload
	CodePermissionDenied
	CodeInternal
	CodeInvalidTransaction

	CodeServiceDefined uint64 = 100
)

// Response is the result of a service method call.
type Response struct {
	Code    uint64
	Data    []byte
	Message string
}

// OK returns a success response carrying data.
func OK(data []byte) Response {
	return Response{Code: CodeOK, Data: data}
}

// OKJSON returns a success response carrying v encoded in json.
func OKJSON(v any) Response {
	data, err := json.Marshal(v)
	if err != nil {
		return Error(CodeInternal, "encode response: "+err.Error())
	}
	return OK(data)
}

// Error returns a failure response.
func Error(code uint64, msg string) Response {
	return Response{Code: code, Message: msg}
}

// Errorf returns a failure response with formatted message.
func Errorf(code uint64, format string, args ...any) Response {
	return Error(code, fmt.Sprintf(format, args...))
}

// IsError returns whether the call failed.
func (r Response) IsError() bool {
	return r.Code != CodeOK
}

// Decode decodes json data of a success response into v.
func (r Response) Decode(v any) error {
	if r.IsError() {
		return r.Err()
	}
	return json.Unmarshal(r.Data, v)
}

// Err converts a failure response into an error, nil on success.
func (r Response) Err() error {
	if !r.IsError() {
		return nil
	}
	return &ResponseError{Code: r.Code, Message: r.Message}
}

// ResponseError is a failure response seen as an error.
type ResponseError struct {
	Code    uint64
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("service error %d: %s", e.Code, e.Message)
}
