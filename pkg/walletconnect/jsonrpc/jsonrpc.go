// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package jsonrpc emits and parses the JSON-RPC 2.0 envelopes the
// interactor exchanges with its peer, including the non-standard
// optional `session` hint some peers append to requests.
package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

const Version = "2.0"

// ChainID tolerates the legacy encoding some peers still use (a bare
// integer) on decode, but always marshals back out as a string.
type ChainID string

func (c ChainID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *ChainID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ChainID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chainId must be a string or integer: %w", err)
	}
	*c = ChainID(n.String())
	return nil
}

// SessionHint is the optional, non-standard `session` field some peers
// append to outbound requests.
type SessionHint struct {
	ChainID ChainID `json:"chainId"`
	Account string  `json:"account,omitempty"`
}

// RPCError is both the wire shape of a JSON-RPC error and the error
// value DecodeResponse raises when it is present. It is distinct from
// the wcerrors taxonomy because it carries a peer-assigned numeric code.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Rejection codes used on outbound error responses.
const (
	CodeUserRejected = 4001 // EIP-1193
	CodeInternal     = -32000
)

// Message is the superset envelope used for decoding: a request has a
// non-empty Method, a response has neither Method nor Error+Result set
// simultaneously. Error takes precedence over Result when both parse
// (malformed peers notwithstanding).
type Message struct {
	ID      *int64          `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	Session *SessionHint    `json:"session,omitempty"`
}

func (m *Message) IsRequest() bool { return m.Method != "" }

// ParseMessage decodes raw into the superset envelope without
// committing to request/response interpretation; the dispatch layer
// inspects Method/ID to decide.
func ParseMessage(raw []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeBadJSONRPCRequest, err, "unmarshal jsonrpc message")
	}
	return &m, nil
}

// EncodeRequest builds a JSON-RPC request. params must already be
// shaped per WalletConnect's per-method arity convention (callers
// decide, e.g. a one-element array for sessionRequest/sessionUpdate).
func EncodeRequest(id int64, method string, params interface{}) ([]byte, error) {
	req := struct {
		ID      int64       `json:"id"`
		JSONRPC string      `json:"jsonrpc"`
		Method  string      `json:"method"`
		Params  interface{} `json:"params"`
	}{ID: id, JSONRPC: Version, Method: method, Params: params}

	b, err := json.Marshal(req)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeUnknown, err, "marshal jsonrpc request")
	}
	return b, nil
}

// EncodeResult builds a successful JSON-RPC response.
func EncodeResult(id int64, result interface{}) ([]byte, error) {
	resp := struct {
		ID      int64       `json:"id"`
		JSONRPC string      `json:"jsonrpc"`
		Result  interface{} `json:"result"`
	}{ID: id, JSONRPC: Version, Result: result}

	b, err := json.Marshal(resp)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeUnknown, err, "marshal jsonrpc result")
	}
	return b, nil
}

// EncodeError builds a JSON-RPC error response.
func EncodeError(id int64, code int, message string) ([]byte, error) {
	resp := struct {
		ID      int64     `json:"id"`
		JSONRPC string    `json:"jsonrpc"`
		Error   *RPCError `json:"error"`
	}{ID: id, JSONRPC: Version, Error: &RPCError{Code: code, Message: message}}

	b, err := json.Marshal(resp)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeUnknown, err, "marshal jsonrpc error")
	}
	return b, nil
}

// DecodeResponse parses raw as a response, returning the error
// described by an `error` field (if present) in preference to Result.
func DecodeResponse(raw []byte) (result json.RawMessage, err error) {
	m, err := ParseMessage(raw)
	if err != nil {
		return nil, err
	}
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Result, nil
}
