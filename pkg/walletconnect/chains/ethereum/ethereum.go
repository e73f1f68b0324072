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

// Package ethereum decodes the Ethereum-family JSON-RPC params and
// raises them as typed callbacks. It is stateless: two calls with the
// same input always produce the same callback invocation.
package ethereum

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/events"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

// SignKind distinguishes the three signing flavors that share a
// [address,data]/[data,address] two-string parameter shape.
type SignKind string

const (
	KindEthSign          SignKind = "eth_sign"
	KindPersonalSign     SignKind = "personal_sign"
	KindEthSignTypedData SignKind = "eth_signTypedData"
)

// SignPayload is the decoded form of an eth_sign/personal_sign/
// eth_signTypedData* request.
type SignPayload struct {
	ID      int64
	Kind    SignKind
	Address string
	Data    string
}

// Transaction is the decoded form of the single-element array carried
// by eth_signTransaction/eth_sendTransaction. Numeric fields use
// go-ethereum's hexutil wrappers since the wire format is `0x`-prefixed
// hex, exactly as the JSON-RPC methods they're named after expect.
type Transaction struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to,omitempty"`
	Data     hexutil.Bytes   `json:"data,omitempty"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Gas      *hexutil.Big    `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Nonce    *hexutil.Uint64 `json:"nonce,omitempty"`
}

// TxEvent is the decoded form of a transaction request, tagged with
// which of the two transaction methods produced it.
type TxEvent struct {
	ID        int64
	Tag       events.Tag
	Tx        Transaction
	Timestamp *uint64
}

// Handler owns the observer callbacks the application attaches to the
// Ethereum chain family. A nil callback silently drops the event —
// callers that care about only signing, say, can leave OnTransaction unset.
type Handler struct {
	OnSign        func(SignPayload)
	OnTransaction func(TxEvent)
}

// HandleSign decodes params as the two-string array eth_sign/
// personal_sign/eth_signTypedData* carry. Argument order differs:
// personal_sign is [data,address]; the others are [address,data].
func (h *Handler) HandleSign(kind SignKind, id int64, params json.RawMessage) error {
	var arr []string
	if err := json.Unmarshal(params, &arr); err != nil || len(arr) < 2 {
		return wcerrors.New(wcerrors.CodeBadJSONRPCRequest, "sign params must be a 2-element string array")
	}

	payload := SignPayload{ID: id, Kind: kind}
	switch kind {
	case KindPersonalSign:
		payload.Data, payload.Address = arr[0], arr[1]
	default:
		payload.Address, payload.Data = arr[0], arr[1]
	}

	if h.OnSign != nil {
		h.OnSign(payload)
	}
	return nil
}

// HandleTransaction decodes params as the single-element Transaction
// array eth_signTransaction/eth_sendTransaction carry.
func (h *Handler) HandleTransaction(tag events.Tag, id int64, params json.RawMessage, timestamp *uint64) error {
	var arr []Transaction
	if err := json.Unmarshal(params, &arr); err != nil {
		return wcerrors.Wrap(wcerrors.CodeBadJSONRPCRequest, err, "decode transaction params")
	}
	if len(arr) == 0 {
		return wcerrors.New(wcerrors.CodeBadJSONRPCRequest, "transaction params must carry at least one element")
	}

	if h.OnTransaction != nil {
		h.OnTransaction(TxEvent{ID: id, Tag: tag, Tx: arr[0], Timestamp: timestamp})
	}
	return nil
}
