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

// Package binance decodes the bnb_sign order payload and the
// bnb_tx_confirmation post-broadcast notice.
package binance

import (
	"encoding/json"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

// Order is Binance Chain's signable order envelope — account number and
// sequence pin the transaction to a specific point in the signer's
// nonce chain, chainId scopes it to mainnet/testnet.
type Order struct {
	AccountNumber string          `json:"account_number"`
	ChainID       string          `json:"chain_id"`
	Data          json.RawMessage `json:"data,omitempty"`
	Memo          string          `json:"memo"`
	Sequence      string          `json:"sequence"`
	Source        string          `json:"source"`
}

// TxConfirmation is the payload bnb_tx_confirmation carries once the
// dApp's counterpart has broadcast the signed order.
type TxConfirmation struct {
	Ok     bool   `json:"ok"`
	Error  string `json:"errorMsg,omitempty"`
}

// Handler owns the Binance observer callbacks.
type Handler struct {
	OnSign         func(id int64, order Order)
	OnConfirmation func(id int64, conf TxConfirmation)
}

// HandleSign decodes a bnb_sign request.
func (h *Handler) HandleSign(id int64, params json.RawMessage) error {
	var arr []Order
	if err := json.Unmarshal(params, &arr); err != nil || len(arr) == 0 {
		return wcerrors.New(wcerrors.CodeBadJSONRPCRequest, "bnb_sign params must carry one order")
	}
	if h.OnSign != nil {
		h.OnSign(id, arr[0])
	}
	return nil
}

// HandleConfirmation decodes a bnb_tx_confirmation notice.
func (h *Handler) HandleConfirmation(id int64, params json.RawMessage) error {
	var arr []TxConfirmation
	if err := json.Unmarshal(params, &arr); err != nil || len(arr) == 0 {
		return wcerrors.New(wcerrors.CodeBadJSONRPCRequest, "bnb_tx_confirmation params must carry one confirmation")
	}
	if h.OnConfirmation != nil {
		h.OnConfirmation(id, arr[0])
	}
	return nil
}
