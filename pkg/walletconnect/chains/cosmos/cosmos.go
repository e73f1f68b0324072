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

// Package cosmos decodes cosmos_sendTransaction requests into an IBC
// transaction domain object.
package cosmos

import (
	"encoding/json"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

// IBCTransaction is the decoded form of the {signerAddress, signDoc}
// object cosmos_sendTransaction carries.
type IBCTransaction struct {
	SignerAddress string          `json:"signerAddress"`
	SignDoc       json.RawMessage `json:"signDoc"`
}

// Handler owns the Cosmos/IBC observer callback.
type Handler struct {
	OnTransaction func(id int64, tx IBCTransaction, timestamp *uint64)
}

// HandleTransaction decodes params as the single-element
// {signerAddress,signDoc} array cosmos_sendTransaction carries.
func (h *Handler) HandleTransaction(id int64, params json.RawMessage, timestamp *uint64) error {
	var arr []IBCTransaction
	if err := json.Unmarshal(params, &arr); err != nil || len(arr) == 0 {
		return wcerrors.New(wcerrors.CodeBadJSONRPCRequest, "cosmos_sendTransaction params must carry one signerAddress/signDoc pair")
	}
	if h.OnTransaction != nil {
		h.OnTransaction(id, arr[0], timestamp)
	}
	return nil
}
