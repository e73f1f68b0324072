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

package interactor

import (
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/jsonrpc"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/model"
)

// WCSessionRequestParam is the payload of an inbound wc_sessionRequest.
// ChainID reuses the tolerant string-or-integer decoder since dApps
// disagree on its wire type.
type WCSessionRequestParam struct {
	PeerID                   string           `json:"peerId"`
	PeerMeta                 model.PeerMeta   `json:"peerMeta"`
	ChainID                  *jsonrpc.ChainID `json:"chainId,omitempty"`
	ChainType                string           `json:"chainType,omitempty"`
	AddressRequiredCoinTypes []uint           `json:"addressRequiredCoinTypes,omitempty"`
}

// SessionApprovalResult is what approveSession sends back as the
// JSONRPCResponse result for the pending handshake.
type SessionApprovalResult struct {
	Approved bool            `json:"approved"`
	ChainID  jsonrpc.ChainID `json:"chainId"`
	Accounts []string        `json:"accounts"`
	PeerID   string          `json:"peerId"`
	PeerMeta model.PeerMeta  `json:"peerMeta"`
}

// WCSessionUpdateParam is the payload of an outbound or inbound
// wc_sessionUpdate. Pointers let KillSession emit literal JSON nulls
// for chainId and accounts.
type WCSessionUpdateParam struct {
	Approved bool             `json:"approved"`
	ChainID  *jsonrpc.ChainID `json:"chainId"`
	Accounts *[]string        `json:"accounts"`
}
