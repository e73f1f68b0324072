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
	"encoding/json"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/chains/binance"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/chains/cosmos"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/chains/ethereum"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/model"
)

// Observer is the application-facing callback surface. Every field is
// optional; the interactor treats callbacks as borrows and never
// extends the application's lifetime from inside the core.
type Observer struct {
	OnSessionRequest func(id int64, param WCSessionRequestParam)
	OnSessionKilled  func()
	OnConnected      func()
	OnDisconnect     func(err error)
	OnCustomRequest  func(id int64, raw json.RawMessage, timestamp *uint64)
	OnError          func(err error)
	OnReceiveACK     func(ack model.AckMessage)

	OnEthSign        func(ethereum.SignPayload)
	OnEthTransaction func(ethereum.TxEvent)

	OnBnbSign         func(id int64, order binance.Order)
	OnBnbConfirmation func(id int64, conf binance.TxConfirmation)

	OnTrustSignTransaction func(id int64, raw json.RawMessage)
	OnTrustGetAccounts     func(id int64)

	OnCosmosTransaction func(id int64, tx cosmos.IBCTransaction, timestamp *uint64)
}

func (o Observer) fireConnected() {
	if o.OnConnected != nil {
		o.OnConnected()
	}
}

func (o Observer) fireDisconnect(err error) {
	if o.OnDisconnect != nil {
		o.OnDisconnect(err)
	}
}

func (o Observer) fireError(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

func (o Observer) fireSessionKilled() {
	if o.OnSessionKilled != nil {
		o.OnSessionKilled()
	}
}

func (o Observer) fireSessionRequest(id int64, param WCSessionRequestParam) {
	if o.OnSessionRequest != nil {
		o.OnSessionRequest(id, param)
	}
}

func (o Observer) fireCustomRequest(id int64, raw json.RawMessage, timestamp *uint64) {
	if o.OnCustomRequest != nil {
		o.OnCustomRequest(id, raw, timestamp)
	}
}

func (o Observer) fireReceiveACK(ack model.AckMessage) {
	if o.OnReceiveACK != nil {
		o.OnReceiveACK(ack)
	}
}
