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

// Package events maps an inbound JSON-RPC method string to a closed
// set of event tags and classifies messages the tag table does not
// recognize as either a custom request or a drop.
package events

import "github.com/sage-x-project/walletbridge/pkg/walletconnect/jsonrpc"

// Tag is one member of the closed set of events the interactor's
// handleEvent switches on.
type Tag string

const (
	TagSessionRequest Tag = "sessionRequest"
	TagSessionUpdate  Tag = "sessionUpdate"
	TagSessionKill    Tag = "sessionKill"

	TagEthSign            Tag = "ethSign"
	TagPersonalSign       Tag = "personalSign"
	TagEthSignTypedData   Tag = "ethSignTypedData"
	TagEthSignTransaction Tag = "ethSignTransaction"
	TagEthSendTransaction Tag = "ethSendTransaction"

	TagBnbSign           Tag = "bnbSign"
	TagBnbTxConfirmation Tag = "bnbTxConfirmation"

	TagTrustSignTransaction Tag = "trustSignTransaction"
	TagGetAccounts          Tag = "getAccounts"

	TagCosmosSendTransaction Tag = "cosmosSendTransaction"
)

// methodTags is the closed method -> tag table, including the
// Crypto.com extension's `dc_` aliases.
var methodTags = map[string]Tag{
	"wc_sessionRequest": TagSessionRequest,
	"dc_sessionRequest": TagSessionRequest,
	"dc_instantRequest": TagSessionRequest,
	"wc_sessionUpdate":  TagSessionUpdate,
	"dc_sessionUpdate":  TagSessionUpdate,
	"dc_killSession":    TagSessionKill,

	"eth_sign":             TagEthSign,
	"personal_sign":        TagPersonalSign,
	"eth_signTypedData":    TagEthSignTypedData,
	"eth_signTypedData_v2": TagEthSignTypedData,
	"eth_signTypedData_v3": TagEthSignTypedData,
	"eth_signTypedData_v4": TagEthSignTypedData,
	"eth_signTransaction":  TagEthSignTransaction,
	"eth_sendTransaction":  TagEthSendTransaction,

	"bnb_sign":            TagBnbSign,
	"bnb_tx_confirmation": TagBnbTxConfirmation,

	"trust_signTransaction": TagTrustSignTransaction,
	"get_accounts":          TagGetAccounts,

	"cosmos_sendTransaction": TagCosmosSendTransaction,
}

// TagForMethod looks up method in the closed table.
func TagForMethod(method string) (Tag, bool) {
	tag, ok := methodTags[method]
	return tag, ok
}

// OutcomeKind discriminates what Classify decided about a message.
type OutcomeKind int

const (
	// OutcomeKnown: the method matched the table; route to the tagged handler.
	OutcomeKnown OutcomeKind = iota
	// OutcomeCustom: unknown method but a numeric id — surface to the
	// application as a custom request.
	OutcomeCustom
	// OutcomeDropped: unknown method, no id, no handler — discard silently.
	OutcomeDropped
)

// Classify decides how the interactor's receiving path should treat
// msg: a method in the table routes to its tagged handler; anything
// else with a numeric id — an unknown method, or an id-only message —
// surfaces to the application; a message with neither is dropped.
func Classify(msg *jsonrpc.Message) (kind OutcomeKind, tag Tag) {
	if msg.Method != "" {
		if t, ok := TagForMethod(msg.Method); ok {
			return OutcomeKnown, t
		}
	}
	if msg.ID != nil {
		return OutcomeCustom, ""
	}
	return OutcomeDropped, ""
}
