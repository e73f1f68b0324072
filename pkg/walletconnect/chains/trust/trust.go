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

// Package trust passes Trust Wallet's custom methods through to the
// application untouched.
package trust

import "encoding/json"

// Handler owns the Trust observer callbacks. Both methods carry
// whatever shape the dApp sent; this package makes no attempt to
// interpret it.
type Handler struct {
	OnSignTransaction func(id int64, raw json.RawMessage)
	OnGetAccounts     func(id int64)
}

// HandleSignTransaction forwards a trust_signTransaction request as-is.
func (h *Handler) HandleSignTransaction(id int64, params json.RawMessage) {
	if h.OnSignTransaction != nil {
		h.OnSignTransaction(id, params)
	}
}

// HandleGetAccounts forwards a get_accounts request; it carries no params.
func (h *Handler) HandleGetAccounts(id int64) {
	if h.OnGetAccounts != nil {
		h.OnGetAccounts(id)
	}
}
