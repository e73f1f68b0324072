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

// Package model holds the small value types shared between the
// interactor and the session store contract, kept separate from both
// so neither has to import the other.
package model

// PeerMeta describes the remote peer's application, set once at
// handshake time.
type PeerMeta struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Icons       []string `json:"icons"`
}

// AckMessage is what the relay's `ack` frame surfaces to the application.
type AckMessage struct {
	Topic     string  `json:"topic"`
	Payload   string  `json:"payload"`
	Timestamp *uint64 `json:"timestamp,omitempty"`
}
