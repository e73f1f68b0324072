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

import "time"

// ReconnectPolicy governs whether and how the interactor reattaches
// after a non-fatal socket disconnect. Whether reconnection is wanted
// at all depends on the deployment, so it is a policy flag rather than
// a hardcoded behavior.
type ReconnectPolicy struct {
	Enabled     bool
	Wait        time.Duration
	MaxAttempts int
}

// Config tunes the interactor's timers and reconnect policy.
type Config struct {
	ConnectTimeout   time.Duration
	HandshakeTimeout time.Duration
	PingInterval     time.Duration
	SendTimeout      time.Duration
	Reconnect        ReconnectPolicy
}

// DefaultConfig carries the timer values the v1 bridge protocol has
// historically used.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:   15 * time.Second,
		HandshakeTimeout: 20 * time.Second,
		PingInterval:     15 * time.Second,
		SendTimeout:      5 * time.Second,
		Reconnect: ReconnectPolicy{
			Enabled:     true,
			Wait:        500 * time.Millisecond,
			MaxAttempts: 3,
		},
	}
}
