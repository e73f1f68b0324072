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

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Interactor holds the counters/gauges the session interactor updates
// over its lifetime. A nil *Interactor is safe to call methods on —
// every method is a no-op — so metrics stay strictly optional.
type Interactor struct {
	connects          prometheus.Counter
	reconnects        prometheus.Counter
	framesSent        prometheus.Counter
	framesReceived    prometheus.Counter
	decryptFailures   prometheus.Counter
	hmacFailures      prometheus.Counter
	customRequests    prometheus.Counter
	state             prometheus.Gauge
}

// NewInteractor registers a fresh set of interactor metrics on reg and
// returns the collector. A nil reg builds the collectors without
// registering them anywhere.
func NewInteractor(reg *prometheus.Registry) *Interactor {
	m := &Interactor{
		connects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "walletbridge", Name: "connects_total",
			Help: "Number of times the interactor reached the connected state.",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "walletbridge", Name: "reconnect_attempts_total",
			Help: "Number of reconnect attempts made after a non-fatal disconnect.",
		}),
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "walletbridge", Name: "relay_frames_sent_total",
			Help: "Relay frames written to the socket (sub+pub).",
		}),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "walletbridge", Name: "relay_frames_received_total",
			Help: "Relay frames read from the socket (pub+ack).",
		}),
		decryptFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "walletbridge", Name: "envelope_decrypt_failures_total",
			Help: "Inbound envelopes that failed AES-CBC decryption.",
		}),
		hmacFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "walletbridge", Name: "envelope_hmac_failures_total",
			Help: "Inbound envelopes that failed HMAC verification.",
		}),
		customRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "walletbridge", Name: "custom_requests_total",
			Help: "Inbound JSON-RPC calls with no known event mapping.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "walletbridge", Name: "interactor_state",
			Help: "Current InteractorState as an integer (0=disconnected,1=connecting,2=connected,3=paused).",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.connects, m.reconnects, m.framesSent, m.framesReceived,
			m.decryptFailures, m.hmacFailures, m.customRequests, m.state)
	}
	return m
}

func (m *Interactor) IncConnects() {
	if m != nil {
		m.connects.Inc()
	}
}

func (m *Interactor) IncReconnects() {
	if m != nil {
		m.reconnects.Inc()
	}
}

func (m *Interactor) IncFramesSent() {
	if m != nil {
		m.framesSent.Inc()
	}
}

func (m *Interactor) IncFramesReceived() {
	if m != nil {
		m.framesReceived.Inc()
	}
}

func (m *Interactor) IncDecryptFailures() {
	if m != nil {
		m.decryptFailures.Inc()
	}
}

func (m *Interactor) IncHMACFailures() {
	if m != nil {
		m.hmacFailures.Inc()
	}
}

func (m *Interactor) IncCustomRequests() {
	if m != nil {
		m.customRequests.Inc()
	}
}

func (m *Interactor) SetState(v float64) {
	if m != nil {
		m.state.Set(v)
	}
}
