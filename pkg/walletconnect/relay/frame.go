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

// Package relay implements the relay wire frame {topic,type,payload,
// timestamp}; the transport subpackage carries it over a WebSocket.
package relay

import (
	"bytes"
	"encoding/json"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/envelope"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

// Type is the relay frame's `type` discriminant.
type Type string

const (
	TypeSub Type = "sub"
	TypePub Type = "pub"
	TypeAck Type = "ack"
)

// Frame is the wire envelope the relay transports. Payload is kept as
// raw JSON so inbound decoding can tolerate both historical shapes: a
// JSON string containing the stringified envelope, or a bare envelope
// object.
type Frame struct {
	Topic     string          `json:"topic"`
	Type      Type            `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp *uint64         `json:"timestamp"`
}

var emptyPayload = mustMarshal("")

func mustMarshal(v string) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// NewSub builds a `sub` frame: payload is the empty string, no envelope.
func NewSub(topic string) *Frame {
	return &Frame{Topic: topic, Type: TypeSub, Payload: emptyPayload}
}

// NewPub builds a `pub` frame carrying env, stringified per the relay's
// historical wire format.
func NewPub(topic string, env *envelope.Envelope) (*Frame, error) {
	s, err := envelope.ToJSON(env)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeUnknown, err, "marshal stringified payload")
	}
	return &Frame{Topic: topic, Type: TypePub, Payload: raw}, nil
}

// Encode serializes f to its wire JSON form.
func Encode(f *Frame) ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeUnknown, err, "marshal frame")
	}
	return b, nil
}

// Decode parses raw into a Frame.
func Decode(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, wcerrors.Wrap(wcerrors.CodeBadJSONRPCRequest, err, "unmarshal frame")
	}
	return &f, nil
}

// Envelope extracts the envelope from f.Payload, tolerating an empty
// payload (returns nil, nil — used by `sub` frames), a JSON-string
// payload containing stringified envelope JSON, or a bare envelope
// object.
func (f *Frame) Envelope() (*envelope.Envelope, error) {
	payload := bytes.TrimSpace(f.Payload)
	if len(payload) == 0 || string(payload) == `""` || string(payload) == "null" {
		return nil, nil
	}

	switch payload[0] {
	case '"':
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, wcerrors.Wrap(wcerrors.CodeBadJSONRPCRequest, err, "unmarshal string payload")
		}
		if s == "" {
			return nil, nil
		}
		return envelope.FromJSON(s)
	case '{':
		var e envelope.Envelope
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, wcerrors.Wrap(wcerrors.CodeBadJSONRPCRequest, err, "unmarshal object payload")
		}
		return &e, nil
	default:
		return nil, wcerrors.New(wcerrors.CodeBadJSONRPCRequest, "unrecognized payload shape")
	}
}
