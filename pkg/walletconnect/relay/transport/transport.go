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

// Package transport wraps the relay WebSocket. The interactor never
// touches *websocket.Conn directly: it drains a channel of Events the
// reader goroutine produces, so no callback cycle forms between the
// interactor and the socket.
package transport

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/relay"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

// EventKind discriminates the Event union delivered on Socket.Events().
type EventKind int

const (
	EventFrame EventKind = iota
	EventPingText
	EventError
	EventClosed
)

// Event is one item from the socket's read loop.
type Event struct {
	Kind      EventKind
	Frame     *relay.Frame
	Err       error
	CloseCode int
}

// Socket is the minimal surface the interactor needs from a relay
// connection. Modeling it as an interface keeps the interactor testable
// without a live WebSocket (see Fake, used by the interactor's tests).
// Events returns the channel for the current connection; callers must
// grab it once per Connect rather than re-reading it mid-connection.
type Socket interface {
	Connect(ctx context.Context) error
	WriteFrame(f *relay.Frame) error
	WriteText(s string) error
	Ping() error
	Close(code int) error
	Events() <-chan Event
}

// WSSocket is the default Socket, backed by gorilla/websocket — the
// same library and dial/write-deadline pattern SAGE's
// pkg/agent/transport/websocket client uses.
type WSSocket struct {
	url          string
	dialTimeout  time.Duration
	writeTimeout time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	events chan Event

	closeOnce sync.Once
}

// NewWSSocket builds a WSSocket for url with sane default timeouts.
// Pairing URIs name the bridge with an http(s) scheme; the WebSocket
// dial wants ws(s), so the scheme is rewritten here.
func NewWSSocket(url string) *WSSocket {
	return &WSSocket{
		url:          wsScheme(url),
		dialTimeout:  15 * time.Second,
		writeTimeout: 5 * time.Second,
		events:       make(chan Event, 64),
	}
}

func wsScheme(url string) string {
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	default:
		return url
	}
}

// Connect dials the relay and starts the read loop. Each connection
// gets its own events channel so events from a previous connection
// can never leak into the consumer of the next one.
func (s *WSSocket) Connect(ctx context.Context) error {
	dialer := &websocket.Dialer{HandshakeTimeout: s.dialTimeout}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return wcerrors.Wrap(wcerrors.CodeTransport, err, "relay dial failed")
	}

	events := make(chan Event, 64)
	s.mu.Lock()
	s.conn = conn
	s.events = events
	s.closeOnce = sync.Once{}
	s.mu.Unlock()

	conn.SetPongHandler(func(string) error { return nil })

	go s.readLoop(conn, events)
	return nil
}

func (s *WSSocket) readLoop(conn *websocket.Conn, events chan<- Event) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			code := websocket.CloseNormalClosure
			if ce, ok := err.(*websocket.CloseError); ok {
				code = ce.Code
			}
			emit(events, Event{Kind: EventClosed, Err: err, CloseCode: code})
			return
		}

		if msgType == websocket.TextMessage && string(data) == "ping" {
			emit(events, Event{Kind: EventPingText})
			continue
		}

		frame, ferr := relay.Decode(data)
		if ferr != nil {
			// Malformed frame from the relay: surface it, keep reading.
			emit(events, Event{Kind: EventError, Err: ferr})
			continue
		}
		emit(events, Event{Kind: EventFrame, Frame: frame})
	}
}

func emit(events chan<- Event, ev Event) {
	select {
	case events <- ev:
	default:
		// Slow consumer: drop rather than block the reader goroutine forever.
	}
}

func (s *WSSocket) Events() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}

// WriteFrame encodes and writes f as a text WebSocket message.
func (s *WSSocket) WriteFrame(f *relay.Frame) error {
	b, err := relay.Encode(f)
	if err != nil {
		return err
	}
	return s.writeMessage(websocket.TextMessage, b)
}

// WriteText writes a raw text frame, used for the historical
// "ping"/"pong" text-frame exchange some relays still expect.
func (s *WSSocket) WriteText(text string) error {
	return s.writeMessage(websocket.TextMessage, []byte(text))
}

func (s *WSSocket) writeMessage(msgType int, data []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return wcerrors.New(wcerrors.CodeTransport, "not connected")
	}

	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return wcerrors.Wrap(wcerrors.CodeTransport, err, "set write deadline")
	}
	if err := conn.WriteMessage(msgType, data); err != nil {
		return wcerrors.Wrap(wcerrors.CodeTransport, err, "write message")
	}
	return nil
}

// Ping sends a WebSocket-protocol ping control frame.
func (s *WSSocket) Ping() error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return wcerrors.New(wcerrors.CodeTransport, "not connected")
	}
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeTimeout))
}

// Close closes the connection exactly once with the given close code.
func (s *WSSocket) Close(code int) error {
	var closeErr error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			return
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, ""), time.Now().Add(s.writeTimeout))
		closeErr = conn.Close()
	})
	return closeErr
}
