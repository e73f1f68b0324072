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

// Package interactor is the session state machine: it owns the relay
// socket, the handshake id, the peer identity, the subscription set,
// and the public connect/approve/reject/update/kill operations that
// drive a WalletConnect v1 pairing.
package interactor

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sage-x-project/walletbridge/internal/logger"
	"github.com/sage-x-project/walletbridge/internal/metrics"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/chains/binance"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/chains/cosmos"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/chains/ethereum"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/chains/trust"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/envelope"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/events"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/jsonrpc"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/model"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/relay"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/relay/transport"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/store"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/subscription"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/uri"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/wcerrors"
)

// Interactor is the session state machine. It exclusively owns the
// socket, the subscription registry, the handshake context, and the
// timers.
type Interactor struct {
	session  *uri.Session
	clientID string
	cfg      Config
	observer Observer
	store    store.Store
	metrics  *metrics.Interactor
	log      logger.Logger

	socket transport.Socket
	subs   *subscription.Registry

	mu            sync.Mutex
	state         State
	handshakeID   int64
	peerID        string
	peerMeta      model.PeerMeta
	chainType     string
	coinTypes     []uint
	userCancelled bool

	pingTicker     *time.Ticker
	handshakeTimer *time.Timer

	nextID atomic.Int64
}

// Option customizes a newly constructed Interactor.
type Option func(*Interactor)

func WithSocket(s transport.Socket) Option { return func(i *Interactor) { i.socket = s } }
func WithStore(s store.Store) Option       { return func(i *Interactor) { i.store = s } }
func WithLogger(l logger.Logger) Option    { return func(i *Interactor) { i.log = l } }
func WithMetrics(m *metrics.Interactor) Option {
	return func(i *Interactor) { i.metrics = m }
}
func WithClientID(id string) Option { return func(i *Interactor) { i.clientID = id } }
func WithConfig(cfg Config) Option  { return func(i *Interactor) { i.cfg = cfg } }

// New builds an Interactor for session. The socket defaults to a real
// WSSocket dialing session.Bridge; tests substitute a fake via WithSocket.
func New(session *uri.Session, observer Observer, opts ...Option) *Interactor {
	i := &Interactor{
		session:     session,
		clientID:    uuid.New().String(),
		cfg:         DefaultConfig(),
		observer:    observer,
		log:         logger.Nop(),
		subs:        subscription.New(),
		handshakeID: -1,
		state:       StateDisconnected,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.socket == nil {
		i.socket = transport.NewWSSocket(session.Bridge)
	}
	i.nextID.Store(1)
	return i
}

// State reports the interactor's current connection state.
func (i *Interactor) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// ClientID is this interactor's own identity on the relay — the topic
// ACKs addressed to it arrive on.
func (i *Interactor) ClientID() string { return i.clientID }

// Peer reports the handshake context captured from the last
// wc_sessionRequest: peer id, peer metadata, chain type, and the coin
// types the dApp asked addresses for. Empty until a session request
// arrives (a resumed session restores peer id and metadata from the
// store at connect time); reset on disconnect.
func (i *Interactor) Peer() (peerID string, meta model.PeerMeta, chainType string, coinTypes []uint) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.peerID, i.peerMeta, i.chainType, i.coinTypes
}

func (i *Interactor) setState(s State) {
	i.mu.Lock()
	i.state = s
	i.mu.Unlock()
	if i.metrics != nil {
		i.metrics.SetState(float64(s))
	}
}

// Connect opens the relay socket and subscribes to this session's
// topic and client id.
func (i *Interactor) Connect(ctx context.Context) error {
	i.mu.Lock()
	if i.state != StateDisconnected && i.state != StatePaused {
		i.mu.Unlock()
		return wcerrors.New(wcerrors.CodeSessionInvalid, "connect called while not disconnected or paused")
	}
	i.state = StateConnecting
	i.userCancelled = false
	i.mu.Unlock()

	var record *store.Record
	if i.store != nil {
		if r, err := i.store.Load(ctx, i.session.Topic); err == nil {
			record = r
		}
	}
	isResume := record != nil && record.Session.Equal(i.session)

	dialCtx, cancel := context.WithTimeout(ctx, i.cfg.ConnectTimeout)
	defer cancel()

	i.log.Debug("dialing relay", logger.String("bridge", i.session.Bridge))
	if err := i.socket.Connect(dialCtx); err != nil {
		i.setState(StateDisconnected)
		derr := wcerrors.Wrap(wcerrors.CodeSessionRequestTimeout, err, "relay connect failed")
		i.observer.fireDisconnect(derr)
		return derr
	}

	i.mu.Lock()
	i.state = StateConnected
	if isResume {
		i.peerID = record.PeerID
		i.peerMeta = record.PeerMeta
	} else {
		i.peerID = ""
		i.peerMeta = model.PeerMeta{}
	}
	i.mu.Unlock()
	if i.metrics != nil {
		i.metrics.IncConnects()
		i.metrics.SetState(float64(StateConnected))
	}

	i.subs.Reset()
	i.subscribeTopic(i.session.Topic)
	i.subscribeTopic(i.clientID)
	if isResume && record.PeerID != "" {
		i.subscribeTopic(record.PeerID)
	}

	var handshakeTimer *time.Timer
	if !isResume {
		handshakeTimer = time.NewTimer(i.cfg.HandshakeTimeout)
		i.mu.Lock()
		i.handshakeTimer = handshakeTimer
		i.mu.Unlock()
	}

	pingTicker := time.NewTicker(i.cfg.PingInterval)
	i.mu.Lock()
	i.pingTicker = pingTicker
	i.mu.Unlock()

	go i.runEventLoop(i.socket.Events(), pingTicker, handshakeTimer)

	i.log.Info("connected to relay",
		logger.String("topic", i.session.Topic), logger.Bool("resumed", isResume))
	i.observer.fireConnected()
	return nil
}

// subscribeTopic subscribes to topic and, on first insertion, emits a
// sub frame. The registry's mutex is released before the write happens.
func (i *Interactor) subscribeTopic(topic string) {
	if i.subs.Subscribe(topic) {
		if err := i.socket.WriteFrame(relay.NewSub(topic)); err == nil && i.metrics != nil {
			i.metrics.IncFramesSent()
		}
	}
}

// runEventLoop drains one connection's event channel. The channel is
// captured at connect time so a reconnect's events never interleave
// with a loop that belongs to an earlier connection.
func (i *Interactor) runEventLoop(events <-chan transport.Event, pingTicker *time.Ticker, handshakeTimer *time.Timer) {
	var handshakeC <-chan time.Time
	if handshakeTimer != nil {
		handshakeC = handshakeTimer.C
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if stop := i.handleSocketEvent(ev); stop {
				pingTicker.Stop()
				return
			}
		case <-pingTicker.C:
			_ = i.socket.Ping()
		case <-handshakeC:
			pingTicker.Stop()
			i.onHandshakeTimeout()
			return
		}
	}
}

func (i *Interactor) handleSocketEvent(ev transport.Event) (stop bool) {
	switch ev.Kind {
	case transport.EventClosed:
		i.handleClosed(ev)
		return true
	case transport.EventPingText:
		_ = i.socket.WriteText("pong")
		return false
	case transport.EventError:
		i.observer.fireError(ev.Err)
		return false
	case transport.EventFrame:
		i.handleFrame(ev.Frame)
		return false
	default:
		return false
	}
}

func (i *Interactor) onHandshakeTimeout() {
	i.mu.Lock()
	if i.state != StateConnected {
		i.mu.Unlock()
		return
	}
	i.teardownLocked()
	i.mu.Unlock()

	_ = i.socket.Close(1000)
	if i.metrics != nil {
		i.metrics.SetState(float64(StateDisconnected))
	}
	i.log.Warn("handshake watchdog expired")
	i.observer.fireDisconnect(wcerrors.New(wcerrors.CodeSessionRequestTimeout,
		"no wc_sessionRequest received within handshake window"))
}

// teardownLocked invalidates the timers, clears the subscription set,
// and resets the handshake context (handshake id, peer id and metadata,
// chain type, coin types). Caller must hold i.mu.
func (i *Interactor) teardownLocked() {
	i.state = StateDisconnected
	if i.handshakeTimer != nil {
		i.handshakeTimer.Stop()
		i.handshakeTimer = nil
	}
	if i.pingTicker != nil {
		i.pingTicker.Stop()
		i.pingTicker = nil
	}
	i.handshakeID = -1
	i.peerID = ""
	i.peerMeta = model.PeerMeta{}
	i.chainType = ""
	i.coinTypes = nil
	i.subs.Reset()
}

func (i *Interactor) handleClosed(ev transport.Event) {
	i.mu.Lock()
	// A paused session stays paused: the 1001 close Pause issued echoes
	// back through the read loop and must not tear down or reconnect.
	if i.state == StateDisconnected || i.state == StatePaused {
		i.mu.Unlock()
		return
	}
	i.teardownLocked()
	userCancelled := i.userCancelled
	i.mu.Unlock()

	if i.metrics != nil {
		i.metrics.SetState(float64(StateDisconnected))
	}

	if ev.CloseCode == 4022 {
		err := wcerrors.New(wcerrors.CodeSecurity, "relay closed connection: too many messages")
		i.observer.fireError(err)
		i.observer.fireDisconnect(err)
		return
	}

	if userCancelled {
		i.observer.fireDisconnect(nil)
		return
	}

	if i.cfg.Reconnect.Enabled {
		go i.attemptReconnect(ev.Err)
		return
	}
	i.observer.fireDisconnect(ev.Err)
}

func (i *Interactor) attemptReconnect(lastErr error) {
	for attempt := 1; attempt <= i.cfg.Reconnect.MaxAttempts; attempt++ {
		time.Sleep(i.cfg.Reconnect.Wait)

		i.mu.Lock()
		cancelled := i.userCancelled
		i.mu.Unlock()
		if cancelled {
			return
		}

		if i.metrics != nil {
			i.metrics.IncReconnects()
		}
		i.log.Info("reconnecting", logger.Int("attempt", attempt))
		if err := i.Connect(context.Background()); err == nil {
			return
		} else {
			lastErr = err
		}
	}
	i.log.Error("reconnect attempts exhausted", logger.Error(lastErr))
	i.observer.fireDisconnect(lastErr)
}

func (i *Interactor) handleFrame(frame *relay.Frame) {
	switch frame.Type {
	case relay.TypeAck:
		if i.metrics != nil {
			i.metrics.IncFramesReceived()
		}
		ack := model.AckMessage{Topic: frame.Topic, Payload: payloadString(frame.Payload), Timestamp: frame.Timestamp}
		i.observer.fireReceiveACK(ack)
	case relay.TypePub:
		if i.metrics != nil {
			i.metrics.IncFramesReceived()
		}
		i.handlePub(frame)
	default:
		// sub frames are outbound-only; an inbound one is ignored.
	}
}

func payloadString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (i *Interactor) handlePub(frame *relay.Frame) {
	env, err := frame.Envelope()
	if err != nil {
		i.observer.fireError(wcerrors.Wrap(wcerrors.CodeBadJSONRPCRequest, err, "decode pub payload"))
		return
	}
	if env == nil {
		return
	}

	plaintext, err := envelope.Decrypt(env, i.session.Key)
	if err != nil {
		if i.metrics != nil {
			if wcerrors.CodeOf(err) == wcerrors.CodeHmacMismatch {
				i.metrics.IncHMACFailures()
			} else {
				i.metrics.IncDecryptFailures()
			}
		}
		i.observer.fireError(err)
		return
	}

	msg, err := jsonrpc.ParseMessage(plaintext)
	if err != nil {
		i.observer.fireError(err)
		return
	}

	i.dispatch(plaintext, msg, frame.Timestamp)
}

func (i *Interactor) dispatch(raw json.RawMessage, msg *jsonrpc.Message, timestamp *uint64) {
	kind, tag := events.Classify(msg)
	switch kind {
	case events.OutcomeDropped:
		return
	case events.OutcomeCustom:
		if i.metrics != nil {
			i.metrics.IncCustomRequests()
		}
		i.observer.fireCustomRequest(*msg.ID, raw, timestamp)
	case events.OutcomeKnown:
		i.handleKnownEvent(tag, msg, timestamp)
	}
}

func (i *Interactor) handleKnownEvent(tag events.Tag, msg *jsonrpc.Message, timestamp *uint64) {
	var id int64
	if msg.ID != nil {
		id = *msg.ID
	}

	switch tag {
	case events.TagSessionRequest:
		i.handleSessionRequest(id, msg.Params)
	case events.TagSessionUpdate, events.TagSessionKill:
		i.handleSessionUpdate(msg.Params)
	case events.TagEthSign:
		(&ethereum.Handler{OnSign: i.observer.OnEthSign}).HandleSign(ethereum.KindEthSign, id, msg.Params)
	case events.TagPersonalSign:
		(&ethereum.Handler{OnSign: i.observer.OnEthSign}).HandleSign(ethereum.KindPersonalSign, id, msg.Params)
	case events.TagEthSignTypedData:
		(&ethereum.Handler{OnSign: i.observer.OnEthSign}).HandleSign(ethereum.KindEthSignTypedData, id, msg.Params)
	case events.TagEthSignTransaction:
		(&ethereum.Handler{OnTransaction: i.observer.OnEthTransaction}).HandleTransaction(tag, id, msg.Params, timestamp)
	case events.TagEthSendTransaction:
		(&ethereum.Handler{OnTransaction: i.observer.OnEthTransaction}).HandleTransaction(tag, id, msg.Params, timestamp)
	case events.TagBnbSign:
		(&binance.Handler{OnSign: i.observer.OnBnbSign}).HandleSign(id, msg.Params)
	case events.TagBnbTxConfirmation:
		(&binance.Handler{OnConfirmation: i.observer.OnBnbConfirmation}).HandleConfirmation(id, msg.Params)
	case events.TagTrustSignTransaction:
		(&trust.Handler{OnSignTransaction: i.observer.OnTrustSignTransaction}).HandleSignTransaction(id, msg.Params)
	case events.TagGetAccounts:
		(&trust.Handler{OnGetAccounts: i.observer.OnTrustGetAccounts}).HandleGetAccounts(id)
	case events.TagCosmosSendTransaction:
		(&cosmos.Handler{OnTransaction: i.observer.OnCosmosTransaction}).HandleTransaction(id, msg.Params, timestamp)
	}
}

func (i *Interactor) handleSessionRequest(id int64, params json.RawMessage) {
	var arr []WCSessionRequestParam
	if err := json.Unmarshal(params, &arr); err != nil || len(arr) == 0 {
		i.observer.fireError(wcerrors.New(wcerrors.CodeBadJSONRPCRequest, "wc_sessionRequest params must carry one element"))
		return
	}
	param := arr[0]

	i.mu.Lock()
	i.handshakeID = id
	i.peerID = param.PeerID
	i.peerMeta = param.PeerMeta
	i.chainType = param.ChainType
	if i.chainType == "" && param.ChainID != nil {
		i.chainType = string(*param.ChainID)
	}
	i.coinTypes = param.AddressRequiredCoinTypes
	if i.handshakeTimer != nil {
		i.handshakeTimer.Stop()
	}
	i.mu.Unlock()

	i.log.Info("session request received",
		logger.Int("id", int(id)), logger.String("peer", param.PeerID))

	// ACKs for our responses arrive addressed to the peer's id.
	i.subscribeTopic(param.PeerID)
	i.observer.fireSessionRequest(id, param)
}

func (i *Interactor) handleSessionUpdate(params json.RawMessage) {
	var arr []WCSessionUpdateParam
	if err := json.Unmarshal(params, &arr); err != nil || len(arr) == 0 {
		return
	}
	if arr[0].Approved {
		return
	}

	i.mu.Lock()
	i.teardownLocked()
	i.userCancelled = true
	i.mu.Unlock()

	_ = i.socket.Close(1000)
	i.observer.fireSessionKilled()
}

// ApproveSession answers a pending wc_sessionRequest with a successful
// JSON-RPC response addressed to the peer.
func (i *Interactor) ApproveSession(ctx context.Context, result SessionApprovalResult) error {
	i.mu.Lock()
	if i.handshakeID <= 0 {
		i.mu.Unlock()
		return wcerrors.New(wcerrors.CodeSessionInvalid, "approveSession called without a pending handshake")
	}
	id, target := i.handshakeID, i.peerID
	i.mu.Unlock()

	raw, err := jsonrpc.EncodeResult(id, result)
	if err != nil {
		return err
	}
	return i.encryptAndSend(target, raw)
}

// RejectSession answers a pending wc_sessionRequest with a JSONRPC
// error response (code -32000, internal-rejection policy).
func (i *Interactor) RejectSession(ctx context.Context, message string) error {
	i.mu.Lock()
	if i.handshakeID <= 0 {
		i.mu.Unlock()
		return wcerrors.New(wcerrors.CodeSessionInvalid, "rejectSession called without a pending handshake")
	}
	id, target := i.handshakeID, i.peerID
	i.mu.Unlock()

	raw, err := jsonrpc.EncodeError(id, jsonrpc.CodeInternal, message)
	if err != nil {
		return err
	}
	return i.encryptAndSend(target, raw)
}

// UpdateSession sends a fresh JSONRPCRequest of method carrying param.
func (i *Interactor) UpdateSession(ctx context.Context, param WCSessionUpdateParam, method string) error {
	if i.State() != StateConnected {
		return wcerrors.New(wcerrors.CodeSessionInvalid, "updateSession requires a connected session")
	}

	id := i.nextID.Add(1)
	raw, err := jsonrpc.EncodeRequest(id, method, []interface{}{param})
	if err != nil {
		return err
	}

	i.mu.Lock()
	target := i.peerID
	if target == "" {
		target = i.session.Topic
	}
	i.mu.Unlock()

	return i.encryptAndSend(target, raw)
}

// KillSession sends an approved=false session update, marks the
// session user-cancelled, disconnects, and fires OnSessionKilled.
func (i *Interactor) KillSession(ctx context.Context, method string) error {
	param := WCSessionUpdateParam{Approved: false, ChainID: nil, Accounts: nil}

	sendErr := i.UpdateSession(ctx, param, method)

	i.mu.Lock()
	i.teardownLocked()
	i.userCancelled = true
	i.mu.Unlock()
	_ = i.socket.Close(1000)

	i.observer.fireSessionKilled()
	return sendErr
}

// ApproveRequest answers an arbitrary inbound request id with a
// successful JSONRPCResponse.
func (i *Interactor) ApproveRequest(ctx context.Context, id int64, result interface{}) error {
	raw, err := jsonrpc.EncodeResult(id, result)
	if err != nil {
		return err
	}
	return i.encryptAndSend(i.targetTopic(), raw)
}

// RejectRequest answers an arbitrary inbound request id with a
// JSONRPC error response, code 4001 (EIP-1193 user rejection).
func (i *Interactor) RejectRequest(ctx context.Context, id int64, message string) error {
	raw, err := jsonrpc.EncodeError(id, jsonrpc.CodeUserRejected, message)
	if err != nil {
		return err
	}
	return i.encryptAndSend(i.targetTopic(), raw)
}

// RejectRequestInternal is RejectRequest's -32000 variant, for
// rejections the wallet itself originates rather than the user.
func (i *Interactor) RejectRequestInternal(ctx context.Context, id int64, message string) error {
	raw, err := jsonrpc.EncodeError(id, jsonrpc.CodeInternal, message)
	if err != nil {
		return err
	}
	return i.encryptAndSend(i.targetTopic(), raw)
}

func (i *Interactor) targetTopic() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.peerID != "" {
		return i.peerID
	}
	return i.session.Topic
}

// encryptAndSend is the sending path: JSON -> encrypt -> pub frame ->
// socket write, guarded by the send watchdog.
func (i *Interactor) encryptAndSend(target string, plaintext []byte) error {
	env, err := envelope.Encrypt(plaintext, i.session.Key)
	if err != nil {
		return err
	}
	frame, err := relay.NewPub(target, env)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), i.cfg.SendTimeout)
	defer cancel()

	// The group's own context is cancelled as soon as Wait returns, so
	// the watchdog waits on the timeout context that parents it.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return i.socket.WriteFrame(frame) })

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err == nil && i.metrics != nil {
			i.metrics.IncFramesSent()
		}
		return err
	case <-ctx.Done():
		return wcerrors.New(wcerrors.CodeSessionRequestTimeout, "send watchdog expired")
	}
}

// Pause closes the socket with code 1001 (going away) without
// disconnecting the logical session — Resume reopens it. The paused
// state is set before the close so the resulting close event is not
// mistaken for a lost connection (no teardown, no reconnect).
func (i *Interactor) Pause(ctx context.Context) error {
	i.mu.Lock()
	if i.state != StateConnected {
		i.mu.Unlock()
		return wcerrors.New(wcerrors.CodeSessionInvalid, "pause requires a connected session")
	}
	if i.pingTicker != nil {
		i.pingTicker.Stop()
		i.pingTicker = nil
	}
	if i.handshakeTimer != nil {
		i.handshakeTimer.Stop()
		i.handshakeTimer = nil
	}
	i.state = StatePaused
	i.mu.Unlock()

	if i.metrics != nil {
		i.metrics.SetState(float64(StatePaused))
	}
	return i.socket.Close(1001)
}

// Resume reopens the socket from a paused state.
func (i *Interactor) Resume(ctx context.Context) error {
	if i.State() != StatePaused {
		return wcerrors.New(wcerrors.CodeSessionInvalid, "resume requires a paused session")
	}
	return i.Connect(ctx)
}

// Disconnect is the user-initiated, idempotent shutdown. No further
// timer callback fires and no frame is sent afterward.
func (i *Interactor) Disconnect(ctx context.Context) error {
	i.mu.Lock()
	if i.state == StateDisconnected {
		i.mu.Unlock()
		return nil
	}
	i.teardownLocked()
	i.userCancelled = true
	i.mu.Unlock()

	if i.metrics != nil {
		i.metrics.SetState(float64(StateDisconnected))
	}

	err := i.socket.Close(1000)
	i.observer.fireDisconnect(nil)
	return err
}
