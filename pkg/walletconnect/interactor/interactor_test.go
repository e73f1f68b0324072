package interactor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/envelope"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/jsonrpc"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/model"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/relay"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/relay/transport"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/uri"
)

func testSession(t *testing.T) *uri.Session {
	t.Helper()
	sess, err := uri.Parse("wc:abc-123@1?bridge=https%3A%2F%2Fb.example%2F&key=000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)
	return sess
}

func deliverRequest(t *testing.T, fake *transport.Fake, sess *uri.Session, topic string, id int64, method string, params interface{}) {
	t.Helper()
	raw, err := jsonrpc.EncodeRequest(id, method, params)
	require.NoError(t, err)
	env, err := envelope.Encrypt(raw, sess.Key)
	require.NoError(t, err)
	frame, err := relay.NewPub(topic, env)
	require.NoError(t, err)
	fake.Deliver(frame)
}

func decryptSent(t *testing.T, sess *uri.Session, frame *relay.Frame) []byte {
	t.Helper()
	env, err := frame.Envelope()
	require.NoError(t, err)
	plaintext, err := envelope.Decrypt(env, sess.Key)
	require.NoError(t, err)
	return plaintext
}

func waitFor(t *testing.T, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition was never met")
}

// S1: pair + approve.
func TestS1PairAndApprove(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()

	var gotID int64
	var gotParam WCSessionRequestParam
	connected := false

	obs := Observer{
		OnConnected:      func() { connected = true },
		OnSessionRequest: func(id int64, p WCSessionRequestParam) { gotID, gotParam = id, p },
	}

	ia := New(sess, obs, WithSocket(fake), WithClientID("client-uuid"))
	require.NoError(t, ia.Connect(context.Background()))
	require.True(t, connected)
	require.Len(t, fake.Sent, 2)
	require.Equal(t, "abc-123", fake.Sent[0].Topic)
	require.Equal(t, "client-uuid", fake.Sent[1].Topic)

	deliverRequest(t, fake, sess, "abc-123", 42, "wc_sessionRequest", []interface{}{
		map[string]interface{}{
			"peerId": "peer-9",
			"peerMeta": map[string]interface{}{
				"name": "dApp", "url": "https://dapp.example", "description": "", "icons": []string{},
			},
		},
	})

	waitFor(t, func() bool { return gotID != 0 })
	require.Equal(t, int64(42), gotID)
	require.Equal(t, "peer-9", gotParam.PeerID)

	require.NoError(t, ia.ApproveSession(context.Background(), SessionApprovalResult{
		Approved: true,
		ChainID:  "1",
		Accounts: []string{"0xabc"},
		PeerID:   "client-uuid",
	}))

	waitFor(t, func() bool { return len(fake.Sent) == 4 })
	pubFrame := fake.Sent[3]
	require.Equal(t, "peer-9", pubFrame.Topic)
	require.Equal(t, relay.TypePub, pubFrame.Type)

	plaintext := decryptSent(t, sess, pubFrame)
	msg, err := jsonrpc.ParseMessage(plaintext)
	require.NoError(t, err)
	require.NotNil(t, msg.ID)
	require.Equal(t, int64(42), *msg.ID)
}

// S2: tamper.
func TestS2TamperedHMACFiresOnError(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()

	var gotErr error
	obs := Observer{OnError: func(err error) { gotErr = err }}
	ia := New(sess, obs, WithSocket(fake))
	require.NoError(t, ia.Connect(context.Background()))

	raw, err := jsonrpc.EncodeRequest(1, "eth_sign", []string{"a", "b"})
	require.NoError(t, err)
	env, err := envelope.Encrypt(raw, sess.Key)
	require.NoError(t, err)

	// Flip the last hex nibble of the hmac.
	last := env.HMAC[len(env.HMAC)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	env.HMAC = env.HMAC[:len(env.HMAC)-1] + string(flipped)

	frame, err := relay.NewPub("abc-123", env)
	require.NoError(t, err)
	fake.Deliver(frame)

	waitFor(t, func() bool { return gotErr != nil })
	require.Equal(t, StateConnected, ia.State())
}

// S3: handshake timeout, with a short timeout for test speed.
func TestS3HandshakeTimeout(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()

	var gotErr error
	obs := Observer{OnDisconnect: func(err error) { gotErr = err }}
	cfg := DefaultConfig()
	cfg.HandshakeTimeout = 30 * time.Millisecond
	cfg.Reconnect.Enabled = false
	ia := New(sess, obs, WithSocket(fake), WithConfig(cfg))
	require.NoError(t, ia.Connect(context.Background()))

	waitFor(t, func() bool { return gotErr != nil })
	require.Equal(t, StateDisconnected, ia.State())
	closed, _ := fake.Closed()
	require.True(t, closed)
}

// S4: reject request.
func TestS4RejectRequest(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()
	ia := New(sess, Observer{}, WithSocket(fake), WithClientID("client-uuid"))
	require.NoError(t, ia.Connect(context.Background()))

	deliverRequest(t, fake, sess, "abc-123", 42, "wc_sessionRequest", []interface{}{
		map[string]interface{}{"peerId": "peer-9", "peerMeta": map[string]interface{}{}},
	})
	waitFor(t, func() bool { return ia.handshakeID == 42 })

	require.NoError(t, ia.RejectRequest(context.Background(), 7, "user refused"))

	waitFor(t, func() bool { return len(fake.Sent) == 4 })
	plaintext := decryptSent(t, sess, fake.Sent[3])

	var decoded struct {
		ID    int64 `json:"id"`
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(plaintext, &decoded))
	require.Equal(t, int64(7), decoded.ID)
	require.Equal(t, 4001, decoded.Error.Code)
	require.Equal(t, "user refused", decoded.Error.Message)
}

// S5: kill.
func TestS5KillSession(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()
	killed := false
	obs := Observer{OnSessionKilled: func() { killed = true }}
	ia := New(sess, obs, WithSocket(fake))
	require.NoError(t, ia.Connect(context.Background()))

	require.NoError(t, ia.KillSession(context.Background(), "wc_sessionUpdate"))
	require.True(t, killed)
	require.Equal(t, StateDisconnected, ia.State())

	last := fake.Sent[len(fake.Sent)-1]
	plaintext := decryptSent(t, sess, last)
	require.Contains(t, string(plaintext), `"approved":false`)
	require.Contains(t, string(plaintext), `"chainId":null`)
	require.Contains(t, string(plaintext), `"accounts":null`)
}

// S6: custom request.
func TestS6CustomRequest(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()

	var gotID int64
	var gotRaw json.RawMessage
	obs := Observer{OnCustomRequest: func(id int64, raw json.RawMessage, ts *uint64) {
		gotID, gotRaw = id, raw
	}}
	ia := New(sess, obs, WithSocket(fake))
	require.NoError(t, ia.Connect(context.Background()))

	deliverRequest(t, fake, sess, "abc-123", 11, "my_custom", map[string]interface{}{"foo": "bar"})

	waitFor(t, func() bool { return gotID != 0 })
	require.Equal(t, int64(11), gotID)
	require.Contains(t, string(gotRaw), "my_custom")
}

func TestAckFrameFiresOnReceiveACK(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()

	var got *model.AckMessage
	obs := Observer{OnReceiveACK: func(ack model.AckMessage) { got = &ack }}
	ia := New(sess, obs, WithSocket(fake))
	require.NoError(t, ia.Connect(context.Background()))

	ts := uint64(1700000000)
	fake.Deliver(&relay.Frame{Topic: "peer-9", Type: relay.TypeAck, Payload: json.RawMessage(`""`), Timestamp: &ts})

	waitFor(t, func() bool { return got != nil })
	require.Equal(t, "peer-9", got.Topic)
	require.EqualValues(t, 1700000000, *got.Timestamp)
}

func TestPingTextFrameGetsPongReply(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()
	ia := New(sess, Observer{}, WithSocket(fake))
	require.NoError(t, ia.Connect(context.Background()))

	fake.DeliverPingText()
	waitFor(t, func() bool { return len(fake.Texts) == 1 })
	require.Equal(t, "pong", fake.Texts[0])
}

func TestDisconnectIsIdempotent(t *testing.T) {
	sess := testSession(t)
	fake := transport.NewFake()
	disconnects := 0
	obs := Observer{OnDisconnect: func(err error) { disconnects++ }}
	ia := New(sess, obs, WithSocket(fake))
	require.NoError(t, ia.Connect(context.Background()))

	require.NoError(t, ia.Disconnect(context.Background()))
	require.NoError(t, ia.Disconnect(context.Background()))
	require.Equal(t, 1, disconnects)
}
