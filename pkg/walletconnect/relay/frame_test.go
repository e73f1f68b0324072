package relay

import (
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/envelope"
)

func testEnvelope(t *testing.T) *envelope.Envelope {
	t.Helper()
	key := make([]byte, envelope.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	env, err := envelope.Encrypt([]byte(`{"id":1}`), key)
	require.NoError(t, err)
	return env
}

func TestSubFrameHasEmptyPayload(t *testing.T) {
	f := NewSub("abc-123")
	b, err := Encode(f)
	require.NoError(t, err)
	require.Contains(t, string(b), `"type":"sub"`)

	env, err := f.Envelope()
	require.NoError(t, err)
	require.Nil(t, env)
}

func TestPubFrameRoundTrip(t *testing.T) {
	env := testEnvelope(t)
	f, err := NewPub("peer-9", env)
	require.NoError(t, err)

	wire, err := Encode(f)
	require.NoError(t, err)

	decoded, err := Decode(wire)
	require.NoError(t, err)
	require.Equal(t, "peer-9", decoded.Topic)
	require.Equal(t, TypePub, decoded.Type)

	got, err := decoded.Envelope()
	require.NoError(t, err)
	require.Equal(t, env, got)
}

func TestDecodeToleratesObjectPayload(t *testing.T) {
	env := testEnvelope(t)
	envJSON, err := json.Marshal(env)
	require.NoError(t, err)

	raw := []byte(`{"topic":"t","type":"pub","payload":` + string(envJSON) + `,"timestamp":null}`)
	f, err := Decode(raw)
	require.NoError(t, err)

	got, err := f.Envelope()
	require.NoError(t, err)
	require.Equal(t, env, got)
}

func TestAckFrameWithTimestamp(t *testing.T) {
	raw := []byte(`{"topic":"peer-9","type":"ack","payload":"","timestamp":1700000000}`)
	f, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, TypeAck, f.Type)
	require.NotNil(t, f.Timestamp)
	require.EqualValues(t, 1700000000, *f.Timestamp)
}
