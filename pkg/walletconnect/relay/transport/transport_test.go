package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/relay"
)

func TestFakeImplementsSocket(t *testing.T) {
	var _ Socket = NewFake()
}

func TestFakeRecordsWrites(t *testing.T) {
	f := NewFake()
	require.NoError(t, f.WriteFrame(relay.NewSub("abc-123")))
	require.NoError(t, f.WriteText("pong"))
	require.NoError(t, f.Ping())
	require.Len(t, f.Sent, 1)
	require.Equal(t, []string{"pong"}, f.Texts)
	require.Equal(t, 1, f.Pings)
}

func TestFakeDeliversEvents(t *testing.T) {
	f := NewFake()
	f.Deliver(relay.NewSub("abc-123"))
	ev := <-f.Events()
	require.Equal(t, EventFrame, ev.Kind)
	require.Equal(t, "abc-123", ev.Frame.Topic)
}

func TestNewWSSocketRewritesHTTPScheme(t *testing.T) {
	require.Equal(t, "wss://b.example/", NewWSSocket("https://b.example/").url)
	require.Equal(t, "ws://b.example/", NewWSSocket("http://b.example/").url)
	require.Equal(t, "wss://b.example/", NewWSSocket("wss://b.example/").url)
}

func TestFakeCloseIsRecorded(t *testing.T) {
	f := NewFake()
	require.NoError(t, f.Close(1001))
	closed, code := f.Closed()
	require.True(t, closed)
	require.Equal(t, 1001, code)
}
