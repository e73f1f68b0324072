package trust

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleSignTransactionPassesRawThrough(t *testing.T) {
	var got json.RawMessage
	h := &Handler{OnSignTransaction: func(id int64, raw json.RawMessage) { got = raw }}

	raw := json.RawMessage(`{"anything":"goes"}`)
	h.HandleSignTransaction(1, raw)
	require.JSONEq(t, string(raw), string(got))
}

func TestHandleGetAccountsNilCallbackIsSafe(t *testing.T) {
	h := &Handler{}
	require.NotPanics(t, func() { h.HandleGetAccounts(2) })
}

func TestHandleGetAccountsInvoked(t *testing.T) {
	called := false
	h := &Handler{OnGetAccounts: func(id int64) { called = true }}
	h.HandleGetAccounts(3)
	require.True(t, called)
}
