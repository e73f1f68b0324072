package ethereum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleSignPersonalSignOrder(t *testing.T) {
	var got SignPayload
	h := &Handler{OnSign: func(p SignPayload) { got = p }}

	params, err := json.Marshal([]string{"0xdeadbeef", "0xabc0000000000000000000000000000000000a"})
	require.NoError(t, err)
	require.NoError(t, h.HandleSign(KindPersonalSign, 1, params))

	require.Equal(t, "0xdeadbeef", got.Data)
	require.Equal(t, "0xabc0000000000000000000000000000000000a", got.Address)
}

func TestHandleSignEthSignOrder(t *testing.T) {
	var got SignPayload
	h := &Handler{OnSign: func(p SignPayload) { got = p }}

	params, err := json.Marshal([]string{"0xabc0000000000000000000000000000000000a", "0xdeadbeef"})
	require.NoError(t, err)
	require.NoError(t, h.HandleSign(KindEthSign, 2, params))

	require.Equal(t, "0xabc0000000000000000000000000000000000a", got.Address)
	require.Equal(t, "0xdeadbeef", got.Data)
}

func TestHandleSignEmptyParamsFails(t *testing.T) {
	h := &Handler{}
	require.Error(t, h.HandleSign(KindEthSign, 3, json.RawMessage(`[]`)))
}

func TestHandleTransactionDecodesFirstElement(t *testing.T) {
	var got TxEvent
	h := &Handler{OnTransaction: func(e TxEvent) { got = e }}

	params := json.RawMessage(`[{"from":"0x000000000000000000000000000000000000000a","value":"0x1"}]`)
	require.NoError(t, h.HandleTransaction("ethSendTransaction", 7, params, nil))

	require.Equal(t, int64(7), got.ID)
	require.NotNil(t, got.Tx.Value)
}

func TestHandleTransactionEmptyArrayFails(t *testing.T) {
	h := &Handler{}
	require.Error(t, h.HandleTransaction("ethSendTransaction", 7, json.RawMessage(`[]`), nil))
}
