package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeRequestArrayParams(t *testing.T) {
	raw, err := EncodeRequest(1, "wc_sessionUpdate", []interface{}{
		struct {
			ChainID ChainID `json:"chainId"`
			Approved bool   `json:"approved"`
		}{ChainID: "1", Approved: true},
	})
	require.NoError(t, err)

	msg, err := ParseMessage(raw)
	require.NoError(t, err)
	require.True(t, msg.IsRequest())
	require.Equal(t, "wc_sessionUpdate", msg.Method)

	var params []json.RawMessage
	require.NoError(t, json.Unmarshal(msg.Params, &params))
	require.Len(t, params, 1)
	require.Contains(t, string(params[0]), `"chainId":"1"`)
}

func TestChainIDAcceptsStringOrInteger(t *testing.T) {
	var fromString ChainID
	require.NoError(t, json.Unmarshal([]byte(`"137"`), &fromString))
	require.Equal(t, ChainID("137"), fromString)

	var fromInt ChainID
	require.NoError(t, json.Unmarshal([]byte(`137`), &fromInt))
	require.Equal(t, ChainID("137"), fromInt)
}

func TestChainIDAlwaysMarshalsAsString(t *testing.T) {
	b, err := json.Marshal(ChainID("1"))
	require.NoError(t, err)
	require.Equal(t, `"1"`, string(b))
}

func TestDecodeResponseErrorTakesPrecedenceOverResult(t *testing.T) {
	raw := []byte(`{"id":1,"jsonrpc":"2.0","result":"should be ignored","error":{"code":-32000,"message":"boom"}}`)
	result, err := DecodeResponse(raw)
	require.Nil(t, result)
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	require.Equal(t, -32000, rpcErr.Code)
	require.Equal(t, "boom", rpcErr.Message)
}

func TestDecodeResponseSuccess(t *testing.T) {
	raw, err := EncodeResult(42, "0xdeadbeef")
	require.NoError(t, err)

	result, err := DecodeResponse(raw)
	require.NoError(t, err)
	require.Equal(t, `"0xdeadbeef"`, string(result))
}

func TestSessionHintRoundTrip(t *testing.T) {
	raw := []byte(`{"id":1,"jsonrpc":"2.0","method":"eth_sign","params":[],"session":{"chainId":1,"account":"0xabc"}}`)
	msg, err := ParseMessage(raw)
	require.NoError(t, err)
	require.NotNil(t, msg.Session)
	require.Equal(t, ChainID("1"), msg.Session.ChainID)
	require.Equal(t, "0xabc", msg.Session.Account)
}

func TestEncodeErrorResponse(t *testing.T) {
	raw, err := EncodeError(7, CodeUserRejected, "user rejected")
	require.NoError(t, err)

	_, err = DecodeResponse(raw)
	require.Error(t, err)
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	require.Equal(t, CodeUserRejected, rpcErr.Code)
}
