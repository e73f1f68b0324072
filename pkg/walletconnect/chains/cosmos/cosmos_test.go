package cosmos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleTransaction(t *testing.T) {
	var got IBCTransaction
	h := &Handler{OnTransaction: func(id int64, tx IBCTransaction, ts *uint64) { got = tx }}

	params := json.RawMessage(`[{"signerAddress":"cosmos1abc","signDoc":{"chain_id":"cosmoshub-4"}}]`)
	require.NoError(t, h.HandleTransaction(9, params, nil))
	require.Equal(t, "cosmos1abc", got.SignerAddress)
}

func TestHandleTransactionRejectsEmpty(t *testing.T) {
	h := &Handler{}
	require.Error(t, h.HandleTransaction(9, json.RawMessage(`[]`), nil))
}
