package events

import (
	"testing"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/jsonrpc"
)

func TestTagForMethodKnown(t *testing.T) {
	tag, ok := TagForMethod("eth_sendTransaction")
	if !ok || tag != TagEthSendTransaction {
		t.Fatalf("expected TagEthSendTransaction, got %v ok=%v", tag, ok)
	}
}

func TestTagForMethodUnknown(t *testing.T) {
	if _, ok := TagForMethod("my_custom"); ok {
		t.Fatalf("expected my_custom to be unrecognized")
	}
}

func TestClassifyKnownMethod(t *testing.T) {
	id := int64(1)
	msg := &jsonrpc.Message{ID: &id, Method: "wc_sessionRequest"}
	kind, tag := Classify(msg)
	if kind != OutcomeKnown || tag != TagSessionRequest {
		t.Fatalf("unexpected classify result kind=%v tag=%v", kind, tag)
	}
}

func TestClassifyUnknownWithIDIsCustom(t *testing.T) {
	id := int64(11)
	msg := &jsonrpc.Message{ID: &id, Method: "my_custom"}
	kind, _ := Classify(msg)
	if kind != OutcomeCustom {
		t.Fatalf("expected OutcomeCustom, got %v", kind)
	}
}

func TestClassifyIDOnlyIsCustom(t *testing.T) {
	id := int64(7)
	msg := &jsonrpc.Message{ID: &id}
	kind, _ := Classify(msg)
	if kind != OutcomeCustom {
		t.Fatalf("expected OutcomeCustom, got %v", kind)
	}
}

func TestClassifyNoIDNoHandlerIsDropped(t *testing.T) {
	msg := &jsonrpc.Message{Method: ""}
	kind, _ := Classify(msg)
	if kind != OutcomeDropped {
		t.Fatalf("expected OutcomeDropped, got %v", kind)
	}
}

func TestClassifyDCAliasesMapToSessionTags(t *testing.T) {
	cases := map[string]Tag{
		"dc_sessionRequest": TagSessionRequest,
		"dc_instantRequest": TagSessionRequest,
		"dc_sessionUpdate":  TagSessionUpdate,
		"dc_killSession":    TagSessionKill,
	}
	for method, want := range cases {
		got, ok := TagForMethod(method)
		if !ok || got != want {
			t.Fatalf("%s: expected %v, got %v (ok=%v)", method, want, got, ok)
		}
	}
}
