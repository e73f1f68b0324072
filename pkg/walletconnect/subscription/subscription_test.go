package subscription

import "testing"

func TestSubscribeFirstInsertionOnly(t *testing.T) {
	r := New()
	if first := r.Subscribe("abc-123"); !first {
		t.Fatalf("expected first subscribe to report true")
	}
	if first := r.Subscribe("abc-123"); first {
		t.Fatalf("expected second subscribe of same topic to report false")
	}
	if !r.Has("abc-123") {
		t.Fatalf("expected topic to be tracked")
	}
}

func TestResetClearsTopics(t *testing.T) {
	r := New()
	r.Subscribe("abc-123")
	r.Reset()
	if r.Has("abc-123") {
		t.Fatalf("expected Reset to clear tracked topics")
	}
	if first := r.Subscribe("abc-123"); !first {
		t.Fatalf("expected resubscribe after reset to report first=true")
	}
}

func TestTopicsSnapshotKeepsSubscriptionOrder(t *testing.T) {
	r := New()
	r.Subscribe("b")
	r.Subscribe("a")
	r.Subscribe("b")
	topics := r.Topics()
	if len(topics) != 2 || topics[0] != "b" || topics[1] != "a" {
		t.Fatalf("expected [b a], got %v", topics)
	}
}
