package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNopLoggerDiscardsEverything(t *testing.T) {
	l := Nop()
	require.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x", String("k", "v"))
		l.Warn("x")
		l.Error("x", Error(errors.New("boom")))
	})
	require.Equal(t, l, l.WithFields(String("a", "b")))
	require.Equal(t, l, l.WithContext(context.Background()))
}

func TestNewBuildsUsableLogger(t *testing.T) {
	l := New(DebugLevel)
	require.NotNil(t, l)
	require.NotPanics(t, func() {
		l.Info("connecting", String("bridge", "wss://b.example"))
	})
}

func TestWithFieldsReturnsIndependentLogger(t *testing.T) {
	base := New(InfoLevel)
	child := base.WithFields(String("topic", "abc-123"))
	require.NotNil(t, child)
	require.NotPanics(t, func() {
		child.Info("subscribed")
	})
}

func TestErrorFieldNilSafe(t *testing.T) {
	f := Error(nil)
	require.Equal(t, "error", f.Key)
	require.Nil(t, f.Value)
}
