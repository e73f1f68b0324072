package wcerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	e := New(CodeSessionInvalid, "")
	require.Equal(t, "SessionInvalid", e.Error())

	e2 := New(CodeSecurity, "too many messages")
	require.Equal(t, "Security: too many messages", e2.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(CodeDecryptionFailed, cause, "")
	require.ErrorIs(t, e, cause)
	require.Equal(t, CodeDecryptionFailed, CodeOf(e))
}

func TestIsComparesByCode(t *testing.T) {
	a := New(CodeHmacMismatch, "byte 3 differs")
	require.True(t, errors.Is(a, ErrHmacMismatch))
	require.False(t, errors.Is(a, ErrDecryptionFailed))
}

func TestCodeOfUnknownForPlainError(t *testing.T) {
	require.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
}
