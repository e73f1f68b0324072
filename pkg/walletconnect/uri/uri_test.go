package uri

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

const s1URI = "wc:abc-123@1?bridge=https%3A%2F%2Fb.example%2F&key=000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestParseS1Scenario(t *testing.T) {
	sess, err := Parse(s1URI)
	require.NoError(t, err)
	require.Equal(t, "abc-123", sess.Topic)
	require.Equal(t, "1", sess.Version)
	require.Equal(t, "https://b.example/", sess.Bridge)
	require.Len(t, sess.Key, 32)
	require.Equal(t, 1.0, sess.NumericalVersion)
	require.Equal(t, SourceWC, sess.Source)
	require.False(t, sess.IsExtension)
}

func TestParseCWEVariant(t *testing.T) {
	raw := "CWE:topic-1@2?bridge=https%3A%2F%2Fb.example%2F&key=000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f&role=extension"
	sess, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, SourceCWE, sess.Source)
	require.True(t, sess.IsExtension)
	require.Equal(t, 2.0, sess.NumericalVersion)
}

func TestParsePercentEncodedWholeURI(t *testing.T) {
	encoded := url.QueryEscape(s1URI)
	// QueryEscape percent-encodes ':' as %3A, which is what triggers the
	// percent-decode branch in resolveScheme.
	sess, err := Parse(encoded)
	require.NoError(t, err)
	require.Equal(t, "abc-123", sess.Topic)
}

func TestParseRejectsBadKeyLength(t *testing.T) {
	raw := "wc:abc-123@1?bridge=https%3A%2F%2Fb.example%2F&key=0001"
	_, err := Parse(raw)
	require.Error(t, err)
}

func TestParseRejectsMissingBridge(t *testing.T) {
	raw := "wc:abc-123@1?key=000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	_, err := Parse(raw)
	require.Error(t, err)
}

func TestParseRejectsUnknownScheme(t *testing.T) {
	_, err := Parse("ftp:abc-123@1?bridge=https://b.example&key=00")
	require.Error(t, err)
}

func TestParseNumericalVersionFallback(t *testing.T) {
	raw := "wc:abc-123@notanumber?bridge=https%3A%2F%2Fb.example%2F&key=000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	sess, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, 1.0, sess.NumericalVersion)
}

func TestSessionEqual(t *testing.T) {
	a, err := Parse(s1URI)
	require.NoError(t, err)
	b, err := Parse(s1URI)
	require.NoError(t, err)
	require.True(t, a.Equal(b))

	c, err := Parse("wc:other-topic@1?bridge=https%3A%2F%2Fb.example%2F&key=000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)
	require.False(t, a.Equal(c))
}
