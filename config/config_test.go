package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesInteractorDefaults(t *testing.T) {
	cfg := Default()
	ic := cfg.InteractorConfig()
	require.Equal(t, 20*time.Second, ic.HandshakeTimeout)
	require.Equal(t, 15*time.Second, ic.PingInterval)
	require.Equal(t, 5*time.Second, ic.SendTimeout)
	require.True(t, ic.Reconnect.Enabled)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Store.Driver)
}

func TestLoadOverlaysPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletbridge.yaml")
	// yaml.v3 decodes time.Duration fields from duration strings such as "30s".
	require.NoError(t, os.WriteFile(path, []byte("timers:\n  ping_interval: 30s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	ic := cfg.InteractorConfig()
	require.Equal(t, 30*time.Second, ic.PingInterval)
	// Untouched timers keep their defaults instead of zeroing out.
	require.Equal(t, 20*time.Second, ic.HandshakeTimeout)
}

func TestLoadRejectsBadDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: mongodb\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestRelayListKnown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relays.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[relays]]\nname = \"main\"\nurl = \"https://b.example/\"\n"), 0o600))

	rl, err := LoadRelayList(path)
	require.NoError(t, err)
	require.True(t, rl.Known("https://b.example/"))
	require.False(t, rl.Known("https://evil.example/"))
}

func TestLoadRelayListMissingFileIsEmpty(t *testing.T) {
	rl, err := LoadRelayList(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Empty(t, rl.Relays)
}
