package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"todoctl/internal/config"
)

func newStore(t *testing.T) (*Store, *config.Config) {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	return NewStore(cfg), cfg
}

func TestTokenAbsent(t *testing.T) {
	s, _ := newStore(t)
	require.Empty(t, s.Token())
}

func TestTokenRoundTrip(t *testing.T) {
	s, cfg := newStore(t)

	require.NoError(t, s.SaveToken("tok-123"))
	require.Equal(t, "tok-123", s.Token())
	require.True(t, cfg.HasToken())

	// A fresh store over the same directory reads the same token; nothing
	// is cached in memory.
	require.Equal(t, "tok-123", NewStore(cfg).Token())
}

func TestSaveTokenRejectsEmpty(t *testing.T) {
	s, _ := newStore(t)
	require.Error(t, s.SaveToken(""))
	require.Error(t, s.SaveToken("   "))
}

func TestTokenUnreadableFile(t *testing.T) {
	s, cfg := newStore(t)
	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("not json"), 0600))
	require.Empty(t, s.Token())
}

func TestClearTokenIdempotent(t *testing.T) {
	s, cfg := newStore(t)

	require.NoError(t, s.SaveToken("tok"))
	require.NoError(t, s.ClearToken())
	require.Empty(t, s.Token())
	require.False(t, cfg.HasToken())

	require.NoError(t, s.ClearToken())
}

func TestUserIDRoundTrip(t *testing.T) {
	s, _ := newStore(t)

	require.Empty(t, s.UserID())
	require.NoError(t, s.SaveUserID("u1"))
	require.Equal(t, "u1", s.UserID())

	require.NoError(t, s.ClearUserID())
	require.Empty(t, s.UserID())
	require.NoError(t, s.ClearUserID())
}

func TestSaveUserIDRejectsEmpty(t *testing.T) {
	s, _ := newStore(t)
	require.Error(t, s.SaveUserID(" "))
}
