package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDenylist(t *testing.T) (*Denylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	d, err := NewDenylist(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d, mr
}

func TestDenylist_RevocaYExpira(t *testing.T) {
	d, mr := setupDenylist(t)
	ctx := context.Background()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists(keyPrefix+"jti-1"))

	mr.FastForward(2 * time.Minute)
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "la clave vence junto con el token")
}

func TestDenylist_TTLNoPositivoNoEscribe(t *testing.T) {
	d, mr := setupDenylist(t)
	require.NoError(t, d.Revoke(context.Background(), "jti-2", 0))
	assert.False(t, mr.Exists(keyPrefix+"jti-2"))
}

func TestDenylist_ErrorDeConexion(t *testing.T) {
	d, mr := setupDenylist(t)
	mr.Close()
	_, err := d.IsRevoked(context.Background(), "jti-3")
	assert.Error(t, err)
}

func TestNewDenylist_URLInvalida(t *testing.T) {
	_, err := NewDenylist(context.Background(), "invalid://url")
	assert.Error(t, err)
}
