// Tiendat | 2026
// jwt_test.go

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiendat2703/bleen-private/internal/config"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
)

func newTestJWTManager(t *testing.T, expire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	mgr, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:    privatePath,
		PublicKeyPath:     publicPath,
		AccessTokenExpire: expire,
		Issuer:            "keepsake-api",
		Audience:          "keepsake-clients",
	})
	require.NoError(t, err)

	return mgr
}

func TestCreateAndVerifyAccessToken(t *testing.T) {
	mgr := newTestJWTManager(t, 2*time.Hour)

	token, err := mgr.CreateAccessToken("user_1712345678901_7", identity.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := mgr.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "user_1712345678901_7", id.Subject())
	assert.Equal(t, identity.RoleUser, id.Role())
	assert.False(t, id.IsAdmin())
}

func TestVerifyAdminToken(t *testing.T) {
	mgr := newTestJWTManager(t, 2*time.Hour)

	token, err := mgr.CreateAccessToken(AdminSubject, identity.RoleAdmin)
	require.NoError(t, err)

	id, err := mgr.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)

	assert.True(t, id.IsAdmin())
}

func TestVerifyExpiredToken(t *testing.T) {
	mgr := newTestJWTManager(t, -time.Minute)

	token, err := mgr.CreateAccessToken("user_1_1", identity.RoleUser)
	require.NoError(t, err)

	_, err = mgr.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyGarbageToken(t *testing.T) {
	mgr := newTestJWTManager(t, 2*time.Hour)

	_, err := mgr.VerifyAccessToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyTokenFromAnotherKey(t *testing.T) {
	signer := newTestJWTManager(t, 2*time.Hour)
	verifier := newTestJWTManager(t, 2*time.Hour)

	token, err := signer.CreateAccessToken("user_1_1", identity.RoleUser)
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
