package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qc-backend/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "qc-backend"
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager(testConfig())

	token, err := mgr.GenerateToken("operator")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Username)
	assert.Equal(t, "qc-backend", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewJWTManager(testConfig()).GenerateToken("operator")
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "different"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := NewJWTManager(testConfig()).ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("shop-floor-2026")
	require.NoError(t, err)
	assert.NotEqual(t, "shop-floor-2026", hash)

	assert.True(t, VerifyPassword(hash, "shop-floor-2026"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "shop-floor-2026"))
}
