package auth

import (
	"testing"
	"time"

	"fleetcheck/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var inspector = &models.User{UserID: "u-1", Username: "robby", Role: models.RoleInspector}

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	access, err := m.GenerateToken(inspector)
	require.NoError(t, err)
	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "robby", claims.Username)
	assert.Equal(t, models.RoleInspector, claims.Role)
	assert.Equal(t, Issuer, claims.Issuer)

	refresh, err := m.GenerateRefreshToken(inspector)
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(refresh)
	require.NoError(t, err)

	_, err = m.ValidateToken(refresh)
	assert.ErrorIs(t, err, ErrWrongKind)
	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour)
	token, err := m.GenerateToken(inspector)
	require.NoError(t, err)

	other := NewJWTManager("different", time.Hour, time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTManager("secret", time.Minute, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, err := expired.GenerateToken(inspector)
	require.NoError(t, err)
	_, err = m.ValidateToken(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Kind: AccessToken})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Basic abc", "Bearer ", "bearer abc"} {
		_, err := ExtractToken(header)
		assert.Error(t, err, "header %q", header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPasswordWithCost("rahasia123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, CheckPassword("rahasia123", hash))
	assert.ErrorIs(t, CheckPassword("salah12345", hash), ErrPasswordMismatch)

	_, err = HashPasswordWithCost("short", bcrypt.MinCost)
	assert.Error(t, err)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("kendaraan1"))
	assert.Error(t, ValidatePasswordStrength("abc1"))
	assert.Error(t, ValidatePasswordStrength("12345678"))
	assert.Error(t, ValidatePasswordStrength("abcdefgh"))
}
