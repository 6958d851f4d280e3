package auth

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, h.Compare(hash, "secret123"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrPasswordMismatch)

	_, err = h.Hash("12345")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	tok, err := m.Issue("65f0c0ffee00000000abcdef", domain.RoleOwner)
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee00000000abcdef", claims.UserID)
	assert.Equal(t, domain.RoleOwner, claims.Role)
}

func TestTokenRejections(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	t.Run("expired", func(t *testing.T) {
		past := NewTokenManager("test-secret", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, err := past.Issue("u1", domain.RoleSeeker)
		require.NoError(t, err)

		_, err = m.Parse(tok)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := NewTokenManager("other", time.Hour).Issue("u1", domain.RoleSeeker)
		require.NoError(t, err)
		_, err = m.Parse(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1", Role: domain.RoleSeeker})
		s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(s)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("unknown role", func(t *testing.T) {
		tok, err := m.Issue("u1", domain.Role("admin"))
		require.NoError(t, err)
		_, err = m.Parse(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
