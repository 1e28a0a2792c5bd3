package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/stallhub/internal/app/models"
)

func newService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "stallhub.test"})
}

func TestGenerateAndValidate(t *testing.T) {
	s := newService(time.Hour)

	token, err := s.GenerateToken(models.ExternalAccount{ExternalUserID: "U123"}, models.RoleExhibitor, "")
	require.NoError(t, err)

	claims, err := s.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleExhibitor, claims.Role)

	identity, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, models.ExternalAccount{ExternalUserID: "U123"}, identity)
}

func TestValidateRejectsExpiredAndForeignTokens(t *testing.T) {
	s := newService(-time.Minute)
	token, err := s.GenerateToken(models.LinkedAccount{UserID: "u-1"}, models.RoleOrganizer, "o@example.com")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "stallhub.test"})
	token, err = other.GenerateToken(models.LinkedAccount{UserID: "u-1"}, models.RoleOrganizer, "")
	require.NoError(t, err)
	_, err = newService(time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAndExtractClaimsRequiresRoleAndMethod(t *testing.T) {
	s := newService(time.Hour)
	sign := func(c *Claims) string {
		c.Issuer = "stallhub.test"
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return tok
	}

	_, err := s.ValidateAndExtractClaims(sign(&Claims{AuthMethod: models.AuthMethodEmail, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateAndExtractClaims(sign(&Claims{AuthMethod: "sms", Role: models.RoleOrganizer, RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateAndExtractClaims(sign(&Claims{AuthMethod: models.AuthMethodEmail, Role: models.RoleOrganizer}))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = ExtractBearerToken("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ExtractBearerToken("Bearer  ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
