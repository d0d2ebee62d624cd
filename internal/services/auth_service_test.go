package services_test

import (
	"testing"
	"time"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

func newTestAuthService(t *testing.T) (*services.AuthService, *services.StorefrontRegistry) {
	t.Helper()
	registry, _ := newTestRegistry(t)
	return services.NewAuthService(registry, testJWTSecret, time.Hour, nil, nil), registry
}

func TestAuthService_Login(t *testing.T) {
	authService, registry := newTestAuthService(t)

	result, err := authService.Login("ana@example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ana@example.com", result.Session.Email())
	assert.Equal(t, 1, registry.Len())

	claims, err := authService.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.SessionID, claims["session_id"])
	assert.Equal(t, "ana@example.com", claims["email"])

	sf, err := authService.Resolve(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.SessionID, sf.ID)
}

func TestAuthService_Signup(t *testing.T) {
	authService, _ := newTestAuthService(t)

	result, err := authService.Signup("bia@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "bia@example.com", result.Session.Email())
}

func TestAuthService_LoginRejectsEmptyFields(t *testing.T) {
	authService, registry := newTestAuthService(t)

	_, err := authService.Login("", "secret")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, registry.Len(), "failed logins must not leave sessions behind")
}

func TestAuthService_EachLoginOpensOwnSession(t *testing.T) {
	authService, _ := newTestAuthService(t)

	a, err := authService.Login("ana@example.com", "secret")
	require.NoError(t, err)
	b, err := authService.Login("ana@example.com", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestAuthService_LogoutInvalidatesToken(t *testing.T) {
	authService, registry := newTestAuthService(t)
	result, err := authService.Login("ana@example.com", "secret")
	require.NoError(t, err)

	sf, err := authService.Resolve(result.Token)
	require.NoError(t, err)

	session := authService.Logout(sf)
	assert.False(t, session.Authenticated())
	assert.Equal(t, 0, registry.Len())

	_, err = authService.Resolve(result.Token)
	require.Error(t, err)
	status, _, _ := apperrors.MapToHTTPStatus(err)
	assert.Equal(t, 401, status)
}

func TestAuthService_ResolveRequiresIdentity(t *testing.T) {
	authService, _ := newTestAuthService(t)
	result, err := authService.Login("ana@example.com", "secret")
	require.NoError(t, err)

	sf, err := authService.Resolve(result.Token)
	require.NoError(t, err)
	sf.Session.Logout()

	_, err = authService.Resolve(result.Token)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService, _ := newTestAuthService(t)

	t.Run("expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"session_id": "abc",
			"exp":        time.Now().Add(-time.Minute).Unix(),
		})
		signed, err := token.SignedString([]byte(testJWTSecret))
		require.NoError(t, err)

		_, err = authService.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"session_id": "abc",
			"exp":        time.Now().Add(time.Minute).Unix(),
		})
		signed, err := token.SignedString([]byte("other_secret"))
		require.NoError(t, err)

		_, err = authService.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := authService.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("unknown session", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"session_id": "does-not-exist",
			"exp":        time.Now().Add(time.Minute).Unix(),
		})
		signed, err := token.SignedString([]byte(testJWTSecret))
		require.NoError(t, err)

		_, err = authService.Resolve(signed)
		assert.Error(t, err)
	})
}
