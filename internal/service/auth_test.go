package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront/internal/tokens"
	"github.com/storekit/storefront/internal/transport"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          newTestRepo(t),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func registerReq(email string) transport.RegisterRequest {
	return transport.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  "Secret123",
	}
}

func TestAuthService_Register_SuccessAndDuplicate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("jane@example.com"))
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "Secret123", user.PasswordHash)

	_, err = svc.Register(ctx, registerReq("jane@example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	req := registerReq("jane@example.com")
	req.Password = ""
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = registerReq("")
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login_IssuesTokens(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq("jane@example.com"))
	require.NoError(t, err)

	pair, user, err := svc.Login(ctx, "jane@example.com", "Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)

	refreshClaims, err := tokens.RefreshClaimsFromToken(pair.RefreshToken, svc.RefreshSecret)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshClaims.ID)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("jane@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email fails with the same error, no account enumeration.
	_, _, err = svc.Login(ctx, "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_InvalidatesPriorSession(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("jane@example.com"))
	require.NoError(t, err)

	first, _, err := svc.Login(ctx, "jane@example.com", "Secret123")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "jane@example.com", "Secret123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Refresh_RotatesExactlyOnce(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("jane@example.com"))
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "jane@example.com", "Secret123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The pre-rotation token is dead now.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The rotated token still works.
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_Refresh_RejectsGarbageAndAccessTokens(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Register(ctx, registerReq("jane@example.com"))
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "jane@example.com", "Secret123")
	require.NoError(t, err)

	// An access token is not accepted on the refresh path.
	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Logout_ClearsRefresh(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("jane@example.com"))
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "jane@example.com", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
