package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront/internal/tokens"
)

var secret = []byte("test-jwt-secret")

func doGuarded(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return rec, handler(c)
}

func TestRequireAuth(t *testing.T) {
	g := NewGuard(secret)

	// No header.
	_, err := doGuarded(t, g.RequireAuth, "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	// Wrong scheme.
	_, err = doGuarded(t, g.RequireAuth, "Basic dXNlcjpwdw==")
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	// Expired token.
	expired, signErr := tokens.SignAccessToken(7, "user", secret, time.Now().Add(-time.Minute))
	require.NoError(t, signErr)
	_, err = doGuarded(t, g.RequireAuth, "Bearer "+expired)
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	// Valid token passes and the identity lands on the context.
	valid, signErr := tokens.SignAccessToken(7, "user", secret, time.Now().Add(tokens.AccessTTL))
	require.NoError(t, signErr)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+valid)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := g.RequireAuth(func(c echo.Context) error {
		assert.Equal(t, uint(7), UserID(c))
		assert.Equal(t, "user", c.Get("role"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	g := NewGuard(secret)

	userToken, err := tokens.SignAccessToken(7, "user", secret, time.Now().Add(tokens.AccessTTL))
	require.NoError(t, err)
	_, handlerErr := doGuarded(t, g.RequireAdmin, "Bearer "+userToken)
	he, ok := handlerErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	adminToken, err := tokens.SignAccessToken(8, "admin", secret, time.Now().Add(tokens.AccessTTL))
	require.NoError(t, err)
	rec, handlerErr := doGuarded(t, g.RequireAdmin, "Bearer "+adminToken)
	require.NoError(t, handlerErr)
	assert.Equal(t, http.StatusOK, rec.Code)
}
