package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storekit/storefront/internal/tokens"
)

type Guard struct {
	JWTSecret []byte
}

func NewGuard(secret []byte) *Guard {
	return &Guard{JWTSecret: secret}
}

type validatorFunc func(claims *tokens.AccessClaims) error

// RequireAuth rejects requests without a valid bearer access token and puts
// the decoded identity on the echo context.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireWithValidator(next, nil)
}

// RequireAdmin additionally demands the admin role claim.
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (g *Guard) requireWithValidator(next echo.HandlerFunc, validator validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, g.JWTSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
		}

		if validator != nil {
			if err := validator(claims); err != nil {
				return err
			}
		}

		setUserContext(c, claims)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	if id, err := strconv.ParseUint(claims.Subject, 10, 64); err == nil {
		c.Set("userID", uint(id))
	}
	c.Set("role", claims.Role)
}

// UserID reads the identity the guard attached. Zero means unauthenticated.
func UserID(c echo.Context) uint {
	if id, ok := c.Get("userID").(uint); ok {
		return id
	}
	return 0
}
