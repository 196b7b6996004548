package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storekit/storefront/internal/logging"
	authmw "github.com/storekit/storefront/internal/middleware/auth"
	"github.com/storekit/storefront/internal/service"
	"github.com/storekit/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return serviceError(c, err, "user not found")
	}

	l.Info("register_success", "userID", user.ID)
	return respond(c, http.StatusCreated, "registered", user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, user, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return serviceError(c, err, "user not found")
	}

	l.Info("login_success", "userID", user.ID)
	return respond(c, http.StatusOK, "logged in", pair)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		l.Warn("refresh_failed", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "refreshToken is required")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return serviceError(c, err, "user not found")
	}

	l.Info("refresh_success")
	return respond(c, http.StatusOK, "token refreshed", pair)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	userID := authmw.UserID(c)
	if err := h.Svc.Logout(ctx, userID); err != nil {
		return serviceError(c, err, "user not found")
	}

	l.Info("logout_success", "userID", userID)
	return respond(c, http.StatusOK, "logged out", nil)
}
