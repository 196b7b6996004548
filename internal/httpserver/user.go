package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storekit/storefront/internal/logging"
	authmw "github.com/storekit/storefront/internal/middleware/auth"
	"github.com/storekit/storefront/internal/service"
	"github.com/storekit/storefront/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Svc.GetProfile(ctx, authmw.UserID(c))
	if err != nil {
		return serviceError(c, err, "user not found")
	}
	return respond(c, http.StatusOK, "profile", user)
}

func (h *UserHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_profile")

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateProfile(ctx, authmw.UserID(c), req)
	if err != nil {
		return serviceError(c, err, "user not found")
	}

	l.Info("update_profile_success", "userID", user.ID)
	return respond(c, http.StatusOK, "profile updated", user)
}

func (h *UserHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.change_password")

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_password_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ChangePassword(ctx, authmw.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, err, "user not found")
	}

	l.Info("change_password_success")
	return respond(c, http.StatusOK, "password changed", nil)
}
