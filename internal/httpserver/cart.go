package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storekit/storefront/internal/logging"
	authmw "github.com/storekit/storefront/internal/middleware/auth"
	"github.com/storekit/storefront/internal/service"
	"github.com/storekit/storefront/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Svc.GetCart(ctx, authmw.UserID(c))
	if err != nil {
		return serviceError(c, err, "cart item not found")
	}
	return respond(c, http.StatusOK, "cart", items)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		l.Warn("cart_add_failed", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "productId is required")
	}

	item, err := h.Svc.AddItem(ctx, authmw.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, err, "product not found")
	}

	l.Info("cart_add_success", "productID", req.ProductID)
	return respond(c, http.StatusOK, "item added", item)
}

func (h *CartHTTP) RemoveOne(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	item, err := h.Svc.RemoveOne(ctx, authmw.UserID(c), productID)
	if err != nil {
		return serviceError(c, err, "cart item not found")
	}
	return respond(c, http.StatusOK, "item removed", item)
}

func (h *CartHTTP) RemoveAll(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := parseProductID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.RemoveAll(ctx, authmw.UserID(c), productID); err != nil {
		return serviceError(c, err, "cart item not found")
	}
	return respond(c, http.StatusOK, "item cleared", nil)
}

func parseProductID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "productId must be a positive integer")
	}
	return uint(id), nil
}
