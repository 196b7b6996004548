package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/storekit/storefront/internal/middleware/auth"
	"github.com/storekit/storefront/internal/upload"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	UserHandler    *UserHTTP
	ProductHandler *ProductHTTP
	CartHandler    *CartHTTP
	Guard          *authmw.Guard
	UploadDir      string
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Static(upload.URLPrefix, d.UploadDir)

	api := e.Group("/api")

	user := api.Group("/user")
	user.POST("/register", d.AuthHandler.Register)
	user.POST("/login", d.AuthHandler.Login)
	user.POST("/refresh-token", d.AuthHandler.Refresh)
	user.POST("/logout", d.AuthHandler.Logout, d.Guard.RequireAuth)
	user.GET("/profile", d.UserHandler.GetProfile, d.Guard.RequireAuth)
	user.PUT("/profile", d.UserHandler.UpdateProfile, d.Guard.RequireAuth)
	user.PUT("/password", d.UserHandler.ChangePassword, d.Guard.RequireAuth)

	product := api.Group("/product")
	product.GET("", d.ProductHandler.List)
	product.GET("/search", d.ProductHandler.Search)
	product.GET("/:id", d.ProductHandler.Get)
	product.POST("", d.ProductHandler.Create, d.Guard.RequireAdmin)
	product.PUT("/:id", d.ProductHandler.Update, d.Guard.RequireAdmin)
	product.DELETE("/:id", d.ProductHandler.Delete, d.Guard.RequireAdmin)

	cart := api.Group("/cart", d.Guard.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddItem)
	cart.DELETE("/:productId", d.CartHandler.RemoveOne)
	cart.DELETE("/:productId/all", d.CartHandler.RemoveAll)
}
