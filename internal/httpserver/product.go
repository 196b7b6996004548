package httpserver

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storekit/storefront/internal/logging"
	"github.com/storekit/storefront/internal/service"
	"github.com/storekit/storefront/internal/transport"
	"github.com/storekit/storefront/internal/upload"
	"github.com/storekit/storefront/internal/util"
)

type ProductHTTP struct {
	Svc     *service.CatalogService
	Uploads *upload.Store
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	q := transport.ListProductsQuery{
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit:    util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize),
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	}

	items, meta, err := h.Svc.List(ctx, q)
	if err != nil {
		return serviceError(c, err, "product not found")
	}

	l.Info("list_success", "total", meta.Total)
	return respond(c, http.StatusOK, "products", map[string]any{
		"products":   items,
		"pagination": meta,
	})
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		return serviceError(c, err, "product not found")
	}
	return respond(c, http.StatusOK, "product", prod)
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	in, err := bindProductInput(c)
	if err != nil {
		l.Warn("create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	uploadedPath, err := h.saveUploadedImage(c)
	if err != nil {
		l.Error("create_failed", "status", 500, "reason", "cannot save upload", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save uploaded file")
	}

	prod, err := h.Svc.Create(ctx, in, uploadedPath)
	if err != nil {
		return serviceError(c, err, "product not found")
	}

	l.Info("create_success", "productID", prod.ID)
	return respond(c, http.StatusCreated, "product created", prod)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	in, err := bindProductInput(c)
	if err != nil {
		l.Warn("update_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	uploadedPath, err := h.saveUploadedImage(c)
	if err != nil {
		l.Error("update_failed", "status", 500, "reason", "cannot save upload", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save uploaded file")
	}

	prod, err := h.Svc.Update(ctx, id, in, uploadedPath)
	if err != nil {
		return serviceError(c, err, "product not found")
	}

	l.Info("update_success", "productID", prod.ID)
	return respond(c, http.StatusOK, "product updated", prod)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return serviceError(c, err, "product not found")
	}

	l.Info("delete_success", "productID", id)
	return respond(c, http.StatusOK, "product deleted", nil)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	items, meta, err := h.Svc.SearchText(ctx, q, page, limit)
	if err != nil {
		return serviceError(c, err, "product not found")
	}

	l.Info("search_success", "total", meta.Total)
	return respond(c, http.StatusOK, "search results", map[string]any{
		"products":   items,
		"pagination": meta,
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return uint(id), nil
}

// bindProductInput accepts either a JSON body or form/multipart fields.
// Form handling checks key presence so omitted fields stay nil and partial
// update semantics hold.
func bindProductInput(c echo.Context) (transport.ProductInput, error) {
	var in transport.ProductInput

	vals, ok := formValues(c)
	if !ok {
		if err := c.Bind(&in); err != nil {
			return in, err
		}
		return in, nil
	}

	if v, ok := formValue(vals, "name"); ok {
		in.Name = &v
	}
	if v, ok := formValue(vals, "description"); ok {
		in.Description = &v
	}
	if v, ok := formValue(vals, "image"); ok {
		in.Image = &v
	}
	if v, ok := formValue(vals, "category"); ok {
		in.Category = &v
	}
	if v, ok := formValue(vals, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, err
		}
		in.Price = &price
	}
	if v, ok := formValue(vals, "stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return in, err
		}
		in.Stock = &stock
	}

	return in, nil
}

func formValues(c echo.Context) (url.Values, bool) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	switch {
	case strings.HasPrefix(ct, echo.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, false
		}
		return url.Values(form.Value), true
	case strings.HasPrefix(ct, echo.MIMEApplicationForm):
		if err := c.Request().ParseForm(); err != nil {
			return nil, false
		}
		return c.Request().PostForm, true
	default:
		return nil, false
	}
}

func formValue(vals url.Values, key string) (string, bool) {
	if v, ok := vals[key]; ok && len(v) > 0 {
		return v[0], true
	}
	return "", false
}

// saveUploadedImage stores the optional multipart file. No file is not an
// error.
func (h *ProductHTTP) saveUploadedImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return h.Uploads.Save(file)
}
