package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storekit/storefront/internal/hash"
	authmw "github.com/storekit/storefront/internal/middleware/auth"
	"github.com/storekit/storefront/internal/models"
	"github.com/storekit/storefront/internal/repo"
	"github.com/storekit/storefront/internal/service"
	"github.com/storekit/storefront/internal/upload"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	DB   *gorm.DB
	Repo *repo.GormRepo
	Auth *service.AuthService

	UploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}))

	rp := &repo.GormRepo{DB: db}
	jwtSecret := []byte("test-jwt-secret")
	refreshSecret := []byte("test-refresh-secret")

	authSvc := &service.AuthService{Repo: rp, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	uploadDir := t.TempDir()

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		UserHandler:    &UserHTTP{Svc: &service.UserService{Repo: rp}},
		ProductHandler: &ProductHTTP{Svc: &service.CatalogService{Repo: rp}, Uploads: &upload.Store{Dir: uploadDir}},
		CartHandler:    &CartHTTP{Svc: &service.CartService{Repo: rp}},
		Guard:          authmw.NewGuard(jwtSecret),
		UploadDir:      uploadDir,
	})

	return &testEnv{T: t, E: e, DB: db, Repo: rp, Auth: authSvc, UploadDir: uploadDir}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (env *testEnv) doJSON(method, path string, payload any, token string) (*httptest.ResponseRecorder, envelope) {
	env.T.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(env.T, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	var resp envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func (env *testEnv) doMultipart(method, path string, fields map[string]string, fileField, fileName string, fileContent []byte, token string) (*httptest.ResponseRecorder, envelope) {
	env.T.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(env.T, err)
		_, err = fw.Write(fileContent)
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	var resp envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

// loginAs seeds a user with the given role and returns its token pair.
func (env *testEnv) loginAs(role string) (access, refresh string) {
	env.T.Helper()

	email := role + "@example.com"
	pwHash, err := hash.HashPassword("Secret123")
	require.NoError(env.T, err)

	user := models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)

	rec, resp := env.doJSON(http.MethodPost, "/api/user/login", map[string]string{
		"email":    email,
		"password": "Secret123",
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code)

	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(env.T, json.Unmarshal(resp.Data, &pair))
	return pair.AccessToken, pair.RefreshToken
}

func (env *testEnv) seedProduct(name string, price float64, mutate func(*models.Product)) models.Product {
	env.T.Helper()

	prod := models.Product{Name: name, Price: price}
	if mutate != nil {
		mutate(&prod)
	}
	require.NoError(env.T, env.DB.Create(&prod).Error)
	return prod
}
