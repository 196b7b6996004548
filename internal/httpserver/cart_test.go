package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront/internal/models"
)

func TestCartRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.doJSON(http.MethodGet, "/api/cart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.loginAs("user")

	prod := env.seedProduct("Lamp", 19.99, nil)

	rec, resp := env.doJSON(http.MethodPost, "/api/cart", map[string]any{
		"productId": prod.ID,
		"quantity":  2,
	}, access)
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.Equal(t, 2, item.Quantity)

	rec, resp = env.doJSON(http.MethodGet, "/api/cart", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.CartItem
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	require.Len(t, items, 1)

	rec, resp = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/cart/%d", prod.ID), nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.Equal(t, 1, item.Quantity)

	rec, _ = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/cart/%d/all", prod.ID), nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = env.doJSON(http.MethodGet, "/api/cart", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	assert.Empty(t, items)

	// Carting an unknown product is a 404.
	rec, _ = env.doJSON(http.MethodPost, "/api/cart", map[string]any{"productId": 999}, access)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
