package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"furniture-shop/libs"
	"furniture-shop/middleware"
	"furniture-shop/models"
	"furniture-shop/repositories"
	"furniture-shop/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"items": []}}`))
	}))
	t.Cleanup(upstream.Close)

	commerce := libs.NewCommerceClient(upstream.URL, time.Second)
	guestRepo := repositories.NewGuestCartRepository(client, time.Hour)
	registry := services.NewCartRegistry(commerce, guestRepo)
	ctrl := NewCartController(registry, repositories.NewPromoRepository())

	router := gin.New()
	cart := router.Group("/cart")
	cart.Use(middleware.CartSessionMiddleware(), middleware.OptionalAuthMiddleware())
	{
		cart.GET("", ctrl.GetCart)
		cart.POST("/items", ctrl.AddItem)
		cart.PUT("/shipping", ctrl.SetShipping)
	}
	return router
}

type cartResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    models.CartView `json:"data"`
}

func doCartRequest(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, cartResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cart-Session", "test-session")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp cartResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestGuestAddAndGetCart(t *testing.T) {
	router := testCartRouter(t)

	w, resp := doCartRequest(t, router, http.MethodPost, "/cart/items",
		`{"variant_id": "v1", "name": "Modern Sofa", "price": 10, "quantity": 2}`)
	require.Equal(t, 200, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.TotalItems)
	assert.Equal(t, 20.0, resp.Data.TotalPrice)

	// same session id reaches the same cart on the next request
	w, resp = doCartRequest(t, router, http.MethodGet, "/cart", "")
	require.Equal(t, 200, w.Code)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "v1", resp.Data.Items[0].VariantID)
	assert.False(t, resp.Data.Authenticated)
}

func TestAddItemRejectsInvalidBody(t *testing.T) {
	router := testCartRouter(t)

	w, resp := doCartRequest(t, router, http.MethodPost, "/cart/items", `{"price": 10}`)
	assert.Equal(t, 400, w.Code)
	assert.False(t, resp.Success)
}

func TestSetShippingRejectsUnknownMethod(t *testing.T) {
	router := testCartRouter(t)

	w, resp := doCartRequest(t, router, http.MethodPut, "/cart/shipping", `{"method": "drone"}`)
	assert.Equal(t, 400, w.Code)
	assert.False(t, resp.Success)

	w, resp = doCartRequest(t, router, http.MethodPut, "/cart/shipping", `{"method": "express"}`)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "express", resp.Data.Shipping.Method)
}
