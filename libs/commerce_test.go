package libs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSessionRequests(t *testing.T) {
	type seen struct {
		method string
		path   string
		auth   string
		body   map[string]interface{}
	}
	var last seen

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = seen{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				last.body = body
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewCommerceClient(server.URL, time.Second)
	cart := client.CartSession(func() string { return "tok-123" })
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, "v1", 2))
	assert.Equal(t, "POST", last.method)
	assert.Equal(t, "/cart", last.path)
	assert.Equal(t, "Bearer tok-123", last.auth)
	assert.Equal(t, "v1", last.body["variant_id"])
	assert.Equal(t, 2.0, last.body["quantity"])

	require.NoError(t, cart.UpdateCartItem(ctx, "item-1", 5))
	assert.Equal(t, "PATCH", last.method)
	assert.Equal(t, "/cart/item-1", last.path)
	assert.Equal(t, 5.0, last.body["quantity"])

	require.NoError(t, cart.RemoveFromCart(ctx, "item-1"))
	assert.Equal(t, "DELETE", last.method)
	assert.Equal(t, "/cart/item-1", last.path)

	require.NoError(t, cart.ClearCart(ctx))
	assert.Equal(t, "DELETE", last.method)
	assert.Equal(t, "/cart", last.path)
}

func TestGetCartItemsDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"items": [
					{
						"id": "srv-1",
						"quantity": 2,
						"variant": {
							"id": "v1",
							"price": 149.5,
							"color": "Charcoal",
							"product": {"name": "Modern Sofa"}
						}
					}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewCommerceClient(server.URL, time.Second)
	cart := client.CartSession(func() string { return "" })

	result, err := cart.GetCartItems(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0].ToCartItem()
	assert.Equal(t, "srv-1", item.ID)
	assert.Equal(t, "v1", item.VariantID)
	assert.Equal(t, "Modern Sofa", item.Name)
	assert.Equal(t, 149.5, item.Price)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "Charcoal", item.Color)
}

func TestGetCartItemsEmptyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null}`))
	}))
	defer server.Close()

	client := NewCommerceClient(server.URL, time.Second)
	cart := client.CartSession(func() string { return "" })

	result, err := cart.GetCartItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestErrorResponseSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "variant out of stock"}`))
	}))
	defer server.Close()

	client := NewCommerceClient(server.URL, time.Second)
	cart := client.CartSession(func() string { return "tok" })

	err := cart.AddToCart(context.Background(), "v1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant out of stock")
}

func TestGetSearchInitData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search-init-data", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"products": [{"id": "p1", "name": "Modern Sofa", "base_price": 999}],
			"categories": [{"id": "c1", "name": "Living Room", "slug": "living-room"}]
		}`))
	}))
	defer server.Close()

	client := NewCommerceClient(server.URL, time.Second)

	data, err := client.GetSearchInitData(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Products, 1)
	assert.Equal(t, "Modern Sofa", data.Products[0].Name)
	require.Len(t, data.Categories, 1)
	assert.Equal(t, "living-room", data.Categories[0].Slug)
}
