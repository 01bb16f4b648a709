package libs

import (
	"context"
	"net/http"
	"net/url"

	"furniture-shop/models"
)

// CartSession binds the client to one browser session's bearer token. The
// token is read per call so a login that happens mid-session is picked up
// without rebuilding the engine.
func (c *CommerceClient) CartSession(token func() string) *CartSessionClient {
	return &CartSessionClient{client: c, token: token}
}

type CartSessionClient struct {
	client *CommerceClient
	token  func() string
}

type addToCartPayload struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemPayload struct {
	Quantity int `json:"quantity"`
}

type cartEnvelope struct {
	Data *models.ServerCart `json:"data"`
}

func (s *CartSessionClient) AddToCart(ctx context.Context, variantID string, quantity int) error {
	return s.client.do(ctx, http.MethodPost, "/cart", s.token(), addToCartPayload{
		VariantID: variantID,
		Quantity:  quantity,
	}, nil)
}

func (s *CartSessionClient) RemoveFromCart(ctx context.Context, itemID string) error {
	return s.client.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(itemID), s.token(), nil, nil)
}

func (s *CartSessionClient) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	return s.client.do(ctx, http.MethodPatch, "/cart/"+url.PathEscape(itemID), s.token(), updateCartItemPayload{
		Quantity: quantity,
	}, nil)
}

func (s *CartSessionClient) ClearCart(ctx context.Context) error {
	return s.client.do(ctx, http.MethodDelete, "/cart", s.token(), nil, nil)
}

func (s *CartSessionClient) GetCartItems(ctx context.Context) (*models.ServerCart, error) {
	var envelope cartEnvelope
	if err := s.client.do(ctx, http.MethodGet, "/cart", s.token(), nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return &models.ServerCart{}, nil
	}
	return envelope.Data, nil
}

// GetSearchInitData fetches the bulk catalog snapshot used by the search
// matcher. The endpoint is public; no token is attached.
func (c *CommerceClient) GetSearchInitData(ctx context.Context) (*models.SearchInitData, error) {
	var data models.SearchInitData
	if err := c.do(ctx, http.MethodGet, "/products/search-init-data", "", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
