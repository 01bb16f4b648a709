package services

import (
	"context"
	"errors"
	"testing"

	"furniture-shop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	user *models.User
	err  error
}

func (s *stubSession) GetUser(ctx context.Context) (*models.User, error) {
	return s.user, s.err
}

func (s *stubSession) IsAuthenticated(ctx context.Context) bool {
	return s.err == nil && s.user != nil
}

type serverAddCall struct {
	variantID string
	quantity  int
}

type mockServerCart struct {
	addFn    func(variantID string, quantity int) error
	removeFn func(itemID string) error
	updateFn func(itemID string, quantity int) error
	clearFn  func() error
	getFn    func() (*models.ServerCart, error)

	adds    []serverAddCall
	removes []string
}

func (m *mockServerCart) AddToCart(ctx context.Context, variantID string, quantity int) error {
	m.adds = append(m.adds, serverAddCall{variantID, quantity})
	if m.addFn != nil {
		return m.addFn(variantID, quantity)
	}
	return nil
}

func (m *mockServerCart) RemoveFromCart(ctx context.Context, itemID string) error {
	m.removes = append(m.removes, itemID)
	if m.removeFn != nil {
		return m.removeFn(itemID)
	}
	return nil
}

func (m *mockServerCart) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	if m.updateFn != nil {
		return m.updateFn(itemID, quantity)
	}
	return nil
}

func (m *mockServerCart) ClearCart(ctx context.Context) error {
	if m.clearFn != nil {
		return m.clearFn()
	}
	return nil
}

func (m *mockServerCart) GetCartItems(ctx context.Context) (*models.ServerCart, error) {
	if m.getFn != nil {
		return m.getFn()
	}
	return &models.ServerCart{}, nil
}

// memGuestStore is an in-memory GuestCartStore with the same merge rules as
// the Redis-backed one.
type memGuestStore struct {
	items   []models.CartItem
	meta    *models.CartMeta
	failAll error
	cleared bool
}

func (g *memGuestStore) GetGuestCart(ctx context.Context) ([]models.CartItem, error) {
	if g.failAll != nil {
		return nil, g.failAll
	}
	return g.items, nil
}

func (g *memGuestStore) AddToGuestCart(ctx context.Context, item models.CartItem) error {
	if g.failAll != nil {
		return g.failAll
	}
	for i := range g.items {
		if g.items[i].VariantID == item.VariantID && g.items[i].Color == item.Color {
			g.items[i].Quantity += item.Quantity
			return nil
		}
	}
	if item.ID == "" {
		item.ID = models.GuestItemID(item.VariantID, item.Color)
	}
	g.items = append(g.items, item)
	return nil
}

func (g *memGuestStore) UpdateGuestCartItem(ctx context.Context, id string, quantity int) error {
	if g.failAll != nil {
		return g.failAll
	}
	for i := range g.items {
		if g.items[i].ID == id {
			g.items[i].Quantity = quantity
		}
	}
	return nil
}

func (g *memGuestStore) RemoveFromGuestCart(ctx context.Context, id string) error {
	if g.failAll != nil {
		return g.failAll
	}
	items := g.items[:0]
	for _, item := range g.items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	g.items = items
	return nil
}

func (g *memGuestStore) ClearGuestCart(ctx context.Context) error {
	if g.failAll != nil {
		return g.failAll
	}
	g.items = nil
	g.cleared = true
	return nil
}

func (g *memGuestStore) GetCartMeta(ctx context.Context) (*models.CartMeta, error) {
	if g.failAll != nil {
		return nil, g.failAll
	}
	return g.meta, nil
}

func (g *memGuestStore) SaveCartMeta(ctx context.Context, meta models.CartMeta) error {
	if g.failAll != nil {
		return g.failAll
	}
	g.meta = &meta
	return nil
}

func guestEngine() (*CartEngine, *mockServerCart, *memGuestStore) {
	server := &mockServerCart{}
	guest := &memGuestStore{}
	return NewCartEngine(&stubSession{}, server, guest), server, guest
}

func authedEngine() (*CartEngine, *mockServerCart, *memGuestStore) {
	server := &mockServerCart{}
	guest := &memGuestStore{}
	session := &stubSession{user: &models.User{ID: "u1", Email: "u1@example.com", Role: "customer"}}
	return NewCartEngine(session, server, guest), server, guest
}

func item(variantID, color string, price float64) models.CartItem {
	return models.CartItem{VariantID: variantID, Name: "Item " + variantID, Price: price, Color: color}
}

func TestGuestTotalsRecomputedAfterEveryMutation(t *testing.T) {
	engine, _, _ := guestEngine()
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, item("v1", "", 10), 2))
	require.NoError(t, engine.AddItem(ctx, item("v2", "", 5), 1))

	view := engine.View()
	assert.Equal(t, 3, view.TotalItems)
	assert.Equal(t, 25.0, view.TotalPrice)

	require.NoError(t, engine.UpdateQuantity(ctx, "v1", 5))
	view = engine.View()
	assert.Equal(t, 6, view.TotalItems)
	assert.Equal(t, 55.0, view.TotalPrice)

	require.NoError(t, engine.RemoveItem(ctx, "v2"))
	view = engine.View()
	assert.Equal(t, 5, view.TotalItems)
	assert.Equal(t, 50.0, view.TotalPrice)
}

func TestAddSameVariantAndColorMerges(t *testing.T) {
	engine, _, guest := guestEngine()
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, item("v1", "red", 10), 1))
	require.NoError(t, engine.AddItem(ctx, item("v1", "red", 10), 2))

	view := engine.View()
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	require.Len(t, guest.items, 1)
	assert.Equal(t, 3, guest.items[0].Quantity)

	// same variant in another color is its own line
	require.NoError(t, engine.AddItem(ctx, item("v1", "blue", 10), 1))
	assert.Len(t, engine.View().Items, 2)
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	engine, _, _ := guestEngine()
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, item("v1", "", 10), 1))
	require.NoError(t, engine.AddItem(ctx, item("v2", "", 5), 1))

	require.NoError(t, engine.UpdateQuantity(ctx, "v1", 0))
	require.NoError(t, engine.UpdateQuantity(ctx, "v2", -3))

	assert.Empty(t, engine.View().Items)
}

func TestRemoveUnknownItemIsNoop(t *testing.T) {
	engine, _, guest := guestEngine()
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, item("v1", "", 10), 1))

	require.NoError(t, engine.RemoveItem(ctx, "missing"))
	assert.Len(t, engine.View().Items, 1)
	assert.Len(t, guest.items, 1)
	assert.Empty(t, engine.Err())
}

func TestCartTotalIsNotClamped(t *testing.T) {
	engine, _, _ := guestEngine()
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, item("v1", "", 10), 1))
	engine.ApplyCoupon(ctx, "bigdeal", 50)

	assert.Equal(t, -40.0, engine.GetCartTotal())
}

func TestAuthenticatedAddResyncsFromServer(t *testing.T) {
	engine, server, _ := authedEngine()
	ctx := context.Background()

	server.getFn = func() (*models.ServerCart, error) {
		return &models.ServerCart{Items: []models.ServerCartItem{
			{
				ID:       "srv-1",
				Quantity: 3,
				Variant: models.ServerVariant{
					ID:      "v1",
					Price:   10,
					Product: models.ServerProduct{Name: "Item v1"},
				},
			},
		}}, nil
	}

	require.NoError(t, engine.AddItem(ctx, item("v1", "", 10), 1))

	require.Len(t, server.adds, 1)
	assert.Equal(t, serverAddCall{"v1", 1}, server.adds[0])

	// local state is the server's cart, not the optimistic one
	view := engine.View()
	require.Len(t, view.Items, 1)
	assert.Equal(t, "srv-1", view.Items[0].ID)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 30.0, view.TotalPrice)
	assert.NotNil(t, view.LastSyncedAt)
}

func TestAddRollsBackOnServerFailure(t *testing.T) {
	engine, server, _ := authedEngine()
	ctx := context.Background()

	server.addFn = func(string, int) error { return errors.New("upstream down") }

	err := engine.AddItem(ctx, item("v1", "", 10), 1)
	require.Error(t, err)

	view := engine.View()
	assert.Empty(t, view.Items)
	assert.Equal(t, 0.0, view.TotalPrice)
	assert.NotEmpty(t, engine.Err())
}

func TestGuestAddRollsBackOnStoreFailure(t *testing.T) {
	server := &mockServerCart{}
	guest := &memGuestStore{failAll: errors.New("redis down")}
	engine := NewCartEngine(&stubSession{}, server, guest)
	ctx := context.Background()

	err := engine.AddItem(ctx, item("v1", "", 10), 1)
	require.Error(t, err)
	assert.Empty(t, engine.View().Items)
}

func TestUpdateQuantityFallsBackLocallyOnServerFailure(t *testing.T) {
	engine, server, _ := authedEngine()
	ctx := context.Background()

	server.getFn = func() (*models.ServerCart, error) {
		return &models.ServerCart{Items: []models.ServerCartItem{
			{ID: "srv-1", Quantity: 1, Variant: models.ServerVariant{ID: "v1", Price: 10, Product: models.ServerProduct{Name: "Item v1"}}},
		}}, nil
	}
	require.NoError(t, engine.AddItem(ctx, item("v1", "", 10), 1))

	server.updateFn = func(string, int) error { return errors.New("upstream down") }

	require.NoError(t, engine.UpdateQuantity(ctx, "srv-1", 4))

	view := engine.View()
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)
	assert.Equal(t, 40.0, view.TotalPrice)
}

func TestGuestToServerMergeReplaysAllItems(t *testing.T) {
	server := &mockServerCart{}
	guest := &memGuestStore{items: []models.CartItem{
		{ID: "v1", VariantID: "v1", Name: "Item v1", Price: 10, Quantity: 2},
		{ID: "v2", VariantID: "v2", Name: "Item v2", Price: 5, Quantity: 1},
	}}
	session := &stubSession{user: &models.User{ID: "u1"}}
	engine := NewCartEngine(session, server, guest)
	ctx := context.Background()

	// one replay failing must not stop the rest or keep the guest store
	server.addFn = func(variantID string, quantity int) error {
		if variantID == "v1" {
			return errors.New("out of stock")
		}
		return nil
	}
	server.getFn = func() (*models.ServerCart, error) {
		return &models.ServerCart{Items: []models.ServerCartItem{
			{ID: "srv-2", Quantity: 1, Variant: models.ServerVariant{ID: "v2", Price: 5, Product: models.ServerProduct{Name: "Item v2"}}},
		}}, nil
	}

	engine.CheckAuthStatus(ctx)

	require.Len(t, server.adds, 2)
	assert.True(t, guest.cleared)
	assert.Empty(t, guest.items)

	view := engine.View()
	assert.True(t, view.Authenticated)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "srv-2", view.Items[0].ID)
}

func TestGuestSessionLoadsGuestCart(t *testing.T) {
	server := &mockServerCart{}
	guest := &memGuestStore{items: []models.CartItem{
		{ID: "v1", VariantID: "v1", Name: "Item v1", Price: 10, Quantity: 2},
	}}
	engine := NewCartEngine(&stubSession{}, server, guest)
	ctx := context.Background()

	engine.CheckAuthStatus(ctx)

	view := engine.View()
	assert.False(t, view.Authenticated)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.TotalItems)
	assert.Empty(t, server.adds)
}

func TestSessionErrorFallsBackToGuest(t *testing.T) {
	server := &mockServerCart{}
	guest := &memGuestStore{}
	engine := NewCartEngine(&stubSession{err: errors.New("expired token")}, server, guest)

	engine.CheckAuthStatus(context.Background())

	assert.False(t, engine.IsAuthenticated())
}

func TestItemPendingDuringRemove(t *testing.T) {
	engine, server, _ := authedEngine()
	ctx := context.Background()

	server.getFn = func() (*models.ServerCart, error) {
		return &models.ServerCart{Items: []models.ServerCartItem{
			{ID: "srv-1", Quantity: 1, Variant: models.ServerVariant{ID: "v1", Price: 10, Product: models.ServerProduct{Name: "Item v1"}}},
		}}, nil
	}
	require.NoError(t, engine.AddItem(ctx, item("v1", "", 10), 1))

	var pendingDuringCall bool
	server.removeFn = func(itemID string) error {
		pendingDuringCall = engine.IsItemPending(itemID)
		return errors.New("upstream down")
	}

	require.Error(t, engine.RemoveItem(ctx, "srv-1"))
	assert.True(t, pendingDuringCall)
	// cleared even on failure
	assert.False(t, engine.IsItemPending("srv-1"))
}

func TestShippingAndCouponPersistToMeta(t *testing.T) {
	engine, _, guest := guestEngine()
	ctx := context.Background()

	express := *models.ShippingOptionByMethod("express")
	engine.SetShippingInfo(ctx, express)
	engine.ApplyCoupon(ctx, "save10", 2.5)

	require.NotNil(t, guest.meta)
	assert.Equal(t, "express", guest.meta.Shipping.Method)
	assert.Equal(t, "save10", guest.meta.CouponCode)
	assert.Equal(t, 2.5, guest.meta.Discount)

	// a fresh engine over the same store hydrates the meta
	restored := NewCartEngine(&stubSession{}, &mockServerCart{}, guest)
	restored.LoadCartMeta(ctx)
	view := restored.View()
	assert.Equal(t, "express", view.Shipping.Method)
	assert.Equal(t, "save10", view.CouponCode)

	engine.ClearCoupon(ctx)
	assert.Equal(t, "", guest.meta.CouponCode)
	assert.Equal(t, 0.0, guest.meta.Discount)
}

func TestGuestClearResetsDiscountAndCoupon(t *testing.T) {
	engine, _, guest := guestEngine()
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, item("v1", "", 10), 1))
	engine.ApplyCoupon(ctx, "save10", 1)

	require.NoError(t, engine.ClearCart(ctx))

	view := engine.View()
	assert.Empty(t, view.Items)
	assert.Equal(t, 0.0, view.Discount)
	assert.Equal(t, "", view.CouponCode)
	assert.Empty(t, guest.items)
}
