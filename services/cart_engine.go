package services

import (
	"context"
	"log"
	"sync"
	"time"

	"furniture-shop/models"
)

// ServerCartClient is the upstream commerce API surface the engine mutates
// when the session is authenticated.
type ServerCartClient interface {
	AddToCart(ctx context.Context, variantID string, quantity int) error
	RemoveFromCart(ctx context.Context, itemID string) error
	UpdateCartItem(ctx context.Context, itemID string, quantity int) error
	ClearCart(ctx context.Context) error
	GetCartItems(ctx context.Context) (*models.ServerCart, error)
}

// GuestCartStore is the durable store for unauthenticated carts, plus the
// persisted cart meta (shipping selection, coupon) shared by both modes.
type GuestCartStore interface {
	GetGuestCart(ctx context.Context) ([]models.CartItem, error)
	AddToGuestCart(ctx context.Context, item models.CartItem) error
	UpdateGuestCartItem(ctx context.Context, id string, quantity int) error
	RemoveFromGuestCart(ctx context.Context, id string) error
	ClearGuestCart(ctx context.Context) error
	GetCartMeta(ctx context.Context) (*models.CartMeta, error)
	SaveCartMeta(ctx context.Context, meta models.CartMeta) error
}

// CartEngine presents one consistent cart regardless of authentication state.
// Mutations are applied optimistically to local state, then reconciled with
// the authoritative store (server cart when authenticated, guest store
// otherwise). Authenticated mutations that succeed trigger a full resync
// instead of a differential patch, so concurrent operations settle on
// whatever the server says last.
//
// The mutex guards local state only; it is never held across a network call.
// The pending set is advisory, for per-item busy indicators, not a lock.
type CartEngine struct {
	session SessionManager
	server  ServerCartClient
	guest   GuestCartStore

	mu            sync.Mutex
	items         []models.CartItem
	totalItems    int
	totalPrice    float64
	shipping      models.ShippingInfo
	discount      float64
	couponCode    string
	authenticated bool
	pending       map[string]struct{}
	lastErr       string
	lastSyncedAt  *time.Time
}

func NewCartEngine(session SessionManager, server ServerCartClient, guest GuestCartStore) *CartEngine {
	return &CartEngine{
		session:  session,
		server:   server,
		guest:    guest,
		shipping: models.ShippingOptions[0],
		pending:  make(map[string]struct{}),
	}
}

// recalcTotals must be called with the mutex held.
func (e *CartEngine) recalcTotals() {
	totalItems := 0
	totalPrice := 0.0
	for _, item := range e.items {
		totalItems += item.Quantity
		totalPrice += item.Price * float64(item.Quantity)
	}
	e.totalItems = totalItems
	e.totalPrice = totalPrice
}

func (e *CartEngine) snapshotLocked() []models.CartItem {
	snapshot := make([]models.CartItem, len(e.items))
	copy(snapshot, e.items)
	return snapshot
}

// restore puts back a pre-mutation snapshot of the whole item list; callers
// serialize same-item operations, and cross-item divergence settles on the
// next full resync.
func (e *CartEngine) restore(snapshot []models.CartItem) {
	e.mu.Lock()
	e.items = snapshot
	e.recalcTotals()
	e.mu.Unlock()
}

func (e *CartEngine) setError(msg string) {
	e.mu.Lock()
	e.lastErr = msg
	e.mu.Unlock()
}

func (e *CartEngine) setPending(id string, on bool) {
	e.mu.Lock()
	if on {
		e.pending[id] = struct{}{}
	} else {
		delete(e.pending, id)
	}
	e.mu.Unlock()
}

// isAuthenticated returns the cached mode, re-checking the session only when
// the cached answer is guest, so a login between requests is noticed but a
// valid token is not re-validated on every mutation.
func (e *CartEngine) isAuthenticated(ctx context.Context) bool {
	e.mu.Lock()
	authed := e.authenticated
	e.mu.Unlock()

	if !authed {
		authed = e.session.IsAuthenticated(ctx)
		e.mu.Lock()
		e.authenticated = authed
		e.mu.Unlock()
	}
	return authed
}

// AddItem applies the item locally first (merge by variant id and color),
// then reconciles: authenticated carts add on the server and resync, guest
// carts persist the same merge into the durable store. On reconciliation
// failure the optimistic addition is rolled back and the error returned.
func (e *CartEngine) AddItem(ctx context.Context, item models.CartItem, quantity int) error {
	item.Quantity = quantity

	e.mu.Lock()
	snapshot := e.snapshotLocked()

	now := time.Now()
	merged := false
	for i := range e.items {
		if e.items[i].VariantID == item.VariantID && e.items[i].Color == item.Color {
			e.items[i].Quantity += quantity
			e.items[i].UpdatedAt = now
			merged = true
			break
		}
	}
	if !merged {
		if item.ID == "" {
			item.ID = models.GuestItemID(item.VariantID, item.Color)
		}
		item.CreatedAt = now
		item.UpdatedAt = now
		e.items = append(e.items, item)
	}
	e.recalcTotals()
	e.mu.Unlock()

	if e.isAuthenticated(ctx) {
		if err := e.server.AddToCart(ctx, item.VariantID, quantity); err != nil {
			e.restore(snapshot)
			e.setError("failed to add item to cart")
			return err
		}
		_ = e.SyncWithServer(ctx)
		return nil
	}

	if err := e.guest.AddToGuestCart(ctx, item); err != nil {
		e.restore(snapshot)
		e.setError("failed to add item to cart")
		return err
	}
	return nil
}

// RemoveItem removes a cart line. An unknown id is a logged no-op. The item
// is marked pending for the duration of the call, including failures.
func (e *CartEngine) RemoveItem(ctx context.Context, id string) error {
	e.mu.Lock()
	found := false
	for i := range e.items {
		if e.items[i].ID == id {
			found = true
			break
		}
	}
	e.mu.Unlock()

	if !found {
		log.Printf("cart: remove requested for unknown item %s", id)
		return nil
	}

	e.setPending(id, true)
	defer e.setPending(id, false)

	if e.isAuthenticated(ctx) {
		if err := e.server.RemoveFromCart(ctx, id); err != nil {
			e.setError("failed to remove item from cart")
			return err
		}
		_ = e.SyncWithServer(ctx)
		return nil
	}

	if err := e.guest.RemoveFromGuestCart(ctx, id); err != nil {
		e.setError("failed to remove item from cart")
		return err
	}
	e.removeItemLocally(id)
	return nil
}

func (e *CartEngine) removeItemLocally(id string) {
	e.mu.Lock()
	items := e.items[:0]
	for _, item := range e.items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	e.items = items
	e.recalcTotals()
	e.mu.Unlock()
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line. The session is re-checked fresh here: a server update failure
// degrades to a local-only update instead of failing the operation.
func (e *CartEngine) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return e.RemoveItem(ctx, id)
	}

	e.setPending(id, true)
	defer e.setPending(id, false)

	authed := e.session.IsAuthenticated(ctx)
	e.mu.Lock()
	e.authenticated = authed
	e.mu.Unlock()

	if authed {
		if err := e.server.UpdateCartItem(ctx, id, quantity); err != nil {
			log.Printf("cart: server quantity update failed, keeping local change: %v", err)
			e.updateQuantityLocally(id, quantity)
			return nil
		}
		_ = e.SyncWithServer(ctx)
		return nil
	}

	if err := e.guest.UpdateGuestCartItem(ctx, id, quantity); err != nil {
		e.setError("failed to update item quantity")
		return err
	}
	e.updateQuantityLocally(id, quantity)
	return nil
}

func (e *CartEngine) updateQuantityLocally(id string, quantity int) {
	e.mu.Lock()
	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Quantity = quantity
			e.items[i].UpdatedAt = time.Now()
			break
		}
	}
	e.recalcTotals()
	e.mu.Unlock()
}

// UpdateItemColor changes the displayed color of a line. This is a display
// preference, not an inventory change, so nothing is sent to the server or
// the guest store.
func (e *CartEngine) UpdateItemColor(ctx context.Context, id, color string) error {
	e.mu.Lock()
	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Color = color
			e.items[i].UpdatedAt = time.Now()
			break
		}
	}
	e.mu.Unlock()
	return nil
}

// ClearCart empties the cart. The guest path also resets the discount and
// coupon; the authenticated path leaves them, matching the storefront's
// post-checkout behavior.
func (e *CartEngine) ClearCart(ctx context.Context) error {
	if e.isAuthenticated(ctx) {
		if err := e.server.ClearCart(ctx); err != nil {
			e.setError("failed to clear cart")
			return err
		}
		_ = e.SyncWithServer(ctx)
		return nil
	}

	if err := e.guest.ClearGuestCart(ctx); err != nil {
		e.setError("failed to clear cart")
		return err
	}
	e.clearCartLocally()
	return nil
}

func (e *CartEngine) clearCartLocally() {
	e.mu.Lock()
	e.items = nil
	e.totalItems = 0
	e.totalPrice = 0
	e.discount = 0
	e.couponCode = ""
	e.mu.Unlock()
}

// CheckAuthStatus re-derives the auth mode from the session. A session that
// turns out authenticated replays any guest items to the server and resyncs;
// a guest session loads the durable guest cart into local state.
func (e *CartEngine) CheckAuthStatus(ctx context.Context) {
	user, err := e.session.GetUser(ctx)
	if err != nil {
		log.Printf("cart: session check failed: %v", err)
	}
	authed := err == nil && user != nil

	e.mu.Lock()
	e.authenticated = authed
	e.mu.Unlock()

	if authed {
		_ = e.SyncGuestToServer(ctx)
		_ = e.SyncWithServer(ctx)
		return
	}
	_ = e.LoadGuestCart(ctx)
}

// SyncGuestToServer replays every guest item as a server add. The replay is
// best-effort: a failed item is logged and the loop continues, and the guest
// store is cleared regardless so items are not re-replayed on the next check.
func (e *CartEngine) SyncGuestToServer(ctx context.Context) error {
	items, err := e.guest.GetGuestCart(ctx)
	if err != nil {
		log.Printf("cart: guest cart load for merge failed: %v", err)
		return err
	}
	if len(items) == 0 {
		return nil
	}

	for _, item := range items {
		if err := e.server.AddToCart(ctx, item.VariantID, item.Quantity); err != nil {
			log.Printf("cart: merge of guest item %s failed: %v", item.ID, err)
		}
	}

	if err := e.guest.ClearGuestCart(ctx); err != nil {
		log.Printf("cart: clearing guest cart after merge failed: %v", err)
	}
	return nil
}

// SyncWithServer replaces local state wholesale with the server cart.
func (e *CartEngine) SyncWithServer(ctx context.Context) error {
	cart, err := e.server.GetCartItems(ctx)
	if err != nil {
		log.Printf("cart: server sync failed: %v", err)
		e.setError("failed to sync cart")
		return err
	}

	items := make([]models.CartItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, line.ToCartItem())
	}

	now := time.Now()
	e.mu.Lock()
	e.items = items
	e.recalcTotals()
	e.lastSyncedAt = &now
	e.lastErr = ""
	e.mu.Unlock()
	return nil
}

// LoadGuestCart hydrates local state from the durable guest store.
func (e *CartEngine) LoadGuestCart(ctx context.Context) error {
	items, err := e.guest.GetGuestCart(ctx)
	if err != nil {
		log.Printf("cart: guest cart load failed: %v", err)
		e.setError("failed to load cart")
		return err
	}

	e.mu.Lock()
	e.items = items
	e.recalcTotals()
	e.mu.Unlock()
	return nil
}

// LoadCartMeta hydrates the persisted shipping selection and coupon.
func (e *CartEngine) LoadCartMeta(ctx context.Context) {
	meta, err := e.guest.GetCartMeta(ctx)
	if err != nil || meta == nil {
		if err != nil {
			log.Printf("cart: cart meta load failed: %v", err)
		}
		return
	}

	e.mu.Lock()
	if meta.Shipping.Method != "" {
		e.shipping = meta.Shipping
	}
	e.discount = meta.Discount
	e.couponCode = meta.CouponCode
	e.mu.Unlock()
}

func (e *CartEngine) saveCartMeta(ctx context.Context) {
	e.mu.Lock()
	meta := models.CartMeta{
		Shipping:   e.shipping,
		Discount:   e.discount,
		CouponCode: e.couponCode,
	}
	e.mu.Unlock()

	if err := e.guest.SaveCartMeta(ctx, meta); err != nil {
		log.Printf("cart: cart meta save failed: %v", err)
	}
}

func (e *CartEngine) SetShippingInfo(ctx context.Context, info models.ShippingInfo) {
	e.mu.Lock()
	e.shipping = info
	e.mu.Unlock()
	e.saveCartMeta(ctx)
}

func (e *CartEngine) ApplyCoupon(ctx context.Context, code string, discount float64) {
	e.mu.Lock()
	e.couponCode = code
	e.discount = discount
	e.mu.Unlock()
	e.saveCartMeta(ctx)
}

func (e *CartEngine) ClearCoupon(ctx context.Context) {
	e.mu.Lock()
	e.couponCode = ""
	e.discount = 0
	e.mu.Unlock()
	e.saveCartMeta(ctx)
}

// GetCartTotal is totalPrice + shipping cost - discount. It is deliberately
// not clamped at zero; see DESIGN.md.
func (e *CartEngine) GetCartTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalPrice + e.shipping.Cost - e.discount
}

func (e *CartEngine) IsItemPending(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[id]
	return ok
}

func (e *CartEngine) IsAuthenticated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.authenticated
}

func (e *CartEngine) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// View returns the current cart payload for the storefront.
func (e *CartEngine) View() models.CartView {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]models.CartItem, len(e.items))
	copy(items, e.items)

	pending := make([]string, 0, len(e.pending))
	for id := range e.pending {
		pending = append(pending, id)
	}

	return models.CartView{
		Items:         items,
		TotalItems:    e.totalItems,
		TotalPrice:    e.totalPrice,
		Shipping:      e.shipping,
		Discount:      e.discount,
		CouponCode:    e.couponCode,
		CartTotal:     e.totalPrice + e.shipping.Cost - e.discount,
		Authenticated: e.authenticated,
		PendingItems:  pending,
		LastSyncedAt:  e.lastSyncedAt,
	}
}
