package models

import "time"

// CartItem is the storefront's local view of one cart line. For authenticated
// carts the ID comes from the upstream cart item; for guest carts it is
// derived from the variant and the selected color.
type CartItem struct {
	ID              string    `json:"id"`
	VariantID       string    `json:"variant_id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Quantity        int       `json:"quantity"`
	Image           string    `json:"image,omitempty"`
	Size            string    `json:"size,omitempty"`
	Color           string    `json:"color,omitempty"`
	AvailableColors []string  `json:"available_colors,omitempty"`
	Stock           int       `json:"stock,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// GuestItemID builds the line id for a locally created cart item. The same
// variant in two colors is two separate lines, so the color is part of the id.
func GuestItemID(variantID, color string) string {
	if color == "" {
		return variantID
	}
	return variantID + "-" + color
}

type ShippingInfo struct {
	Method string  `json:"method"`
	Cost   float64 `json:"cost"`
	Label  string  `json:"label"`
}

// ShippingOptions is the closed set of shipping methods the storefront offers.
var ShippingOptions = []ShippingInfo{
	{Method: "free", Cost: 0, Label: "Free shipping"},
	{Method: "express", Cost: 0, Label: "Express shipping"},
	{Method: "pickup", Cost: 0, Label: "Pick Up"},
}

// ShippingOptionByMethod returns the option for a method name, or nil when the
// method is not one of ShippingOptions.
func ShippingOptionByMethod(method string) *ShippingInfo {
	for i := range ShippingOptions {
		if ShippingOptions[i].Method == method {
			return &ShippingOptions[i]
		}
	}
	return nil
}

// CartMeta is the persisted, non-item part of a cart session: the shipping
// selection and any applied coupon.
type CartMeta struct {
	Shipping   ShippingInfo `json:"shipping"`
	Discount   float64      `json:"discount"`
	CouponCode string       `json:"coupon_code"`
}

// CartView is the payload cart endpoints return. CartTotal is
// TotalPrice + Shipping.Cost - Discount and is intentionally not clamped at
// zero; see DESIGN.md.
type CartView struct {
	Items         []CartItem   `json:"items"`
	TotalItems    int          `json:"total_items"`
	TotalPrice    float64      `json:"total_price"`
	Shipping      ShippingInfo `json:"shipping"`
	Discount      float64      `json:"discount"`
	CouponCode    string       `json:"coupon_code,omitempty"`
	CartTotal     float64      `json:"cart_total"`
	Authenticated bool         `json:"authenticated"`
	PendingItems  []string     `json:"pending_items,omitempty"`
	LastSyncedAt  *time.Time   `json:"last_synced_at,omitempty"`
}

// Upstream cart payloads. The wire format is owned by the commerce API; these
// mirror the fields the storefront actually reads.
type ServerCart struct {
	ID    string           `json:"id,omitempty"`
	Items []ServerCartItem `json:"items"`
}

type ServerCartItem struct {
	ID        string        `json:"id"`
	Quantity  int           `json:"quantity"`
	Variant   ServerVariant `json:"variant"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type ServerVariant struct {
	ID            string         `json:"id"`
	Price         float64        `json:"price"`
	Size          string         `json:"size,omitempty"`
	Color         string         `json:"color,omitempty"`
	Stock         int            `json:"stock"`
	Product       ServerProduct  `json:"product"`
	VariantImages []ProductImage `json:"variant_images,omitempty"`
}

type ServerProduct struct {
	ID     string         `json:"id,omitempty"`
	Name   string         `json:"name"`
	Images []ProductImage `json:"images,omitempty"`
}

// ToCartItem flattens an upstream cart line into the local shape. The first
// variant image wins over the first product image, like the storefront UI.
func (i ServerCartItem) ToCartItem() CartItem {
	image := ""
	if len(i.Variant.VariantImages) > 0 {
		image = i.Variant.VariantImages[0].URL
	} else if len(i.Variant.Product.Images) > 0 {
		image = i.Variant.Product.Images[0].URL
	}

	return CartItem{
		ID:        i.ID,
		VariantID: i.Variant.ID,
		Name:      i.Variant.Product.Name,
		Price:     i.Variant.Price,
		Quantity:  i.Quantity,
		Image:     image,
		Size:      i.Variant.Size,
		Color:     i.Variant.Color,
		Stock:     i.Variant.Stock,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
