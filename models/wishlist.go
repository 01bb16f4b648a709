package models

import "time"

type WishlistItem struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
