package models

import "time"

const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

type Promo struct {
	ID           int       `json:"id"`
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	DiscountType string    `json:"discount_type"`
	Value        float64   `json:"value"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// DiscountFor computes the discount amount this promo grants on a subtotal.
func (p Promo) DiscountFor(subtotal float64) float64 {
	if p.DiscountType == DiscountTypePercent {
		return subtotal * p.Value / 100
	}
	return p.Value
}
