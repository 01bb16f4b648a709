package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		promo    Promo
		subtotal float64
		want     float64
	}{
		{"percent of subtotal", Promo{Code: "save10", DiscountType: DiscountTypePercent, Value: 10}, 250, 25},
		{"percent of zero subtotal", Promo{Code: "save10", DiscountType: DiscountTypePercent, Value: 10}, 0, 0},
		{"fixed amount", Promo{Code: "jenkatemw", DiscountType: DiscountTypeFixed, Value: 25}, 100, 25},
		{"fixed amount exceeding subtotal", Promo{Code: "jenkatemw", DiscountType: DiscountTypeFixed, Value: 25}, 10, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.promo.DiscountFor(tt.subtotal))
		})
	}
}
