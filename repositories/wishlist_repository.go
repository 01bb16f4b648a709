package repositories

import (
	"context"
	"time"

	"furniture-shop/models"
)

type WishlistRepository struct{}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{}
}

// Add upserts a wishlist entry; adding the same variant twice is a no-op.
func (r *WishlistRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	query := `
		INSERT INTO wishlists (user_id, product_id, variant_id, name, price, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, variant_id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, image = EXCLUDED.image
		RETURNING id, created_at
	`
	return models.DB.QueryRow(ctx, query,
		item.UserID, item.ProductID, item.VariantID, item.Name, item.Price, item.Image, time.Now(),
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	query := `SELECT id, user_id, product_id, variant_id, name, price, COALESCE(image, ''), created_at
	          FROM wishlists WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := models.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.VariantID, &item.Name, &item.Price, &item.Image, &item.CreatedAt); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, variantID string) error {
	_, err := models.DB.Exec(ctx, `DELETE FROM wishlists WHERE user_id = $1 AND variant_id = $2`, userID, variantID)
	return err
}
