package repositories

import (
	"context"
	"errors"

	"furniture-shop/models"

	"github.com/jackc/pgx/v5"
)

var ErrPromoNotFound = errors.New("promo not found")

type PromoRepository struct{}

func NewPromoRepository() *PromoRepository {
	return &PromoRepository{}
}

func (r *PromoRepository) GetByCode(ctx context.Context, code string) (*models.Promo, error) {
	query := `SELECT id, code, description, discount_type, value, is_active, created_at
	          FROM promos WHERE lower(code) = lower($1) AND is_active = true`

	var p models.Promo
	err := models.DB.QueryRow(ctx, query, code).Scan(
		&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.Value, &p.IsActive, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromoRepository) GetActive(ctx context.Context) ([]models.Promo, error) {
	query := `SELECT id, code, description, discount_type, value, is_active, created_at
	          FROM promos WHERE is_active = true ORDER BY created_at DESC`

	rows, err := models.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promos := []models.Promo{}
	for rows.Next() {
		var p models.Promo
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.Value, &p.IsActive, &p.CreatedAt); err != nil {
			continue
		}
		promos = append(promos, p)
	}
	return promos, nil
}
