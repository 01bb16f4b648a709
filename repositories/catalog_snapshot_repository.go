package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"furniture-shop/models"

	"github.com/redis/go-redis/v9"
)

const catalogSnapshotKey = "search:catalog_snapshot"

// CatalogSnapshotRepository mirrors the in-memory catalog snapshot into
// Redis so a freshly started process inside the freshness window serves
// search without refetching the whole catalog.
type CatalogSnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogSnapshotRepository(client *redis.Client, ttl time.Duration) *CatalogSnapshotRepository {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &CatalogSnapshotRepository{client: client, ttl: ttl}
}

type catalogSnapshotRecord struct {
	Data      models.SearchInitData `json:"data"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func (r *CatalogSnapshotRepository) LoadSnapshot(ctx context.Context) (*models.SearchInitData, time.Time, error) {
	if r.client == nil {
		return nil, time.Time{}, nil
	}

	raw, err := r.client.Get(ctx, catalogSnapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("catalog snapshot load: %w", err)
	}

	var record catalogSnapshotRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, time.Time{}, fmt.Errorf("catalog snapshot decode: %w", err)
	}

	return &record.Data, record.UpdatedAt, nil
}

func (r *CatalogSnapshotRepository) SaveSnapshot(ctx context.Context, data *models.SearchInitData, updatedAt time.Time) error {
	if r.client == nil {
		return nil
	}

	raw, err := json.Marshal(catalogSnapshotRecord{Data: *data, UpdatedAt: updatedAt})
	if err != nil {
		return fmt.Errorf("catalog snapshot encode: %w", err)
	}

	if err := r.client.Set(ctx, catalogSnapshotKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("catalog snapshot save: %w", err)
	}
	return nil
}
