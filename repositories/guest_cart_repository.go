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

// ErrGuestStoreUnavailable is returned when Redis is not connected. Guest
// carts are durable state, not cache, so callers must see the failure
// instead of silently losing items.
var ErrGuestStoreUnavailable = errors.New("guest cart store unavailable")

// GuestCartRepository persists guest carts in Redis, one JSON record per
// cart session, so an unauthenticated shopper's cart survives restarts and
// follows the session cookie across requests.
type GuestCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuestCartRepository(client *redis.Client, ttl time.Duration) *GuestCartRepository {
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &GuestCartRepository{client: client, ttl: ttl}
}

type guestCartRecord struct {
	Items []models.CartItem `json:"items"`
	Meta  *models.CartMeta  `json:"meta,omitempty"`
}

func guestCartKey(sessionID string) string {
	return "guest_cart:" + sessionID
}

// Session binds the repository to one cart session id.
func (r *GuestCartRepository) Session(sessionID string) *GuestCartSession {
	return &GuestCartSession{repo: r, sessionID: sessionID}
}

type GuestCartSession struct {
	repo      *GuestCartRepository
	sessionID string
}

func (s *GuestCartSession) load(ctx context.Context) (*guestCartRecord, error) {
	if s.repo.client == nil {
		return nil, ErrGuestStoreUnavailable
	}

	raw, err := s.repo.client.Get(ctx, guestCartKey(s.sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return &guestCartRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("guest cart load: %w", err)
	}

	var record guestCartRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("guest cart decode: %w", err)
	}
	return &record, nil
}

func (s *GuestCartSession) save(ctx context.Context, record *guestCartRecord) error {
	if s.repo.client == nil {
		return ErrGuestStoreUnavailable
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("guest cart encode: %w", err)
	}

	if err := s.repo.client.Set(ctx, guestCartKey(s.sessionID), raw, s.repo.ttl).Err(); err != nil {
		return fmt.Errorf("guest cart save: %w", err)
	}
	return nil
}

func (s *GuestCartSession) GetGuestCart(ctx context.Context) ([]models.CartItem, error) {
	record, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return record.Items, nil
}

// AddToGuestCart merges by variant id and color: an existing line gets its
// quantity bumped, anything else becomes a new line.
func (s *GuestCartSession) AddToGuestCart(ctx context.Context, item models.CartItem) error {
	record, err := s.load(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	merged := false
	for i := range record.Items {
		if record.Items[i].VariantID == item.VariantID && record.Items[i].Color == item.Color {
			record.Items[i].Quantity += item.Quantity
			record.Items[i].UpdatedAt = now
			merged = true
			break
		}
	}

	if !merged {
		if item.ID == "" {
			item.ID = models.GuestItemID(item.VariantID, item.Color)
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UpdatedAt = now
		record.Items = append(record.Items, item)
	}

	return s.save(ctx, record)
}

func (s *GuestCartSession) UpdateGuestCartItem(ctx context.Context, id string, quantity int) error {
	record, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range record.Items {
		if record.Items[i].ID == id {
			record.Items[i].Quantity = quantity
			record.Items[i].UpdatedAt = time.Now()
			break
		}
	}

	return s.save(ctx, record)
}

func (s *GuestCartSession) RemoveFromGuestCart(ctx context.Context, id string) error {
	record, err := s.load(ctx)
	if err != nil {
		return err
	}

	items := record.Items[:0]
	for _, item := range record.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	record.Items = items

	return s.save(ctx, record)
}

// ClearGuestCart drops the items but keeps the persisted cart meta, so a
// shipping selection survives the guest-to-server merge on login.
func (s *GuestCartSession) ClearGuestCart(ctx context.Context) error {
	record, err := s.load(ctx)
	if err != nil {
		return err
	}

	record.Items = nil
	return s.save(ctx, record)
}

func (s *GuestCartSession) GetCartMeta(ctx context.Context) (*models.CartMeta, error) {
	record, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return record.Meta, nil
}

func (s *GuestCartSession) SaveCartMeta(ctx context.Context, meta models.CartMeta) error {
	record, err := s.load(ctx)
	if err != nil {
		return err
	}

	record.Meta = &meta
	return s.save(ctx, record)
}
