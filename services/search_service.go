package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"furniture-shop/models"
	"furniture-shop/utils"

	"golang.org/x/sync/singleflight"
)

const maxSearchResults = 50

// CatalogFetcher fetches the bulk catalog snapshot from the commerce API.
type CatalogFetcher interface {
	GetSearchInitData(ctx context.Context) (*models.SearchInitData, error)
}

// SnapshotStore persists the catalog snapshot across process restarts. A nil
// store is allowed; the service then works purely in memory.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (*models.SearchInitData, time.Time, error)
	SaveSnapshot(ctx context.Context, data *models.SearchInitData, updatedAt time.Time) error
}

// SearchService answers typo-tolerant product searches over a cached catalog
// snapshot. The snapshot is fetched in bulk, reused inside a freshness
// window, replaced wholesale on refresh, and served stale when a refresh
// fails. Concurrent refreshes collapse into one fetch.
type SearchService struct {
	fetcher  CatalogFetcher
	store    SnapshotStore
	cacheTTL time.Duration
	now      func() time.Time

	mu          sync.RWMutex
	products    []models.Product
	categories  []models.Category
	initialized bool
	lastUpdated time.Time

	group singleflight.Group
}

func NewSearchService(fetcher CatalogFetcher, store SnapshotStore, cacheTTL time.Duration) *SearchService {
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Second
	}
	return &SearchService{
		fetcher:  fetcher,
		store:    store,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// InitializeSearchData makes sure a usable catalog snapshot is loaded. Inside
// the freshness window it is a no-op. A cold process first tries the
// persisted snapshot before going to the network. A failed refetch keeps
// serving the stale snapshot and only fails when there is nothing to serve.
func (s *SearchService) InitializeSearchData(ctx context.Context) error {
	s.mu.RLock()
	fresh := s.initialized && s.now().Sub(s.lastUpdated) < s.cacheTTL
	everLoaded := s.initialized
	s.mu.RUnlock()

	if fresh {
		return nil
	}

	if !everLoaded && s.store != nil {
		if data, updatedAt, err := s.store.LoadSnapshot(ctx); err != nil {
			log.Printf("search: persisted snapshot load failed: %v", err)
		} else if data != nil {
			// Adopt the persisted snapshot even when it is past the window:
			// if the refetch below fails there is still something to serve.
			s.adopt(data, updatedAt)
			if s.now().Sub(updatedAt) < s.cacheTTL {
				return nil
			}
		}
	}

	_, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		s.mu.RLock()
		fresh := s.initialized && s.now().Sub(s.lastUpdated) < s.cacheTTL
		s.mu.RUnlock()
		if fresh {
			return nil, nil
		}
		return nil, s.refresh(ctx)
	})
	if err != nil {
		s.mu.RLock()
		haveData := s.initialized
		s.mu.RUnlock()
		if haveData {
			log.Printf("search: catalog refresh failed, serving stale snapshot: %v", err)
			return nil
		}
		return err
	}
	return nil
}

// ForceRefresh refetches the catalog regardless of the freshness window.
func (s *SearchService) ForceRefresh(ctx context.Context) error {
	_, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		return nil, s.refresh(ctx)
	})
	return err
}

func (s *SearchService) refresh(ctx context.Context) error {
	data, err := s.fetcher.GetSearchInitData(ctx)
	if err != nil {
		return err
	}

	updatedAt := s.now()
	s.adopt(data, updatedAt)

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, data, updatedAt); err != nil {
			log.Printf("search: snapshot persist failed: %v", err)
		}
	}
	return nil
}

func (s *SearchService) adopt(data *models.SearchInitData, updatedAt time.Time) {
	s.mu.Lock()
	s.products = data.Products
	s.categories = data.Categories
	s.initialized = true
	s.lastUpdated = updatedAt
	s.mu.Unlock()
}

// Search returns products plausibly matching the query, in catalog order
// (no relevance ranking), capped at 50. Queries shorter than two characters
// are not a real search yet and return nothing.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" || len([]rune(query)) < 2 {
		return []models.SearchResult{}, nil
	}

	if err := s.InitializeSearchData(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	products := s.products
	s.mu.RUnlock()

	normalized := utils.NormalizeText(query)
	results := make([]models.SearchResult, 0, maxSearchResults)

	for _, p := range products {
		if productMatches(p, normalized, query) {
			results = append(results, p.ToSearchResult())
			if len(results) >= maxSearchResults {
				break
			}
		}
	}

	return results, nil
}

// productMatches checks every searchable field for a normalized substring hit
// or a fuzzy-cascade hit. The two checks are per field, not per pass: a
// product's rank is its catalog position regardless of which check accepted
// it.
func productMatches(p models.Product, normalizedQuery, rawQuery string) bool {
	for _, field := range searchableFields(p) {
		if strings.Contains(utils.NormalizeText(field), normalizedQuery) {
			return true
		}
		if utils.FuzzyMatch(field, rawQuery) {
			return true
		}
	}
	return false
}

// searchableFields lists the text fields a query is matched against.
// Optional fields that are empty are simply absent.
func searchableFields(p models.Product) []string {
	fields := []string{p.Name, p.Description}
	if p.Category != nil {
		fields = append(fields, p.Category.Name)
	}
	if p.Tags != "" {
		fields = append(fields, p.Tags)
	}
	if p.Material != "" {
		fields = append(fields, p.Material)
	}
	if p.Brand != "" {
		fields = append(fields, p.Brand)
	}
	for _, v := range p.Variants {
		if v.Color != "" {
			fields = append(fields, v.Color)
		}
		if v.Size != "" {
			fields = append(fields, v.Size)
		}
	}
	return fields
}

// Categories returns the category tree from the current snapshot.
func (s *SearchService) Categories(ctx context.Context) ([]models.Category, error) {
	if err := s.InitializeSearchData(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories, nil
}
