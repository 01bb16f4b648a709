package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"furniture-shop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	data  *models.SearchInitData
	err   error
}

func (f *fakeFetcher) GetSearchInitData(ctx context.Context) (*models.SearchInitData, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	data := f.data
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSnapshotStore struct {
	data      *models.SearchInitData
	updatedAt time.Time
	saves     int
}

func (s *fakeSnapshotStore) LoadSnapshot(ctx context.Context) (*models.SearchInitData, time.Time, error) {
	return s.data, s.updatedAt, nil
}

func (s *fakeSnapshotStore) SaveSnapshot(ctx context.Context, data *models.SearchInitData, updatedAt time.Time) error {
	s.data = data
	s.updatedAt = updatedAt
	s.saves++
	return nil
}

func catalog(names ...string) *models.SearchInitData {
	data := &models.SearchInitData{}
	for i, name := range names {
		data.Products = append(data.Products, models.Product{ID: fmt.Sprintf("p%d", i), Name: name})
	}
	return data
}

func TestShortQueryReturnsEmptyWithoutFetch(t *testing.T) {
	fetcher := &fakeFetcher{data: catalog("Modern Sofa")}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	for _, q := range []string{"", "s", "  "} {
		results, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Equal(t, 0, fetcher.calls)
}

func TestCatalogFetchedOncePerWindow(t *testing.T) {
	fetcher := &fakeFetcher{data: catalog("Modern Sofa", "Oak Table")}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	current := time.Now()
	svc.now = func() time.Time { return current }

	_, err := svc.Search(context.Background(), "sofa")
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "table")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	current = current.Add(31 * time.Second)
	_, err = svc.Search(context.Background(), "sofa")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestStaleSnapshotServedOnRefreshError(t *testing.T) {
	fetcher := &fakeFetcher{data: catalog("Modern Sofa")}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	current := time.Now()
	svc.now = func() time.Time { return current }

	results, err := svc.Search(context.Background(), "sofa")
	require.NoError(t, err)
	require.Len(t, results, 1)

	current = current.Add(31 * time.Second)
	fetcher.err = errors.New("upstream down")

	results, err = svc.Search(context.Background(), "sofa")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, fetcher.calls)
}

func TestSearchFailsWhenNothingToServe(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	_, err := svc.Search(context.Background(), "sofa")
	assert.Error(t, err)
}

func TestResultsCappedAtFifty(t *testing.T) {
	data := &models.SearchInitData{}
	for i := 0; i < 60; i++ {
		data.Products = append(data.Products, models.Product{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Sofa %d", i),
		})
	}
	fetcher := &fakeFetcher{data: data}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	results, err := svc.Search(context.Background(), "sofa")
	require.NoError(t, err)
	assert.Len(t, results, 50)
}

func TestResultsFollowCatalogOrder(t *testing.T) {
	// a fuzzy-only match earlier in the catalog precedes a later exact match
	fetcher := &fakeFetcher{data: catalog("Floor Lamp", "Sopha Lounger", "Modern Sofa")}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	results, err := svc.Search(context.Background(), "sofa")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Sopha Lounger", results[0].Name)
	assert.Equal(t, "Modern Sofa", results[1].Name)
}

func TestVariantAndCategoryFieldsAreSearched(t *testing.T) {
	data := &models.SearchInitData{Products: []models.Product{
		{
			ID:       "p1",
			Name:     "Lounger",
			Category: &models.Category{ID: "c1", Name: "Living Room"},
			Variants: []models.ProductVariant{{ID: "v1", Color: "Charcoal", Size: "Large"}},
			Material: "Walnut",
		},
	}}
	fetcher := &fakeFetcher{data: data}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	for _, q := range []string{"charcoal", "living", "walnut", "large"} {
		results, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Len(t, results, 1, "query %q", q)
	}
}

func TestColdStartUsesPersistedSnapshot(t *testing.T) {
	current := time.Now()
	store := &fakeSnapshotStore{data: catalog("Modern Sofa"), updatedAt: current.Add(-10 * time.Second)}
	fetcher := &fakeFetcher{data: catalog("Should Not Be Fetched")}

	svc := NewSearchService(fetcher, store, 30*time.Second)
	svc.now = func() time.Time { return current }

	results, err := svc.Search(context.Background(), "sofa")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 0, fetcher.calls)
}

func TestColdStartServesStalePersistedSnapshotWhenFetchFails(t *testing.T) {
	current := time.Now()
	store := &fakeSnapshotStore{data: catalog("Modern Sofa"), updatedAt: current.Add(-5 * time.Minute)}
	fetcher := &fakeFetcher{err: errors.New("upstream down")}

	svc := NewSearchService(fetcher, store, 30*time.Second)
	svc.now = func() time.Time { return current }

	results, err := svc.Search(context.Background(), "sofa")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	// the refetch was attempted, its failure just didn't fail the search
	assert.Equal(t, 1, fetcher.callCount())
}

func TestConcurrentInitializeFetchesOnce(t *testing.T) {
	fetcher := &fakeFetcher{data: catalog("Modern Sofa")}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.InitializeSearchData(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount())
}

func TestRefreshPersistsSnapshot(t *testing.T) {
	store := &fakeSnapshotStore{}
	fetcher := &fakeFetcher{data: catalog("Modern Sofa")}
	svc := NewSearchService(fetcher, store, 30*time.Second)

	require.NoError(t, svc.InitializeSearchData(context.Background()))
	assert.Equal(t, 1, store.saves)
}

func TestForceRefreshBypassesWindow(t *testing.T) {
	fetcher := &fakeFetcher{data: catalog("Modern Sofa")}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	require.NoError(t, svc.InitializeSearchData(context.Background()))
	require.NoError(t, svc.ForceRefresh(context.Background()))
	assert.Equal(t, 2, fetcher.calls)
}

func TestCategoriesFromSnapshot(t *testing.T) {
	data := &models.SearchInitData{
		Categories: []models.Category{{ID: "c1", Name: "Living Room"}, {ID: "c2", Name: "Bedroom"}},
	}
	fetcher := &fakeFetcher{data: data}
	svc := NewSearchService(fetcher, nil, 30*time.Second)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
