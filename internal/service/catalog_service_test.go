package service

import (
	"context"
	"testing"
	"time"

	"github.com/indra-store/internal/cache"
	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalogTestService(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	svc := NewCatalogService(
		repository.NewCategoryRepository(db),
		repository.NewProductRepository(db),
		config.CatalogConfig{FeaturedPoolSize: 30, FeaturedCount: 4, NewArrivalsLimit: 3},
	)
	return svc, db
}

func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() {
		cache.SetClient(nil, "")
	})
	return mr
}

func TestListCategoriesSeeded(t *testing.T) {
	svc, _ := newCatalogTestService(t)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	slugs := make([]string, 0, len(categories))
	for _, category := range categories {
		slugs = append(slugs, category.Slug)
	}
	assert.ElementsMatch(t, []string{"new-arrivals", "workwear", "dresses", "evening-wear", "accessories"}, slugs)
}

func TestListCategoryProductsFiltersActive(t *testing.T) {
	svc, db := newCatalogTestService(t)
	base := time.Now().Add(-time.Hour)
	seedProduct(t, db, "dresses", "midi-dress", 5000, true, base)
	seedProduct(t, db, "dresses", "draft-dress", 5000, false, base.Add(time.Minute))
	seedProduct(t, db, "workwear", "blazer", 9000, true, base.Add(2*time.Minute))

	result, err := svc.ListCategoryProducts(context.Background(), "Dresses")
	require.NoError(t, err)
	assert.Equal(t, "dresses", result.Category.Slug)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "midi-dress", result.Products[0].Slug)

	_, err = svc.ListCategoryProducts(context.Background(), "shoes")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestNewArrivalsSpansCategories(t *testing.T) {
	svc, db := newCatalogTestService(t)
	base := time.Now().Add(-time.Hour)
	seedProduct(t, db, "dresses", "oldest", 1000, true, base)
	seedProduct(t, db, "workwear", "older", 1000, true, base.Add(time.Minute))
	seedProduct(t, db, "accessories", "newer", 1000, true, base.Add(2*time.Minute))
	seedProduct(t, db, "evening-wear", "hidden", 1000, false, base.Add(3*time.Minute))
	seedProduct(t, db, "dresses", "newest", 1000, true, base.Add(4*time.Minute))

	result, err := svc.ListCategoryProducts(context.Background(), "new-arrivals")
	require.NoError(t, err)
	require.Len(t, result.Products, 3)
	assert.Equal(t, "newest", result.Products[0].Slug)
	assert.Equal(t, "newer", result.Products[1].Slug)
	assert.Equal(t, "older", result.Products[2].Slug)
}

func TestListProductsPaged(t *testing.T) {
	svc, db := newCatalogTestService(t)
	base := time.Now().Add(-time.Hour)
	for i, slug := range []string{"a-line", "bodycon", "cami", "drop-waist"} {
		seedProduct(t, db, "dresses", slug, 1000, true, base.Add(time.Duration(i)*time.Minute))
	}
	seedProduct(t, db, "workwear", "trousers", 1000, true, base)

	page, err := svc.ListProducts(context.Background(), ProductListInput{CategorySlug: "dresses", Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a-line", page.Items[0].Slug)

	all, err := svc.ListProducts(context.Background(), ProductListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), all.Total)
}

func TestFeaturedProductsPicksFromPool(t *testing.T) {
	svc, db := newCatalogTestService(t)
	base := time.Now().Add(-time.Hour)
	pool := map[string]bool{}
	for i, slug := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		seedProduct(t, db, "accessories", slug, 1000, true, base.Add(time.Duration(i)*time.Minute))
		pool[slug] = true
	}

	featured, err := svc.FeaturedProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 4)
	seen := map[uint]bool{}
	for _, product := range featured {
		assert.True(t, pool[product.Slug])
		assert.False(t, seen[product.ID], "featured products must be distinct")
		seen[product.ID] = true
	}
}

func TestGetProductOnlyActive(t *testing.T) {
	svc, db := newCatalogTestService(t)
	active := seedProduct(t, db, "dresses", "wrap-dress", 4200, true, time.Now())
	inactive := seedProduct(t, db, "dresses", "retired-dress", 4200, false, time.Now())

	product, err := svc.GetProduct(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, "wrap-dress", product.Slug)
	require.NotNil(t, product.Category)
	assert.Equal(t, "dresses", product.Category.Slug)

	_, err = svc.GetProduct(context.Background(), inactive.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = svc.GetProduct(context.Background(), 0)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogCacheInvalidation(t *testing.T) {
	useTestRedis(t)
	svc, db := newCatalogTestService(t)
	ctx := context.Background()
	seedProduct(t, db, "workwear", "pencil-skirt", 3000, true, time.Now().Add(-time.Minute))

	first, err := svc.ListCategoryProducts(ctx, "workwear")
	require.NoError(t, err)
	require.Len(t, first.Products, 1)

	seedProduct(t, db, "workwear", "silk-blouse", 3500, true, time.Now())

	cached, err := svc.ListCategoryProducts(ctx, "workwear")
	require.NoError(t, err)
	assert.Len(t, cached.Products, 1, "second read served from cache")

	InvalidateCatalogCache(ctx)

	fresh, err := svc.ListCategoryProducts(ctx, "workwear")
	require.NoError(t, err)
	assert.Len(t, fresh.Products, 2)
}
