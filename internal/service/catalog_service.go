package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/indra-store/internal/cache"
	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/logger"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/repository"
)

const (
	defaultCatalogCacheTTL  = 60 * time.Second
	defaultFeaturedPoolSize = 30
	defaultFeaturedCount    = 4
	defaultNewArrivalsLimit = 20
)

// CategoryProducts 分类及其商品
type CategoryProducts struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

// ProductListInput 前台商品列表参数
type ProductListInput struct {
	CategorySlug string
	Page         int
	PageSize     int
}

// ProductPage 分页商品
type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
}

// CatalogService 前台商品目录服务
// 只返回上架商品，读取结果按目录版本号缓存在 Redis 中。
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	cfg          config.CatalogConfig
}

// NewCatalogService 创建目录服务
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, cfg config.CatalogConfig) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cfg:          cfg,
	}
}

// ListCategories 分类列表
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	key := s.cacheKey(ctx, "categories")
	var cached []models.Category
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, categories)
	return categories, nil
}

// ListCategoryProducts 分类下的上架商品
// new-arrivals 为跨分类的最新商品。
func (s *CatalogService) ListCategoryProducts(ctx context.Context, slug string) (*CategoryProducts, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrCategoryNotFound
	}
	key := s.cacheKey(ctx, "category", slug)
	var cached CategoryProducts
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if slug == constants.CategorySlugNewArrivals {
		if category == nil {
			category = &models.Category{Name: "New Arrivals", Slug: constants.CategorySlugNewArrivals}
		}
		products, err = s.productRepo.ListLatestActive(s.newArrivalsLimit())
		if err != nil {
			return nil, err
		}
	} else {
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		products, _, err = s.productRepo.List(repository.ProductListFilter{
			CategoryID: category.ID,
			OnlyActive: true,
		})
		if err != nil {
			return nil, err
		}
	}

	result := &CategoryProducts{Category: *category, Products: nonNilProducts(products)}
	s.store(ctx, key, result)
	return result, nil
}

// ListProducts 上架商品分页列表
func (s *CatalogService) ListProducts(ctx context.Context, input ProductListInput) (*ProductPage, error) {
	slug := strings.ToLower(strings.TrimSpace(input.CategorySlug))
	key := s.cacheKey(ctx, "products", slug, input.Page, input.PageSize)
	var cached ProductPage
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	filter := repository.ProductListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		OnlyActive: true,
	}
	if slug != "" {
		category, err := s.categoryRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		filter.CategoryID = category.ID
	}
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	page := &ProductPage{Items: nonNilProducts(products), Total: total}
	s.store(ctx, key, page)
	return page, nil
}

// FeaturedProducts 从最新商品池中随机挑选推荐商品
func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	key := s.cacheKey(ctx, "featured_pool", s.featuredPoolSize())
	var pool []models.Product
	hit, err := cache.GetJSON(ctx, key, &pool)
	if err != nil || !hit {
		pool, err = s.productRepo.ListLatestActive(s.featuredPoolSize())
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, pool)
	}
	return s.pickRandom(pool, s.featuredCount()), nil
}

// GetProduct 商品详情（仅上架商品）
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	key := s.cacheKey(ctx, "product", id)
	var cached models.Product
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}
	product, err := s.productRepo.GetActiveByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	s.store(ctx, key, product)
	return product, nil
}

func (s *CatalogService) pickRandom(pool []models.Product, count int) []models.Product {
	picked := make([]models.Product, len(pool))
	copy(picked, pool)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if count < len(picked) {
		picked = picked[:count]
	}
	return picked
}

func (s *CatalogService) cacheKey(ctx context.Context, parts ...interface{}) string {
	version, err := cache.CatalogVersion(ctx)
	if err != nil {
		logger.Warnw("catalog_cache_version_failed", "error", err)
	}
	return cache.CatalogKey(version, parts...)
}

func (s *CatalogService) store(ctx context.Context, key string, value interface{}) {
	if err := cache.SetJSON(ctx, key, value, s.cacheTTL()); err != nil {
		logger.Warnw("catalog_cache_set_failed", "key", key, "error", err)
	}
}

func (s *CatalogService) cacheTTL() time.Duration {
	if s.cfg.CacheTTLSeconds > 0 {
		return time.Duration(s.cfg.CacheTTLSeconds) * time.Second
	}
	return defaultCatalogCacheTTL
}

func (s *CatalogService) featuredPoolSize() int {
	if s.cfg.FeaturedPoolSize > 0 {
		return s.cfg.FeaturedPoolSize
	}
	return defaultFeaturedPoolSize
}

func (s *CatalogService) featuredCount() int {
	if s.cfg.FeaturedCount > 0 {
		return s.cfg.FeaturedCount
	}
	return defaultFeaturedCount
}

func (s *CatalogService) newArrivalsLimit() int {
	if s.cfg.NewArrivalsLimit > 0 {
		return s.cfg.NewArrivalsLimit
	}
	return defaultNewArrivalsLimit
}

// InvalidateCatalogCache 使商品目录缓存整体失效
func InvalidateCatalogCache(ctx context.Context) {
	if err := cache.BumpCatalogVersion(ctx); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

func nonNilProducts(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
