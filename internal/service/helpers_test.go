package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/indra-store/internal/cart"
	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.MigrateWith(db))
	_, err = models.SeedCategories(db, models.DefaultCategories())
	require.NoError(t, err)
	return db
}

// openServiceTestDBWithForeignKeys 走生产连接配置：开启外键并翻译约束错误
func openServiceTestDBWithForeignKeys(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_fk?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.Open("sqlite", dsn, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, models.MigrateWith(db))
	_, err = models.SeedCategories(db, models.DefaultCategories())
	require.NoError(t, err)
	return db
}

func mustCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category, err := repository.NewCategoryRepository(db).GetBySlug(slug)
	require.NoError(t, err)
	require.NotNil(t, category, "category %s should be seeded", slug)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categorySlug, slug string, price int64, active bool, createdAt time.Time) *models.Product {
	t.Helper()
	category := mustCategory(t, db, categorySlug)
	product := &models.Product{
		CategoryID:  category.ID,
		Name:        strings.ToUpper(slug[:1]) + slug[1:],
		Slug:        slug,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		IsActive:    active,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	repo := repository.NewProductRepository(db)
	require.NoError(t, repo.Create(product))
	require.NoError(t, repo.ReplaceImages(product.ID, []string{"/uploads/products/" + slug + ".jpg"}))
	require.NoError(t, repo.CreateInventory(&models.Inventory{
		ProductID:         product.ID,
		QtyOnHand:         10,
		LowStockThreshold: constants.DefaultLowStockThreshold,
	}))
	return product
}

type orderTestEnv struct {
	db          *gorm.DB
	orderRepo   *repository.GormOrderRepository
	productRepo *repository.GormProductRepository
	cartService *CartService
	orders      *OrderService
	admin       *OrderAdminService
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()
	db := openServiceTestDB(t)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartService := NewCartService(cart.NewStore(cart.NewMemoryStorage()), productRepo)
	return &orderTestEnv{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartService: cartService,
		orders:      NewOrderService(orderRepo, cartService, nil, nil, config.OrderConfig{Currency: "LKR"}),
		admin:       NewOrderAdminService(orderRepo, nil),
	}
}

func validOrderInput(items ...CreateOrderItem) CreateOrderInput {
	return CreateOrderInput{
		CustomerEmail: "Nadee@Example.com",
		CustomerName:  "Nadee Perera",
		Address:       "12 Galle Road",
		City:          "Colombo",
		Phone:         "0771234567",
		Items:         items,
	}
}

func orderItem(productID uint, name string, price int64, qty int) CreateOrderItem {
	id := productID
	return CreateOrderItem{
		ProductID: &id,
		Name:      name,
		Price:     models.NewMoneyFromInt(price),
		Qty:       qty,
	}
}
