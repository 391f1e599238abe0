package models

import (
	"errors"

	"github.com/indra-store/internal/logger"

	"gorm.io/gorm"
)

// CategorySeed 预置分类
type CategorySeed struct {
	Name string
	Slug string
}

// DefaultCategories 店铺默认分类
func DefaultCategories() []CategorySeed {
	return []CategorySeed{
		{Name: "New Arrivals", Slug: "new-arrivals"},
		{Name: "Workwear", Slug: "workwear"},
		{Name: "Dresses", Slug: "dresses"},
		{Name: "Evening Wear", Slug: "evening-wear"},
		{Name: "Accessories", Slug: "accessories"},
	}
}

// SeedCategories 按 slug 幂等写入分类，已存在的只更新名称
func SeedCategories(db *gorm.DB, seeds []CategorySeed) (int, error) {
	if db == nil {
		return 0, errors.New("database not initialized")
	}
	created := 0
	for _, seed := range seeds {
		var existing Category
		err := db.Where("slug = ?", seed.Slug).First(&existing).Error
		if err == nil {
			if existing.Name != seed.Name {
				if err := db.Model(&existing).Update("name", seed.Name).Error; err != nil {
					return created, err
				}
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}
		if err := db.Create(&Category{Name: seed.Name, Slug: seed.Slug}).Error; err != nil {
			return created, err
		}
		created++
	}
	logger.Infow("seed_categories_done", "created", created, "total", len(seeds))
	return created, nil
}

// ProductSeed 演示商品
type ProductSeed struct {
	CategorySlug string
	Name         string
	Slug         string
	Description  string
	Price        int64
	QtyOnHand    int
}

// DemoProducts 演示商品列表
func DemoProducts() []ProductSeed {
	return []ProductSeed{
		{CategorySlug: "workwear", Name: "Tailored Linen Blazer", Slug: "tailored-linen-blazer", Description: "Single-breasted blazer in breathable linen.", Price: 12500, QtyOnHand: 12},
		{CategorySlug: "workwear", Name: "Pleated Office Trousers", Slug: "pleated-office-trousers", Description: "High-rise trousers with front pleats.", Price: 7800, QtyOnHand: 20},
		{CategorySlug: "dresses", Name: "Batik Wrap Dress", Slug: "batik-wrap-dress", Description: "Hand-dyed batik wrap dress.", Price: 9500, QtyOnHand: 8},
		{CategorySlug: "dresses", Name: "Cotton Shirt Dress", Slug: "cotton-shirt-dress", Description: "Relaxed shirt dress with a tie belt.", Price: 6900, QtyOnHand: 3},
		{CategorySlug: "evening-wear", Name: "Satin Slip Gown", Slug: "satin-slip-gown", Description: "Bias-cut satin gown.", Price: 18500, QtyOnHand: 4},
		{CategorySlug: "accessories", Name: "Silk Scarf", Slug: "silk-scarf", Description: "Printed mulberry silk scarf.", Price: 3500, QtyOnHand: 30},
	}
}

// SeedProducts 按 slug 幂等写入演示商品与库存，分类不存在时跳过
func SeedProducts(db *gorm.DB, seeds []ProductSeed, lowStockThreshold int) (int, error) {
	if db == nil {
		return 0, errors.New("database not initialized")
	}
	created := 0
	for _, seed := range seeds {
		var category Category
		if err := db.Where("slug = ?", seed.CategorySlug).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warnw("seed_product_category_missing", "slug", seed.Slug, "category", seed.CategorySlug)
				continue
			}
			return created, err
		}
		var count int64
		if err := db.Model(&Product{}).Where("slug = ?", seed.Slug).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			product := &Product{
				CategoryID:  category.ID,
				Name:        seed.Name,
				Slug:        seed.Slug,
				Description: seed.Description,
				PriceAmount: NewMoneyFromInt(seed.Price),
				IsActive:    true,
			}
			if err := tx.Create(product).Error; err != nil {
				return err
			}
			return tx.Create(&Inventory{
				ProductID:         product.ID,
				QtyOnHand:         seed.QtyOnHand,
				LowStockThreshold: lowStockThreshold,
			}).Error
		})
		if err != nil {
			return created, err
		}
		created++
	}
	logger.Infow("seed_products_done", "created", created, "total", len(seeds))
	return created, nil
}
