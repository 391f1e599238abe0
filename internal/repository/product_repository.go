package repository

import (
	"errors"
	"strings"

	"github.com/indra-store/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetActiveByID(id uint) (*models.Product, error)
	List(filter ProductListFilter) ([]models.Product, int64, error)
	ListLatestActive(limit int) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySlug(slug string) (int64, error)
	CountOrderItemRefs(productID uint) (int64, error)
	ListImages(productID uint) ([]models.ProductImage, error)
	ReplaceImages(productID uint, urls []string) error
	CreateInventory(inventory *models.Inventory) error
	UpdateInventory(productID uint, qtyOnHand, lowStockThreshold int) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormProductRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Inventory")
}

// GetByID 根据 ID 获取商品（含分类、图片、库存）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.withRelations(r.db).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetActiveByID 获取上架商品
func (r *GormProductRepository) GetActiveByID(id uint) (*models.Product, error) {
	var product models.Product
	query := r.withRelations(r.db).Where("is_active = ?", true)
	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// List 商品列表（按创建时间倒序）
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := buildLikePattern(search)
		query = query.Where(r.db.Where(likeInsensitiveExpr(r.db, "name"), like).Or("slug LIKE ?", like))
	}

	query, total, err := newestFirstPage(query, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if filter.WithRelation {
		query = r.withRelations(query)
	} else {
		query = query.Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListLatestActive 最新上架的商品
func (r *GormProductRepository) ListLatestActive(limit int) ([]models.Product, error) {
	query := r.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Omit("Category", "Images", "Inventory").Create(product).Error
}

// Update 更新商品基础字段
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Omit("Category", "Images", "Inventory").Save(product).Error
}

// Delete 物理删除商品及其图片与库存
func (r *GormProductRepository) Delete(id uint) error {
	if err := r.db.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("product_id = ?", id).Delete(&models.Inventory{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Product{}, id).Error
}

// CountBySlug 统计 slug 数量
func (r *GormProductRepository) CountBySlug(slug string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOrderItemRefs 统计引用该商品的订单项
func (r *GormProductRepository) CountOrderItemRefs(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListImages 商品图片列表
func (r *GormProductRepository) ListImages(productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.db.Where("product_id = ?", productID).Order("id ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ReplaceImages 删除旧图片记录并写入新记录
func (r *GormProductRepository) ReplaceImages(productID uint, urls []string) error {
	if err := r.db.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	images := make([]models.ProductImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, models.ProductImage{ProductID: productID, URL: url})
	}
	return r.db.Create(&images).Error
}

// CreateInventory 创建库存记录
func (r *GormProductRepository) CreateInventory(inventory *models.Inventory) error {
	return r.db.Create(inventory).Error
}

// UpdateInventory 更新库存，记录不存在时创建
func (r *GormProductRepository) UpdateInventory(productID uint, qtyOnHand, lowStockThreshold int) error {
	var count int64
	if err := r.db.Model(&models.Inventory{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return r.db.Create(&models.Inventory{
			ProductID:         productID,
			QtyOnHand:         qtyOnHand,
			LowStockThreshold: lowStockThreshold,
		}).Error
	}
	return r.db.Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"qty_on_hand":         qtyOnHand,
			"low_stock_threshold": lowStockThreshold,
		}).Error
}
