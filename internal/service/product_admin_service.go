package service

import (
	"context"
	"errors"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"

	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/logger"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/repository"

	"gorm.io/gorm"
)

var (
	slugStripPattern      = regexp.MustCompile(`[^\w\s-]`)
	slugSpacePattern      = regexp.MustCompile(`\s+`)
	slugDashRepeatPattern = regexp.MustCompile(`-+`)
)

// ProductAdminService 后台商品管理服务
type ProductAdminService struct {
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	uploadService *UploadService
}

// NewProductAdminService 创建后台商品服务
func NewProductAdminService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, uploadService *UploadService) *ProductAdminService {
	return &ProductAdminService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		uploadService: uploadService,
	}
}

// ProductInput 创建/更新商品参数
type ProductInput struct {
	ID           uint
	Name         string
	Description  string
	Price        models.Money
	CategorySlug string
	IsActive     *bool
	Image        *multipart.FileHeader
}

// InventoryInput 库存更新参数
type InventoryInput struct {
	QtyOnHand         int `json:"qtyOnHand"`
	LowStockThreshold int `json:"lowStockThreshold"`
}

// List 后台商品列表（最新优先，含分类、图片、库存）
func (s *ProductAdminService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.WithRelation = true
	return s.productRepo.List(filter)
}

// Create 创建商品
// 同一事务内写入商品、图片与初始库存 {0, 5}。
func (s *ProductAdminService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	name, category, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, ErrProductFieldsMissing
	}
	count, err := s.productRepo.CountBySlug(slug)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProductSlugExists
	}

	imageURL, err := s.saveImage(input.Image, slug)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	product := &models.Product{
		CategoryID:  category.ID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		PriceAmount: models.NewMoneyFromDecimal(input.Price.Decimal),
		IsActive:    isActive,
	}
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if imageURL != "" {
			if err := productRepo.ReplaceImages(product.ID, []string{imageURL}); err != nil {
				return err
			}
		}
		return productRepo.CreateInventory(&models.Inventory{
			ProductID:         product.ID,
			QtyOnHand:         0,
			LowStockThreshold: constants.DefaultLowStockThreshold,
		})
	})
	if err != nil {
		s.removeImage(imageURL)
		return nil, err
	}

	logger.Infow("admin_product_created", "product_id", product.ID, "slug", product.Slug)
	InvalidateCatalogCache(ctx)
	return s.reload(product.ID)
}

// Update 更新商品，slug 保持不变
// 上传新图片时替换全部旧图片。
func (s *ProductAdminService) Update(ctx context.Context, input ProductInput) (*models.Product, error) {
	if input.ID == 0 {
		return nil, ErrProductFieldsMissing
	}
	name, category, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	imageURL, err := s.saveImage(input.Image, strconv.FormatUint(uint64(product.ID), 10))
	if err != nil {
		return nil, err
	}
	oldImages := product.Images

	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.PriceAmount = models.NewMoneyFromDecimal(input.Price.Decimal)
	product.CategoryID = category.ID
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		if err := productRepo.Update(product); err != nil {
			return err
		}
		if imageURL == "" {
			return nil
		}
		return productRepo.ReplaceImages(product.ID, []string{imageURL})
	})
	if err != nil {
		s.removeImage(imageURL)
		return nil, err
	}
	if imageURL != "" {
		for _, image := range oldImages {
			s.removeImage(image.URL)
		}
	}

	logger.Infow("admin_product_updated", "product_id", product.ID, "image_replaced", imageURL != "")
	InvalidateCatalogCache(ctx)
	return s.reload(product.ID)
}

// Delete 删除商品
// 被任何订单项引用时拒绝删除，商品保持不变。
func (s *ProductAdminService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrProductIDRequired
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		refs, err := productRepo.CountOrderItemRefs(id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrProductInUse
		}
		return productRepo.Delete(id)
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrProductInUse
	}
	if err != nil {
		return err
	}
	for _, image := range product.Images {
		s.removeImage(image.URL)
	}
	logger.Infow("admin_product_deleted", "product_id", id, "slug", product.Slug)
	InvalidateCatalogCache(ctx)
	return nil
}

// UpdateInventory 更新库存
func (s *ProductAdminService) UpdateInventory(ctx context.Context, productID uint, input InventoryInput) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrProductIDRequired
	}
	if input.QtyOnHand < 0 || input.LowStockThreshold < 0 {
		return nil, ErrInventoryInvalid
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.productRepo.UpdateInventory(productID, input.QtyOnHand, input.LowStockThreshold); err != nil {
		return nil, err
	}
	InvalidateCatalogCache(ctx)
	return s.reload(productID)
}

func (s *ProductAdminService) validateInput(input ProductInput) (string, *models.Category, error) {
	name := strings.TrimSpace(input.Name)
	categorySlug := strings.TrimSpace(input.CategorySlug)
	if name == "" || input.Price.IsZero() || categorySlug == "" {
		return "", nil, ErrProductFieldsMissing
	}
	if input.Price.IsNegative() {
		return "", nil, ErrProductPriceInvalid
	}
	category, err := s.categoryRepo.GetBySlug(categorySlug)
	if err != nil {
		return "", nil, err
	}
	if category == nil {
		return "", nil, ErrCategoryInvalid
	}
	return name, category, nil
}

func (s *ProductAdminService) saveImage(file *multipart.FileHeader, baseName string) (string, error) {
	if file == nil || file.Size <= 0 || s.uploadService == nil {
		return "", nil
	}
	return s.uploadService.SaveProductImage(file, baseName)
}

func (s *ProductAdminService) removeImage(url string) {
	if url == "" || s.uploadService == nil {
		return
	}
	s.uploadService.Remove(url)
}

func (s *ProductAdminService) reload(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Slugify 由名称生成 URL 标识
func Slugify(text string) string {
	slug := strings.TrimSpace(strings.ToLower(text))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugSpacePattern.ReplaceAllString(slug, "-")
	slug = slugDashRepeatPattern.ReplaceAllString(slug, "-")
	return slug
}
