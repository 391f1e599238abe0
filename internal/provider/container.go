package provider

import (
	"strings"
	"time"

	"github.com/indra-store/internal/authz"
	"github.com/indra-store/internal/cache"
	"github.com/indra-store/internal/cart"
	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/logger"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/queue"
	"github.com/indra-store/internal/repository"
	"github.com/indra-store/internal/service"

	"gorm.io/gorm"
)

const defaultCartTTLHours = 24 * 30

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client
	CartStore   *cart.Store

	// Repositories
	UserRepo      repository.UserRepository
	OrderRepo     repository.OrderRepository
	ProductRepo   repository.ProductRepository
	CategoryRepo  repository.CategoryRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AdminGate           *service.AdminGate
	AuthService         *service.AuthService
	EmailService        *service.EmailService
	CaptchaService      *service.CaptchaService
	UploadService       *service.UploadService
	CatalogService      *service.CatalogService
	CartService         *service.CartService
	OrderService        *service.OrderService
	OrderAdminService   *service.OrderAdminService
	ProductAdminService *service.ProductAdminService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		DB:          models.DB,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

// NewContainerWithDB 使用指定数据库构建容器，不连接 Redis 与队列
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	queueClient, _ := queue.NewClient(nil)
	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	added, removed, err := c.AuthzService.SyncAdminEmails(c.Config.Admin.Emails)
	if err != nil {
		logger.Errorw("provider_sync_admin_emails_failed", "error", err)
		panic(err)
	}
	logger.Infow("provider_admin_emails_synced", "added", added, "removed", removed)
	c.AdminGate = service.NewAdminGate(c.Config.Admin.Emails, c.AuthzService)

	c.CartStore = newCartStore(c.Config.Cart)

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.UploadService = service.NewUploadService(c.Config.Upload)
	c.CatalogService = service.NewCatalogService(c.CategoryRepo, c.ProductRepo, c.Config.Catalog)
	c.CartService = service.NewCartService(c.CartStore, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartService, c.CaptchaService, c.QueueClient, c.Config.Order)
	c.OrderAdminService = service.NewOrderAdminService(c.OrderRepo, c.QueueClient)
	c.ProductAdminService = service.NewProductAdminService(c.ProductRepo, c.CategoryRepo, c.UploadService)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.Config.Order.Currency)
}

// newCartStore 按配置选择购物车存储，Redis 不可用时回退到进程内存储
func newCartStore(cfg config.CartConfig) *cart.Store {
	ttlHours := cfg.TTLHours
	if ttlHours <= 0 {
		ttlHours = defaultCartTTLHours
	}
	var storage cart.Storage
	if strings.EqualFold(strings.TrimSpace(cfg.Storage), "memory") || !cache.Enabled() {
		if !strings.EqualFold(strings.TrimSpace(cfg.Storage), "memory") {
			logger.Warnw("provider_cart_storage_fallback_memory", "configured", cfg.Storage)
		}
		storage = cart.NewMemoryStorage()
	} else {
		storage = cart.NewRedisStorage(cache.Client(), cache.Prefix(), time.Duration(ttlHours)*time.Hour)
	}
	return cart.NewStore(storage, cart.WithMaxQty(cfg.MaxItemQty))
}
