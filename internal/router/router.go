package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/indra-store/internal/authz"
	"github.com/indra-store/internal/cache"
	"github.com/indra-store/internal/config"
	adminhandlers "github.com/indra-store/internal/http/handlers/admin"
	publichandlers "github.com/indra-store/internal/http/handlers/public"
	"github.com/indra-store/internal/logger"
	"github.com/indra-store/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "indra"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的商品图片）
	r.Static("/uploads", c.UploadService.Root())

	optionalUser := UserAuthMiddleware(c.AuthService, false)
	requiredUser := UserAuthMiddleware(c.AuthService, true)

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/categories", publicHandler.ListCategories)
			public.GET("/categories/:slug/products", publicHandler.ListCategoryProducts)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/featured", publicHandler.FeaturedProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.GET("/orders/track/:order_number", publicHandler.TrackOrder)
		}

		// 购物车（X-Cart-Token）
		cartGroup := apiV1.Group("/cart")
		{
			cartGroup.GET("", publicHandler.GetCart)
			cartGroup.DELETE("", publicHandler.ClearCart)
			cartGroup.POST("/items", publicHandler.AddCartItem)
			cartGroup.POST("/items/:product_id/increment", publicHandler.IncrementCartItem)
			cartGroup.POST("/items/:product_id/decrement", publicHandler.DecrementCartItem)
			cartGroup.DELETE("/items/:product_id", publicHandler.RemoveCartItem)
		}

		// 下单（可选登录）
		apiV1.POST("/orders",
			RateLimitMiddleware(redisClient, checkoutRule, KeyByIP),
			optionalUser,
			publicHandler.CreateOrder,
		)

		// 账号
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}
		apiV1.GET("/me", requiredUser, publicHandler.GetMe)
		apiV1.GET("/account/orders", requiredUser, publicHandler.ListMyOrders)

		// 管理端（会话 + 白名单 + 路由策略）
		adminGroup := apiV1.Group("/admin", requiredUser, AdminGateMiddleware(c.AdminGate))
		{
			adminGroup.GET("/dashboard", adminHandler.GetDashboardOverview)

			adminGroup.GET("/orders", adminHandler.ListOrders)
			adminGroup.PUT("/orders", adminHandler.UpdateOrderStatus)
			adminGroup.GET("/orders/:id", adminHandler.GetOrder)
			adminGroup.PATCH("/orders/:id", adminHandler.PatchOrderStatus)

			adminGroup.GET("/products", adminHandler.ListProducts)
			adminGroup.POST("/products", adminHandler.CreateProduct)
			adminGroup.PUT("/products", adminHandler.UpdateProduct)
			adminGroup.DELETE("/products", adminHandler.DeleteProduct)
			adminGroup.PUT("/products/:id", adminHandler.UpdateProduct)
			adminGroup.PUT("/products/:id/inventory", adminHandler.UpdateProductInventory)

			adminGroup.GET("/authz/me", adminHandler.GetAuthzMe)
			adminGroup.GET("/authz/roles", adminHandler.ListAuthzRoles)
			adminGroup.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			adminGroup.GET("/authz/admins", adminHandler.ListAuthzAdmins)
			adminGroup.GET("/authz/permissions", adminHandler.ListPermissions)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	adminHandler.SetPermissionCatalog(buildAdminPermissionCatalog(r))
	return r
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminhandlers.PermissionItem {
	if engine == nil {
		return []adminhandlers.PermissionItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminhandlers.PermissionItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == http.MethodOptions || method == http.MethodHead {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminhandlers.PermissionItem{
			Module: deriveAdminPermissionModule(object),
			Object: object,
			Action: method,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Action < items[j].Action
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
