package service

import (
	"context"
	"strings"
	"time"

	"github.com/indra-store/internal/cache"
	"github.com/indra-store/internal/repository"

	"github.com/shopspring/decimal"
)

const dashboardCacheTTL = 30 * time.Second

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据。
type DashboardService struct {
	repo     repository.DashboardRepository
	currency string
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, currency string) *DashboardService {
	return &DashboardService{repo: repo, currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	Currency         string `json:"currency"`
	TotalProducts    int64  `json:"totalProducts"`
	ActiveProducts   int64  `json:"activeProducts"`
	TotalOrders      int64  `json:"totalOrders"`
	ProcessingOrders int64  `json:"processingOrders"`
	ShippedOrders    int64  `json:"shippedOrders"`
	LowStockProducts int64  `json:"lowStockProducts"`
	Revenue          string `json:"revenue"`
}

// GetOverview 获取总览，forceRefresh 时跳过缓存
func (s *DashboardService) GetOverview(ctx context.Context, forceRefresh bool) (*DashboardOverview, error) {
	cacheKey := "dashboard:overview"
	if !forceRefresh {
		var cached DashboardOverview
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	row, err := s.repo.GetOverview()
	if err != nil {
		return nil, err
	}
	overview := &DashboardOverview{
		Currency:         s.currency,
		TotalProducts:    row.TotalProducts,
		ActiveProducts:   row.ActiveProducts,
		TotalOrders:      row.TotalOrders,
		ProcessingOrders: row.ProcessingOrders,
		ShippedOrders:    row.ShippedOrders,
		LowStockProducts: row.LowStockProducts,
		Revenue:          decimal.NewFromFloat(row.Revenue).StringFixed(2),
	}
	_ = cache.SetJSON(ctx, cacheKey, overview, dashboardCacheTTL)
	return overview, nil
}
