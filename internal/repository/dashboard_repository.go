package repository

import (
	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview() (DashboardOverviewRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	TotalProducts    int64
	ActiveProducts   int64
	TotalOrders      int64
	ProcessingOrders int64
	ShippedOrders    int64
	LowStockProducts int64
	Revenue          float64
}

// GormDashboardRepository GORM 实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 总览统计
func (r *GormDashboardRepository) GetOverview() (DashboardOverviewRow, error) {
	var row DashboardOverviewRow
	if err := r.db.Model(&models.Product{}).Count(&row.TotalProducts).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&row.ActiveProducts).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Order{}).Count(&row.TotalOrders).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Order{}).
		Where("status = ?", constants.OrderStatusProcessing).
		Count(&row.ProcessingOrders).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Order{}).
		Where("status = ?", constants.OrderStatusShipped).
		Count(&row.ShippedOrders).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Inventory{}).
		Where("qty_on_hand <= low_stock_threshold").
		Count(&row.LowStockProducts).Error; err != nil {
		return row, err
	}
	var revenue struct {
		Total float64
	}
	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status <> ?", constants.OrderStatusCancelled).
		Scan(&revenue).Error; err != nil {
		return row, err
	}
	row.Revenue = revenue.Total
	return row, nil
}
