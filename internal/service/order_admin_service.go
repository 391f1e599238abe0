package service

import (
	"strings"
	"time"

	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/logger"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/queue"
	"github.com/indra-store/internal/repository"

	"gorm.io/gorm"
)

// OrderAdminService 后台订单管理服务
type OrderAdminService struct {
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
	now         func() time.Time
}

// NewOrderAdminService 创建后台订单服务
func NewOrderAdminService(orderRepo repository.OrderRepository, queueClient *queue.Client) *OrderAdminService {
	return &OrderAdminService{
		orderRepo:   orderRepo,
		queueClient: queueClient,
		now:         time.Now,
	}
}

// UpdateOrderStatusInput 更新订单状态与物流信息
// 物流字段为 nil 表示不修改，空字符串表示清除。
type UpdateOrderStatusInput struct {
	ID             uint
	Status         string
	TrackingNumber *string
	TrackingURL    *string
}

// List 订单列表（最新优先，含订单项）
func (s *OrderAdminService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.Status != "" {
		status, ok := NormalizeOrderStatus(filter.Status)
		if !ok {
			return nil, 0, ErrOrderStatusInvalid
		}
		filter.Status = status
	}
	return s.orderRepo.ListAdmin(filter)
}

// Get 订单详情
func (s *OrderAdminService) Get(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, ErrOrderIDRequired
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 更新订单状态
// shippedAt 与 deliveredAt 只在首次进入对应状态时写入。
func (s *OrderAdminService) UpdateStatus(input UpdateOrderStatusInput) (*models.Order, error) {
	if input.ID == 0 {
		return nil, ErrOrderIDRequired
	}
	target, ok := NormalizeOrderStatus(input.Status)
	if !ok {
		return nil, ErrOrderStatusInvalid
	}

	var previous string
	now := s.now()
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByID(input.ID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !CanTransitOrderStatus(order.Status, target) {
			return ErrOrderTransitionInvalid
		}
		previous = order.Status
		return orderRepo.Update(order.ID, buildOrderStatusUpdates(order, target, input, now))
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(input.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if previous != target {
		logger.Infow("order_status_updated",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"from", previous,
			"to", target,
		)
		if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
			OrderID: order.ID,
			Status:  target,
		}); err != nil {
			logger.Warnw("order_status_email_enqueue_failed", "order_id", order.ID, "status", target, "error", err)
		}
	}
	return order, nil
}

func buildOrderStatusUpdates(order *models.Order, target string, input UpdateOrderStatusInput, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}
	switch target {
	case constants.OrderStatusShipped:
		if order.ShippedAt == nil {
			updates["shipped_at"] = now
		}
	case constants.OrderStatusDelivered:
		if order.DeliveredAt == nil {
			updates["delivered_at"] = now
		}
		if order.ShippedAt == nil {
			updates["shipped_at"] = now
		}
	}
	if input.TrackingNumber != nil {
		updates["tracking_number"] = nullableTrimmed(*input.TrackingNumber)
	}
	if input.TrackingURL != nil {
		updates["tracking_url"] = nullableTrimmed(*input.TrackingURL)
	}
	return updates
}

func nullableTrimmed(value string) interface{} {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return trimmed
}
