package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/indra-store/internal/logger"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/provider"
	"github.com/indra-store/internal/queue"
	"github.com/indra-store/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderCreatedEmail, c.handleOrderCreatedEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleOrderCreatedEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_created_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderCreatedEmailPayload(task)
	if err != nil {
		logger.Warnw("worker_order_created_email_payload_invalid", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	order, err := c.loadOrder(payload.OrderID, "worker_order_created_email")
	if err != nil || order == nil {
		return err
	}
	err = c.EmailService.SendOrderCreatedEmail(order, "")
	return c.finishEmail("worker_order_created_email", order, err)
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderStatusEmailPayload(task)
	if err != nil {
		logger.Warnw("worker_order_status_email_payload_invalid", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	order, err := c.loadOrder(payload.OrderID, "worker_order_status_email")
	if err != nil || order == nil {
		return err
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	err = c.EmailService.SendOrderStatusEmail(order, status, "")
	return c.finishEmail("worker_order_status_email", order, err)
}

// loadOrder 读取订单，订单不存在时返回 nil, nil 让任务直接完成
func (c *Consumer) loadOrder(orderID uint, event string) (*models.Order, error) {
	order, err := c.OrderRepo.GetByID(orderID)
	if err != nil {
		logger.Warnw(event+"_fetch_order_failed", "order_id", orderID, "error", err)
		return nil, err
	}
	if order == nil {
		logger.Debugw(event+"_skip_order_not_found", "order_id", orderID)
		return nil, nil
	}
	if strings.TrimSpace(order.CustomerEmail) == "" {
		logger.Debugw(event+"_skip_empty_receiver", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil, nil
	}
	if c.EmailService == nil {
		logger.Warnw(event+"_skip_email_service_nil", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil, nil
	}
	return order, nil
}

// finishEmail 归类发送结果：未启用视为完成，收件人被拒不再重试，其余错误交给 asynq 重试
func (c *Consumer) finishEmail(event string, order *models.Order, err error) error {
	switch {
	case err == nil:
		logger.Infow(event+"_sent", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil
	case errors.Is(err, service.ErrEmailServiceDisabled), errors.Is(err, service.ErrEmailServiceNotConfigured):
		logger.Debugw(event+"_skip_disabled", "order_id", order.ID, "error", err)
		return nil
	case errors.Is(err, service.ErrEmailRecipientRejected), errors.Is(err, service.ErrInvalidEmail):
		logger.Warnw(event+"_recipient_rejected", "order_id", order.ID, "order_number", order.OrderNumber, "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	default:
		logger.Warnw(event+"_send_failed", "order_id", order.ID, "order_number", order.OrderNumber, "error", err)
		return err
	}
}
