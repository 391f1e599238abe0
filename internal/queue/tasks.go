package queue

import (
	"encoding/json"
	"fmt"

	"github.com/indra-store/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderCreatedEmail 下单确认邮件任务
	TaskOrderCreatedEmail = constants.TaskOrderCreatedEmail
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
)

// OrderCreatedEmailPayload 下单确认邮件任务载荷
type OrderCreatedEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderCreatedEmailTask 创建下单确认邮件任务
func NewOrderCreatedEmailTask(payload OrderCreatedEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderCreatedEmail, body), nil
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// ParseOrderCreatedEmailPayload 解析下单确认邮件载荷
func ParseOrderCreatedEmailPayload(task *asynq.Task) (OrderCreatedEmailPayload, error) {
	var payload OrderCreatedEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("%s payload: %w", task.Type(), err)
	}
	if payload.OrderID == 0 {
		return payload, fmt.Errorf("%s payload: order_id is required", task.Type())
	}
	return payload, nil
}

// ParseOrderStatusEmailPayload 解析订单状态邮件载荷
func ParseOrderStatusEmailPayload(task *asynq.Task) (OrderStatusEmailPayload, error) {
	var payload OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("%s payload: %w", task.Type(), err)
	}
	if payload.OrderID == 0 {
		return payload, fmt.Errorf("%s payload: order_id is required", task.Type())
	}
	return payload, nil
}
