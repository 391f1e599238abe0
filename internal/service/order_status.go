package service

import (
	"strings"

	"github.com/indra-store/internal/constants"
)

// orderStatusTransitions 允许的订单状态流转，DELIVERED 与 CANCELLED 为终态
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusProcessing: {constants.OrderStatusShipped, constants.OrderStatusCancelled},
	constants.OrderStatusShipped:    {constants.OrderStatusDelivered, constants.OrderStatusCancelled},
	constants.OrderStatusDelivered:  {},
	constants.OrderStatusCancelled:  {},
}

// NormalizeOrderStatus 统一状态值为大写，未知状态返回 false
func NormalizeOrderStatus(raw string) (string, bool) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := orderStatusTransitions[status]; !ok {
		return "", false
	}
	return status, true
}

// CanTransitOrderStatus 判断状态是否可流转，保持原状态视为允许
func CanTransitOrderStatus(from, to string) bool {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		_, ok := orderStatusTransitions[to]
		return ok
	}
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
