package admin

import (
	"strings"

	handlershared "github.com/indra-store/internal/http/handlers/shared"
	"github.com/indra-store/internal/http/response"
	"github.com/indra-store/internal/repository"
	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
)

var orderErrorRules = []adminErrorRule{
	{target: service.ErrOrderIDRequired, code: response.CodeBadRequest, key: "error.order_id_required"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
	{target: service.ErrOrderTransitionInvalid, code: response.CodeConflict, key: "error.order_transition_invalid"},
}

// UpdateOrderStatusRequest 更新订单状态请求
// 物流字段缺省表示不修改，空字符串表示清除。
type UpdateOrderStatusRequest struct {
	ID             uint    `json:"id"`
	Status         string  `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
	TrackingURL    *string `json:"trackingUrl"`
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPage(c)
	orders, total, err := h.OrderAdminService.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondWithRules(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.order_id_required", nil)
		return
	}
	order, err := h.OrderAdminService.Get(id)
	if err != nil {
		respondWithRules(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 更新订单状态（订单 ID 位于请求体）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	h.applyOrderStatus(c, req)
}

// PatchOrderStatus 更新订单状态（订单 ID 位于路径）
func (h *Handler) PatchOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.order_id_required", nil)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	req.ID = id
	h.applyOrderStatus(c, req)
}

func (h *Handler) applyOrderStatus(c *gin.Context, req UpdateOrderStatusRequest) {
	order, err := h.OrderAdminService.UpdateStatus(service.UpdateOrderStatusInput{
		ID:             req.ID,
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
		TrackingURL:    req.TrackingURL,
	})
	if err != nil {
		respondWithRules(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_order_status_updated",
		"order_id", order.ID,
		"status", order.Status,
		"admin", currentAdminEmail(c),
	)
	response.Success(c, order)
}
