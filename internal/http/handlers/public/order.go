package public

import (
	"strings"

	"github.com/indra-store/internal/constants"
	handlershared "github.com/indra-store/internal/http/handlers/shared"
	"github.com/indra-store/internal/http/response"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderItemRequest 下单条目（购物车快照）
// 商品引用取 productId，缺省时取购物车条目的 id。
type CreateOrderItemRequest struct {
	ProductID *uint        `json:"productId"`
	CartID    *uint        `json:"id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Qty       int          `json:"qty"`
	Image     string       `json:"image"`
}

func (r CreateOrderItemRequest) productRef() *uint {
	if r.ProductID != nil {
		return r.ProductID
	}
	return r.CartID
}

// CreateOrderRequest 下单请求
// items 为空时使用购物车令牌（X-Cart-Token 优先，其次 cartToken 字段）对应的服务端购物车。
type CreateOrderRequest struct {
	CustomerEmail string                              `json:"customerEmail"`
	CustomerName  string                              `json:"customerName"`
	Address       string                              `json:"address"`
	Apartment     string                              `json:"apartment"`
	City          string                              `json:"city"`
	PostalCode    string                              `json:"postalCode"`
	Phone         string                              `json:"phone"`
	Notes         string                              `json:"notes"`
	Items         []CreateOrderItemRequest            `json:"items"`
	CartToken     string                              `json:"cartToken"`
	handlershared.CaptchaPayloadRequest
}

func (r CreateOrderRequest) toServiceInput(userID uint, cartToken string) service.CreateOrderInput {
	items := make([]service.CreateOrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.productRef(),
			Name:      item.Name,
			Price:     item.Price,
			Qty:       item.Qty,
			Image:     item.Image,
		})
	}
	return service.CreateOrderInput{
		UserID:        userID,
		CustomerEmail: r.CustomerEmail,
		CustomerName:  r.CustomerName,
		Address:       r.Address,
		Apartment:     r.Apartment,
		City:          r.City,
		PostalCode:    r.PostalCode,
		Phone:         r.Phone,
		Notes:         r.Notes,
		Items:         items,
		CartToken:     cartToken,
		Captcha:       r.CaptchaPayloadRequest.ToServicePayload(),
	}
}

// CreateOrder 创建订单（游客或已登录用户）
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cartToken := strings.TrimSpace(c.GetHeader(constants.HeaderCartToken))
	if cartToken == "" {
		cartToken = strings.TrimSpace(req.CartToken)
	}
	userID := optionalUserID(c)

	order, err := h.OrderService.CreateOrder(c.Request.Context(), req.toServiceInput(userID, cartToken))
	if err != nil {
		respondWithMappedError(c, err, createOrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("order_created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", userID,
		"item_count", len(order.Items),
	)
	response.Created(c, order)
}

// TrackOrder 按订单号与邮箱查询订单
func (h *Handler) TrackOrder(c *gin.Context) {
	orderNumber := strings.TrimSpace(c.Param("order_number"))
	email := strings.TrimSpace(c.Query("email"))
	if orderNumber == "" || email == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.TrackOrder(orderNumber, email)
	if err != nil {
		respondWithMappedError(c, err, trackOrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// ListMyOrders 当前用户的订单
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPage(c)
	orders, total, err := h.OrderService.ListUserOrders(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}
