package public

import (
	"context"
	"strings"

	"github.com/indra-store/internal/cart"
	"github.com/indra-store/internal/constants"
	handlershared "github.com/indra-store/internal/http/handlers/shared"
	"github.com/indra-store/internal/http/response"
	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
)

// resolveCartToken 读取购物车令牌，缺失时签发新令牌并回写到响应头
func resolveCartToken(c *gin.Context) string {
	token := strings.TrimSpace(c.GetHeader(constants.HeaderCartToken))
	if token == "" {
		token = cart.NewToken()
	}
	c.Header(constants.HeaderCartToken, token)
	return token
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	token := resolveCartToken(c)
	summary, err := h.CartService.Get(c.Request.Context(), token)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, summary)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req service.AddCartItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	token := resolveCartToken(c)
	summary, err := h.CartService.AddItem(c.Request.Context(), token, req)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, summary)
}

// IncrementCartItem 数量加一
func (h *Handler) IncrementCartItem(c *gin.Context) {
	h.mutateCartItem(c, h.CartService.Increment)
}

// DecrementCartItem 数量减一，最低为 1
func (h *Handler) DecrementCartItem(c *gin.Context) {
	h.mutateCartItem(c, h.CartService.Decrement)
}

// RemoveCartItem 移除条目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	h.mutateCartItem(c, h.CartService.Remove)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	token := resolveCartToken(c)
	if err := h.CartService.Clear(c.Request.Context(), token); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, cart.Summarize(nil))
}

type cartItemMutation func(ctx context.Context, token string, productID uint) (cart.Summary, error)

func (h *Handler) mutateCartItem(c *gin.Context, mutate cartItemMutation) {
	productID, ok := handlershared.ParseUintParam(c, "product_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	token := resolveCartToken(c)
	summary, err := mutate(c.Request.Context(), token, productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, summary)
}
