package public

import (
	"errors"
	"strings"

	handlershared "github.com/indra-store/internal/http/handlers/shared"
	"github.com/indra-store/internal/http/response"
	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCategories 获取分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// ListCategoryProducts 获取分类下的上架商品
// new-arrivals 为跨分类的最新商品。
func (h *Handler) ListCategoryProducts(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	result, err := h.CatalogService.ListCategoryProducts(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "error.category_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"category": result.Category,
		"products": result.Products,
		"currency": h.Config.Order.Currency,
	})
}

// ListProducts 分页获取上架商品
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPage(c)
	result, err := h.CatalogService.ListProducts(c.Request.Context(), service.ProductListInput{
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "error.category_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, result.Items, response.BuildPagination(page, pageSize, result.Total))
}

// FeaturedProducts 首页推荐商品
func (h *Handler) FeaturedProducts(c *gin.Context) {
	products, err := h.CatalogService.FeaturedProducts(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	product, err := h.CatalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, product)
}
