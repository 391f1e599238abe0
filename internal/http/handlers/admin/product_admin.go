package admin

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	handlershared "github.com/indra-store/internal/http/handlers/shared"
	"github.com/indra-store/internal/http/response"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/repository"
	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var productErrorRules = []adminErrorRule{
	{target: service.ErrProductFieldsMissing, code: response.CodeBadRequest, key: "error.product_fields_missing"},
	{target: service.ErrProductPriceInvalid, code: response.CodeBadRequest, key: "error.product_price_invalid"},
	{target: service.ErrCategoryInvalid, code: response.CodeBadRequest, key: "error.category_invalid"},
	{target: service.ErrUploadInvalid, code: response.CodeBadRequest, key: "error.upload_invalid"},
	{target: service.ErrInventoryInvalid, code: response.CodeBadRequest, key: "error.inventory_invalid"},
	{target: service.ErrProductIDRequired, code: response.CodeBadRequest, key: "error.product_id_required"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductSlugExists, code: response.CodeConflict, key: "error.product_slug_exists"},
	{target: service.ErrProductInUse, code: response.CodeConflict, key: "error.product_in_use"},
}

var errProductFormInvalid = errors.New("product form invalid")

// ListProducts 后台商品列表（含分类、图片、库存）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPage(c)
	filter := repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		filter.CategoryID = uint(categoryID)
	}
	products, total, err := h.ProductAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// CreateProduct 创建商品（multipart 表单）
func (h *Handler) CreateProduct(c *gin.Context) {
	input, err := bindProductForm(c)
	if err != nil {
		respondProductFormError(c, err)
		return
	}
	product, err := h.ProductAdminService.Create(c.Request.Context(), input)
	if err != nil {
		respondWithRules(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_product_create_done", "product_id", product.ID, "admin", currentAdminEmail(c))
	response.Created(c, product)
}

// UpdateProduct 更新商品，ID 可来自路径或表单字段 id
func (h *Handler) UpdateProduct(c *gin.Context) {
	input, err := bindProductForm(c)
	if err != nil {
		respondProductFormError(c, err)
		return
	}
	if c.Param("id") != "" {
		id, ok := handlershared.ParseUintParam(c, "id")
		if !ok {
			respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
			return
		}
		input.ID = id
	} else {
		id, err := strconv.ParseUint(strings.TrimSpace(c.PostForm("id")), 10, 64)
		if err != nil || id == 0 {
			respondError(c, response.CodeBadRequest, "error.product_fields_missing", nil)
			return
		}
		input.ID = uint(id)
	}
	product, err := h.ProductAdminService.Update(c.Request.Context(), input)
	if err != nil {
		respondWithRules(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（?id=）
func (h *Handler) DeleteProduct(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("id"))
	if raw == "" {
		respondError(c, response.CodeBadRequest, "error.product_id_required", nil)
		return
	}
	id, ok := handlershared.ParseUintQuery(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	if err := h.ProductAdminService.Delete(c.Request.Context(), id); err != nil {
		respondWithRules(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_product_delete_done", "product_id", id, "admin", currentAdminEmail(c))
	response.Success(c, gin.H{"deleted": true})
}

// UpdateProductInventory 更新库存
func (h *Handler) UpdateProductInventory(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	var req service.InventoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductAdminService.UpdateInventory(c.Request.Context(), id, req)
	if err != nil {
		respondWithRules(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// bindProductForm 解析商品 multipart 表单
func bindProductForm(c *gin.Context) (service.ProductInput, error) {
	input := service.ProductInput{
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
		CategorySlug: c.PostForm("categorySlug"),
	}
	if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return input, service.ErrProductPriceInvalid
		}
		input.Price = models.NewMoneyFromDecimal(price)
	}
	if raw := strings.TrimSpace(c.PostForm("isActive")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return input, errProductFormInvalid
		}
		input.IsActive = &active
	}
	file, err := c.FormFile("image")
	switch {
	case err == nil:
		input.Image = file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case errors.Is(err, multipart.ErrMessageTooLarge):
		return input, service.ErrUploadInvalid
	default:
		return input, errProductFormInvalid
	}
	return input, nil
}

func respondProductFormError(c *gin.Context, err error) {
	if errors.Is(err, errProductFormInvalid) {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	respondWithRules(c, err, productErrorRules, response.CodeBadRequest, "error.bad_request")
}
