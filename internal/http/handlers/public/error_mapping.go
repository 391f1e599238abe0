package public

import (
	"errors"

	"github.com/indra-store/internal/cart"
	"github.com/indra-store/internal/http/response"
	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			var cause error
			if rule.code >= response.CodeInternal {
				cause = err
			}
			respondError(c, rule.code, rule.key, cause)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartErrorRules = []mappedHandlerError{
	{target: cart.ErrTokenInvalid, code: response.CodeBadRequest, key: "error.cart_token_invalid"},
	{target: cart.ErrItemInvalid, code: response.CodeBadRequest, key: "error.order_item_invalid"},
	{target: cart.ErrItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, key: "error.product_unavailable"},
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
}

var createOrderErrorRules = concatMappedHandlerErrors(
	[]mappedHandlerError{
		{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
		{target: service.ErrCustomerEmailRequired, code: response.CodeBadRequest, key: "error.customer_email_required"},
		{target: service.ErrAddressRequired, code: response.CodeBadRequest, key: "error.address_required"},
		{target: service.ErrCityRequired, code: response.CodeBadRequest, key: "error.city_required"},
		{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
		{target: service.ErrOrderItemInvalid, code: response.CodeBadRequest, key: "error.order_item_invalid"},
		{target: service.ErrOrderNumberExhausted, code: response.CodeInternal, key: "error.order_number_exhausted"},
	},
	captchaErrorRules,
	[]mappedHandlerError{
		{target: cart.ErrTokenInvalid, code: response.CodeBadRequest, key: "error.cart_token_invalid"},
	},
)

var trackOrderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_taken"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
	{target: service.ErrJWTSecretMissing, code: response.CodeInternal, key: "error.jwt_secret_missing"},
}
