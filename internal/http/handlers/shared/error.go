package shared

import (
	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/http/response"
	"github.com/indra-store/internal/i18n"
	"github.com/indra-store/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 带 request_id、方法与路由的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	kv := []interface{}{"route", c.FullPath()}
	if c.Request != nil {
		kv = append(kv, "method", c.Request.Method)
	}
	if id := c.GetString(constants.ContextKeyRequestID); id != "" {
		kv = append(kv, "request_id", id)
	}
	return logger.SW(kv...)
}

// RespondError 按 i18n key 返回错误响应。
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	Respond(c, response.NewAppError(code, key, msg, err))
}

// RespondErrorWithMsg 返回已格式化消息的错误响应。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	Respond(c, response.NewAppError(code, "", msg, err))
}

// Respond 写出错误响应；5xx 记 error，携带原因的 4xx 记 warn
func Respond(c *gin.Context, appErr *response.AppError) {
	switch {
	case appErr.ServerSide():
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"key", appErr.Key,
			"error", appErr.Err,
		)
	case appErr.Err != nil:
		RequestLog(c).Warnw("handler_rejected",
			"code", appErr.Code,
			"key", appErr.Key,
			"error", appErr.Err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}
