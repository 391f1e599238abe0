package shared

import (
	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SessionUserID 读取会话中间件写入的用户 ID；游客或类型异常时返回 false。
func SessionUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// RequireSessionUserID 读取用户 ID，缺失时直接返回 401。
func RequireSessionUserID(c *gin.Context) (uint, bool) {
	id, ok := SessionUserID(c)
	if !ok {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	return id, true
}
