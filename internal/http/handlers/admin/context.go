package admin

import (
	"strings"

	"github.com/indra-store/internal/constants"

	"github.com/gin-gonic/gin"
)

// currentAdminEmail 当前管理员邮箱（由鉴权中间件写入）
func currentAdminEmail(c *gin.Context) string {
	value, exists := c.Get(constants.ContextKeyUserEmail)
	if !exists {
		return ""
	}
	email, _ := value.(string)
	return strings.TrimSpace(email)
}
