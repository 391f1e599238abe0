package public

import (
	handlershared "github.com/indra-store/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.RequireSessionUserID(c)
}

// optionalUserID 读取可选会话中的用户 ID，游客返回 0
func optionalUserID(c *gin.Context) uint {
	id, _ := handlershared.SessionUserID(c)
	return id
}
