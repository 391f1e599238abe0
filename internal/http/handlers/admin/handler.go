package admin

import (
	"sync"

	"github.com/indra-store/internal/provider"
)

// Handler 后台接口处理器，所有路由都挂在会话 + 白名单网关之后
type Handler struct {
	*provider.Container

	mu          sync.RWMutex
	permissions []PermissionItem
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// SetPermissionCatalog 路由注册完成后写入后台接口目录
func (h *Handler) SetPermissionCatalog(items []PermissionItem) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.permissions = append([]PermissionItem(nil), items...)
}

func (h *Handler) permissionCatalog() []PermissionItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.permissions == nil {
		return []PermissionItem{}
	}
	return h.permissions
}
