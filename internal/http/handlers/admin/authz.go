package admin

import (
	"net/url"
	"strings"

	"github.com/indra-store/internal/authz"
	"github.com/indra-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PermissionItem 后台接口权限条目
type PermissionItem struct {
	Module string `json:"module"`
	Object string `json:"object"`
	Action string `json:"action"`
}

// GetAuthzMe 当前管理员权限快照
func (h *Handler) GetAuthzMe(c *gin.Context) {
	email := currentAdminEmail(c)
	roles, err := h.AuthzService.GetUserRoles(email)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	policies := make([]authz.Policy, 0)
	for _, role := range roles {
		rolePolicies, err := h.AuthzService.GetRolePolicies(role)
		if err != nil {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		policies = append(policies, rolePolicies...)
	}
	response.Success(c, gin.H{
		"email":    email,
		"roles":    roles,
		"policies": policies,
	})
}

// ListAuthzRoles 角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 角色策略列表
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}

// ListAuthzAdmins 管理员白名单
func (h *Handler) ListAuthzAdmins(c *gin.Context) {
	response.Success(c, h.AdminGate.Emails())
}

// ListPermissions 后台接口权限目录
func (h *Handler) ListPermissions(c *gin.Context) {
	response.Success(c, h.permissionCatalog())
}

func decodeRoleParam(value string) string {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}
