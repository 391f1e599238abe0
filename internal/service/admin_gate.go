package service

import (
	"strings"

	"github.com/indra-store/internal/authz"
	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/logger"
)

// AdminGate 管理员白名单校验
// 白名单为空时拒绝所有人；命中白名单后再按 casbin 路由策略判定。
type AdminGate struct {
	emails map[string]struct{}
	authz  *authz.Service
}

// NewAdminGate 创建管理员校验器
func NewAdminGate(emails []string, authzService *authz.Service) *AdminGate {
	normalized := config.NormalizeEmailList(emails)
	set := make(map[string]struct{}, len(normalized))
	for _, email := range normalized {
		set[email] = struct{}{}
	}
	return &AdminGate{emails: set, authz: authzService}
}

// Enabled 白名单是否非空
func (g *AdminGate) Enabled() bool {
	return g != nil && len(g.emails) > 0
}

// IsAdmin 邮箱是否在白名单中
func (g *AdminGate) IsAdmin(email string) bool {
	if !g.Enabled() {
		return false
	}
	_, ok := g.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Authorize 判定邮箱对指定路由的访问权限
func (g *AdminGate) Authorize(email, path, method string) (bool, error) {
	if !g.IsAdmin(email) {
		return false, nil
	}
	if g.authz == nil {
		return true, nil
	}
	allowed, err := g.authz.EnforceUser(email, path, method)
	if err != nil {
		return false, err
	}
	if !allowed {
		logger.Warnw("admin_gate_policy_denied", "path", path, "method", method)
	}
	return allowed, nil
}

// Emails 白名单邮箱
func (g *AdminGate) Emails() []string {
	if g == nil {
		return nil
	}
	emails := make([]string, 0, len(g.emails))
	for email := range g.emails {
		emails = append(emails, email)
	}
	return emails
}
