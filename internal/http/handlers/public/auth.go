package public

import (
	"errors"

	"github.com/indra-store/internal/http/response"
	"github.com/indra-store/internal/i18n"
	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
)

// Register 注册并签发会话
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.AuthService.Register(req)
	if err != nil {
		if respondPasswordPolicyError(c, err) {
			return
		}
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("user_registered", "user_id", session.User.ID)
	response.Created(c, session)
}

// Login 邮箱密码登录
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.AuthService.Login(req)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, session)
}

// GetMe 当前登录用户
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"user":     user,
		"is_admin": h.AdminGate.IsAdmin(user.Email),
	})
}

func respondPasswordPolicyError(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrPasswordTooShort) {
		return false
	}
	if perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	}); ok {
		locale := i18n.ResolveLocale(c)
		respondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, perr.Key(), perr.Args()...), nil)
		return true
	}
	respondError(c, response.CodeBadRequest, "error.password_too_short", nil)
	return true
}
