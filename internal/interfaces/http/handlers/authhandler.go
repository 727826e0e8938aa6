package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/application/telegram"
	"github.com/pedalworks/repairbay/internal/application/user"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
)

// AuthHandler implements C1's /auth/* surface (spec.md §4.1, §6): password
// login for operator roles and Telegram Mini App initData verification for
// the bot-facing mini app, both minting the same JWT access/refresh pair.
type AuthHandler struct {
	authService  *user.AuthService
	telegramLoginUC *telegram.LoginUseCase
}

func NewAuthHandler(authService *user.AuthService, telegramLoginUC *telegram.LoginUseCase) *AuthHandler {
	return &AuthHandler{authService: authService, telegramLoginUC: telegramLoginUC}
}

type loginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	result, err := h.authService.Login(c.Request.Context(), user.LoginCommand{Phone: req.Phone, Password: req.Password})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// Verify handles GET /auth/verify, a lightweight whoami for a client
// holding a bearer token — resolves the caller already set by
// middleware.AuthMiddleware.RequireAuth.
func (h *AuthHandler) Verify(c *gin.Context) {
	caller, ok := requireAuthenticated(c)
	if !ok {
		return
	}
	httpresponse.OK(c, gin.H{
		"user_sid": caller.SID(), "phone": caller.Phone(), "roles": caller.ActiveRoleSet().Slugs(),
	})
}

type telegramVerifyRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

// TelegramVerify handles POST /auth/telegram/verify: the Mini App's
// initData handshake (spec.md §4.8). Returns user_exists:false with no
// tokens when the Telegram identity has no linked account yet, so the
// client can route to the access-request flow instead of treating it as
// an auth failure.
func (h *AuthHandler) TelegramVerify(c *gin.Context) {
	var req telegramVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	result, err := h.telegramLoginUC.Execute(c.Request.Context(), req.InitData)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}
