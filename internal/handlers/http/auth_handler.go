package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
	"github.com/tessyjonburica/Droppio/internal/core/services"
	"github.com/tessyjonburica/Droppio/pkg/errors"
	"github.com/tessyjonburica/Droppio/pkg/validation"
)

// AuthHandler implements wallet login. A client proves wallet ownership
// by signing a server-issued style message; a matching signature yields
// a session token, creating the account on first login.
type AuthHandler struct {
	authService services.AuthService
	users       ports.UserRepository
}

func NewAuthHandler(authService services.AuthService, users ports.UserRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		users:       users,
	}
}

func (h *AuthHandler) SetupRoutes(router gin.IRouter) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/login", h.Login)
	}
}

type LoginRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required,max=42"`
	Message       string `json:"message" binding:"required,max=512"`
	Signature     string `json:"signature" binding:"required,max=256"`
	DisplayName   string `json:"displayName" binding:"max=100"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID            string `json:"id"`
		WalletAddress string `json:"walletAddress"`
		DisplayName   string `json:"displayName"`
		Role          string `json:"role"`
	} `json:"user"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	wallet := validation.NormalizeWalletAddress(req.WalletAddress)
	if err := validation.ValidateWalletAddress(wallet); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	ok, err := h.authService.VerifySignature(req.Message, req.Signature, wallet)
	if err != nil || !ok {
		c.Error(errors.NewInvalidCredentialError())
		return
	}

	user, err := h.users.FindByWallet(c.Request.Context(), wallet)
	if err == domain.ErrUserNotFound {
		user = &domain.User{
			ID:            domain.UserID(uuid.NewString()),
			WalletAddress: wallet,
			Role:          domain.RoleCreator,
			DisplayName:   displayNameOrWallet(req.DisplayName, wallet),
			CreatedAt:     time.Now(),
		}
		if err := h.users.Create(c.Request.Context(), user); err != nil {
			c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to create user"))
			return
		}
	} else if err != nil {
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to load user"))
		return
	}

	token, err := h.authService.GenerateToken(user.ID, user.WalletAddress)
	if err != nil {
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "failed to issue token"))
		return
	}

	var resp LoginResponse
	resp.Token = token
	resp.User.ID = string(user.ID)
	resp.User.WalletAddress = user.WalletAddress
	resp.User.DisplayName = user.DisplayName
	resp.User.Role = string(user.Role)
	c.JSON(http.StatusOK, resp)
}

func displayNameOrWallet(displayName, wallet string) string {
	displayName = strings.TrimSpace(displayName)
	if displayName != "" {
		return displayName
	}
	// 0x1234...abcd
	return wallet[:6] + "..." + wallet[len(wallet)-4:]
}
