package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/middleware"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/services/auth"
)

// LoginService verifies credentials and mints a token.
type LoginService interface {
	Login(ctx context.Context, username, password string) (*auth.LoginResponse, error)
}

type AuthHandler struct {
	service LoginService
	log     zerolog.Logger
}

func NewAuthHandler(service LoginService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload"})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
	case errors.Is(err, auth.ErrInactiveAccount):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Account is inactive"})
	case err != nil:
		middleware.RespondError(c, h.log, err)
	default:
		c.JSON(http.StatusOK, resp)
	}
}
