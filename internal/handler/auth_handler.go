package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nhollis/docchat/internal/pkg/errcode"
	"github.com/nhollis/docchat/internal/pkg/response"
	"github.com/nhollis/docchat/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Password == "" {
		response.Error(c, errcode.ErrInvalid, "password required")
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(getSessionID(c))
	response.Success(c, gin.H{"ok": true})
}
