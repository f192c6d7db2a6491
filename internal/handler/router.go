package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhollis/docchat/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Chat      *ChatHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/login", middleware.RateLimit(time.Second), deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/auth/logout", deps.Auth.Logout)
	authGroup.POST("/chat/ask", deps.Chat.Ask)
	authGroup.POST("/chat/reset", deps.Chat.Reset)
	authGroup.GET("/chat/history", deps.Chat.History)
	authGroup.GET("/chat/export", deps.Chat.Export)
}
