package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nhollis/docchat/internal/middleware"
	"github.com/nhollis/docchat/internal/pkg/errcode"
	appErr "github.com/nhollis/docchat/internal/pkg/errors"
	"github.com/nhollis/docchat/internal/pkg/response"
	"github.com/nhollis/docchat/internal/service"
)

func getSessionID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextSessionIDKey)
	sessionID, _ := value.(string)
	return sessionID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrSessionGone):
		response.Error(c, errcode.ErrSessionExpired, "session expired")
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, service.ErrAIUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai not configured")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
