package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/nhollis/docchat/internal/pkg/errors"
	"github.com/nhollis/docchat/internal/pkg/jwt"
	"github.com/nhollis/docchat/internal/pkg/password"
	"github.com/nhollis/docchat/internal/session"
)

// AuthService gates access behind a single shared password. A successful
// login registers a fresh session and hands back a token bound to it.
type AuthService struct {
	passwordHash string
	sessions     *session.Store
	jwtSecret    []byte
	jwtTTL       time.Duration
}

func NewAuthService(passwordHash string, sessions *session.Store, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
		sessions:     sessions,
		jwtSecret:    secret,
		jwtTTL:       ttl,
	}
}

func (s *AuthService) Login(ctx context.Context, plainPassword string) (string, error) {
	if err := password.Compare(s.passwordHash, plainPassword); err != nil {
		logutil.GetLogger(ctx).Warn("login rejected", zap.Error(err))
		return "", appErr.ErrUnauthorized
	}
	sessionID := s.sessions.Create()
	token, err := jwt.GenerateToken(sessionID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", err
	}
	logutil.GetLogger(ctx).Info("session started", zap.String("session_id", sessionID))
	return token, nil
}

func (s *AuthService) Logout(sessionID string) {
	s.sessions.Delete(sessionID)
}
