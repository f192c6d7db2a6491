package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/nhollis/docchat/internal/pkg/errors"
	"github.com/nhollis/docchat/internal/pkg/jwt"
	"github.com/nhollis/docchat/internal/pkg/password"
	"github.com/nhollis/docchat/internal/session"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := password.Hash("open sesame")
	require.NoError(t, err)

	secret := []byte("test-secret")
	sessions := session.NewStore(time.Hour)
	svc := NewAuthService(hash, sessions, secret, time.Hour)

	token, err := svc.Login(context.Background(), "open sesame")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.ParseToken(token, secret)
	require.NoError(t, err)

	// The token is bound to a live session.
	_, err = sessions.Get(claims.SessionID)
	require.NoError(t, err)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	hash, err := password.Hash("open sesame")
	require.NoError(t, err)

	sessions := session.NewStore(time.Hour)
	svc := NewAuthService(hash, sessions, []byte("test-secret"), time.Hour)

	_, err = svc.Login(context.Background(), "wrong")
	require.ErrorIs(t, err, appErr.ErrUnauthorized)
	require.Equal(t, 0, sessions.Len())
}

func TestAuthService_Logout(t *testing.T) {
	hash, err := password.Hash("pw")
	require.NoError(t, err)

	secret := []byte("test-secret")
	sessions := session.NewStore(time.Hour)
	svc := NewAuthService(hash, sessions, secret, time.Hour)

	token, err := svc.Login(context.Background(), "pw")
	require.NoError(t, err)
	claims, err := jwt.ParseToken(token, secret)
	require.NoError(t, err)

	svc.Logout(claims.SessionID)

	_, err = sessions.Get(claims.SessionID)
	require.ErrorIs(t, err, appErr.ErrSessionGone)
}
