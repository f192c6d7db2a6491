package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")

	token, err := GenerateToken("session-123", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "session-123", claims.SessionID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("session-123", []byte("secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other"))
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("session-123", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret"))
	require.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", []byte("secret"))
	require.Error(t, err)
}
