package security

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/wangxiaochuang/05-chat/internal/domain"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, ttl time.Duration) *JWTSigner {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return NewJWTSigner(key, &key.PublicKey, "chat-server", "chat", ttl, 30*time.Second)
}

func TestJWTSigner_SignAndParse(t *testing.T) {
	s := newTestSigner(t, 15*time.Minute)

	token, err := s.Sign(42, 7, time.Now())
	require.NoError(t, err)

	id, err := s.ParseAndValidate(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), id.UserID)
	require.Equal(t, int64(7), id.WsID)
}

func TestJWTSigner_Expired(t *testing.T) {
	s := newTestSigner(t, time.Minute)

	token, err := s.Sign(1, 1, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = s.ParseAndValidate(token)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestJWTSigner_WrongKey(t *testing.T) {
	a := newTestSigner(t, time.Minute)
	b := newTestSigner(t, time.Minute)

	token, err := a.Sign(1, 1, time.Now())
	require.NoError(t, err)

	_, err = b.ParseAndValidate(token)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestJWTSigner_Garbage(t *testing.T) {
	s := newTestSigner(t, time.Minute)

	_, err := s.ParseAndValidate("not.a.token")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Hunter42", nil)
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, "Hunter42"))
	require.Error(t, ComparePassword(hash, "hunter42"))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("abc", nil)
	require.ErrorIs(t, err, ErrPasswordTooShort)
}
