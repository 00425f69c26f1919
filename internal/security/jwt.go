package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/wangxiaochuang/05-chat/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Identity — проверенная личность из bearer-токена.
type Identity struct {
	UserID int64
	WsID   int64
}

type AccessClaims struct {
	jwt.RegisteredClaims
	WsID int64 `json:"ws_id"`
}

// Используется SigningMethodRS256
type JWTSigner struct {
	private   *rsa.PrivateKey
	public    *rsa.PublicKey
	issuer    string
	audience  string
	ttl       time.Duration
	clockSkew time.Duration
}

func NewJWTSigner(private *rsa.PrivateKey, public *rsa.PublicKey, issuer, audience string, ttl, clockSkew time.Duration) *JWTSigner {
	return &JWTSigner{
		private:   private,
		public:    public,
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		clockSkew: clockSkew,
	}
}

func (s *JWTSigner) TTL() time.Duration {
	return s.ttl
}

// Sign выпускает JWT с sub=userID, ws_id=wsID и exp=now+ttl.
func (s *JWTSigner) Sign(userID, wsID int64, now time.Time) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-s.clockSkew)),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		WsID: wsID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	return token.SignedString(s.private)
}

// ParseAndValidate проверяет подпись, issuer, audience и временные клеймы
// (с допуском clockSkew) и возвращает личность владельца токена.
func (s *JWTSigner) ParseAndValidate(tokenStr string) (*Identity, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(t *jwt.Token) (any, error) { return s.public, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithLeeway(s.clockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrInvalidCredentials)
	}

	return &Identity{UserID: userID, WsID: claims.WsID}, nil
}

func LoadRSAPrivateKeyFromPEM(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", path)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pk, ok := k.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not RSA private key")
	}

	return pk, nil
}

func LoadRSAPublicKeyFromPEM(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return jwt.ParseRSAPublicKeyFromPEM(b)
}
