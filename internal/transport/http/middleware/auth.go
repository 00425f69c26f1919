package httpmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/wangxiaochuang/05-chat/internal/security"
	"github.com/wangxiaochuang/05-chat/pkg/httputil"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// TokenVerifier проверяет access-токен и возвращает личность запроса.
type TokenVerifier interface {
	Verify(token string) (*security.Identity, error)
}

// Auth требует Bearer-токен; личность кладётся в контекст запроса.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || len(auth) <= 7 {
				httputil.Error(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			id, err := verifier.Verify(strings.TrimSpace(auth[7:]))
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromCtx возвращает nil вне авторизованного контекста.
func IdentityFromCtx(ctx context.Context) *security.Identity {
	if v, ok := ctx.Value(ctxKeyIdentity).(*security.Identity); ok {
		return v
	}
	return nil
}
