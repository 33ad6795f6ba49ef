package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

type AuthContext struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	TenantID string `json:"tenantId"`
	Role     string `json:"role"`
}

func (c AuthContext) IsAdmin() bool {
	return c.Role == "admin"
}

func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "unauthorized", 401)
				return
			}

			t := strings.TrimPrefix(h, "Bearer ")
			authCtx, err := ParseToken(t, secret)
			if err != nil {
				http.Error(w, "unauthorized", 401)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, *authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) AuthContext {
	return ctx.Value(userKey).(AuthContext)
}
