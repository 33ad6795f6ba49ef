package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ParseToken validates a dashboard session token and resolves the
// caller's identity, tenant and role from its claims.
func ParseToken(tokenStr string, secret string) (*AuthContext, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	ctx := &AuthContext{}
	if v, ok := claims["sub"].(string); ok {
		ctx.UserID = v
	}
	if v, ok := claims["username"].(string); ok {
		ctx.Username = v
	}
	if v, ok := claims["tenantId"].(string); ok {
		ctx.TenantID = v
	}
	if v, ok := claims["role"].(string); ok {
		ctx.Role = v
	}
	if ctx.UserID == "" {
		return nil, errors.New("invalid token")
	}

	return ctx, nil
}
