package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fleetdesk/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const requestContextKey = "request_context"

// Claims is the token payload issued by the console's auth service.
type Claims struct {
	UserID    int64  `json:"user_id"`
	DriverID  int64  `json:"driver_id"`
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth verifies the bearer token and stores the caller's identity as
// a domain.RequestContext.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "missing or invalid Authorization header",
				"request_id": GetRequestID(c),
			})
			return
		}

		claims, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "invalid or expired token",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Set(requestContextKey, domain.RequestContext{
			UserID:    domain.ID(claims.UserID),
			DriverID:  domain.ID(claims.DriverID),
			CompanyID: domain.ID(claims.CompanyID),
			Role:      strings.ToLower(strings.TrimSpace(claims.Role)),
			RequestID: GetRequestID(c),
		})
		c.Next()
	}
}

// ParseToken validates an HS256 token.
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token not valid")
	}
	return claims, nil
}

// SignToken issues a token; used by tests and local tooling.
func SignToken(claims Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// GetRequestContext returns the caller identity set by RequireAuth.
func GetRequestContext(c *gin.Context) domain.RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(domain.RequestContext); ok {
			return rc
		}
	}
	return domain.RequestContext{RequestID: GetRequestID(c)}
}
