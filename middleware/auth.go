package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/feedbackhq/feedback-collector/config"
	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/logger"
	"github.com/feedbackhq/feedback-collector/store"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued at login and verified here.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the given user.
func IssueToken(cfg *config.JWTConfig, user *types.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpiryHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SecretKey))
}

// parseToken verifies the signature and expiry and returns the claims.
func parseToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("token missing required claims")
	}
	return claims, nil
}

// AdminAuthMiddleware extracts the Bearer credential, verifies it, loads the
// referenced user, and requires the admin role. On success the resolved
// identity is attached to the request context for the ownership-scoped
// queries downstream.
func AdminAuthMiddleware(cfg *config.JWTConfig, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			_ = c.Error(apperrors.Unauthorized("authorization_required", "Authorization required"))
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := parseToken(cfg, tokenString)
		if err != nil {
			log.Warnw("Invalid JWT token",
				"error", err,
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())

			if strings.Contains(err.Error(), "token is expired") {
				_ = c.Error(apperrors.Unauthorized("token_expired", "Your session has expired"))
			} else {
				_ = c.Error(apperrors.Unauthorized("token_invalid", "Invalid authentication token"))
			}
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.Subject)
		if err != nil {
			log.Warnw("Token references unknown user", "userId", claims.Subject)
			_ = c.Error(apperrors.Unauthorized("user_not_found", "Invalid authentication token"))
			c.Abort()
			return
		}
		if user.Role != types.RoleAdmin {
			log.Warnw("Non-admin user on admin endpoint", "userId", user.ID, "role", user.Role)
			_ = c.Error(apperrors.Unauthorized("admin_required", "Admin access required"))
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), user.ID)
		c.Set(string(UserRoleKey), user.Role)
		c.Next()
	}
}
