package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gochat/pkg/auth"
	"gochat/pkg/logger"
)

// TokenCookie 浏览器端携带身份token的cookie名
const TokenCookie = "token"

// AuthMiddleware 认证中间件
type AuthMiddleware struct {
	authn *auth.Authenticator
	log   logger.Logger
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authn *auth.Authenticator, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authn: authn,
		log:   log,
	}
}

// GinAuth Gin认证中间件，校验通过后把用户身份写入上下文
func (am *AuthMiddleware) GinAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			am.log.Warn(c.Request.Context(), "Missing authorization token",
				logger.F("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		claims, err := am.authn.Verify(token)
		if err != nil {
			am.log.Warn(c.Request.Context(), "Invalid token",
				logger.F("error", err.Error()),
				logger.F("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// ExtractToken 取出请求携带的token：cookie优先，
// 其次Authorization头（支持Bearer前缀）。
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
