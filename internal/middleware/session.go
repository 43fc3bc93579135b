package middleware

import (
	"net/http"
	"strings"

	"mockview_backend/internal/config"
	"mockview_backend/internal/util"
	"mockview_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionMiddleware 必须携带有效会话令牌
func SessionMiddleware(cfg *config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c, cfg.CookieName)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseSessionToken(tokenString, cfg.Secret)
		if err != nil {
			logger.Log.Debug("Rejected session token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetSessionID(c, claims.SessionID)
		c.Next()
	}
}

// TrySessionMiddleware 尝试解析会话令牌，无效时按未开始会话处理
func TrySessionMiddleware(cfg *config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c, cfg.CookieName); tokenString != "" {
			if claims, err := util.ParseSessionToken(tokenString, cfg.Secret); err == nil {
				util.SetSessionID(c, claims.SessionID)
			}
		}
		c.Next()
	}
}

// IssueSessionToken 签发会话令牌并写入 HttpOnly Cookie
func IssueSessionToken(c *gin.Context, cfg *config.SessionConfig, sessionID string) (string, error) {
	token, err := util.GenerateSessionToken(sessionID, cfg.Secret, cfg.TTL)
	if err != nil {
		return "", err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, token, int(cfg.TTL.Seconds()), "/", "", cfg.SecureCookie, true)
	util.SetSessionID(c, sessionID)
	return token, nil
}

// tokenFromRequest Authorization 头优先，其次 Cookie
func tokenFromRequest(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}
