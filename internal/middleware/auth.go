package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"viewing-scheduler-server/internal/config"
	"viewing-scheduler-server/internal/utils"
)

// AuthMiddleware guards the API with a bearer JWT from the dashboard's auth
// service or HTTP Basic credentials for the admin account. With no auth
// configured every request passes.
func AuthMiddleware(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if cfg.AdminPasswordHash != "" {
				c.Header("WWW-Authenticate", `Basic realm="viewing-scheduler"`)
			}
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		scheme, _, _ := strings.Cut(authHeader, " ")
		switch strings.ToLower(scheme) {
		case "bearer":
			bearer(c, cfg, authHeader)
		case "basic":
			basic(c, cfg)
		default:
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
		}
	}
}

func bearer(c *gin.Context, cfg config.AuthConfig, authHeader string) {
	if cfg.JWTSecret == "" {
		utils.Unauthorized(c, "Bearer tokens are not accepted")
		c.Abort()
		return
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		utils.Unauthorized(c, "Invalid authorization header format")
		c.Abort()
		return
	}

	claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid token: "+err.Error())
		c.Abort()
		return
	}

	// Set user information in context for downstream handlers
	c.Set("userID", claims.UserID)
	c.Set("userRole", claims.Role)
	c.Next()
}

func basic(c *gin.Context, cfg config.AuthConfig) {
	user, password, ok := c.Request.BasicAuth()
	if !ok || cfg.AdminPasswordHash == "" {
		utils.Unauthorized(c, "Invalid credentials")
		c.Abort()
		return
	}
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.AdminUser)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(password))
	if !userMatch || passErr != nil {
		c.Header("WWW-Authenticate", `Basic realm="viewing-scheduler"`)
		utils.Unauthorized(c, "Invalid credentials")
		c.Abort()
		return
	}

	c.Set("userID", user)
	c.Set("userRole", "admin")
	c.Next()
}

// Helper function to get user ID from context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok
}
