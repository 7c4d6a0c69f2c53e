package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/stores"
)

const userKey = "user"

// RequireUser loads the session user into the context or aborts with 401.
func RequireUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get("user_id")
		userID, ok := raw.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		user, err := stores.GetUser(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			c.Abort()
			return
		}
		if user == nil {
			session.Delete("user_id")
			session.Save()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the context user is an admin. Must
// run after RequireUser or RequireAPIKey.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPIKey validates bearer key authentication for the external REST
// surface and loads the key's owner into the context.
func RequireAPIKey(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apiError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <api_key>'")
			c.Abort()
			return
		}
		presented := strings.TrimPrefix(authHeader, "Bearer ")

		owner, key, err := stores.AuthenticateAPIKey(db, presented)
		if err != nil {
			apiError(c, http.StatusInternalServerError, "Database error")
			c.Abort()
			return
		}
		if owner == nil {
			apiError(c, http.StatusUnauthorized, "Invalid API key")
			c.Abort()
			return
		}
		c.Set(userKey, owner)
		c.Set("api_key", key)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by the auth middleware.
func CurrentUser(c *gin.Context) *models.User {
	if u, ok := c.Get(userKey); ok {
		if user, ok := u.(*models.User); ok {
			return user
		}
	}
	return nil
}

// apiError writes the {success, error} envelope used on /api/v1.
func apiError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// apiData writes the {success, data} envelope used on /api/v1.
func apiData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
