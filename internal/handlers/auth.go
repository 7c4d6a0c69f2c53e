package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/stores"
)

// LoginPost authenticates email+password and establishes a session.
func LoginPost(c *gin.Context, db *gorm.DB) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	user, err := stores.GetUserByEmail(db, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()
	c.JSON(http.StatusOK, userJSON(user))
}

// LogoutPost clears the session.
func LogoutPost(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// MeGet returns the authenticated user's profile and settings.
func MeGet(c *gin.Context) {
	c.JSON(http.StatusOK, userJSON(CurrentUser(c)))
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":                 u.ID,
		"email":              u.Email,
		"displayName":        u.DisplayName,
		"role":               u.Role,
		"directoryVisible":   u.DirectoryVisible,
		"defaultAspectRatio": u.DefaultAspectRatio,
		"backgroundStyle":    u.BackgroundStyle,
		"createdAt":          u.CreatedAt,
	}
}
