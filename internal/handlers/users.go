package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/stores"
)

// DirectoryGet lists users visible in the public directory.
func DirectoryGet(c *gin.Context, db *gorm.DB) {
	users, err := stores.ListDirectory(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, gin.H{
			"id":          users[i].ID,
			"displayName": users[i].DisplayName,
		})
	}
	c.JSON(http.StatusOK, out)
}

// SettingsPut updates the caller's profile and generation defaults.
func SettingsPut(c *gin.Context, db *gorm.DB) {
	var req struct {
		DisplayName        *string `json:"displayName"`
		DirectoryVisible   *bool   `json:"directoryVisible"`
		DefaultAspectRatio *string `json:"defaultAspectRatio"`
		BackgroundStyle    *string `json:"backgroundStyle"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	err := stores.UpdateUserSettings(db, CurrentUser(c), stores.UserSettingsPatch{
		DisplayName:        req.DisplayName,
		DirectoryVisible:   req.DirectoryVisible,
		DefaultAspectRatio: req.DefaultAspectRatio,
		BackgroundStyle:    req.BackgroundStyle,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

// UserCreate provisions a new user. Admin only.
func UserCreate(c *gin.Context, db *gorm.DB) {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
		Role        string `json:"role"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	user := models.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hashed),
		Role:         req.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}
	c.JSON(http.StatusOK, userJSON(&user))
}

// UserRolePut switches a user's role. Admin only.
func UserRolePut(c *gin.Context, db *gorm.DB) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ok, err := stores.SetUserRole(db, CurrentUser(c), uint(targetID), req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}
