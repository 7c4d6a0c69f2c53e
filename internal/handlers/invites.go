package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/stores"
)

// InviteCreate issues a share-target code for the caller. An optional TTL
// in hours bounds its lifetime.
func InviteCreate(c *gin.Context, db *gorm.DB) {
	var req struct {
		TTLHours int `json:"ttlHours"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	var expiresAt *time.Time
	if req.TTLHours > 0 {
		t := time.Now().Add(time.Duration(req.TTLHours) * time.Hour)
		expiresAt = &t
	}
	link, err := stores.CreateInviteLink(db, CurrentUser(c), expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": link.Code, "expiresAt": link.ExpiresAt})
}

// InviteResolve looks up who a code belongs to, so the client can confirm
// the target before sharing.
func InviteResolve(c *gin.Context, db *gorm.DB) {
	code := c.Param("code")
	user, err := stores.ResolveInviteLink(db, code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invite link is invalid or expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": user.ID, "displayName": user.DisplayName})
}
