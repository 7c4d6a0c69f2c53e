package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/stores"
)

// NotificationsGet returns the caller's feed plus unread count.
func NotificationsGet(c *gin.Context, db *gorm.DB) {
	user := CurrentUser(c)
	notes, err := stores.ListNotifications(db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	unread, err := stores.UnreadNotificationCount(db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes, "unread": unread})
}

// NotificationReadPost marks one notification read.
func NotificationReadPost(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ok, err := stores.MarkNotificationRead(db, CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked read"})
}

// NotificationsReadAllPost marks the whole feed read.
func NotificationsReadAllPost(c *gin.Context, db *gorm.DB) {
	count, err := stores.MarkAllNotificationsRead(db, CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": count})
}
