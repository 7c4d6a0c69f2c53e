package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/workers"
)

// AdminUsersGet lists every account with role and activity metadata.
func AdminUsersGet(c *gin.Context, db *gorm.DB) {
	var users []models.User
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userJSON(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// AdminQueueGet shows jobs waiting or running in the background queue.
func AdminQueueGet(c *gin.Context, qm *workers.QueueManager) {
	jobs, err := qm.PendingJobs(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list jobs"})
		return
	}
	out := make([]gin.H, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, gin.H{
			"id":          j.ID,
			"kind":        j.Kind,
			"state":       j.State,
			"attempt":     j.Attempt,
			"maxAttempts": j.MaxAttempts,
			"createdAt":   j.CreatedAt,
			"scheduledAt": j.ScheduledAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}
