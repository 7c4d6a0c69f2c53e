package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/stores"
)

func apiKeyJSON(k *models.APIKey) gin.H {
	return gin.H{
		"id":         k.ID,
		"name":       k.Name,
		"keyPrefix":  k.KeyPrefix,
		"expiresAt":  k.ExpiresAt,
		"lastUsedAt": k.LastUsedAt,
		"createdAt":  k.CreatedAt,
	}
}

// APIKeysGet lists the caller's keys. Hashes never leave the server.
func APIKeysGet(c *gin.Context, db *gorm.DB) {
	keys, err := stores.ListAPIKeys(db, CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	out := make([]gin.H, 0, len(keys))
	for i := range keys {
		out = append(out, apiKeyJSON(&keys[i]))
	}
	c.JSON(http.StatusOK, out)
}

// APIKeyCreate issues a key. The plaintext appears in this response and
// nowhere else.
func APIKeyCreate(c *gin.Context, db *gorm.DB) {
	var req struct {
		Name      string     `json:"name"`
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	key, plaintext, err := stores.CreateAPIKey(db, CurrentUser(c), req.Name, req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}
	resp := apiKeyJSON(key)
	resp["key"] = plaintext
	c.JSON(http.StatusOK, resp)
}

// APIKeyUpdate renames a key or moves its expiry.
func APIKeyUpdate(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name      *string    `json:"name"`
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ok, err := stores.UpdateAPIKey(db, CurrentUser(c), id, req.Name, req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "API key updated"})
}

// APIKeyDelete revokes a key immediately.
func APIKeyDelete(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ok, err := stores.DeleteAPIKey(db, CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "API key deleted"})
}
