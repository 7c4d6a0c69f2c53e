package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/metrics"
	"promptvault/internal/storage"
	"promptvault/internal/stores"
)

// SharesGet lists the caller's incoming and outgoing shares.
func SharesGet(c *gin.Context, db *gorm.DB) {
	user := CurrentUser(c)
	incoming, err := stores.ListIncomingShares(db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	outgoing, err := stores.ListOutgoingShares(db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"incoming": incoming, "outgoing": outgoing})
}

// ShareCreate snapshots a prompt set and offers it to another user.
func ShareCreate(c *gin.Context, db *gorm.DB) {
	var req struct {
		PromptSetID uint   `json:"promptSetId"`
		RecipientID uint   `json:"recipientId"`
		InviteCode  string `json:"inviteCode"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.InviteCode != "" {
		recipient, err := stores.ResolveInviteLink(db, req.InviteCode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if recipient == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invite link is invalid or expired"})
			return
		}
		req.RecipientID = recipient.ID
	}
	if req.RecipientID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient is required"})
		return
	}
	user := CurrentUser(c)
	if req.RecipientID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot share a prompt set with yourself"})
		return
	}
	share, err := stores.CreateShare(db, user, req.PromptSetID, req.RecipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if share == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt set or recipient not found"})
		return
	}
	metrics.SharesTotal.WithLabelValues("created").Inc()
	c.JSON(http.StatusOK, share)
}

// ShareAccept clones the frozen snapshot into the caller's own prompt
// sets. Media stored in our own object storage is duplicated so the copy
// survives the sender deleting theirs.
func ShareAccept(c *gin.Context, db *gorm.DB, st storage.Storage, baseURL string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	mapURL := func(url string) string {
		key, owned := ownedObjectKey(baseURL, url)
		if !owned {
			return url
		}
		newName, err := duplicateObject(st, key)
		if err != nil {
			slog.Warn("Failed to duplicate shared media object, keeping original URL",
				"key", key, "error", err)
			return url
		}
		return mediaURLFor(baseURL, newName)
	}

	clone, err := stores.AcceptShare(db, CurrentUser(c), id, mapURL)
	if errors.Is(err, stores.ErrShareResolved) {
		c.JSON(http.StatusConflict, gin.H{"error": "Share has already been resolved"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if clone == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Share not found"})
		return
	}
	metrics.SharesTotal.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, clone)
}

// ShareReject declines an in-transit share. No cloning happens.
func ShareReject(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ok, err := stores.RejectShare(db, CurrentUser(c), id)
	if errors.Is(err, stores.ErrShareResolved) {
		c.JSON(http.StatusConflict, gin.H{"error": "Share has already been resolved"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Share not found"})
		return
	}
	metrics.SharesTotal.WithLabelValues("rejected").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Share rejected"})
}
