package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/metrics"
	"promptvault/internal/storage"
	"promptvault/internal/stores"
	"promptvault/internal/utils"
)

// BackupsGet lists the caller's backups, newest first.
func BackupsGet(c *gin.Context, db *gorm.DB) {
	backups, err := stores.ListBackups(db, CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	// Content can run to megabytes; the listing only carries metadata.
	type entry struct {
		ID        uint   `json:"id"`
		Type      string `json:"type"`
		Filename  string `json:"filename"`
		CreatedAt string `json:"createdAt"`
	}
	out := make([]entry, 0, len(backups))
	for _, b := range backups {
		out = append(out, entry{
			ID:        b.ID,
			Type:      b.Type,
			Filename:  b.Filename,
			CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, out)
}

// BackupCreate exports the caller's data as a JSON backup and mirrors the
// file to object storage.
func BackupCreate(c *gin.Context, db *gorm.DB, st storage.Storage) {
	var req utils.BackupRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	backup, err := stores.CreateBackup(db, CurrentUser(c), req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create backup"})
		return
	}

	key := "backups/" + backup.Filename
	if err := writeObject(st, key, backup.Content); err != nil {
		slog.Warn("Failed to mirror backup to object storage", "key", key, "error", err)
	} else if err := db.Model(backup).Update("object_key", key).Error; err != nil {
		slog.Warn("Failed to record backup object key", "backupID", backup.ID, "error", err)
	} else {
		backup.ObjectKey = key
	}

	metrics.BackupsTotal.WithLabelValues("create").Inc()
	c.JSON(http.StatusOK, gin.H{
		"id":       backup.ID,
		"type":     backup.Type,
		"filename": backup.Filename,
	})
}

func writeObject(st storage.Storage, key, content string) error {
	w, err := st.Writer(key)
	if err != nil {
		return err
	}
	if _, err := strings.NewReader(content).WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// BackupDownload serves a backup as a JSON file attachment.
func BackupDownload(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	backup, err := stores.GetBackup(db, CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if backup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Backup not found"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+backup.Filename+`"`)
	c.Data(http.StatusOK, "application/json", []byte(backup.Content))
}

// BackupRestore re-imports a backup, either a stored one by id or raw
// content uploaded by the client. Everything gets fresh ids; a malformed
// file is rejected without partial effects.
func BackupRestore(c *gin.Context, db *gorm.DB) {
	var req struct {
		BackupID *uint  `json:"backupId"`
		Content  string `json:"content"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user := CurrentUser(c)
	content := req.Content
	if req.BackupID != nil {
		backup, err := stores.GetBackup(db, user, *req.BackupID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if backup == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Backup not found"})
			return
		}
		content = backup.Content
	}
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup content is required"})
		return
	}

	sets, media, err := stores.RestoreBackup(db, user, content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.BackupsTotal.WithLabelValues("restore").Inc()
	c.JSON(http.StatusOK, gin.H{"promptSetsRestored": sets, "mediaRestored": media})
}
