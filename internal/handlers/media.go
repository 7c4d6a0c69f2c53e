package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptvault/internal/storage"
	"promptvault/internal/stores"
)

// Generated media lives in object storage under media/<uuid><ext> and is
// served from /media/<name>; URLs pointing anywhere else are external and
// pass through untouched.

func mediaURLFor(baseURL, objectName string) string {
	return strings.TrimSuffix(baseURL, "/") + "/media/" + objectName
}

// ownedObjectKey maps a URL back to its storage key when it points into
// our own media namespace.
func ownedObjectKey(baseURL, url string) (string, bool) {
	prefix := strings.TrimSuffix(baseURL, "/") + "/media/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return "", false
	}
	return "media/" + name, true
}

// duplicateObject copies a stored object under a fresh name, preserving
// the extension. Used when a share hands media to another user.
func duplicateObject(st storage.Storage, key string) (string, error) {
	r, err := st.Reader(key)
	if err != nil {
		return "", err
	}
	defer r.Close()

	newName := uuid.NewString() + path.Ext(key)
	w, err := st.Writer("media/" + newName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return newName, nil
}

// MediaGet lists the caller's media library.
func MediaGet(c *gin.Context, db *gorm.DB) {
	media, err := stores.ListMedia(db, CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, media)
}

// MediaCreate registers a media URL; inserting the same URL twice for the
// same owner is a no-op.
func MediaCreate(c *gin.Context, db *gorm.DB) {
	var req struct {
		URL         string `json:"url"`
		PromptSetID *uint  `json:"promptSetId"`
		VersionID   *uint  `json:"versionId"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}
	img, created, err := stores.AddMediaImage(db, CurrentUser(c), req.URL, req.PromptSetID, req.VersionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": img, "created": created})
}

// MediaSyncPost scans the caller's versions and registers any media not
// yet in the library. Idempotent: a second run reports zero additions.
func MediaSyncPost(c *gin.Context, db *gorm.DB) {
	added, err := stores.SyncImagesFromVersions(db, CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// MediaDelete removes a media record, and its stored object when the URL
// points into our own storage.
func MediaDelete(c *gin.Context, db *gorm.DB, st storage.Storage, baseURL string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	img, err := stores.DeleteMedia(db, CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}
	if key, owned := ownedObjectKey(baseURL, img.URL); owned {
		if err := st.Delete(key); err != nil {
			slog.Warn("Failed to delete media object", "key", key, "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Media deleted"})
}

// MediaServe streams a stored media object.
func MediaServe(c *gin.Context, st storage.Storage) {
	name := c.Param("name")
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		c.Status(http.StatusBadRequest)
		return
	}
	r, err := st.Reader("media/" + name)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer r.Close()

	switch path.Ext(name) {
	case ".png":
		c.Header("Content-Type", "image/png")
	case ".jpg", ".jpeg":
		c.Header("Content-Type", "image/jpeg")
	case ".webp":
		c.Header("Content-Type", "image/webp")
	case ".mp4":
		c.Header("Content-Type", "video/mp4")
	default:
		c.Header("Content-Type", "application/octet-stream")
	}
	io.Copy(c.Writer, r)
}
