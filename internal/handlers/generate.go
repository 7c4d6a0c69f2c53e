package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"promptvault/internal/generation"
	"promptvault/internal/metrics"
	"promptvault/internal/storage"
	"promptvault/internal/stores"
	"promptvault/internal/utils"
	"promptvault/internal/workers"
)

// Generate proxies image and video generation. Images come back inline
// and are persisted to object storage immediately; video runs as a
// long-running operation that is polled here or by the background worker.
func Generate(c *gin.Context, db *gorm.DB, gen *generation.Client, st storage.Storage, qm *workers.QueueManager, baseURL string) {
	var req utils.GenerateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user := CurrentUser(c)
	if req.AspectRatio == "" {
		req.AspectRatio = user.DefaultAspectRatio
	}
	if req.BackgroundStyle == "" {
		req.BackgroundStyle = user.BackgroundStyle
	}

	switch req.Type {
	case "image":
		generateImage(c, db, gen, st, baseURL, &req)
	case "video":
		startVideo(c, db, gen, qm, &req)
	case "video-status":
		videoStatus(c, gen, &req)
	}
}

func generateImage(c *gin.Context, db *gorm.DB, gen *generation.Client, st storage.Storage, baseURL string, req *utils.GenerateRequest) {
	user := CurrentUser(c)
	result, err := gen.GenerateImage(c.Request.Context(), req.Prompt, req.Images, req.AspectRatio, req.BackgroundStyle)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("image", "error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Image generation failed"})
		return
	}
	if result.BlockReason != "" {
		metrics.GenerationTotal.WithLabelValues("image", "blocked").Inc()
		c.JSON(http.StatusOK, gin.H{"success": false, "error": result.BlockReason})
		return
	}

	objectName := uuid.NewString() + generation.ExtensionForMIME(result.MIME)
	w, err := st.Writer("media/" + objectName)
	if err == nil {
		if _, err = io.Copy(w, bytes.NewReader(result.Data)); err != nil {
			w.Close()
		} else {
			err = w.Close()
		}
	}
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("image", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store generated image"})
		return
	}

	url := mediaURLFor(baseURL, objectName)
	if _, _, err := stores.AddMediaImage(db, user, url, nil, req.VersionID); err != nil {
		metrics.GenerationTotal.WithLabelValues("image", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}
	if req.VersionID != nil {
		if v, err := stores.GetVersion(db, user, *req.VersionID); err == nil && v != nil {
			err := db.Model(v).Updates(map[string]interface{}{
				"image_url":    url,
				"generated_at": time.Now(),
			}).Error
			if err != nil {
				slog.Warn("Failed to attach generated image to version",
					"versionID", v.ID, "error", err)
			}
		}
	}

	metrics.GenerationTotal.WithLabelValues("image", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": url})
}

func startVideo(c *gin.Context, db *gorm.DB, gen *generation.Client, qm *workers.QueueManager, req *utils.GenerateRequest) {
	user := CurrentUser(c)
	operationName, err := gen.StartVideoGeneration(c.Request.Context(), req.Prompt, req.AspectRatio)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("video", "error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Video generation failed to start"})
		return
	}

	// With a version attached, the worker carries the result into the
	// version and the media library once the operation completes.
	if req.VersionID != nil {
		if v, err := stores.GetVersion(db, user, *req.VersionID); err == nil && v != nil {
			if err := qm.QueueVideoPoll(c.Request.Context(), v.ID, user.ID, operationName); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to queue video polling"})
				return
			}
		}
	}

	metrics.GenerationTotal.WithLabelValues("video", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "operationName": operationName})
}

func videoStatus(c *gin.Context, gen *generation.Client, req *utils.GenerateRequest) {
	status, err := gen.PollVideoOperation(c.Request.Context(), req.OperationName)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues("video-status", "error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to poll video operation"})
		return
	}
	if !status.Done {
		c.JSON(http.StatusOK, gin.H{"success": true, "done": false, "progress": status.Progress})
		return
	}
	if status.Failed() {
		reason := "video generation produced no output"
		if len(status.FilterReasons) > 0 {
			reason = strings.Join(status.FilterReasons, "; ")
		}
		metrics.GenerationTotal.WithLabelValues("video-status", "blocked").Inc()
		c.JSON(http.StatusOK, gin.H{"success": false, "done": true, "error": reason})
		return
	}
	metrics.GenerationTotal.WithLabelValues("video-status", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "done": true, "videoUrl": status.VideoURL})
}
