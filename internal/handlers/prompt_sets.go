package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/stores"
)

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// PromptSetsGet lists the caller's prompt sets.
func PromptSetsGet(c *gin.Context, db *gorm.DB) {
	sets, err := stores.ListPromptSets(db, CurrentUser(c), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, sets)
}

// PromptSetGet returns one set with its versions.
func PromptSetGet(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ps, err := stores.GetPromptSet(db, CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if ps == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt set not found"})
		return
	}
	c.JSON(http.StatusOK, ps)
}

// PromptSetCreate creates an empty prompt set.
func PromptSetCreate(c *gin.Context, db *gorm.DB) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Notes       string `json:"notes"`
		CategoryID  *uint  `json:"categoryId"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	ps, err := stores.CreatePromptSet(db, CurrentUser(c), req.Title, req.Description, req.Notes, req.CategoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create prompt set"})
		return
	}
	c.JSON(http.StatusOK, ps)
}

// PromptSetUpdate patches a set's metadata.
func PromptSetUpdate(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		Notes         *string `json:"notes"`
		CategoryID    *uint   `json:"categoryId"`
		ClearCategory bool    `json:"clearCategory"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ok, err := stores.UpdatePromptSet(db, CurrentUser(c), id, stores.PromptSetPatch{
		Title:         req.Title,
		Description:   req.Description,
		Notes:         req.Notes,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt set not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prompt set updated"})
}

// PromptSetDelete removes a set and its versions.
func PromptSetDelete(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ok, err := stores.DeletePromptSet(db, CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt set not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prompt set deleted"})
}

// PromptSetDuplicate deep-copies a set under the caller's account.
func PromptSetDuplicate(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := CurrentUser(c)
	clone, err := stores.DuplicatePromptSet(db, user, id, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if clone == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt set not found"})
		return
	}
	c.JSON(http.StatusOK, clone)
}

// VersionCreate appends a new version to a set.
func VersionCreate(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PromptText string `json:"promptText"`
		Notes      string `json:"notes"`
		Tags       string `json:"tags"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.PromptText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt text is required"})
		return
	}
	v, err := stores.AddVersion(db, CurrentUser(c), id, req.PromptText, req.Notes, req.Tags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt set not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// VersionUpdate patches a version located by id.
func VersionUpdate(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PromptText *string `json:"promptText"`
		ImageURL   *string `json:"imageUrl"`
		VideoURL   *string `json:"videoUrl"`
		Notes      *string `json:"notes"`
		Tags       *string `json:"tags"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ok, err := stores.UpdateVersion(db, CurrentUser(c), id, stores.VersionPatch{
		PromptText: req.PromptText,
		ImageURL:   req.ImageURL,
		VideoURL:   req.VideoURL,
		Notes:      req.Notes,
		Tags:       req.Tags,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Version not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Version updated"})
}

// VersionDelete removes a version. Surviving versions keep their numbers.
func VersionDelete(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ok, err := stores.DeleteVersion(db, CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Version not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Version deleted"})
}

func promptSetJSON(ps *models.PromptSet) gin.H {
	return gin.H{
		"id":          ps.ID,
		"ownerId":     ps.OwnerID,
		"title":       ps.Title,
		"description": ps.Description,
		"categoryId":  ps.CategoryID,
		"notes":       ps.Notes,
		"versions":    ps.Versions,
		"createdAt":   ps.CreatedAt,
		"updatedAt":   ps.UpdatedAt,
	}
}
