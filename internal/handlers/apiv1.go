package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/stores"
)

// The /api/v1 surface is the key-authenticated external REST API. Every
// response uses the {success, data|error} envelope and is scoped to the
// key's owner; admin keys additionally see other users' data.

// APIPromptSetsGet lists prompt sets. Admin keys may pass ?all=true for a
// global listing.
func APIPromptSetsGet(c *gin.Context, db *gorm.DB) {
	user := CurrentUser(c)
	var (
		sets []models.PromptSet
		err  error
	)
	if c.Query("all") == "true" && user.IsAdmin() {
		sets, err = stores.ListAllPromptSets(db, user)
	} else {
		sets, err = stores.ListPromptSets(db, user, 0)
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Database error")
		return
	}
	out := make([]gin.H, 0, len(sets))
	for i := range sets {
		out = append(out, promptSetJSON(&sets[i]))
	}
	apiData(c, out)
}

// APIPromptSetGet returns one prompt set with its versions.
func APIPromptSetGet(c *gin.Context, db *gorm.DB) {
	id, ok := apiParamID(c, "id")
	if !ok {
		return
	}
	ps, err := stores.GetPromptSet(db, CurrentUser(c), id)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if ps == nil {
		apiError(c, http.StatusNotFound, "Prompt set not found")
		return
	}
	apiData(c, promptSetJSON(ps))
}

// APIPromptSetCreate creates a prompt set, optionally with an initial
// version in the same call.
func APIPromptSetCreate(c *gin.Context, db *gorm.DB) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Notes       string `json:"notes"`
		CategoryID  *uint  `json:"categoryId"`
		PromptText  string `json:"promptText"`
	}
	if err := c.BindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Title == "" {
		apiError(c, http.StatusBadRequest, "Title is required")
		return
	}
	user := CurrentUser(c)
	ps, err := stores.CreatePromptSet(db, user, req.Title, req.Description, req.Notes, req.CategoryID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Failed to create prompt set")
		return
	}
	if req.PromptText != "" {
		v, err := stores.AddVersion(db, user, ps.ID, req.PromptText, "", "")
		if err != nil {
			apiError(c, http.StatusInternalServerError, "Failed to create initial version")
			return
		}
		ps.Versions = append(ps.Versions, *v)
	}
	apiData(c, promptSetJSON(ps))
}

// APIPromptSetUpdate patches a prompt set's metadata.
func APIPromptSetUpdate(c *gin.Context, db *gorm.DB) {
	id, ok := apiParamID(c, "id")
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
		apiError(c, http.StatusBadRequest, "Invalid request")
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
		apiError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !ok {
		apiError(c, http.StatusNotFound, "Prompt set not found")
		return
	}
	apiData(c, gin.H{"updated": true})
}

// APIPromptSetDelete removes a prompt set and its versions.
func APIPromptSetDelete(c *gin.Context, db *gorm.DB) {
	id, ok := apiParamID(c, "id")
	if !ok {
		return
	}
	ok, err := stores.DeletePromptSet(db, CurrentUser(c), id)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !ok {
		apiError(c, http.StatusNotFound, "Prompt set not found")
		return
	}
	apiData(c, gin.H{"deleted": true})
}

// APIVersionCreate appends a version to a set.
func APIVersionCreate(c *gin.Context, db *gorm.DB) {
	id, ok := apiParamID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PromptText string `json:"promptText"`
		Notes      string `json:"notes"`
		Tags       string `json:"tags"`
	}
	if err := c.BindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.PromptText == "" {
		apiError(c, http.StatusBadRequest, "Prompt text is required")
		return
	}
	v, err := stores.AddVersion(db, CurrentUser(c), id, req.PromptText, req.Notes, req.Tags)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if v == nil {
		apiError(c, http.StatusNotFound, "Prompt set not found")
		return
	}
	apiData(c, v)
}

// APIVersionsGet returns a flattened listing of every version the caller
// may see, each annotated with its set and owner. Admin keys with
// ?all=true see the whole instance.
func APIVersionsGet(c *gin.Context, db *gorm.DB) {
	user := CurrentUser(c)
	var (
		sets []models.PromptSet
		err  error
	)
	if c.Query("all") == "true" && user.IsAdmin() {
		sets, err = stores.ListAllPromptSets(db, user)
	} else {
		sets, err = stores.ListPromptSets(db, user, 0)
	}
	if err != nil {
		apiError(c, http.StatusInternalServerError, "Database error")
		return
	}

	out := make([]gin.H, 0)
	for i := range sets {
		ps := &sets[i]
		for j := range ps.Versions {
			v := &ps.Versions[j]
			out = append(out, gin.H{
				"id":             v.ID,
				"promptSetId":    ps.ID,
				"promptSetTitle": ps.Title,
				"ownerId":        ps.OwnerID,
				"versionNumber":  v.VersionNumber,
				"promptText":     v.PromptText,
				"imageUrl":       v.ImageURL,
				"videoUrl":       v.VideoURL,
				"generatedAt":    v.GeneratedAt,
				"tags":           v.Tags,
				"createdAt":      v.CreatedAt,
			})
		}
	}
	apiData(c, out)
}

// apiParamID is paramID with the v1 envelope on failure.
func apiParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apiError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
