package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"promptvault/internal/stores"
)

// CategoriesGet lists system categories plus the caller's own.
func CategoriesGet(c *gin.Context, db *gorm.DB) {
	cats, err := stores.ListCategories(db, CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

// CategoryCreate creates a personal or (admin only) system category.
func CategoryCreate(c *gin.Context, db *gorm.DB) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsSystem    bool   `json:"isSystem"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	cat, err := stores.CreateCategory(db, CurrentUser(c), req.Name, req.Description, req.IsSystem)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	if cat == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can create system categories"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

// CategoryUpdate renames/redescribes a category.
func CategoryUpdate(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ok, err := stores.UpdateCategory(db, CurrentUser(c), id, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

// CategoryDelete removes a category. Prompt sets referencing it simply
// become uncategorized; nothing cascades.
func CategoryDelete(c *gin.Context, db *gorm.DB) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ok, err := stores.DeleteCategory(db, CurrentUser(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
