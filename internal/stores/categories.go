package stores

import (
	"errors"

	"gorm.io/gorm"

	"promptvault/internal/models"
)

// CreateCategory creates a category. Only admins may create system
// categories; those carry no owner and are visible to everyone.
func CreateCategory(db *gorm.DB, requester *models.User, name, description string, system bool) (*models.Category, error) {
	cat := models.Category{Name: name, Description: description}
	if system {
		if !requester.IsAdmin() {
			return nil, nil
		}
		cat.IsSystem = true
	} else {
		ownerID := requester.ID
		cat.OwnerID = &ownerID
	}
	if err := db.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListCategories returns system categories plus the requester's own.
func ListCategories(db *gorm.DB, requester *models.User) ([]models.Category, error) {
	var cats []models.Category
	err := db.Where("is_system = ? OR owner_id = ?", true, requester.ID).
		Order("name ASC").Find(&cats).Error
	return cats, err
}

func categoryForWrite(db *gorm.DB, requester *models.User, id uint) (*models.Category, error) {
	var cat models.Category
	err := db.First(&cat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if cat.IsSystem {
		if !requester.IsAdmin() {
			return nil, nil
		}
		return &cat, nil
	}
	if cat.OwnerID == nil || (*cat.OwnerID != requester.ID && !requester.IsAdmin()) {
		return nil, nil
	}
	return &cat, nil
}

// UpdateCategory renames/redescribes a category; false when absent or not
// permitted.
func UpdateCategory(db *gorm.DB, requester *models.User, id uint, name, description *string) (bool, error) {
	cat, err := categoryForWrite(db, requester, id)
	if err != nil || cat == nil {
		return false, err
	}
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return true, nil
	}
	if err := db.Model(&models.Category{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeleteCategory removes a category without cascading: prompt sets keep
// their dangling category_id and read as uncategorized.
func DeleteCategory(db *gorm.DB, requester *models.User, id uint) (bool, error) {
	cat, err := categoryForWrite(db, requester, id)
	if err != nil || cat == nil {
		return false, err
	}
	if err := db.Delete(&models.Category{}, id).Error; err != nil {
		return false, err
	}
	return true, nil
}
