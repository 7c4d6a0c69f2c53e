package stores

import (
	"errors"

	"gorm.io/gorm"

	"promptvault/internal/models"
)

// GetUser returns a user by id, or nil when absent.
func GetUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns a user by email, or nil when absent.
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListDirectory returns users who opted into the public directory.
func ListDirectory(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Where("directory_visible = ?", true).Order("display_name ASC").Find(&users).Error
	return users, err
}

// UserSettingsPatch carries optional profile/settings updates.
type UserSettingsPatch struct {
	DisplayName        *string
	DirectoryVisible   *bool
	DefaultAspectRatio *string
	BackgroundStyle    *string
}

// UpdateUserSettings patches the requester's own profile.
func UpdateUserSettings(db *gorm.DB, requester *models.User, patch UserSettingsPatch) error {
	updates := map[string]interface{}{}
	if patch.DisplayName != nil {
		updates["display_name"] = *patch.DisplayName
	}
	if patch.DirectoryVisible != nil {
		updates["directory_visible"] = *patch.DirectoryVisible
	}
	if patch.DefaultAspectRatio != nil {
		updates["default_aspect_ratio"] = *patch.DefaultAspectRatio
	}
	if patch.BackgroundStyle != nil {
		updates["background_style"] = *patch.BackgroundStyle
	}
	if len(updates) == 0 {
		return nil
	}
	return db.Model(&models.User{}).Where("id = ?", requester.ID).Updates(updates).Error
}

// SetUserRole switches a user between admin and member. Admin only; false
// when not permitted or the target is absent.
func SetUserRole(db *gorm.DB, requester *models.User, targetID uint, role string) (bool, error) {
	if !requester.IsAdmin() {
		return false, nil
	}
	if role != models.RoleAdmin && role != models.RoleMember {
		return false, errors.New("invalid role")
	}
	res := db.Model(&models.User{}).Where("id = ?", targetID).Update("role", role)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
