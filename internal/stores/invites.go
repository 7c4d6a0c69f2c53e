package stores

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/utils"
)

// CreateInviteLink issues a random code that resolves to the requester for
// directory-free share targeting.
func CreateInviteLink(db *gorm.DB, requester *models.User, expiresAt *time.Time) (*models.InviteLink, error) {
	link := models.InviteLink{
		CreatorID: requester.ID,
		Code:      utils.GenerateCode(12),
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ResolveInviteLink maps a code to its creator. Expired or unknown codes
// resolve to nil.
func ResolveInviteLink(db *gorm.DB, code string) (*models.User, error) {
	var link models.InviteLink
	err := db.Where("code = ?", code).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if link.ExpiresAt != nil && link.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	var user models.User
	if err := db.First(&user, link.CreatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// PurgeExpiredInviteLinks hard-deletes links past their expiry.
func PurgeExpiredInviteLinks(db *gorm.DB) (int64, error) {
	res := db.Unscoped().
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.InviteLink{})
	return res.RowsAffected, res.Error
}
