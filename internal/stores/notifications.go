package stores

import (
	"gorm.io/gorm"

	"promptvault/internal/models"
)

func createNotification(db *gorm.DB, ownerID uint, typ, message string, shareID *uint) error {
	n := models.Notification{
		OwnerID: ownerID,
		Type:    typ,
		Message: message,
		ShareID: shareID,
	}
	return db.Create(&n).Error
}

// ListNotifications returns the requester's feed, newest first.
func ListNotifications(db *gorm.DB, requester *models.User) ([]models.Notification, error) {
	var notes []models.Notification
	err := db.Where("owner_id = ?", requester.ID).Order("created_at DESC").Find(&notes).Error
	return notes, err
}

// UnreadNotificationCount returns the requester's unread count.
func UnreadNotificationCount(db *gorm.DB, requester *models.User) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("owner_id = ? AND read = ?", requester.ID, false).Count(&count).Error
	return count, err
}

// MarkNotificationRead flags one notification; false when absent or not owned.
func MarkNotificationRead(db *gorm.DB, requester *models.User, id uint) (bool, error) {
	res := db.Model(&models.Notification{}).
		Where("id = ? AND owner_id = ?", id, requester.ID).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkAllNotificationsRead flags the requester's whole feed.
func MarkAllNotificationsRead(db *gorm.DB, requester *models.User) (int64, error) {
	res := db.Model(&models.Notification{}).
		Where("owner_id = ? AND read = ?", requester.ID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
