package stores

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/utils"
)

// API keys look like pv_<prefix>_<secret>. The prefix is stored in the
// clear for lookup; the full key is bcrypt-hashed, so the plaintext can be
// shown exactly once, at creation.

// CreateAPIKey issues a key for the requester and returns the row plus the
// one-time plaintext.
func CreateAPIKey(db *gorm.DB, requester *models.User, name string, expiresAt *time.Time) (*models.APIKey, string, error) {
	prefix := "pv_" + utils.GenerateCode(8)
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, "", err
	}
	fullKey := fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(randomBytes))

	keyHash, err := bcrypt.GenerateFromPassword([]byte(fullKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	key := models.APIKey{
		OwnerID:   requester.ID,
		Name:      name,
		KeyHash:   string(keyHash),
		KeyPrefix: prefix,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&key).Error; err != nil {
		return nil, "", err
	}
	return &key, fullKey, nil
}

// ListAPIKeys returns the requester's keys, newest first. Hashes stay
// server-side; handlers expose only prefix and metadata.
func ListAPIKeys(db *gorm.DB, requester *models.User) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := db.Where("owner_id = ?", requester.ID).Order("created_at DESC").Find(&keys).Error
	return keys, err
}

// UpdateAPIKey renames a key or moves its expiry; false when absent or not
// owned.
func UpdateAPIKey(db *gorm.DB, requester *models.User, id uint, name *string, expiresAt *time.Time) (bool, error) {
	var key models.APIKey
	err := db.First(&key, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if key.OwnerID != requester.ID && !requester.IsAdmin() {
		return false, nil
	}
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if expiresAt != nil {
		updates["expires_at"] = *expiresAt
	}
	if len(updates) == 0 {
		return true, nil
	}
	if err := db.Model(&models.APIKey{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAPIKey hard-deletes a key; false when absent or not owned.
func DeleteAPIKey(db *gorm.DB, requester *models.User, id uint) (bool, error) {
	var key models.APIKey
	err := db.First(&key, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if key.OwnerID != requester.ID && !requester.IsAdmin() {
		return false, nil
	}
	if err := db.Unscoped().Delete(&models.APIKey{}, id).Error; err != nil {
		return false, err
	}
	return true, nil
}

// AuthenticateAPIKey resolves a presented bearer key to its owner. Unknown
// prefixes, hash mismatches and expired keys all come back nil.
func AuthenticateAPIKey(db *gorm.DB, presented string) (*models.User, *models.APIKey, error) {
	// pv_<prefix>_<secret>: the first two segments form the lookup prefix.
	if len(presented) < 12 || presented[:3] != "pv_" {
		return nil, nil, nil
	}
	rest := presented[3:]
	sep := -1
	for i := range rest {
		if rest[i] == '_' {
			sep = i
			break
		}
	}
	if sep <= 0 {
		return nil, nil, nil
	}
	prefix := "pv_" + rest[:sep]

	var key models.APIKey
	err := db.Where("key_prefix = ?", prefix).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(presented)) != nil {
		return nil, nil, nil
	}

	now := time.Now()
	db.Model(&key).Update("last_used_at", &now)

	owner, err := GetUser(db, key.OwnerID)
	if err != nil || owner == nil {
		return nil, nil, err
	}
	return owner, &key, nil
}
