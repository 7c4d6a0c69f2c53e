package stores

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"promptvault/internal/models"
)

// MediaKey derives the deterministic record key for an (owner, URL) pair.
// It is a pure function of its inputs: the same pair always maps to the
// same key, and nothing else affects it.
func MediaKey(ownerID uint, url string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d\n%s", ownerID, url)))
	return hex.EncodeToString(sum[:])
}

// AddMediaImage inserts a media reference for the requester unless one with
// the same deterministic key already exists. Idempotent under retries and
// duplicate URLs. Returns the stored row and whether a new row was created.
func AddMediaImage(db *gorm.DB, requester *models.User, url string, promptSetID, versionID *uint) (*models.MediaImage, bool, error) {
	key := MediaKey(requester.ID, url)
	var existing models.MediaImage
	err := db.Where("key = ?", key).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	img := models.MediaImage{
		Key:         key,
		OwnerID:     requester.ID,
		URL:         url,
		PromptSetID: promptSetID,
		VersionID:   versionID,
	}
	if err := db.Create(&img).Error; err != nil {
		return nil, false, err
	}
	return &img, true, nil
}

// ListMedia returns the requester's media, newest first.
func ListMedia(db *gorm.DB, requester *models.User) ([]models.MediaImage, error) {
	var media []models.MediaImage
	err := db.Where("owner_id = ?", requester.ID).Order("created_at DESC").Find(&media).Error
	return media, err
}

// DeleteMedia removes a media row; false when absent or not owned.
func DeleteMedia(db *gorm.DB, requester *models.User, id uint) (*models.MediaImage, error) {
	var img models.MediaImage
	err := db.First(&img, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if img.OwnerID != requester.ID && !requester.IsAdmin() {
		return nil, nil
	}
	if err := db.Delete(&models.MediaImage{}, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// SyncImagesFromVersions scans all of the requester's prompt-set versions
// for media URLs and inserts any whose deterministic key is not yet
// present. Repeated calls on unchanged data add nothing.
func SyncImagesFromVersions(db *gorm.DB, requester *models.User) (int, error) {
	sets, err := ListPromptSets(db, requester, requester.ID)
	if err != nil {
		return 0, err
	}
	added := 0
	for i := range sets {
		for j := range sets[i].Versions {
			v := &sets[i].Versions[j]
			for _, url := range []string{v.ImageURL, v.VideoURL} {
				if url == "" {
					continue
				}
				setID, versionID := sets[i].ID, v.ID
				_, created, err := AddMediaImage(db, requester, url, &setID, &versionID)
				if err != nil {
					return added, err
				}
				if created {
					added++
				}
			}
		}
	}
	return added, nil
}
