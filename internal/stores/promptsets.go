package stores

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"promptvault/internal/models"
)

// The store layer enforces ownership: a non-admin requester only ever sees
// or touches their own rows. Authorization failures and missing rows come
// back as (nil, nil) / (false, nil); a non-nil error always means the
// database itself failed.

// PromptSetPatch carries optional field updates for a prompt set.
type PromptSetPatch struct {
	Title         *string
	Description   *string
	CategoryID    *uint
	ClearCategory bool
	Notes         *string
}

// VersionPatch carries optional field updates for a version.
type VersionPatch struct {
	PromptText  *string
	ImageURL    *string
	VideoURL    *string
	GeneratedAt *time.Time
	Notes       *string
	Tags        *string
}

// CreatePromptSet creates an empty prompt set owned by the requester.
func CreatePromptSet(db *gorm.DB, requester *models.User, title, description, notes string, categoryID *uint) (*models.PromptSet, error) {
	ps := models.PromptSet{
		OwnerID:     requester.ID,
		Title:       title,
		Description: description,
		Notes:       notes,
		CategoryID:  categoryID,
	}
	if err := db.Create(&ps).Error; err != nil {
		return nil, err
	}
	return &ps, nil
}

// GetPromptSet returns the set with versions ordered by version number, or
// nil if it does not exist or the requester may not see it.
func GetPromptSet(db *gorm.DB, requester *models.User, id uint) (*models.PromptSet, error) {
	var ps models.PromptSet
	err := db.Preload("Versions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version_number ASC")
	}).First(&ps, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if ps.OwnerID != requester.ID && !requester.IsAdmin() {
		return nil, nil
	}
	return &ps, nil
}

// ListPromptSets returns the requester's sets, newest first. Admins may
// list any user's sets by passing a non-zero ownerID.
func ListPromptSets(db *gorm.DB, requester *models.User, ownerID uint) ([]models.PromptSet, error) {
	if ownerID == 0 || (ownerID != requester.ID && !requester.IsAdmin()) {
		ownerID = requester.ID
	}
	var sets []models.PromptSet
	err := db.Preload("Versions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version_number ASC")
	}).Where("owner_id = ?", ownerID).Order("updated_at DESC").Find(&sets).Error
	return sets, err
}

// ListAllPromptSets returns every set; empty for non-admins.
func ListAllPromptSets(db *gorm.DB, requester *models.User) ([]models.PromptSet, error) {
	if !requester.IsAdmin() {
		return nil, nil
	}
	var sets []models.PromptSet
	err := db.Preload("Versions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version_number ASC")
	}).Order("updated_at DESC").Find(&sets).Error
	return sets, err
}

// UpdatePromptSet applies a patch; false when absent or not permitted.
func UpdatePromptSet(db *gorm.DB, requester *models.User, id uint, patch PromptSetPatch) (bool, error) {
	ps, err := GetPromptSet(db, requester, id)
	if err != nil || ps == nil {
		return false, err
	}
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.ClearCategory {
		updates["category_id"] = nil
	} else if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if len(updates) == 0 {
		return true, nil
	}
	if err := db.Model(&models.PromptSet{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeletePromptSet removes the set and its versions; false when absent or
// not permitted.
func DeletePromptSet(db *gorm.DB, requester *models.User, id uint) (bool, error) {
	ps, err := GetPromptSet(db, requester, id)
	if err != nil || ps == nil {
		return false, err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prompt_set_id = ?", id).Delete(&models.Version{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PromptSet{}, id).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddVersion appends a version numbered one above the highest number ever
// assigned in the set. Deleted versions still anchor the sequence, so a
// number is never handed out twice.
func AddVersion(db *gorm.DB, requester *models.User, setID uint, text, notes, tags string) (*models.Version, error) {
	ps, err := GetPromptSet(db, requester, setID)
	if err != nil || ps == nil {
		return nil, err
	}
	var v models.Version
	err = db.Transaction(func(tx *gorm.DB) error {
		var maxNum int
		row := tx.Unscoped().Model(&models.Version{}).
			Where("prompt_set_id = ?", setID).
			Select("COALESCE(MAX(version_number), 0)").
			Row()
		if err := row.Scan(&maxNum); err != nil {
			return err
		}
		v = models.Version{
			PromptSetID:   setID,
			VersionNumber: maxNum + 1,
			PromptText:    text,
			Notes:         notes,
			Tags:          tags,
		}
		return tx.Create(&v).Error
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVersion returns a version the requester may see, or nil.
func GetVersion(db *gorm.DB, requester *models.User, versionID uint) (*models.Version, error) {
	var v models.Version
	err := db.First(&v, versionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ps, err := GetPromptSet(db, requester, v.PromptSetID)
	if err != nil || ps == nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVersion patches a version located by its id; false when absent or
// not permitted.
func UpdateVersion(db *gorm.DB, requester *models.User, versionID uint, patch VersionPatch) (bool, error) {
	v, err := GetVersion(db, requester, versionID)
	if err != nil || v == nil {
		return false, err
	}
	updates := map[string]interface{}{}
	if patch.PromptText != nil {
		updates["prompt_text"] = *patch.PromptText
	}
	if patch.ImageURL != nil {
		updates["image_url"] = *patch.ImageURL
	}
	if patch.VideoURL != nil {
		updates["video_url"] = *patch.VideoURL
	}
	if patch.GeneratedAt != nil {
		updates["generated_at"] = *patch.GeneratedAt
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.Tags != nil {
		updates["tags"] = *patch.Tags
	}
	if len(updates) == 0 {
		return true, nil
	}
	if err := db.Model(&models.Version{}).Where("id = ?", versionID).Updates(updates).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeleteVersion removes a version; false when absent or not permitted.
// Surviving versions keep their numbers.
func DeleteVersion(db *gorm.DB, requester *models.User, versionID uint) (bool, error) {
	v, err := GetVersion(db, requester, versionID)
	if err != nil || v == nil {
		return false, err
	}
	if err := db.Delete(&models.Version{}, versionID).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DuplicatePromptSet deep-copies a set and all its versions under fresh ids
// for newOwnerID, preserving content and relative order.
func DuplicatePromptSet(db *gorm.DB, requester *models.User, id, newOwnerID uint) (*models.PromptSet, error) {
	src, err := GetPromptSet(db, requester, id)
	if err != nil || src == nil {
		return nil, err
	}
	snap := models.SnapshotOf(src)
	return ClonePromptSetFromSnapshot(db, newOwnerID, snap)
}

// ClonePromptSetFromSnapshot materializes a snapshot as a brand-new set
// owned by ownerID. Used by duplication and share acceptance.
func ClonePromptSetFromSnapshot(db *gorm.DB, ownerID uint, snap models.PromptSetSnapshot) (*models.PromptSet, error) {
	clone := models.PromptSet{
		OwnerID:     ownerID,
		Title:       snap.Title,
		Description: snap.Description,
		Notes:       snap.Notes,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clone).Error; err != nil {
			return err
		}
		for _, vs := range snap.Versions {
			v := models.Version{
				PromptSetID:   clone.ID,
				VersionNumber: vs.VersionNumber,
				PromptText:    vs.PromptText,
				ImageURL:      vs.ImageURL,
				VideoURL:      vs.VideoURL,
				GeneratedAt:   vs.GeneratedAt,
				Notes:         vs.Notes,
				Tags:          vs.Tags,
			}
			if err := tx.Create(&v).Error; err != nil {
				return err
			}
			clone.Versions = append(clone.Versions, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}
