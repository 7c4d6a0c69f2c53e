package stores

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"promptvault/internal/models"
	"promptvault/internal/utils"
)

// BackupDocument is the self-describing JSON file format. It round-trips
// through create → restore without losing prompt text, version ordering or
// media associations.
type BackupDocument struct {
	Type       string                     `json:"type"`
	CreatedAt  time.Time                  `json:"createdAt"`
	PromptSets []models.PromptSetSnapshot `json:"promptSets,omitempty"`
	Media      []BackupMediaRecord        `json:"media,omitempty"`
}

// BackupMediaRecord is one exported media reference.
type BackupMediaRecord struct {
	URL string `json:"url"`
}

// CreateBackup gathers the requester's prompt sets and/or media per typ,
// serializes them through the sanitization pass (the backing store rejects
// directly nested arrays) and persists the result as a write-once Backup.
func CreateBackup(db *gorm.DB, requester *models.User, typ string) (*models.Backup, error) {
	doc := BackupDocument{Type: typ, CreatedAt: time.Now()}

	if typ == models.BackupPromptSets || typ == models.BackupAll {
		sets, err := ListPromptSets(db, requester, requester.ID)
		if err != nil {
			return nil, err
		}
		for i := range sets {
			doc.PromptSets = append(doc.PromptSets, models.SnapshotOf(&sets[i]))
		}
	}
	if typ == models.BackupMedia || typ == models.BackupAll {
		media, err := ListMedia(db, requester)
		if err != nil {
			return nil, err
		}
		for _, m := range media {
			doc.Media = append(doc.Media, BackupMediaRecord{URL: m.URL})
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize backup: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to reparse backup: %w", err)
	}
	sanitized, err := json.Marshal(utils.SanitizeDocument(generic))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize sanitized backup: %w", err)
	}

	backup := models.Backup{
		OwnerID:  requester.ID,
		Type:     typ,
		Content:  string(sanitized),
		Filename: fmt.Sprintf("promptvault-%s-%s.json", typ, doc.CreatedAt.Format("2006-01-02-150405")),
	}
	if err := db.Create(&backup).Error; err != nil {
		return nil, err
	}
	return &backup, nil
}

// ListBackups returns the requester's backups, newest first.
func ListBackups(db *gorm.DB, requester *models.User) ([]models.Backup, error) {
	var backups []models.Backup
	err := db.Where("owner_id = ?", requester.ID).Order("created_at DESC").Find(&backups).Error
	return backups, err
}

// GetBackup returns one backup the requester may read, or nil.
func GetBackup(db *gorm.DB, requester *models.User, id uint) (*models.Backup, error) {
	var backup models.Backup
	err := db.First(&backup, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if backup.OwnerID != requester.ID && !requester.IsAdmin() {
		return nil, nil
	}
	return &backup, nil
}

// RestoreBackup re-creates the entities in content for the requester with
// fresh ids, inside one transaction: malformed content is rejected whole,
// never partially applied. Returns restored prompt-set and media counts.
func RestoreBackup(db *gorm.DB, requester *models.User, content string) (int, int, error) {
	var doc BackupDocument
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return 0, 0, fmt.Errorf("backup file is not valid JSON: %v", err)
	}
	switch doc.Type {
	case models.BackupPromptSets, models.BackupMedia, models.BackupAll:
	default:
		return 0, 0, fmt.Errorf("backup file has unknown type %q", doc.Type)
	}

	setsRestored, mediaRestored := 0, 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, snap := range doc.PromptSets {
			if _, err := ClonePromptSetFromSnapshot(tx, requester.ID, snap); err != nil {
				return err
			}
			setsRestored++
		}
		for _, rec := range doc.Media {
			if rec.URL == "" {
				continue
			}
			if _, _, err := AddMediaImage(tx, requester, rec.URL, nil, nil); err != nil {
				return err
			}
			mediaRestored++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return setsRestored, mediaRestored, nil
}
