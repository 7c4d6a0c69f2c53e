package stores

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"promptvault/internal/models"
)

// ErrShareResolved is returned when accept/reject is invoked on a share
// that already left the in-transit state. The transition is one-shot.
var ErrShareResolved = errors.New("share already resolved")

// CreateShare freezes a snapshot of the sender's prompt set into a new
// in-transit share and notifies the recipient. The snapshot is immutable:
// later edits to the source set never alter it.
func CreateShare(db *gorm.DB, sender *models.User, setID, recipientID uint) (*models.Share, error) {
	ps, err := GetPromptSet(db, sender, setID)
	if err != nil || ps == nil {
		return nil, err
	}
	var recipient models.User
	if err := db.First(&recipient, recipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	raw, err := json.Marshal(models.SnapshotOf(ps))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	share := models.Share{
		PromptSetID: setID,
		Snapshot:    string(raw),
		SenderID:    sender.ID,
		RecipientID: recipientID,
		State:       models.ShareInTransit,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&share).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("%s shared the prompt set %q with you", sender.DisplayName, ps.Title)
		return createNotification(tx, recipientID, models.NotifyShareReceived, msg, &share.ID)
	})
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// shareForRecipient loads a share addressed to the requester, or nil.
func shareForRecipient(db *gorm.DB, requester *models.User, shareID uint) (*models.Share, error) {
	var share models.Share
	err := db.First(&share, shareID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if share.RecipientID != requester.ID {
		return nil, nil
	}
	return &share, nil
}

// AcceptShare clones the frozen snapshot into a brand-new prompt set owned
// by the recipient, registers the snapshot's media for them, flips the
// share to accepted and notifies the sender, all in one transaction.
// mapURL, if non-nil, may rewrite each media URL (e.g. to a freshly
// duplicated storage object) before registration.
func AcceptShare(db *gorm.DB, requester *models.User, shareID uint, mapURL func(string) string) (*models.PromptSet, error) {
	share, err := shareForRecipient(db, requester, shareID)
	if err != nil || share == nil {
		return nil, err
	}
	if share.State != models.ShareInTransit {
		return nil, ErrShareResolved
	}
	var snap models.PromptSetSnapshot
	if err := json.Unmarshal([]byte(share.Snapshot), &snap); err != nil {
		return nil, fmt.Errorf("corrupt share snapshot: %w", err)
	}

	var clone *models.PromptSet
	err = db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		// Guarded update makes the transition one-shot even under
		// concurrent accept/reject calls.
		res := tx.Model(&models.Share{}).
			Where("id = ? AND state = ?", share.ID, models.ShareInTransit).
			Updates(map[string]interface{}{"state": models.ShareAccepted, "responded_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrShareResolved
		}

		clone, err = ClonePromptSetFromSnapshot(tx, requester.ID, snap)
		if err != nil {
			return err
		}
		for i := range clone.Versions {
			v := &clone.Versions[i]
			fields := []struct {
				column string
				url    *string
			}{
				{"image_url", &v.ImageURL},
				{"video_url", &v.VideoURL},
			}
			updates := map[string]interface{}{}
			for _, f := range fields {
				if *f.url == "" {
					continue
				}
				url := *f.url
				if mapURL != nil {
					url = mapURL(url)
				}
				// The cloned version must reference the same URL as the
				// recipient's media row, not the sender's original.
				if url != *f.url {
					*f.url = url
					updates[f.column] = url
				}
				setID, versionID := clone.ID, v.ID
				if _, _, err := AddMediaImage(tx, requester, url, &setID, &versionID); err != nil {
					return err
				}
			}
			if len(updates) > 0 {
				if err := tx.Model(&models.Version{}).Where("id = ?", v.ID).Updates(updates).Error; err != nil {
					return err
				}
			}
		}

		msg := fmt.Sprintf("%s accepted your shared prompt set %q", requester.DisplayName, snap.Title)
		return createNotification(tx, share.SenderID, models.NotifyShareAccepted, msg, &share.ID)
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// RejectShare flips an in-transit share to rejected and notifies the
// sender. No cloning happens.
func RejectShare(db *gorm.DB, requester *models.User, shareID uint) (bool, error) {
	share, err := shareForRecipient(db, requester, shareID)
	if err != nil || share == nil {
		return false, err
	}
	if share.State != models.ShareInTransit {
		return false, ErrShareResolved
	}
	var snap models.PromptSetSnapshot
	if err := json.Unmarshal([]byte(share.Snapshot), &snap); err != nil {
		return false, fmt.Errorf("corrupt share snapshot: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Share{}).
			Where("id = ? AND state = ?", share.ID, models.ShareInTransit).
			Updates(map[string]interface{}{"state": models.ShareRejected, "responded_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrShareResolved
		}
		msg := fmt.Sprintf("%s declined your shared prompt set %q", requester.DisplayName, snap.Title)
		return createNotification(tx, share.SenderID, models.NotifyShareRejected, msg, &share.ID)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListIncomingShares returns shares addressed to the requester, newest first.
func ListIncomingShares(db *gorm.DB, requester *models.User) ([]models.Share, error) {
	var shares []models.Share
	err := db.Where("recipient_id = ?", requester.ID).Order("created_at DESC").Find(&shares).Error
	return shares, err
}

// ListOutgoingShares returns shares the requester sent, newest first.
func ListOutgoingShares(db *gorm.DB, requester *models.User) ([]models.Share, error) {
	var shares []models.Share
	err := db.Where("sender_id = ?", requester.ID).Order("created_at DESC").Find(&shares).Error
	return shares, err
}
