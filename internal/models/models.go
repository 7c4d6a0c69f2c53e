package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents an authenticated user
type User struct {
	gorm.Model
	Email              string `gorm:"uniqueIndex"`
	DisplayName        string
	PasswordHash       string
	Role               string `gorm:"default:member"`
	DirectoryVisible   bool   `gorm:"default:true"`
	DefaultAspectRatio string
	BackgroundStyle    string
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PromptSet is a titled collection of ordered prompt versions owned by one user
type PromptSet struct {
	gorm.Model
	OwnerID     uint `gorm:"index"`
	Title       string
	Description string
	CategoryID  *uint // left dangling after category deletion = uncategorized
	Notes       string
	Versions    []Version `gorm:"foreignKey:PromptSetID"`
}

// Version is one revision of prompt text plus optional generated media.
// VersionNumber is monotonic per set: always max+1, never reused after deletion.
type Version struct {
	gorm.Model
	PromptSetID   uint `gorm:"index"`
	VersionNumber int
	PromptText    string `gorm:"type:text"`
	ImageURL      string
	VideoURL      string
	GeneratedAt   *time.Time
	Notes         string
	Tags          string // comma-separated
}

// Category groups prompt sets. OwnerID nil means system-wide, visible to all.
type Category struct {
	gorm.Model
	Name        string
	Description string
	OwnerID     *uint `gorm:"index"`
	IsSystem    bool
}

// Share states.
const (
	ShareInTransit = "in_transit"
	ShareAccepted  = "accepted"
	ShareRejected  = "rejected"
)

// Share is a one-shot offer to copy a prompt-set snapshot to another user.
// Snapshot is the JSON-frozen prompt set captured at creation; later edits
// to the source never touch it.
type Share struct {
	gorm.Model
	PromptSetID uint
	Snapshot    string `gorm:"type:text"`
	SenderID    uint   `gorm:"index"`
	RecipientID uint   `gorm:"index"`
	State       string `gorm:"default:in_transit"`
	RespondedAt *time.Time
}

// Notification types.
const (
	NotifyShareReceived = "share_received"
	NotifyShareAccepted = "share_accepted"
	NotifyShareRejected = "share_rejected"
)

// Notification is a per-user feed entry created by the share workflow
type Notification struct {
	gorm.Model
	OwnerID uint `gorm:"index"`
	Type    string
	Message string
	ShareID *uint
	Read    bool `gorm:"default:false"`
}

// MediaImage references a generated image or video. Key is derived from
// (OwnerID, URL), so re-inserting the same URL for the same owner is a no-op.
type MediaImage struct {
	gorm.Model
	Key         string `gorm:"uniqueIndex"`
	OwnerID     uint   `gorm:"index"`
	URL         string
	PromptSetID *uint
	VersionID   *uint
}

// Backup types.
const (
	BackupPromptSets = "promptSet"
	BackupMedia      = "media"
	BackupAll        = "all"
)

// Backup is a write-once serialized export of a user's data
type Backup struct {
	gorm.Model
	OwnerID   uint `gorm:"index"`
	Type      string
	Content   string `gorm:"type:text"`
	Filename  string
	ObjectKey string // mirror in object storage, empty if the upload failed
}

// InviteLink resolves a random code to a user for directory-free sharing
type InviteLink struct {
	gorm.Model
	CreatorID uint   `gorm:"index"`
	Code      string `gorm:"uniqueIndex"`
	ExpiresAt *time.Time
}

// APIKey authenticates the external REST surface. Only the bcrypt hash of
// the full key is stored; the plaintext is shown once at creation.
type APIKey struct {
	gorm.Model
	OwnerID    uint `gorm:"index"`
	Name       string
	KeyHash    string
	KeyPrefix  string `gorm:"uniqueIndex"`
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
}

// PromptSetSnapshot is the serialized form frozen into Share.Snapshot and
// written to backup documents.
type PromptSetSnapshot struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Versions    []VersionSnapshot `json:"versions"`
}

// VersionSnapshot mirrors Version without database identity.
type VersionSnapshot struct {
	VersionNumber int        `json:"versionNumber"`
	PromptText    string     `json:"promptText"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	VideoURL      string     `json:"videoUrl,omitempty"`
	GeneratedAt   *time.Time `json:"generatedAt,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Tags          string     `json:"tags,omitempty"`
}

// SnapshotOf captures a deep, detached copy of a prompt set.
func SnapshotOf(ps *PromptSet) PromptSetSnapshot {
	snap := PromptSetSnapshot{
		Title:       ps.Title,
		Description: ps.Description,
		Notes:       ps.Notes,
	}
	for _, v := range ps.Versions {
		snap.Versions = append(snap.Versions, VersionSnapshot{
			VersionNumber: v.VersionNumber,
			PromptText:    v.PromptText,
			ImageURL:      v.ImageURL,
			VideoURL:      v.VideoURL,
			GeneratedAt:   v.GeneratedAt,
			Notes:         v.Notes,
			Tags:          v.Tags,
		})
	}
	return snap
}
