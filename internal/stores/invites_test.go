package stores

import (
	"testing"
	"time"

	"promptvault/internal/models"
)

func TestInviteLinkResolves(t *testing.T) {
	db := openTestDB(t)
	creator := createTestUser(t, db, "creator@test", models.RoleMember)

	link, err := CreateInviteLink(db, creator, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(link.Code) != 12 {
		t.Errorf("code length = %d, want 12", len(link.Code))
	}

	user, err := ResolveInviteLink(db, link.Code)
	if err != nil || user == nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if user.ID != creator.ID {
		t.Errorf("resolved user %d, want %d", user.ID, creator.ID)
	}

	if user, _ := ResolveInviteLink(db, "nosuchcode"); user != nil {
		t.Error("unknown code must resolve to nil")
	}
}

func TestExpiredInviteLink(t *testing.T) {
	db := openTestDB(t)
	creator := createTestUser(t, db, "creator@test", models.RoleMember)

	past := time.Now().Add(-time.Hour)
	link, err := CreateInviteLink(db, creator, &past)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if user, _ := ResolveInviteLink(db, link.Code); user != nil {
		t.Error("expired code must resolve to nil")
	}

	purged, err := PurgeExpiredInviteLinks(db)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged %d, want 1", purged)
	}
	var count int64
	db.Unscoped().Model(&models.InviteLink{}).Count(&count)
	if count != 0 {
		t.Errorf("expected hard delete, %d rows remain", count)
	}
}
