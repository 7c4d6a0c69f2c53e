package stores

import (
	"errors"
	"strings"
	"testing"

	"promptvault/internal/models"
)

func TestShareSnapshotIsFrozen(t *testing.T) {
	db := openTestDB(t)
	sender := createTestUser(t, db, "sender@test", models.RoleMember)
	recipient := createTestUser(t, db, "recipient@test", models.RoleMember)
	ps := createTestSet(t, db, sender, "Shared", "original text")

	share, err := CreateShare(db, sender, ps.ID, recipient.ID)
	if err != nil || share == nil {
		t.Fatalf("create share failed: %v", err)
	}

	// Mutate the source after sharing; the snapshot must not move.
	text := "edited after share"
	if ok, err := UpdateVersion(db, sender, ps.Versions[0].ID, VersionPatch{PromptText: &text}); err != nil || !ok {
		t.Fatalf("update failed: ok=%v err=%v", ok, err)
	}

	clone, err := AcceptShare(db, recipient, share.ID, nil)
	if err != nil || clone == nil {
		t.Fatalf("accept failed: %v", err)
	}
	if clone.OwnerID != recipient.ID {
		t.Errorf("clone owner = %d, want recipient %d", clone.OwnerID, recipient.ID)
	}
	if len(clone.Versions) != 1 || clone.Versions[0].PromptText != "original text" {
		t.Errorf("clone must carry the frozen text, got %+v", clone.Versions)
	}
}

func TestShareAcceptIsOneShot(t *testing.T) {
	db := openTestDB(t)
	sender := createTestUser(t, db, "sender@test", models.RoleMember)
	recipient := createTestUser(t, db, "recipient@test", models.RoleMember)
	ps := createTestSet(t, db, sender, "Shared", "text")

	share, err := CreateShare(db, sender, ps.ID, recipient.ID)
	if err != nil || share == nil {
		t.Fatalf("create share failed: %v", err)
	}
	if _, err := AcceptShare(db, recipient, share.ID, nil); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := AcceptShare(db, recipient, share.ID, nil); !errors.Is(err, ErrShareResolved) {
		t.Errorf("second accept: got %v, want ErrShareResolved", err)
	}
	if _, err := RejectShare(db, recipient, share.ID); !errors.Is(err, ErrShareResolved) {
		t.Errorf("reject after accept: got %v, want ErrShareResolved", err)
	}

	// Accepting twice must not have cloned twice.
	sets, _ := ListPromptSets(db, recipient, 0)
	if len(sets) != 1 {
		t.Errorf("expected exactly 1 cloned set, got %d", len(sets))
	}
}

func TestShareRejectLeavesNoClone(t *testing.T) {
	db := openTestDB(t)
	sender := createTestUser(t, db, "sender@test", models.RoleMember)
	recipient := createTestUser(t, db, "recipient@test", models.RoleMember)
	ps := createTestSet(t, db, sender, "Shared", "text")

	share, _ := CreateShare(db, sender, ps.ID, recipient.ID)
	ok, err := RejectShare(db, recipient, share.ID)
	if err != nil || !ok {
		t.Fatalf("reject failed: ok=%v err=%v", ok, err)
	}
	sets, _ := ListPromptSets(db, recipient, 0)
	if len(sets) != 0 {
		t.Errorf("reject must not clone, got %d sets", len(sets))
	}

	var reloaded models.Share
	db.First(&reloaded, share.ID)
	if reloaded.State != models.ShareRejected {
		t.Errorf("state = %q, want rejected", reloaded.State)
	}
	if reloaded.RespondedAt == nil {
		t.Error("responded_at not stamped")
	}
}

func TestShareOnlyRecipientMayRespond(t *testing.T) {
	db := openTestDB(t)
	sender := createTestUser(t, db, "sender@test", models.RoleMember)
	recipient := createTestUser(t, db, "recipient@test", models.RoleMember)
	outsider := createTestUser(t, db, "outsider@test", models.RoleMember)
	ps := createTestSet(t, db, sender, "Shared", "text")

	share, _ := CreateShare(db, sender, ps.ID, recipient.ID)

	clone, err := AcceptShare(db, outsider, share.ID, nil)
	if err != nil || clone != nil {
		t.Errorf("outsider accept: clone=%v err=%v, want nil/nil", clone, err)
	}
	clone, err = AcceptShare(db, sender, share.ID, nil)
	if err != nil || clone != nil {
		t.Errorf("sender accept: clone=%v err=%v, want nil/nil", clone, err)
	}
}

func TestShareNotificationsReachBothParties(t *testing.T) {
	db := openTestDB(t)
	sender := createTestUser(t, db, "sender@test", models.RoleMember)
	recipient := createTestUser(t, db, "recipient@test", models.RoleMember)
	ps := createTestSet(t, db, sender, "Sunset prompts", "text")

	share, _ := CreateShare(db, sender, ps.ID, recipient.ID)

	notes, _ := ListNotifications(db, recipient)
	if len(notes) != 1 || notes[0].Type != models.NotifyShareReceived {
		t.Fatalf("recipient feed = %+v, want one share_received", notes)
	}
	if !strings.Contains(notes[0].Message, "Sunset prompts") {
		t.Errorf("message %q should name the set", notes[0].Message)
	}

	if _, err := AcceptShare(db, recipient, share.ID, nil); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	notes, _ = ListNotifications(db, sender)
	if len(notes) != 1 || notes[0].Type != models.NotifyShareAccepted {
		t.Fatalf("sender feed = %+v, want one share_accepted", notes)
	}

	unread, _ := UnreadNotificationCount(db, sender)
	if unread != 1 {
		t.Errorf("sender unread = %d, want 1", unread)
	}
	if ok, _ := MarkNotificationRead(db, sender, notes[0].ID); !ok {
		t.Error("mark read failed")
	}
	unread, _ = UnreadNotificationCount(db, sender)
	if unread != 0 {
		t.Errorf("sender unread after read = %d, want 0", unread)
	}
}

func TestAcceptShareMapsMediaURLs(t *testing.T) {
	db := openTestDB(t)
	sender := createTestUser(t, db, "sender@test", models.RoleMember)
	recipient := createTestUser(t, db, "recipient@test", models.RoleMember)
	ps := createTestSet(t, db, sender, "Shared", "text")

	img := "https://vault.example/media/abc.png"
	if ok, err := UpdateVersion(db, sender, ps.Versions[0].ID, VersionPatch{ImageURL: &img}); err != nil || !ok {
		t.Fatalf("seed image: ok=%v err=%v", ok, err)
	}

	share, _ := CreateShare(db, sender, ps.ID, recipient.ID)
	mapped := "https://vault.example/media/copy.png"
	clone, err := AcceptShare(db, recipient, share.ID, func(url string) string {
		if url != img {
			t.Errorf("mapURL got %q, want %q", url, img)
		}
		return mapped
	})
	if err != nil || clone == nil {
		t.Fatalf("accept failed: %v", err)
	}

	media, _ := ListMedia(db, recipient)
	if len(media) != 1 || media[0].URL != mapped {
		t.Fatalf("recipient media = %+v, want one row with mapped URL", media)
	}

	// The cloned version and the media row must agree; the sender deleting
	// their copy must not leave the clone pointing at a dead URL.
	if clone.Versions[0].ImageURL != mapped {
		t.Errorf("clone version image = %q, want %q", clone.Versions[0].ImageURL, mapped)
	}
	persisted, _ := GetPromptSet(db, recipient, clone.ID)
	if persisted.Versions[0].ImageURL != mapped {
		t.Errorf("persisted version image = %q, want %q", persisted.Versions[0].ImageURL, mapped)
	}
}

func TestShareCorruptSnapshotIsAnError(t *testing.T) {
	db := openTestDB(t)
	sender := createTestUser(t, db, "sender@test", models.RoleMember)
	recipient := createTestUser(t, db, "recipient@test", models.RoleMember)

	share := models.Share{
		PromptSetID: 1,
		Snapshot:    "{not json",
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		State:       models.ShareInTransit,
	}
	if err := db.Create(&share).Error; err != nil {
		t.Fatalf("seed share: %v", err)
	}

	if _, err := AcceptShare(db, recipient, share.ID, nil); err == nil {
		t.Error("accept must fail on a corrupt snapshot")
	}
	if ok, err := RejectShare(db, recipient, share.ID); err == nil || ok {
		t.Errorf("reject on corrupt snapshot: ok=%v err=%v, want error", ok, err)
	}

	// Neither call may have consumed the share.
	var reloaded models.Share
	db.First(&reloaded, share.ID)
	if reloaded.State != models.ShareInTransit {
		t.Errorf("state = %q, want in_transit", reloaded.State)
	}
}
