package stores

import (
	"testing"

	"promptvault/internal/models"
)

func TestMediaKeyDeterministic(t *testing.T) {
	a := MediaKey(1, "https://example.com/a.png")
	b := MediaKey(1, "https://example.com/a.png")
	if a != b {
		t.Fatal("same inputs must produce the same key")
	}
	if MediaKey(2, "https://example.com/a.png") == a {
		t.Error("different owners must produce different keys")
	}
	if MediaKey(1, "https://example.com/b.png") == a {
		t.Error("different URLs must produce different keys")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}

func TestAddMediaImageDeduplicates(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	other := createTestUser(t, db, "other@test", models.RoleMember)

	first, created, err := AddMediaImage(db, owner, "https://example.com/x.png", nil, nil)
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}
	second, created, err := AddMediaImage(db, owner, "https://example.com/x.png", nil, nil)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Error("same owner+URL must not create a second row")
	}
	if second.ID != first.ID {
		t.Errorf("dedup returned different row: %d vs %d", second.ID, first.ID)
	}

	// A different owner registering the same URL gets their own row.
	_, created, err = AddMediaImage(db, other, "https://example.com/x.png", nil, nil)
	if err != nil || !created {
		t.Fatalf("other owner insert: created=%v err=%v", created, err)
	}
}

func TestSyncImagesFromVersionsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	ps := createTestSet(t, db, owner, "Set", "one", "two")

	img := "https://example.com/img.png"
	vid := "https://example.com/vid.mp4"
	if ok, err := UpdateVersion(db, owner, ps.Versions[0].ID, VersionPatch{ImageURL: &img}); err != nil || !ok {
		t.Fatalf("seed image url: ok=%v err=%v", ok, err)
	}
	if ok, err := UpdateVersion(db, owner, ps.Versions[1].ID, VersionPatch{ImageURL: &img, VideoURL: &vid}); err != nil || !ok {
		t.Fatalf("seed video url: ok=%v err=%v", ok, err)
	}

	added, err := SyncImagesFromVersions(db, owner)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	// The image URL appears twice but dedups to one row; plus the video.
	if added != 2 {
		t.Errorf("first sync added %d, want 2", added)
	}

	added, err = SyncImagesFromVersions(db, owner)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if added != 0 {
		t.Errorf("second sync added %d, want 0", added)
	}
}

func TestDeleteMediaOwnership(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	other := createTestUser(t, db, "other@test", models.RoleMember)

	img, _, err := AddMediaImage(db, owner, "https://example.com/x.png", nil, nil)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	deleted, err := DeleteMedia(db, other, img.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != nil {
		t.Error("non-owner must not delete media")
	}

	deleted, err = DeleteMedia(db, owner, img.ID)
	if err != nil || deleted == nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if deleted.URL != "https://example.com/x.png" {
		t.Errorf("deleted row URL = %q", deleted.URL)
	}
	media, _ := ListMedia(db, owner)
	if len(media) != 0 {
		t.Errorf("expected empty library, got %d rows", len(media))
	}
}
