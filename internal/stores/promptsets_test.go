package stores

import (
	"testing"

	"promptvault/internal/models"
)

func TestVersionNumbersAreMonotonic(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	ps := createTestSet(t, db, owner, "Set", "one", "two", "three")

	if len(ps.Versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(ps.Versions))
	}
	for i, v := range ps.Versions {
		if v.VersionNumber != i+1 {
			t.Errorf("version %d has number %d", i, v.VersionNumber)
		}
	}

	// Delete the middle version; the next addition continues from the max.
	if ok, err := DeleteVersion(db, owner, ps.Versions[1].ID); err != nil || !ok {
		t.Fatalf("delete failed: ok=%v err=%v", ok, err)
	}
	v4, err := AddVersion(db, owner, ps.ID, "four", "", "")
	if err != nil {
		t.Fatalf("add after delete failed: %v", err)
	}
	if v4.VersionNumber != 4 {
		t.Errorf("expected version number 4 after deleting v2, got %d", v4.VersionNumber)
	}

	// Numbers of survivors never shift.
	reloaded, _ := GetPromptSet(db, owner, ps.ID)
	want := []int{1, 3, 4}
	if len(reloaded.Versions) != len(want) {
		t.Fatalf("expected %d versions, got %d", len(want), len(reloaded.Versions))
	}
	for i, v := range reloaded.Versions {
		if v.VersionNumber != want[i] {
			t.Errorf("position %d: number %d, want %d", i, v.VersionNumber, want[i])
		}
	}

	// Deleting the highest-numbered version must not free its number.
	if ok, err := DeleteVersion(db, owner, v4.ID); err != nil || !ok {
		t.Fatalf("delete max failed: ok=%v err=%v", ok, err)
	}
	v5, err := AddVersion(db, owner, ps.ID, "five", "", "")
	if err != nil {
		t.Fatalf("add after deleting max failed: %v", err)
	}
	if v5.VersionNumber != 5 {
		t.Errorf("expected version number 5 after deleting v4, got %d", v5.VersionNumber)
	}
}

func TestPromptSetOwnershipIsolation(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice@test", models.RoleMember)
	bob := createTestUser(t, db, "bob@test", models.RoleMember)
	admin := createTestUser(t, db, "admin@test", models.RoleAdmin)
	ps := createTestSet(t, db, alice, "Private", "secret prompt")

	got, err := GetPromptSet(db, bob, ps.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("another member must not read the set")
	}

	if ok, _ := UpdatePromptSet(db, bob, ps.ID, PromptSetPatch{}); ok {
		t.Error("another member must not update the set")
	}
	if ok, _ := DeletePromptSet(db, bob, ps.ID); ok {
		t.Error("another member must not delete the set")
	}

	got, err = GetPromptSet(db, admin, ps.ID)
	if err != nil || got == nil {
		t.Fatalf("admin should read any set: %v", err)
	}

	sets, err := ListPromptSets(db, bob, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 0 {
		t.Error("listing another member's sets must fall back to the requester's own")
	}
}

func TestUpdatePromptSetPatch(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	cat, err := CreateCategory(db, owner, "Portraits", "", false)
	if err != nil || cat == nil {
		t.Fatalf("failed to create category: %v", err)
	}
	ps := createTestSet(t, db, owner, "Old title")

	title := "New title"
	if ok, err := UpdatePromptSet(db, owner, ps.ID, PromptSetPatch{Title: &title, CategoryID: &cat.ID}); err != nil || !ok {
		t.Fatalf("update failed: ok=%v err=%v", ok, err)
	}
	got, _ := GetPromptSet(db, owner, ps.ID)
	if got.Title != "New title" {
		t.Errorf("title = %q", got.Title)
	}
	if got.CategoryID == nil || *got.CategoryID != cat.ID {
		t.Errorf("categoryID = %v, want %d", got.CategoryID, cat.ID)
	}

	if ok, err := UpdatePromptSet(db, owner, ps.ID, PromptSetPatch{ClearCategory: true}); err != nil || !ok {
		t.Fatalf("clear failed: ok=%v err=%v", ok, err)
	}
	got, _ = GetPromptSet(db, owner, ps.ID)
	if got.CategoryID != nil {
		t.Errorf("category not cleared: %v", got.CategoryID)
	}
	if got.Title != "New title" {
		t.Errorf("unrelated field changed: %q", got.Title)
	}
}

func TestDuplicatePromptSetIsDeepCopy(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	src := createTestSet(t, db, owner, "Original", "first", "second")

	clone, err := DuplicatePromptSet(db, owner, src.ID, owner.ID)
	if err != nil || clone == nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if clone.ID == src.ID {
		t.Fatal("clone must get a fresh id")
	}
	if len(clone.Versions) != 2 {
		t.Fatalf("expected 2 cloned versions, got %d", len(clone.Versions))
	}

	// Editing the clone must not touch the original.
	text := "edited"
	if ok, err := UpdateVersion(db, owner, clone.Versions[0].ID, VersionPatch{PromptText: &text}); err != nil || !ok {
		t.Fatalf("update failed: ok=%v err=%v", ok, err)
	}
	orig, _ := GetPromptSet(db, owner, src.ID)
	if orig.Versions[0].PromptText != "first" {
		t.Errorf("original mutated: %q", orig.Versions[0].PromptText)
	}
}

func TestDeletePromptSetRemovesVersions(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	ps := createTestSet(t, db, owner, "Doomed", "a", "b")

	if ok, err := DeletePromptSet(db, owner, ps.ID); err != nil || !ok {
		t.Fatalf("delete failed: ok=%v err=%v", ok, err)
	}
	var count int64
	db.Model(&models.Version{}).Where("prompt_set_id = ?", ps.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected no orphan versions, found %d", count)
	}
}
