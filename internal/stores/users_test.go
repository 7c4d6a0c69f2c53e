package stores

import (
	"testing"

	"promptvault/internal/models"
)

func TestUpdateUserSettings(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "user@test", models.RoleMember)

	name := "New Name"
	ratio := "16:9"
	visible := false
	err := UpdateUserSettings(db, user, UserSettingsPatch{
		DisplayName:        &name,
		DefaultAspectRatio: &ratio,
		DirectoryVisible:   &visible,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, _ := GetUser(db, user.ID)
	if got.DisplayName != "New Name" || got.DefaultAspectRatio != "16:9" || got.DirectoryVisible {
		t.Errorf("settings not applied: %+v", got)
	}
}

func TestDirectoryRespectsVisibility(t *testing.T) {
	db := openTestDB(t)
	visible := createTestUser(t, db, "visible@test", models.RoleMember)
	hiddenUser := createTestUser(t, db, "hidden@test", models.RoleMember)
	off := false
	if err := UpdateUserSettings(db, hiddenUser, UserSettingsPatch{DirectoryVisible: &off}); err != nil {
		t.Fatal(err)
	}

	users, err := ListDirectory(db)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != visible.ID {
		t.Errorf("directory = %+v, want only the visible user", users)
	}
}

func TestSetUserRole(t *testing.T) {
	db := openTestDB(t)
	admin := createTestUser(t, db, "admin@test", models.RoleAdmin)
	member := createTestUser(t, db, "member@test", models.RoleMember)

	if ok, _ := SetUserRole(db, member, admin.ID, models.RoleMember); ok {
		t.Error("member must not change roles")
	}
	if _, err := SetUserRole(db, admin, member.ID, "superuser"); err == nil {
		t.Error("unknown role must be rejected")
	}
	ok, err := SetUserRole(db, admin, member.ID, models.RoleAdmin)
	if err != nil || !ok {
		t.Fatalf("promote failed: ok=%v err=%v", ok, err)
	}
	got, _ := GetUser(db, member.ID)
	if !got.IsAdmin() {
		t.Errorf("role = %q, want admin", got.Role)
	}
}
