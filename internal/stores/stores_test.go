package stores

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"promptvault/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.PromptSet{},
		&models.Version{},
		&models.Share{},
		&models.Notification{},
		&models.MediaImage{},
		&models.Backup{},
		&models.InviteLink{},
		&models.APIKey{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		DisplayName:  email,
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return &user
}

func createTestSet(t *testing.T, db *gorm.DB, owner *models.User, title string, prompts ...string) *models.PromptSet {
	t.Helper()
	ps, err := CreatePromptSet(db, owner, title, "", "", nil)
	if err != nil {
		t.Fatalf("failed to create prompt set: %v", err)
	}
	for _, p := range prompts {
		if _, err := AddVersion(db, owner, ps.ID, p, "", ""); err != nil {
			t.Fatalf("failed to add version: %v", err)
		}
	}
	full, err := GetPromptSet(db, owner, ps.ID)
	if err != nil || full == nil {
		t.Fatalf("failed to reload prompt set: %v", err)
	}
	return full
}
