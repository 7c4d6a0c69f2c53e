package stores

import (
	"strings"
	"testing"
	"time"

	"promptvault/internal/models"
)

func TestAPIKeyCreateAndAuthenticate(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)

	key, plaintext, err := CreateAPIKey(db, owner, "ci", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.HasPrefix(plaintext, "pv_") {
		t.Errorf("plaintext = %q, want pv_ prefix", plaintext)
	}
	if !strings.HasPrefix(plaintext, key.KeyPrefix+"_") {
		t.Errorf("plaintext %q must start with stored prefix %q", plaintext, key.KeyPrefix)
	}
	if key.KeyHash == plaintext || key.KeyHash == "" {
		t.Error("plaintext must never be stored")
	}

	user, authed, err := AuthenticateAPIKey(db, plaintext)
	if err != nil || user == nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.ID != owner.ID || authed.ID != key.ID {
		t.Errorf("resolved user %d key %d, want %d / %d", user.ID, authed.ID, owner.ID, key.ID)
	}
	if authed.LastUsedAt == nil {
		t.Error("last_used_at not stamped")
	}
}

func TestAPIKeyRejectsBadCredentials(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	key, plaintext, err := CreateAPIKey(db, owner, "ci", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cases := map[string]string{
		"wrong secret":     key.KeyPrefix + "_deadbeefdeadbeefdeadbeefdeadbeef",
		"unknown prefix":   "pv_zzzzzzzz_deadbeefdeadbeefdeadbeefdeadbeef",
		"no pv prefix":     strings.TrimPrefix(plaintext, "pv_"),
		"empty":            "",
		"truncated":        plaintext[:8],
		"missing sections": "pv_abc",
	}
	for name, presented := range cases {
		user, _, err := AuthenticateAPIKey(db, presented)
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
		if user != nil {
			t.Errorf("%s: authenticated as %d, want nil", name, user.ID)
		}
	}
}

func TestAPIKeyExpiry(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	past := time.Now().Add(-time.Minute)
	_, plaintext, err := CreateAPIKey(db, owner, "stale", &past)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	user, _, err := AuthenticateAPIKey(db, plaintext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Error("expired key must not authenticate")
	}
}

func TestAPIKeyDeleteRevokes(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "owner@test", models.RoleMember)
	other := createTestUser(t, db, "other@test", models.RoleMember)
	key, plaintext, _ := CreateAPIKey(db, owner, "ci", nil)

	if ok, _ := DeleteAPIKey(db, other, key.ID); ok {
		t.Error("another member must not delete the key")
	}
	if ok, err := DeleteAPIKey(db, owner, key.ID); err != nil || !ok {
		t.Fatalf("delete failed: ok=%v err=%v", ok, err)
	}
	user, _, _ := AuthenticateAPIKey(db, plaintext)
	if user != nil {
		t.Error("deleted key must not authenticate")
	}
}
