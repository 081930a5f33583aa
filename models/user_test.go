package models

import (
	"errors"
	"testing"

	"predictor/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	instance, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test DB: %v", err)
	}
	db.Instance = instance
	Init()
	db.Instance.Exec("DELETE FROM detection_objects")
	db.Instance.Exec("DELETE FROM prediction_sessions")
	db.Instance.Exec("DELETE FROM users")
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase kept", "alice", "alice"},
		{"mixed case", "AlIcE", "alice"},
		{"whitespace trimmed", "  Alice \t", "alice"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeUsername(tt.in); got != tt.want {
				t.Errorf("NormalizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUserCreateValidation(t *testing.T) {
	setupTestDB(t)
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "secret"},
		{"empty password", "alice", ""},
		{"whitespace username", "   ", "secret"},
		{"whitespace password", "alice", " \t "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UserCreate(tt.username, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("UserCreate(%q, %q) err = %v, want ErrInvalidCredentials", tt.username, tt.password, err)
			}
		})
	}
}

func TestUserCreateNormalizedDuplicate(t *testing.T) {
	setupTestDB(t)
	if _, err := UserCreate("Alice ", "secret"); err != nil {
		t.Fatalf("first UserCreate: %v", err)
	}
	if _, err := UserCreate("alice", "other"); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("second UserCreate err = %v, want ErrDuplicateUsername", err)
	}
	// The loser's insert must not leave a second row behind
	var count int64
	db.Instance.Model(&User{}).Where("username = ?", "alice").Count(&count)
	if count != 1 {
		t.Errorf("rows for alice = %d, want 1", count)
	}
}

func TestUserVerify(t *testing.T) {
	setupTestDB(t)
	u, err := UserCreate("Bob", "hunter2")
	if err != nil {
		t.Fatalf("UserCreate: %v", err)
	}
	if u.Password == "hunter2" {
		t.Fatal("password stored in plain text")
	}

	id, ok := UserVerify("bob", "hunter2")
	if !ok || id != u.ID {
		t.Errorf("UserVerify(bob) = (%d, %v), want (%d, true)", id, ok, u.ID)
	}
	// Same normalization applies at lookup time
	if _, ok := UserVerify(" BOB ", "hunter2"); !ok {
		t.Error("UserVerify should normalize the username")
	}
	if _, ok := UserVerify("bob", "wrong"); ok {
		t.Error("UserVerify accepted a wrong password")
	}
	if _, ok := UserVerify("nosuch", "hunter2"); ok {
		t.Error("UserVerify accepted an unknown user")
	}
	if _, ok := UserVerify("", ""); ok {
		t.Error("UserVerify accepted empty credentials")
	}
}
