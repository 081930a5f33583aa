package models

import (
	"errors"
	"strings"
	"time"

	"predictor/db"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("Invalid Credentials")
	ErrDuplicateUsername  = errors.New("User already exists")
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	Username  string `gorm:"type:varchar(150);index:uniq_username,unique"`
	Password  string `gorm:"type:varchar(128)"` // bcrypt hash, never the plain text
}

// NormalizeUsername is applied on every write and lookup so that
// "Alice " and "alice" refer to the same account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func UserCreate(username, plainTextPassword string) (u User, err error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(plainTextPassword) == "" {
		return User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.Username = NormalizeUsername(username)
	u.Password = string(hash)
	u.CreatedAt = time.Now().Unix()
	if err = db.Instance.Create(&u).Error; err != nil {
		// The unique index is the arbiter: concurrent registrations of the
		// same name both reach the insert, only one can win
		var existing User
		if db.Instance.First(&existing, "username = ?", u.Username).Error == nil {
			return User{}, ErrDuplicateUsername
		}
		return User{}, err
	}
	return u, nil
}

// UserVerify checks the given credentials and returns the matching user ID.
// A missing user or a wrong password is a normal outcome, not an error.
func UserVerify(username, plainTextPassword string) (id uint64, ok bool) {
	if username == "" || plainTextPassword == "" {
		return 0, false
	}
	var u User
	if db.Instance.First(&u, "username = ?", NormalizeUsername(username)).Error != nil {
		return 0, false
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) != nil {
		return 0, false
	}
	return u.ID, true
}
