package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field.
// ID stays empty until storage assigns one.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser builds an unsaved user with both timestamps set to now.
func NewUser(name, email, passwordHash string, now time.Time) *User {
	return &User{
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename, ChangeEmail and ChangePassword stamp UpdatedAt together with the field.

func (u *User) Rename(name string, now time.Time) {
	u.Name = name
	u.UpdatedAt = now
}

func (u *User) ChangeEmail(email string, now time.Time) {
	u.Email = email
	u.UpdatedAt = now
}

func (u *User) ChangePassword(passwordHash string, now time.Time) {
	u.Password = passwordHash
	u.UpdatedAt = now
}
