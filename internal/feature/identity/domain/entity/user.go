// Package entity defines the domain entities for the identity feature.
package entity

import "time"

// User represents a registered account in the system.
// It carries the credentials plus the single-use token used for both
// initial email verification and password reset.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`

	// Email is the user's email address used for login.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`

	// Password is the bcrypt hash of the user's password.
	// This must never store plaintext passwords.
	Password string `gorm:"size:255;not null" json:"-"`

	// Name is the display name given at registration.
	Name string `gorm:"size:255;not null" json:"name"`

	// Phone is the contact phone number given at registration.
	Phone string `gorm:"size:64;not null" json:"phone"`

	// Verified becomes true exactly once, when the account's
	// verification token is consumed. It never goes back to false.
	Verified bool `gorm:"default:false" json:"verified"`

	// Token holds the outstanding single-use token, or "" when none is
	// outstanding. Issuing a new token overwrites the previous one.
	Token string `gorm:"index;size:64" json:"-"`

	// Admin marks accounts allowed to use the admin endpoints.
	Admin bool `gorm:"default:false" json:"admin"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}
