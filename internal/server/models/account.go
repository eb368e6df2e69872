package models

import "time"

// Account is a registered user. PasswordHash never leaves the server.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	ProfilePic   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountPatch lists the profile fields to change; nil means keep.
// Password is plaintext here and is hashed by the service before storage.
type AccountPatch struct {
	Name       *string
	Email      *string
	Password   *string
	ProfilePic *string
}

// Empty reports whether the patch changes nothing.
func (p AccountPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.ProfilePic == nil
}
