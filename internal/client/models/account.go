// Package models holds the shapes the client exchanges with the API and
// keeps in its session.
package models

// Account is the signed-in user as the server projects it.
type Account struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

// Complete reports whether every field a session needs is present.
func (a *Account) Complete() bool {
	return a != nil && a.ID != "" && a.Email != ""
}

// ProfileUpdate carries the fields to change; nil keeps the current value.
type ProfileUpdate struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	ProfilePic *string `json:"profilePic,omitempty"`
}
