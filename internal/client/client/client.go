package client

import (
	"context"

	"github.com/dmitrijs2005/realestate/internal/client/models"
)

// AuthResponse is what signup, signin and OAuth signin return.
type AuthResponse struct {
	Message string         `json:"message"`
	User    models.Account `json:"user"`
	Token   string         `json:"token"`
	Created bool           `json:"-"`
}

type Client interface {
	SetToken(token string)
	Signup(ctx context.Context, name, email, password string) (*AuthResponse, error)
	Signin(ctx context.Context, email, password string) (*AuthResponse, error)
	OAuthSignin(ctx context.Context, name, email, profilePic string) (*AuthResponse, error)
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, id string, u models.ProfileUpdate) (*models.Account, error)
	UpdateProfilePic(ctx context.Context, profilePic string) (*models.Account, error)
	DeleteUser(ctx context.Context, id string) error
	Listings(ctx context.Context, userID string) ([]models.Listing, error)
	CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error)
	Presign(ctx context.Context, contentType string) (*models.UploadTicket, error)
	Ping(ctx context.Context) error
}
