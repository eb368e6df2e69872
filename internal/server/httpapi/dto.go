package httpapi

import (
	"time"

	"github.com/dmitrijs2005/realestate/internal/server/models"
	"github.com/dmitrijs2005/realestate/internal/server/services"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type oauthRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

type updateUserRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	ProfilePic *string `json:"profilePic"`
}

type profilePicRequest struct {
	ProfilePic string `json:"profilePic"`
}

type presignRequest struct {
	ContentType string `json:"contentType"`
}

type listingRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	Type          string   `json:"type"`
	Parking       bool     `json:"parking"`
	Furnished     bool     `json:"furnished"`
	Offer         bool     `json:"offer"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	RegularPrice  int64    `json:"regularPrice"`
	DiscountPrice int64    `json:"discountPrice"`
	ImageURLs     []string `json:"imageUrls"`
	UserRef       string   `json:"userRef"`
}

type userResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

type authResponse struct {
	Message string       `json:"message,omitempty"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

type userMessageResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type presignResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

type ownerResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

type listingResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Address       string         `json:"address"`
	Type          string         `json:"type"`
	Parking       bool           `json:"parking"`
	Furnished     bool           `json:"furnished"`
	Offer         bool           `json:"offer"`
	Bedrooms      int            `json:"bedrooms"`
	Bathrooms     int            `json:"bathrooms"`
	RegularPrice  int64          `json:"regularPrice"`
	DiscountPrice int64          `json:"discountPrice"`
	ImageURLs     []string       `json:"imageUrls"`
	UserRef       string         `json:"userRef"`
	Owner         *ownerResponse `json:"owner,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func toUser(a *models.Account) userResponse {
	return userResponse{ID: a.ID, Name: a.Name, Email: a.Email, ProfilePic: a.ProfilePic}
}

func toAuth(msg string, r *services.AuthResult) authResponse {
	return authResponse{Message: msg, User: toUser(r.Account), Token: r.Token}
}

func (r listingRequest) toModel() *models.Listing {
	return &models.Listing{
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		Type:          r.Type,
		Parking:       r.Parking,
		Furnished:     r.Furnished,
		Offer:         r.Offer,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		RegularPrice:  r.RegularPrice,
		DiscountPrice: r.DiscountPrice,
		ImageURLs:     r.ImageURLs,
		UserRef:       r.UserRef,
	}
}

func toListing(l *models.Listing) listingResponse {
	images := l.ImageURLs
	if images == nil {
		images = []string{}
	}
	return listingResponse{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		Address:       l.Address,
		Type:          l.Type,
		Parking:       l.Parking,
		Furnished:     l.Furnished,
		Offer:         l.Offer,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		RegularPrice:  l.RegularPrice,
		DiscountPrice: l.DiscountPrice,
		ImageURLs:     images,
		UserRef:       l.UserRef,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toOwnedListing(l *models.OwnedListing) listingResponse {
	out := toListing(&l.Listing)
	out.Owner = &ownerResponse{ID: l.Owner.ID, Name: l.Owner.Name, ProfilePic: l.Owner.ProfilePic}
	return out
}
