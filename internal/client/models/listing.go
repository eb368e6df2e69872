package models

import "time"

// MaxListingImages is the most images the server accepts on a listing.
const MaxListingImages = 6

type Listing struct {
	ID            string        `json:"id,omitempty"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Address       string        `json:"address"`
	Type          string        `json:"type"`
	Parking       bool          `json:"parking"`
	Furnished     bool          `json:"furnished"`
	Offer         bool          `json:"offer"`
	Bedrooms      int           `json:"bedrooms"`
	Bathrooms     int           `json:"bathrooms"`
	RegularPrice  int64         `json:"regularPrice"`
	DiscountPrice int64         `json:"discountPrice"`
	ImageURLs     []string      `json:"imageUrls"`
	UserRef       string        `json:"userRef"`
	Owner         *ListingOwner `json:"owner,omitempty"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
}

type ListingOwner struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

// UploadTicket is where to PUT an image and where it is served from later.
type UploadTicket struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}
