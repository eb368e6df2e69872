package models

import "time"

const (
	ListingTypeRent = "rent"
	ListingTypeSell = "sell"
)

// MaxListingImages is the most images a listing may carry.
const MaxListingImages = 6

type Listing struct {
	ID            string
	Name          string
	Description   string
	Address       string
	Type          string
	Parking       bool
	Furnished     bool
	Offer         bool
	Bedrooms      int
	Bathrooms     int
	RegularPrice  int64
	DiscountPrice int64
	ImageURLs     []string
	UserRef       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListingOwner is the owner projection attached to listings returned to
// their owner.
type ListingOwner struct {
	ID         string
	Name       string
	ProfilePic string
}

type OwnedListing struct {
	Listing
	Owner ListingOwner
}
