package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/server/models"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/repomanager"
)

type ListingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewListingService(db *sql.DB, m repomanager.RepositoryManager) *ListingService {
	return &ListingService{db: db, repomanager: m}
}

// Create validates and stores a listing for the account named by UserRef.
func (s *ListingService) Create(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	if err := validateListing(l); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Listings(s.db).Create(ctx, l)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, internal(err)
	}
	return created, nil
}

func validateListing(l *models.Listing) error {
	l.Name = strings.TrimSpace(l.Name)
	l.Description = strings.TrimSpace(l.Description)
	l.Address = strings.TrimSpace(l.Address)

	var problems []string
	if l.Name == "" {
		problems = append(problems, "name is required")
	}
	if l.Description == "" {
		problems = append(problems, "description is required")
	}
	if l.Address == "" {
		problems = append(problems, "address is required")
	}
	if l.Type != models.ListingTypeRent && l.Type != models.ListingTypeSell {
		problems = append(problems, "type must be rent or sell")
	}
	if l.Bedrooms < 1 || l.Bathrooms < 1 {
		problems = append(problems, "bedrooms and bathrooms must be at least 1")
	}
	if l.RegularPrice <= 0 {
		problems = append(problems, "regular price must be positive")
	}
	if l.Offer && (l.DiscountPrice < 0 || l.DiscountPrice >= l.RegularPrice) {
		problems = append(problems, "discount price must be below regular price")
	}
	if !l.Offer {
		l.DiscountPrice = 0
	}
	if len(l.ImageURLs) > models.MaxListingImages {
		problems = append(problems, fmt.Sprintf("at most %d images", models.MaxListingImages))
	}
	if strings.TrimSpace(l.UserRef) == "" {
		problems = append(problems, "userRef is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}
