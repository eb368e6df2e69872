package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/realestate/internal/client/client"
	"github.com/dmitrijs2005/realestate/internal/client/models"
	"github.com/dmitrijs2005/realestate/internal/client/session"
)

type ListingService interface {
	// Create uploads images concurrently, waits for all of them and then
	// submits the listing owned by the signed-in account.
	Create(ctx context.Context, l models.Listing, images []string, progress func(UploadEvent)) (*models.Listing, error)
	Mine(ctx context.Context) ([]models.Listing, error)
}

type listingService struct {
	client  client.Client
	auth    AuthService
	uploads UploadService
}

func NewListingService(c client.Client, auth AuthService, uploads UploadService) ListingService {
	return &listingService{client: c, auth: auth, uploads: uploads}
}

func (s *listingService) owner() (string, error) {
	st := s.auth.State()
	if !st.IsSignedIn() {
		return "", fmt.Errorf("%w: not signed in", session.ErrInvalidTransition)
	}
	return st.Account.ID, nil
}

func (s *listingService) Create(ctx context.Context, l models.Listing, images []string, progress func(UploadEvent)) (*models.Listing, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("at least one image is required")
	}
	if len(images) > models.MaxListingImages {
		return nil, fmt.Errorf("at most %d images are allowed", models.MaxListingImages)
	}

	urls, err := s.uploads.UploadAll(ctx, images, progress)
	if err != nil {
		return nil, err
	}

	l.ImageURLs = urls
	l.UserRef = owner
	return s.client.CreateListing(ctx, &l)
}

func (s *listingService) Mine(ctx context.Context) ([]models.Listing, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return s.client.Listings(ctx, owner)
}
