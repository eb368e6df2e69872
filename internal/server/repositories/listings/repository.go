// Package listings stores property listings and serves the owner's view of
// them.
package listings

import (
	"context"

	"github.com/dmitrijs2005/realestate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	ListByUser(ctx context.Context, userID string) ([]*models.OwnedListing, error)
}
