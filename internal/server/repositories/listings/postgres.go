package listings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/dbx"
	"github.com/dmitrijs2005/realestate/internal/server/models"
)

// PostgresRepository implements listing storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts listing and fills in its id and timestamps. A userRef that
// does not name an existing account is a validation error.
func (r *PostgresRepository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if _, err := uuid.Parse(listing.UserRef); err != nil {
		return nil, fmt.Errorf("%w: userRef", common.ErrValidation)
	}

	images := listing.ImageURLs
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("marshal image urls: %w", err)
	}

	query := `
		INSERT INTO listings (name, description, address, type, parking, furnished, offer,
			bedrooms, bathrooms, regular_price, discount_price, image_urls, user_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		listing.Name, listing.Description, listing.Address, listing.Type,
		listing.Parking, listing.Furnished, listing.Offer,
		listing.Bedrooms, listing.Bathrooms, listing.RegularPrice, listing.DiscountPrice,
		string(imagesJSON), listing.UserRef,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: userRef", common.ErrValidation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	listing.ImageURLs = images
	return listing, nil
}

// ListByUser returns userID's listings, newest first, each with the owner's
// name and picture.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.OwnedListing, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []*models.OwnedListing{}, nil
	}

	query := `
		SELECT l.id, l.name, l.description, l.address, l.type, l.parking, l.furnished, l.offer,
			l.bedrooms, l.bathrooms, l.regular_price, l.discount_price, l.image_urls, l.user_ref,
			l.created_at, l.updated_at, a.id, a.name, a.profile_pic
		FROM listings l
		JOIN accounts a ON a.id = l.user_ref
		WHERE l.user_ref = $1
		ORDER BY l.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.OwnedListing{}
	for rows.Next() {
		var (
			item   models.OwnedListing
			images []byte
		)
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Address, &item.Type,
			&item.Parking, &item.Furnished, &item.Offer,
			&item.Bedrooms, &item.Bathrooms, &item.RegularPrice, &item.DiscountPrice,
			&images, &item.UserRef, &item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.Name, &item.Owner.ProfilePic,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal(images, &item.ImageURLs); err != nil {
			return nil, fmt.Errorf("decode image urls: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
