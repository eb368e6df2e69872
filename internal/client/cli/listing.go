package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/realestate/internal/client/models"
)

// Listings prints the listings owned by the signed-in account.
func (a *App) Listings(ctx context.Context) error {
	items, err := a.listings.Mine(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "You have no listings yet")
		return nil
	}

	fmt.Fprintf(a.out, "%-36s  %-4s  %10s  %s\n", "ID", "TYPE", "PRICE", "NAME")
	for _, l := range items {
		price := l.RegularPrice
		if l.Offer {
			price = l.DiscountPrice
		}
		fmt.Fprintf(a.out, "%-36s  %-4s  %10d  %s\n", l.ID, l.Type, price, l.Name)
	}
	return nil
}

// CreateListing collects a listing and its images, uploads the images
// concurrently with progress and submits the listing.
func (a *App) CreateListing(ctx context.Context) error {
	l, err := a.readListing()
	if err != nil {
		return a.fail(err)
	}

	images, err := GetList(a.reader, fmt.Sprintf("Image paths (1 to %d)", models.MaxListingImages), a.out)
	if err != nil {
		return err
	}

	created, err := a.listings.Create(ctx, *l, images, a.progress)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Listing created: %s\n", created.ID)
	return nil
}

func (a *App) readListing() (*models.Listing, error) {
	var l models.Listing
	var err error

	if l.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return nil, err
	}
	if l.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return nil, err
	}
	if l.Address, err = getSimpleText(a.reader, "Address", a.out); err != nil {
		return nil, err
	}
	if l.Type, err = getSimpleText(a.reader, "Type (rent or sell)", a.out); err != nil {
		return nil, err
	}
	l.Type = strings.ToLower(l.Type)
	if l.Type != "rent" && l.Type != "sell" {
		return nil, errors.New("type must be rent or sell")
	}

	for _, f := range []struct {
		prompt string
		dst    *bool
	}{
		{"Parking spot?", &l.Parking},
		{"Furnished?", &l.Furnished},
		{"Special offer?", &l.Offer},
	} {
		if *f.dst, err = GetYesNo(a.reader, f.prompt, a.out); err != nil {
			return nil, err
		}
	}

	beds, err := GetNumber(a.reader, "Bedrooms", a.out)
	if err != nil {
		return nil, err
	}
	baths, err := GetNumber(a.reader, "Bathrooms", a.out)
	if err != nil {
		return nil, err
	}
	l.Bedrooms, l.Bathrooms = int(beds), int(baths)

	if l.RegularPrice, err = GetNumber(a.reader, "Regular price", a.out); err != nil {
		return nil, err
	}
	if l.Offer {
		if l.DiscountPrice, err = GetNumber(a.reader, "Discounted price", a.out); err != nil {
			return nil, err
		}
	}
	return &l, nil
}
