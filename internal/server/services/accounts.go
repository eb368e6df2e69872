package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/server/auth"
	"github.com/dmitrijs2005/realestate/internal/server/models"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/repomanager"
)

// AccountService serves the profile routes. Every operation acts on behalf
// of a verified identity and is limited to that identity's own account.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher) *AccountService {
	return &AccountService{db: db, repomanager: m, hasher: hasher}
}

// Update applies patch to account id. Only provided fields change and a new
// password is re-hashed. An empty patch returns the account unchanged.
func (s *AccountService) Update(ctx context.Context, actor *auth.Identity, id string, patch models.AccountPatch) (*models.Account, error) {
	if err := requireOwner(actor, id, "update"); err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)

	if patch.Empty() {
		return passThrough(repo.GetByID(ctx, id))
	}

	fields, err := s.toUpdateFields(patch)
	if err != nil {
		return nil, err
	}

	return passThrough(repo.Update(ctx, id, fields))
}

// UpdateProfilePic points the caller's account at a new picture URL.
func (s *AccountService) UpdateProfilePic(ctx context.Context, actor *auth.Identity, profilePic string) (*models.Account, error) {
	if actor == nil {
		return nil, common.ErrUnauthenticated
	}
	profilePic = strings.TrimSpace(profilePic)
	if profilePic == "" {
		return nil, fmt.Errorf("%w: profile picture is required", common.ErrValidation)
	}

	return passThrough(s.repomanager.Accounts(s.db).Update(ctx, actor.ID, accounts.UpdateFields{ProfilePic: &profilePic}))
}

// Delete removes account id. Tokens already issued for it stay valid until
// they expire; lookups through them report not found.
func (s *AccountService) Delete(ctx context.Context, actor *auth.Identity, id string) error {
	if err := requireOwner(actor, id, "delete"); err != nil {
		return err
	}

	err := s.repomanager.Accounts(s.db).Delete(ctx, id)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return internal(err)
	}
	return err
}

// Listings returns the listings owned by account id.
func (s *AccountService) Listings(ctx context.Context, actor *auth.Identity, id string) ([]*models.OwnedListing, error) {
	if err := requireOwner(actor, id, "view listings of"); err != nil {
		return nil, err
	}

	items, err := s.repomanager.Listings(s.db).ListByUser(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	return items, nil
}

func (s *AccountService) toUpdateFields(patch models.AccountPatch) (accounts.UpdateFields, error) {
	var f accounts.UpdateFields

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return f, fmt.Errorf("%w: name must not be empty", common.ErrValidation)
		}
		f.Name = &name
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return f, fmt.Errorf("%w: email must not be empty", common.ErrValidation)
		}
		f.Email = &email
	}
	if patch.ProfilePic != nil {
		pic := strings.TrimSpace(*patch.ProfilePic)
		if pic == "" {
			return f, fmt.Errorf("%w: profile picture must not be empty", common.ErrValidation)
		}
		f.ProfilePic = &pic
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return f, fmt.Errorf("%w: password must not be empty", common.ErrValidation)
		}
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			if errors.Is(err, common.ErrValidation) {
				return f, err
			}
			return f, internal(err)
		}
		f.PasswordHash = &hash
	}

	return f, nil
}

func requireOwner(actor *auth.Identity, id, action string) error {
	if actor == nil {
		return common.ErrUnauthenticated
	}
	if actor.ID != id {
		return fmt.Errorf("%w: you can only %s your own account", common.ErrForbidden, action)
	}
	return nil
}

// passThrough keeps not-found, conflict and validation errors and folds
// everything else into common.ErrorInternal.
func passThrough(a *models.Account, err error) (*models.Account, error) {
	if err == nil {
		return a, nil
	}
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrConflict) || errors.Is(err, common.ErrValidation) {
		return nil, err
	}
	return nil, internal(err)
}
