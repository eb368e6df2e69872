// Package accounts is the credential store: account records keyed by id with
// unique name and email.
package accounts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/server/models"
)

// Unique constraint names from the accounts migration.
const (
	NameConstraint  = "accounts_name_key"
	EmailConstraint = "accounts_email_key"
)

var (
	ErrNameTaken  = fmt.Errorf("%w: name", common.ErrConflict)
	ErrEmailTaken = fmt.Errorf("%w: email", common.ErrConflict)
)

// UpdateFields is the storage form of a profile patch. PasswordHash is
// already hashed. Nil fields are left unchanged.
type UpdateFields struct {
	Name         *string
	Email        *string
	PasswordHash *string
	ProfilePic   *string
}

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Update(ctx context.Context, id string, f UpdateFields) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}
