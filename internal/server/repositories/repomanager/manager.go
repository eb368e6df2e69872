package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/realestate/internal/dbx"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/listings"
)

// RepositoryManager hands out repositories bound to a DB handle or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Listings(db dbx.DBTX) listings.Repository
}
