package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/cryptox"
	"github.com/dmitrijs2005/realestate/internal/dbx"
	"github.com/dmitrijs2005/realestate/internal/server/auth"
	"github.com/dmitrijs2005/realestate/internal/server/config"
	"github.com/dmitrijs2005/realestate/internal/server/models"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/listings"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memAccounts is an in-memory accounts.Repository with the same uniqueness
// rules as the database.
type memAccounts struct {
	mu   sync.Mutex
	byID map[string]*models.Account

	getErr    error
	createErr error
	updateErr error
	deleteErr error

	// nameTaken forces this many name conflicts before Create succeeds.
	nameTaken int
	// emailRace makes the next Create lose to a concurrent insert of the
	// same email.
	emailRace *models.Account

	creates int
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[string]*models.Account{}}
}

func (m *memAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates++
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.emailRace != nil {
		m.byID[m.emailRace.ID] = m.emailRace
		m.emailRace = nil
		return nil, accounts.ErrEmailTaken
	}
	if m.nameTaken > 0 {
		m.nameTaken--
		return nil, accounts.ErrNameTaken
	}
	for _, other := range m.byID {
		if other.Email == a.Email {
			return nil, accounts.ErrEmailTaken
		}
		if other.Name == a.Name {
			return nil, accounts.ErrNameTaken
		}
	}

	cp := *a
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, a := range m.byID {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}

func (m *memAccounts) Update(_ context.Context, id string, f accounts.UpdateFields) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateErr != nil {
		return nil, m.updateErr
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for oid, other := range m.byID {
		if oid == id {
			continue
		}
		if f.Name != nil && other.Name == *f.Name {
			return nil, accounts.ErrNameTaken
		}
		if f.Email != nil && other.Email == *f.Email {
			return nil, accounts.ErrEmailTaken
		}
	}
	if f.Name != nil {
		a.Name = *f.Name
	}
	if f.Email != nil {
		a.Email = *f.Email
	}
	if f.PasswordHash != nil {
		a.PasswordHash = *f.PasswordHash
	}
	if f.ProfilePic != nil {
		a.ProfilePic = *f.ProfilePic
	}
	a.UpdatedAt = time.Now()
	out := *a
	return &out, nil
}

func (m *memAccounts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memAccounts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memListings struct {
	items     []*models.Listing
	createErr error
	listErr   error
	owners    *memAccounts
}

func (m *memListings) Create(_ context.Context, l *models.Listing) (*models.Listing, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	cp := *l
	cp.ID = uuid.NewString()
	m.items = append(m.items, &cp)
	return &cp, nil
}

func (m *memListings) ListByUser(ctx context.Context, userID string) ([]*models.OwnedListing, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*models.OwnedListing{}
	for _, l := range m.items {
		if l.UserRef != userID {
			continue
		}
		owned := &models.OwnedListing{Listing: *l}
		if a, err := m.owners.GetByID(ctx, userID); err == nil {
			owned.Owner = models.ListingOwner{ID: a.ID, Name: a.Name, ProfilePic: a.ProfilePic}
		}
		out = append(out, owned)
	}
	return out, nil
}

type fakeRepoManager struct {
	a *memAccounts
	l *memListings
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.a }
func (m *fakeRepoManager) Listings(dbx.DBTX) listings.Repository        { return m.l }

type fixture struct {
	accounts *memAccounts
	listings *memListings
	tokens   *auth.TokenIssuer
	hasher   *cryptox.PasswordHasher
	auth     *AuthService
	account  *AccountService
	listing  *ListingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	accs := newMemAccounts()
	lst := &memListings{owners: accs}
	rm := &fakeRepoManager{a: accs, l: lst}

	tokens, err := auth.NewTokenIssuer([]byte("k"), 30*24*time.Hour)
	require.NoError(t, err)
	hasher := cryptox.NewPasswordHasher(bcrypt.MinCost)

	cfg := &config.Config{DefaultProfilePic: config.DefaultProfilePic}

	return &fixture{
		accounts: accs,
		listings: lst,
		tokens:   tokens,
		hasher:   hasher,
		auth:     NewAuthService(nil, rm, hasher, tokens, cfg),
		account:  NewAccountService(nil, rm, hasher),
		listing:  NewListingService(nil, rm),
	}
}
