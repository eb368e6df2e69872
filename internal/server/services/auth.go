// Package services contains server-side business logic. AuthService covers
// account creation and signin; AccountService, ListingService and
// UploadService serve the authenticated routes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/server/auth"
	"github.com/dmitrijs2005/realestate/internal/server/config"
	"github.com/dmitrijs2005/realestate/internal/server/models"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/repomanager"
)

const (
	// oauthNameSuffixLen random base-36 characters follow a synthesized name.
	oauthNameSuffixLen = 4
	// oauthNameAttempts bounds retries when a synthesized name is taken.
	oauthNameAttempts = 5
	// oauthPasswordBytes of randomness back the password of OAuth-created
	// accounts. Nobody knows it; it only keeps the hash column honest.
	oauthPasswordBytes = 16
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type TokenIssuer interface {
	GenerateToken(accountID, email string) (string, error)
	ParseToken(token string) (*auth.Identity, error)
}

// AuthResult is what a successful signup or signin hands back: the stored
// account, a fresh identity token, and whether the account was just created.
type AuthResult struct {
	Account *models.Account
	Token   string
	Created bool
}

// AuthService creates accounts and signs them in.
type AuthService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	hasher            PasswordHasher
	tokens            TokenIssuer
	defaultProfilePic string

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                db,
		repomanager:       m,
		hasher:            hasher,
		tokens:            tokens,
		defaultProfilePic: cfg.DefaultProfilePic,
	}
}

// Signup creates an account and signs it in. An email that is already
// registered, or a name that is already taken, is common.ErrConflict.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrValidation)
	}

	repo := s.repomanager.Accounts(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, accounts.ErrEmailTaken
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internal(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, internal(err)
	}

	account, err := repo.Create(ctx, &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		ProfilePic:   s.defaultProfilePic,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, internal(err)
	}

	return s.issue(account, true)
}

// Signin checks email and password. An unknown email and a wrong password
// both yield common.ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Spend the same bcrypt time as a real check.
			s.hasher.Verify(password, s.dummyPasswordHash())
			return nil, common.ErrInvalidCredentials
		}
		return nil, internal(err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(account, false)
}

// OAuthSignin trusts an identity already asserted by an external provider.
// A known email signs in with the stored name and picture unchanged. An
// unknown email creates an account with a synthesized unique name and an
// unusable random password.
func (s *AuthService) OAuthSignin(ctx context.Context, name, email, profilePic string) (*AuthResult, error) {
	name, email, profilePic = strings.TrimSpace(name), normalizeEmail(email), strings.TrimSpace(profilePic)
	if name == "" || email == "" || profilePic == "" {
		return nil, fmt.Errorf("%w: name, email and profile picture are required", common.ErrValidation)
	}

	repo := s.repomanager.Accounts(s.db)

	existing, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return s.issue(existing, false)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internal(err)
	}

	password, err := common.MakeRandHexString(oauthPasswordBytes)
	if err != nil {
		return nil, internal(err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internal(err)
	}

	for attempt := 0; attempt < oauthNameAttempts; attempt++ {
		displayName, err := synthesizeName(name)
		if err != nil {
			return nil, internal(err)
		}

		account, err := repo.Create(ctx, &models.Account{
			Name:         displayName,
			Email:        email,
			PasswordHash: hash,
			ProfilePic:   profilePic,
		})
		switch {
		case err == nil:
			return s.issue(account, true)
		case errors.Is(err, accounts.ErrNameTaken):
			continue
		case errors.Is(err, accounts.ErrEmailTaken):
			// Lost a race with a concurrent signup for the same email.
			existing, err := repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, internal(err)
			}
			return s.issue(existing, false)
		default:
			return nil, internal(err)
		}
	}

	return nil, fmt.Errorf("%w: could not pick a free display name", common.ErrConflict)
}

// Authenticate verifies a presented token. The error is one of the token
// errors in common.
func (s *AuthService) Authenticate(token string) (*auth.Identity, error) {
	return s.tokens.ParseToken(token)
}

func (s *AuthService) issue(account *models.Account, created bool) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, internal(err)
	}
	return &AuthResult{Account: account, Token: token, Created: created}, nil
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password")
	})
	return s.dummyHash
}

// synthesizeName lowercases name, drops whitespace and appends a random
// base-36 suffix: "Jane Doe" becomes e.g. "janedoe4k2x".
func synthesizeName(name string) (string, error) {
	suffix, err := common.MakeRandBase36String(oauthNameSuffixLen)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.Join(strings.Fields(name), "")) + suffix, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func internal(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
