// Package services contains application services for the realestate client.
// This file holds the session-owning authentication service: signup, signin,
// OAuth-assisted signin, profile updates, sign-out and account deletion. Every
// change to the session goes through session.Reduce and is persisted before
// it becomes visible.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/realestate/internal/client/client"
	"github.com/dmitrijs2005/realestate/internal/client/models"
	"github.com/dmitrijs2005/realestate/internal/client/session"
	"github.com/dmitrijs2005/realestate/internal/logging"
)

// Assertion is what an identity provider tells us about the user.
type Assertion struct {
	Name       string
	Email      string
	ProfilePic string
}

// IdentityProvider performs the interactive step of an OAuth-assisted
// signin. It must honor ctx cancellation.
type IdentityProvider interface {
	Assert(ctx context.Context) (*Assertion, error)
}

// SessionStore persists the signed-in session.
type SessionStore interface {
	Save(ctx context.Context, s session.State) error
	Load(ctx context.Context) (session.State, error)
	Clear(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Restore: derive the initial state from the persisted session.
//   - Signup / Signin / OAuthSignin: authenticate and persist the session.
//     A second call while one is in flight fails with session.ErrBusy.
//   - UpdateProfile / UpdateProfilePic: refresh the signed-in account.
//   - SignOut: clear the server cookie (best effort) and the local session.
//   - DeleteAccount: delete the account on the server, then sign out. An
//     account the server no longer knows counts as deleted.
//
// Failures move the session to its error state and are returned; nothing is
// retried automatically.
type AuthService interface {
	State() session.State
	Restore(ctx context.Context) (session.State, error)
	Signup(ctx context.Context, name, email, password string) (session.State, error)
	Signin(ctx context.Context, email, password string) (session.State, error)
	OAuthSignin(ctx context.Context, idp IdentityProvider) (session.State, error)
	UpdateProfile(ctx context.Context, u models.ProfileUpdate) (session.State, error)
	UpdateProfilePic(ctx context.Context, url string) (session.State, error)
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

type authService struct {
	client       client.Client
	store        SessionStore
	logger       logging.Logger
	oauthTimeout time.Duration

	mu    sync.Mutex
	state session.State
}

func NewAuthService(c client.Client, store SessionStore, l logging.Logger, oauthTimeout time.Duration) AuthService {
	return &authService{
		client:       c,
		store:        store,
		logger:       l.With("module", "auth_service"),
		oauthTimeout: oauthTimeout,
		state:        session.State{Status: session.SignedOut},
	}
}

func (a *authService) State() session.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *authService) Restore(ctx context.Context) (session.State, error) {
	s, err := a.store.Load(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
	a.client.SetToken(s.Token)

	if err != nil {
		return s, fmt.Errorf("restore session: %w", err)
	}
	return s, nil
}

// begin moves the session to Authenticating, or fails if it cannot.
func (a *authService) begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, err := session.Reduce(a.state, session.Submit{})
	if err != nil {
		return err
	}
	a.state = next
	return nil
}

// finish applies the outcome of an authentication attempt. A session that
// cannot be persisted is reported as a failure so memory and storage agree.
func (a *authService) finish(ctx context.Context, res *client.AuthResponse, callErr error) (session.State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if callErr == nil {
		next, err := session.Reduce(a.state, session.Succeeded{Account: res.User, Token: res.Token})
		if err == nil {
			err = a.store.Save(ctx, next)
		}
		if err == nil {
			a.state = next
			a.client.SetToken(next.Token)
			a.logger.Info(ctx, "signed in", "account", next.Account.ID)
			return next, nil
		}
		callErr = err
	}

	a.state, _ = session.Reduce(a.state, session.Failed{Message: UserMessage(callErr)})
	return a.state, callErr
}

func (a *authService) Signup(ctx context.Context, name, email, password string) (session.State, error) {
	if err := a.begin(); err != nil {
		return a.State(), err
	}
	res, err := a.client.Signup(ctx, name, email, password)
	return a.finish(ctx, res, err)
}

func (a *authService) Signin(ctx context.Context, email, password string) (session.State, error) {
	if err := a.begin(); err != nil {
		return a.State(), err
	}
	res, err := a.client.Signin(ctx, email, password)
	return a.finish(ctx, res, err)
}

func (a *authService) OAuthSignin(ctx context.Context, idp IdentityProvider) (session.State, error) {
	if err := a.begin(); err != nil {
		return a.State(), err
	}

	actx, cancel := context.WithTimeout(ctx, a.oauthTimeout)
	assertion, err := idp.Assert(actx)
	cancel()
	if err != nil {
		return a.finish(ctx, nil, fmt.Errorf("identity provider: %w", err))
	}

	res, err := a.client.OAuthSignin(ctx, assertion.Name, assertion.Email, assertion.ProfilePic)
	return a.finish(ctx, res, err)
}

// update runs call against the signed-in account and applies the result.
func (a *authService) update(ctx context.Context, call func(id string) (*models.Account, error)) (session.State, error) {
	a.mu.Lock()
	started, err := session.Reduce(a.state, session.UpdateStarted{})
	if err != nil {
		a.mu.Unlock()
		return a.state, err
	}
	a.state = started
	id := started.Account.ID
	a.mu.Unlock()

	acc, callErr := call(id)

	a.mu.Lock()
	defer a.mu.Unlock()

	if callErr == nil {
		next, err := session.Reduce(a.state, session.ProfileUpdated{Account: *acc})
		if err == nil {
			err = a.store.Save(ctx, next)
		}
		if err == nil {
			a.state = next
			return next, nil
		}
		callErr = err
	}

	a.state, _ = session.Reduce(a.state, session.UpdateFailed{Message: UserMessage(callErr)})
	return a.state, callErr
}

func (a *authService) UpdateProfile(ctx context.Context, u models.ProfileUpdate) (session.State, error) {
	return a.update(ctx, func(id string) (*models.Account, error) {
		return a.client.UpdateUser(ctx, id, u)
	})
}

func (a *authService) UpdateProfilePic(ctx context.Context, url string) (session.State, error) {
	return a.update(ctx, func(string) (*models.Account, error) {
		return a.client.UpdateProfilePic(ctx, url)
	})
}

// signOut drops the local session with the given event.
func (a *authService) signOut(ctx context.Context, e session.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, err := session.Reduce(a.state, e)
	if err != nil {
		return err
	}
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.state = next
	a.client.SetToken("")
	return nil
}

func (a *authService) SignOut(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "server logout failed", "error", err)
	}
	return a.signOut(ctx, session.SignOut{})
}

func (a *authService) DeleteAccount(ctx context.Context) error {
	s := a.State()
	if !s.IsSignedIn() {
		return fmt.Errorf("%w: not signed in", session.ErrInvalidTransition)
	}

	// A 404 means the account is already gone.
	if err := a.client.DeleteUser(ctx, s.Account.ID); err != nil && !errors.Is(err, client.ErrNotFound) {
		return err
	}
	return a.signOut(ctx, session.AccountDeleted{})
}

// UserMessage turns an error into text fit for the user.
func UserMessage(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "The operation timed out"
	case errors.Is(err, context.Canceled):
		return "The operation was cancelled"
	case errors.Is(err, client.ErrUnavailable):
		return "The server is unavailable"
	default:
		return err.Error()
	}
}
