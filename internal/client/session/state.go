// Package session is the client's view of who is signed in. State changes
// only through Reduce; Store persists a signed-in state so it survives a
// restart.
package session

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/realestate/internal/client/models"
)

var (
	// ErrBusy rejects a submit while another one is still in flight.
	ErrBusy = errors.New("authentication already in progress")

	ErrInvalidTransition = errors.New("invalid session transition")
	ErrIncomplete        = errors.New("incomplete session data")
)

type Status int

const (
	SignedOut Status = iota
	Authenticating
	SignedIn
	AuthError
)

func (s Status) String() string {
	switch s {
	case SignedOut:
		return "signed out"
	case Authenticating:
		return "authenticating"
	case SignedIn:
		return "signed in"
	case AuthError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is either fully signed out or carries both the account and the
// token. Loading and Err describe the operation in progress or the last one
// that failed.
type State struct {
	Status  Status
	Account *models.Account
	Token   string
	Loading bool
	Err     string
}

func (s State) IsSignedIn() bool {
	return s.Status == SignedIn
}

type Event interface {
	event()
}

// Submit starts a signin, signup or OAuth attempt.
type Submit struct{}

type Succeeded struct {
	Account models.Account
	Token   string
}

type Failed struct {
	Message string
}

type UpdateStarted struct{}

// ProfileUpdated refreshes the account. An empty Token keeps the current one.
type ProfileUpdated struct {
	Account models.Account
	Token   string
}

type UpdateFailed struct {
	Message string
}

type SignOut struct{}

type AccountDeleted struct{}

func (Submit) event()         {}
func (Succeeded) event()      {}
func (Failed) event()         {}
func (UpdateStarted) event()  {}
func (ProfileUpdated) event() {}
func (UpdateFailed) event()   {}
func (SignOut) event()        {}
func (AccountDeleted) event() {}

// Reduce returns the state that follows s on e. Transitions that the state
// machine does not define return an error and s unchanged.
func Reduce(s State, e Event) (State, error) {
	switch s.Status {
	case SignedOut:
		switch e.(type) {
		case Submit:
			return State{Status: Authenticating, Loading: true}, nil
		case SignOut:
			return s, nil
		}

	case Authenticating:
		switch e := e.(type) {
		case Submit:
			return s, ErrBusy
		case Succeeded:
			if !e.Account.Complete() || e.Token == "" {
				return s, ErrIncomplete
			}
			acc := e.Account
			return State{Status: SignedIn, Account: &acc, Token: e.Token}, nil
		case Failed:
			return State{Status: AuthError, Err: e.Message}, nil
		}

	case AuthError:
		switch e.(type) {
		case Submit:
			return State{Status: Authenticating, Loading: true}, nil
		case SignOut:
			return State{Status: SignedOut}, nil
		}

	case SignedIn:
		switch e := e.(type) {
		case UpdateStarted:
			s.Loading = true
			s.Err = ""
			return s, nil
		case ProfileUpdated:
			if !e.Account.Complete() || e.Account.ID != s.Account.ID {
				return s, ErrIncomplete
			}
			acc := e.Account
			next := State{Status: SignedIn, Account: &acc, Token: s.Token}
			if e.Token != "" {
				next.Token = e.Token
			}
			return next, nil
		case UpdateFailed:
			s.Loading = false
			s.Err = e.Message
			return s, nil
		case SignOut, AccountDeleted:
			return State{Status: SignedOut}, nil
		}
	}

	return s, fmt.Errorf("%w: %T in state %q", ErrInvalidTransition, e, s.Status)
}
