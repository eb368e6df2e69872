package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/realestate/internal/client/client"
	"github.com/dmitrijs2005/realestate/internal/client/models"
	"github.com/dmitrijs2005/realestate/internal/client/session"
	"github.com/dmitrijs2005/realestate/internal/logging"
)

var alice = models.Account{ID: "u1", Name: "alice", Email: "a@x.io", ProfilePic: "pic"}

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeClient struct {
	mu    sync.Mutex
	token string

	authRes   *client.AuthResponse
	authErr   error
	authGate  chan struct{}
	oauthArgs []string

	updateRes *models.Account
	updateErr error

	logoutErr error
	deleteErr error
	deletedID string

	presignErr error
	presigned  []string

	created  *models.Listing
	listings []models.Listing
}

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeClient) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeClient) auth() (*client.AuthResponse, error) {
	if f.authGate != nil {
		<-f.authGate
	}
	return f.authRes, f.authErr
}

func (f *fakeClient) Signup(context.Context, string, string, string) (*client.AuthResponse, error) {
	return f.auth()
}

func (f *fakeClient) Signin(context.Context, string, string) (*client.AuthResponse, error) {
	return f.auth()
}

func (f *fakeClient) OAuthSignin(_ context.Context, name, email, pic string) (*client.AuthResponse, error) {
	f.oauthArgs = []string{name, email, pic}
	return f.auth()
}

func (f *fakeClient) Logout(context.Context) error { return f.logoutErr }

func (f *fakeClient) UpdateUser(_ context.Context, id string, u models.ProfileUpdate) (*models.Account, error) {
	return f.updateRes, f.updateErr
}

func (f *fakeClient) UpdateProfilePic(_ context.Context, pic string) (*models.Account, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	a := alice
	a.ProfilePic = pic
	return &a, nil
}

func (f *fakeClient) DeleteUser(_ context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeClient) Listings(context.Context, string) ([]models.Listing, error) {
	return f.listings, nil
}

func (f *fakeClient) CreateListing(_ context.Context, l *models.Listing) (*models.Listing, error) {
	f.created = l
	out := *l
	out.ID = "l1"
	return &out, nil
}

func (f *fakeClient) Presign(_ context.Context, ct string) (*models.UploadTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	n := len(f.presigned)
	f.presigned = append(f.presigned, ct)
	return &models.UploadTicket{
		Key:       "k",
		UploadURL: "http://s3/put/" + string(rune('a'+n)),
		PublicURL: "http://s3/get/" + string(rune('a'+n)),
	}, nil
}

func (f *fakeClient) Ping(context.Context) error { return nil }

type memStore struct {
	saved   *session.State
	saveErr error
	clears  int
}

func (m *memStore) Save(_ context.Context, s session.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &s
	return nil
}

func (m *memStore) Load(context.Context) (session.State, error) {
	if m.saved == nil {
		return session.State{Status: session.SignedOut}, nil
	}
	return *m.saved, nil
}

func (m *memStore) Clear(context.Context) error {
	m.saved = nil
	m.clears++
	return nil
}

type idpFunc func(ctx context.Context) (*Assertion, error)

func (f idpFunc) Assert(ctx context.Context) (*Assertion, error) { return f(ctx) }
