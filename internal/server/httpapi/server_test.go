package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/logging"
	"github.com/dmitrijs2005/realestate/internal/server/auth"
	"github.com/dmitrijs2005/realestate/internal/server/config"
	"github.com/dmitrijs2005/realestate/internal/server/models"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/realestate/internal/server/services"
)

type stubAuth struct {
	signup   func(name, email, password string) (*services.AuthResult, error)
	signin   func(email, password string) (*services.AuthResult, error)
	oauth    func(name, email, pic string) (*services.AuthResult, error)
	idents   map[string]*auth.Identity
	tokenErr error
	tokens   *auth.TokenIssuer
}

func (s *stubAuth) Signup(_ context.Context, name, email, password string) (*services.AuthResult, error) {
	return s.signup(name, email, password)
}

func (s *stubAuth) Signin(_ context.Context, email, password string) (*services.AuthResult, error) {
	return s.signin(email, password)
}

func (s *stubAuth) OAuthSignin(_ context.Context, name, email, pic string) (*services.AuthResult, error) {
	return s.oauth(name, email, pic)
}

func (s *stubAuth) Authenticate(token string) (*auth.Identity, error) {
	if s.tokens != nil {
		return s.tokens.ParseToken(token)
	}
	if id, ok := s.idents[token]; ok {
		return id, nil
	}
	if s.tokenErr != nil {
		return nil, s.tokenErr
	}
	return nil, common.ErrInvalidToken
}

type stubAccounts struct {
	lastActor *auth.Identity
	lastPatch models.AccountPatch
	err       error
	listings  []*models.OwnedListing
}

func (s *stubAccounts) check(actor *auth.Identity, id string) error {
	s.lastActor = actor
	if s.err != nil {
		return s.err
	}
	if actor.ID != id {
		return fmt.Errorf("%w: you can only update your own account", common.ErrForbidden)
	}
	return nil
}

func (s *stubAccounts) Update(_ context.Context, actor *auth.Identity, id string, patch models.AccountPatch) (*models.Account, error) {
	s.lastPatch = patch
	if err := s.check(actor, id); err != nil {
		return nil, err
	}
	a := &models.Account{ID: id, Name: "alice", Email: actor.Email}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	return a, nil
}

func (s *stubAccounts) UpdateProfilePic(_ context.Context, actor *auth.Identity, pic string) (*models.Account, error) {
	s.lastActor = actor
	return &models.Account{ID: actor.ID, Name: "alice", Email: actor.Email, ProfilePic: pic}, nil
}

func (s *stubAccounts) Delete(_ context.Context, actor *auth.Identity, id string) error {
	return s.check(actor, id)
}

func (s *stubAccounts) Listings(_ context.Context, actor *auth.Identity, id string) ([]*models.OwnedListing, error) {
	if err := s.check(actor, id); err != nil {
		return nil, err
	}
	return s.listings, nil
}

type stubListings struct{ err error }

func (s *stubListings) Create(_ context.Context, l *models.Listing) (*models.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *l
	out.ID = "l1"
	return &out, nil
}

type stubUploads struct{}

func (stubUploads) Presign(_ context.Context, actor *auth.Identity, ct string) (*services.UploadTicket, error) {
	if !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: only images can be uploaded", common.ErrValidation)
	}
	return &services.UploadTicket{Key: "users/" + actor.ID + "/k", UploadURL: "http://s3/put", PublicURL: "http://s3/get"}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

var alice = &models.Account{ID: "u1", Name: "alice", Email: "a@x.io", ProfilePic: "pic"}

type testEnv struct {
	srv      *Server
	auth     *stubAuth
	accounts *stubAccounts
	listings *stubListings
	pinger   *stubPinger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := &stubAuth{
		signup: func(name, email, password string) (*services.AuthResult, error) {
			return &services.AuthResult{Account: alice, Token: "T1", Created: true}, nil
		},
		signin: func(email, password string) (*services.AuthResult, error) {
			if password != "pw" {
				return nil, common.ErrInvalidCredentials
			}
			return &services.AuthResult{Account: alice, Token: "T2"}, nil
		},
		oauth: func(name, email, pic string) (*services.AuthResult, error) {
			return &services.AuthResult{Account: alice, Token: "T3", Created: email == "new@x.io"}, nil
		},
		idents: map[string]*auth.Identity{"good": {ID: "u1", Email: "a@x.io"}},
	}
	env := &testEnv{auth: a, accounts: &stubAccounts{}, listings: &stubListings{}, pinger: &stubPinger{}}

	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	env.srv = NewServer(cfg, l, Deps{
		Auth:     a,
		Accounts: env.accounts,
		Listings: env.listings,
		Uploads:  stubUploads{},
		DB:       env.pinger,
	})
	return env
}

func (env *testEnv) do(method, path, body string, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api"+path, r)
	req.Header.Set("Content-Type", "application/json")
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func cookie(tok string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: tok}) }
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.AccessTokenCookieName {
			return c
		}
	}
	return nil
}

func TestSignup_SetsCookieAndReturnsToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/auth/signup", `{"name":"alice","email":"a@x.io","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "User created successfully", body["message"])
	assert.Equal(t, "T1", body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.NotContains(t, user, "password")

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.Equal(t, "T1", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.False(t, ck.Secure)
}

func TestSignup_Conflict(t *testing.T) {
	env := newTestEnv(t)
	env.auth.signup = func(string, string, string) (*services.AuthResult, error) {
		return nil, accounts.ErrEmailTaken
	}

	rec := env.do(http.MethodPost, "/auth/signup", `{"name":"alice","email":"a@x.io","password":"pw"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, "User already exists", body["message"])
	assert.Nil(t, sessionCookie(rec))
}

func TestSignup_BadJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/auth/signup", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["message"])
}

func TestSignup_InternalErrorIsGeneric(t *testing.T) {
	env := newTestEnv(t)
	env.auth.signup = func(string, string, string) (*services.AuthResult, error) {
		return nil, fmt.Errorf("%w: db error: dial tcp 10.0.0.1:5432", common.ErrorInternal)
	}

	rec := env.do(http.MethodPost, "/auth/signup", `{"name":"alice","email":"a@x.io","password":"pw"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["message"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestSignin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/auth/signin", `{"email":"a@x.io","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "T2", decode(t, rec)["token"])
	require.NotNil(t, sessionCookie(rec))

	rec = env.do(http.MethodPost, "/auth/signin", `{"email":"a@x.io","password":"nope"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email or password", decode(t, rec)["message"])
	assert.Nil(t, sessionCookie(rec))
}

func TestGoogle_CreatedVsExisting(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/auth/google", `{"name":"Bob","email":"new@x.io","profilePic":"p"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User signed up successfully!", decode(t, rec)["message"])

	rec = env.do(http.MethodPost, "/auth/google", `{"name":"Bob","email":"a@x.io","profilePic":"p"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User signed in successfully!", decode(t, rec)["message"])
	assert.Equal(t, "T3", sessionCookie(rec).Value)
}

func TestLogout_ClearsCookieWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decode(t, rec)["message"])

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.Equal(t, "", ck.Value)
	assert.Less(t, ck.MaxAge, 0)
}

// Logout only clears the cookie; a bearer token issued earlier stays valid
// until it expires.
func TestLogout_IssuedTokenStillAuthenticates(t *testing.T) {
	env := newTestEnv(t)
	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	env.auth.tokens = issuer

	tok, err := issuer.GenerateToken(alice.ID, alice.Email)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/auth/logout", "", cookie(tok))
	require.Equal(t, http.StatusOK, rec.Code)
	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)

	rec = env.do(http.MethodPut, "/user/update/u1", `{"name":"alice2"}`, bearer(tok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated successfully!", decode(t, rec)["message"])
	require.NotNil(t, env.accounts.lastActor)
	assert.Equal(t, "u1", env.accounts.lastActor.ID)

	rec = env.do(http.MethodPut, "/user/update/u1", `{"name":"alice2"}`, bearer(tok+"x"))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuard(t *testing.T) {
	env := newTestEnv(t)
	body := `{"name":"alice2"}`

	rec := env.do(http.MethodPut, "/user/update/u1", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "You are not authenticated!", decode(t, rec)["message"])

	rec = env.do(http.MethodPut, "/user/update/u1", body, bearer("garbage"))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Token is not valid!", decode(t, rec)["message"])

	env.auth.tokenErr = common.ErrTokenExpired
	rec = env.do(http.MethodPut, "/user/update/u1", body, cookie("old"))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPut, "/user/update/u1", body, cookie("good"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", env.accounts.lastActor.ID)

	// a bad bearer header is not rescued by a good cookie
	env.auth.tokenErr = nil
	rec = env.do(http.MethodPut, "/user/update/u1", body, bearer("garbage"), cookie("good"))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/user/update/u1", `{"name":"alice2"}`, bearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "User updated successfully!", body["message"])
	assert.Equal(t, "alice2", body["user"].(map[string]any)["name"])
	require.NotNil(t, env.accounts.lastPatch.Name)
	assert.Nil(t, env.accounts.lastPatch.Email)

	rec = env.do(http.MethodPut, "/user/update/u2", `{"name":"x"}`, bearer("good"))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only update your own account!", decode(t, rec)["message"])
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/user/delete/u1", "", bearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully!", decode(t, rec)["message"])
	require.NotNil(t, sessionCookie(rec))

	env.accounts.err = common.ErrorNotFound
	rec = env.do(http.MethodDelete, "/user/delete/u1", "", bearer("good"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserListings(t *testing.T) {
	env := newTestEnv(t)
	env.accounts.listings = []*models.OwnedListing{{
		Listing: models.Listing{ID: "l1", Name: "flat", UserRef: "u1", CreatedAt: time.Now()},
		Owner:   models.ListingOwner{ID: "u1", Name: "alice"},
	}}

	rec := env.do(http.MethodGet, "/user/listings/u1", "", bearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []listingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "alice", out[0].Owner.Name)
	assert.Equal(t, []string{}, out[0].ImageURLs)

	env.accounts.listings = nil
	rec = env.do(http.MethodGet, "/user/listings/u1", "", bearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateProfilePic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/user/updateProfilePic", `{"profilePic":"http://img"}`, bearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Profile picture updated successfully", body["message"])
	assert.Equal(t, "http://img", body["user"].(map[string]any)["profilePic"])
}

func TestCreateListing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/listing/create", `{"name":"flat","type":"rent","userRef":"u1","imageUrls":["a"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "l1", body["id"])
	assert.Equal(t, "rent", body["type"])

	env.listings.err = fmt.Errorf("%w: name is required", common.ErrValidation)
	rec = env.do(http.MethodPost, "/listing/create", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name is required", decode(t, rec)["message"])
}

func TestPresignUpload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/upload/presign", `{"contentType":"image/png"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/upload/presign", `{"contentType":"image/png"}`, bearer("good"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "users/u1/k", body["key"])
	assert.Equal(t, "http://s3/put", body["uploadUrl"])

	rec = env.do(http.MethodPost, "/upload/presign", `{"contentType":"text/plain"}`, bearer("good"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	env.pinger.err = errors.New("down")
	rec = env.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}
