package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/realestate/internal/client/models"
	"github.com/dmitrijs2005/realestate/internal/common"
)

// HTTPClient talks to the REST API. The token set with SetToken is sent as
// a bearer header; cookies are never relied upon. It is safe for concurrent
// use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends in as JSON (when not nil) and decodes a 2xx body into out (when
// not nil). It returns the response status.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.currentToken(); tok != "" {
		req.Header.Set("Authorization", common.BearerScheme+" "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: eb.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *HTTPClient) Signup(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	in := map[string]string{"name": name, "email": email, "password": password}
	out := &AuthResponse{}
	if _, err := c.do(ctx, http.MethodPost, "/auth/signup", in, out); err != nil {
		return nil, err
	}
	out.Created = true
	return out, nil
}

func (c *HTTPClient) Signin(ctx context.Context, email, password string) (*AuthResponse, error) {
	in := map[string]string{"email": email, "password": password}
	out := &AuthResponse{}
	if _, err := c.do(ctx, http.MethodPost, "/auth/signin", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) OAuthSignin(ctx context.Context, name, email, profilePic string) (*AuthResponse, error) {
	in := map[string]string{"name": name, "email": email, "profilePic": profilePic}
	out := &AuthResponse{}
	status, err := c.do(ctx, http.MethodPost, "/auth/google", in, out)
	if err != nil {
		return nil, err
	}
	out.Created = status == http.StatusCreated
	return out, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/auth/logout", nil, nil)
	return err
}

type userEnvelope struct {
	User models.Account `json:"user"`
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, u models.ProfileUpdate) (*models.Account, error) {
	out := &userEnvelope{}
	if _, err := c.do(ctx, http.MethodPut, "/user/update/"+url.PathEscape(id), u, out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) UpdateProfilePic(ctx context.Context, profilePic string) (*models.Account, error) {
	out := &userEnvelope{}
	in := map[string]string{"profilePic": profilePic}
	if _, err := c.do(ctx, http.MethodPut, "/user/updateProfilePic", in, out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/user/delete/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *HTTPClient) Listings(ctx context.Context, userID string) ([]models.Listing, error) {
	var out []models.Listing
	if _, err := c.do(ctx, http.MethodGet, "/user/listings/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	out := &models.Listing{}
	if _, err := c.do(ctx, http.MethodPost, "/listing/create", l, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Presign(ctx context.Context, contentType string) (*models.UploadTicket, error) {
	out := &models.UploadTicket{}
	in := map[string]string{"contentType": contentType}
	if _, err := c.do(ctx, http.MethodPost, "/upload/presign", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}
