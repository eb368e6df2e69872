package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/realestate/internal/server/auth"
	"github.com/dmitrijs2005/realestate/internal/server/models"
	"github.com/dmitrijs2005/realestate/internal/server/services"
)

type AuthService interface {
	Authenticator
	Signup(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Signin(ctx context.Context, email, password string) (*services.AuthResult, error)
	OAuthSignin(ctx context.Context, name, email, profilePic string) (*services.AuthResult, error)
}

type AccountService interface {
	Update(ctx context.Context, actor *auth.Identity, id string, patch models.AccountPatch) (*models.Account, error)
	UpdateProfilePic(ctx context.Context, actor *auth.Identity, profilePic string) (*models.Account, error)
	Delete(ctx context.Context, actor *auth.Identity, id string) error
	Listings(ctx context.Context, actor *auth.Identity, id string) ([]*models.OwnedListing, error)
}

type ListingService interface {
	Create(ctx context.Context, l *models.Listing) (*models.Listing, error)
}

type UploadService interface {
	Presign(ctx context.Context, actor *auth.Identity, contentType string) (*services.UploadTicket, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

func (s *Server) signup(c echo.Context) error {
	req := new(signupRequest)
	if err := c.Bind(req); err != nil {
		return errBadPayload
	}

	res, err := s.auth.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	s.cookies.Set(c, res.Token)
	return c.JSON(http.StatusCreated, toAuth("User created successfully", res))
}

func (s *Server) signin(c echo.Context) error {
	req := new(signinRequest)
	if err := c.Bind(req); err != nil {
		return errBadPayload
	}

	res, err := s.auth.Signin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	s.cookies.Set(c, res.Token)
	return c.JSON(http.StatusOK, toAuth("", res))
}

func (s *Server) google(c echo.Context) error {
	req := new(oauthRequest)
	if err := c.Bind(req); err != nil {
		return errBadPayload
	}

	res, err := s.auth.OAuthSignin(c.Request().Context(), req.Name, req.Email, req.ProfilePic)
	if err != nil {
		return err
	}

	s.cookies.Set(c, res.Token)
	if res.Created {
		return c.JSON(http.StatusCreated, toAuth("User signed up successfully!", res))
	}
	return c.JSON(http.StatusOK, toAuth("User signed in successfully!", res))
}

func (s *Server) logout(c echo.Context) error {
	s.cookies.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (s *Server) updateUser(c echo.Context) error {
	req := new(updateUserRequest)
	if err := c.Bind(req); err != nil {
		return errBadPayload
	}

	a, err := s.accounts.Update(c.Request().Context(), IdentityFrom(c), c.Param("id"), models.AccountPatch{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userMessageResponse{Message: "User updated successfully!", User: toUser(a)})
}

func (s *Server) deleteUser(c echo.Context) error {
	if err := s.accounts.Delete(c.Request().Context(), IdentityFrom(c), c.Param("id")); err != nil {
		return err
	}

	s.cookies.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully!"})
}

func (s *Server) userListings(c echo.Context) error {
	items, err := s.accounts.Listings(c.Request().Context(), IdentityFrom(c), c.Param("id"))
	if err != nil {
		return err
	}

	out := make([]listingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toOwnedListing(l))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) updateProfilePic(c echo.Context) error {
	req := new(profilePicRequest)
	if err := c.Bind(req); err != nil {
		return errBadPayload
	}

	a, err := s.accounts.UpdateProfilePic(c.Request().Context(), IdentityFrom(c), req.ProfilePic)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userMessageResponse{Message: "Profile picture updated successfully", User: toUser(a)})
}

func (s *Server) createListing(c echo.Context) error {
	req := new(listingRequest)
	if err := c.Bind(req); err != nil {
		return errBadPayload
	}

	l, err := s.listings.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toListing(l))
}

func (s *Server) presignUpload(c echo.Context) error {
	req := new(presignRequest)
	if err := c.Bind(req); err != nil {
		return errBadPayload
	}

	t, err := s.uploads.Presign(c.Request().Context(), IdentityFrom(c), req.ContentType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, presignResponse{Key: t.Key, UploadURL: t.UploadURL, PublicURL: t.PublicURL})
}

func (s *Server) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.log.Warn(ctx, "health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
