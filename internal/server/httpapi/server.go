// Package httpapi exposes the account and listing services over HTTP using
// echo. Every error returned by a handler is turned into a JSON error
// response by a single error handler.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/realestate/internal/logging"
	"github.com/dmitrijs2005/realestate/internal/server/config"
)

const shutdownTimeout = 10 * time.Second

// Deps groups the services the HTTP layer delegates to.
type Deps struct {
	Auth     AuthService
	Accounts AccountService
	Listings ListingService
	Uploads  UploadService
	DB       Pinger
}

type Server struct {
	e        *echo.Echo
	address  string
	log      logging.Logger
	cookies  *CookieIssuer
	auth     AuthService
	accounts AccountService
	listings ListingService
	uploads  UploadService
	db       Pinger
}

func NewServer(cfg *config.Config, l logging.Logger, d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		e:        e,
		address:  cfg.EndpointAddrHTTP,
		log:      l.With("module", "http_server"),
		cookies:  NewCookieIssuer(cfg.IsProduction(), cfg.TokenValidityDuration),
		auth:     d.Auth,
		accounts: d.Accounts,
		listings: d.Listings,
		uploads:  d.Uploads,
		db:       d.DB,
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(s.requestLogger())

	s.routes(cfg.BasePath)
	return s
}

func (s *Server) routes(basePath string) {
	api := s.e.Group(basePath)

	api.GET("/healthz", s.healthz)

	a := api.Group("/auth")
	a.POST("/signup", s.signup)
	a.POST("/signin", s.signin)
	a.POST("/google", s.google)
	a.GET("/logout", s.logout)

	guard := Guard(s.auth)

	u := api.Group("/user", guard)
	u.PUT("/update/:id", s.updateUser)
	u.DELETE("/delete/:id", s.deleteUser)
	u.GET("/listings/:id", s.userListings)
	u.PUT("/updateProfilePic", s.updateProfilePic)

	api.POST("/listing/create", s.createListing)
	api.POST("/upload/presign", s.presignUpload, guard)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Info(c.Request().Context(), "request",
				"id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			)
			return nil
		},
	})
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.e.Shutdown(shutdownCtx)
}
