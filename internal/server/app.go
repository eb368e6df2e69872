// Package server wires configuration, storage, services and transports
// together and runs the HTTP API next to the gRPC health service until the
// process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/realestate/internal/cryptox"
	"github.com/dmitrijs2005/realestate/internal/logging"
	"github.com/dmitrijs2005/realestate/internal/server/auth"
	"github.com/dmitrijs2005/realestate/internal/server/config"
	"github.com/dmitrijs2005/realestate/internal/server/httpapi"
	"github.com/dmitrijs2005/realestate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/realestate/internal/server/services"

	gs "github.com/dmitrijs2005/realestate/internal/server/grpc"
)

var openDB = repomanager.OpenDB

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
	grpc   *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.Environment)

	tokens, err := auth.NewTokenIssuer([]byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := cryptox.NewPasswordHasher(c.PasswordHashCost)

	hs := httpapi.NewServer(c, logger, httpapi.Deps{
		Auth:     services.NewAuthService(db, rm, hasher, tokens, c),
		Accounts: services.NewAccountService(db, rm, hasher),
		Listings: services.NewListingService(db, rm),
		Uploads:  services.NewUploadService(c),
		DB:       db,
	})

	gsrv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db, c.HealthCheckInterval)

	return &App{config: c, logger: logger, db: db, http: hs, grpc: gsrv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve runs fn and cancels everything else if it fails.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, name+" server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "HTTP", app.http.Run)
	}()
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "gRPC", app.grpc.Run)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
