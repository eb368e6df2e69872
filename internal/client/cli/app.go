package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmitrijs2005/realestate/internal/client/client"
	"github.com/dmitrijs2005/realestate/internal/client/config"
	"github.com/dmitrijs2005/realestate/internal/client/services"
	"github.com/dmitrijs2005/realestate/internal/client/session"
	"github.com/dmitrijs2005/realestate/internal/filex"
	"github.com/dmitrijs2005/realestate/internal/logging"
)

const stateFile = "state.db"

// sessionClock reports when the current session was first stored.
type sessionClock interface {
	SavedAt(ctx context.Context) (time.Time, error)
}

type App struct {
	config   *config.Config
	api      client.Client
	sessions sessionClock
	auth     services.AuthService
	uploads  services.UploadService
	listings services.ListingService
	db       *sql.DB
	reader   *bufio.Reader
	out      io.Writer
}

var _ execIface = (*App)(nil)

// NewApp prepares the state directory and database and wires the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dir, err := filex.EnsureDir(c.StateDir)
	if err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, stateFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	l := logging.NewZerologLogger(
		zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger(),
	)

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	store := session.NewStore(db, c.SessionValidity)

	as := services.NewAuthService(api, store, l, c.OAuthTimeout)
	us := services.NewUploadService(api, c.UploadTimeout)
	ls := services.NewListingService(api, as, us)

	return &App{
		config:   c,
		api:      api,
		sessions: store,
		auth:     as,
		uploads:  us,
		listings: ls,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores the saved session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintln(a.out, "Welcome to the realestate CLI (type 'help' for commands)")

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := a.api.Ping(pingCtx); err != nil {
		fmt.Fprintln(a.out, "Warning:", services.UserMessage(err))
	}
	cancel()

	st, err := a.auth.Restore(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Could not restore session:", services.UserMessage(err))
	} else if st.IsSignedIn() {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", st.Account.Name)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isSignedIn() bool {
	return a.auth.State().IsSignedIn()
}

func (a *App) status() string {
	st := a.auth.State()
	switch {
	case st.IsSignedIn():
		return fmt.Sprintf("(%s <%s>)", st.Account.Name, st.Account.Email)
	case st.Status == session.AuthError:
		return "(error)"
	default:
		return ""
	}
}

// fail reports err to the user and hands it back to the caller.
func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", services.UserMessage(err))
	return err
}
