package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"cloudbox/internal/client/access"
	"cloudbox/internal/client/admin"
	"cloudbox/internal/client/api"
	"cloudbox/internal/client/config"
	"cloudbox/internal/client/models"
	"cloudbox/internal/client/repositories/identity"
	"cloudbox/internal/client/session"
	"cloudbox/internal/client/storage"
	"cloudbox/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// sessionManager is the slice of the session layer the CLI needs.
// *session.Manager satisfies it; tests provide a stub.
type sessionManager interface {
	Snapshot() session.Snapshot
	Bootstrap(ctx context.Context) bool
	VerifyCached(ctx context.Context)
	Login(ctx context.Context, creds models.Credentials) (*models.UserIdentity, error)
	Register(ctx context.Context, profile models.RegisterProfile) (*models.UserIdentity, error)
	Logout(ctx context.Context)
	Close()
}

// fileStore is the slice of the file collection layer the CLI needs.
// *storage.Store satisfies it.
type fileStore interface {
	Snapshot() storage.Snapshot
	Load(ctx context.Context, ownerID *int64) error
	Upload(ctx context.Context, name string, payload io.Reader, comment string) (*models.FileResource, error)
	Download(ctx context.Context, id int64, w io.Writer) (string, error)
	Rename(ctx context.Context, id int64, newName string) error
	SetComment(ctx context.Context, id int64, comment string) error
	Delete(ctx context.Context, id int64) error
	ShareURL(id int64) (string, bool)
}

// adminService is the slice of the account administration layer the CLI
// needs. *admin.Service satisfies it.
type adminService interface {
	ListUsers(ctx context.Context) ([]models.UserIdentity, error)
	SetAdministrator(ctx context.Context, id int64, isAdmin bool) error
	DeleteUser(ctx context.Context, id int64) error
}

type App struct {
	config  *config.Config
	client  api.Client
	session sessionManager
	store   fileStore
	admin   adminService
	db      *sql.DB
	log     logging.Logger
	Mode    Mode
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := identity.Open(ctx, c.CacheDSN)
	if err != nil {
		log.Printf("error initializing identity cache: %s", err.Error())
		return nil, err
	}
	cache := identity.NewSQLiteRepository(db)

	apiClient, err := api.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	sess := session.NewManager(apiClient, cache, logger)

	return &App{
		config:  c,
		client:  apiClient,
		session: sess,
		store:   storage.NewStore(apiClient, sess, logger),
		admin:   admin.NewService(apiClient, sess, logger),
		db:      db,
		log:     logger,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	// Optimistic restore: show the cached identity immediately and let the
	// server confirm or expire it in the background.
	if a.session.Bootstrap(ctx) {
		go a.session.VerifyCached(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	log.Println("Welcome to CloudBox CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close releases everything NewApp acquired. The session manager is closed
// first so its detached logout notification can still use the API client.
func (a *App) Close() {
	a.session.Close()
	if err := a.client.Close(); err != nil {
		a.log.Warn(context.Background(), "closing api client", "error", err)
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return access.CanViewAuthenticatedArea(a.session.Snapshot())
}

func (a *App) isAdmin() bool {
	return access.CanViewAdminArea(a.session.Snapshot())
}

func (a *App) getStatus() string {
	s := ""
	snap := a.session.Snapshot()
	if snap.Identity != nil {
		s = snap.Identity.Username
		if snap.Identity.IsAdministrator {
			s += "*"
		}
		if snap.Verifying {
			s += "?"
		}
		s += " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.client.Ping(ctx)
			cancel()

			if err != nil {
				if a.Mode != ModeOffline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
