package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockyard/internal/client/authz"
	"github.com/dmitrijs2005/stockyard/internal/client/client"
	"github.com/dmitrijs2005/stockyard/internal/client/config"
	"github.com/dmitrijs2005/stockyard/internal/client/export"
	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/client/services"
	"github.com/dmitrijs2005/stockyard/internal/client/session"
	"github.com/dmitrijs2005/stockyard/internal/client/token"
	"github.com/dmitrijs2005/stockyard/internal/logging"

	_ "modernc.org/sqlite"
)

// App is one console session: the wired services plus the terminal it
// talks to.
type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	store  *session.Store
	guard  *authz.Authorizer

	authService     *services.AuthService
	merchantService *services.MerchantService
	movementService *services.MovementService
	reportService   *services.ReportService
	userService     *services.UserService

	routes []route
	reader *bufio.Reader
	out    io.Writer

	mu          sync.Mutex
	status      string
	wasSignedIn bool
	unsubscribe func()
}

// NewApp opens the session database and wires the client stack for c.
// Logs go to stderr; the console itself reads in and writes out.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, c.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.StorePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.StorePath, "error", err)
		return nil, err
	}

	api, err := client.New(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithRateLimit(c.RateLimit, c.RateBurst),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	evaluator := token.NewEvaluator()
	store := session.NewStore(ctx, api, session.NewMetadataStorage(db),
		session.WithFreshness(evaluator),
		session.WithLogger(logger),
		session.WithPasswordPaths(c.PasswordChangePaths...),
	)
	guard := authz.New(store, c.ProtectedPrefix, logger)
	api.Use(guard.Middleware())

	v := services.NewValidator()
	a := &App{
		config:          c,
		logger:          logger,
		db:              db,
		store:           store,
		guard:           guard,
		authService:     services.NewAuthService(store, evaluator, v),
		merchantService: services.NewMerchantService(api, v),
		movementService: services.NewMovementService(api, v),
		reportService:   services.NewReportService(api, sink, v),
		userService:     services.NewUserService(api, store, v),
		routes:          commandTable(),
		reader:          bufio.NewReader(in),
		out:             out,
	}

	a.onSession(store.Current())
	a.unsubscribe = store.Subscribe(a.onSession)
	return a, nil
}

func newSink(ctx context.Context, c *config.Config) (services.Sink, error) {
	if !c.S3.Enabled() {
		return export.NewFileSink(c.ExportDir), nil
	}
	return export.NewS3Sink(ctx, export.S3Config{
		Bucket:    c.S3.Bucket,
		Prefix:    c.S3.Prefix,
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
	})
}

// Close detaches from the session store and closes the database.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	return a.db.Close()
}

// Run starts the background session watcher and blocks in the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.infof("Welcome to the stockyard console (type 'help' for commands)")
	if a.config.SessionCheckInterval > 0 {
		go a.StartSessionWatcher(ctx, a.config.SessionCheckInterval)
	}
	runREPL(ctx, a, a.reader, a.out)
}

// onSession is the store subscriber feeding the prompt.
func (a *App) onSession(s models.Session) {
	a.mu.Lock()
	a.status = statusLine(s)
	ended := a.wasSignedIn && s.Identity == nil
	a.wasSignedIn = s.Identity != nil
	a.mu.Unlock()

	if ended {
		a.warnf("Signed out")
	}
}

// Status is the text shown in the prompt.
func (a *App) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func statusLine(s models.Session) string {
	switch {
	case s.Identity == nil:
		return "(guest)"
	case !s.Authenticated:
		return fmt.Sprintf("(%s expired)", s.Identity.Email)
	default:
		return fmt.Sprintf("(%s %s)", s.Identity.Email, s.Identity.Role)
	}
}

// StartSessionWatcher revalidates the credential every interval so an
// expiring token is refreshed, or the session cleared, while the console
// sits idle.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
			if _, err := a.store.Revalidate(cctx); err != nil {
				a.logger.Warn(cctx, "background revalidation failed", "error", err)
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
