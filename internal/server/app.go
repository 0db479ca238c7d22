// Package server wires configuration, storage and services together and
// runs the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/logging"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/blobstore"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/config"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/httpapi"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	Accounts   *services.AccountService
	Profiles   *services.ProfileService
	Cahiers    *services.CahierService
	Indicatifs *services.IndicatifService
	Dashboard  *services.DashboardService
}

func NewLogger(c *config.Config) logging.Logger {
	return logging.New(logging.Options{
		Backend: c.LogBackend,
		Level:   c.LogLevel,
		Console: c.IsDevelopment(),
	})
}

// NewApp opens the database and the blob store and builds the services.
// Migrations are not applied here, see Migrate.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	driver, dsn := c.DataSource()

	db, err := dbx.Open(ctx, driver, dsn, dbx.PoolOptions{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	var logo []byte
	if c.LogoPath != "" {
		if logo, err = os.ReadFile(c.LogoPath); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("logo: %w", err)
		}
	}

	profiles := services.NewProfileService(db, rm, blobs, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		Accounts:    services.NewAccountService(db, rm, c),
		Profiles:    profiles,
		Cahiers:     services.NewCahierService(db, rm, profiles, logo, logger),
		Indicatifs:  services.NewIndicatifService(db, rm),
		Dashboard:   services.NewDashboardService(db, rm, profiles),
	}, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	var inner blobstore.Store
	switch c.BlobBackend {
	case config.BlobBackendS3:
		s, err := blobstore.NewS3Store(ctx, blobstore.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, err
		}
		inner = s
	case config.BlobBackendFS:
		s, err := blobstore.NewFSStore(c.BlobDir)
		if err != nil {
			return nil, err
		}
		inner = s
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
	return blobstore.NewSealedStore(inner, c.EncryptionSecret()), nil
}

// Migrate brings the schema up to date.
func (app *App) Migrate(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (app *App) Close() error {
	return app.db.Close()
}

// Handler returns the HTTP route tree.
func (app *App) Handler() *httpapi.Handler {
	return httpapi.NewHandler(httpapi.Services{
		Accounts:   app.Accounts,
		Profiles:   app.Profiles,
		Cahiers:    app.Cahiers,
		Indicatifs: app.Indicatifs,
		Dashboard:  app.Dashboard,
	}, httpapi.Options{
		CORSOrigins:     app.config.CORSOrigins,
		RateLimit:       app.config.RateLimit,
		StaticDir:       app.config.StaticDir,
		SecureCookie:    !app.config.IsDevelopment(),
		SessionValidity: app.config.SessionValidity,
		Health:          app.db.PingContext,
	}, app.logger)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := httpapi.NewServer(app.config.HTTPAddr, app.Handler().Router(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run migrates the schema and serves HTTP until ctx is cancelled or the
// process receives a termination signal.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	if err := app.Migrate(ctx); err != nil {
		return err
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	var runErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return runErr
}
