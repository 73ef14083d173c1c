// Package server initializes and runs the bridge daemon. It configures the
// storage backends and journal, handles graceful shutdown, and starts the
// gRPC bridge service and the HTTP media endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/vidkeeper/internal/bridge"
	"github.com/dmitrijs2005/vidkeeper/internal/filex"
	"github.com/dmitrijs2005/vidkeeper/internal/journal"
	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	"github.com/dmitrijs2005/vidkeeper/internal/server/config"
	"github.com/dmitrijs2005/vidkeeper/internal/server/media"
	"github.com/dmitrijs2005/vidkeeper/internal/storage"
	"golang.org/x/time/rate"

	gs "github.com/dmitrijs2005/vidkeeper/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	bridge    *bridge.LocalBridge
	presigner storage.Presigner
	db        *sql.DB
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, "info")

	root := c.RootDir
	if root != "" {
		abs, err := filex.EnsureDir(root)
		if err != nil {
			return nil, fmt.Errorf("root dir init error: %w", err)
		}
		root = abs
	}

	var object storage.Store
	if c.S3Enabled() {
		s3, err := storage.NewS3Store(ctx, storage.S3Options{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			PresignTTL:   c.PresignValidityDuration,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		object = s3
	}
	router := storage.NewRouter(storage.NewLocalStore(root), object)

	app := &App{config: c, logger: logger}
	if object != nil {
		app.presigner = router
	}

	opts := []bridge.Option{
		bridge.WithLogger(logging.ForModule(logger, "bridge")),
		bridge.WithSaveDir(root),
	}
	if c.DatabaseDSN != "" {
		repo, db, err := journal.Open(ctx, c.DatabaseDSN, c.MaxEvents)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		opts = append(opts, bridge.WithJournal(repo))
	}

	// the dialog is replaced per request with the client's destination
	app.bridge = bridge.NewLocalBridge(router, bridge.CancelDialog{}, opts...)

	return app, nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.bridge, app.config.SecretKey, app.config.MaxUploadBytes)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMediaServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := media.NewHandler(app.bridge, app.presigner, []byte(app.config.SecretKey), logging.ForModule(app.logger, "media"))
	if app.config.MediaRateLimit > 0 {
		rl := media.NewRateLimiter(rate.Limit(app.config.MediaRateLimit), app.config.MediaRateBurst)
		rl.TrustForwarded = app.config.MediaTrustProxy
		go rl.Run(ctx)
		h = rl.Middleware(h)
	}
	s := media.NewServer(app.config.MediaAddr, h, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MediaAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMediaServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "closing journal", "error", err)
		}
	}
	app.logger.Info(ctx, "Stopped")
}
