package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/bridge"
	"github.com/dmitrijs2005/vidkeeper/internal/capture"
	"github.com/dmitrijs2005/vidkeeper/internal/client/client"
	"github.com/dmitrijs2005/vidkeeper/internal/client/config"
	"github.com/dmitrijs2005/vidkeeper/internal/client/library"
	"github.com/dmitrijs2005/vidkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vidkeeper/internal/journal"
	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
	"github.com/dmitrijs2005/vidkeeper/internal/storage"
	"github.com/google/uuid"
)

// historyFunc lists journal events, newest first.
type historyFunc func(ctx context.Context, limit int) ([]models.Event, error)

type App struct {
	config  *config.Config
	ctrl    *library.Controller
	history historyFunc
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp wires the recorder from c. With an empty BridgeAddr the bridge runs
// in process on top of local (and optionally S3) storage; otherwise videos
// are saved through the remote bridge server.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	a := &App{
		config: c,
		logger: l,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	policy, err := library.ParseDeletePolicy(c.DeletePolicy)
	if err != nil {
		return nil, err
	}

	b, err := a.newBridge(ctx, PromptDialog{reader: a.reader, out: a.out})
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	session := capture.NewSession(a.newCaptureBackend(), logging.ForModule(l, "capture"))
	a.ctrl = library.NewController(session, b,
		library.WithDeletePolicy(policy),
		library.WithLogger(logging.ForModule(l, "library")),
	)
	l.Debug(ctx, "recorder ready", "delete_policy", a.ctrl.Policy(), "file_capture", c.UseFileCapture())
	return a, nil
}

func (a *App) newCaptureBackend() capture.Backend {
	streamOpts := []capture.StreamOption{capture.WithLogger(logging.ForModule(a.logger, "capture_backend"))}
	if a.config.UseFileCapture() {
		return capture.NewFileBackend(a.config.CaptureFixture, streamOpts...)
	}
	return capture.NewFFmpegBackend(capture.FFmpegOptions{
		Binary:      a.config.FFmpegPath,
		InputFormat: a.config.CaptureFormat,
		Device:      a.config.CaptureDevice,
	}, streamOpts...)
}

func (a *App) newBridge(ctx context.Context, dialog bridge.Dialog) (bridge.Bridge, error) {
	c := a.config

	if c.BridgeAddr != "" {
		secret := c.SecretKey
		if secret == "" {
			pw, err := GetPassword(a.out)
			if err != nil {
				return nil, fmt.Errorf("read secret key: %w", err)
			}
			secret = string(pw)
			cryptox.Wipe(pw)
		}
		tokens := client.SecretTokenSource(uuid.NewString(), []byte(secret), c.TokenTTL)
		cl, err := client.NewBridgeClient(c.BridgeAddr, tokens, dialog, c.DefaultFileName)
		if err != nil {
			return nil, fmt.Errorf("connect to bridge: %w", err)
		}
		a.closers = append(a.closers, cl.Close)
		a.logger.Info(ctx, "using remote bridge", "address", c.BridgeAddr)
		return cl, nil
	}

	var object storage.Store
	if c.S3Region != "" || c.S3BaseEndpoint != "" {
		s3, err := storage.NewS3Store(ctx, storage.S3Options{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
		if err != nil {
			return nil, err
		}
		object = s3
	}

	opts := []bridge.Option{
		bridge.WithLogger(logging.ForModule(a.logger, "bridge")),
		bridge.WithDefaultName(c.DefaultFileName),
		bridge.WithSaveDir(c.SaveDir),
	}
	if c.JournalDSN != "" {
		repo, db, err := journal.Open(ctx, c.JournalDSN, journal.DefaultMaxEvents)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		opts = append(opts, bridge.WithJournal(repo))
	}

	lb := bridge.NewLocalBridge(storage.NewRouter(storage.NewLocalStore(""), object), dialog, opts...)
	a.history = lb.History
	return lb, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			a.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	printlnFn("vidkeeper recorder (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

// Close stops an active recording and releases the bridge and journal.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.ctrl != nil && a.ctrl.RecordingState() == capture.StateRecording {
		errs = append(errs, a.ctrl.StopRecording(ctx))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// status is shown in the prompt.
func (a *App) status() string {
	if v, ok := a.ctrl.Selected(); ok {
		return v.Name
	}
	switch a.ctrl.RecordingState() {
	case capture.StateRecording:
		return "● recording"
	case capture.StateStopped:
		return "unsaved clip"
	default:
		return "ready"
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
