package bridge

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vidkeeper/internal/filex"
	"github.com/dmitrijs2005/vidkeeper/internal/journal"
	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
	"github.com/dmitrijs2005/vidkeeper/internal/storage"
)

// LocalBridge implements Bridge on top of a storage.Store. It holds no
// mutable state and is safe for concurrent use.
type LocalBridge struct {
	store       storage.Store
	dialog      Dialog
	journal     journal.Repository
	log         logging.Logger
	now         func() time.Time
	defaultName string
	saveDir     string
}

type Option func(*LocalBridge)

// WithJournal records every save and delete outcome. Journal failures are
// logged only.
func WithJournal(j journal.Repository) Option {
	return func(b *LocalBridge) { b.journal = j }
}

func WithLogger(l logging.Logger) Option {
	return func(b *LocalBridge) { b.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(b *LocalBridge) { b.now = now }
}

// WithDefaultName sets the name suggested to the dialog.
func WithDefaultName(name string) Option {
	return func(b *LocalBridge) {
		if name != "" {
			b.defaultName = name
		}
	}
}

// WithSaveDir resolves relative destinations against dir, creating it on
// first use.
func WithSaveDir(dir string) Option {
	return func(b *LocalBridge) { b.saveDir = dir }
}

func NewLocalBridge(store storage.Store, dialog Dialog, opts ...Option) *LocalBridge {
	b := &LocalBridge{
		store:       store,
		dialog:      dialog,
		log:         logging.Nop{},
		now:         time.Now,
		defaultName: common.DefaultVideoName,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// WithDialog returns a copy of b that asks d for destinations. The gRPC
// server uses it to answer with the client-chosen path.
func (b *LocalBridge) WithDialog(d Dialog) *LocalBridge {
	c := *b
	c.dialog = d
	return &c
}

func (b *LocalBridge) resolve(path string) (string, error) {
	if storage.IsS3Path(path) || filepath.IsAbs(path) {
		return path, nil
	}
	if b.saveDir != "" {
		dir, err := filex.EnsureDir(b.saveDir)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, path), nil
	}
	return filepath.Abs(path)
}

func (b *LocalBridge) SaveVideo(ctx context.Context, buf []byte) (*models.Video, error) {
	chosen, ok, err := b.dialog.ChooseSavePath(ctx, b.defaultName)
	if err != nil {
		return nil, fmt.Errorf("choose destination: %w", err)
	}
	if !ok || chosen == "" {
		b.log.Debug(ctx, "save cancelled")
		return nil, nil
	}

	path, err := b.resolve(chosen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrWriteFailure, err)
	}

	if err := b.store.Write(ctx, path, buf); err != nil {
		b.record(ctx, &models.Event{Kind: models.EventSaveFailed, Path: path, Size: int64(len(buf)), Message: err.Error()})
		b.log.Error(ctx, "save failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrWriteFailure, err)
	}

	v := models.NewVideo(path, int64(len(buf)), cryptox.Checksum(buf), b.now())
	b.record(ctx, &models.Event{Kind: models.EventSaved, Path: v.Path, Size: v.Size, Checksum: v.Checksum, OccurredAt: v.CreatedAt})
	b.log.Info(ctx, "video saved", "path", v.Path, "size", v.Size)
	return v, nil
}

func (b *LocalBridge) DeleteVideo(ctx context.Context, path string) (bool, error) {
	if err := b.store.Remove(ctx, path); err != nil {
		b.record(ctx, &models.Event{Kind: models.EventDeleteFailed, Path: path, Message: err.Error()})
		b.log.Error(ctx, "delete failed", "path", path, "error", err)
		return false, fmt.Errorf("%w: %w", common.ErrDeleteFailure, err)
	}
	b.record(ctx, &models.Event{Kind: models.EventDeleted, Path: path})
	b.log.Info(ctx, "video deleted", "path", path)
	return true, nil
}

func (b *LocalBridge) FetchMedia(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := b.store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return rc, nil
}

// History lists journal events, newest first. It returns nil when no
// journal is configured.
func (b *LocalBridge) History(ctx context.Context, limit int) ([]models.Event, error) {
	if b.journal == nil {
		return nil, nil
	}
	return b.journal.List(ctx, limit)
}

func (b *LocalBridge) record(ctx context.Context, ev *models.Event) {
	if b.journal == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = b.now()
	}
	if err := b.journal.Append(ctx, ev); err != nil {
		b.log.Warn(ctx, "journal append failed", "kind", ev.Kind, "path", ev.Path, "error", err)
	}
}
