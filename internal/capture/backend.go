// Package capture turns a platform media source into in-memory clips.
//
// A Backend acquires the device and buffers chunks between Start and Stop;
// Session layers the idle -> recording -> stopped state machine on top and
// holds at most one unsaved clip.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

// Backend is a substitutable capture source.
type Backend interface {
	// Start acquires the device and begins buffering. Failure to acquire
	// wraps common.ErrCaptureUnavailable.
	Start(ctx context.Context) error
	// Stop ends buffering, releases the device and delivers the assembled
	// clip to the OnClipReady callback. Stopping an idle backend is a no-op.
	// On error the device is released and the clip is dropped, so the
	// backend is idle again.
	Stop(ctx context.Context) error
	// OnClipReady registers the callback invoked once per recording cycle.
	OnClipReady(fn func(models.Clip))
}

// Opener acquires a byte stream from a capture device.
type Opener func(ctx context.Context) (io.ReadCloser, error)

const defaultChunkSize = 64 * 1024

// StreamBackend buffers chunks read from an Opener-provided stream.
// A single reader goroutine runs per recording cycle and is joined by Stop.
type StreamBackend struct {
	open      Opener
	chunkSize int
	mimeType  string
	now       func() time.Time
	log       logging.Logger

	mu        sync.Mutex
	onReady   func(models.Clip)
	stream    io.ReadCloser
	chunks    [][]byte
	done      chan struct{}
	readErr   error
	stopping  bool
	startedAt time.Time
}

// StreamOption customises a StreamBackend.
type StreamOption func(*StreamBackend)

// WithChunkSize sets the read buffer size.
func WithChunkSize(n int) StreamOption {
	return func(b *StreamBackend) {
		if n > 0 {
			b.chunkSize = n
		}
	}
}

// WithLogger sets the logger used for read errors.
func WithLogger(l logging.Logger) StreamOption {
	return func(b *StreamBackend) { b.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) StreamOption {
	return func(b *StreamBackend) { b.now = now }
}

func NewStreamBackend(open Opener, opts ...StreamOption) *StreamBackend {
	b := &StreamBackend{
		open:      open,
		chunkSize: defaultChunkSize,
		mimeType:  common.VideoMimeType,
		now:       time.Now,
		log:       logging.Nop{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *StreamBackend) OnClipReady(fn func(models.Clip)) {
	b.mu.Lock()
	b.onReady = fn
	b.mu.Unlock()
}

func (b *StreamBackend) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stream != nil {
		return errors.New("capture already started")
	}

	stream, err := b.open(ctx)
	if err != nil {
		if errors.Is(err, common.ErrCaptureUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrCaptureUnavailable, err)
	}

	b.stream = stream
	b.chunks = nil
	b.readErr = nil
	b.stopping = false
	b.startedAt = b.now()
	b.done = make(chan struct{})

	go b.readLoop(stream, b.done)
	return nil
}

func (b *StreamBackend) readLoop(r io.Reader, done chan struct{}) {
	defer close(done)
	for {
		buf := make([]byte, b.chunkSize)
		n, err := r.Read(buf)
		// a reader abandoned by Stop must not touch the next cycle
		if n > 0 {
			b.mu.Lock()
			if b.done == done {
				b.chunks = append(b.chunks, buf[:n])
			}
			b.mu.Unlock()
		}
		if err != nil {
			b.mu.Lock()
			if b.done == done && !errors.Is(err, io.EOF) && !b.stopping {
				b.readErr = err
			}
			b.mu.Unlock()
			return
		}
	}
}

func (b *StreamBackend) Stop(ctx context.Context) error {
	b.mu.Lock()
	stream, done := b.stream, b.done
	if stream == nil {
		b.mu.Unlock()
		return nil
	}
	b.stopping = true
	b.mu.Unlock()

	closeErr := stream.Close()

	select {
	case <-done:
	case <-ctx.Done():
		b.mu.Lock()
		if b.done == done {
			b.stream = nil
			b.chunks = nil
			b.done = nil
		}
		b.mu.Unlock()
		return fmt.Errorf("capture stop abandoned, clip dropped: %w", ctx.Err())
	}

	b.mu.Lock()
	clip := models.Clip{
		MimeType:  b.mimeType,
		Chunks:    len(b.chunks),
		StartedAt: b.startedAt,
		StoppedAt: b.now(),
	}
	size := 0
	for _, c := range b.chunks {
		size += len(c)
	}
	clip.Data = make([]byte, 0, size)
	for _, c := range b.chunks {
		clip.Data = append(clip.Data, c...)
	}
	readErr := b.readErr
	b.stream = nil
	b.chunks = nil
	b.done = nil
	fn := b.onReady
	b.mu.Unlock()

	if readErr != nil {
		b.log.Warn(ctx, "capture stream ended early", "error", readErr, "bytes", size)
	}
	if closeErr != nil {
		b.log.Debug(ctx, "capture stream close", "error", closeErr)
	}
	if fn != nil {
		fn(clip)
	}
	return nil
}
