package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

// State of a capture session.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateStopped   State = "stopped" // stopped with an unsaved clip
)

// Session produces exactly one unsaved clip per recording cycle.
type Session struct {
	backend Backend
	log     logging.Logger

	mu      sync.Mutex
	state   State
	clip    *models.Clip
	pending *models.Clip
	message string
}

// NewSession binds a session to backend and registers for its clips.
func NewSession(backend Backend, log logging.Logger) *Session {
	if log == nil {
		log = logging.Nop{}
	}
	s := &Session{backend: backend, log: log, state: StateIdle}
	backend.OnClipReady(s.clipReady)
	return s
}

func (s *Session) clipReady(c models.Clip) {
	s.mu.Lock()
	s.pending = &c
	s.mu.Unlock()
}

// StartRecording discards any unsaved clip and acquires the device. On
// failure the session is idle again and Message holds the user-facing text.
// Starting while already recording is a no-op.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateRecording {
		s.mu.Unlock()
		return nil
	}
	if s.clip != nil {
		s.log.Debug(ctx, "discarding unsaved clip", "bytes", s.clip.Size())
	}
	s.clip = nil
	s.pending = nil
	s.message = ""
	s.state = StateIdle
	s.mu.Unlock()

	if err := s.backend.Start(ctx); err != nil {
		s.mu.Lock()
		s.message = fmt.Sprintf("Failed to start recording: %v", err)
		s.mu.Unlock()
		s.log.Warn(ctx, "start recording failed", "error", err)
		return fmt.Errorf("start recording: %w", err)
	}

	s.mu.Lock()
	s.state = StateRecording
	s.mu.Unlock()
	s.log.Info(ctx, "recording started")
	return nil
}

// StopRecording ends buffering and keeps the assembled clip as unsaved.
// Stopping when not recording does nothing.
func (s *Session) StopRecording(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.backend.Stop(ctx); err != nil {
		s.mu.Lock()
		s.pending = nil
		s.state = StateIdle
		s.message = fmt.Sprintf("Recording lost: %v", err)
		s.mu.Unlock()
		s.log.Warn(ctx, "recording lost", "error", err)
		return fmt.Errorf("stop recording: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = &models.Clip{}
	}
	s.clip = s.pending
	s.pending = nil
	s.state = StateStopped
	s.log.Info(ctx, "recording stopped", "bytes", s.clip.Size(), "chunks", s.clip.Chunks, "duration", s.clip.Duration())
	return nil
}

// DiscardRecording drops the unsaved clip without writing it anywhere.
func (s *Session) DiscardRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRecording {
		return
	}
	s.clip = nil
	s.state = StateIdle
}

// ReleaseClip is DiscardRecording after a successful save.
func (s *Session) ReleaseClip() {
	s.DiscardRecording()
}

// Clip returns the unsaved clip, if any.
func (s *Session) Clip() (models.Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clip == nil {
		return models.Clip{}, false
	}
	return *s.clip, true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Message is the last user-visible capture error, cleared on the next start.
func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}
