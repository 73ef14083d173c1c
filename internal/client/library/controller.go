package library

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/vidkeeper/internal/bridge"
	"github.com/dmitrijs2005/vidkeeper/internal/capture"
	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/logging"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

// DeletePolicy decides when a deleted video leaves the list.
type DeletePolicy string

const (
	// DeleteConfirmed removes the entry only after the bridge confirms.
	DeleteConfirmed DeletePolicy = "confirmed"
	// DeleteOptimistic removes the entry even when removal fails.
	DeleteOptimistic DeletePolicy = "optimistic"
)

// ParseDeletePolicy accepts "confirmed" and "optimistic"; empty means
// DeleteConfirmed.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeleteConfirmed:
		return DeleteConfirmed, nil
	case DeleteOptimistic:
		return DeleteOptimistic, nil
	default:
		return "", fmt.Errorf("unknown delete policy %q", s)
	}
}

// Controller mediates between the user, the capture session and the
// persistence bridge. It is driven from a single goroutine.
type Controller struct {
	session *capture.Session
	bridge  bridge.Bridge
	policy  DeletePolicy
	log     logging.Logger

	state State
	err   string
}

type ControllerOption func(*Controller)

func WithDeletePolicy(p DeletePolicy) ControllerOption {
	return func(c *Controller) { c.policy = p }
}

func WithLogger(l logging.Logger) ControllerOption {
	return func(c *Controller) { c.log = l }
}

func NewController(session *capture.Session, b bridge.Bridge, opts ...ControllerOption) *Controller {
	c := &Controller{session: session, bridge: b, policy: DeleteConfirmed, log: logging.Nop{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StartRecording clears the selection and starts a new capture cycle,
// discarding any unsaved clip.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.err = ""
	c.state = c.state.ClearSelection()
	if err := c.session.StartRecording(ctx); err != nil {
		c.err = c.session.Message()
		return err
	}
	return nil
}

func (c *Controller) StopRecording(ctx context.Context) error {
	if err := c.session.StopRecording(ctx); err != nil {
		c.err = fmt.Sprintf("Failed to stop recording: %v", err)
		return err
	}
	return nil
}

func (c *Controller) DiscardRecording() {
	c.session.DiscardRecording()
}

// HandleSave persists the unsaved clip. On cancel it returns nil, nil and
// keeps both the list and the clip. On failure the clip is kept too.
func (c *Controller) HandleSave(ctx context.Context) (*models.Video, error) {
	clip, ok := c.session.Clip()
	if !ok {
		return nil, common.ErrNoClip
	}

	c.err = ""
	v, err := c.bridge.SaveVideo(ctx, clip.Data)
	if err != nil {
		c.err = fmt.Sprintf("Failed to save video: %v", err)
		c.log.Error(ctx, "save failed", "error", err)
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	c.session.ReleaseClip()
	c.state = c.state.ApplySaved(*v)
	return v, nil
}

// HandleDelete removes the video at path through the bridge and then from
// the list according to the delete policy.
func (c *Controller) HandleDelete(ctx context.Context, path string) error {
	c.err = ""
	ok, err := c.bridge.DeleteVideo(ctx, path)
	if err == nil && !ok {
		err = fmt.Errorf("%w: %s", common.ErrDeleteFailure, path)
	}
	if err != nil {
		c.err = fmt.Sprintf("Failed to delete video: %v", err)
		c.log.Error(ctx, "delete failed", "path", path, "error", err, "policy", c.policy)
		if c.policy == DeleteOptimistic {
			c.state = c.state.ApplyDeleted(path)
		}
		return err
	}
	c.state = c.state.ApplyDeleted(path)
	return nil
}

// Media opens a saved video for playback.
func (c *Controller) Media(ctx context.Context, path string) (io.ReadCloser, error) {
	return c.bridge.FetchMedia(ctx, path)
}

// Select reports false when path is unknown.
func (c *Controller) Select(path string) bool {
	next, ok := c.state.Select(path)
	c.state = next
	return ok
}

func (c *Controller) ClearSelection() { c.state = c.state.ClearSelection() }

func (c *Controller) Videos() []models.Video { return c.state.Sorted() }

func (c *Controller) Selected() (models.Video, bool) { return c.state.Selected() }

func (c *Controller) State() State { return c.state }

func (c *Controller) Policy() DeletePolicy { return c.policy }

// Error is the last user-visible failure message, or "".
func (c *Controller) Error() string { return c.err }

func (c *Controller) RecordingState() capture.State { return c.session.State() }

func (c *Controller) UnsavedClip() (models.Clip, bool) { return c.session.Clip() }
