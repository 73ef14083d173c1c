// Package bridge is the persistence boundary between the recorder UI and
// storage. It is the only component that writes or removes recordings.
package bridge

import (
	"context"
	"io"

	"github.com/dmitrijs2005/vidkeeper/internal/models"
)

// Bridge saves, deletes and streams recordings.
type Bridge interface {
	// SaveVideo asks for a destination and writes buf there in full.
	// A cancelled destination prompt returns nil, nil and writes nothing.
	SaveVideo(ctx context.Context, buf []byte) (*models.Video, error)
	// DeleteVideo removes the recording at path without checking that it
	// exists first. It returns true on success.
	DeleteVideo(ctx context.Context, path string) (bool, error)
	// FetchMedia opens a saved recording for playback.
	FetchMedia(ctx context.Context, path string) (io.ReadCloser, error)
}

// Dialog picks a save destination. ok is false when the user cancels.
type Dialog interface {
	ChooseSavePath(ctx context.Context, defaultName string) (path string, ok bool, err error)
}

// FixedDialog always answers with Path.
type FixedDialog struct {
	Path string
}

func (d FixedDialog) ChooseSavePath(ctx context.Context, defaultName string) (string, bool, error) {
	if d.Path == "" {
		return defaultName, true, nil
	}
	return d.Path, true, nil
}

// CancelDialog always cancels.
type CancelDialog struct{}

func (CancelDialog) ChooseSavePath(context.Context, string) (string, bool, error) {
	return "", false, nil
}

// DialogFunc adapts a function to Dialog.
type DialogFunc func(ctx context.Context, defaultName string) (string, bool, error)

func (f DialogFunc) ChooseSavePath(ctx context.Context, defaultName string) (string, bool, error) {
	return f(ctx, defaultName)
}
