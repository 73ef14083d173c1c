package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/vidkeeper/internal/common"
)

// NewFileBackend replays a recorded file as if it came from a device.
// A missing or unreadable file is reported as an unavailable device.
func NewFileBackend(path string, opts ...StreamOption) *StreamBackend {
	return NewStreamBackend(func(ctx context.Context) (io.ReadCloser, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return nil, fmt.Errorf("%w: %v", common.ErrCaptureUnavailable, err)
			}
			return nil, err
		}
		return f, nil
	}, opts...)
}
