package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNoObjectStore is returned for s3:// paths when no S3 backend is configured.
var ErrNoObjectStore = errors.New("object storage not configured")

// Router sends s3:// paths to the object store and everything else to the
// local filesystem.
type Router struct {
	local  Store
	object Store
}

// NewRouter builds a Router. object may be nil.
func NewRouter(local Store, object Store) *Router {
	return &Router{local: local, object: object}
}

func (r *Router) pick(path string) (Store, error) {
	if IsS3Path(path) {
		if r.object == nil {
			return nil, fmt.Errorf("%s: %w", path, ErrNoObjectStore)
		}
		return r.object, nil
	}
	return r.local, nil
}

func (r *Router) Write(ctx context.Context, path string, data []byte) error {
	s, err := r.pick(path)
	if err != nil {
		return err
	}
	return s.Write(ctx, path, data)
}

func (r *Router) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	s, err := r.pick(path)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, path)
}

func (r *Router) Remove(ctx context.Context, path string) error {
	s, err := r.pick(path)
	if err != nil {
		return err
	}
	return s.Remove(ctx, path)
}

// PresignGet delegates to the selected backend when it supports presigning.
func (r *Router) PresignGet(ctx context.Context, path string) (string, error) {
	s, err := r.pick(path)
	if err != nil {
		return "", err
	}
	p, ok := s.(Presigner)
	if !ok {
		return "", fmt.Errorf("%s: presigning not supported", path)
	}
	return p.PresignGet(ctx, path)
}
