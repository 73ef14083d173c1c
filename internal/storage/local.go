package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/filex"
)

// LocalStore keeps recordings on the local filesystem.
//
// When root is non-empty every path must resolve inside it; this is how the
// bridge daemon confines remote clients.
type LocalStore struct {
	root string
	perm os.FileMode
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root, perm: 0o644}
}

func (s *LocalStore) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path: %w", common.ErrorNotFound)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if s.root != "" && !filex.IsSubpath(s.root, abs) {
		return "", fmt.Errorf("%s is outside %s: %w", abs, s.root, common.ErrPermissionDenied)
	}
	return abs, nil
}

func (s *LocalStore) Write(ctx context.Context, path string, data []byte) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(abs, data, s.perm); err != nil {
		return classify(fmt.Errorf("write %s: %w", abs, err))
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, classify(fmt.Errorf("open %s: %w", abs, err))
	}
	return f, nil
}

func (s *LocalStore) Remove(ctx context.Context, path string) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return classify(fmt.Errorf("remove %s: %w", abs, err))
	}
	return nil
}
