package bridge

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/common"
	"github.com/dmitrijs2005/vidkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
	"github.com/dmitrijs2005/vidkeeper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJournal struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (j *memJournal) Append(_ context.Context, ev *models.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.events = append(j.events, *ev)
	return nil
}

func (j *memJournal) List(_ context.Context, limit int) ([]models.Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]models.Event, 0, len(j.events))
	for i := len(j.events) - 1; i >= 0; i-- {
		out = append(out, j.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type failingStore struct{ err error }

func (s failingStore) Write(context.Context, string, []byte) error { return s.err }
func (s failingStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, s.err
}
func (s failingStore) Remove(context.Context, string) error { return s.err }

func TestSaveVideo_WritesWholeBuffer(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dest := filepath.Join(dir, "clip.mp4")
	j := &memJournal{}
	b := NewLocalBridge(storage.NewLocalStore(""), FixedDialog{Path: dest}, WithJournal(j))

	buf := []byte("0123456789")
	before := time.Now()
	v, err := b.SaveVideo(ctx, buf)
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, dest, v.Path)
	assert.Equal(t, "clip.mp4", v.Name)
	assert.Equal(t, int64(len(buf)), v.Size)
	assert.False(t, v.CreatedAt.Before(before), "createdAt must not precede the call")
	assert.Equal(t, cryptox.Checksum(buf), v.Checksum)

	onDisk, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, buf, onDisk)

	require.Len(t, j.events, 1)
	assert.Equal(t, models.EventSaved, j.events[0].Kind)
	assert.Equal(t, dest, j.events[0].Path)
}

func TestSaveVideo_Cancelled_NoWrite(t *testing.T) {
	dir := t.TempDir()
	j := &memJournal{}
	b := NewLocalBridge(storage.NewLocalStore(""), CancelDialog{}, WithJournal(j), WithSaveDir(dir))

	v, err := b.SaveVideo(context.Background(), []byte("data"))
	require.NoError(t, err)
	assert.Nil(t, v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, j.events)
}

func TestSaveVideo_DefaultNameOffered(t *testing.T) {
	var offered string
	d := DialogFunc(func(ctx context.Context, name string) (string, bool, error) {
		offered = name
		return "", false, nil
	})

	_, _ = NewLocalBridge(storage.NewLocalStore(""), d).SaveVideo(context.Background(), nil)
	assert.Equal(t, common.DefaultVideoName, offered)

	_, _ = NewLocalBridge(storage.NewLocalStore(""), d, WithDefaultName("take.mp4")).SaveVideo(context.Background(), nil)
	assert.Equal(t, "take.mp4", offered)
}

func TestSaveVideo_RelativePathResolvedAgainstSaveDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "videos", "nested")
	b := NewLocalBridge(storage.NewLocalStore(""), FixedDialog{Path: "a.mp4"}, WithSaveDir(dir))

	v, err := b.SaveVideo(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.mp4"), v.Path)
	assert.True(t, filepath.IsAbs(v.Path))
	_, err = os.Stat(v.Path)
	require.NoError(t, err)
}

func TestSaveVideo_OverwritesExistingPath(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "same.mp4")
	b := NewLocalBridge(storage.NewLocalStore(""), FixedDialog{Path: dest})

	_, err := b.SaveVideo(context.Background(), []byte("first-version"))
	require.NoError(t, err)
	v, err := b.SaveVideo(context.Background(), []byte("second"))
	require.NoError(t, err)

	assert.Equal(t, int64(6), v.Size)
	got, _ := os.ReadFile(dest)
	assert.Equal(t, "second", string(got))
}

func TestSaveVideo_WriteFailure(t *testing.T) {
	j := &memJournal{}
	b := NewLocalBridge(failingStore{err: errors.Join(common.ErrPermissionDenied, errors.New("read-only"))},
		FixedDialog{Path: "/x/y.mp4"}, WithJournal(j))

	v, err := b.SaveVideo(context.Background(), []byte("abc"))
	assert.Nil(t, v)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrWriteFailure)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	require.Len(t, j.events, 1)
	assert.Equal(t, models.EventSaveFailed, j.events[0].Kind)
	assert.Equal(t, int64(3), j.events[0].Size)
}

func TestSaveVideo_MissingParentDir_WriteFailure(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "v.mp4")
	b := NewLocalBridge(storage.NewLocalStore(""), FixedDialog{Path: dest})

	_, err := b.SaveVideo(context.Background(), []byte("abc"))
	assert.ErrorIs(t, err, common.ErrWriteFailure)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSaveVideo_DialogError(t *testing.T) {
	d := DialogFunc(func(context.Context, string) (string, bool, error) { return "", false, io.ErrUnexpectedEOF })
	_, err := NewLocalBridge(storage.NewLocalStore(""), d).SaveVideo(context.Background(), nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSaveVideo_JournalFailureIgnored(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "v.mp4")
	b := NewLocalBridge(storage.NewLocalStore(""), FixedDialog{Path: dest}, WithJournal(&memJournal{err: errors.New("db gone")}))

	v, err := b.SaveVideo(context.Background(), []byte("abc"))
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestSaveVideo_Clock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	dest := filepath.Join(t.TempDir(), "v.mp4")
	b := NewLocalBridge(storage.NewLocalStore(""), FixedDialog{Path: dest}, WithClock(func() time.Time { return fixed }))

	v, err := b.SaveVideo(context.Background(), []byte("abc"))
	require.NoError(t, err)
	assert.True(t, v.CreatedAt.Equal(fixed))
}

func TestDeleteVideo(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "v.mp4")
	require.NoError(t, os.WriteFile(dest, []byte("x"), 0o600))
	j := &memJournal{}
	b := NewLocalBridge(storage.NewLocalStore(""), CancelDialog{}, WithJournal(j))

	ok, err := b.DeleteVideo(ctx, dest)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))

	ok, err = b.DeleteVideo(ctx, dest)
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrDeleteFailure)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.Len(t, j.events, 2)
	assert.Equal(t, models.EventDeleted, j.events[0].Kind)
	assert.Equal(t, models.EventDeleteFailed, j.events[1].Kind)

	hist, err := b.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, models.EventDeleteFailed, hist[0].Kind)
}

func TestDeleteVideo_OutsideRoot_PermissionDenied(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "v.mp4")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))
	b := NewLocalBridge(storage.NewLocalStore(root), CancelDialog{})

	ok, err := b.DeleteVideo(context.Background(), outside)
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrDeleteFailure)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr, "file outside root must survive")
}

func TestFetchMedia(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "v.mp4")
	require.NoError(t, os.WriteFile(dest, []byte("payload"), 0o600))
	b := NewLocalBridge(storage.NewLocalStore(""), CancelDialog{})

	rc, err := b.FetchMedia(context.Background(), dest)
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "payload", string(got))

	_, err = b.FetchMedia(context.Background(), dest+".missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestHistory_NoJournal(t *testing.T) {
	ev, err := NewLocalBridge(storage.NewLocalStore(""), CancelDialog{}).History(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestWithDialog_Copies(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "v.mp4")
	base := NewLocalBridge(storage.NewLocalStore(""), CancelDialog{})
	fixed := base.WithDialog(FixedDialog{Path: dest})

	v, err := base.SaveVideo(context.Background(), []byte("a"))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = fixed.SaveVideo(context.Background(), []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, dest, v.Path)
}
