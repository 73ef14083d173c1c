package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeToCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("recordings")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "recordings"))
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotReal)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	p := filepath.Join(t.TempDir(), "recordings")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o660))

	_, err := EnsureDir(p)
	require.Error(t, err)
}

func TestWriteFileAtomic_WritesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "video.mp4")

	require.NoError(t, WriteFileAtomic(p, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(p, []byte("second"), 0o644))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing", "video.mp4")
	err := WriteFileAtomic(p, []byte("x"), 0o644)
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteFileAtomic_RenameFailureCleansUp(t *testing.T) {
	orig := renameFunc
	t.Cleanup(func() { renameFunc = orig })
	renameFunc = func(string, string) error { return errors.New("rename boom") }

	dir := t.TempDir()
	err := WriteFileAtomic(filepath.Join(dir, "video.mp4"), []byte("x"), 0o644)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestIsSubpath(t *testing.T) {
	root := t.TempDir()

	require.True(t, IsSubpath(root, root))
	require.True(t, IsSubpath(root, filepath.Join(root, "a", "b.mp4")))
	require.False(t, IsSubpath(root, filepath.Join(root, "..", "x.mp4")))
	require.False(t, IsSubpath(root, filepath.Dir(root)))
	require.True(t, IsSubpath(root, filepath.Join(root, "..a")), "sibling-looking names inside root are fine")
}
