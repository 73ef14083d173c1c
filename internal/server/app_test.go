package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	dir := t.TempDir()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.MediaAddr = "127.0.0.1:0"
	c.RootDir = filepath.Join(dir, "recordings")
	c.DatabaseDSN = filepath.Join(dir, "journal.db")
	return c
}

func TestNewApp_WiresLocalBridge(t *testing.T) {
	c := testConfig(t)

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.DirExists(t, c.RootDir)
	assert.NotNil(t, app.bridge)
	assert.NotNil(t, app.db)
	assert.Nil(t, app.presigner)

	hist, err := app.bridge.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestNewApp_WithoutJournal(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDSN = ""

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.Nil(t, app.db)
}

func TestNewApp_BadJournal(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDSN = filepath.Join(t.TempDir(), "missing", "dir", "journal.db")

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_WithS3(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDSN = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.NotNil(t, app.presigner)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_RunStopsWhenServerFails(t *testing.T) {
	c := testConfig(t)
	c.EndpointAddrGRPC = "bad-address"
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
