package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Empty(t, c.BridgeAddr)
	assert.Equal(t, 5*time.Minute, c.TokenTTL)
	assert.Equal(t, "ffmpeg", c.CaptureBackend)
	assert.Equal(t, "confirmed", c.DeletePolicy)
	assert.Equal(t, "video.mp4", c.DefaultFileName)
	assert.False(t, c.UseFileCapture())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "vidkeeper.db", cfg.JournalDSN)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestUseFileCapture(t *testing.T) {
	assert.True(t, (&Config{CaptureBackend: "file"}).UseFileCapture())
	assert.True(t, (&Config{CaptureBackend: "ffmpeg", CaptureFixture: "clip.mp4"}).UseFileCapture())
	assert.False(t, (&Config{CaptureBackend: "ffmpeg"}).UseFileCapture())
}
