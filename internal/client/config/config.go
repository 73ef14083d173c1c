package config

import "time"

// Config holds runtime settings for the vidkeeper CLI.
//
// Fields:
//   - BridgeAddr: host:port of a remote bridge server. Empty runs the bridge in-process.
//   - SecretKey / TokenTTL: HMAC secret and lifetime for bridge access tokens.
//   - CaptureBackend: "ffmpeg" (camera) or "file" (replays CaptureFixture).
//   - CaptureDevice / CaptureFormat / FFmpegPath: ffmpeg input settings; empty
//     values fall back to platform defaults.
//   - PlayerCommand: command that receives media on stdin, e.g. "ffplay -i -".
//   - SaveDir: directory for relative destinations typed at the save prompt.
//   - JournalDSN: SQLite path or postgres:// URL; empty disables the journal.
//   - DeletePolicy: "confirmed" or "optimistic".
//   - S3*: object store settings used for s3:// destinations in-process.
type Config struct {
	BridgeAddr      string
	SecretKey       string
	TokenTTL        time.Duration
	CaptureBackend  string
	CaptureDevice   string
	CaptureFormat   string
	CaptureFixture  string
	FFmpegPath      string
	PlayerCommand   string
	SaveDir         string
	DefaultFileName string
	JournalDSN      string
	DeletePolicy    string
	LogLevel        string
	S3RootUser      string
	S3RootPassword  string
	S3Region        string
	S3BaseEndpoint  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.SecretKey = "secretKey"
	c.TokenTTL = 5 * time.Minute
	c.CaptureBackend = "ffmpeg"
	c.FFmpegPath = "ffmpeg"
	c.PlayerCommand = "ffplay -autoexit -loglevel error -i -"
	c.SaveDir = "recordings"
	c.DefaultFileName = "video.mp4"
	c.JournalDSN = "vidkeeper.db"
	c.DeletePolicy = "confirmed"
	c.LogLevel = "warn"
}

// UseFileCapture reports whether recordings come from CaptureFixture
// instead of a camera.
func (c *Config) UseFileCapture() bool {
	return c.CaptureBackend == "file" || c.CaptureFixture != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
