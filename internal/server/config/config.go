// Package config handles configuration for the bridge server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the vidkeeper bridge server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC bridge endpoint.
//   - MediaAddr: bind address for the HTTP media endpoint. Empty disables it.
//   - DatabaseDSN: journal DSN, a SQLite path or a postgres:// URL. Empty disables the journal.
//   - SecretKey: HMAC secret for verifying access tokens (HS256). Do not use test defaults in prod.
//   - RootDir: local saves and reads are confined to this directory. Empty allows any path.
//   - MaxUploadBytes: largest recording accepted by SaveVideo.
//   - MaxEvents: journal history kept after each append.
//   - PresignValidityDuration: lifetime of presigned media URLs.
//   - MediaRateLimit / MediaRateBurst: per-client request budget of the media
//     endpoint (requests per second, burst). A zero rate disables limiting.
//   - MediaTrustProxy: key the media rate limit on X-Forwarded-For. Set only
//     behind a proxy that overwrites the header.
//   - S3RootUser / S3RootPassword / S3Region / S3BaseEndpoint: object storage
//     settings. S3 is enabled when a region or endpoint is set.
type Config struct {
	EndpointAddrGRPC        string
	MediaAddr               string
	DatabaseDSN             string
	SecretKey               string
	RootDir                 string
	MaxUploadBytes          int64
	MaxEvents               int
	PresignValidityDuration time.Duration
	MediaRateLimit          float64
	MediaRateBurst          int
	MediaTrustProxy         bool
	S3RootUser              string
	S3RootPassword          string
	S3Region                string
	S3BaseEndpoint          string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.MediaAddr = ":8080"
	c.DatabaseDSN = "vidkeeper-server.db"
	c.SecretKey = "secretKey"
	c.RootDir = "recordings"
	c.MaxUploadBytes = 2 << 30
	c.MaxEvents = 1000
	c.PresignValidityDuration = 15 * time.Minute
	c.MediaRateLimit = 20
	c.MediaRateBurst = 40
}

// S3Enabled reports whether s3:// destinations should be served.
func (c *Config) S3Enabled() bool {
	return c.S3Region != "" || c.S3BaseEndpoint != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
