package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vidkeeper/internal/flagx"
	"github.com/dmitrijs2005/vidkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. Durations use timex.Duration, which accepts both strings
// such as "15m" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc"`
	MediaAddr               string         `json:"media_addr"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	RootDir                 string         `json:"root_dir"`
	MaxUploadBytes          int64          `json:"max_upload_bytes"`
	MaxEvents               int            `json:"max_events"`
	PresignValidityDuration timex.Duration `json:"presign_validity_duration"`
	MediaRateLimit          *float64       `json:"media_rate_limit"`
	MediaRateBurst          int            `json:"media_rate_burst"`
	MediaTrustProxy         bool           `json:"media_trust_proxy"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config into config. Without the flag nothing is loaded. If the file
// cannot be read or contains invalid JSON, the function panics.
//
// The file replaces the whole configuration: every field is copied, so
// omitted keys become zero values. Zero limits fall back to the defaults;
// only an explicit media_rate_limit of 0 disables rate limiting.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.MediaAddr = c.MediaAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.RootDir = c.RootDir
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.MaxEvents > 0 {
		config.MaxEvents = c.MaxEvents
	}
	if c.PresignValidityDuration.Duration > 0 {
		config.PresignValidityDuration = c.PresignValidityDuration.Duration
	}
	if c.MediaRateLimit != nil {
		config.MediaRateLimit = *c.MediaRateLimit
	}
	if c.MediaRateBurst > 0 {
		config.MediaRateBurst = c.MediaRateBurst
	}
	config.MediaTrustProxy = c.MediaTrustProxy
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
