package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vidkeeper/internal/flagx"
	"github.com/dmitrijs2005/vidkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from an empty value.
type JsonConfig struct {
	BridgeAddr      *string         `json:"bridge_addr"`
	SecretKey       *string         `json:"secret_key"`
	TokenTTL        *timex.Duration `json:"token_ttl"`
	CaptureBackend  *string         `json:"capture_backend"`
	CaptureDevice   *string         `json:"capture_device"`
	CaptureFormat   *string         `json:"capture_format"`
	CaptureFixture  *string         `json:"capture_fixture"`
	FFmpegPath      *string         `json:"ffmpeg_path"`
	PlayerCommand   *string         `json:"player_command"`
	SaveDir         *string         `json:"save_dir"`
	DefaultFileName *string         `json:"default_file_name"`
	JournalDSN      *string         `json:"journal_dsn"`
	DeletePolicy    *string         `json:"delete_policy"`
	LogLevel        *string         `json:"log_level"`
	S3RootUser      *string         `json:"s3_root_user"`
	S3RootPassword  *string         `json:"s3_root_password"`
	S3Region        *string         `json:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing is loaded. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	set(&cfg.BridgeAddr, jc.BridgeAddr)
	set(&cfg.SecretKey, jc.SecretKey)
	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	set(&cfg.CaptureBackend, jc.CaptureBackend)
	set(&cfg.CaptureDevice, jc.CaptureDevice)
	set(&cfg.CaptureFormat, jc.CaptureFormat)
	set(&cfg.CaptureFixture, jc.CaptureFixture)
	set(&cfg.FFmpegPath, jc.FFmpegPath)
	set(&cfg.PlayerCommand, jc.PlayerCommand)
	set(&cfg.SaveDir, jc.SaveDir)
	set(&cfg.DefaultFileName, jc.DefaultFileName)
	set(&cfg.JournalDSN, jc.JournalDSN)
	set(&cfg.DeletePolicy, jc.DeletePolicy)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.S3RootUser, jc.S3RootUser)
	set(&cfg.S3RootPassword, jc.S3RootPassword)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
