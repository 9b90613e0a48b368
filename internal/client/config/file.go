package config

import (
	"time"

	"github.com/dmitrijs2005/waterbot/internal/filex"
	"github.com/dmitrijs2005/waterbot/internal/flagx"
	"github.com/dmitrijs2005/waterbot/internal/timex"
)

// FileConfig is the on-disk shape of Config. Durations accept "3s" or
// integer nanoseconds.
type FileConfig struct {
	RelayBaseURL string `json:"relay_base_url" yaml:"relay_base_url"`
	RelayKey     string `json:"relay_key" yaml:"relay_key"`
	RelayThing   string `json:"relay_thing" yaml:"relay_thing"`

	CameraHost         string         `json:"camera_host" yaml:"camera_host"`
	CameraPort         int            `json:"camera_port" yaml:"camera_port"`
	CameraProbePort    int            `json:"camera_probe_port" yaml:"camera_probe_port"`
	StreamPath         string         `json:"stream_path" yaml:"stream_path"`
	SnapshotPath       string         `json:"snapshot_path" yaml:"snapshot_path"`
	CameraRetryDelay   timex.Duration `json:"camera_retry_delay" yaml:"camera_retry_delay"`
	CameraProbeTimeout timex.Duration `json:"camera_probe_timeout" yaml:"camera_probe_timeout"`

	AuthMode          string          `json:"auth_mode" yaml:"auth_mode"`
	IdentityEndpoint  string          `json:"identity_endpoint" yaml:"identity_endpoint"`
	HeartbeatInterval *timex.Duration `json:"heartbeat_interval" yaml:"heartbeat_interval"`

	DatabasePath   string         `json:"database_path" yaml:"database_path"`
	PollInterval   timex.Duration `json:"poll_interval" yaml:"poll_interval"`
	CommandTimeout timex.Duration `json:"command_timeout" yaml:"command_timeout"`

	PhotoLimit int    `json:"photo_limit" yaml:"photo_limit"`
	PhotoDir   string `json:"photo_dir" yaml:"photo_dir"`

	S3Bucket    string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region    string `json:"s3_region" yaml:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKey string `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key" yaml:"s3_secret_key"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the non-empty values of the file named by
// -c/-config. A heartbeat_interval of 0 is kept and disables the heartbeat.
// It panics when the file cannot be read or decoded.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	var fc FileConfig
	if err := filex.DecodeFile(path, &fc); err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.RelayBaseURL, fc.RelayBaseURL)
	setString(&cfg.RelayKey, fc.RelayKey)
	setString(&cfg.RelayThing, fc.RelayThing)

	setString(&cfg.CameraHost, fc.CameraHost)
	setInt(&cfg.CameraPort, fc.CameraPort)
	setInt(&cfg.CameraProbePort, fc.CameraProbePort)
	setString(&cfg.StreamPath, fc.StreamPath)
	setString(&cfg.SnapshotPath, fc.SnapshotPath)
	setDuration(&cfg.CameraRetryDelay, fc.CameraRetryDelay)
	setDuration(&cfg.CameraProbeTimeout, fc.CameraProbeTimeout)

	setString(&cfg.AuthMode, fc.AuthMode)
	setString(&cfg.IdentityEndpoint, fc.IdentityEndpoint)
	if fc.HeartbeatInterval != nil {
		cfg.HeartbeatInterval = fc.HeartbeatInterval.Duration
	}

	setString(&cfg.DatabasePath, fc.DatabasePath)
	setDuration(&cfg.PollInterval, fc.PollInterval)
	setDuration(&cfg.CommandTimeout, fc.CommandTimeout)

	setInt(&cfg.PhotoLimit, fc.PhotoLimit)
	setString(&cfg.PhotoDir, fc.PhotoDir)

	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3Endpoint, fc.S3Endpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)

	setString(&cfg.LogLevel, fc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
