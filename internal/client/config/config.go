package config

import (
	"fmt"
	"time"
)

// Auth modes.
const (
	AuthLocal  = "local"
	AuthHosted = "hosted"
)

// Config holds runtime settings for the console.
type Config struct {
	RelayBaseURL string
	RelayKey     string
	RelayThing   string

	CameraHost         string
	CameraPort         int
	// CameraProbePort is the liveness probe's port; 0 probes the bare host.
	CameraProbePort    int
	StreamPath         string
	SnapshotPath       string
	CameraRetryDelay   time.Duration
	CameraProbeTimeout time.Duration

	AuthMode          string
	IdentityEndpoint  string
	HeartbeatInterval time.Duration

	DatabasePath   string
	PollInterval   time.Duration
	CommandTimeout time.Duration

	PhotoLimit int
	PhotoDir   string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	LogLevel string
}

// LoadDefaults populates c with the robot's factory settings.
func (c *Config) LoadDefaults() {
	c.RelayBaseURL = "https://api.anto.io"
	c.RelayThing = "WaterRobot"

	c.CameraHost = "10.48.223.173"
	c.CameraPort = 81
	c.StreamPath = "/stream"
	c.SnapshotPath = "/capture"
	c.CameraRetryDelay = 1200 * time.Millisecond
	c.CameraProbeTimeout = 2 * time.Second

	c.AuthMode = AuthLocal
	c.HeartbeatInterval = 60 * time.Second

	c.DatabasePath = "robot.db"
	c.PollInterval = 3 * time.Second
	c.CommandTimeout = 5 * time.Second

	c.PhotoLimit = 20
	c.PhotoDir = "photos"

	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// Validate reports settings the console cannot start with.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthLocal:
	case AuthHosted:
		if c.IdentityEndpoint == "" {
			return fmt.Errorf("auth mode %q requires an identity endpoint (-a)", c.AuthMode)
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.AuthMode)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.PhotoLimit <= 0 {
		return fmt.Errorf("photo limit must be positive, got %d", c.PhotoLimit)
	}
	return nil
}

// ArchiveEnabled reports whether photos are copied to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}
