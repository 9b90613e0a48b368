package config

import (
	"github.com/dmitrijs2005/waterbot/internal/filex"
	"github.com/dmitrijs2005/waterbot/internal/flagx"
	"github.com/dmitrijs2005/waterbot/internal/timex"
)

// FileConfig is the on-disk shape of Config. Durations accept "15m" or
// integer nanoseconds.
type FileConfig struct {
	EndpointAddrGRPC              string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN                   string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                     string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration   timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration  timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	RecoveryTokenValidityDuration timex.Duration `json:"recovery_token_validity_duration" yaml:"recovery_token_validity_duration"`
	LogLevel                      string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with the non-empty values of the file named by
// -c/-config. It panics when the file cannot be read or decoded.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	var fc FileConfig
	if err := filex.DecodeFile(path, &fc); err != nil {
		panic(err)
	}

	setString(&cfg.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.RefreshTokenValidityDuration.Duration > 0 {
		cfg.RefreshTokenValidityDuration = fc.RefreshTokenValidityDuration.Duration
	}
	if fc.RecoveryTokenValidityDuration.Duration > 0 {
		cfg.RecoveryTokenValidityDuration = fc.RecoveryTokenValidityDuration.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
