package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"server"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, time.Hour, c.RecoveryTokenValidityDuration)
}

func TestParseFlags(t *testing.T) {
	withArgs(t, "-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "1", "-r", "3", "-l", "debug", "-x", "ignored")

	got := &Config{RecoveryTokenValidityDuration: time.Hour}
	require.NotPanics(t, func() { parseFlags(got) })

	want := &Config{
		EndpointAddrGRPC:              "127.0.0.1:9090",
		DatabaseDSN:                   "db",
		SecretKey:                     "secret",
		AccessTokenValidityDuration:   time.Minute,
		RefreshTokenValidityDuration:  3 * time.Minute,
		RecoveryTokenValidityDuration: time.Hour,
		LogLevel:                      "debug",
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestParseFlags_BadNumberPanics(t *testing.T) {
	withArgs(t, "-t", "soon")
	require.Panics(t, func() { parseFlags(&Config{}) })
}

func TestParseFile_YAMLOverlaysOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("secret_key: s3cr3t\nrefresh_token_validity_duration: 48h\n"), 0o600))
	withArgs(t, "-c", path)

	var cfg Config
	cfg.LoadDefaults()
	parseFile(&cfg)

	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
}

func TestParseFile_JSONAndInvalid(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "server.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"endpoint_addr_grpc":":6000","access_token_validity_duration":"5m"}`), 0o600))

	withArgs(t, "-config", good)
	var cfg Config
	parseFile(&cfg)
	assert.Equal(t, ":6000", cfg.EndpointAddrGRPC)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
	withArgs(t, "-config", bad)
	require.Panics(t, func() { parseFile(&Config{}) })
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr_grpc":":6000","secret_key":"from-file"}`), 0o600))
	withArgs(t, "-c", path, "-a", ":7000")

	cfg := LoadConfig()
	assert.Equal(t, ":7000", cfg.EndpointAddrGRPC)
	assert.Equal(t, "from-file", cfg.SecretKey)
}
