package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	cfg := []string{"-c", "-config", "--config"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-c", "robot.yaml", "-r", "https://api.anto.io"}, cfg, []string{"-c", "robot.yaml"}},
		{"equals form", []string{"-config=robot.json", "-h", "10.0.0.5"}, cfg, []string{"-config=robot.json"}},
		{"equals value starting with dash", []string{"--config=--odd.yaml"}, cfg, []string{"--config=--odd.yaml"}},
		{"foreign flags dropped", []string{"-k", "secret", "-t", "WaterRobot", "extra"}, cfg, []string{}},
		{"dangling flag kept", []string{"-c"}, cfg, []string{"-c"}},
		{"dash token never taken as value", []string{"-c", "-m", "hosted"}, cfg, []string{"-c"}},
		{"order and repeats preserved", []string{"-config=a.yaml", "-p", "81", "-c", "b.yaml"}, cfg, []string{"-config=a.yaml", "-c", "b.yaml"}},
		{"several allowed names", []string{"-m", "hosted", "-a", "id.example:3200", "-d", "x.db"}, []string{"-m", "-a"}, []string{"-m", "hosted", "-a", "id.example:3200"}},
		{"empty", nil, cfg, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", ConfigFileFlag())
	})

	t.Run("long -config with yaml value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/console.yaml"}
		assert.Equal(t, "/path/console.yaml", ConfigFileFlag())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-k", "apikey", "-t", "WaterRobot"}
		assert.Empty(t, ConfigFileFlag())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.yml"}
		assert.Equal(t, "/path/2.yml", ConfigFileFlag())
	})
}

func TestConfigFileFlagFrom_EqualsForm(t *testing.T) {
	assert.Equal(t, "robot.yaml", ConfigFileFlagFrom([]string{"-m", "hosted", "-config=robot.yaml"}))
}
