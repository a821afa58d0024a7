package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, LoadConfig(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	s := GetSampling()
	assert.Equal(t, 500*time.Millisecond, s.Period)
	assert.Equal(t, 200*time.Millisecond, s.SettleDelay)
	assert.Equal(t, 50*time.Millisecond, GetUI().PollInterval)
	assert.Equal(t, "svg", GetIcon().Format)
	assert.False(t, GetDashboard().Enabled)
}

func TestLoadConfigMissingFileAppliesEnv(t *testing.T) {
	t.Setenv("SYSMONBAR_PERIOD", "900ms")
	t.Setenv("SYSMONBAR_ICON_FORMAT", "ico")
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, 900*time.Millisecond, GetSampling().Period)
	assert.Equal(t, "ico", GetIcon().Format)

	// The file keeps the defaults; env is never persisted.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `format = "svg"`)
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[sampling]
period = "1s"
settle_delay = "250ms"
min_disk_size_gb = 1.5

[icon]
format = "ico"

[auth.users]
admin = "hash"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	require.NoError(t, LoadConfig(path))

	s := GetSampling()
	assert.Equal(t, time.Second, s.Period)
	assert.Equal(t, 250*time.Millisecond, s.SettleDelay)
	assert.Equal(t, uint64(1.5*1024*1024*1024), s.MinDiskSizeBytes())
	assert.Equal(t, "ico", GetIcon().Format)
	// Unset sections keep their defaults.
	assert.Equal(t, 50*time.Millisecond, GetUI().PollInterval)

	h, ok := GetUserHash("admin")
	assert.True(t, ok)
	assert.Equal(t, "hash", h)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
ui:
  poll_interval: 100ms
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	require.NoError(t, LoadConfig(path))

	assert.Equal(t, 100*time.Millisecond, GetUI().PollInterval)
	assert.Equal(t, "debug", GetLog().Level)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[sampling]
period = "100ms"
settle_delay = "200ms"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	assert.ErrorContains(t, LoadConfig(path), "settle_delay")
}

func TestWriteAndReadCopies(t *testing.T) {
	Path = filepath.Join(t.TempDir(), "config.toml")

	c := Default()
	c.Auth.Users = map[string]string{"a": "1"}
	require.NoError(t, Write(c))

	got := Read()
	got.Auth.Users["b"] = "2"
	assert.Len(t, GetUsers(), 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero period", func(c *Config) { c.Sampling.Period = 0 }, "sampling.period"},
		{"poll too fast", func(c *Config) { c.UI.PollInterval = time.Millisecond }, "ui.poll_interval"},
		{"poll too slow", func(c *Config) { c.UI.PollInterval = 2 * time.Second }, "ui.poll_interval"},
		{"bad format", func(c *Config) { c.Icon.Format = "png" }, "icon.format"},
		{"negative disk", func(c *Config) { c.Sampling.MinDiskSizeGB = -1 }, "min_disk_size_gb"},
		{"dashboard no listen", func(c *Config) {
			c.Dashboard.Enabled = true
			c.Dashboard.Listen = ""
		}, "dashboard.listen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	err := ApplyEnv(&c, lookupFrom(map[string]string{
		"SYSMONBAR_PERIOD":            "2s",
		"SYSMONBAR_MIN_DISK_SIZE_GB":  "10",
		"SYSMONBAR_DASHBOARD_ENABLED": "true",
		"SYSMONBAR_ICON_DIR":          "/var/icons",
		"SYSMONBAR_LOG_LEVEL":         "warn",
	}))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, c.Sampling.Period)
	assert.Equal(t, 10.0, c.Sampling.MinDiskSizeGB)
	assert.True(t, c.Dashboard.Enabled)
	assert.Equal(t, "/var/icons", c.Icon.Dir)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestApplyEnvInvalidValues(t *testing.T) {
	c := Default()
	err := ApplyEnv(&c, lookupFrom(map[string]string{
		"SYSMONBAR_POLL_INTERVAL":     "soon",
		"SYSMONBAR_DASHBOARD_ENABLED": "maybe",
	}))
	require.Error(t, err)
	assert.ErrorContains(t, err, "SYSMONBAR_POLL_INTERVAL")
	assert.ErrorContains(t, err, "SYSMONBAR_DASHBOARD_ENABLED")
}
