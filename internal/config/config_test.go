package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
[database]
host = "localhost"
user = "postgres"
dbname = "appointments"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Booking.DefaultGranularityMinutes)
	assert.Equal(t, 2*time.Second, cfg.Booking.LockTimeout())
	assert.Equal(t, 3, cfg.Booking.MaxRetries)
	assert.Equal(t, "none", cfg.Notifications.Driver)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=appointments sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[booking]
default_granularity_minutes = 30
lock_timeout_ms = 500

[cache]
enabled = true
addr = "redis:6379"
ttl = 120
`))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Booking.DefaultGranularityMinutes)
	assert.Equal(t, 500*time.Millisecond, cfg.Booking.LockTimeout())
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTLDuration())
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(envDBPassword, "secret")
	t.Setenv(envKafkaBrokers, "kafka-1:9092, kafka-2:9092")

	cfg, err := Load(writeConfig(t, minimalConfig+`
[notifications]
driver = "kafka"
`))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Notifications.Brokers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing database host", `[database]
user = "postgres"
dbname = "appointments"`},
		{"unknown driver", minimalConfig + `
[notifications]
driver = "sms"`},
		{"kafka without brokers", minimalConfig + `
[notifications]
driver = "kafka"`},
		{"webhook without url", minimalConfig + `
[notifications]
driver = "webhook"`},
		{"bad log level", minimalConfig + `
[logs]
level = "verbose"`},
		{"zero granularity", minimalConfig + `
[booking]
default_granularity_minutes = 0`},
		{"user service without url", minimalConfig + `
[user_service]
enabled = true`},
		{"broken toml", `[database`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
