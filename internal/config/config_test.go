package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
user = "app"
dbname = "appointments"

[storage]
driver = "postgres"

[scheduling]
slot_granularity_minutes = 30
timezone = "Asia/Riyadh"

[notifications]
driver = "redis"

[notifications.redis]
addr = "redis:6379"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 5, cfg.Server.RequestTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30, cfg.Scheduling.SlotGranularityMinutes)
	assert.Equal(t, "appointments.events", cfg.Notifications.Redis.Channel)
	assert.Equal(t, "host=db port=5432 user=app dbname=appointments sslmode=disable", cfg.Database.DSN())

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Riyadh", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APPOINTMENTS_DATABASE_PASSWORD", "s3cret")
	t.Setenv("APPOINTMENTS_SERVER_HTTP_PORT", "7070")
	t.Setenv("APPOINTMENTS_STORAGE_DRIVER", "memory")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("APPOINTMENTS_STORAGE_DRIVER", "memory")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, NotifierDriverLog, cfg.Notifications.Driver)
	assert.Equal(t, 15, cfg.Scheduling.SlotGranularityMinutes)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Driver = "mongo" }},
		{name: "postgres without db", mutate: func(c *Config) { c.Storage.Driver = StorageDriverPostgres; c.Database.DBName = "" }},
		{name: "granularity", mutate: func(c *Config) { c.Scheduling.SlotGranularityMinutes = 2 }},
		{name: "timezone", mutate: func(c *Config) { c.Scheduling.Timezone = "Mars/Olympus" }},
		{name: "amqp without url", mutate: func(c *Config) { c.Notifications.Driver = NotifierDriverAMQP }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Storage: Storage{Driver: StorageDriverMemory}}
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
