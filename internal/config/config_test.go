package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/pkg/types"
)

const sampleConfig = `
[server]
http_port = 8081

[database]
host = "db"
port = 5433
user = "booking"
password = "from-file"
dbname = "counseling"

[datasource]
kind = "memory"
seed_fixtures = true

[redis]
enabled = true
addr = "redis:6379"
slots_ttl_seconds = 120

[kafka]
enabled = true
brokers = ["kafka-1:9092", "kafka-2:9092"]
topic = "bookings"

[booking]
timezone = "Asia/Bangkok"
max_advance_days = 30
default_open_time = "09:00"
default_close_time = "17:00"
default_slot_duration = 30
default_capacity = 2
`

func TestParse(t *testing.T) {
	cfg, err := Parse(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "default kept for missing key")
	assert.Equal(t, DatasourceMemory, cfg.Datasource.Kind)
	assert.True(t, cfg.Datasource.SeedFixtures)
	assert.Equal(t, 2*time.Minute, cfg.Redis.SlotsTTL())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "host=db port=5433 user=booking password=from-file dbname=counseling sslmode=disable", cfg.Database.DSN())

	defaults := cfg.Booking.ScheduleDefaults()
	assert.Equal(t, types.TimeString("09:00"), defaults.OpenTime)
	assert.Equal(t, types.TimeString("17:00"), defaults.CloseTime)
	assert.Equal(t, 30, defaults.SlotDurationMinutes)
	assert.Equal(t, 2, defaults.Capacity)

	window, err := cfg.Booking.Window()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", window.Location.String())
	assert.Equal(t, 30, window.MaxAdvanceDays)
}

func TestParse_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("ADMIN_API_KEY", "staff-key")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "line-token")
	t.Setenv("REDIS_PASSWORD", "")

	cfg, err := Parse(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "staff-key", cfg.Admin.APIKey)
	assert.Equal(t, "line-token", cfg.Line.ChannelAccessToken)
	assert.Empty(t, cfg.Redis.Password, "empty env value does not override")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown datasource", data: "[datasource]\nkind = \"mongo\""},
		{name: "malformed open time", data: "[booking]\ndefault_open_time = \"8am\""},
		{name: "open after close", data: "[booking]\ndefault_open_time = \"21:00\""},
		{name: "zero capacity", data: "[booking]\ndefault_capacity = 0"},
		{name: "bad timezone", data: "[booking]\ntimezone = \"Mars/Olympus\""},
		{name: "kafka without brokers", data: "[kafka]\nenabled = true"},
		{name: "line without token", data: "[line]\nenabled = true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse("[server\nbroken")
	assert.ErrorIs(t, err, ErrRead)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DatasourceMemory, cfg.Datasource.Kind)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrRead)
}
