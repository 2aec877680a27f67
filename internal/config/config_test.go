package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
driver = "memory"

[calendar]
timezone = "America/Chicago"

[calendar.hours.monday]
open = "08:00"
close = "18:00"

[calendar.hours.saturday]
open = "10:00"
close = "14:00"

[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
price_cents = 5000
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(minimalConfig)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Notifications.ReminderBefore())

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", policy.Location.String())
	assert.Equal(t, 30*time.Minute, policy.SlotGranularity)
	assert.Equal(t, 15*time.Minute, policy.Buffer)
	assert.Equal(t, 2*time.Hour, policy.MinLeadTime)
	assert.Equal(t, 60, policy.AdvanceBookingDays)

	assert.False(t, policy.Hours[time.Monday].Closed)
	assert.Equal(t, "08:00", policy.Hours[time.Monday].Open.String())
	assert.True(t, policy.Hours[time.Sunday].Closed)
	assert.True(t, policy.Hours[time.Tuesday].Closed)
}

func TestParse_ExplicitZeroes(t *testing.T) {
	cfg, err := Parse(`
[database]
driver = "memory"

[calendar]
buffer_minutes = 0
min_lead_time_minutes = 0
advance_booking_days = 0

[calendar.hours.monday]
open = "09:00"
close = "17:00"

[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
`)
	require.NoError(t, err)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Zero(t, policy.Buffer)
	assert.Zero(t, policy.MinLeadTime)
	assert.Zero(t, policy.AdvanceBookingDays)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("DETAILING_HTTP_PORT", "9090")
	t.Setenv("DETAILING_LOG_LEVEL", "debug")
	t.Setenv("DETAILING_TIMEZONE", "Europe/Berlin")

	cfg, err := Parse(minimalConfig)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, "Europe/Berlin", cfg.Calendar.TimeZone)
	require.Len(t, cfg.Catalog.Services, 1)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "broken toml", data: `[server`},
		{name: "unknown driver", data: `
[database]
driver = "mysql"
[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
`},
		{name: "postgres without host", data: `
[database]
driver = "postgres"
[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
`},
		{name: "unknown weekday", data: `
[database]
driver = "memory"
[calendar.hours.funday]
open = "09:00"
close = "17:00"
[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
`},
		{name: "open after close", data: `
[database]
driver = "memory"
[calendar.hours.monday]
open = "18:00"
close = "09:00"
[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
`},
		{name: "bad blackout date", data: `
[database]
driver = "memory"
[calendar]
blackout_dates = ["12/25/2026"]
[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
`},
		{name: "unknown timezone", data: `
[database]
driver = "memory"
[calendar]
timezone = "Mars/Olympus"
[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
`},
		{name: "empty catalog", data: `
[database]
driver = "memory"
`},
		{name: "notifications without redis", data: `
[database]
driver = "memory"
[notifications]
enabled = true
[[catalog.services]]
id = "wash"
name = "Wash"
duration_minutes = 60
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	c, err := cfg.BuildCatalog()
	require.NoError(t, err)
	s, ok := c.Service("wash")
	require.True(t, ok)
	assert.Equal(t, int64(5000), s.PriceCents)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad_RepositoryConfig(t *testing.T) {
	cfg, err := Load("../../config.toml")
	require.NoError(t, err)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.True(t, policy.Hours[time.Sunday].Closed)
	assert.Len(t, policy.BlackoutDates, 3)

	c, err := cfg.BuildCatalog()
	require.NoError(t, err)
	assert.Len(t, c.Services(), 4)
	assert.Len(t, c.AddOns(), 4)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "booking", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=booking sslmode=disable", c.DSN())
}
