package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearFarmEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENWEATHER_API_KEY", "FARM_CONFIG", "FARM_LOCATION", "FARM_LAT", "FARM_LON",
		"PLANTING_START", "PLANTING_END", "SOIL_TEMP_THRESHOLD_F",
		"LOG_DIR", "HTTP_TIMEOUT", "PORT", "CHECK_TIME",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearFarmEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Des Moines, Iowa", cfg.FarmLocation)
	assert.Equal(t, 41.5868, cfg.FarmLat)
	assert.Equal(t, -93.6250, cfg.FarmLon)
	assert.Equal(t, time.April, cfg.Window.StartMonth)
	assert.Equal(t, 11, cfg.Window.StartDay)
	assert.Equal(t, time.May, cfg.Window.EndMonth)
	assert.Equal(t, 18, cfg.Window.EndDay)
	assert.Equal(t, 50.0, cfg.SoilTempThresholdF)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "08:00", cfg.CheckTime)
	assert.Empty(t, cfg.OpenWeatherAPIKey)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearFarmEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("FARM_LOCATION", "Ames, Iowa")
	t.Setenv("FARM_LAT", "42.03")
	t.Setenv("FARM_LON", "-93.62")
	t.Setenv("PLANTING_START", "04-20")
	t.Setenv("PLANTING_END", "05-30")
	t.Setenv("SOIL_TEMP_THRESHOLD_F", "55")
	t.Setenv("LOG_DIR", "/tmp/corncheck-logs")
	t.Setenv("CHECK_TIME", "06:30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "Ames, Iowa", cfg.FarmLocation)
	assert.Equal(t, 42.03, cfg.FarmLat)
	assert.Equal(t, time.April, cfg.Window.StartMonth)
	assert.Equal(t, 20, cfg.Window.StartDay)
	assert.Equal(t, 30, cfg.Window.EndDay)
	assert.Equal(t, 55.0, cfg.SoilTempThresholdF)
	assert.Equal(t, "06:30", cfg.CheckTime)

	farm := cfg.Farm()
	assert.Equal(t, "Ames, Iowa", farm.Name)
	assert.Equal(t, 42.03, farm.Lat)

	params := cfg.Params()
	assert.Equal(t, 55.0, params.SoilTempThresholdF)
}

func TestLoadFarmFile(t *testing.T) {
	clearFarmEnv(t)

	path := filepath.Join(t.TempDir(), "farm.yaml")
	farmYAML := `location: "Grand Island, Nebraska"
lat: 40.9264
lon: -98.3420
planting_start: "04-25"
planting_end: "05-25"
soil_temp_threshold_f: 52
`
	require.NoError(t, os.WriteFile(path, []byte(farmYAML), 0o644))
	t.Setenv("FARM_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Grand Island, Nebraska", cfg.FarmLocation)
	assert.Equal(t, 40.9264, cfg.FarmLat)
	assert.Equal(t, 25, cfg.Window.StartDay)
	assert.Equal(t, 52.0, cfg.SoilTempThresholdF)
}

func TestLoadEnvWinsOverFarmFile(t *testing.T) {
	clearFarmEnv(t)

	path := filepath.Join(t.TempDir(), "farm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("location: \"Grand Island, Nebraska\"\nlat: 40.9264\n"), 0o644))
	t.Setenv("FARM_CONFIG", path)
	t.Setenv("FARM_LOCATION", "Ames, Iowa")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Ames, Iowa", cfg.FarmLocation)
	assert.Equal(t, 40.9264, cfg.FarmLat)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"latitude out of range", "FARM_LAT", "123"},
		{"latitude not a number", "FARM_LAT", "north"},
		{"bad window date", "PLANTING_START", "13-40"},
		{"bad window format", "PLANTING_END", "May 18"},
		{"bad timeout", "HTTP_TIMEOUT", "soon"},
		{"bad check time", "CHECK_TIME", "8am"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearFarmEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFarmFile(t *testing.T) {
	clearFarmEnv(t)
	t.Setenv("FARM_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
