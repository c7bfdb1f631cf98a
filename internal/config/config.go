package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/proof-of-corn/corncheck/internal/agronomy"
	"github.com/proof-of-corn/corncheck/internal/weather"
)

// Defaults describe the original farm: Iowa corn outside Des Moines,
// planted between April 11 and May 18 once the soil (proxied by air
// temperature) reaches 50°F.
const (
	defaultLocation   = "Des Moines, Iowa"
	defaultLat        = 41.5868
	defaultLon        = -93.6250
	defaultStart      = "04-11"
	defaultEnd        = "05-18"
	defaultThresholdF = 50.0
)

var validate = validator.New()

// AppConfig is the resolved process configuration. Values come from
// defaults, then an optional YAML farm file, then environment variables,
// later sources winning.
type AppConfig struct {
	OpenWeatherAPIKey string

	FarmLocation string  `validate:"required"`
	FarmLat      float64 `validate:"gte=-90,lte=90"`
	FarmLon      float64 `validate:"gte=-180,lte=180"`

	Window             agronomy.Window
	SoilTempThresholdF float64 `validate:"gt=0"`

	LogDir      string        `validate:"required"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Serve mode only.
	Port      string `validate:"required"`
	CheckTime string `validate:"required,datetime=15:04"`
}

// farmFile is the optional YAML farm description (FARM_CONFIG). Pointer
// fields distinguish "absent" from zero.
type farmFile struct {
	Location           string   `yaml:"location"`
	Lat                *float64 `yaml:"lat"`
	Lon                *float64 `yaml:"lon"`
	PlantingStart      string   `yaml:"planting_start"`
	PlantingEnd        string   `yaml:"planting_end"`
	SoilTempThresholdF *float64 `yaml:"soil_temp_threshold_f"`
}

// Load reads configuration from the environment (and an optional farm
// file) with the original farm as defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		FarmLocation:       defaultLocation,
		FarmLat:            defaultLat,
		FarmLon:            defaultLon,
		SoilTempThresholdF: defaultThresholdF,
	}

	startStr := defaultStart
	endStr := defaultEnd

	// Optional farm file, patakib-style: one YAML document describing the farm.
	if path := os.Getenv("FARM_CONFIG"); path != "" {
		ff, err := readFarmFile(path)
		if err != nil {
			return nil, err
		}
		if ff.Location != "" {
			cfg.FarmLocation = ff.Location
		}
		if ff.Lat != nil {
			cfg.FarmLat = *ff.Lat
		}
		if ff.Lon != nil {
			cfg.FarmLon = *ff.Lon
		}
		if ff.PlantingStart != "" {
			startStr = ff.PlantingStart
		}
		if ff.PlantingEnd != "" {
			endStr = ff.PlantingEnd
		}
		if ff.SoilTempThresholdF != nil {
			cfg.SoilTempThresholdF = *ff.SoilTempThresholdF
		}
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.FarmLocation = getenvDefault("FARM_LOCATION", cfg.FarmLocation)

	var err error
	if cfg.FarmLat, err = getenvFloat("FARM_LAT", cfg.FarmLat); err != nil {
		return nil, err
	}
	if cfg.FarmLon, err = getenvFloat("FARM_LON", cfg.FarmLon); err != nil {
		return nil, err
	}
	if cfg.SoilTempThresholdF, err = getenvFloat("SOIL_TEMP_THRESHOLD_F", cfg.SoilTempThresholdF); err != nil {
		return nil, err
	}

	startStr = getenvDefault("PLANTING_START", startStr)
	endStr = getenvDefault("PLANTING_END", endStr)

	startMonth, startDay, err := parseMonthDay("PLANTING_START", startStr)
	if err != nil {
		return nil, err
	}
	endMonth, endDay, err := parseMonthDay("PLANTING_END", endStr)
	if err != nil {
		return nil, err
	}
	cfg.Window = agronomy.Window{
		StartMonth: startMonth,
		StartDay:   startDay,
		EndMonth:   endMonth,
		EndDay:     endDay,
	}

	cfg.LogDir = getenvDefault("LOG_DIR", "logs")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.CheckTime = getenvDefault("CHECK_TIME", "08:00")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Farm returns the configured farm as a weather location.
func (c *AppConfig) Farm() weather.Location {
	return weather.Location{
		Name: c.FarmLocation,
		Lat:  c.FarmLat,
		Lon:  c.FarmLon,
	}
}

// Params returns the agronomic parameters for the decision engine.
func (c *AppConfig) Params() agronomy.Params {
	return agronomy.Params{
		Location:           c.FarmLocation,
		Window:             c.Window,
		SoilTempThresholdF: c.SoilTempThresholdF,
	}
}

func readFarmFile(path string) (*farmFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read farm config: %w", err)
	}
	var ff farmFile
	if err := yaml.Unmarshal(raw, &ff); err != nil {
		return nil, fmt.Errorf("parse farm config: %w", err)
	}
	return &ff, nil
}

// parseMonthDay parses an "MM-DD" calendar date.
func parseMonthDay(name, s string) (time.Month, int, error) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s %q: want MM-DD", name, s)
	}
	return t.Month(), t.Day(), nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
