package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"darksky-sensors/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every validation problem
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	MaxForecastDay  = 7
	MaxForecastHour = 48
)

// Config holds all configuration for the application
type Config struct {
	DarkSky  DarkSkyConfig  `mapstructure:"custom_darksky"`
	Sensor   SensorConfig   `mapstructure:"sensor"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Host     HostConfig     `mapstructure:"homeassistant"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Client   ClientConfig   `mapstructure:"client"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Recorder RecorderConfig `mapstructure:"recorder"`
}

// DarkSkyConfig is the integration's own section
type DarkSkyConfig struct {
	APIKey    string   `mapstructure:"api_key"`
	Latitude  *float64 `mapstructure:"latitude"`
	Longitude *float64 `mapstructure:"longitude"`
	Units     string   `mapstructure:"units"`
	Language  string   `mapstructure:"language"`
}

// SensorConfig configures the sensor platform
type SensorConfig struct {
	Name                string   `mapstructure:"name"`
	MonitoredConditions []string `mapstructure:"monitored_conditions"`
	Forecast            []int    `mapstructure:"forecast"`
	HourlyForecast      []int    `mapstructure:"hourly_forecast"`
}

// WeatherConfig configures the weather entity
type WeatherConfig struct {
	Name string `mapstructure:"name"`
	Mode string `mapstructure:"mode"` // hourly, daily
}

// HostConfig describes the host installation the integration falls back to
type HostConfig struct {
	Latitude   float64 `mapstructure:"latitude"`
	Longitude  float64 `mapstructure:"longitude"`
	UnitSystem string  `mapstructure:"unit_system"` // metric, imperial
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"` // debug, release, test
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// ClientConfig tunes the upstream HTTP client
type ClientConfig struct {
	Timeout   time.Duration   `mapstructure:"timeout"`
	Retries   int             `mapstructure:"retries"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles upstream calls
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// CacheConfig selects the forecast cache
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // none, memory, redis
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig is shared by the redis cache and the state publisher
type RedisConfig struct {
	URL           string `mapstructure:"url"`
	Publish       bool   `mapstructure:"publish"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// RecorderConfig configures the state history database
type RecorderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Path     string `mapstructure:"path"`
	KeepDays int    `mapstructure:"keep_days"`
}

// Load reads configuration from file and environment variables. An empty path
// searches the usual locations for config.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.darksky-sensors")
	}

	setDefaults(v)

	// Read from environment variables, e.g. DARKSKY_LOG_LEVEL
	v.SetEnvPrefix("DARKSKY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("custom_darksky.api_key", "DARKSKY_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("custom_darksky.api_key", "")
	v.SetDefault("custom_darksky.language", "en")
	v.SetDefault("sensor.name", "Custom Dark Sky")
	v.SetDefault("weather.name", "Custom Dark Sky")
	v.SetDefault("weather.mode", "hourly")
	v.SetDefault("homeassistant.latitude", 0.0)
	v.SetDefault("homeassistant.longitude", 0.0)
	v.SetDefault("homeassistant.unit_system", "metric")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.retries", 0)
	v.SetDefault("client.rate_limit.enabled", false)
	v.SetDefault("client.rate_limit.rps", 1.0)
	v.SetDefault("client.rate_limit.burst", 1)
	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.ttl", 2*time.Minute)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.publish", false)
	v.SetDefault("redis.channel_prefix", "darksky")
	v.SetDefault("recorder.enabled", false)
	v.SetDefault("recorder.path", "darksky.db")
	v.SetDefault("recorder.keep_days", 10)
}

// Validate reports every problem with the configuration at once
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(c.DarkSky.APIKey) == "" {
		invalid("custom_darksky.api_key is required")
	}
	if c.DarkSky.Units != "" {
		if _, ok := models.ParseUnits(c.DarkSky.Units); !ok {
			invalid("custom_darksky.units %q is not one of us, si, uk2, ca, auto", c.DarkSky.Units)
		}
	}
	if _, ok := models.Languages[c.DarkSky.Language]; !ok {
		invalid("custom_darksky.language %q is not supported", c.DarkSky.Language)
	}

	lat, lon := c.Location()
	if lat < -90 || lat > 90 {
		invalid("latitude %v is out of range", lat)
	}
	if lon < -180 || lon > 180 {
		invalid("longitude %v is out of range", lon)
	}

	switch c.Host.UnitSystem {
	case "metric", "imperial":
	default:
		invalid("homeassistant.unit_system %q is not metric or imperial", c.Host.UnitSystem)
	}

	if len(c.Sensor.MonitoredConditions) == 0 {
		invalid("sensor.monitored_conditions must list at least one condition")
	}
	for _, name := range c.Sensor.MonitoredConditions {
		if _, ok := models.ParseField(name); !ok {
			invalid("sensor.monitored_conditions: unknown condition %q", name)
		}
	}
	for _, day := range c.Sensor.Forecast {
		if day < 0 || day > MaxForecastDay {
			invalid("sensor.forecast: day %d is outside 0-%d", day, MaxForecastDay)
		}
	}
	for _, hour := range c.Sensor.HourlyForecast {
		if hour < 0 || hour > MaxForecastHour {
			invalid("sensor.hourly_forecast: hour %d is outside 0-%d", hour, MaxForecastHour)
		}
	}

	switch strings.ToLower(c.Weather.Mode) {
	case "hourly", "daily":
	default:
		invalid("weather.mode %q is not hourly or daily", c.Weather.Mode)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		invalid("log.level: %v", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		invalid("server.port %d is out of range", c.Server.Port)
	}

	if c.Client.Retries < 0 {
		invalid("client.retries must not be negative")
	}
	if c.Client.RateLimit.Enabled && (c.Client.RateLimit.RPS <= 0 || c.Client.RateLimit.Burst < 1) {
		invalid("client.rate_limit needs a positive rps and a burst of at least 1")
	}

	switch c.Cache.Backend {
	case "none", "memory":
	case "redis":
		if c.Redis.URL == "" {
			invalid("cache.backend redis requires redis.url")
		}
	default:
		invalid("cache.backend %q is not none, memory or redis", c.Cache.Backend)
	}
	if c.Redis.Publish && c.Redis.URL == "" {
		invalid("redis.publish requires redis.url")
	}

	if c.Recorder.Enabled && c.Recorder.Path == "" {
		invalid("recorder.path is required when the recorder is enabled")
	}

	return errors.Join(errs...)
}

// Location returns the configured coordinates, falling back to the host's
func (c *Config) Location() (lat, lon float64) {
	lat, lon = c.Host.Latitude, c.Host.Longitude
	if c.DarkSky.Latitude != nil {
		lat = *c.DarkSky.Latitude
	}
	if c.DarkSky.Longitude != nil {
		lon = *c.DarkSky.Longitude
	}
	return lat, lon
}

// Units returns the configured unit system. Without one, metric hosts get si
// and imperial hosts get us.
func (c *Config) Units() models.Units {
	if u, ok := models.ParseUnits(c.DarkSky.Units); ok {
		return u
	}
	if c.Host.UnitSystem == "imperial" {
		return models.UnitsUS
	}
	return models.UnitsSI
}

// Conditions returns the monitored conditions, skipping unknown names
func (c *Config) Conditions() []models.Field {
	fields := make([]models.Field, 0, len(c.Sensor.MonitoredConditions))
	for _, name := range c.Sensor.MonitoredConditions {
		if f, ok := models.ParseField(name); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a logrus logger based on the configuration
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(c.Log.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default: // "text" or anything else
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
