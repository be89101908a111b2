package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Profile   ProfileConfig   `mapstructure:"profile"`
	Elevation ElevationConfig `mapstructure:"elevation"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	BodyLimit    int `mapstructure:"body_limit"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Exporter    string  `mapstructure:"exporter"` // otlp | stdout
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Enabled     bool    `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// ProfileConfig bounds and defaults for path-profile requests.
type ProfileConfig struct {
	MaxSamples        int     `mapstructure:"max_samples"`
	DefaultKFactor    float64 `mapstructure:"default_k_factor"`
	DefaultStepMeters float64 `mapstructure:"default_step_meters"`
}

// ElevationConfig selects and tunes the terrain data source.
type ElevationConfig struct {
	Provider  string        `mapstructure:"provider"` // opentopodata | postgis | grid
	URL       string        `mapstructure:"url"`
	Dataset   string        `mapstructure:"dataset"`
	BatchSize int           `mapstructure:"batch_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
	GridPath  string        `mapstructure:"grid_path"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: RRL_ELEVATION_PROVIDER → elevation.provider
	v.SetEnvPrefix("RRL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.body_limit", 256*1024)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rrl")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "dem")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.endpoint", "tempo:4317")
	v.SetDefault("telemetry.exporter", "otlp")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "link-survey")
	v.SetDefault("profile.max_samples", 2000)
	v.SetDefault("profile.default_k_factor", 1.33)
	v.SetDefault("profile.default_step_meters", 50.0)
	v.SetDefault("elevation.provider", "opentopodata")
	v.SetDefault("elevation.url", "https://api.opentopodata.org")
	v.SetDefault("elevation.dataset", "srtm30m")
	v.SetDefault("elevation.batch_size", 100)
	v.SetDefault("elevation.timeout", "10s")
	v.SetDefault("elevation.retries", 2)
	v.SetDefault("elevation.grid_path", "data/etopo1/etopo1_ice_g_i2.bin")
	v.SetDefault("elevation.cache_ttl", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Profile.MaxSamples < 2 {
		errs = append(errs, fmt.Sprintf("profile.max_samples must be at least 2, got %d", c.Profile.MaxSamples))
	}
	if c.Profile.DefaultKFactor <= 0 {
		errs = append(errs, "profile.default_k_factor must be positive")
	}
	if c.Profile.DefaultStepMeters <= 0 {
		errs = append(errs, "profile.default_step_meters must be positive")
	}

	switch c.Elevation.Provider {
	case "opentopodata":
		if c.Elevation.URL == "" {
			errs = append(errs, "elevation.url is required for opentopodata")
		}
		if c.Elevation.Dataset == "" {
			errs = append(errs, "elevation.dataset is required for opentopodata")
		}
		if c.Elevation.BatchSize <= 0 || c.Elevation.BatchSize > 100 {
			errs = append(errs, fmt.Sprintf("elevation.batch_size must be 1-100, got %d", c.Elevation.BatchSize))
		}
	case "postgis":
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required for postgis")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required for postgis")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required for postgis")
		}
	case "grid":
		if c.Elevation.GridPath == "" {
			errs = append(errs, "elevation.grid_path is required for grid")
		}
	default:
		errs = append(errs, fmt.Sprintf("elevation.provider must be opentopodata, postgis or grid, got %q", c.Elevation.Provider))
	}
	if c.Elevation.Timeout <= 0 {
		errs = append(errs, "elevation.timeout must be positive")
	}
	if c.Elevation.Retries < 0 {
		errs = append(errs, "elevation.retries must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
