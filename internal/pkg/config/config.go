package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/ridemap/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Routes    []RouteConfig   `mapstructure:"routes"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	PublicDir    string `mapstructure:"public_dir"`
	AllowOrigins string `mapstructure:"allow_origins"`
	RateLimit    int    `mapstructure:"rate_limit"` // requests per minute per IP
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RegistryConfig selects where route descriptors come from.
type RegistryConfig struct {
	Source       string `mapstructure:"source"` // "config" or "postgres"
	DefaultRoute string `mapstructure:"default_route"`
	BaseDir      string `mapstructure:"base_dir"` // relative track paths resolve against this
}

// RouteConfig is one entry of the static route registry.
type RouteConfig struct {
	ID          string `mapstructure:"id"`
	Source      string `mapstructure:"source"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Color       string `mapstructure:"color"`
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
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Addr       string `mapstructure:"addr"`
	TTLSeconds int    `mapstructure:"ttl_seconds"` // 0 keeps entries until evicted by the server
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// DefaultRoutes mirrors the tracks shipped with the site.
var DefaultRoutes = []map[string]any{
	{
		"id":          "Afternoon-Ride",
		"source":      "tracks/Afternoon_Ride.gpx",
		"name":        "Afternoon Ride",
		"description": "Afternoon loop recorded on the bike computer",
		"color":       "red",
	},
	{
		"id":          "Sunday-Slow-Ride",
		"source":      "tracks/Sunday_Slow_Ride.gpx",
		"name":        "Sunday Slow Ride",
		"description": "Easy-paced Sunday group ride",
		"color":       "blue",
	},
	{
		"id":          "Ramble-Map",
		"source":      "tracks/Ramble.gpx",
		"name":        "Ramble",
		"description": "Long ramble through the back roads",
		"color":       "purple",
	},
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	return LoadWith(viper.New(), service)
}

// LoadWith is Load on a caller-supplied viper instance, so tests can inject
// config without touching the filesystem or environment.
func LoadWith(v *viper.Viper, service string) (*Config, error) {
	// Defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.public_dir", "./public")
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("registry.source", "config")
	v.SetDefault("registry.default_route", "Afternoon-Ride")
	v.SetDefault("registry.base_dir", ".")
	v.SetDefault("routes", DefaultRoutes)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "ridemap")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "ridemap")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.ttl_seconds", 0)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: RIDEMAP_SERVER_PORT → server.port
	v.SetEnvPrefix("RIDEMAP")
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
	if c.Server.RateLimit <= 0 {
		errs = append(errs, "server.rate_limit must be positive")
	}

	switch c.Registry.Source {
	case "config":
		if len(c.Routes) == 0 {
			errs = append(errs, "routes must list at least one route when registry.source is config")
		}
	case "postgres":
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("registry.source must be config or postgres, got %q", c.Registry.Source))
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}
	if c.Valkey.TTLSeconds < 0 {
		errs = append(errs, "valkey.ttl_seconds must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// RouteDescriptors converts the configured routes to domain descriptors.
func (c *Config) RouteDescriptors() []domain.RouteDescriptor {
	out := make([]domain.RouteDescriptor, len(c.Routes))
	for i, r := range c.Routes {
		out[i] = domain.RouteDescriptor{
			ID:          r.ID,
			Source:      r.Source,
			Name:        r.Name,
			Description: r.Description,
			Color:       r.Color,
		}
	}
	return out
}
