package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/hexgeo/internal/query"
)

// DefaultPath is used when neither a flag nor HEXGEO_CONFIG names a file.
const DefaultPath = "./configs/hexgeo.yaml"

// EnvPath names the environment variable holding the config path.
const EnvPath = "HEXGEO_CONFIG"

// Config holds all service configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Limits   LimitsConfig   `yaml:"limits"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Disabled            bool   `yaml:"disabled"`
	Issuer              string `yaml:"issuer"`
	PublicKeyURL        string `yaml:"public_key_url"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings. An empty address disables
// the token blacklist.
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
}

// Unlimited disables a query limit. Zero selects the default.
const Unlimited = -1

// LimitsConfig bounds the work a single query may do
type LimitsConfig struct {
	MaxRadius       int   `yaml:"max_radius"`
	MaxLineDistance int64 `yaml:"max_line_distance"`
	BatchSize       int   `yaml:"batch_size"` // coordinates per streamed message
}

// Query converts the limits for the query layer.
func (l LimitsConfig) Query() query.Limits {
	q := query.Limits{MaxRadius: l.MaxRadius, MaxLineDistance: l.MaxLineDistance}
	if q.MaxRadius == Unlimited {
		q.MaxRadius = 0
	}
	if q.MaxLineDistance == Unlimited {
		q.MaxLineDistance = 0
	}
	return q
}

// DatabaseConfig holds the SQLite database used by the sql command
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, logfmt
}

// Default returns the configuration used when no file is present. It runs
// without authentication and without Redis.
func Default() *Config {
	cfg := &Config{JWT: JWTConfig{Disabled: true}}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist and the path was not given explicitly.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ResolvePath picks the config path from the flag value, then the
// environment, then DefaultPath. explicit reports whether the user chose it.
func ResolvePath(flag string) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Set defaults if not provided
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.JWT.PublicKeyRefreshHrs == 0 {
		c.JWT.PublicKeyRefreshHrs = 24
	}
	if c.Redis.BlacklistPrefix == "" {
		c.Redis.BlacklistPrefix = "hexgeo:blacklist:"
	}
	if c.Limits.MaxRadius == 0 {
		c.Limits.MaxRadius = 500
	}
	if c.Limits.MaxLineDistance == 0 {
		c.Limits.MaxLineDistance = 10000
	}
	if c.Limits.BatchSize == 0 {
		c.Limits.BatchSize = 256
	}
	if c.Database.Path == "" {
		c.Database.Path = ":memory:"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Limits.MaxRadius < Unlimited {
		errs = append(errs, fmt.Errorf("limits.max_radius must be -1 (unlimited) or non-negative, got %d", c.Limits.MaxRadius))
	}
	if c.Limits.MaxLineDistance < Unlimited {
		errs = append(errs, fmt.Errorf("limits.max_line_distance must be -1 (unlimited) or non-negative, got %d", c.Limits.MaxLineDistance))
	}
	if c.Limits.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("limits.batch_size must be non-negative, got %d", c.Limits.BatchSize))
	}
	if !c.JWT.Disabled && c.JWT.PublicKeyURL == "" {
		errs = append(errs, errors.New("jwt.public_key_url is required unless jwt.disabled is set"))
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text, json or logfmt", c.Log.Format))
	}
	return errors.Join(errs...)
}
