package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Plagiarism PlagiarismConfig `yaml:"plagiarism"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig points at the SQLite file backing the marketplace data.
type DatabaseConfig struct {
	Path     string `yaml:"path"`
	LogLevel string `yaml:"log_level"` // silent, error, warn, info
}

// JWTConfig controls token signing and validation.
type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	TTL      time.Duration `yaml:"ttl"`
}

// PlagiarismConfig controls the plagiarism check gateway.
type PlagiarismConfig struct {
	APIURL        string          `yaml:"api_url"`
	APIToken      string          `yaml:"api_token"`
	CacheTTL      time.Duration   `yaml:"cache_ttl"`
	SweepInterval time.Duration   `yaml:"sweep_interval"`
	TextTimeout   time.Duration   `yaml:"text_timeout"`
	URLTimeout    time.Duration   `yaml:"url_timeout"`
	MaxInputChars int             `yaml:"max_input_chars"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig describes a fixed request window.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// CloudinaryConfig holds object storage credentials.
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "5555",
			Mode:            "debug",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:     "easypro.db",
			LogLevel: "info",
		},
		JWT: JWTConfig{
			Secret:   "development-insecure-secret-change-me",
			Issuer:   "easypro-api",
			Audience: "easypro-clients",
			TTL:      24 * time.Hour,
		},
		Plagiarism: PlagiarismConfig{
			CacheTTL:      10 * time.Minute,
			SweepInterval: 2 * time.Minute,
			TextTimeout:   45 * time.Second,
			URLTimeout:    60 * time.Second,
			MaxInputChars: 50000,
			RateLimit: RateLimitConfig{
				Requests: 20,
				Window:   15 * time.Minute,
			},
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order. A missing file at path is not an
// error; an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Mode, "GIN_MODE")
	setString(&cfg.Database.Path, "DB_PATH")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.JWT.Issuer, "JWT_ISSUER")
	setString(&cfg.JWT.Audience, "JWT_AUDIENCE")
	setString(&cfg.Plagiarism.APIURL, "GOWINSTON_API_URL")
	setString(&cfg.Plagiarism.APIToken, "GOWINSTON_API_TOKEN")
	setString(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must be set")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}
	p := c.Plagiarism
	if p.CacheTTL <= 0 || p.SweepInterval <= 0 {
		return errors.New("plagiarism.cache_ttl and plagiarism.sweep_interval must be positive")
	}
	if p.TextTimeout <= 0 || p.URLTimeout <= 0 {
		return errors.New("plagiarism timeouts must be positive")
	}
	if p.MaxInputChars <= 0 {
		return errors.New("plagiarism.max_input_chars must be positive")
	}
	if p.RateLimit.Requests <= 0 || p.RateLimit.Window <= 0 {
		return errors.New("plagiarism.rate_limit requests and window must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// Configured reports whether object storage credentials are present.
func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}
