package backendtypes

import (
	"os"
	"strconv"
	"time"
)

// BackendConfig is the gateway's top-level configuration, generalized from
// the teacher's multi-provider shape down to a single Dev upstream.
type BackendConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Auth        AuthConfig        `yaml:"auth"`
	Logging     LoggingConfig     `yaml:"logging"`
	CORS        CORSConfig        `yaml:"cors"`
	DevUpstream DevUpstreamConfig `yaml:"dev_upstream"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Version         string        `yaml:"version"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type AuthConfig struct {
	Enabled     bool     `yaml:"enabled"`
	APIPassword string   `yaml:"api_password"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	PublicPaths []string `yaml:"public_paths"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// DevUpstreamConfig points the gateway at the proprietary Dev chat service.
type DevUpstreamConfig struct {
	BaseURL               string        `yaml:"base_url"`
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout"`
}

// RateLimitConfig bounds per-client request rate via golang.org/x/time/rate.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Default returns the configuration used when no file is found, matching
// original_source/rust_proxy/src/main.rs's PORT-env-or-3000 fallback: the
// port is taken from PORT when it holds a positive integer, else 3000.
func Default() BackendConfig {
	port := 3000
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		port = p
	}
	return BackendConfig{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            port,
			Version:         "dev",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    0, // streaming responses must never be write-deadlined
			ShutdownTimeout: 30 * time.Second,
		},
		Logging:     LoggingConfig{Level: "info", Format: "text"},
		DevUpstream: DevUpstreamConfig{ResponseHeaderTimeout: 10 * time.Second},
		RateLimit:   RateLimitConfig{Enabled: false, RequestsPerSecond: 5, Burst: 10},
	}
}
