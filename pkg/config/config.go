package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address         string        `yaml:"address"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Heartbeat struct {
		PingInterval time.Duration `yaml:"ping_interval"`
		PongTimeout  time.Duration `yaml:"pong_timeout"`
		ReapInterval time.Duration `yaml:"reap_interval"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"heartbeat"`

	Chain struct {
		WSRPCURL          string        `yaml:"ws_rpc_url"`
		ContractAddress   string        `yaml:"contract_address"`
		ChainID           int64         `yaml:"chain_id"`
		ReconnectBase     time.Duration `yaml:"reconnect_base_delay"`
		ReconnectMaxDelay time.Duration `yaml:"reconnect_max_delay"`
		MaxReconnects     int           `yaml:"max_reconnect_attempts"`
	} `yaml:"chain"`

	Auth struct {
		JWTSecret       string        `yaml:"jwt_secret"`
		AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
		RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	} `yaml:"auth"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Monitoring struct {
		PrometheusEnabled bool   `yaml:"prometheus_enabled"`
		MetricsPath       string `yaml:"metrics_path"`
	} `yaml:"monitoring"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		JaegerURL   string  `yaml:"jaeger_url"`
		Environment string  `yaml:"environment"`
		SampleRate  float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`

	RateLimiting struct {
		Enabled              bool `yaml:"enabled"`
		ConnectionsPerMinute int  `yaml:"connections_per_minute"`
		Burst                int  `yaml:"burst"`
	} `yaml:"rate_limiting"`
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	// Server
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be > 0")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	// Heartbeat
	if c.Heartbeat.PingInterval <= 0 {
		return fmt.Errorf("heartbeat.ping_interval must be > 0")
	}
	if c.Heartbeat.PongTimeout <= c.Heartbeat.PingInterval {
		return fmt.Errorf("heartbeat.pong_timeout must be > ping_interval")
	}
	if c.Heartbeat.ReapInterval <= 0 {
		return fmt.Errorf("heartbeat.reap_interval must be > 0")
	}
	if c.Heartbeat.WriteTimeout <= 0 {
		return fmt.Errorf("heartbeat.write_timeout must be > 0")
	}

	// Chain
	if c.Chain.WSRPCURL == "" {
		return fmt.Errorf("chain.ws_rpc_url must not be empty")
	}
	if !strings.HasPrefix(c.Chain.WSRPCURL, "ws://") && !strings.HasPrefix(c.Chain.WSRPCURL, "wss://") {
		return fmt.Errorf("chain.ws_rpc_url must start with ws:// or wss://")
	}
	if c.Chain.ContractAddress == "" {
		return fmt.Errorf("chain.contract_address must not be empty")
	}
	if c.Chain.ReconnectBase <= 0 {
		return fmt.Errorf("chain.reconnect_base_delay must be > 0")
	}
	if c.Chain.MaxReconnects <= 0 {
		return fmt.Errorf("chain.max_reconnect_attempts must be > 0")
	}

	// Auth
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("auth.refresh_token_ttl must be > 0")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address must not be empty when redis.enabled=true")
		}
		if c.Redis.PoolSize <= 0 {
			return fmt.Errorf("redis.pool_size must be > 0 when redis.enabled=true")
		}
	}

	// Logging
	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level must not be empty")
	}

	// Tracing
	if c.Tracing.Enabled {
		if c.Tracing.JaegerURL == "" {
			return fmt.Errorf("tracing.jaeger_url must not be empty when tracing.enabled=true")
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing.sample_rate must be in [0, 1]")
		}
	}

	// Rate limiting
	if c.RateLimiting.Enabled {
		if c.RateLimiting.ConnectionsPerMinute <= 0 {
			return fmt.Errorf("rate_limiting.connections_per_minute must be > 0 when rate limiting is enabled")
		}
		if c.RateLimiting.Burst <= 0 {
			return fmt.Errorf("rate_limiting.burst must be > 0 when rate limiting is enabled")
		}
	}

	return nil
}

// Load reads configuration from a YAML file, applies defaults and env overrides.
func Load(configPath string) (*Config, error) {
	// If file does not exist, fall back to defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns configuration with sane defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Address = ":3001"
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second

	cfg.Heartbeat.PingInterval = 30 * time.Second
	cfg.Heartbeat.PongTimeout = 60 * time.Second
	cfg.Heartbeat.ReapInterval = 120 * time.Second
	cfg.Heartbeat.WriteTimeout = 10 * time.Second

	cfg.Chain.WSRPCURL = "wss://base-rpc.publicnode.com"
	cfg.Chain.ContractAddress = ""
	cfg.Chain.ChainID = 8453 // Base mainnet
	cfg.Chain.ReconnectBase = 5 * time.Second
	cfg.Chain.ReconnectMaxDelay = 60 * time.Second
	cfg.Chain.MaxReconnects = 10

	cfg.Auth.JWTSecret = "change-me-in-production"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTL = 7 * 24 * time.Hour

	cfg.Redis.Enabled = false
	cfg.Redis.Address = "localhost:6379"
	cfg.Redis.DB = 0
	cfg.Redis.PoolSize = 10

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.Monitoring.PrometheusEnabled = true
	cfg.Monitoring.MetricsPath = "/metrics"

	cfg.Tracing.Enabled = false
	cfg.Tracing.ServiceName = "droppio-notifier"
	cfg.Tracing.JaegerURL = "http://localhost:14268/api/traces"
	cfg.Tracing.Environment = "development"
	cfg.Tracing.SampleRate = 1.0

	cfg.RateLimiting.Enabled = false
	cfg.RateLimiting.ConnectionsPerMinute = 60
	cfg.RateLimiting.Burst = 20

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("DROPPIO_SERVER_ADDRESS"); addr != "" {
		c.Server.Address = addr
	}
	if level := os.Getenv("DROPPIO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if secret := os.Getenv("DROPPIO_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if rpc := os.Getenv("DROPPIO_CHAIN_WS_RPC"); rpc != "" {
		c.Chain.WSRPCURL = rpc
	}
	if addr := os.Getenv("DROPPIO_CONTRACT_ADDRESS"); addr != "" {
		c.Chain.ContractAddress = addr
	}
	if addr := os.Getenv("DROPPIO_REDIS_ADDRESS"); addr != "" {
		c.Redis.Address = addr
	}
}
