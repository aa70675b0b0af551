package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// Fan-out fabric. An empty RedisAddr runs the server single-node on an
	// in-process bus.
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`

	// Connection gate. An empty secret admits every connection.
	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	// Feature toggles, evaluated once at startup.
	EnableTyping       bool          `mapstructure:"enable_typing" yaml:"enable_typing"`
	EnableReadReceipts bool          `mapstructure:"enable_read_receipts" yaml:"enable_read_receipts"`
	TypingTimeout      time.Duration `mapstructure:"typing_timeout" yaml:"typing_timeout"`

	// REST surface.
	APIPrefix         string   `mapstructure:"api_prefix" yaml:"api_prefix"`
	APIAuthRequired   bool     `mapstructure:"api_auth_required" yaml:"api_auth_required"`
	APIAllowedOrigins []string `mapstructure:"api_allowed_origins" yaml:"api_allowed_origins"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		Namespace:          "sockline",
		EnableTyping:       true,
		EnableReadReceipts: true,
		TypingTimeout:      10 * time.Second,
		APIPrefix:          "/api",
	}
}
