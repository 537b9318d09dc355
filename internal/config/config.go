// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	HTTPAddr       string        `mapstructure:"HTTP_ADDR"`
	DatabaseDSN    string        `mapstructure:"DATABASE_DSN"`
	JWTKey         string        `mapstructure:"JWT_KEY"`
	AccessTTL      time.Duration `mapstructure:"ACCESS_TTL"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"` // comma-separated
}

// Load reads configuration from the environment, optionally backed by an
// app.env file in path. Missing file is fine; missing JWT key is not.
func Load(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	for _, key := range []string{"HTTP_ADDR", "DATABASE_DSN", "JWT_KEY", "ACCESS_TTL", "ALLOWED_ORIGINS"} {
		_ = viper.BindEnv(key)
	}

	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("ACCESS_TTL", 24*time.Hour)
	viper.SetDefault("ALLOWED_ORIGINS", "*")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.JWTKey == "" {
		return Config{}, fmt.Errorf("missing JWT_KEY")
	}
	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("missing DATABASE_DSN")
	}
	return cfg, nil
}

// Origins splits the comma-separated origin list.
func (c Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
