// Package config loads server settings: listen address, match database
// path, and logging knobs. Everything has a default; a pong.yaml next to
// the binary or PONG_* environment variables override it.
package config

import (
	"errors"
	"net"

	"github.com/spf13/viper"
)

type Config struct {
	Host   string
	Port   string
	DBPath string

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "./data/pong.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 14)

	v.SetConfigName("pong")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PONG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// No config file is the normal case; defaults and env cover it.
	}

	return &Config{
		Host:          v.GetString("host"),
		Port:          v.GetString("port"),
		DBPath:        v.GetString("db_path"),
		LogLevel:      v.GetString("log_level"),
		LogFile:       v.GetString("log_file"),
		LogMaxSizeMB:  v.GetInt("log_max_size_mb"),
		LogMaxBackups: v.GetInt("log_max_backups"),
		LogMaxAgeDays: v.GetInt("log_max_age_days"),
	}, nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
