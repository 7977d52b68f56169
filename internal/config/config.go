// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"wallet-ledger/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	MigrateOnStart  bool
	DB              db.Config
}

var defaults = map[string]any{
	"server_port":          "8080",
	"request_timeout":      "5s",
	"shutdown_timeout":     "30s",
	"log_level":            "info",
	"log_format":           "json",
	"db_host":              "localhost",
	"db_port":              5432,
	"db_user":              "user",
	"db_password":          "password",
	"db_name":              "walletdb",
	"db_sslmode":           "disable",
	"db_max_open_conns":    25,
	"db_max_idle_conns":    10,
	"db_conn_max_lifetime": "5m",
	"db_migrate":           true,
}

// LoadConfig loads configuration from environment variables, after reading an
// optional .env file from the working directory. Variables already set in the
// environment win over the file.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	requestTimeout, err := duration(v, "request_timeout")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := duration(v, "shutdown_timeout")
	if err != nil {
		return nil, err
	}
	connMaxLifetime, err := duration(v, "db_conn_max_lifetime")
	if err != nil {
		return nil, err
	}

	dbPort, err := positiveInt(v, "db_port")
	if err != nil {
		return nil, err
	}
	maxOpen, err := positiveInt(v, "db_max_open_conns")
	if err != nil {
		return nil, err
	}
	maxIdle, err := positiveInt(v, "db_max_idle_conns")
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		ServerPort:      v.GetString("server_port"),
		RequestTimeout:  requestTimeout,
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		MigrateOnStart:  v.GetBool("db_migrate"),
		DB: db.Config{
			Host:            v.GetString("db_host"),
			Port:            dbPort,
			User:            v.GetString("db_user"),
			Password:        v.GetString("db_password"),
			DBName:          v.GetString("db_name"),
			SSLMode:         v.GetString("db_sslmode"),
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: connMaxLifetime,
		},
	}, nil
}

// viper's GetDuration and GetInt swallow parse errors, so values are parsed
// here to reject typos instead of silently using zero.

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", envName(key), raw)
	}
	return d, nil
}

func positiveInt(v *viper.Viper, key string) (int, error) {
	raw := v.GetString(key)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", envName(key), raw)
	}
	return n, nil
}

func envName(key string) string {
	return strings.ToUpper(key)
}
