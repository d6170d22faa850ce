package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  DB settings depend on DBDriver: the MySQL
// fields are used for "mysql" and DBPath for "sqlite".
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBDriver  string // "mysql" (default) or "sqlite"
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	DBPath    string // sqlite database file (":memory:" allowed)
	JWTSecret string // secret used to verify access tokens
	AMQPURL   string // RabbitMQ connection URL; empty disables reservation events
	LogLevel  string // logrus level name
	LogFormat string // "json" or "text"
}

// Load reads an optional .env file and then the process environment.
// Missing required variables are reported together in one error so a
// misconfigured deployment fails fast with the full list.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBDriver:  strings.ToLower(envStr("DB_DRIVER", "mysql")),
		JWTSecret: must("JWT_SECRET"),
		AMQPURL:   amqpURL(),
		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", ""),
	}
	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case "sqlite":
		cfg.DBPath = envStr("DB_PATH", "theatre.db")
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.Env == "dev" {
			cfg.LogFormat = "text"
		}
	}
	return cfg, nil
}

// amqpURL keeps the RABBITMQ_URL / AMQP_URL aliases.  Unlike the broker
// consumer, the server treats an unset URL as "events disabled".
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
