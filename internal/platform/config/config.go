// Package config loads the server configuration from the environment.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting the server reads at startup.
// Values come from environment variables; a local .env file may be
// loaded by the caller before ReadEnv runs.
type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	DB    DBConfig
	JWT   JWTConfig
	Mail  MailConfig
	Redis RedisConfig
}

// DBConfig mirrors the MySQL connection settings.
type DBConfig struct {
	User string `env:"DB_USER"`
	Pass string `env:"DB_PASSWORD"`
	Host string `env:"DB_HOST" env-default:"127.0.0.1"`
	Port string `env:"DB_PORT" env-default:"3306"`
	Name string `env:"DB_NAME"`

	// Instance is the Cloud SQL unix-socket instance name. When set, the
	// DSN uses the unix socket instead of host:port.
	Instance string `env:"INSTANCE_CONNECTION_NAME"`

	// RunMigrations gates AutoMigrate at startup.
	RunMigrations bool `env:"RUN_MIGRATIONS" env-default:"false"`
}

// JWTConfig holds the session-token signing settings.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	Expiration time.Duration `env:"JWT_EXPIRATION" env-default:"24h"`
}

// MailConfig holds the outbound email settings.
type MailConfig struct {
	APIToken  string `env:"MAIL_API_TOKEN"`
	FromEmail string `env:"MAIL_FROM_EMAIL" env-default:"noreply@example.com"`
	FromName  string `env:"MAIL_FROM_NAME" env-default:"Accounts"`

	// FrontendURL is the base URL baked into verification and reset links.
	FrontendURL string `env:"FRONTEND_URL" env-default:"http://localhost:5173"`
}

// RedisConfig holds the optional cache settings.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
