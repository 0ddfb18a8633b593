package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DefaultPath      = "./config/local.yaml"
	defaultJWTSecret = "dev-secret-change-me"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	Auth       Auth    `yaml:"auth"`
	CORS       CORS    `yaml:"cors"`
	Redis      Redis   `yaml:"redis"`
	Log        Log     `yaml:"log"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Storage selects the database. DSN wins over the discrete fields; a MySQL
// DSN must carry parseTime=true and multiStatements=true.
type Storage struct {
	Driver       string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	DSN          string `yaml:"dsn" env:"DB_DSN"`
	Host         string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	User         string `yaml:"user" env:"DB_USER" env-default:"root"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	Name         string `yaml:"name" env:"DB_NAME" env-default:"casting_tracker"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	Automigrate  bool   `yaml:"automigrate" env:"DB_AUTOMIGRATE" env-default:"false"`
}

type Auth struct {
	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"dev-secret-change-me"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"12h"`
	CookieName   string        `yaml:"cookie_name" env:"AUTH_COOKIE" env-default:"auth"`
	SecureCookie bool          `yaml:"secure_cookie" env:"SECURE_COOKIE" env-default:"false"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`
}

type Redis struct {
	URL    string `yaml:"url" env:"REDIS_URL"`
	Stream string `yaml:"stream" env:"REDIS_STREAM" env-default:"casting-tracker:events"`
}

type Log struct {
	ErrorFile string `yaml:"error_file" env:"LOG_ERROR_FILE" env-default:"errors.log"`
}

// Load reads an optional .env file, then the YAML config at path (or
// CONFIG_PATH, or DefaultPath) with environment overrides. Without any
// config file only the environment and defaults are used.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.Env == EnvProd && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("jwt_secret must be set in prod")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	return nil
}
