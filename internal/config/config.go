package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// Режим gin: debug, release или test
	Mode            string        `yaml:"mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
	Migrate  bool   `yaml:"migrate"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DSNMasked возвращает DSN без пароля для журнала
func (p PostgresConfig) DSNMasked() string {
	if strings.TrimSpace(p.DSN) == "" {
		return ""
	}
	cc, err := pgconn.ParseConfig(p.DSN)
	if err != nil {
		return "<invalid dsn>"
	}
	user := cc.User
	if cc.Password != "" {
		user += ":******"
	}
	return fmt.Sprintf("postgres://%s@%s/%s", user, net.JoinHostPort(cc.Host, strconv.Itoa(int(cc.Port))), cc.Database)
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "5000",
			Mode:            "debug",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Postgres: PostgresConfig{
			MaxConns: 10,
			Migrate:  true,
		},
		CORS: CORSConfig{AllowedOrigins: []string{"*"}},
		Log:  LogConfig{Level: "info", Format: "json"},
	}
}

// Load читает YAML поверх значений по умолчанию и применяет переменные
// окружения. Отсутствие файла не считается ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if os.Getenv("APP_ENV") != "production" {
		// .env необязателен при локальной разработке
		_ = godotenv.Load()
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("config: server.port must be set")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: unknown server.mode %q", c.Server.Mode)
	}
	return nil
}
