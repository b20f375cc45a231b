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
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	Storage    Storage    `yaml:"storage"`
	PostgresDB PostgresDB `yaml:"db"`
	SQLite     SQLite     `yaml:"sqlite"`
	Auth       Auth       `yaml:"auth"`
	RedisCache RedisCache `yaml:"rdb"`
}

type Server struct {
	Addr         string        `env-default:":8080" yaml:"addr"`
	BaseURL      string        `yaml:"baseURL"`
	ReadTimeout  time.Duration `env-default:"5s"    yaml:"readTimeout"`
	IdleTimeout  time.Duration `env-default:"30s"   yaml:"idleTimeout"`
	WriteTimeout time.Duration `env-default:"5s"    yaml:"writeTimeout"`
}

type Logger struct {
	Level     string   `env:"LOG_LEVEL" yaml:"level"`
	Output    []string `yaml:"output"`
	ErrOutput []string `yaml:"errOutput"`
}

type Storage struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"postgres" yaml:"driver"`
}

type PostgresDB struct {
	Addr     string `yaml:"addr"`
	Username string `env:"POSTGRES_USER"     yaml:"username"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	DB       string `env:"POSTGRES_DB"       yaml:"db"`
	SSLmode  string `env-default:"disable"   yaml:"sslmode"`
	MaxConns string `env-default:"10"        yaml:"maxConns"`
	Reload   bool   `yaml:"reload"`
	Version  int    `yaml:"version"`
}

type SQLite struct {
	Path string `env:"SQLITE_PATH" env-default:"tutorials.db" yaml:"path"`
}

type Auth struct {
	TTL           time.Duration `env-default:"24h"                       yaml:"ttl"`
	Secret        string        `env:"SECRET"         env-required:"true" yaml:"secret"`
	AdminUsername string        `env:"ADMIN_USERNAME" yaml:"adminUsername"`
	AdminPassword string        `env:"ADMIN_PASSWORD" yaml:"adminPassword"`
}

type RedisCache struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ExpTime  time.Duration `env-default:"1m" yaml:"exp"`
}

// New loads an optional .env file into the environment and then reads the
// YAML config at configPath, letting env variables override it.
func New(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env error: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Storage.Driver)
	}

	return cfg, nil
}

func (p PostgresDB) ConnString() string {
	return "postgres://" + p.Username + ":" + p.Password + "@" +
		p.Addr + "/" + p.DB + "?" + "sslmode=" + p.SSLmode + "&pool_max_conns=" + p.MaxConns
}

// MigrationConnString omits pool options, which the stdlib driver rejects.
func (p PostgresDB) MigrationConnString() string {
	return "postgres://" + p.Username + ":" + p.Password + "@" +
		p.Addr + "/" + p.DB + "?" + "sslmode=" + p.SSLmode
}
