package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	ChatAddr   string `yaml:"chatAddr"`   // API-сервер
	NotifyAddr string `yaml:"notifyAddr"` // fanout-сервер
}

type Postgres struct {
	DSN               string `yaml:"dsn"`
	MaxConns          int32  `yaml:"maxConns"`
	MinConns          int32  `yaml:"minConns"`
	MaxConnLifetime   string `yaml:"maxConnLifetime"`
	MaxConnIdleTime   string `yaml:"maxConnIdleTime"`
	HealthCheckPeriod string `yaml:"healthCheckPeriod"`
}

type Auth struct {
	PrivateKeyPath string `yaml:"privateKeyPath"` // RSA PEM, нужен только chat-server
	PublicKeyPath  string `yaml:"publicKeyPath"`
	Issuer         string `yaml:"issuer"`
	Audience       string `yaml:"audience"`
	TokenTTL       string `yaml:"tokenTTL"`
	BcryptCost     int    `yaml:"bcryptCost"`
}

type Storage struct {
	BaseDir string `yaml:"baseDir"`
}

type Logging struct {
	Env       string `yaml:"env"`     // dev|stage|prod
	Service   string `yaml:"service"` // перекрывается каждым бинарём
	Version   string `yaml:"version"`
	Backend   string `yaml:"backend"` // std|zap
	AddSource bool   `yaml:"addSource"`
	Debug     bool   `yaml:"debug"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Postgres Postgres `yaml:"postgres"`
	Auth     Auth     `yaml:"auth"`
	Storage  Storage  `yaml:"storage"`
	Logging  Logging  `yaml:"logging"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.ChatAddr == "" {
		c.HTTP.ChatAddr = ":6688"
	}
	if c.HTTP.NotifyAddr == "" {
		c.HTTP.NotifyAddr = ":6687"
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.Auth.PublicKeyPath == "" {
		return errors.New("auth.publicKeyPath is required")
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "chat-server"
	}
	if c.Auth.Audience == "" {
		c.Auth.Audience = "chat-client"
	}
	if c.Auth.TokenTTL == "" {
		c.Auth.TokenTTL = "24h"
	}
	if c.Storage.BaseDir == "" {
		c.Storage.BaseDir = "/tmp/chat-files"
	}
	// установка дефолтов, если значения не указаны
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	return nil
}

// TokenTTL с дефолтом на случай мусора в yaml.
func (a Auth) TokenTTLOr(def time.Duration) time.Duration {
	return parseDurationOr(def, a.TokenTTL)
}

func (p Postgres) MaxConnLifetimeOr(def time.Duration) time.Duration {
	return parseDurationOr(def, p.MaxConnLifetime)
}

func (p Postgres) MaxConnIdleTimeOr(def time.Duration) time.Duration {
	return parseDurationOr(def, p.MaxConnIdleTime)
}

func (p Postgres) HealthCheckPeriodOr(def time.Duration) time.Duration {
	return parseDurationOr(def, p.HealthCheckPeriod)
}

// helper для парсинга timeout-ов
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
