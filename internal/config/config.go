package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the catalog server configuration.
type Config struct {
	HTTPAddr    string   `yaml:"http_addr"`
	GRPCAddr    string   `yaml:"grpc_addr"`
	RecordsFile string   `yaml:"records_file"`
	Database    Database `yaml:"database"`
	Redis       Redis    `yaml:"redis"`
}

// Database selects the record store. Driver is "mysql" or "sqlite".
type Database struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	PoolSize int    `yaml:"pool_size"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:    ":8080",
		GRPCAddr:    ":50051",
		RecordsFile: "records.txt",
		Database: Database{
			Driver:          "mysql",
			DSN:             "root:root@tcp(localhost:3306)/catalog?parseTime=true",
			MaxOpenConns:    50,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: Redis{
			Addr:     "localhost:6379",
			PoolSize: 100,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	override(&c.Database.DSN, "MYSQL_DSN")
	override(&c.Redis.Addr, "REDIS_ADDR")
	override(&c.HTTPAddr, "HTTP_ADDR")
	override(&c.GRPCAddr, "GRPC_ADDR")
	override(&c.RecordsFile, "RECORDS_FILE")
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
