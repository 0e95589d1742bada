package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Auth       AuthConfig       `yaml:"auth"`
	Media      MediaConfig      `yaml:"media"`
	Booking    BookingConfig    `yaml:"booking"`
	Pagination PaginationConfig `yaml:"pagination"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
	DocsDir string `yaml:"docs_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers               []string `yaml:"brokers"`
	OrdersTopic           string   `yaml:"orders_topic"`
	NotificationsTopic    string   `yaml:"notifications_topic"`
	GroupID               string   `yaml:"group_id"`
	HeartbeatSeconds      int      `yaml:"heartbeat_seconds"`
	SessionTimeoutSeconds int      `yaml:"session_timeout_seconds"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
}

type MediaConfig struct {
	Dir string `yaml:"dir"`
}

type BookingConfig struct {
	SeatHoldTTLSeconds   int `yaml:"seat_hold_ttl_seconds"`
	RouteCacheTTLSeconds int `yaml:"route_cache_ttl_seconds"`
}

type PaginationConfig struct {
	PageSize    int `yaml:"page_size"`
	MaxPageSize int `yaml:"max_page_size"`
}

func LoadConfig(path string) (*Config, error) {
	// .env may override JWT_SECRET and the database password for local runs
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	if cfg.Pagination.PageSize <= 0 {
		cfg.Pagination.PageSize = 10
	}
	if cfg.Pagination.MaxPageSize <= 0 {
		cfg.Pagination.MaxPageSize = 100
	}
	return &cfg, nil
}
