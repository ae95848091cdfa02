package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret         string `mapstructure:"secret"`
	ExpiryMinutes  int    `mapstructure:"expiry_minutes"`
	RefreshEnabled bool   `mapstructure:"refresh_enabled"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

var (
	instance *Config
	once     sync.Once
)

// Load reads configuration from .env / environment variables via viper.
// Environment variables use the SLOTSWAP_ prefix, e.g. SLOTSWAP_DATABASE_HOST.
func Load() (*Config, error) {
	var loadErr error
	once.Do(func() {
		_ = godotenv.Load() // .env is optional

		v := viper.New()
		v.SetEnvPrefix("SLOTSWAP")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		v.SetDefault("server.host", "0.0.0.0")
		v.SetDefault("server.port", 7070)
		v.SetDefault("database.host", "localhost")
		v.SetDefault("database.port", 5432)
		v.SetDefault("database.user", "postgres")
		v.SetDefault("database.password", "postgres")
		v.SetDefault("database.dbname", "slotswapper")
		v.SetDefault("database.sslmode", "disable")
		v.SetDefault("redis.host", "localhost")
		v.SetDefault("redis.port", 6379)
		v.SetDefault("redis.password", "")
		v.SetDefault("redis.db", 0)
		v.SetDefault("jwt.secret", "")
		v.SetDefault("jwt.expiry_minutes", 60*24)

		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal config: %w", err)
			return
		}

		if cfg.JWT.Secret == "" {
			loadErr = fmt.Errorf("SLOTSWAP_JWT_SECRET is required")
			return
		}

		instance = cfg
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return instance, nil
}

// Get returns the loaded config. Panics if Load was never called.
func Get() *Config {
	if instance == nil {
		panic("config not initialized, call config.Load() first")
	}
	return instance
}
