package config

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	StaticDir      string
	TLSCert        string
	TLSKey         string
}

// RedisConfig drives the optional presence mirror. An empty URL disables it.
type RedisConfig struct {
	URL          string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

var (
	configInstance *Config
	once           sync.Once
)

func LoadConfig() (*Config, error) {
	// Viper setup
	once.Do(func() {
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
		viper.AddConfigPath(".")

		viper.SetDefault("WSCHAT_PORT", "8080")
		viper.SetDefault("WSCHAT_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("WSCHAT_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("WSCHAT_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("WSCHAT_STATIC_DIR", "./static")
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_MAX_RETRIES", 3)
		viper.SetDefault("REDIS_POOL_SIZE", 100)
		viper.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
		viper.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
		viper.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
		viper.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
		viper.AutomaticEnv()

		// A missing .env file is fine, environment variables and the
		// defaults above still apply.
		_ = viper.ReadInConfig()

		configInstance = &Config{
			Server: ServerConfig{
				Host:           viper.GetString("WSCHAT_HOST"),
				Port:           viper.GetString("WSCHAT_PORT"),
				ReadTimeout:    viper.GetDuration("WSCHAT_READ_TIMEOUT"),
				WriteTimeout:   viper.GetDuration("WSCHAT_WRITE_TIMEOUT"),
				IdleTimeout:    viper.GetDuration("WSCHAT_IDLE_TIMEOUT"),
				AllowedOrigins: splitOrigins(viper.GetString("WSCHAT_ALLOWED_ORIGINS")),
				StaticDir:      viper.GetString("WSCHAT_STATIC_DIR"),
				TLSCert:        viper.GetString("WSCHAT_TLS_CERT"),
				TLSKey:         viper.GetString("WSCHAT_TLS_KEY"),
			},
			Redis: RedisConfig{
				URL:          viper.GetString("REDIS_URL"),
				MaxRetries:   viper.GetInt("REDIS_MAX_RETRIES"),
				DialTimeout:  viper.GetDuration("REDIS_DIAL_TIMEOUT"),
				ReadTimeout:  viper.GetDuration("REDIS_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("REDIS_WRITE_TIMEOUT"),
				PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
				MinIdleConns: viper.GetInt("REDIS_MIN_IDLE_CONNS"),
			},
		}
	})

	return configInstance, nil
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
