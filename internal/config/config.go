package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int    `mapstructure:"max_header_bytes"`
}

// DatabaseConfig holds database configuration.
// Driver is "postgres" or "memory".
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// LockTimeout bounds how long a registration waits for the session row lock
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	// AcquireTimeout bounds a whole registration call, pool wait included
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
	LogSQL         bool          `mapstructure:"log_sql"`
}

// CacheConfig holds cache configuration. Type is "redis", "memory" or "none".
type CacheConfig struct {
	Type     string        `mapstructure:"type"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	StatsTTL time.Duration `mapstructure:"stats_ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// AuthConfig holds bearer token verification settings.
// An empty JWTSecret disables authentication.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

var config *Config

// Init initializes the configuration
func Init() {
	config = &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// Get returns the global configuration
func Get() *Config {
	if config == nil {
		Init()
	}
	return config
}

func setDefaults() {
	viper.SetDefault("app.name", "lecture-manager")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.shutdown_timeout", 15)
	viper.SetDefault("server.max_header_bytes", 1048576)

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "mydb")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 5)
	viper.SetDefault("database.max_idle_conns", 2)
	viper.SetDefault("database.conn_max_lifetime", 10*time.Minute)
	viper.SetDefault("database.lock_timeout", 5*time.Second)
	viper.SetDefault("database.acquire_timeout", 30*time.Second)
	viper.SetDefault("database.log_sql", false)

	viper.SetDefault("cache.type", "redis")
	viper.SetDefault("cache.host", "localhost")
	viper.SetDefault("cache.port", 6379)
	viper.SetDefault("cache.password", "")
	viper.SetDefault("cache.db", 0)
	viper.SetDefault("cache.stats_ttl", 30*time.Second)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file_path", "")

	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.issuer", "")
}
