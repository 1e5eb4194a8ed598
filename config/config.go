package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver           string `mapstructure:"DB_DRIVER"`
	DBURL              string `mapstructure:"DB_URL"`
	DBMaxOpenConns     int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns     int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeM int    `mapstructure:"DB_CONN_MAX_LIFETIME_MIN"`

	JWTSecret      string `mapstructure:"JWT_SECRET"`
	JWTExpiryHours int    `mapstructure:"JWT_EXPIRY_HOURS"`

	// base64, same rules as securecookie: 32 or 64 bytes hash, 16/24/32 bytes block.
	CancelTokenHashKey  string `mapstructure:"CANCEL_TOKEN_HASH_KEY"`
	CancelTokenBlockKey string `mapstructure:"CANCEL_TOKEN_BLOCK_KEY"`

	// Redis is optional; an empty address disables the template cache.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	TemplateCacheTTL int    `mapstructure:"TEMPLATE_CACHE_TTL_SECONDS"`

	MaxRequestsPerMin    int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins          string `mapstructure:"CORS_ORIGINS"`
	BookingRetentionDays int    `mapstructure:"BOOKING_RETENTION_DAYS"`
}

var AppConfig Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_URL", "host=localhost user=agenda password=agenda dbname=agenda port=5432 sslmode=disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 30)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CANCEL_TOKEN_HASH_KEY", "")
	viper.SetDefault("CANCEL_TOKEN_BLOCK_KEY", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("TEMPLATE_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 120)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	viper.SetDefault("BOOKING_RETENTION_DAYS", 0)
}

func IsProduction() bool {
	return AppConfig.Env == "production"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(AppConfig.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
