// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Normalization modes understood by the inference preprocessor.
const (
	NormalizationRaw   = "raw"
	NormalizationTF    = "tf"
	NormalizationTorch = "torch"
)

const defaultDBPassword = "password"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	Debug          bool   `mapstructure:"DEBUG"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	MaxPageLimit   int    `mapstructure:"MAX_PAGE_LIMIT"`

	ModelServerURL       string  `mapstructure:"MODEL_SERVER_URL"`
	ModelName            string  `mapstructure:"MODEL_NAME"`
	ModelLabelsPath      string  `mapstructure:"MODEL_LABELS_PATH"`
	ModelInputSize       int     `mapstructure:"MODEL_INPUT_SIZE"`
	ModelNormalization   string  `mapstructure:"MODEL_NORMALIZATION"`
	ModelConfidenceFloor float64 `mapstructure:"MODEL_CONFIDENCE_FLOOR"`
	ModelTopK            int     `mapstructure:"MODEL_TOP_K"`
	ModelTimeoutSeconds  int     `mapstructure:"MODEL_TIMEOUT_SECONDS"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env != "" && env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			log.Printf("No profile-specific config 'config.%s.yml' found, using environment only", env)
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))
	config.ModelNormalization = strings.ToLower(strings.TrimSpace(config.ModelNormalization))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DEBUG", true)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "farmsphere")
	viper.SetDefault("DB_PASSWORD", defaultDBPassword)
	viper.SetDefault("DB_NAME", "farmsphere")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("MAX_PAGE_LIMIT", 100)

	viper.SetDefault("MODEL_SERVER_URL", "http://localhost:8501")
	viper.SetDefault("MODEL_NAME", "plant_disease")
	viper.SetDefault("MODEL_LABELS_PATH", "plant_disease.json")
	viper.SetDefault("MODEL_INPUT_SIZE", 160)
	viper.SetDefault("MODEL_NORMALIZATION", NormalizationRaw)
	viper.SetDefault("MODEL_CONFIDENCE_FLOOR", 0.1)
	viper.SetDefault("MODEL_TOP_K", 3)
	viper.SetDefault("MODEL_TIMEOUT_SECONDS", 10)

	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
}

// IsProduction reports whether the configured environment is a production profile.
func (c *Config) IsProduction() bool {
	e := strings.ToLower(strings.TrimSpace(c.Env))
	return e == "production" || e == "prod"
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.MaxPageLimit <= 0 {
		return errors.New("MAX_PAGE_LIMIT must be positive")
	}
	if c.ModelInputSize <= 0 {
		return errors.New("MODEL_INPUT_SIZE must be positive")
	}
	if c.ModelTopK <= 0 {
		return errors.New("MODEL_TOP_K must be positive")
	}
	if c.ModelConfidenceFloor < 0 || c.ModelConfidenceFloor >= 1 {
		return errors.New("MODEL_CONFIDENCE_FLOOR must be in [0, 1)")
	}
	switch c.ModelNormalization {
	case NormalizationRaw, NormalizationTF, NormalizationTorch:
	default:
		return fmt.Errorf("unsupported MODEL_NORMALIZATION %q", c.ModelNormalization)
	}

	if c.IsProduction() {
		if c.DatabaseURL == "" && (c.DBPassword == "" || c.DBPassword == defaultDBPassword) {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production.")
		}
	}

	return nil
}
