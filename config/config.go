package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Document store.
	DataBackend  string `mapstructure:"DATA_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Firebase (Firestore backend and ID token verification).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Auth: "firebase" verifies Firebase ID tokens, "jwt" verifies HS256 tokens signed with JWTSecret.
	AuthMode  string `mapstructure:"AUTH_MODE"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`

	// Client roster.
	ClientCacheTTL           int `mapstructure:"CLIENT_CACHE_TTL"` // seconds, 0 disables
	ProfileLookupConcurrency int `mapstructure:"PROFILE_LOOKUP_CONCURRENCY"`

	// Cloudinary (export archives).
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	ExportFolder        string `mapstructure:"EXPORT_FOLDER"`
}

var AppConfig Config

var (
	validBackends  = []string{"mongo", "firestore"}
	validAuthModes = []string{"firebase", "jwt"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("DATA_BACKEND", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "pocketclass")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("AUTH_MODE", "firebase")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("CLIENT_CACHE_TTL", 60)
	v.SetDefault("PROFILE_LOOKUP_CONCURRENCY", 8)
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("EXPORT_FOLDER", "exports/clients")
}

// Load reads configuration from config.yaml (current or ./config directory) and the environment.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	AppConfig = cfg
}

// Validate collects every configuration problem into a single error.
func (c Config) Validate() error {
	var problems []string

	if !contains(validBackends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid DATA_BACKEND %q: must be one of %v", c.DataBackend, validBackends))
	}
	if !contains(validAuthModes, c.AuthMode) {
		problems = append(problems, fmt.Sprintf("invalid AUTH_MODE %q: must be one of %v", c.AuthMode, validAuthModes))
	}
	if c.AuthMode == "jwt" && c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required when AUTH_MODE is jwt")
	}
	if c.DataBackend == "mongo" && c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required for the mongo backend")
	}
	if c.DataBackend == "firestore" && c.FirebaseProjectID == "" && c.FirebaseCredentialsFile == "" {
		problems = append(problems, "FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_FILE is required for the firestore backend")
	}
	if c.ClientCacheTTL < 0 {
		problems = append(problems, "CLIENT_CACHE_TTL cannot be negative")
	}
	if c.ProfileLookupConcurrency < 1 {
		problems = append(problems, "PROFILE_LOOKUP_CONCURRENCY must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) UsesFirebase() bool {
	return c.DataBackend == "firestore" || c.AuthMode == "firebase"
}

func (c Config) CloudinaryConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
