package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"iledu-loan/internal/pkg/resilience"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Upload policies
const (
	UploadPolicyBestEffort   = "best_effort"
	UploadPolicyAllOrNothing = "all_or_nothing"
)

// Config holds all configuration for the application
type Config struct {
	AppMode        string
	Port           string
	AllowedOrigins string
	Database       DatabaseConfig
	JWT            JWTConfig
	Cookie         CookieConfig
	Storage        StorageConfig
	Redis          RedisConfig
	Logging        LoggingConfig
	Intake         IntakeConfig
	Resilience     resilience.Config
	Seed           SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// StorageConfig selects the document store. An empty bucket means the
// in-memory store, which is only accepted in dev.
type StorageConfig struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
}

// RedisConfig is optional; when Address is empty the limiter keeps its
// counters in memory.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// IntakeConfig tunes the submission pipeline.
type IntakeConfig struct {
	UploadPolicy      string
	UploadConcurrency int
	IdentityTimeout   time.Duration
	UploadTimeout     time.Duration
	PersistTimeout    time.Duration
	BodyLimitMB       int
	MaxFileSizeMB     int
}

type SeedConfig struct {
	ReviewerEmail    string
	ReviewerPassword string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	config, err := build(newViper())
	if err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", config.AppMode)
	return config, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_MODE", "dev")
	v.SetDefault("PORT", "3000")
	v.SetDefault("ACCESS_TOKEN_MINUTES", 15)
	v.SetDefault("REFRESH_TOKEN_DAYS", 7)
	v.SetDefault("COOKIE_SAMESITE", "lax")
	v.SetDefault("AWS_REGION", "ap-south-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPLOAD_POLICY", UploadPolicyBestEffort)
	v.SetDefault("UPLOAD_CONCURRENCY", 3)
	v.SetDefault("IDENTITY_TIMEOUT", "5s")
	v.SetDefault("UPLOAD_TIMEOUT", "30s")
	v.SetDefault("PERSIST_TIMEOUT", "10s")
	v.SetDefault("BODY_LIMIT_MB", 25)
	v.SetDefault("MAX_FILE_SIZE_MB", 5)
	return v
}

func build(v *viper.Viper) (*Config, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(v.GetString("APP_MODE"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:        appMode,
		Port:           v.GetString("PORT"),
		AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
		Database:       loadDatabaseConfig(v, appMode),
		JWT:            loadJWTConfig(v, appMode),
		Cookie:         loadCookieConfig(v, appMode),
		Storage:        loadStorageConfig(v),
		Redis:          loadRedisConfig(v),
		Logging:        loadLoggingConfig(v, appMode),
		Intake:         loadIntakeConfig(v),
		Resilience:     loadResilienceConfig(v),
		Seed: SeedConfig{
			ReviewerEmail:    v.GetString("SEED_REVIEWER_EMAIL"),
			ReviewerPassword: v.GetString("SEED_REVIEWER_PASSWORD"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(v *viper.Viper, mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(v, prefix+"DB_HOST", "localhost"),
		Port:     getEnv(v, prefix+"DB_PORT", "3306"),
		User:     getEnv(v, prefix+"DB_USER", "root"),
		Password: getEnv(v, prefix+"DB_PASS", ""),
		DBName:   getEnv(v, prefix+"DB_NAME", "iledu_loan"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(v *viper.Viper, mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:           getEnv(v, prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(v, prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  v.GetInt("ACCESS_TOKEN_MINUTES"),
		RefreshTokenDays: v.GetInt("REFRESH_TOKEN_DAYS"),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(v *viper.Viper, mode string) CookieConfig {
	prefix := modePrefix(mode)

	return CookieConfig{
		Secure:   v.GetBool(prefix + "COOKIE_SECURE"),
		SameSite: v.GetString("COOKIE_SAMESITE"),
		Domain:   v.GetString("COOKIE_DOMAIN"),
	}
}

func loadStorageConfig(v *viper.Viper) StorageConfig {
	return StorageConfig{
		Bucket:          v.GetString("S3_BUCKET_NAME"),
		Region:          v.GetString("AWS_REGION"),
		AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		Endpoint:        v.GetString("S3_ENDPOINT"),
		UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
	}
}

func loadRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Address:  v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}
}

func loadLoggingConfig(v *viper.Viper, mode string) LoggingConfig {
	format := "console"
	if mode == "prod" {
		format = "json"
	}
	return LoggingConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: getEnv(v, "LOG_FORMAT", format),
	}
}

func loadIntakeConfig(v *viper.Viper) IntakeConfig {
	return IntakeConfig{
		UploadPolicy:      strings.ToLower(strings.TrimSpace(v.GetString("UPLOAD_POLICY"))),
		UploadConcurrency: v.GetInt("UPLOAD_CONCURRENCY"),
		IdentityTimeout:   v.GetDuration("IDENTITY_TIMEOUT"),
		UploadTimeout:     v.GetDuration("UPLOAD_TIMEOUT"),
		PersistTimeout:    v.GetDuration("PERSIST_TIMEOUT"),
		BodyLimitMB:       v.GetInt("BODY_LIMIT_MB"),
		MaxFileSizeMB:     v.GetInt("MAX_FILE_SIZE_MB"),
	}
}

// loadResilienceConfig starts from the package defaults and applies any
// override that is set.
func loadResilienceConfig(v *viper.Viper) resilience.Config {
	cfg := resilience.DefaultConfig()

	if v.IsSet("UPLOAD_RETRY_ATTEMPTS") {
		cfg.RetryMaxAttempts = v.GetInt("UPLOAD_RETRY_ATTEMPTS")
	}
	if v.IsSet("UPLOAD_RETRY_BACKOFF") {
		cfg.RetryInitialBackoff = v.GetDuration("UPLOAD_RETRY_BACKOFF")
	}
	if v.IsSet("UPLOAD_BREAKER_ENABLED") {
		cfg.BreakerEnabled = v.GetBool("UPLOAD_BREAKER_ENABLED")
	}
	if v.IsSet("UPLOAD_BREAKER_OPEN_TIMEOUT") {
		cfg.BreakerOpenTimeout = v.GetDuration("UPLOAD_BREAKER_OPEN_TIMEOUT")
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Intake.UploadPolicy {
	case UploadPolicyBestEffort, UploadPolicyAllOrNothing:
	default:
		return fmt.Errorf("invalid UPLOAD_POLICY: '%s' (must be '%s' or '%s')",
			c.Intake.UploadPolicy, UploadPolicyBestEffort, UploadPolicyAllOrNothing)
	}
	if c.Intake.UploadConcurrency < 1 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must be at least 1")
	}
	if c.IsProd() {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("S3_BUCKET_NAME is required in prod")
		}
		if c.JWT.Secret == "default_secret" {
			return fmt.Errorf("PROD_JWT_SECRET must be set in prod")
		}
	}
	return nil
}

// getEnv gets environment variable with default value
func getEnv(v *viper.Viper, key, defaultValue string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := c.AllowedOrigins
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://iledu.in"
	}
	return origins
}

// BodyLimit is the request body limit in bytes.
func (c *Config) BodyLimit() int {
	return c.Intake.BodyLimitMB * 1024 * 1024
}

// MaxFileSize is the per-document limit in bytes.
func (c *Config) MaxFileSize() int64 {
	return int64(c.Intake.MaxFileSizeMB) * 1024 * 1024
}
