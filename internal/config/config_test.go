package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := build(newViper())
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, UploadPolicyBestEffort, cfg.Intake.UploadPolicy)
	assert.Equal(t, 3, cfg.Intake.UploadConcurrency)
	assert.Equal(t, 5*time.Second, cfg.Intake.IdentityTimeout)
	assert.Equal(t, 30*time.Second, cfg.Intake.UploadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Intake.PersistTimeout)
	assert.Equal(t, 25*1024*1024, cfg.BodyLimit())
	assert.Equal(t, int64(5*1024*1024), cfg.MaxFileSize())
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.Equal(t, 3, cfg.Resilience.RetryMaxAttempts)
}

func TestBuildUsesModePrefix(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("DEV_DB_HOST", "ignored")
	t.Setenv("PROD_JWT_SECRET", "s3cret")
	t.Setenv("S3_BUCKET_NAME", "iledu-docs")
	t.Setenv("UPLOAD_POLICY", " ALL_OR_NOTHING ")
	t.Setenv("UPLOAD_RETRY_ATTEMPTS", "5")

	cfg, err := build(newViper())
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "iledu-docs", cfg.Storage.Bucket)
	assert.Equal(t, UploadPolicyAllOrNothing, cfg.Intake.UploadPolicy)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5, cfg.Resilience.RetryMaxAttempts)
	assert.Equal(t, "https://iledu.in", cfg.GetAllowedOrigins())
}

func TestBuildRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]string
	}{
		{"mode", map[string]string{"APP_MODE": "staging"}},
		{"policy", map[string]string{"UPLOAD_POLICY": "sometimes"}},
		{"concurrency", map[string]string{"UPLOAD_CONCURRENCY": "0"}},
		{"prod without bucket", map[string]string{"APP_MODE": "prod", "PROD_JWT_SECRET": "x"}},
		{"prod default secret", map[string]string{"APP_MODE": "prod", "S3_BUCKET_NAME": "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := build(v)
			assert.Error(t, err)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{Host: "h", Port: "3306", User: "u", Password: "p", DBName: "d"})
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}

func TestGetEnvFallback(t *testing.T) {
	v := viper.New()
	assert.Equal(t, "fallback", getEnv(v, "NOT_SET_ANYWHERE", "fallback"))
	v.Set("NOT_SET_ANYWHERE", "set")
	assert.Equal(t, "set", getEnv(v, "NOT_SET_ANYWHERE", "fallback"))
}
