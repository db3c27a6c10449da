package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, DenominatorRecorded, cfg.Attendance.ReportDenominator)
	assert.Equal(t, DeletePolicyBlock, cfg.Enrollment.DeletePolicy)
	assert.Equal(t, 30*24*time.Hour, cfg.Insurance.ExpiringWindow)
	assert.Equal(t, "portal:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Minute, cfg.Exports.JobTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REPORT_DENOMINATOR", "Configured")
	t.Setenv("ENROLLMENT_DELETE_POLICY", "cascade")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_POOL_SIZE", "32")
	t.Setenv("EXPORTS_JOB_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DenominatorConfigured, cfg.Attendance.ReportDenominator)
	assert.Equal(t, DeletePolicyCascade, cfg.Enrollment.DeletePolicy)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, 90*time.Second, cfg.Exports.JobTimeout)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Minute))
}
