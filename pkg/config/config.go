package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Denominator modes for attendance percentages.
const (
	DenominatorRecorded   = "recorded"
	DenominatorConfigured = "configured"
)

// Enrollment delete policies.
const (
	DeletePolicyBlock   = "block"
	DeletePolicyCascade = "cascade"
)

type Config struct {
	Env            string
	Port           int
	APIPrefix      string
	RequestTimeout time.Duration

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Attendance AttendanceConfig
	Enrollment EnrollmentConfig
	Exports    ExportsConfig
	Insurance  InsuranceConfig
	Realtime   RealtimeConfig
	Dashboard  DashboardConfig
}

// DatabaseConfig configures the PostgreSQL pool. Idle connections are
// recycled after half of ConnMaxLifetime.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// RedisConfig configures the optional cache. KeyPrefix namespaces every key
// so several deployments can share one Redis.
type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
	KeyPrefix   string
}

// JWTConfig describes how access tokens from the hosted auth provider are verified.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AttendanceConfig tunes report aggregation.
type AttendanceConfig struct {
	ReportDenominator string
	ReportCacheTTL    time.Duration
}

// EnrollmentConfig controls enrollment deletion semantics.
type EnrollmentConfig struct {
	DeletePolicy string
}

// ExportsConfig configures asynchronous report exports.
type ExportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupSchedule   string
	WorkerConcurrency int
	WorkerRetries     int
	JobTimeout        time.Duration
}

// InsuranceConfig configures policy tracking.
type InsuranceConfig struct {
	ExpiringWindow time.Duration
	VerifyBaseURL  string
	SweepSchedule  string
	CacheTTL       time.Duration
}

// RealtimeConfig configures change feeds.
type RealtimeConfig struct {
	Enabled      bool
	Broker       string
	Channel      string
	PingInterval time.Duration
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.RequestTimeout = parseDuration(v.GetString("REQUEST_TIMEOUT"), 15*time.Second)

	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSL_MODE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), time.Hour),
		AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:     v.GetBool("REDIS_ENABLED"),
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
		DialTimeout: parseDuration(v.GetString("REDIS_DIAL_TIMEOUT"), 5*time.Second),
		KeyPrefix:   v.GetString("REDIS_KEY_PREFIX"),
	}

	cfg.JWT = JWTConfig{
		Secret:   v.GetString("JWT_SECRET"),
		Issuer:   v.GetString("JWT_ISSUER"),
		Audience: v.GetString("JWT_AUDIENCE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Attendance = AttendanceConfig{
		ReportDenominator: normaliseDenominator(v.GetString("REPORT_DENOMINATOR")),
		ReportCacheTTL:    parseDuration(v.GetString("REPORT_CACHE_TTL"), 2*time.Minute),
	}

	policy := strings.ToLower(strings.TrimSpace(v.GetString("ENROLLMENT_DELETE_POLICY")))
	if policy != DeletePolicyCascade {
		policy = DeletePolicyBlock
	}
	cfg.Enrollment = EnrollmentConfig{DeletePolicy: policy}

	cfg.Exports = ExportsConfig{
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupSchedule:   v.GetString("EXPORTS_CLEANUP_SCHEDULE"),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
		JobTimeout:        parseDuration(v.GetString("EXPORTS_JOB_TIMEOUT"), 5*time.Minute),
	}

	cfg.Insurance = InsuranceConfig{
		ExpiringWindow: parseDuration(v.GetString("INSURANCE_EXPIRING_WINDOW"), 30*24*time.Hour),
		VerifyBaseURL:  strings.TrimRight(v.GetString("INSURANCE_VERIFY_BASE_URL"), "/"),
		SweepSchedule:  v.GetString("INSURANCE_SWEEP_SCHEDULE"),
		CacheTTL:       parseDuration(v.GetString("INSURANCE_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Realtime = RealtimeConfig{
		Enabled:      v.GetBool("REALTIME_ENABLED"),
		Broker:       strings.ToLower(v.GetString("REALTIME_BROKER")),
		Channel:      v.GetString("REALTIME_CHANNEL"),
		PingInterval: parseDuration(v.GetString("REALTIME_PING_INTERVAL"), 30*time.Second),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("REQUEST_TIMEOUT", "15s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_KEY_PREFIX", "portal:")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_AUDIENCE", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REPORT_DENOMINATOR", DenominatorRecorded)
	v.SetDefault("REPORT_CACHE_TTL", "2m")
	v.SetDefault("ENROLLMENT_DELETE_POLICY", DeletePolicyBlock)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_SCHEDULE", "@hourly")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)
	v.SetDefault("EXPORTS_JOB_TIMEOUT", "5m")

	v.SetDefault("INSURANCE_EXPIRING_WINDOW", "720h")
	v.SetDefault("INSURANCE_VERIFY_BASE_URL", "http://localhost:8080/api/v1/insurance/verify")
	v.SetDefault("INSURANCE_SWEEP_SCHEDULE", "0 6 * * *")
	v.SetDefault("INSURANCE_CACHE_TTL", "10m")

	v.SetDefault("REALTIME_ENABLED", true)
	v.SetDefault("REALTIME_BROKER", "local")
	v.SetDefault("REALTIME_CHANNEL", "portal_changes")
	v.SetDefault("REALTIME_PING_INTERVAL", "30s")

	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func normaliseDenominator(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), DenominatorConfigured) {
		return DenominatorConfigured
	}
	return DenominatorRecorded
}
