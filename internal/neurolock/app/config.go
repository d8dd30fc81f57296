package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer      string // Issuer claim for session tokens (default: neurolock)
	CompanyCode string // Required: shared code gating self-registration

	DatabaseFile string        // Path to SQLite database file (default: ./neurolock.db)
	PepperFile   string        // Path to password-hashing pepper file (default: ./pepper)
	CaptureDir   string        // Directory for audit capture images (default: ./captures)
	SessionTTL   time.Duration // Session token lifetime (default: 12h)

	ChallengeTTL   time.Duration // Nominal challenge validity window (default: 8s)
	ChallengeGrace time.Duration // Jitter grace past the window (default: 2s)
	MaxClockSkew   time.Duration // Tolerated client clock offset (default: 6s)
	MinFocus       float64       // Inclusive focus_score acceptance bound (default: 0.45)
	MinFaceBytes   int           // Minimum decoded image payload size (default: 5000)

	CaptureRetention time.Duration // How long audit captures survive (default: 30 days)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1m)
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one is present in the working directory.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Issuer:      getEnvOrDefault("NEUROLOCK_ISSUER", "neurolock"),
		CompanyCode: getEnvOrDefault("NEUROLOCK_COMPANY_CODE", "230106"),

		DatabaseFile: getEnvOrDefault("NEUROLOCK_DATABASE_FILE", "neurolock.db"),
		PepperFile:   getEnvOrDefault("NEUROLOCK_PEPPER_FILE", "pepper"),
		CaptureDir:   getEnvOrDefault("NEUROLOCK_CAPTURE_DIR", "captures"),
		SessionTTL:   getEnvDurationOrDefault("NEUROLOCK_SESSION_TTL", 12*time.Hour),

		ChallengeTTL:   getEnvDurationOrDefault("NEUROLOCK_CHALLENGE_TTL", 8*time.Second),
		ChallengeGrace: getEnvDurationOrDefault("NEUROLOCK_CHALLENGE_GRACE", 2*time.Second),
		MaxClockSkew:   getEnvDurationOrDefault("NEUROLOCK_MAX_CLOCK_SKEW", 6*time.Second),
		MinFocus:       getEnvFloatOrDefault("NEUROLOCK_MIN_FOCUS", 0.45),
		MinFaceBytes:   getEnvIntOrDefault("NEUROLOCK_MIN_FACE_BYTES", 5000),

		CaptureRetention: getEnvDurationOrDefault("NEUROLOCK_CAPTURE_RETENTION", 30*24*time.Hour),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are taken as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
