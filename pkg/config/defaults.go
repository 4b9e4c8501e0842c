// Package config provides centralized default values for LeadPulse
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%f (default: %f)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database Configuration
	DatabaseDriver string // "sqlite3" for a local file, "libsql" for a remote Turso URL
	DatabasePath   string
	DatabaseURL    string

	// Snapshot Persistence
	SnapshotKey      string
	SnapshotInterval time.Duration

	// Query Monitoring
	SlowQueryThreshold time.Duration

	// Session Tracking
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// Lead Economics
	LeadBaseValue         float64
	HighValueLeadScore    float64
	HighValueLeadEstimate float64
	StaleLeadAge          time.Duration

	// Auth
	JWTSecret         string
	AdminPasswordHash string
	TokenLifetime     time.Duration

	// Notifications
	NotificationEmailTo   string
	NotificationEmailFrom string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database Configuration
	DatabaseDriver = getEnvString("DATABASE_DRIVER", "sqlite3")
	DatabasePath = getEnvString("DATABASE_PATH", "leadpulse.db")
	DatabaseURL = getEnvString("DATABASE_URL", "")

	// Snapshot Persistence
	SnapshotKey = getEnvString("SNAPSHOT_KEY", "jdmarc_bi_data")
	SnapshotInterval = getEnvDuration("SNAPSHOT_INTERVAL", 5*time.Minute)

	// Query Monitoring
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Session Tracking
	SessionTTL = getEnvDuration("SESSION_TTL", 24*time.Hour)
	SessionSweepInterval = getEnvDuration("SESSION_SWEEP_INTERVAL", 30*time.Minute)

	// Lead Economics
	LeadBaseValue = getEnvFloat("LEAD_BASE_VALUE", 50000)
	HighValueLeadScore = getEnvFloat("HIGH_VALUE_LEAD_SCORE", 80)
	HighValueLeadEstimate = getEnvFloat("HIGH_VALUE_LEAD_ESTIMATE", 100000)
	StaleLeadAge = getEnvDuration("STALE_LEAD_AGE", 7*24*time.Hour)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 24*time.Hour)

	// Notifications
	NotificationEmailTo = getEnvString("NOTIFICATION_EMAIL_TO", "")
	NotificationEmailFrom = getEnvString("NOTIFICATION_EMAIL_FROM", "alerts@jdmarc.com")
}
