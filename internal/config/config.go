package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Document store
	FirestoreProjectID   string
	FirestoreCredentials string
	UseMemoryStore       bool

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Seeded administrator (first boot only)
	AdminUsername string
	AdminPassword string

	// Bulk import chunking policy. Must stay strictly below the store's
	// hard per-batch limit.
	ImportBatchSize int

	// Audit log workbook on local disk
	AuditLogPath string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		FirestoreProjectID:   getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentials: getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
		UseMemoryStore:       getEnv("USE_MEMORY_STORE", "") == "true",

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		ImportBatchSize: parseInt(getEnv("IMPORT_BATCH_SIZE", "400"), 400),

		AuditLogPath: getEnv("AUDIT_LOG_PATH", "Sistem_Loglari.xlsx"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
