package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"
)

const (
	BackendWorkbook = "workbook"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=estoque port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	AppEnv   string
	HTTPPort string
	LogLevel string

	StoreBackend string
	WorkbookPath string
	DatabaseDSN  string
	SQLitePath   string
	DBLogLevel   gormlogger.LogLevel

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins string

	// Default window of the "expiring soon" view.
	ExpiryWindowDays int

	AdminUsername string
	AdminPassword string

	// Non-fatal findings of Load, logged by the caller once a logger exists.
	Warnings []string
}

// AuthEnabled reports whether logins are required. The workbook backend has
// no user table, so it runs without authentication.
func (c *Config) AuthEnabled() bool {
	return c.StoreBackend != BackendWorkbook
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", BackendWorkbook)),
		WorkbookPath:     getEnv("WORKBOOK_PATH", "estoque.xlsx"),
		DatabaseDSN:      getEnv("DATABASE_DSN", defaultDSN),
		SQLitePath:       getEnv("SQLITE_PATH", "estoque.db"),
		DBLogLevel:       getEnvAsLogLevel("DB_LOG_LEVEL", gormlogger.Warn),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTTTL:           time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		ExpiryWindowDays: getEnvAsInt("EXPIRY_WINDOW_DAYS", 30),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendWorkbook, BackendPostgres, BackendSQLite:
	default:
		return errors.New("STORE_BACKEND deve ser workbook, postgres ou sqlite")
	}

	if c.ExpiryWindowDays < 0 {
		return errors.New("EXPIRY_WINDOW_DAYS não pode ser negativo")
	}

	if c.AuthEnabled() {
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET não definido; obrigatório com banco de dados")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
		}
		if c.AdminPassword == "" {
			c.Warnings = append(c.Warnings, "ADMIN_PASSWORD não definido; nenhum administrador inicial será criado")
		}
	}

	if c.StoreBackend == BackendPostgres && c.DatabaseDSN == defaultDSN {
		c.Warnings = append(c.Warnings, "DATABASE_DSN usando valor padrão; defina a conexão do Postgres em produção")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		c.Warnings = append(c.Warnings, "CORS_ALLOWED_ORIGINS usando valor padrão")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getEnvAsLogLevel(key string, def gormlogger.LogLevel) gormlogger.LogLevel {
	switch strings.ToLower(getEnv(key, "")) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return def
	}
}
