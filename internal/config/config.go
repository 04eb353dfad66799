package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DataSourceSpreadsheet = "spreadsheet"
	DataSourcePostgres    = "postgres"
)

type Config struct {
	App       AppConfig
	Data      DataConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Dashboard DashboardConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Version  string
	Port     int
	Env      string
	LogLevel string
}

// DataConfig locates the workforce sources.
type DataConfig struct {
	Source         string
	Dir            string
	EmployeeFile   string
	LeaveFile      string
	SalesFile      string
	ReportConfig   string
	ReloadInterval time.Duration
	Cache          bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration. An empty Secret disables authentication.
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// DashboardConfig holds render defaults.
type DashboardConfig struct {
	TrailingYears int
	GenderTarget  string
	DefaultReport string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using environment")
	}

	config := &Config{}

	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "worklense-hrbi"),
		Version:  getEnv("APP_VERSION", "dev"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	reloadInterval, err := getEnvDuration("DATA_RELOAD_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	cache, err := strconv.ParseBool(getEnv("DATA_CACHE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATA_CACHE: %w", err)
	}
	config.Data = DataConfig{
		Source:         strings.ToLower(getEnv("DATA_SOURCE", DataSourceSpreadsheet)),
		Dir:            getEnv("DATA_DIR", "./data"),
		EmployeeFile:   getEnv("EMPLOYEE_MASTER_FILE", "employee_master.xlsx"),
		LeaveFile:      getEnv("LEAVE_RECORDS_FILE", "leave_records.xlsx"),
		SalesFile:      getEnv("SALES_FIGURES_FILE", "sales_figures.xlsx"),
		ReportConfig:   getEnv("REPORT_CONFIG_FILE", "report_config.xlsx"),
		ReloadInterval: reloadInterval,
		Cache:          cache,
	}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "worklense_hrbi"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	trailing, err := getEnvInt("DASHBOARD_TRAILING_YEARS", 5)
	if err != nil {
		return nil, err
	}
	config.Dashboard = DashboardConfig{
		TrailingYears: trailing,
		GenderTarget:  getEnv("DASHBOARD_GENDER_TARGET", "Female"),
		DefaultReport: getEnv("DASHBOARD_DEFAULT_REPORT", "executive_summary"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Data.Source {
	case DataSourceSpreadsheet:
		if c.Data.Dir == "" {
			return fmt.Errorf("DATA_DIR is required")
		}
	case DataSourcePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unsupported DATA_SOURCE %q", c.Data.Source)
	}
	if c.Data.ReloadInterval < 0 {
		return fmt.Errorf("DATA_RELOAD_INTERVAL must not be negative")
	}
	if c.Dashboard.TrailingYears < 1 || c.Dashboard.TrailingYears > 20 {
		return fmt.Errorf("DASHBOARD_TRAILING_YEARS must be between 1 and 20")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	return nil
}

// AuthEnabled reports whether API routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWT.Secret != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SourcePath returns the file path of a named spreadsheet source.
func (c *Config) SourcePath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.Data.Dir, file)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
