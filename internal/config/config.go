package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Mail      MailConfig
	Recruiter RecruiterConfig
	Export    ExportConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	StaticDir     string
	PublicBaseURL string
	RateLimit     int
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Timeout  time.Duration
}

// Enabled reports whether SMTP credentials are configured.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.User != "" && m.Password != ""
}

type RecruiterConfig struct {
	Key string
}

type ExportConfig struct {
	Path string
}

type WorkerConfig struct {
	// ScoringConcurrency bounds parallel resume scoring in list endpoints.
	ScoringConcurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	port := getEnv("PORT", "5000")
	return &Config{
		Server: ServerConfig{
			Port:          port,
			Env:           getEnv("ENV", "development"),
			StaticDir:     getEnv("STATIC_DIR", "./public"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
			RateLimit:     getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			DBName:     getEnv("DB_NAME", "medquest_careers"),
			SQLitePath: getEnv("SQLITE_PATH", "applications.db"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "resumes"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Mail: MailConfig{
			Host:     getEnv("EMAIL_HOST", ""),
			Port:     getEnvAsInt("EMAIL_PORT", 587),
			User:     getEnv("EMAIL_HOST_USER", ""),
			Password: getEnv("EMAIL_HOST_PASSWORD", ""),
			Timeout:  getEnvAsDuration("EMAIL_TIMEOUT", "10s"),
		},
		Recruiter: RecruiterConfig{
			Key: getEnv("RECRUITER_KEY", ""),
		},
		Export: ExportConfig{
			Path: getEnv("EXPORT_PATH", "All_Applications_Export.xlsx"),
		},
		Worker: WorkerConfig{
			ScoringConcurrency: getEnvAsInt("WORKER_SCORING_CONCURRENCY", 4),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
