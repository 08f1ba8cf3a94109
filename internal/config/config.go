package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Server configuration
type ServerConfig struct {
	Port string
	Host string
}

// MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// MinIO object storage configuration
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Auth configuration
type AuthConfig struct {
	JWTSecret       string
	TokenTTLSeconds int
}

// Upload constraints
type UploadConfig struct {
	MaxFileSizeBytes int64
	AllowedMimeTypes []string
}

// Redis cache configuration (optional; disabled when Addr is empty)
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Kafka event mirroring (optional; disabled when Brokers is empty)
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Notifier dispatcher configuration
type NotifierConfig struct {
	QueueSize int
}

// Download retry configuration
type DownloadConfig struct {
	FetchAttempts int
	RetryDelaySec int
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	Minio    MinioConfig
	Auth     AuthConfig
	Upload   UploadConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Notifier NotifierConfig
	Download DownloadConfig
}

// Default configuration values
const (
	DefaultServerPort    = "8080"
	DefaultServerHost    = ""
	DefaultMongoURI      = "mongodb://localhost:27017/obradoc"
	DefaultMongoDB       = "obradoc"
	DefaultMinioEndpoint = "localhost:9000"
	DefaultMinioBucket   = "obradoc-documents"
	DefaultTokenTTLSec   = 8 * 3600
	DefaultMaxFileSize   = 20 * 1024 * 1024 // 20MB
	DefaultKafkaTopic    = "obradoc.notifications"
	DefaultQueueSize     = 1024
	DefaultFetchAttempts = 3
	DefaultRetryDelaySec = 2
	// Pagination defaults
	DefaultPageSize = 20
	MaxPageSize     = 100
	// Limit-cache TTL for org usage counters
	UsageCacheTTLSeconds = 60
)

// DefaultAllowedMimeTypes are the accepted upload content types.
var DefaultAllowedMimeTypes = []string{"application/pdf", "image/jpeg", "image/png"}

// New loads configuration from .env (when present) and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", DefaultServerPort),
			Host: getEnv("SERVER_HOST", DefaultServerHost),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", DefaultMongoURI),
			Database: getEnv("MONGO_DB", DefaultMongoDB),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", DefaultMinioEndpoint),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			Bucket:    getEnv("MINIO_BUCKET", DefaultMinioBucket),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			TokenTTLSeconds: getEnvInt("TOKEN_TTL_SECONDS", DefaultTokenTTLSec),
		},
		Upload: UploadConfig{
			MaxFileSizeBytes: getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
			AllowedMimeTypes: getEnvList("ALLOWED_MIME_TYPES", DefaultAllowedMimeTypes),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", DefaultKafkaTopic),
		},
		Notifier: NotifierConfig{
			QueueSize: getEnvInt("NOTIFIER_QUEUE_SIZE", DefaultQueueSize),
		},
		Download: DownloadConfig{
			FetchAttempts: getEnvInt("DOWNLOAD_FETCH_ATTEMPTS", DefaultFetchAttempts),
			RetryDelaySec: getEnvInt("DOWNLOAD_RETRY_DELAY_SEC", DefaultRetryDelaySec),
		},
	}
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(value) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
