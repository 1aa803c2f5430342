package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	BlobBackendLocal = "local"
	BlobBackendMinIO = "minio"
)

type Config struct {
	Port     string
	LogLevel string
	GinMode  string

	JWTSecret string

	Mongo MongoConfig
	Redis RedisConfig
	Blob  BlobConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

// Host empty means rate limiting is off.
type RedisConfig struct {
	Host     string
	Password string
}

type BlobConfig struct {
	Backend       string
	UploadDir     string
	PublicBaseURL string
	MinIO         MinIOConfig
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Load reads .env when present, then builds the Config from the environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Info().Str("component", "config").Msg("no .env file found, using system environment")
	} else {
		log.Info().Str("component", "config").Msg(".env file loaded")
	}

	return FromEnv()
}

func FromEnv() *Config {
	conf := Config{
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		GinMode:   os.Getenv("GIN_MODE"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "marketplace"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Blob: BlobConfig{
			Backend:       strings.ToLower(getEnv("BLOB_BACKEND", BlobBackendLocal)),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
			MinIO: MinIOConfig{
				Endpoint:  os.Getenv("MINIO_ENDPOINT"),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				Bucket:    getEnv("MINIO_BUCKET", "product-images"),
				UseSSL:    strings.ToLower(os.Getenv("MINIO_USE_SSL")) == "true",
				PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
			},
		},
	}

	if conf.Blob.PublicBaseURL == "" {
		conf.Blob.PublicBaseURL = "http://localhost:" + conf.Port
	}

	return &conf
}

// Validate reports every missing required value at once.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}

	switch c.Blob.Backend {
	case BlobBackendLocal:
		if c.Blob.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for the local blob backend"))
		}
	case BlobBackendMinIO:
		if c.Blob.MinIO.Endpoint == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT is required for the minio blob backend"))
		}
		if c.Blob.MinIO.Bucket == "" {
			errs = append(errs, errors.New("MINIO_BUCKET is required for the minio blob backend"))
		}
	default:
		errs = append(errs, errors.New("BLOB_BACKEND must be \"local\" or \"minio\""))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
