package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	DBURL         string `envconfig:"DB_URL" default:"host=localhost user=user password=pass dbname=promptvault port=5432 sslmode=disable"`
	ListenAddr    string `envconfig:"LISTEN_ADDR" default:":8080"`
	SessionSecret string `envconfig:"SESSION_SECRET" default:"change-me-in-production"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	GeminiAPIKey   string `envconfig:"GEMINI_API_KEY"`
	GeminiEndpoint string `envconfig:"GEMINI_ENDPOINT" default:"https://generativelanguage.googleapis.com"`
	ImageModel     string `envconfig:"IMAGE_MODEL" default:"gemini-2.0-flash-exp-image-generation"`
	VideoModel     string `envconfig:"VIDEO_MODEL" default:"veo-2.0-generate-001"`

	StoragePath string `envconfig:"STORAGE_PATH" default:"./storage"`

	S3Endpoint        string `envconfig:"S3_ENDPOINT"`
	S3Region          string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket          string `envconfig:"S3_BUCKET"`
	S3Prefix          string `envconfig:"S3_PREFIX"`
	S3ForcePathStyle  bool   `envconfig:"S3_FORCE_PATH_STYLE"`

	MaxWorkers int `envconfig:"MAX_WORKERS" default:"5"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@localhost"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UseS3 reports whether object storage should go to S3 instead of disk.
func (c Config) UseS3() bool {
	return c.S3Bucket != ""
}
