package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	FirestoreProjectID           string `mapstructure:"FIRESTORE_PROJECT_ID"`
	GoogleApplicationCredentials string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`

	JWTSecretKey string        `mapstructure:"JWT_AUTH_SECRET_KEY"`
	JWTValidity  time.Duration `mapstructure:"JWT_VALIDITY"`

	S3Region    string `mapstructure:"AWS_BUCKET_REGION"`
	S3Bucket    string `mapstructure:"AWS_BUCKET_NAME"`
	S3AccessKey string `mapstructure:"AWS_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"AWS_SECRET_KEY"`
	S3Endpoint  string `mapstructure:"AWS_BUCKET_ENDPOINT"`

	StagedUploadTTL time.Duration `mapstructure:"STAGED_UPLOAD_TTL"`
	SweepInterval   time.Duration `mapstructure:"SWEEP_INTERVAL"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("JWT_VALIDITY", "1h")
	viper.SetDefault("STAGED_UPLOAD_TTL", "24h")
	viper.SetDefault("SWEEP_INTERVAL", "1h")

	for _, key := range []string{
		"PORT", "GIN_MODE", "CLIENT_URL",
		"FIRESTORE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"JWT_AUTH_SECRET_KEY", "JWT_VALIDITY",
		"AWS_BUCKET_REGION", "AWS_BUCKET_NAME", "AWS_ACCESS_KEY", "AWS_SECRET_KEY", "AWS_BUCKET_ENDPOINT",
		"STAGED_UPLOAD_TTL", "SWEEP_INTERVAL",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.FirestoreProjectID, validation.Required),
		validation.Field(&c.JWTSecretKey, validation.Required),
		validation.Field(&c.S3Region, validation.Required),
		validation.Field(&c.S3Bucket, validation.Required),
	)
}
