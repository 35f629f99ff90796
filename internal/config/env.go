package config

import (
	"EsimMyanmar/database/postgres"
	"EsimMyanmar/pkg/redis"
	"EsimMyanmar/pkg/s3"
	"EsimMyanmar/pkg/transactease"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig is every setting read from the environment at startup.
type AppConfig struct {
	Port        string
	Environment string
	JWTSecret   string

	Database     postgres.Config
	Redis        redis.Config
	RedisEnabled bool
	S3           s3.Config
	S3Enabled    bool

	Transactease        transactease.Config
	CallbackURI         string
	SuccessURI          string
	CancelURI           string
	PublicBaseURL       string
	NonceTTL            time.Duration
	StatusLookupEnabled bool
	StatusAccessToken   string

	LenientPhone bool
	StrictCRC    bool
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// LoadAppConfig reads AppConfig from the process environment. Missing
// secrets are reported together.
func LoadAppConfig() (AppConfig, error) {
	env := getEnv("APP_ENV", "development")

	cfg := AppConfig{
		Port:        getEnv("APP_PORT", "3000"),
		Environment: env,
		JWTSecret:   os.Getenv("JWT_ACCESS_TOKEN_SECRET"),
		Database: postgres.Config{
			DSN:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: redis.Config{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		S3: s3.Config{
			Region:          os.Getenv("AWS_REGION"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("AWS_BUCKET_NAME"),
		},
		Transactease: transactease.Config{
			MerchantUserID:   os.Getenv("TRANSACTEASE_MERCHANT_USER_ID"),
			AccessKey:        os.Getenv("TRANSACTEASE_ACCESS_KEY"),
			SecretKey:        os.Getenv("TRANSACTEASE_SECRET_KEY"),
			Channel:          os.Getenv("TRANSACTEASE_CHANNEL"),
			BaseURL:          os.Getenv("TRANSACTEASE_BASE_URL"),
			PaymentMethods:   os.Getenv("TRANSACTEASE_PAYMENT_METHODS"),
			ExpiredInSeconds: getEnvInt("TRANSACTEASE_EXPIRED_IN_SECONDS", transactease.DefaultExpiredInSeconds),
			InstitutionID:    os.Getenv("TRANSACTEASE_INSTITUTION_ID"),
		},
		CallbackURI:         getEnv("TRANSACTEASE_CALLBACK_URI", "/api/v1/payments/transactease/callback"),
		SuccessURI:          getEnv("TRANSACTEASE_SUCCESS_URI", "/api/v1/payments/transactease/success"),
		CancelURI:           getEnv("TRANSACTEASE_CANCEL_URI", "/api/v1/payments/transactease/cancel"),
		PublicBaseURL:       strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		NonceTTL:            getEnvDuration("TRANSACTEASE_NONCE_TTL", 0),
		StatusLookupEnabled: getEnvBool("TRANSACTEASE_STATUS_LOOKUP", false),
		StatusAccessToken:   os.Getenv("TRANSACTEASE_STATUS_TOKEN"),
		LenientPhone:        getEnvBool("PHONE_LENIENT", false),
		StrictCRC:           getEnvBool("MMQR_STRICT_CRC", false),
	}

	if cfg.Transactease.BaseURL == "" && env == "production" {
		cfg.Transactease.BaseURL = transactease.ProductionURL
	}
	cfg.Transactease = cfg.Transactease.WithDefaults()
	cfg.RedisEnabled = cfg.Redis.Address != ""
	cfg.S3Enabled = cfg.S3.BucketName != ""

	return cfg, cfg.Validate()
}

func (c AppConfig) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_SECRET is required"))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if err := c.Transactease.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("TRANSACTEASE_*: %w", err))
	}
	if c.NonceTTL > 0 && !c.RedisEnabled {
		errs = append(errs, errors.New("TRANSACTEASE_NONCE_TTL needs REDIS_ADDRESS"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
