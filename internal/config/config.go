package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" port=" + d.Port + " sslmode=disable"
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type KYCConfig struct {
	EncryptionKey      string
	UploadDir          string
	MaxFileSize        int64
	UploadsPerHour     int
	RetentionDays      int
	RejectCommentMin   int
	AutoVerifyScore    int
	RetryMaxAttempts   int
	RetryWindow        time.Duration
	CleanupHour        int
	ScoringConcurrency int
	ScoringTimeout     time.Duration
}

type WalletConfig struct {
	DepositCap       decimal.Decimal
	ConversionRate   decimal.Decimal
	MinDeposit       decimal.Decimal
	DisplayCurrency  string
	LedgerCurrency   string
	CacheTTL         time.Duration
	StripeSecretKey  string
	StripeWebhookKey string
	SuccessURL       string
	CancelURL        string
}

// Config is the full application configuration.
type Config struct {
	Env         string
	Port        string
	JWTSecret   string
	CORSOrigins string
	FrontendURL string
	Database    DatabaseConfig
	Redis       RedisConfig
	KYC         KYCConfig
	Wallet      WalletConfig
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("JWT_SECRET", "your-secret-key")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "brokerage")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 30*time.Minute)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KYC_ENCRYPTION_KEY", "")
	v.SetDefault("KYC_UPLOAD_DIR", "uploads/kyc")
	v.SetDefault("KYC_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("KYC_UPLOADS_PER_HOUR", 5)
	v.SetDefault("KYC_RETENTION_DAYS", 30)
	v.SetDefault("KYC_REJECT_COMMENT_MIN", 10)
	v.SetDefault("KYC_AUTO_VERIFY_THRESHOLD", 70)
	v.SetDefault("KYC_RETRY_MAX_ATTEMPTS", 3)
	v.SetDefault("KYC_RETRY_WINDOW", 24*time.Hour)
	v.SetDefault("KYC_CLEANUP_HOUR", 2)
	v.SetDefault("KYC_SCORING_CONCURRENCY", 4)
	v.SetDefault("KYC_SCORING_TIMEOUT", 2*time.Minute)

	v.SetDefault("WALLET_DEPOSIT_CAP", "5000")
	v.SetDefault("WALLET_CONVERSION_RATE", "3.66")
	v.SetDefault("WALLET_MIN_DEPOSIT", "1")
	v.SetDefault("WALLET_DISPLAY_CURRENCY", "AED")
	v.SetDefault("WALLET_LEDGER_CURRENCY", "USD")
	v.SetDefault("WALLET_CACHE_TTL", 5*time.Minute)
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
}

// Load reads the configuration from the environment, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	depositCap, err := decimal.NewFromString(v.GetString("WALLET_DEPOSIT_CAP"))
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(v.GetString("WALLET_CONVERSION_RATE"))
	if err != nil {
		return nil, err
	}
	minDeposit, err := decimal.NewFromString(v.GetString("WALLET_MIN_DEPOSIT"))
	if err != nil {
		return nil, err
	}

	frontend := v.GetString("FRONTEND_URL")
	cfg := &Config{
		Env:         v.GetString("ENV"),
		Port:        v.GetString("PORT"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
		FrontendURL: frontend,
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		KYC: KYCConfig{
			EncryptionKey:      v.GetString("KYC_ENCRYPTION_KEY"),
			UploadDir:          v.GetString("KYC_UPLOAD_DIR"),
			MaxFileSize:        v.GetInt64("KYC_MAX_FILE_SIZE"),
			UploadsPerHour:     v.GetInt("KYC_UPLOADS_PER_HOUR"),
			RetentionDays:      v.GetInt("KYC_RETENTION_DAYS"),
			RejectCommentMin:   v.GetInt("KYC_REJECT_COMMENT_MIN"),
			AutoVerifyScore:    v.GetInt("KYC_AUTO_VERIFY_THRESHOLD"),
			RetryMaxAttempts:   v.GetInt("KYC_RETRY_MAX_ATTEMPTS"),
			RetryWindow:        v.GetDuration("KYC_RETRY_WINDOW"),
			CleanupHour:        v.GetInt("KYC_CLEANUP_HOUR"),
			ScoringConcurrency: v.GetInt("KYC_SCORING_CONCURRENCY"),
			ScoringTimeout:     v.GetDuration("KYC_SCORING_TIMEOUT"),
		},
		Wallet: WalletConfig{
			DepositCap:       depositCap,
			ConversionRate:   rate,
			MinDeposit:       minDeposit,
			DisplayCurrency:  v.GetString("WALLET_DISPLAY_CURRENCY"),
			LedgerCurrency:   v.GetString("WALLET_LEDGER_CURRENCY"),
			CacheTTL:         v.GetDuration("WALLET_CACHE_TTL"),
			StripeSecretKey:  v.GetString("STRIPE_SECRET_KEY"),
			StripeWebhookKey: v.GetString("STRIPE_WEBHOOK_SECRET"),
			SuccessURL:       frontend + "/wallet/deposit/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:        frontend + "/wallet/deposit/cancel",
		},
	}

	if cfg.KYC.EncryptionKey == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingEncryptionKey
		}
		log.Printf("KYC_ENCRYPTION_KEY not set, using development key")
		cfg.KYC.EncryptionKey = "development-only-kyc-key"
	}

	return cfg, nil
}
