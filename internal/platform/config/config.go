package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr                    string
	DatabaseURL             string
	JWTSecret               string
	DataEncryptionKey       string
	Environment             string
	RedisAddr               string
	LogLevel                string
	LogFormat               string
	RunMigrations           bool
	MigrationsDir           string
	RunSeed                 bool
	LifetimeLicenseKeywords []string
	DefaultVacationQuota    float64
	RetroLookbackMonths     int
	RecalcInterval          time.Duration
	RecalcLockTTL           time.Duration
	EmailEnabled            bool
	EmailFrom               string
	SMTPHost                string
	SMTPPort                int
	SMTPUser                string
	SMTPPassword            string
	SMTPUseTLS              bool
	ReportFontPath          string
	MaxBodyBytes            int64
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("RUN_SEED", true)
	v.SetDefault("LIFETIME_LICENSE_KEYWORDS", "แพทย์,ทันตแพทย์,เภสัชกร")
	v.SetDefault("DEFAULT_VACATION_QUOTA", 10)
	v.SetDefault("RETRO_LOOKBACK_MONTHS", 0)
	v.SetDefault("RECALC_INTERVAL", time.Duration(0))
	v.SetDefault("RECALC_LOCK_TTL", 10*time.Minute)
	v.SetDefault("EMAIL_ENABLED", false)
	v.SetDefault("EMAIL_FROM", "no-reply@example.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USE_TLS", true)
	v.SetDefault("MAX_BODY_BYTES", 1048576)
}

// Load reads configuration from the process environment.
func Load() Config {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

func FromViper(v *viper.Viper) Config {
	return Config{
		Addr:                    v.GetString("APP_ADDR"),
		DatabaseURL:             v.GetString("DATABASE_URL"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		DataEncryptionKey:       v.GetString("DATA_ENCRYPTION_KEY"),
		Environment:             v.GetString("APP_ENV"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		LogFormat:               v.GetString("LOG_FORMAT"),
		RunMigrations:           v.GetBool("RUN_MIGRATIONS"),
		MigrationsDir:           v.GetString("MIGRATIONS_DIR"),
		RunSeed:                 v.GetBool("RUN_SEED"),
		LifetimeLicenseKeywords: splitList(v.GetString("LIFETIME_LICENSE_KEYWORDS")),
		DefaultVacationQuota:    v.GetFloat64("DEFAULT_VACATION_QUOTA"),
		RetroLookbackMonths:     v.GetInt("RETRO_LOOKBACK_MONTHS"),
		RecalcInterval:          v.GetDuration("RECALC_INTERVAL"),
		RecalcLockTTL:           v.GetDuration("RECALC_LOCK_TTL"),
		EmailEnabled:            v.GetBool("EMAIL_ENABLED"),
		EmailFrom:               v.GetString("EMAIL_FROM"),
		SMTPHost:                v.GetString("SMTP_HOST"),
		SMTPPort:                v.GetInt("SMTP_PORT"),
		SMTPUser:                v.GetString("SMTP_USER"),
		SMTPPassword:            v.GetString("SMTP_PASSWORD"),
		SMTPUseTLS:              v.GetBool("SMTP_USE_TLS"),
		ReportFontPath:          v.GetString("REPORT_FONT_PATH"),
		MaxBodyBytes:            v.GetInt64("MAX_BODY_BYTES"),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for signature encryption at rest")
		}
	}
	if c.DefaultVacationQuota < 0 {
		return fmt.Errorf("DEFAULT_VACATION_QUOTA must not be negative")
	}
	if c.RetroLookbackMonths < 0 {
		return fmt.Errorf("RETRO_LOOKBACK_MONTHS must not be negative")
	}
	if c.RecalcInterval > 0 && strings.TrimSpace(c.RedisAddr) == "" {
		return fmt.Errorf("REDIS_ADDR must be set when RECALC_INTERVAL is enabled")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}
