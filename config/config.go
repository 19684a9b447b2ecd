package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Pricing   PricingConfig
	Referral  ReferralConfig
	Scheduler SchedulerConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	LogFormat   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RateLimitConfig 공개 파트너 코드 조회 API 요청 제한
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// PricingConfig 할인 금액 및 제휴 업체 설정 (단위: 원)
type PricingConfig struct {
	NewYearDiscount       int64
	PartnerVendorDiscount int64
	CoupleDiscount        int64
	ReviewDiscount        int64
	ReviewBlogDiscount    int64
	PartnerVendorNames    []string
}

// ReferralConfig 파트너 코드 생성/조회/검증 설정
type ReferralConfig struct {
	CodeLength          int
	CodeAlphabet        string
	MaxGenerateAttempts int
	SearchMinLength     int
	SearchLimit         int
	ValidateTimeout     time.Duration
	ValidateMaxRetries  int
	ValidateRetryDelay  time.Duration
	ValidateRetryMax    time.Duration
}

type SchedulerConfig struct {
	EventExpirySpec string
}

// AdminConfig 최초 관리자 계정 (마이그레이션 시 생성)
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "weddingfilm"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			Requests: parseInt(getEnv("RATE_LIMIT_REQUESTS", "30"), 30),
			Window:   parseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"), time.Minute),
		},
		Pricing: PricingConfig{
			NewYearDiscount:       parseInt64(getEnv("DISCOUNT_NEW_YEAR", "50000"), 50000),
			PartnerVendorDiscount: parseInt64(getEnv("DISCOUNT_PARTNER_VENDOR", "150000"), 150000),
			CoupleDiscount:        parseInt64(getEnv("DISCOUNT_COUPLE", "10000"), 10000),
			ReviewDiscount:        parseInt64(getEnv("DISCOUNT_REVIEW", "10000"), 10000),
			ReviewBlogDiscount:    parseInt64(getEnv("DISCOUNT_REVIEW_BLOG", "10000"), 10000),
			PartnerVendorNames:    parseSlice(getEnv("PARTNER_VENDOR_NAMES", "아이니웨딩,ainiwedding")),
		},
		Referral: ReferralConfig{
			CodeLength:          parseInt(getEnv("REFERRAL_CODE_LENGTH", "6"), 6),
			CodeAlphabet:        getEnv("REFERRAL_CODE_ALPHABET", "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"),
			MaxGenerateAttempts: parseInt(getEnv("REFERRAL_MAX_GENERATE_ATTEMPTS", "10"), 10),
			SearchMinLength:     parseInt(getEnv("REFERRAL_SEARCH_MIN_LENGTH", "2"), 2),
			SearchLimit:         parseInt(getEnv("REFERRAL_SEARCH_LIMIT", "10"), 10),
			ValidateTimeout:     parseDuration(getEnv("REFERRAL_VALIDATE_TIMEOUT", "3s"), 3*time.Second),
			ValidateMaxRetries:  parseInt(getEnv("REFERRAL_VALIDATE_MAX_RETRIES", "2"), 2),
			ValidateRetryDelay:  parseDuration(getEnv("REFERRAL_VALIDATE_RETRY_DELAY", "200ms"), 200*time.Millisecond),
			ValidateRetryMax:    parseDuration(getEnv("REFERRAL_VALIDATE_RETRY_MAX", "1s"), time.Second),
		},
		Scheduler: SchedulerConfig{
			// 매일 0시 5분
			EventExpirySpec: getEnv("EVENT_EXPIRY_CRON", "5 0 * * *"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Name:     getEnv("ADMIN_NAME", "관리자"),
		},
	}

	if config.Referral.MaxGenerateAttempts < 1 {
		return nil, fmt.Errorf("REFERRAL_MAX_GENERATE_ATTEMPTS must be at least 1")
	}
	if config.Referral.CodeLength < 4 {
		return nil, fmt.Errorf("REFERRAL_CODE_LENGTH must be at least 4")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// DefaultPricing 기본 할인 설정 (테스트 및 시드용)
func DefaultPricing() PricingConfig {
	return PricingConfig{
		NewYearDiscount:       50000,
		PartnerVendorDiscount: 150000,
		CoupleDiscount:        10000,
		ReviewDiscount:        10000,
		ReviewBlogDiscount:    10000,
		PartnerVendorNames:    []string{"아이니웨딩", "ainiwedding"},
	}
}

// DefaultReferral 기본 파트너 코드 설정 (테스트용)
func DefaultReferral() ReferralConfig {
	return ReferralConfig{
		CodeLength:          6,
		CodeAlphabet:        "ABCDEFGHJKLMNPQRSTUVWXYZ23456789",
		MaxGenerateAttempts: 10,
		SearchMinLength:     2,
		SearchLimit:         10,
		ValidateTimeout:     3 * time.Second,
		ValidateMaxRetries:  2,
		ValidateRetryDelay:  200 * time.Millisecond,
		ValidateRetryMax:    time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return v
}

func parseInt64(s string, fallback int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return v
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
