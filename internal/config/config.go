package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Maintenance MaintenanceConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MaintenanceConfig はバックグラウンドのメンテナンスジョブ設定
type MaintenanceConfig struct {
	// StaleBookingInterval は放置された PENDING 予約の掃除間隔
	StaleBookingInterval time.Duration
	// StaleBookingAge はこの経過時間を超えた PENDING 予約をキャンセル対象とする
	StaleBookingAge time.Duration
	// DiscountExpiryInterval は期限切れ割引の無効化間隔
	DiscountExpiryInterval time.Duration
	// AuditPruneInterval は監査ログ削除の実行間隔
	AuditPruneInterval time.Duration
	// AuditRetention は監査ログの保持期間
	AuditRetention time.Duration
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "frostel"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Maintenance: MaintenanceConfig{
			StaleBookingInterval:   getDurationEnv("MAINTENANCE_STALE_BOOKING_INTERVAL", time.Hour),
			StaleBookingAge:        getDurationEnv("MAINTENANCE_STALE_BOOKING_AGE", 24*time.Hour),
			DiscountExpiryInterval: getDurationEnv("MAINTENANCE_DISCOUNT_EXPIRY_INTERVAL", 24*time.Hour),
			AuditPruneInterval:     getDurationEnv("MAINTENANCE_AUDIT_PRUNE_INTERVAL", 168*time.Hour),
			AuditRetention:         getDurationEnv("MAINTENANCE_AUDIT_RETENTION", 8760*time.Hour),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
