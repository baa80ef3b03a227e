package middleware

import (
	"crypto/subtle"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MetricsConfig は /metrics エンドポイントの Basic 認証設定
type MetricsConfig struct {
	User     string
	Password string
}

// LoadMetricsConfig は環境変数から認証設定を読み込む
func LoadMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		User:     os.Getenv("METRICS_USER"),
		Password: os.Getenv("METRICS_PASSWORD"),
	}
}

// IsEnabled はユーザーとパスワードの両方が設定されているときだけ真
func (c *MetricsConfig) IsEnabled() bool {
	return c.User != "" && c.Password != ""
}

// MetricsBasicAuth は /metrics を Basic 認証で保護するミドルウェア
// 認証設定がない場合は素通しになる（ローカル開発向け）
func MetricsBasicAuth() echo.MiddlewareFunc {
	cfg := LoadMetricsConfig()
	if !cfg.IsEnabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		// タイミング攻撃対策として定数時間比較を使う
		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.User)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
		return userOK && passOK, nil
	})
}
