package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iSnowdy/Frostel/internal/pkg/metrics"
)

// PrometheusMiddleware はリクエスト数とレイテンシをメトリクスとして記録する
func PrometheusMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// ルートパターン（/reservations/:id）でラベル付けし、カーディナリティを抑える
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			method := c.Request().Method
			status := resolveStatus(c, err)

			m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func resolveStatus(c echo.Context, err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return c.Response().Status
}
