package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約処理の総数
	// kind: hotel, flight
	// result: success, conflict, insufficient_inventory, lock_failed, error
	BookingsTotal *prometheus.CounterVec

	// 分散ロック取得の待機時間（リトライ込み）
	LockWaitSeconds prometheus.Histogram

	// アクティブな予約数（kind, status）
	ActiveBookings *prometheus.GaugeVec

	// メンテナンスジョブの実行回数（job, result: success/error）
	MaintenanceRunsTotal *prometheus.CounterVec

	// メンテナンスジョブが処理した件数（job: stale_bookings, expired_discounts, audit_prune）
	MaintenanceItemsTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of booking attempts",
			},
			[]string{"kind", "result"},
		),
		LockWaitSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lock_wait_seconds",
				Help:    "Time spent waiting for distributed locks",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		ActiveBookings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "active_bookings",
				Help: "Current number of active bookings",
			},
			[]string{"kind", "status"},
		),
		MaintenanceRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maintenance_runs_total",
				Help: "Total number of maintenance job runs",
			},
			[]string{"job", "result"},
		),
		MaintenanceItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maintenance_items_total",
				Help: "Total number of items processed by maintenance jobs",
			},
			[]string{"job"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.LockWaitSeconds,
		m.ActiveBookings,
		m.MaintenanceRunsTotal,
		m.MaintenanceItemsTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Set はデフォルトのメトリクスインスタンスを差し替える
// テストから独立したレジストリのインスタンスを注入する用途
func Set(m *Metrics) {
	defaultMetrics = m
}

// Get はデフォルトのメトリクスインスタンスを返す
// Init 前は nil を返すため、呼び出し側は nil を許容すること
func Get() *Metrics {
	return defaultMetrics
}
