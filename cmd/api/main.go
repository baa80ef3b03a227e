package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iSnowdy/Frostel/internal/api"
	"github.com/iSnowdy/Frostel/internal/api/handler"
	apimiddleware "github.com/iSnowdy/Frostel/internal/api/middleware"
	"github.com/iSnowdy/Frostel/internal/application"
	"github.com/iSnowdy/Frostel/internal/config"
	"github.com/iSnowdy/Frostel/internal/infrastructure/postgres"
	redisinfra "github.com/iSnowdy/Frostel/internal/infrastructure/redis"
	"github.com/iSnowdy/Frostel/internal/pkg/logger"
	"github.com/iSnowdy/Frostel/internal/pkg/metrics"
	"github.com/iSnowdy/Frostel/internal/worker"
)

func main() {
	// .env があれば読み込む（なくてもエラーにしない）
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer log.Sync()

	// DB接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("DB接続に失敗", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション（MIGRATIONS_PATH が設定されている場合のみ）
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		if err := postgres.RunMigrations(db.DB, path); err != nil {
			log.Fatal("マイグレーション実行に失敗", zap.Error(err))
		}
	}

	// Redis接続
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		log.Fatal("Redis接続に失敗", zap.Error(err))
	}

	lockManager := redisinfra.NewLockManager(redisClient)
	availabilityCache := redisinfra.NewAvailabilityCache(redisClient)

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	reservationRepo := postgres.NewReservationRepository(db)
	flightRepo := postgres.NewFlightBookingRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	classRepo := postgres.NewFlightClassRepository(db)
	discountRepo := postgres.NewDiscountRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// サービス
	pricingService := application.NewPricingService(discountRepo)
	reservationService := application.NewReservationService(txManager, reservationRepo, roomRepo, auditRepo, pricingService, lockManager)
	flightService := application.NewFlightBookingService(txManager, flightRepo, classRepo, auditRepo, pricingService, lockManager, availabilityCache)
	paymentService := application.NewPaymentService(txManager, paymentRepo, reservationRepo, flightRepo, auditRepo)
	auditService := application.NewAuditService(auditRepo)

	// バックグラウンドワーカー
	staleExpirer := worker.NewStaleBookingExpirer(reservationService, flightService, cfg.Maintenance.StaleBookingInterval, cfg.Maintenance.StaleBookingAge)
	discountExpirer := worker.NewDiscountExpirer(pricingService, cfg.Maintenance.DiscountExpiryInterval)
	auditPruner := worker.NewAuditPruner(auditService, cfg.Maintenance.AuditPruneInterval, cfg.Maintenance.AuditRetention)

	// Start はブロッキングのためゴルーチンで起動する
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	go staleExpirer.Start(workerCtx)
	go discountExpirer.Start(workerCtx)
	go auditPruner.Start(workerCtx)

	// ハンドラ
	reservationHandler := handler.NewReservationHandler(reservationService)
	flightHandler := handler.NewFlightBookingHandler(flightService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	auditHandler := handler.NewAuditHandler(auditService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(metrics.Init()))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations", reservationHandler.GetUserReservations)
	v1.GET("/reservations/:id", reservationHandler.GetByID)
	v1.POST("/reservations/:id/advance", reservationHandler.Advance)
	v1.POST("/reservations/:id/cancel", reservationHandler.Cancel)

	v1.POST("/flight-bookings", flightHandler.Create)
	v1.GET("/flight-bookings", flightHandler.GetUserBookings)
	v1.GET("/flight-bookings/:id", flightHandler.GetByID)
	v1.POST("/flight-bookings/:id/advance", flightHandler.Advance)
	v1.POST("/flight-bookings/:id/cancel", flightHandler.Cancel)
	v1.GET("/flight-classes/:id/availability", flightHandler.Availability)

	v1.POST("/payments", paymentHandler.Create)
	v1.GET("/payments", paymentHandler.GetUserPayments)
	v1.GET("/payments/:id", paymentHandler.GetByID)
	v1.POST("/payments/:id/status", paymentHandler.UpdateStatus)

	v1.GET("/audit", auditHandler.ListByRecord)
	v1.GET("/audit/users/:id", auditHandler.ListByUser)
	v1.GET("/audit/range", auditHandler.ListByTimeRange)

	// サーバー起動
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動に失敗", zap.Error(err))
		}
	}()
	log.Info("サーバー起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("シャットダウン開始")

	// ワーカーを先に止めてからHTTPを閉じる
	cancelWorkers()
	staleExpirer.Stop()
	discountExpirer.Stop()
	auditPruner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal("シャットダウンに失敗", zap.Error(err))
	}

	log.Info("シャットダウン完了")
}
