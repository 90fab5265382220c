package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "ubi-server/internal/application/auth"
	historyapp "ubi-server/internal/application/history"
	ledgerapp "ubi-server/internal/application/ledger"
	"ubi-server/internal/domain/account"
	"ubi-server/internal/domain/claim"
	"ubi-server/internal/domain/eligibility"
	"ubi-server/internal/domain/ledger"
	"ubi-server/internal/domain/service"
	"ubi-server/internal/domain/transaction"
	"ubi-server/internal/infrastructure/config"
	"ubi-server/internal/infrastructure/eventlog"
	"ubi-server/internal/infrastructure/lock"
	otelinfra "ubi-server/internal/infrastructure/observability/otel"
	"ubi-server/internal/infrastructure/persistence/memory"
	"ubi-server/internal/infrastructure/persistence/mysql"
	grpcserver "ubi-server/internal/presentation/grpc"
	"ubi-server/internal/presentation/rest"
)

// storage 台帳の永続化層
type storage struct {
	stats        ledger.StatsRepository
	balances     ledger.BalanceRepository
	windows      claim.WindowRepository
	transactions transaction.TransactionRepository
	accounts     account.Directory
	txManager    transaction.TransactionManager
	close        func() error
}

// newStorage 設定されたドライバーで永続化層を作成
func newStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Ledger.StoreDriver == "memory" {
		store := memory.NewStore()
		return &storage{
			stats:        memory.NewStatsRepository(store),
			balances:     memory.NewBalanceRepository(store),
			windows:      memory.NewWindowRepository(store),
			transactions: memory.NewTransactionRepository(store),
			accounts:     memory.NewAccountDirectory(store),
			txManager:    memory.NewTransactionManager(store),
			close:        func() error { return nil },
		}, nil
	}

	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &storage{
		stats:        mysql.NewStatsRepository(db),
		balances:     mysql.NewBalanceRepository(db),
		windows:      mysql.NewWindowRepository(db),
		transactions: mysql.NewTransactionRepository(db),
		accounts:     mysql.NewAccountDirectory(db),
		txManager:    mysql.NewTransactionManager(db),
		close:        db.Close,
	}, nil
}

// newLocker Redisが有効ならRedisロック、そうでなければプロセス内ロックを返す
func newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, func() error, error) {
	if !cfg.Redis.Enabled {
		return lock.NewLocal(), func() error { return nil }, nil
	}
	client, err := lock.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return lock.NewRedis(client, cfg.Ledger.LockTTL), client.Close, nil
}

func accrualPolicy(cfg *config.AccrualConfig) service.AccrualPolicy {
	return service.AccrualPolicy{
		ClaimDays:        uint32(cfg.ClaimDays),
		MaxPastClaimDays: uint32(cfg.MaxPastClaimDays),
		EpochDay:         claim.Day(cfg.EpochDay),
		GracePeriod:      cfg.GracePeriod,
		GraceDays:        uint32(cfg.GraceDays),
	}
}

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("ubi-server")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("ubi-server")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	ctx := context.Background()

	// 永続化層とロックの初期化
	store, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.close()

	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize lock: %v", err)
	}
	defer closeLocker()

	// ドメインサービスの初期化
	ledgerStore := service.NewLedgerStore(store.stats, store.balances)
	windowStore := service.NewClaimWindowStore(store.windows)
	engine, err := service.NewAccrualEngine(
		accrualPolicy(&cfg.Accrual),
		eligibility.New(cfg.Ledger.EligibilityRule, cfg.Ledger.EligibilitySuffix, cfg.Ledger.AllowList),
		claim.SystemClock{},
		ledgerStore,
		windowStore,
		eventlog.NewEmitter(store.transactions),
		cfg.Ledger.ContractAccount,
	)
	if err != nil {
		log.Fatalf("Failed to create accrual engine: %v", err)
	}

	// アプリケーションサービスの初期化
	ledgerAppService := ledgerapp.NewLedgerApplicationService(
		ledgerStore,
		windowStore,
		engine,
		store.transactions,
		store.accounts,
		store.txManager,
		locker,
		cfg.Ledger.ContractAccount,
		logger,
		metrics,
	)
	historyAppService := historyapp.NewHistoryApplicationService(store.transactions, logger, metrics)
	authAppService := authapp.NewAuthApplicationService(&cfg.JWT, logger)

	// コントラクトアカウントは常に登録済みとする
	if _, err := ledgerAppService.RegisterAccount(ctx, cfg.Ledger.ContractAccount); err != nil && !errors.Is(err, account.ErrAccountAlreadyExists) {
		log.Fatalf("Failed to register contract account: %v", err)
	}

	// REST APIルーターの初期化
	router, err := rest.NewRouter(cfg, logger, metrics, authAppService, ledgerAppService, historyAppService)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// gRPCサーバーの初期化
	grpcSrv, err := grpcserver.NewServer(cfg, logger, ledgerAppService, historyAppService, authAppService)
	if err != nil {
		log.Fatalf("Failed to create gRPC server: %v", err)
	}

	address := fmt.Sprintf(":%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "REST API server starting", map[string]interface{}{"address": address})
		if err := router.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "REST API server error", err, nil)
		}
	}()

	go func() {
		if err := grpcSrv.Start(); err != nil {
			logger.Error(ctx, "gRPC server error", err, nil)
		}
	}()

	<-quit
	logger.Info(ctx, "Shutting down servers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Error shutting down REST API server", err, nil)
	}
	if err := grpcSrv.Stop(shutdownCtx); err != nil {
		logger.Error(ctx, "Error shutting down gRPC server", err, nil)
	}

	logger.Info(ctx, "Servers stopped", nil)
}
