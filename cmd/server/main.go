package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	goredis "github.com/redis/go-redis/v9"

	"marketplace/internal/app"
	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/handler"
	"marketplace/internal/jobs"
	internalRedis "marketplace/internal/redis"
	"marketplace/internal/repository"
	"marketplace/internal/repository/postgres"
	"marketplace/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// New Relic first so the database and redis clients can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	server, jobManager := wireServer(ctx, db, redisClient, nrApp, cfg)

	jobManager.Start()
	defer jobManager.Stop()

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the
// background job manager.
func wireServer(ctx context.Context, db *sql.DB, redisClient *goredis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *jobs.Manager) {
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)

	orderRepo := postgres.NewOrderRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	ensurePlatformAccount(ctx, accountRepo, cfg.Platform)

	pricingCfg := cfg.Pricing.Domain()

	advisor := service.NewStaticAdvisor()
	notificationService := service.NewNotificationService()
	pricingService := service.NewPricingService()
	walletService := service.NewWalletService(accountRepo, ledgerRepo, cfg.Platform.AccountID)
	orderService := service.NewOrderService(orderRepo, pricingService, walletService, pricingCfg)
	dispatchService := service.NewDispatchService(orderRepo, lockStore, walletService, notificationService)
	routeService := service.NewRouteService(orderRepo, locationStore, advisor)
	driverService := service.NewDriverService(locationStore, orderRepo, accountRepo)

	orderHandler := handler.NewOrderHandler(orderService, dispatchService)
	accountHandler := handler.NewAccountHandler(accountRepo, walletService, advisor, cfg.Pricing.DefaultCommissionRate)
	driverHandler := handler.NewDriverHandler(driverService, routeService, orderService)
	pricingHandler := handler.NewPricingHandler(pricingService, pricingCfg)

	router := app.NewRouter(app.RouterDeps{
		OrderHandler:   orderHandler,
		AccountHandler: accountHandler,
		DriverHandler:  driverHandler,
		PricingHandler: pricingHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	movement := jobs.NewMovementJob(orderRepo, routeService, driverService, cfg.Jobs.MovementStepKm)
	jobManager, err := jobs.NewManager(cfg.Jobs, movement)
	if err != nil {
		log.Fatalf("failed to schedule jobs: %v", err)
	}

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, jobManager
}

// ensurePlatformAccount creates the commission-collecting account on first
// boot. Settlement posts commission to this account by ID.
func ensurePlatformAccount(ctx context.Context, accountRepo repository.AccountRepository, cfg config.PlatformConfig) {
	_, err := accountRepo.GetByID(ctx, cfg.AccountID)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("platform account lookup failed: %v", err)
		return
	}

	account := &domain.Account{
		ID:        cfg.AccountID,
		Name:      cfg.AccountName,
		Role:      domain.RolePlatform,
		CreatedAt: time.Now(),
	}
	if err := accountRepo.Create(ctx, account); err != nil {
		log.Printf("platform account bootstrap failed: %v", err)
		return
	}
	log.Printf("created platform account %s", cfg.AccountID)
}
