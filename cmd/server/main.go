package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/paydesk/payroll-engine/internal/config"
	"github.com/paydesk/payroll-engine/internal/directory"
	"github.com/paydesk/payroll-engine/internal/handler"
	"github.com/paydesk/payroll-engine/internal/repository"
	"github.com/paydesk/payroll-engine/internal/service"
	"github.com/paydesk/payroll-engine/pkg/rabbitmq"
	"github.com/paydesk/payroll-engine/pkg/response"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize event publisher; mutations still work when the broker is down
	var publisher rabbitmq.Publisher
	if cfg.AMQP.URL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.AMQP.URL)
		if err != nil {
			log.Printf("RabbitMQ unavailable, falling back to no-op publisher: %v", err)
			publisher = rabbitmq.NoopPublisher{}
		} else {
			publisher = producer
			defer producer.Close()
		}
	} else {
		publisher = rabbitmq.NoopPublisher{}
	}

	// Initialize repositories
	scheduleRepo := repository.NewScheduleRepository(db)
	claimRepo := repository.NewClaimRepository(db)

	// Initialize services
	clock := service.SystemClock()
	views := service.NewViewCache(redisClient, cfg.GetViewTTL())
	scheduleService := service.NewScheduleService(scheduleRepo, views, clock)
	claimService := service.NewClaimService(claimRepo, publisher, views, clock)
	viewService := service.NewViewService(scheduleRepo, claimRepo, views, clock)

	resolver := directory.NewResolver(
		directory.NewHTTPClient(cfg.Directory.BaseURL, cfg.GetDirectoryTimeout()),
		cfg.GetDirectoryCacheTTL(),
	)

	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	claimHandler := handler.NewClaimHandler(claimService)
	viewHandler := handler.NewViewHandler(viewService, resolver)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(scheduleHandler, claimHandler, viewHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	scheduleHandler *handler.ScheduleHandler,
	claimHandler *handler.ClaimHandler,
	viewHandler *handler.ViewHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware, response.LoggingMiddleware)

	// Health check and metrics
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/schedules", scheduleHandler.Create).Methods("POST")
	api.HandleFunc("/schedules/{scheduleID}/status", scheduleHandler.SetStatus).Methods("PUT")
	api.HandleFunc("/employers/{employerID}/schedules", scheduleHandler.ListByEmployer).Methods("GET")
	api.HandleFunc("/workers/{workerID}/schedules", scheduleHandler.ListByWorker).Methods("GET")

	api.HandleFunc("/claims", claimHandler.Create).Methods("POST")
	api.HandleFunc("/claims/{claimID}/status", claimHandler.UpdateStatus).Methods("PUT")
	api.HandleFunc("/claims/{claimID}/settlement", claimHandler.Settle).Methods("POST")
	api.HandleFunc("/employers/{employerID}/claims", claimHandler.ListByEmployer).Methods("GET")
	api.HandleFunc("/workers/{workerID}/claims", claimHandler.ListByWorker).Methods("GET")

	api.HandleFunc("/employers/{employerID}/dashboard", viewHandler.EmployerDashboard).Methods("GET")
	api.HandleFunc("/workers/{workerID}/dashboard", viewHandler.WorkerDashboard).Methods("GET")
	api.HandleFunc("/directory/{accountID}", viewHandler.ResolveAccount).Methods("GET")

	return router
}
