package main

import (
	"context"
	"credit-approval/internal/api"
	"credit-approval/internal/api/middleware"
	"credit-approval/internal/batch"
	"credit-approval/internal/config"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/eligibility"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/domain/scoring"
	"credit-approval/internal/event"
	"credit-approval/internal/event/consumer"
	"credit-approval/internal/infrastructure/database/postgres"
	"credit-approval/internal/infrastructure/logging"
	"credit-approval/internal/ingestion"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// @title Credit Approval API
// @version 1.0
// @description Customer registration, loan eligibility and loan origination.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	rabbitMQConn := initializeRabbitMQ(cfg, logger)
	publisher := initializePublisher(cfg, rabbitMQConn, logger)
	redisClient := initializeRedisClient(cfg, logger)
	rateLimiter := initializeRateLimiter(cfg, redisClient, logger)

	services, ingestionService := initializeServices(cfg, dbPool, publisher, logger)
	worker := startIngestionWorker(cfg, rabbitMQConn, services.Ingestion, publisher, logger)

	debtJob := batch.NewUpdateDebtJob(ingestionService, cfg.Batch.DebtUpdateTimeout, logger)
	cronScheduler := startBatchJobs(cfg, logger, debtJob)
	router := api.SetupRouter(rateLimiter, services, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, worker, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func initializeRateLimiter(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) *middleware.RateLimiterMiddleware {
	return middleware.NewRateLimiterMiddleware(cfg.Server.RateLimit, redisClient, logger)
}

// buildPolicies turns the policy and scoring sections into domain policies.
// Zero values keep the defaults, except for an explicitly set minimum score.
func buildPolicies(cfg *config.Config) (customer.ApprovedLimitPolicy, scoring.Policy, eligibility.Policy) {
	limitPolicy := customer.DefaultApprovedLimitPolicy()
	if cfg.Policy.ApprovedLimitMultiplier > 0 {
		limitPolicy.SalaryMultiplier = cfg.Policy.ApprovedLimitMultiplier
	}
	if cfg.Policy.ApprovedLimitRounding > 0 {
		limitPolicy.RoundingUnit = cfg.Policy.ApprovedLimitRounding
	}

	scoringPolicy := scoring.DefaultPolicy()
	if cfg.Scoring.NewCustomerScore > 0 {
		scoringPolicy.NewCustomerScore = cfg.Scoring.NewCustomerScore
	}

	decisionPolicy := eligibility.DefaultPolicy()
	sc := cfg.Scoring
	if sc.MinimumScore != nil && *sc.MinimumScore >= 0 {
		decisionPolicy.MinimumScore = *sc.MinimumScore
		decisionPolicy.RateBands[1].MinScore = *sc.MinimumScore
	}
	if sc.PreferredScore > 0 && sc.StandardScore > 0 {
		decisionPolicy.RateBands = []eligibility.RateBand{
			{MinScore: sc.StandardScore, MaxScore: sc.PreferredScore, RateFloor: decisionPolicy.RateBands[0].RateFloor},
			{MinScore: decisionPolicy.MinimumScore, MaxScore: sc.StandardScore, RateFloor: decisionPolicy.RateBands[1].RateFloor},
		}
	}
	if sc.StandardRate > 0 {
		decisionPolicy.RateBands[0].RateFloor = sc.StandardRate
	}
	if sc.SubprimeRate > 0 {
		decisionPolicy.RateBands[1].RateFloor = sc.SubprimeRate
	}
	if cfg.Policy.MaxEMISalaryRatio > 0 {
		decisionPolicy.MaxEMISalaryRatio = cfg.Policy.MaxEMISalaryRatio
	}

	return limitPolicy, scoringPolicy, decisionPolicy
}

func initializeServices(cfg *config.Config, dbPool *pgxpool.Pool, publisher event.EventPublisher, logger *slog.Logger) (api.Services, *ingestion.Service) {
	logger.Info("Initializing application components...")
	limitPolicy, scoringPolicy, decisionPolicy := buildPolicies(cfg)

	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	loanRepo := postgres.NewLoanRepository(dbPool, logger)
	ingestionRepo := postgres.NewIngestionRepository(dbPool, logger)

	evaluator := eligibility.NewEvaluator(scoring.NewEngine(scoringPolicy), decisionPolicy)
	ingestionService := ingestion.NewService(ingestionRepo, logger)

	services := api.Services{
		Customers: customer.NewCustomerService(customerRepo, limitPolicy, publisher, logger),
		Loans:     loan.NewLoanService(loanRepo, evaluator, publisher, logger),
		Ingestion: ingestion.NewPipeline(ingestionService, logger),
	}
	if publisher != nil {
		services.Enqueuer = ingestion.NewDispatcher(publisher, logger)
	}
	return services, ingestionService
}

func initializePublisher(cfg *config.Config, conn *amqp.Connection, logger *slog.Logger) event.EventPublisher {
	if conn == nil {
		logger.Info("RabbitMQ not connected, events and async ingestion are disabled.")
		return nil
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to create event publisher, events are disabled", "error", err)
		return nil
	}
	return publisher
}

func startIngestionWorker(cfg *config.Config, conn *amqp.Connection, runner ingestion.Runner, publisher event.EventPublisher, logger *slog.Logger) *consumer.Consumer {
	if conn == nil || publisher == nil {
		return nil
	}

	worker := ingestion.NewWorker(runner, publisher, cfg.Ingestion.JobTimeout, logger)
	c, err := consumer.NewConsumer(conn, consumer.Options{
		ExchangeName:  cfg.RabbitMQ.ExchangeName,
		QueueName:     cfg.RabbitMQ.QueueName,
		ConsumerTag:   cfg.RabbitMQ.ConsumerTag,
		RoutingKeys:   []string{event.RoutingKeyIngestionRequested},
		PrefetchCount: 1,
	}, worker.HandleDelivery, logger)
	if err != nil {
		logger.Error("Failed to create ingestion consumer, async ingestion jobs will not run", "error", err)
		return nil
	}
	if err := c.Start(context.Background()); err != nil {
		logger.Error("Failed to start ingestion consumer", "error", err)
		return nil
	}
	logger.Info("Ingestion worker started", "queue", cfg.RabbitMQ.QueueName)
	return c
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, worker *consumer.Consumer, rabbitConn *amqp.Connection, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	stopIngestionWorker(worker, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)
	shutdownHTTPServer(srv, serverErrors, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func stopIngestionWorker(worker *consumer.Consumer, logger *slog.Logger) {
	if worker == nil {
		logger.Info("Ingestion worker was not started, skipping stop.")
		return
	}
	worker.Stop()
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn != nil && !rabbitConn.IsClosed() {
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		} else {
			logger.Info("RabbitMQ connection closed.")
		}
	} else if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
	} else {
		logger.Info("RabbitMQ connection already closed, skipping close.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

// initializeRedisClient connects only when the rate limiter asks for the
// redis backend. Domain data is never cached.
func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if !cfg.Server.RateLimit.Enabled || cfg.Server.RateLimit.Backend != middleware.RateLimitBackendRedis {
		return nil
	}

	logger.Info("Initializing central Redis client...")
	if cfg.Redis.Addr == "" {
		logger.Error("Redis address (addr) is not configured.")
		os.Exit(1)
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if status := rdb.Ping(ctx); status.Err() != nil {
		logger.Error("Failed to connect to Redis", "error", status.Err(), "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		os.Exit(1)
		return nil
	}

	logger.Info("Central Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient != nil {
		logger.Info("Closing central Redis client connection...")
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close central Redis client connection gracefully", "error", err)
		} else {
			logger.Info("Central Redis client connection closed.")
		}
	} else {
		logger.Info("Redis client was not initialized, skipping close.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, debtJob *batch.UpdateDebtJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.DebtUpdateSchedule
	if scheduleSpec == "" {
		scheduleSpec = "0 2 * * *"
		logger.Warn("Batch debt update schedule not configured, using default", "schedule", scheduleSpec)
	}

	jobID, err := c.AddFunc(scheduleSpec, debtJob.Scheduled(context.Background()))
	if err != nil {
		logger.Error("Failed to schedule debt update job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled debt update job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func setupLogger(cfg config.LoggerConfig) *slog.Logger {
	return logging.NewLogger(cfg)
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

func initializeRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled via configuration.")
		return nil
	}

	uri, err := cfg.RabbitMQ.URI()
	if err != nil {
		logger.Error("Invalid RabbitMQ configuration", "error", err)
		return nil
	}

	conn, err := connectRabbitMQ(uri, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil
	}
	return conn
}
