package api

import (
	"credit-approval/internal/api/handler"
	mw "credit-approval/internal/api/middleware"
	"credit-approval/internal/config"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/ingestion"
	"log/slog"
	"net/http"
	"time"

	_ "credit-approval/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Services groups what the routes dispatch to. Enqueuer may be nil when no
// broker is configured; async ingestion then answers 503.
type Services struct {
	Loans     loan.LoanService
	Customers customer.CustomerService
	Ingestion ingestion.Runner
	Enqueuer  ingestion.Enqueuer
}

func SetupRouter(rateLimiter *mw.RateLimiterMiddleware, services Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, rateLimiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/", handler.Index)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupCustomerRoutes(router, services.Customers, logger)
	setupLoanRoutes(router, services.Loans, logger)
	setupAdminRoutes(router, services, cfg, logger)
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	router.Use(middleware.StripSlashes)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware)
	}
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupCustomerRoutes(router chi.Router, svc customer.CustomerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)
	router.Post("/register", h.RegisterCustomer)
}

func setupLoanRoutes(router chi.Router, svc loan.LoanService, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)
	router.Post("/check-eligibility", h.CheckEligibility)
	router.Post("/create-loan", h.CreateLoan)
	router.Get("/view-loan/{loan_id}", h.ViewLoan)
	router.Get("/view-loans/{customer_id}", h.ViewCustomerLoans)
}

func setupAdminRoutes(router chi.Router, services Services, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	if services.Ingestion == nil {
		logger.Warn("Ingestion runner not provided, admin routes disabled")
		return
	}

	adminHandler := handler.NewAdminHandler(services.Ingestion, services.Enqueuer, cfg.Ingestion, logger)
	router.Route("/admin", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/ingestion", adminHandler.RunIngestion)
		r.Post("/recompute-debt", adminHandler.RecomputeDebt)
	})
}
