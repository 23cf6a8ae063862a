package main

import (
	"credit-approval/internal/config"
	"credit-approval/internal/infrastructure/logging"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp(t *testing.T) {
	cfg, log := initializeApp()

	assert.NotNil(t, cfg, "Config should not be nil")
	assert.NotNil(t, log, "Logger should not be nil")
}

func TestBuildPolicies(t *testing.T) {
	t.Run("zero config keeps defaults", func(t *testing.T) {
		limit, scoringPolicy, decision := buildPolicies(&config.Config{})

		assert.Equal(t, 36.0, limit.SalaryMultiplier)
		assert.Equal(t, 10000.0, limit.RoundingUnit)
		assert.Equal(t, 85, scoringPolicy.NewCustomerScore)
		assert.Equal(t, 10, decision.MinimumScore)
		assert.Equal(t, 0.5, decision.MaxEMISalaryRatio)
		require.Len(t, decision.RateBands, 2)
		assert.Equal(t, 12.0, decision.RateBands[0].RateFloor)
		assert.Equal(t, 16.0, decision.RateBands[1].RateFloor)
	})

	t.Run("zero minimum score is applied", func(t *testing.T) {
		cfg := &config.Config{Scoring: config.ScoringConfig{MinimumScore: intPtr(0)}}

		_, _, decision := buildPolicies(cfg)

		assert.Equal(t, 0, decision.MinimumScore)
		assert.Equal(t, 0, decision.RateBands[1].MinScore)
		assert.Equal(t, 16.0, decision.CorrectedRate(5, 10))
		assert.Equal(t, 12.0, decision.CorrectedRate(40, 10))
	})

	t.Run("negative minimum score keeps the default", func(t *testing.T) {
		_, _, decision := buildPolicies(&config.Config{Scoring: config.ScoringConfig{MinimumScore: intPtr(-1)}})

		assert.Equal(t, 10, decision.MinimumScore)
	})

	t.Run("overrides from config", func(t *testing.T) {
		cfg := &config.Config{
			Policy: config.PolicyConfig{
				ApprovedLimitMultiplier: 24,
				ApprovedLimitRounding:   50000,
				MaxEMISalaryRatio:       0.4,
			},
			Scoring: config.ScoringConfig{
				NewCustomerScore: 70,
				PreferredScore:   60,
				StandardScore:    40,
				MinimumScore:     intPtr(20),
				StandardRate:     13,
				SubprimeRate:     18,
			},
		}

		limit, scoringPolicy, decision := buildPolicies(cfg)

		assert.Equal(t, 24.0, limit.SalaryMultiplier)
		assert.Equal(t, 50000.0, limit.RoundingUnit)
		assert.Equal(t, 70, scoringPolicy.NewCustomerScore)
		assert.Equal(t, 20, decision.MinimumScore)
		assert.Equal(t, 0.4, decision.MaxEMISalaryRatio)
		assert.Equal(t, 13.0, decision.CorrectedRate(50, 10))
		assert.Equal(t, 18.0, decision.CorrectedRate(30, 10))
		assert.Equal(t, 10.0, decision.CorrectedRate(61, 10))
	})
}

func TestInitializeRedisClientSkippedForMemoryBackend(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{RateLimit: config.RateLimitConfig{Enabled: true, Backend: "memory"}},
	}
	logger := logging.NewLogger(config.LoggerConfig{})

	assert.Nil(t, initializeRedisClient(cfg, logger))
	assert.Nil(t, initializeRabbitMQ(cfg, logger))
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	logger := logging.NewLogger(config.LoggerConfig{})
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")
	_ = srv.Close()
}

func TestHandleShutdown(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cronScheduler := cron.New()
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	go func() {
		shutdownChan <- syscall.SIGINT
	}()

	handleShutdown(srv, cronScheduler, nil, nil, nil, shutdownChan, serverErrors, logger)
	assert.True(t, true, "Graceful shutdown should complete without errors")
}

func intPtr(v int) *int {
	return &v
}
