package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carterlwilson/IronLogicV3-sub001/internal/api"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/auth"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/config"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/domain"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/outbox"
	"github.com/carterlwilson/IronLogicV3-sub001/internal/persistence/memory"
	persistence "github.com/carterlwilson/IronLogicV3-sub001/internal/persistence/postgres"
	httptransport "github.com/carterlwilson/IronLogicV3-sub001/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		userRepo      domain.UserRepository
		gymRepo       domain.GymRepository
		activityRepo  domain.ActivityTemplateRepository
		benchmarkRepo domain.BenchmarkTemplateRepository
		programRepo   domain.ProgramRepository
		scheduleRepo  domain.ScheduleRepository
		dispatcher    *outbox.Dispatcher
	)

	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		userRepo = persistence.NewUserRepository(pool)
		gymRepo = persistence.NewGymRepository(pool)
		activityRepo = persistence.NewActivityTemplateRepository(pool)
		benchmarkRepo = persistence.NewBenchmarkTemplateRepository(pool)
		programRepo = persistence.NewProgramRepository(pool)
		scheduleRepo = persistence.NewScheduleRepository(pool)

		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		dispatcher = outbox.NewDispatcher(pool, producer, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
		go dispatcher.Start(ctx)
	case config.StoreMemory:
		// In-memory stores for local dev; no outbox, events stay unpublished.
		userRepo = memory.NewUserStore()
		gymRepo = memory.NewGymStore()
		activityRepo = memory.NewActivityTemplateStore()
		benchmarkRepo = memory.NewBenchmarkTemplateStore()
		programRepo = memory.NewProgramStore()
		scheduleRepo = memory.NewScheduleStore()
	default:
		log.Fatalf("unknown store driver %q", cfg.StoreDriver)
	}

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}

	handler := api.NewHandler(api.HandlerConfig{
		Users:     domain.NewUserService(userRepo),
		Gyms:      domain.NewGymService(gymRepo),
		Templates: domain.NewTemplateService(activityRepo, benchmarkRepo),
		Programs:  domain.NewProgramService(programRepo, activityRepo),
		Schedules: domain.NewScheduleService(scheduleRepo),
		Auth:      authCfg,
		TokenTTL:  cfg.TokenTTL,
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(authCfg, func(r *http.Request) bool {
		switch r.URL.Path {
		case "/healthz", "/metrics", "/v1/auth/login":
			return true
		}
		return false
	})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, authMiddleware.Wrap(logger(cors(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("gym-manager listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	if dispatcher != nil {
		dispatcher.Wait()
	}
}
