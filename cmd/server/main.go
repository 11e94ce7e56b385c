package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"enrolld/internal/audit"
	"enrolld/internal/platform/config"
	"enrolld/internal/platform/logger"
	"enrolld/internal/platform/metrics"
	"enrolld/internal/registration/service"
	"enrolld/internal/registration/store/memory"
)

// main wires dependencies and runs the background sweeper plus the metrics
// listener. The registration manager itself is embedded by a calling
// application; this binary ships no domain API on purpose.
func main() {
	log := logger.New(slog.LevelInfo)

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, reading from environment")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	accounts := memory.New()

	auditStore := audit.NewInMemoryStore()
	auditInbox := make(chan audit.Event, 64)
	auditWorker := audit.NewWorker(auditStore, auditInbox)

	manager, err := service.New(accounts, cfg.Registration,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithAuditPublisher(audit.NewChannelPublisher(auditInbox)),
	)
	if err != nil {
		return err
	}

	sweeper, err := service.NewSweeper(manager, cfg.Registration.SweepInterval, log)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.Info("starting enrolld",
		"metrics_addr", cfg.MetricsAddr,
		"expiration_days", cfg.Registration.ExpirationDays,
		"sweep_interval", cfg.Registration.SweepInterval,
	)
	if cfg.Registration.SpeedupFactor != 1 {
		log.Warn("TTL speedup factor active, do not run this in production",
			"speedup_factor", cfg.Registration.SpeedupFactor)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return sweeper.Run(ctx) })
	g.Go(func() error { return auditWorker.Run(ctx) })

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
