package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/config"
	"github.com/leadflow/crm-directory/internal/infra/http/handlers"
	"github.com/leadflow/crm-directory/internal/infra/http/middleware"
	"github.com/leadflow/crm-directory/internal/infra/mail"
	"github.com/leadflow/crm-directory/internal/infra/queue"
	"github.com/leadflow/crm-directory/internal/infra/realtime"
	"github.com/leadflow/crm-directory/internal/usecase"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, change feed and assignment worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StorageBackend, err)
	}
	defer closeStore() //nolint:errcheck

	hub := realtime.NewHub(logger.Named("realtime"))
	defer hub.Close()

	publishers := usecase.FanoutPublisher{middleware.MetricsPublisher{}, hub}

	var broker *queue.RabbitMQ
	if cfg.AMQPURL != "" {
		broker, err = queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer broker.Close() //nolint:errcheck
		publishers = append(publishers, queue.NewProducer(broker.Ch))

		if cfg.Mail.Enabled() {
			sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From)
			worker := queue.NewWorker(broker.Ch, sender, logger.Named("worker"))
			go func() {
				if err := worker.Start(ctx); err != nil {
					logger.Error("assignment worker stopped", zap.Error(err))
					middleware.RecordIntegrationError("rabbitmq")
				}
			}()
		} else {
			logger.Warn("MAIL_HOST not set, assignment notices are queued but not sent")
		}
	} else {
		logger.Info("AMQP_URL not set, queue and worker disabled")
	}

	dir := newDirectory(cfg, store, logger, publishers)
	if err := dir.Open(ctx); err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.ImportRateLimit, cfg.ImportRateWindow)
	go limiter.Run(ctx, 10*time.Minute)

	var brokerStatus handlers.BrokerStatus
	if broker != nil {
		brokerStatus = broker
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: newRouter(routerDeps{
			Directory:      dir,
			Health:         handlers.NewHealthHandler(store, cfg.StorageBackend, brokerStatus, cfg.Mail.Enabled(), Version),
			Events:         hub,
			ImportLimiter:  limiter,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			TrustProxy:     cfg.TrustProxyHeaders,
			Logger:         logger.Named("http"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("storage", cfg.StorageBackend),
			zap.String("version", Version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newDirectory(cfg *config.Config, store snapshotStore, logger *zap.Logger, publisher usecase.EventPublisher) *usecase.Directory {
	opts := []usecase.Option{
		usecase.WithStorageKey(cfg.StorageKey),
		usecase.WithLogger(logger.Named("directory")),
	}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	if cfg.LatencyEnabled {
		opts = append(opts, usecase.WithLatency(cfg.LatencyMin, cfg.LatencyMax))
	} else {
		opts = append(opts, usecase.WithoutLatency())
	}
	return usecase.NewDirectory(store, opts...)
}
