package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow/cmd"
	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/pkg/logging"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	config, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:      config.LogLevel,
		Format:     config.LogFormat,
		File:       config.LogFile,
		MaxSizeMB:  config.LogMaxSizeMB,
		MaxBackups: config.LogMaxBackups,
		MaxAgeDays: config.LogMaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Fatal("orderflow stopped", zap.Error(err))
	}
}

func run(ctx context.Context, config cmd.Config, logger *zap.Logger) error {
	store, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeWith(logger, "store", func() error {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return store.Close(closeCtx)
	})

	revocations, closeRedis, err := cmd.NewRevocationStore(ctx, config)
	if err != nil {
		return err
	}
	defer closeWith(logger, "redis", closeRedis)

	probe, err := cmd.NewProbe(config, logger)
	if err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(config, store, probe, logger)
	if err != nil {
		return err
	}

	server, err := app.CreateHTTPServer(revocations)
	if err != nil {
		return err
	}
	e, err := httpin.NewRouter(server, httpin.RouterConfig{
		RatePerSecond: config.APIRatePerSecond,
		Burst:         config.APIBurst,
	}, logger)
	if err != nil {
		return err
	}

	if config.ReconcileEnabled {
		jobManager := app.CreateJobManager()
		if err := jobManager.StartAll(); err != nil {
			return err
		}
		defer jobManager.StopAll()
		logger.Info("reconciliation job scheduled", zap.String("schedule", config.ReconcileSchedule))
	}

	return serve(ctx, e, config.HTTPPort, logger)
}

func openStore(ctx context.Context, config cmd.Config, logger *zap.Logger) (cmd.Store, error) {
	switch config.StoreDriver {
	case cmd.StoreDriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoURI))
		if err != nil {
			return cmd.Store{}, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		store, err := cmd.NewMongoStore(ctx, client, config.MongoDB, logger)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return cmd.Store{}, err
		}
		logger.Info("using mongo store", zap.String("database", config.MongoDB))
		return store, nil
	default:
		db, err := gorm.Open(postgres.Open(config.PostgresDSN()), &gorm.Config{})
		if err != nil {
			return cmd.Store{}, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store, err := cmd.NewPostgresStore(db)
		if err != nil {
			return cmd.Store{}, err
		}
		logger.Info("using postgres store", zap.String("host", config.DBHost), zap.String("database", config.DBName))
		return store, nil
	}
}

func serve(ctx context.Context, e *echo.Echo, port string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", port))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func closeWith(logger *zap.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("close failed", zap.String("resource", name), zap.Error(err))
	}
}
