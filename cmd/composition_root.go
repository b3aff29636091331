package cmd

import (
	"context"
	"fmt"
	"time"

	httpin "orderflow/internal/adapters/in/http"
	mongostore "orderflow/internal/adapters/out/mongo"
	"orderflow/internal/adapters/out/paymentprobe"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/pricing"
	redisstore "orderflow/internal/adapters/out/redis"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is the persistence selected by STORE_DRIVER.
type Store struct {
	newUoW func() ports.UnitOfWork
	close  func(ctx context.Context) error
}

// NewPostgresStore migrates the schema and serves units of work from db.
func NewPostgresStore(db *gorm.DB) (Store, error) {
	if err := postgres.Migrate(db); err != nil {
		return Store{}, fmt.Errorf("failed to migrate postgres schema: %w", err)
	}
	factory := postgres.NewGormUnitOfWorkFactory(db)
	return Store{
		newUoW: func() ports.UnitOfWork { return factory.Create() },
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}

// NewMongoStore ensures indexes and serves units of work from the named database.
func NewMongoStore(ctx context.Context, client *mongo.Client, dbName string, logger *zap.Logger) (Store, error) {
	if err := mongostore.EnsureIndexes(ctx, client.Database(dbName)); err != nil {
		return Store{}, fmt.Errorf("failed to ensure mongo indexes: %w", err)
	}
	factory, err := mongostore.NewMongoUnitOfWorkFactory(ctx, client, dbName, logger)
	if err != nil {
		return Store{}, err
	}
	return Store{
		newUoW: func() ports.UnitOfWork { return factory.Create() },
		close:  client.Disconnect,
	}, nil
}

func (s Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

type CompositionRoot struct {
	config   Config
	location *time.Location
	store    Store
	probe    ports.PaymentProbe
	pricing  commands.ProfitCalculator
	logger   *zap.Logger
}

func NewCompositionRoot(config Config, store Store, probe ports.PaymentProbe, logger *zap.Logger) (CompositionRoot, error) {
	location, err := config.Location()
	if err != nil {
		return CompositionRoot{}, err
	}
	calculator, err := pricing.Load(config.PricingFile)
	if err != nil {
		return CompositionRoot{}, err
	}
	return CompositionRoot{
		config:   config,
		location: location,
		store:    store,
		probe:    probe,
		pricing:  calculator,
		logger:   logger,
	}, nil
}

// NewProbe builds the payment probe from the PROBE_* settings.
func NewProbe(config Config, logger *zap.Logger) (*paymentprobe.HTTPProbe, error) {
	return paymentprobe.NewHTTPProbe(paymentprobe.Config{
		ProxyURL:      config.ProbeProxyURL,
		RatePerSecond: config.ProbeRatePerSecond,
		Burst:         config.ProbeBurst,
		Timeout:       time.Duration(config.ProbeTimeoutSeconds) * time.Second,
		UserAgent:     config.ProbeUserAgent,
	}, logger)
}

func (c *CompositionRoot) CreateImportOrdersCommandHandler() commands.ImportOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.store.newUoW()
	})
	return commands.NewImportOrdersCommandHandler(f, kernel.SystemClock{}, c.logger)
}

func (c *CompositionRoot) CreateAllocateOrdersCommandHandler() commands.AllocateOrdersCommandHandler {
	var f commands.AllocationUoWFactory = FuncAllocationUoWFactory(func() commands.AllocationUoW {
		return c.store.newUoW()
	})
	return commands.NewAllocateOrdersCommandHandler(f, kernel.SystemClock{}, c.location, c.logger)
}

func (c *CompositionRoot) CreateUnallocateOrdersCommandHandler() commands.UnallocateOrdersCommandHandler {
	var f commands.AllocationUoWFactory = FuncAllocationUoWFactory(func() commands.AllocationUoW {
		return c.store.newUoW()
	})
	return commands.NewUnallocateOrdersCommandHandler(f, c.location, c.logger)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.uowFactory(), c.pricing, kernel.SystemClock{}, c.logger)
}

func (c *CompositionRoot) CreateRevertOrderCompletionCommandHandler() commands.RevertOrderCompletionCommandHandler {
	return commands.NewRevertOrderCompletionCommandHandler(c.uowFactory(), kernel.SystemClock{}, c.logger)
}

func (c *CompositionRoot) CreateVerifyOrderCommandHandler() commands.VerifyOrderCommandHandler {
	return commands.NewVerifyOrderCommandHandler(c.uowFactory(), kernel.SystemClock{}, c.logger)
}

func (c *CompositionRoot) CreateReconcileOrdersCommandHandler() commands.ReconcileOrdersCommandHandler {
	options := commands.ReconcileOptions{
		RetryDelay:     time.Duration(c.config.ProbeRetryDelayMs) * time.Millisecond,
		AttemptTimeout: time.Duration(c.config.ProbeTimeoutSeconds) * time.Second,
		Concurrency:    c.config.ReconcileConcurrency,
	}
	return commands.NewReconcileOrdersCommandHandler(c.uowFactory(), c.probe, options, kernel.SystemClock{}, c.logger)
}

func (c *CompositionRoot) CreateGetReconciliationCandidatesQueryHandler() queries.GetReconciliationCandidatesQueryHandler {
	return queries.NewGetReconciliationCandidatesQueryHandler(FuncOrderFinder(
		func(ctx context.Context, filter order.Filter, limit int) ([]*order.Order, error) {
			return c.store.newUoW().OrderRepository().Find(ctx, filter, limit)
		}))
}

// CreateHTTPServer wires every handler behind the bearer token authenticator.
func (c *CompositionRoot) CreateHTTPServer(revocations ports.TokenRevocationStore) (*httpin.Server, error) {
	auth, err := httpin.NewAuthenticator(
		c.config.JWTSecret,
		revocations,
		time.Duration(c.config.RevocationTTLHours)*time.Hour,
		c.logger,
	)
	if err != nil {
		return nil, err
	}

	handlers := httpin.Handlers{
		ImportOrders:          c.CreateImportOrdersCommandHandler(),
		AllocateOrders:        c.CreateAllocateOrdersCommandHandler(),
		UnallocateOrders:      c.CreateUnallocateOrdersCommandHandler(),
		CompleteOrder:         c.CreateCompleteOrderCommandHandler(),
		RevertOrderCompletion: c.CreateRevertOrderCompletionCommandHandler(),
		VerifyOrder:           c.CreateVerifyOrderCommandHandler(),
		ReconcileOrders:       c.CreateReconcileOrdersCommandHandler(),
		Candidates:            c.CreateGetReconciliationCandidatesQueryHandler(),
	}

	return httpin.NewServer(handlers, auth, httpin.Options{
		Location:          c.location,
		CandidateLookback: c.lookback(),
		CandidateLimit:    c.config.ReconcileBatchLimit,
		Clock:             kernel.SystemClock{},
	}, c.logger), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	job := jobs.NewReconciliationJob(
		c.CreateGetReconciliationCandidatesQueryHandler(),
		c.CreateReconcileOrdersCommandHandler(),
		jobs.ReconciliationJobConfig{
			Schedule:   c.config.ReconcileSchedule,
			Lookback:   c.lookback(),
			BatchLimit: c.config.ReconcileBatchLimit,
			RunTimeout: time.Duration(c.config.ReconcileRunTimeoutMinutes) * time.Minute,
		},
		kernel.SystemClock{},
		c.logger,
	)
	return jobs.NewJobManager(job)
}

// NewRevocationStore connects the Redis token revocation store.
func NewRevocationStore(ctx context.Context, config Config) (*redisstore.RevocationStore, func() error, error) {
	client, err := redisstore.NewClient(ctx, config.RedisAddr, config.RedisPassword, config.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return redisstore.NewRevocationStore(client), client.Close, nil
}

func (c *CompositionRoot) uowFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.store.newUoW()
	})
}

func (c *CompositionRoot) lookback() time.Duration {
	return time.Duration(c.config.ReconcileLookbackDays) * 24 * time.Hour
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAllocationUoWFactory func() commands.AllocationUoW

func (f FuncAllocationUoWFactory) Create() commands.AllocationUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// FuncOrderFinder reads orders outside a transaction.
type FuncOrderFinder func(ctx context.Context, filter order.Filter, limit int) ([]*order.Order, error)

func (f FuncOrderFinder) Find(ctx context.Context, filter order.Filter, limit int) ([]*order.Order, error) {
	return f(ctx, filter, limit)
}
