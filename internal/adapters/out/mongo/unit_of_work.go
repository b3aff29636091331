// Package mongo provides the document store: repositories for orders, results and the
// team directory, coordinated by a session-scoped Unit of Work.
//
// On a replica set every unit of work runs in a multi-document transaction. On a
// standalone server writes are applied immediately and Rollback cannot undo them;
// claims stay exclusive because every bulk change re-checks its filter per document.
package mongo

import (
	"context"
	"errors"

	"orderflow/internal/adapters/out/mongo/orderrepo"
	"orderflow/internal/adapters/out/mongo/resultrepo"
	"orderflow/internal/adapters/out/mongo/teamrepo"
	"orderflow/internal/core/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// ErrNoActiveUnitOfWork is returned by Commit and Rollback outside Begin.
var ErrNoActiveUnitOfWork = errors.New("no active unit of work")

// EnsureIndexes creates the indexes the queries rely on. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(orderrepo.CollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "orderType", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "team.id", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "member.id", Value: 1}}},
		{Keys: bson.D{{Key: "claimToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(teamrepo.CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "leaderId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// MongoUnitOfWorkFactory creates units of work over one client.
type MongoUnitOfWorkFactory struct {
	client        *mongo.Client
	db            *mongo.Database
	transactional bool
	logger        *zap.Logger
}

// NewMongoUnitOfWorkFactory probes the deployment for transaction support once.
//
// Example:
//
//	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
//	if err != nil {
//	    return err
//	}
//	factory, err := NewMongoUnitOfWorkFactory(ctx, client, "orderflow", logger)
func NewMongoUnitOfWorkFactory(
	ctx context.Context,
	client *mongo.Client,
	dbName string,
	logger *zap.Logger,
) (*MongoUnitOfWorkFactory, error) {
	db := client.Database(dbName)

	transactional, err := supportsTransactions(ctx, client, db)
	if err != nil {
		return nil, err
	}
	if !transactional {
		logger.Warn("mongo deployment has no transaction support, units of work apply writes immediately",
			zap.String("database", dbName))
	}

	return &MongoUnitOfWorkFactory{
		client:        client,
		db:            db,
		transactional: transactional,
		logger:        logger.With(zap.String("component", "mongo-uow")),
	}, nil
}

// Transactional reports whether units of work run in server transactions.
func (f *MongoUnitOfWorkFactory) Transactional() bool {
	return f.transactional
}

func (f *MongoUnitOfWorkFactory) Create() *MongoUnitOfWork {
	return &MongoUnitOfWork{
		client:        f.client,
		db:            f.db,
		transactional: f.transactional,
		logger:        f.logger,
	}
}

// MongoUnitOfWork binds repositories to one session. It is not safe for concurrent use.
type MongoUnitOfWork struct {
	client        *mongo.Client
	db            *mongo.Database
	transactional bool

	active  bool
	session mongo.Session

	// written lists "collection/id" for each write since Begin. Without a transaction
	// these writes are already durable when Rollback runs.
	written []string
	logger  *zap.Logger
}

var _ ports.UnitOfWork = (*MongoUnitOfWork)(nil)

// Begin opens a session transaction. Calling Begin again while active is a no-op.
func (uow *MongoUnitOfWork) Begin(_ context.Context) error {
	if uow.active {
		return nil
	}

	if uow.transactional {
		session, err := uow.client.StartSession()
		if err != nil {
			return err
		}
		opts := options.Transaction().
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority())
		if err = session.StartTransaction(opts); err != nil {
			session.EndSession(context.Background())
			return err
		}
		uow.session = session
	}

	uow.active = true
	return nil
}

func (uow *MongoUnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoActiveUnitOfWork
	}
	uow.active = false
	uow.written = nil

	if uow.session == nil {
		return nil
	}
	defer uow.endSession(ctx)
	return uow.session.CommitTransaction(ctx)
}

// Rollback aborts the transaction. After Commit it returns ErrNoActiveUnitOfWork,
// which deferred rollbacks ignore. Without a transaction nothing can be undone, and the
// writes that stay applied are logged.
func (uow *MongoUnitOfWork) Rollback(ctx context.Context) error {
	if !uow.active {
		return ErrNoActiveUnitOfWork
	}
	uow.active = false
	written := uow.written
	uow.written = nil

	if uow.session == nil {
		if len(written) > 0 {
			uow.logger.Warn("rollback without transaction, writes stay applied",
				zap.Strings("written", written))
		}
		return nil
	}
	defer uow.endSession(ctx)
	return uow.session.AbortTransaction(ctx)
}

// Bind attaches the open session to ctx so driver calls join the transaction.
func (uow *MongoUnitOfWork) Bind(ctx context.Context) context.Context {
	if uow.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, uow.session)
}

func (uow *MongoUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewMongoOrderRepository(uow.db, uow, uow)
}

func (uow *MongoUnitOfWork) ResultRepository() ports.ResultRepository {
	return resultrepo.NewMongoResultRepository(uow.db, uow, uow)
}

func (uow *MongoUnitOfWork) TeamDirectory() ports.TeamDirectory {
	return teamrepo.NewMongoTeamDirectory(uow.db, uow)
}

// RecordWrite notes a document changed through this unit of work. Writes made
// outside Begin are not recorded.
func (uow *MongoUnitOfWork) RecordWrite(collection, id string) {
	if !uow.active {
		return
	}
	uow.written = append(uow.written, collection+"/"+id)
}

func (uow *MongoUnitOfWork) endSession(ctx context.Context) {
	uow.session.EndSession(ctx)
	uow.session = nil
}

// supportsTransactions runs a read inside a throwaway transaction. Standalone servers
// reject it with one of the transaction-unsupported errors.
func supportsTransactions(ctx context.Context, client *mongo.Client, db *mongo.Database) (bool, error) {
	session, err := client.StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return err
		}
		defer func() {
			_ = session.AbortTransaction(sc)
		}()

		err := db.Collection(orderrepo.CollectionName).FindOne(sc, bson.M{}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return err
	})
	if err == nil {
		return true, nil
	}
	if IsTransactionNotSupported(err) {
		return false, nil
	}
	return false, err
}
