package mongo_test

import (
	"context"
	"testing"
	"time"

	mongostore "orderflow/internal/adapters/out/mongo"
	"orderflow/internal/adapters/out/mongo/orderrepo"
	"orderflow/internal/adapters/out/mongo/teamrepo"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/result"
	"orderflow/internal/core/domain/model/team"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var day = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

// MongoStoreIntegrationTestSuite runs the document store against a standalone mongod.
type MongoStoreIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *mongo.Client
	db        *mongo.Database
	factory   *mongostore.MongoUnitOfWorkFactory
}

func (suite *MongoStoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	uri, err := container.PortEndpoint(ctx, "27017/tcp", "mongodb")
	suite.Require().NoError(err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	suite.Require().NoError(err)
	suite.client = client
	suite.db = client.Database("testdb")

	suite.Require().NoError(mongostore.EnsureIndexes(ctx, suite.db))

	factory, err := mongostore.NewMongoUnitOfWorkFactory(ctx, client, "testdb", zap.NewNop())
	suite.Require().NoError(err)
	suite.factory = factory
}

func (suite *MongoStoreIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	for _, name := range []string{"orders", "results", "teams"} {
		_, err := suite.db.Collection(name).DeleteMany(ctx, bson.M{})
		suite.Require().NoError(err)
	}
}

func (suite *MongoStoreIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if suite.client != nil {
		suite.Require().NoError(suite.client.Disconnect(ctx))
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(ctx))
	}
}

func (suite *MongoStoreIntegrationTestSuite) TestFactory_DetectsStandaloneServer() {
	suite.False(suite.factory.Transactional())
}

func (suite *MongoStoreIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), mongostore.ErrNoActiveUnitOfWork)
	suite.Require().ErrorIs(uow.Rollback(ctx), mongostore.ErrNoActiveUnitOfWork)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().ErrorIs(uow.Rollback(ctx), mongostore.ErrNoActiveUnitOfWork)
}

func (suite *MongoStoreIntegrationTestSuite) TestOrderRepository_AddManyReportsDuplicates() {
	ctx := context.Background()
	repo := suite.factory.Create().OrderRepository()

	res, err := repo.AddMany(ctx, []*order.Order{suite.newOrder("ORD-1", day)})
	suite.Require().NoError(err)
	suite.Equal(1, res.Inserted)

	res, err = repo.AddMany(ctx, []*order.Order{suite.newOrder("ORD-1", day), suite.newOrder("ORD-2", day)})
	suite.Require().NoError(err)
	suite.Equal(1, res.Inserted)
	suite.Equal([]string{"ORD-1"}, res.Duplicates)
}

func (suite *MongoStoreIntegrationTestSuite) TestOrderRepository_FindAndClaim() {
	ctx := context.Background()
	repo := suite.factory.Create().OrderRepository()
	_, err := repo.AddMany(ctx, []*order.Order{
		suite.newOrder("ORD-LATE", day.Add(20*time.Hour)),
		suite.newOrder("ORD-EARLY", day.Add(2*time.Hour)),
		suite.newOrder("ORD-NEXT-DAY", day.Add(30*time.Hour)),
	})
	suite.Require().NoError(err)

	to := day.Add(24*time.Hour - time.Nanosecond)
	filter := order.Filter{
		Statuses:    []order.Status{order.New},
		OrderType:   order.TypeWithCoupon,
		Team:        order.PresenceAbsent,
		CreatedFrom: day,
		CreatedTo:   &to,
	}

	found, err := repo.Find(ctx, filter, 10)
	suite.Require().NoError(err)
	suite.Require().Len(found, 2)
	suite.Equal("ORD-EARLY", found[0].ID())
	suite.Equal("ORD-LATE", found[1].ID())

	change, err := order.AllocateTeamChange(suite.assignment("T1", "Falcons"))
	suite.Require().NoError(err)

	claimed, err := repo.UpdateMany(ctx, []string{"ORD-EARLY"}, filter, change)
	suite.Require().NoError(err)
	suite.Equal([]string{"ORD-EARLY"}, claimed)

	claimed, err = repo.UpdateMany(ctx, []string{"ORD-EARLY", "ORD-LATE"}, filter, change)
	suite.Require().NoError(err)
	suite.Equal([]string{"ORD-LATE"}, claimed)

	got, err := repo.Get(ctx, "ORD-EARLY")
	suite.Require().NoError(err)
	suite.Equal(order.Allocated, got.Status())
	suite.Equal("Falcons", got.Team().Name())

	released, err := repo.UpdateMany(ctx, []string{"ORD-EARLY"}, order.Filter{TeamID: "T1"}, order.ReleaseTeamChange())
	suite.Require().NoError(err)
	suite.Equal([]string{"ORD-EARLY"}, released)

	got, err = repo.Get(ctx, "ORD-EARLY")
	suite.Require().NoError(err)
	suite.Equal(order.New, got.Status())
	suite.Nil(got.Team())
}

func (suite *MongoStoreIntegrationTestSuite) TestOrderRepository_ReadsLegacyAssignStatus() {
	ctx := context.Background()
	_, err := suite.db.Collection(orderrepo.CollectionName).InsertOne(ctx, bson.M{
		"_id":           "ORD-LEGACY",
		"orderType":     299,
		"status":        "Assign",
		"paymentStatus": "Unpaid",
		"createdAt":     day,
		"coupon":        "not given",
		"link":          "https://pay.example.com/ORD-LEGACY",
		"team":          bson.M{"id": "T1", "name": "Falcons", "allocateDate": day},
		"member":        bson.M{"id": "M1", "name": "Asha", "allocateDate": day},
	})
	suite.Require().NoError(err)

	repo := suite.factory.Create().OrderRepository()
	found, err := repo.Find(ctx, order.Filter{Statuses: []order.Status{order.Assigned}}, 0)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)

	o := found[0]
	suite.Equal(order.Assigned, o.Status())
	p, err := order.NewProfit(10, 60, 15)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Complete(p, day.Add(time.Hour)))
	suite.Require().NoError(repo.Update(ctx, o, order.Assigned))

	suite.Require().ErrorIs(repo.Update(ctx, o, order.Assigned), errs.ErrVersionIsInvalid)
	suite.Require().ErrorIs(repo.Update(ctx, suite.newOrder("ORD-404", day), order.New), errs.ErrObjectNotFound)
}

func (suite *MongoStoreIntegrationTestSuite) TestResultRepository_UpsertKeepsNullAmounts() {
	ctx := context.Background()
	o := suite.newOrder("ORD-1", day)
	suite.Require().NoError(o.AllocateToTeam(suite.assignment("T1", "Falcons")))
	suite.Require().NoError(o.AssignToMember(suite.assignment("M1", "Asha")))
	p, err := order.NewProfit(10, 30, 15)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Complete(p, day.Add(time.Hour)))

	r, err := result.NewResultForCompletion(o, day.Add(time.Hour))
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ResultRepository().Upsert(ctx, r))
	r.ClearProfit(day.Add(2 * time.Hour))
	suite.Require().NoError(uow.ResultRepository().Upsert(ctx, r))
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Create().ResultRepository().Get(ctx, "ORD-1")
	suite.Require().NoError(err)
	suite.Equal("M1", stored.MemberID())
	suite.Nil(stored.Commission())
	suite.Nil(stored.MembersProfit())

	_, err = suite.factory.Create().ResultRepository().Get(ctx, "ORD-404")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *MongoStoreIntegrationTestSuite) TestTeamDirectory_SaveAndResolve() {
	ctx := context.Background()
	uow := suite.factory.Create()
	member, err := team.NewMember("M1", "Asha")
	suite.Require().NoError(err)
	t, err := team.NewTeam("T1", "Falcons", "L1", []team.Member{member})
	suite.Require().NoError(err)
	suite.Require().NoError(teamrepo.NewMongoTeamDirectory(suite.db, uow).Save(ctx, t))

	byLeader, err := uow.TeamDirectory().GetTeamByLeader(ctx, "L1")
	suite.Require().NoError(err)
	suite.Equal("T1", byLeader.ID())
	m, ok := byLeader.Member("M1")
	suite.True(ok)
	suite.Equal("Asha", m.Name())

	_, err = uow.TeamDirectory().GetTeam(ctx, "T9")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *MongoStoreIntegrationTestSuite) newOrder(id string, createdAt time.Time) *order.Order {
	o, err := order.NewOrder(id, order.TypeWithCoupon, createdAt, order.Details{
		Coupon: "WELCOME",
		Link:   "https://pay.example.com/" + id,
	})
	suite.Require().NoError(err)
	return o
}

func (suite *MongoStoreIntegrationTestSuite) assignment(id, name string) order.Assignment {
	a, err := order.NewAssignment(id, name, day)
	suite.Require().NoError(err)
	return a
}

func TestMongoStoreIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(MongoStoreIntegrationTestSuite))
}

func (suite *MongoStoreIntegrationTestSuite) TestUnitOfWork_RollbackOnStandaloneLogsAppliedWrites() {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	factory, err := mongostore.NewMongoUnitOfWorkFactory(ctx, suite.client, "testdb", zap.New(core))
	suite.Require().NoError(err)
	suite.Require().False(factory.Transactional())

	o := suite.newOrder("ORD-1", day)
	suite.Require().NoError(o.AllocateToTeam(suite.assignment("T1", "Falcons")))
	suite.Require().NoError(o.AssignToMember(suite.assignment("M1", "Asha")))
	p, err := order.NewProfit(10, 30, 15)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Complete(p, day.Add(time.Hour)))
	r, err := result.NewResultForCompletion(o, day.Add(time.Hour))
	suite.Require().NoError(err)

	uow := factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ResultRepository().Upsert(ctx, r))
	suite.Require().NoError(uow.Rollback(ctx))

	entries := logs.FilterMessage("rollback without transaction, writes stay applied").All()
	suite.Require().Len(entries, 1)
	suite.Equal([]any{"results/ORD-1"}, entries[0].ContextMap()["written"])

	_, err = suite.factory.Create().ResultRepository().Get(ctx, "ORD-1")
	suite.Require().NoError(err)
}

func (suite *MongoStoreIntegrationTestSuite) TestUnitOfWork_CommitForgetsWrites() {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	factory, err := mongostore.NewMongoUnitOfWorkFactory(ctx, suite.client, "testdb", zap.New(core))
	suite.Require().NoError(err)

	o := suite.newOrder("ORD-1", day)
	suite.Require().NoError(o.AllocateToTeam(suite.assignment("T1", "Falcons")))
	suite.Require().NoError(o.AssignToMember(suite.assignment("M1", "Asha")))
	p, err := order.NewProfit(10, 30, 15)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Complete(p, day.Add(time.Hour)))
	r, err := result.NewResultForCompletion(o, day.Add(time.Hour))
	suite.Require().NoError(err)

	uow := factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.ResultRepository().Upsert(ctx, r))
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().ErrorIs(uow.Rollback(ctx), mongostore.ErrNoActiveUnitOfWork)

	suite.Zero(logs.FilterMessage("rollback without transaction, writes stay applied").Len())
}
