package resultrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/result"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "results"

// ResultDocument is the stored shape of a result record. Null amounts mean unset.
type ResultDocument struct {
	OrderID           string    `bson:"_id"`
	TeamID            string    `bson:"teamId"`
	MemberID          string    `bson:"memberId"`
	Link              string    `bson:"link"`
	PaymentStatus     string    `bson:"paymentStatus"`
	Commission        *int64    `bson:"commission"`
	ProfitBehindOrder *int64    `bson:"profitBehindOrder"`
	MembersProfit     *int64    `bson:"membersProfit"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

type sessionBinder interface {
	Bind(ctx context.Context) context.Context
}

type writeRecorder interface {
	RecordWrite(collection, id string)
}

type MongoResultRepository struct {
	collection *mongo.Collection
	session    sessionBinder
	writes     writeRecorder
}

var _ ports.ResultRepository = (*MongoResultRepository)(nil)

func NewMongoResultRepository(db *mongo.Database, session sessionBinder, writes writeRecorder) *MongoResultRepository {
	return &MongoResultRepository{
		collection: db.Collection(CollectionName),
		session:    session,
		writes:     writes,
	}
}

func (r *MongoResultRepository) Get(ctx context.Context, orderID string) (*result.Result, error) {
	var doc ResultDocument
	err := r.collection.FindOne(r.session.Bind(ctx), bson.M{"_id": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NewObjectNotFoundError("result", orderID)
		}
		return nil, err
	}

	paymentStatus, err := order.ParsePaymentStatus(doc.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return result.RestoreResult(
		doc.OrderID, doc.TeamID, doc.MemberID, doc.Link, paymentStatus,
		doc.Commission, doc.ProfitBehindOrder, doc.MembersProfit, doc.UpdatedAt.UTC(),
	)
}

// Upsert replaces the whole record, writing null for unset amounts.
func (r *MongoResultRepository) Upsert(ctx context.Context, aggregate *result.Result) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	doc := ResultDocument{
		OrderID:           aggregate.OrderID(),
		TeamID:            aggregate.TeamID(),
		MemberID:          aggregate.MemberID(),
		Link:              aggregate.Link(),
		PaymentStatus:     aggregate.PaymentStatus().String(),
		Commission:        aggregate.Commission(),
		ProfitBehindOrder: aggregate.ProfitBehindOrder(),
		MembersProfit:     aggregate.MembersProfit(),
		UpdatedAt:         aggregate.UpdatedAt().UTC(),
	}

	_, err := r.collection.ReplaceOne(r.session.Bind(ctx),
		bson.M{"_id": doc.OrderID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}

	r.writes.RecordWrite(CollectionName, aggregate.OrderID())
	return nil
}
