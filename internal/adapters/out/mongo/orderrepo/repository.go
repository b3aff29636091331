package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// sessionBinder attaches the active session, if any, to a context.
type sessionBinder interface {
	Bind(ctx context.Context) context.Context
}

// writeRecorder is told about every document this repository changed.
type writeRecorder interface {
	RecordWrite(collection, id string)
}

// MongoOrderRepository stores orders as documents keyed by order id.
type MongoOrderRepository struct {
	collection *mongo.Collection
	session    sessionBinder
	writes     writeRecorder
}

var _ ports.OrderRepository = (*MongoOrderRepository)(nil)

func NewMongoOrderRepository(db *mongo.Database, session sessionBinder, writes writeRecorder) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection(CollectionName),
		session:    session,
		writes:     writes,
	}
}

// AddMany inserts orders unordered. Ids already stored, and ids inserted concurrently by
// another writer, are reported as duplicates.
func (r *MongoOrderRepository) AddMany(ctx context.Context, orders []*order.Order) (ports.AddManyResult, error) {
	if len(orders) == 0 {
		return ports.AddManyResult{}, nil
	}
	ctx = r.session.Bind(ctx)

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return ports.AddManyResult{}, err
		}
		ids = append(ids, o.ID())
	}

	existing, err := r.existingIDs(ctx, ids)
	if err != nil {
		return ports.AddManyResult{}, err
	}

	result := ports.AddManyResult{Duplicates: make([]string, 0)}
	fresh := make([]*order.Order, 0, len(orders))
	docs := make([]any, 0, len(orders))
	for _, o := range orders {
		if _, ok := existing[o.ID()]; ok {
			result.Duplicates = append(result.Duplicates, o.ID())
			continue
		}
		fresh = append(fresh, o)
		docs = append(docs, fromDomain(o))
	}
	if len(docs) == 0 {
		return result, nil
	}

	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil {
		result.Inserted = len(res.InsertedIDs)
	}

	rejected := make(map[int]struct{})
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			return ports.AddManyResult{}, err
		}
		for _, we := range bulkErr.WriteErrors {
			if we.Code != duplicateKeyCode {
				return ports.AddManyResult{}, err
			}
			rejected[we.Index] = struct{}{}
			result.Duplicates = append(result.Duplicates, fresh[we.Index].ID())
		}
		if bulkErr.WriteConcernError != nil {
			return ports.AddManyResult{}, err
		}
		result.Inserted = len(fresh) - len(rejected)
	}

	for i, o := range fresh {
		if _, ok := rejected[i]; !ok {
			r.writes.RecordWrite(CollectionName, o.ID())
		}
	}
	return result, nil
}

// Get retrieves an order by id.
func (r *MongoOrderRepository) Get(ctx context.Context, orderID string) (*order.Order, error) {
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("orderID")
	}

	var doc OrderDocument
	err := r.collection.FindOne(r.session.Bind(ctx), bson.M{"_id": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NewObjectNotFoundError("order", orderID)
		}
		return nil, err
	}
	return toDomain(doc)
}

// Find returns matching orders oldest first. The sort follows the selection index.
func (r *MongoOrderRepository) Find(ctx context.Context, filter order.Filter, limit int) ([]*order.Order, error) {
	ctx = r.session.Bind(ctx)

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, err
	}

	var docs []OrderDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(docs))
	for _, doc := range docs {
		o, err := toDomain(doc)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", doc.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateMany stamps every changed document with a fresh claim token and reads the
// token back, so the returned ids are exactly the documents this call changed.
func (r *MongoOrderRepository) UpdateMany(
	ctx context.Context,
	ids []string,
	filter order.Filter,
	change order.BulkChange,
) ([]string, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []string{}, nil
	}
	ctx = r.session.Bind(ctx)

	token := uuid.NewString()
	update, err := changeDocument(change, token)
	if err != nil {
		return nil, err
	}

	selector := filterDocument(filter)
	selector["_id"] = bson.M{"$in": ids}

	res, err := r.collection.UpdateMany(ctx, selector, update)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return []string{}, nil
	}

	cursor, err := r.collection.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "claimToken": token},
		options.Find().
			SetProjection(bson.M{"_id": 1}).
			SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	var claimed []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &claimed); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(claimed))
	for _, c := range claimed {
		out = append(out, c.ID)
		r.writes.RecordWrite(CollectionName, c.ID)
	}
	return out, nil
}

// Update replaces the document only when its stored status still equals expected.
func (r *MongoOrderRepository) Update(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	ctx = r.session.Bind(ctx)

	res, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": aggregate.ID(), "status": bson.M{"$in": statusNames([]order.Status{expected})}},
		fromDomain(aggregate),
	)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": aggregate.ID()})
		if err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID())
		}
		return errs.NewVersionIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s is no longer %s", aggregate.ID(), expected))
	}

	r.writes.RecordWrite(CollectionName, aggregate.ID())
	return nil
}

func (r *MongoOrderRepository) existingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}

	var found []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(found))
	for _, f := range found {
		existing[f.ID] = struct{}{}
	}
	return existing, nil
}

// filterDocument translates a Filter to a query document. A missing and a null
// sub-record both count as absent.
func filterDocument(f order.Filter) bson.M {
	query := bson.M{}

	status := bson.M{}
	if len(f.Statuses) > 0 {
		status["$in"] = statusNames(f.Statuses)
	}
	if len(f.ExcludedStatuses) > 0 {
		status["$nin"] = statusNames(f.ExcludedStatuses)
	}
	if len(status) > 0 {
		query["status"] = status
	}

	if f.OrderType > 0 {
		query["orderType"] = f.OrderType
	}

	switch f.TeamPresence() {
	case order.PresenceAbsent:
		query["team"] = nil
	case order.PresencePresent:
		query["team"] = bson.M{"$ne": nil}
	}
	if f.TeamID != "" {
		query["team.id"] = f.TeamID
	}

	switch f.Member {
	case order.PresenceAbsent:
		query["member"] = nil
	case order.PresencePresent:
		query["member"] = bson.M{"$ne": nil}
	}

	created := bson.M{}
	if !f.CreatedFrom.IsZero() {
		created["$gte"] = f.CreatedFrom.UTC()
	}
	if f.CreatedTo != nil {
		created["$lte"] = f.CreatedTo.UTC()
	}
	if len(created) > 0 {
		query["createdAt"] = created
	}

	if f.LinkPresent {
		query["link"] = bson.M{"$nin": bson.A{nil, ""}}
	}
	return query
}

func changeDocument(change order.BulkChange, token string) (bson.M, error) {
	set := bson.M{
		"status":        change.TargetStatus().String(),
		"paymentStatus": order.Unpaid.String(),
		"claimToken":    token,
	}
	update := bson.M{"$set": set}

	switch change.Kind() {
	case order.ChangeAllocateTeam:
		a, _ := change.Assignment()
		set["team"] = assignmentFromDomain(&a)
	case order.ChangeAssignMember:
		a, _ := change.Assignment()
		set["member"] = assignmentFromDomain(&a)
	case order.ChangeReleaseTeam:
		update["$unset"] = bson.M{"team": "", "member": ""}
	case order.ChangeReleaseMember:
		update["$unset"] = bson.M{"member": ""}
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("change", fmt.Errorf("%s is not applicable", change.Kind()))
	}
	return update, nil
}
