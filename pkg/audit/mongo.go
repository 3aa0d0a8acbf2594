package audit

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultMongoCollection holds workflow audit events when no name is given.
const DefaultMongoCollection = "workflow_audit_log"

// MongoStorage stores events as documents keyed by event id.
type MongoStorage struct {
	coll *mongo.Collection
}

func NewMongoStorage(db *mongo.Database, collection string) *MongoStorage {
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoStorage{coll: db.Collection(collection)}
}

// EnsureIndexes creates the per-entity history index.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "store_id", Value: 1},
			{Key: "entity_kind", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
	})
	return err
}

func (s *MongoStorage) Store(ctx context.Context, event Event) error {
	if _, err := s.coll.InsertOne(ctx, event); err != nil && !mongo.IsDuplicateKeyError(err) {
		return errors.Join(ErrFailedToStoreEvent, err)
	}
	return nil
}

// StoreBatch inserts unordered so one replayed id does not block the rest.
func (s *MongoStorage) StoreBatch(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]any, 0, len(events))
	for _, e := range events {
		docs = append(docs, e)
	}
	_, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return errors.Join(ErrFailedToStoreEvent, err)
	}
	return nil
}

func (s *MongoStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	if criteria.TenantID == "" {
		return nil, ErrTenantRequired
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if criteria.Limit > 0 {
		opts.SetLimit(int64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		opts.SetSkip(int64(criteria.Offset))
	}

	cur, err := s.coll.Find(ctx, mongoFilter(criteria), opts)
	if err != nil {
		return nil, errors.Join(ErrFailedToQueryEvents, err)
	}
	events := make([]Event, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, errors.Join(ErrFailedToQueryEvents, err)
	}
	return events, nil
}

func (s *MongoStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if criteria.TenantID == "" {
		return 0, ErrTenantRequired
	}
	n, err := s.coll.CountDocuments(ctx, mongoFilter(criteria))
	if err != nil {
		return 0, errors.Join(ErrFailedToQueryEvents, err)
	}
	return n, nil
}

func mongoFilter(c Criteria) bson.D {
	filter := bson.D{{Key: "store_id", Value: c.TenantID}}
	if c.EntityKind != "" {
		filter = append(filter, bson.E{Key: "entity_kind", Value: c.EntityKind})
	}
	if c.EntityID != "" {
		filter = append(filter, bson.E{Key: "entity_id", Value: c.EntityID})
	}
	if c.Action != "" {
		filter = append(filter, bson.E{Key: "action", Value: c.Action})
	}
	if c.Result != "" {
		filter = append(filter, bson.E{Key: "result", Value: string(c.Result)})
	}
	if !c.StartTime.IsZero() || !c.EndTime.IsZero() {
		window := bson.D{}
		if !c.StartTime.IsZero() {
			window = append(window, bson.E{Key: "$gte", Value: c.StartTime})
		}
		if !c.EndTime.IsZero() {
			window = append(window, bson.E{Key: "$lt", Value: c.EndTime})
		}
		filter = append(filter, bson.E{Key: "created_at", Value: window})
	}
	return filter
}
