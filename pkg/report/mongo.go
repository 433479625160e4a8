package report

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/licensegate/pkg/errors"
)

const (
	defaultDatabase   = "licensegate"
	defaultCollection = "reports"
)

// MongoStore persists reports in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and verifies the connection.
// Reports are stored in the "licensegate.reports" collection.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(defaultDatabase).Collection(defaultCollection),
	}, nil
}

// Save stores a report.
func (s *MongoStore) Save(ctx context.Context, r *Report) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save report %s", r.ID)
	}
	return nil
}

// List returns the most recent reports, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list reports")
	}
	defer cursor.Close(ctx)

	var reports []*Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode reports")
	}
	return reports, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
