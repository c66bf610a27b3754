package study

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visionspec/visionspec/pkg/errors"
)

// CollectionName is the MongoDB collection holding studies.
const CollectionName = "studies"

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration // per-operation timeout; 0 means 10s
}

// MongoStore stores studies as documents keyed by their UUID.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore connects to MongoDB, pings the server and ensures the
// created_at index used by List.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "ping mongo")
	}

	coll := client.Database(cfg.Database).Collection(CollectionName)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "create studies index")
	}

	return &MongoStore{client: client, coll: coll, timeout: timeout}, nil
}

// Create inserts s. A duplicate ID is InvalidInput.
func (m *MongoStore) Create(ctx context.Context, s *Study) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if _, err := m.coll.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "study %s already exists", s.ID)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "insert study %s", s.ID)
	}
	return nil
}

// Get loads a study by ID.
func (m *MongoStore) Get(ctx context.Context, id string) (*Study, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var s Study
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "find study %s", id)
	}
	return &s, nil
}

// List returns the newest studies first.
func (m *MongoStore) List(ctx context.Context, limit int) ([]*Study, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))

	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list studies")
	}
	var out []*Study
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode studies")
	}
	return out, nil
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
