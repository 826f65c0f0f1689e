package storage

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "polaris"
	DefaultMongoCollection = "radars"
)

// MongoStore keeps records in a MongoDB collection, one document per radar
// with the record id as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
	owned  bool
}

// MongoOption configures a [MongoStore].
type MongoOption func(*mongoConfig)

type mongoConfig struct {
	database   string
	collection string
}

// WithMongoDatabase selects the database. Default: polaris.
func WithMongoDatabase(name string) MongoOption {
	return func(c *mongoConfig) { c.database = name }
}

// WithMongoCollection selects the collection. Default: radars.
func WithMongoCollection(name string) MongoOption {
	return func(c *mongoConfig) { c.collection = name }
}

// NewMongoStore connects to uri, pings the server and returns a store that
// owns the connection.
func NewMongoStore(ctx context.Context, uri string, opts ...MongoOption) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	s := NewMongoStoreFromClient(client, opts...)
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client. Close does not
// disconnect it.
func NewMongoStoreFromClient(client *mongo.Client, opts ...MongoOption) *MongoStore {
	cfg := mongoConfig{database: DefaultMongoDatabase, collection: DefaultMongoCollection}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.database).Collection(cfg.collection),
		now:    time.Now,
	}
}

func (s *MongoStore) Create(ctx context.Context, doc *document.Document) (*Record, error) {
	rec, err := newRecord(doc, s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return nil, err
	}
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "insert radar")
	}
	return rec, nil
}

func (s *MongoStore) Put(ctx context.Context, id string, doc *document.Document) (*Record, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no document")
	}
	update := bson.M{"$set": bson.M{
		"document":   doc,
		"updated_at": s.now().UTC().Truncate(time.Millisecond),
	}}
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec Record
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after).Decode(&rec)
	if err != nil {
		return nil, s.classify(err, id, "update")
	}
	return &rec, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var rec Record
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, s.classify(err, id, "get")
	}
	return &rec, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return s.classify(err, id, "delete")
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Record, error) {
	sort := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, sort)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list radars")
	}
	var out []*Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list radars")
	}
	return out, nil
}

// Close disconnects the client if the store created it.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) classify(err error, id, op string) error {
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return notFound(id)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s radar %s", op, id)
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "%s radar %s", op, id)
}
