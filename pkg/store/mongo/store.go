package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Settings configures the document store connection.
type Settings struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// IndexField is one field of a dimension index, in order.
type IndexField struct {
	Name  string
	Order int // 1 ascending, -1 descending
}

// Store is the single adapter through which the engine talks to MongoDB.
// One Store is constructed at process start and shared; the driver pools
// connections internally.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

func Connect(ctx context.Context, settings Settings) (*Store, error) {
	if settings.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if settings.Database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}
	timeout := settings.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(settings.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Store{
		client:  client,
		db:      client.Database(settings.Database),
		timeout: timeout,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Aggregate runs a pipeline against a collection and decodes every document.
func (s *Store) Aggregate(ctx context.Context, collection string, pipeline []map[string]any) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var results []map[string]any
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode aggregate results from %s: %w", collection, err)
	}
	return results, nil
}

func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// SampleOne fetches an arbitrary document, or nil when the collection is
// empty.
func (s *Store) SampleOne(ctx context.Context, collection string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc map[string]any
	err := s.db.Collection(collection).FindOne(ctx, bson.D{}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sample one from %s: %w", collection, err)
	}
	return doc, nil
}

// FindOneSorted fetches the first document when sorting by the given field
// descending. Used to read rollup freshness off the build timestamp.
func (s *Store) FindOneSorted(ctx context.Context, collection, sortField string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: sortField, Value: -1}})
	var doc map[string]any
	err := s.db.Collection(collection).FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", collection, err)
	}
	return doc, nil
}

// SetFields updates a single document by id.
func (s *Store) SetFields(ctx context.Context, collection string, id any, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Drop(ctx context.Context, collection string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.Collection(collection).Drop(ctx); err != nil {
		return fmt.Errorf("drop %s: %w", collection, err)
	}
	return nil
}

func (s *Store) InsertMany(ctx context.Context, collection string, docs []map[string]any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload := make([]any, len(docs))
	for i, d := range docs {
		payload[i] = d
	}
	res, err := s.db.Collection(collection).InsertMany(ctx, payload)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return len(res.InsertedIDs), nil
}

// CreateIndexes creates one index per key set.
func (s *Store) CreateIndexes(ctx context.Context, collection string, indexes [][]IndexField) error {
	if len(indexes) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, fields := range indexes {
		keys := bson.D{}
		for _, f := range fields {
			keys = append(keys, bson.E{Key: f.Name, Value: f.Order})
		}
		models = append(models, mongo.IndexModel{Keys: keys})
	}
	if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", collection, err)
	}
	return nil
}

// Rename atomically replaces the target collection with the source. The
// rollup builder relies on this so readers never observe a partial rollup.
func (s *Store) Rename(ctx context.Context, from, to string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := bson.D{
		{Key: "renameCollection", Value: s.db.Name() + "." + from},
		{Key: "to", Value: s.db.Name() + "." + to},
		{Key: "dropTarget", Value: true},
	}
	if err := s.client.Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}
	return nil
}
