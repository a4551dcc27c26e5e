package archive

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	errs "github.com/matzehuels/graphgen/pkg/errors"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "graphgen"
	DefaultCollection = "runs"
)

// MongoOptions configures a [MongoArchive].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoArchive stores records in a MongoDB collection, one document per run
// keyed by run ID.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoArchive connects to MongoDB, pings the primary and ensures the
// created_at index used by List exists.
func NewMongoArchive(ctx context.Context, opts MongoOptions) (*MongoArchive, error) {
	if opts.URI == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoArchive{client: client, coll: coll}, nil
}

// Save upserts the record.
func (a *MongoArchive) Save(ctx context.Context, r Record) error {
	_, err := a.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	return nil
}

// Get loads the record for runID.
func (a *MongoArchive) Get(ctx context.Context, runID string) (*Record, error) {
	var r Record
	err := a.coll.FindOne(ctx, bson.M{"_id": runID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.New(errs.ErrCodeNotFound, "run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	r.restoreSeed()
	return &r, nil
}

// List returns summaries of the newest runs.
func (a *MongoArchive) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"graph": 0})

	cur, err := a.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer cur.Close(ctx)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	out := make([]Summary, len(records))
	for i, r := range records {
		out[i] = r.Summarize()
	}
	return out, nil
}

// Close disconnects the client.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

var _ Archive = (*MongoArchive)(nil)
