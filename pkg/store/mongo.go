package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for the MongoDB experiment log.
const (
	DefaultURI        = "mongodb://localhost:27017/"
	DefaultDatabase   = "quantum_clinical_db"
	CollectionName    = "circuits"
	DefaultSelectWait = 2 * time.Second
)

// MongoOptions configures [OpenMongo].
type MongoOptions struct {
	URI      string
	Database string
	// ServerSelectionTimeout bounds how long operations wait for a server.
	ServerSelectionTimeout time.Duration
}

// MongoStore writes experiments to the circuits collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects and pings the server. Empty fields use the package
// defaults.
func OpenMongo(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		opts.URI = DefaultURI
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.ServerSelectionTimeout == 0 {
		opts.ServerSelectionTimeout = DefaultSelectWait
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.ServerSelectionTimeout).
		SetAppName("circuitview")
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(CollectionName),
	}, nil
}

// SaveExperiment inserts e.
func (s *MongoStore) SaveExperiment(ctx context.Context, e Experiment) error {
	if _, err := s.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert experiment: %w", err)
	}
	return nil
}

// Recent returns up to n experiments, newest first.
func (s *MongoStore) Recent(ctx context.Context, n int) ([]Experiment, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if n > 0 {
		findOpts.SetLimit(int64(n))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find experiments: %w", err)
	}
	var out []Experiment
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode experiments: %w", err)
	}
	return out, nil
}

// Close disconnects from the server.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
