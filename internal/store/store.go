// Package store provides the MongoDB access layer.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	servicesCollection = "services"
	reviewsCollection  = "reviews"
)

// Common errors for store operations.
var (
	// ErrInvalidID is returned when a path identifier is not a valid
	// ObjectID hex string. Malformed ids fail loudly instead of
	// silently matching nothing.
	ErrInvalidID = errors.New("invalid document id")
	// ErrEmailExists is returned when a user insert hits the unique
	// email index.
	ErrEmailExists = errors.New("email already exists")
)

// InsertResult acknowledges a single-document insert.
type InsertResult struct {
	InsertedID primitive.ObjectID
}

// UpdateResult acknowledges a single-document update.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// DeleteResult acknowledges a single-document delete. A delete of an
// absent id is not an error; DeletedCount is simply zero.
type DeleteResult struct {
	DeletedCount int64
}

// Counts holds approximate collection sizes for the stats endpoint.
type Counts struct {
	Users    int64
	Services int64
	Reviews  int64
}

// Store provides document access methods against a single logical database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// connect dials MongoDB, verifies the connection and ensures indexes.
func connect(ctx context.Context, uri, dbName string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

// ensureIndexes creates the unique index on users.email. Uniqueness lives
// in the store itself so two concurrent sign-ups cannot both insert.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	return nil
}

func (s *Store) users() *mongo.Collection    { return s.db.Collection(usersCollection) }
func (s *Store) services() *mongo.Collection { return s.db.Collection(servicesCollection) }
func (s *Store) reviews() *mongo.Collection  { return s.db.Collection(reviewsCollection) }

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// parseID converts a path identifier into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
