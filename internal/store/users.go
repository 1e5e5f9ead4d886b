package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/echoserve/echoserve/internal/model"
)

// CreateUser inserts a new user. The unique index on email turns a
// duplicate sign-up into ErrEmailExists instead of a second record.
func (s *Store) CreateUser(ctx context.Context, user *model.User) (*InsertResult, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := s.users().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return &InsertResult{InsertedID: oid}, nil
}

// UserExists reports whether a user with the given email is present.
func (s *Store) UserExists(ctx context.Context, email string) (bool, error) {
	err := s.users().FindOne(ctx, bson.M{"email": email}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return true, nil
}

// EstimatedCounts returns approximate sizes of the three collections.
// Estimates come from collection metadata and avoid full scans.
func (s *Store) EstimatedCounts(ctx context.Context) (*Counts, error) {
	users, err := s.users().EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	services, err := s.services().EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}

	reviews, err := s.reviews().EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	return &Counts{Users: users, Services: services, Reviews: reviews}, nil
}
