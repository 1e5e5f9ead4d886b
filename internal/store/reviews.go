package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/echoserve/echoserve/internal/model"
)

// ListReviews returns reviews filtered by reviewer email and/or service
// id, newest first. Empty filters are ignored.
func (s *Store) ListReviews(ctx context.Context, userEmail, serviceID string) ([]model.Review, error) {
	filter := bson.M{}
	if userEmail != "" {
		filter["userEmail"] = userEmail
	}
	if serviceID != "" {
		filter["serviceId"] = serviceID
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cur, err := s.reviews().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]model.Review, 0)
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// GetReview looks up one review by id. An absent id yields (nil, nil).
func (s *Store) GetReview(ctx context.Context, id string) (*model.Review, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var rev model.Review
	err = s.reviews().FindOne(ctx, bson.M{"_id": oid}).Decode(&rev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &rev, nil
}

// InsertReview inserts a review. The caller is responsible for the
// denormalized service fields; the date is stamped here if unset.
func (s *Store) InsertReview(ctx context.Context, rev *model.Review) (*InsertResult, error) {
	if rev.Date.IsZero() {
		rev.Date = time.Now().UTC()
	}

	res, err := s.reviews().InsertOne(ctx, rev)
	if err != nil {
		return nil, fmt.Errorf("failed to insert review: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return &InsertResult{InsertedID: oid}, nil
}

// UpdateReview merge-patches text and rating, refreshing the date on
// every successful update.
func (s *Store) UpdateReview(ctx context.Context, id string, patch *model.ReviewPatch) (*UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"date": time.Now().UTC()}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}

	res, err := s.reviews().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return &UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// DeleteReview removes a review by id. Deleting an absent id acks with a
// zero count.
func (s *Store) DeleteReview(ctx context.Context, id string) (*DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	res, err := s.reviews().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("failed to delete review: %w", err)
	}
	return &DeleteResult{DeletedCount: res.DeletedCount}, nil
}
