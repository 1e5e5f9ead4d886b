package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/echoserve/echoserve/internal/model"
)

// ListServices returns services, optionally filtered by owner email and
// capped at limit. An empty email means no filter; a limit of zero means
// no cap.
func (s *Store) ListServices(ctx context.Context, ownerEmail string, limit int64) ([]model.Service, error) {
	filter := bson.M{}
	if ownerEmail != "" {
		filter["userEmail"] = ownerEmail
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.services().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	services := make([]model.Service, 0)
	if err := cur.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

// GetService looks up one service by id. An absent id yields (nil, nil);
// a malformed id yields ErrInvalidID.
func (s *Store) GetService(ctx context.Context, id string) (*model.Service, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var svc model.Service
	err = s.services().FindOne(ctx, bson.M{"_id": oid}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

// InsertService inserts a new service listing.
func (s *Store) InsertService(ctx context.Context, svc *model.Service) (*InsertResult, error) {
	res, err := s.services().InsertOne(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert service: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return &InsertResult{InsertedID: oid}, nil
}

// UpdateService merge-patches the supplied display fields. Nil patch
// fields are left untouched in the document.
func (s *Store) UpdateService(ctx context.Context, id string, patch *model.ServicePatch) (*UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if patch.ServiceTitle != nil {
		set["serviceTitle"] = *patch.ServiceTitle
	}
	if patch.ServiceImage != nil {
		set["serviceImage"] = *patch.ServiceImage
	}
	if patch.CompanyName != nil {
		set["companyName"] = *patch.CompanyName
	}
	if patch.Website != nil {
		set["website"] = *patch.Website
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}

	res, err := s.services().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return &UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

// DeleteService removes a service by id. Deleting an absent id acks with
// a zero count.
func (s *Store) DeleteService(ctx context.Context, id string) (*DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	res, err := s.services().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("failed to delete service: %w", err)
	}
	return &DeleteResult{DeletedCount: res.DeletedCount}, nil
}
