// Package dto provides request and response shapes for the API.
package dto

import (
	"github.com/echoserve/echoserve/internal/store"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries an informational message, such as the
// duplicate-user notice.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExistsResponse answers the user existence check.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// PlatformStatsResponse holds approximate collection counts.
type PlatformStatsResponse struct {
	Users    int64 `json:"users"`
	Services int64 `json:"services"`
	Reviews  int64 `json:"reviews"`
}

// InsertResponse mirrors the store's insert acknowledgment.
type InsertResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResponse mirrors the store's update acknowledgment.
type UpdateResponse struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResponse mirrors the store's delete acknowledgment.
type DeleteResponse struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// CreateReviewRequest is the body for posting a review. The service
// title and image are never taken from the body; they are denormalized
// from the referenced service at creation time.
type CreateReviewRequest struct {
	ServiceID string `json:"serviceId"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName,omitempty"`
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
}

// ToInsertResponse converts a store insert result.
func ToInsertResponse(res *store.InsertResult) *InsertResponse {
	return &InsertResponse{Acknowledged: true, InsertedID: res.InsertedID.Hex()}
}

// ToUpdateResponse converts a store update result.
func ToUpdateResponse(res *store.UpdateResult) *UpdateResponse {
	return &UpdateResponse{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
}

// ToDeleteResponse converts a store delete result.
func ToDeleteResponse(res *store.DeleteResult) *DeleteResponse {
	return &DeleteResponse{Acknowledged: true, DeletedCount: res.DeletedCount}
}
