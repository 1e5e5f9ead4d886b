package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a rating of a service. ServiceTitle and ServiceImage are
// denormalized copies captured when the review is created; they are not
// kept in sync with later edits of the service.
type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ServiceID    string             `bson:"serviceId" json:"serviceId"`
	UserEmail    string             `bson:"userEmail" json:"userEmail"`
	UserName     string             `bson:"userName,omitempty" json:"userName,omitempty"`
	Text         string             `bson:"text" json:"text"`
	Rating       int                `bson:"rating" json:"rating"`
	ServiceTitle string             `bson:"serviceTitle" json:"serviceTitle"`
	ServiceImage string             `bson:"serviceImage" json:"serviceImage"`
	Date         time.Time          `bson:"date" json:"date"`
}

// ReviewPatch carries the mutable review fields for a merge-patch.
// The stored date is refreshed on every successful update.
type ReviewPatch struct {
	Text   *string `json:"text,omitempty"`
	Rating *int    `json:"rating,omitempty"`
}
