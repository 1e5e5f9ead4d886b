package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Service is a listing owned by the user identified by UserEmail.
// Reads are public; mutations require the owner.
type Service struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserEmail    string             `bson:"userEmail" json:"userEmail"`
	ServiceTitle string             `bson:"serviceTitle" json:"serviceTitle"`
	ServiceImage string             `bson:"serviceImage" json:"serviceImage"`
	CompanyName  string             `bson:"companyName" json:"companyName"`
	Website      string             `bson:"website" json:"website"`
	Description  string             `bson:"description" json:"description"`
	Category     string             `bson:"category" json:"category"`
	Price        float64            `bson:"price" json:"price"`
}

// ServicePatch carries the mutable service fields for a merge-patch.
// Nil fields are left untouched in the stored document.
type ServicePatch struct {
	ServiceTitle *string  `json:"serviceTitle,omitempty"`
	ServiceImage *string  `json:"serviceImage,omitempty"`
	CompanyName  *string  `json:"companyName,omitempty"`
	Website      *string  `json:"website,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Price        *float64 `json:"price,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *ServicePatch) IsEmpty() bool {
	return p.ServiceTitle == nil && p.ServiceImage == nil && p.CompanyName == nil &&
		p.Website == nil && p.Description == nil && p.Category == nil && p.Price == nil
}
